package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-assist/internal/app"
	"campus-assist/internal/faq"
	"campus-assist/internal/transport/http/response"
)

type InfoBotHandler struct {
	infoBotService *app.InfoBotService
}

type InfoBotQueryRequest struct {
	Query    string `json:"query" binding:"required"`
	Audience string `json:"audience"` // staff or visitor; defaults to staff
}

func NewInfoBotHandler(infoBotService *app.InfoBotService) *InfoBotHandler {
	return &InfoBotHandler{infoBotService: infoBotService}
}

func (h *InfoBotHandler) Query(c *gin.Context) {
	var req InfoBotQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "query parameter is missing")
		return
	}

	result, err := h.infoBotService.Resolve(c.Request.Context(), app.ResolveInput{
		Query:    req.Query,
		Audience: req.Audience,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "query parameter is missing")
		case errors.Is(err, faq.ErrUnknownAudience):
			response.Error(c, http.StatusBadRequest, response.CodeUnknownAudience, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		}
		return
	}

	response.OK(c, gin.H{
		"response": result.Response,
		"language": result.Language,
	})
}
