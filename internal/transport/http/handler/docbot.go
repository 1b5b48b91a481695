package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-assist/internal/app"
	"campus-assist/internal/transport/http/response"
)

type DocBotHandler struct {
	docBotService *app.DocBotService
	maxFileBytes  int64
}

type DocBotQueryRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

func NewDocBotHandler(docBotService *app.DocBotService, maxFileMB int) *DocBotHandler {
	if maxFileMB <= 0 {
		maxFileMB = 10
	}
	return &DocBotHandler{
		docBotService: docBotService,
		maxFileBytes:  int64(maxFileMB) << 20,
	}
}

func (h *DocBotHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files uploaded")
		return
	}

	var files []app.UploadFile
	var opened []interface{ Close() error }
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, fh := range fileHeaders {
		if fh.Size > h.maxFileBytes {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large: "+fh.Filename)
			return
		}
		f, openErr := fh.Open()
		if openErr != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "open uploaded file failed")
			return
		}
		opened = append(opened, f)
		files = append(files, app.UploadFile{Name: fh.Filename, Reader: f})
	}

	sessionID, err := h.docBotService.Upload(c.Request.Context(), files)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoFiles):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files uploaded")
		case errors.Is(err, app.ErrNoValidText):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no valid text extracted")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		}
		return
	}

	response.OK(c, gin.H{"session_id": sessionID})
}

func (h *DocBotHandler) Query(c *gin.Context) {
	var req DocBotQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "query and session_id are required")
		return
	}

	answer, err := h.docBotService.Query(c.Request.Context(), app.DocBotQueryInput{
		SessionID: req.SessionID,
		Question:  req.Query,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "query and session_id are required")
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusBadRequest, response.CodeSessionNotFound, "unknown session_id, please upload documents again")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		}
		return
	}

	response.OK(c, gin.H{"answer": answer})
}
