package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus-assist/internal/ai"
	"campus-assist/internal/speech"
	"campus-assist/internal/transport/http/response"
)

type SpeechHandler struct {
	sttClient   *ai.OpenAICompatibleClient
	sttConfig   ai.TranscriptionConfig
	synthesizer *speech.Synthesizer
	audioDir    string
}

type TTSRequest struct {
	Text string `json:"text" binding:"required"`
	Lang string `json:"lang"`
}

func NewSpeechHandler(sttClient *ai.OpenAICompatibleClient, sttConfig ai.TranscriptionConfig, synthesizer *speech.Synthesizer, audioDir string) *SpeechHandler {
	if audioDir == "" {
		audioDir = "static/audio"
	}
	return &SpeechHandler{
		sttClient:   sttClient,
		sttConfig:   sttConfig,
		synthesizer: synthesizer,
		audioDir:    audioDir,
	}
}

func (h *SpeechHandler) SpeechToText(c *gin.Context) {
	fh, err := c.FormFile("audio")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "audio file is missing")
		return
	}
	lang := c.PostForm("lang")

	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "open audio file failed")
		return
	}
	defer f.Close()

	text, err := h.sttClient.Transcribe(c.Request.Context(), h.sttConfig, fh.Filename, f, lang)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		return
	}

	response.OK(c, gin.H{"text": text})
}

func (h *SpeechHandler) TextToSpeech(c *gin.Context) {
	var req TTSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "text is required")
		return
	}

	audio, err := h.synthesizer.Synthesize(c.Request.Context(), req.Text, req.Lang)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		return
	}

	if err := os.MkdirAll(h.audioDir, 0o755); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create audio dir failed")
		return
	}
	name := uuid.NewString() + ".mp3"
	if err := os.WriteFile(filepath.Join(h.audioDir, name), audio, 0o644); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "write audio file failed")
		return
	}

	// The browser fetches the clip over HTTP, so the response carries the
	// URL path under the static mount, not the on-disk location.
	response.OK(c, gin.H{"audio_path": path.Join("/", filepath.ToSlash(h.audioDir), name)})
}
