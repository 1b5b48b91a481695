package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"campus-assist/internal/ai"
	"campus-assist/internal/app"
	"campus-assist/internal/model"
	"campus-assist/internal/transport/http/response"
)

type memDocSessions struct {
	sessions map[string]*model.DocSession
}

func (s *memDocSessions) Create(session *model.DocSession) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *memDocSessions) GetByID(id string) (*model.DocSession, error) {
	return s.sessions[id], nil
}

func (s *memDocSessions) PurgeExpired(now time.Time) ([]string, error) {
	return nil, nil
}

type memDocChunks struct {
	chunks []model.DocChunk
}

func (s *memDocChunks) CreateBatch(chunks []model.DocChunk) error {
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *memDocChunks) ListBySessionID(sessionID string) ([]model.DocChunk, error) {
	var out []model.DocChunk
	for _, c := range s.chunks {
		if c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memDocChunks) DeleteBySessionIDs(sessionIDs []string) error { return nil }

type cannedLLM struct {
	answer string
}

func (l *cannedLLM) Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	return l.answer, nil
}

type unitEmbedder struct{}

func (unitEmbedder) Embed(ctx context.Context, cfg ai.EmbeddingConfig, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (unitEmbedder) EmbedBatch(ctx context.Context, cfg ai.EmbeddingConfig, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

var (
	_ app.DocSessionStore = (*memDocSessions)(nil)
	_ app.DocChunkStore   = (*memDocChunks)(nil)
	_ app.LLMClient       = (*cannedLLM)(nil)
	_ app.EmbeddingClient = (unitEmbedder{})
)

func newDocBotTestRouter(sessions *memDocSessions, chunks *memDocChunks) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := app.NewDocBotService(
		sessions, chunks, nil, nil,
		&cannedLLM{answer: "from the document"}, unitEmbedder{},
		ai.ChatConfig{}, ai.EmbeddingConfig{}, nil, app.DocBotOptions{},
	)
	h := NewDocBotHandler(svc, 10)

	router := gin.New()
	router.POST("/docbot/upload", h.Upload)
	router.POST("/docbot/query", h.Query)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeAPIResponse(t *testing.T, w *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()
	var resp response.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return resp
}

func seedDocSession(sessions *memDocSessions, chunks *memDocChunks, id string) {
	sessions.sessions[id] = &model.DocSession{
		ID:        id,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	chunk := model.DocChunk{SessionID: id, Source: "handbook.pdf", Content: "the answer lives here"}
	chunk.SetEmbedding([]float32{1, 0, 0})
	chunks.chunks = append(chunks.chunks, chunk)
}

func TestDocBotQueryAnswersForKnownSession(t *testing.T) {
	sessions := &memDocSessions{sessions: map[string]*model.DocSession{}}
	chunks := &memDocChunks{}
	seedDocSession(sessions, chunks, "session-1")
	router := newDocBotTestRouter(sessions, chunks)

	w := postJSON(router, "/docbot/query", map[string]string{
		"query":      "where does the answer live?",
		"session_id": "session-1",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeAPIResponse(t, w)
	if resp.Code != response.CodeOK {
		t.Fatalf("expected code %d, got %d", response.CodeOK, resp.Code)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	if data["answer"] != "from the document" {
		t.Fatalf("unexpected answer: %v", data["answer"])
	}
}

func TestDocBotQueryUnknownSession(t *testing.T) {
	sessions := &memDocSessions{sessions: map[string]*model.DocSession{}}
	router := newDocBotTestRouter(sessions, &memDocChunks{})

	w := postJSON(router, "/docbot/query", map[string]string{
		"query":      "anything",
		"session_id": "nope",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := decodeAPIResponse(t, w)
	if resp.Code != response.CodeSessionNotFound {
		t.Fatalf("expected code %d, got %d", response.CodeSessionNotFound, resp.Code)
	}
}

func TestDocBotQueryExpiredSessionIsUnknown(t *testing.T) {
	sessions := &memDocSessions{sessions: map[string]*model.DocSession{
		"stale": {ID: "stale", ExpiresAt: time.Now().Add(-time.Minute)},
	}}
	router := newDocBotTestRouter(sessions, &memDocChunks{})

	w := postJSON(router, "/docbot/query", map[string]string{
		"query":      "anything",
		"session_id": "stale",
	})

	resp := decodeAPIResponse(t, w)
	if w.Code != http.StatusBadRequest || resp.Code != response.CodeSessionNotFound {
		t.Fatalf("expected 400/%d, got %d/%d", response.CodeSessionNotFound, w.Code, resp.Code)
	}
}

func TestDocBotQueryMissingFields(t *testing.T) {
	router := newDocBotTestRouter(&memDocSessions{sessions: map[string]*model.DocSession{}}, &memDocChunks{})

	w := postJSON(router, "/docbot/query", map[string]string{"query": "no session"})

	resp := decodeAPIResponse(t, w)
	if w.Code != http.StatusBadRequest || resp.Code != response.CodeBadRequest {
		t.Fatalf("expected 400/%d, got %d/%d", response.CodeBadRequest, w.Code, resp.Code)
	}
}

func TestDocBotUploadWithoutFiles(t *testing.T) {
	router := newDocBotTestRouter(&memDocSessions{sessions: map[string]*model.DocSession{}}, &memDocChunks{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("note", "no files attached")
	_ = mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/docbot/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	resp := decodeAPIResponse(t, w)
	if w.Code != http.StatusBadRequest || resp.Code != response.CodeBadRequest {
		t.Fatalf("expected 400/%d, got %d/%d", response.CodeBadRequest, w.Code, resp.Code)
	}
}

func TestDocBotUploadUnsupportedFilesOnly(t *testing.T) {
	router := newDocBotTestRouter(&memDocSessions{sessions: map[string]*model.DocSession{}}, &memDocChunks{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "notes.txt")
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	_, _ = fw.Write([]byte("plain text is not a supported document"))
	_ = mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/docbot/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	resp := decodeAPIResponse(t, w)
	if w.Code != http.StatusBadRequest || resp.Code != response.CodeBadRequest {
		t.Fatalf("expected 400/%d, got %d/%d", response.CodeBadRequest, w.Code, resp.Code)
	}
	if resp.Message != "no valid text extracted" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}
