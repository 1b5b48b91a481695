package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-assist/internal/ai"
	"campus-assist/internal/model"
	"campus-assist/internal/pkg/docextract"
)

const (
	defaultChunkSize    = 512
	defaultChunkOverlap = 64
	defaultTopK         = 5
	embeddingBatchSize  = 10 // hosted embedding APIs often limit batch size

	noResponseText = "No response generated."

	docBotSystemPrompt = "You are a helpful assistant. Answer the question using the provided context. If you don't know, say so."
)

var (
	ErrNoFiles         = errors.New("no files uploaded")
	ErrNoValidText     = errors.New("no valid text extracted")
	ErrSessionNotFound = errors.New("unknown or expired session")
	ErrNoChunks        = errors.New("no chunks found for session")
)

type LLMClient interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

type EmbeddingClient interface {
	Embed(ctx context.Context, cfg ai.EmbeddingConfig, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, cfg ai.EmbeddingConfig, texts []string) ([][]float32, error)
}

type DocSessionStore interface {
	Create(session *model.DocSession) error
	GetByID(id string) (*model.DocSession, error)
	PurgeExpired(now time.Time) ([]string, error)
}

type DocChunkStore interface {
	CreateBatch(chunks []model.DocChunk) error
	ListBySessionID(sessionID string) ([]model.DocChunk, error)
	DeleteBySessionIDs(sessionIDs []string) error
}

type ConversationHistory interface {
	GetHistory(ctx context.Context, sessionID string) ([]ai.ChatMessage, bool, error)
	SetHistory(ctx context.Context, sessionID string, messages []ai.ChatMessage) error
	DeleteHistory(ctx context.Context, sessionID string) error
}

type AsyncChatLogPublisher interface {
	Publish(ctx context.Context, entry model.ChatLog) error
}

type DocBotService struct {
	sessionRepo DocSessionStore
	chunkRepo   DocChunkStore
	history     ConversationHistory
	publisher   AsyncChatLogPublisher
	llmClient   LLMClient
	embClient   EmbeddingClient
	chatConfig  ai.ChatConfig
	embConfig   ai.EmbeddingConfig
	logger      *zap.Logger

	sessionTTL   time.Duration
	chunkSize    int
	chunkOverlap int
	topK         int
}

type DocBotOptions struct {
	SessionTTL   time.Duration
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

func NewDocBotService(
	sessionRepo DocSessionStore,
	chunkRepo DocChunkStore,
	history ConversationHistory,
	publisher AsyncChatLogPublisher,
	llmClient LLMClient,
	embClient EmbeddingClient,
	chatConfig ai.ChatConfig,
	embConfig ai.EmbeddingConfig,
	logger *zap.Logger,
	opts DocBotOptions,
) *DocBotService {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	if opts.ChunkOverlap < 0 || opts.ChunkOverlap >= opts.ChunkSize {
		opts.ChunkOverlap = defaultChunkOverlap
	}
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocBotService{
		sessionRepo:  sessionRepo,
		chunkRepo:    chunkRepo,
		history:      history,
		publisher:    publisher,
		llmClient:    llmClient,
		embClient:    embClient,
		chatConfig:   chatConfig,
		embConfig:    embConfig,
		logger:       logger,
		sessionTTL:   opts.SessionTTL,
		chunkSize:    opts.ChunkSize,
		chunkOverlap: opts.ChunkOverlap,
		topK:         opts.TopK,
	}
}

// UploadFile is one uploaded document stream.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// Upload extracts text from the supported files, chunks and embeds it, and
// stores everything under a fresh session identifier. Unsupported
// extensions are skipped with a warning; files without extractable text are
// dropped.
func (s *DocBotService) Upload(ctx context.Context, files []UploadFile) (string, error) {
	if len(files) == 0 {
		return "", ErrNoFiles
	}

	type extracted struct {
		source string
		text   string
	}
	var texts []extracted
	for _, f := range files {
		text, err := docextract.ExtractText(f.Name, f.Reader)
		if err != nil {
			if errors.Is(err, docextract.ErrUnsupportedType) {
				s.logger.Warn("skip unsupported file type", zap.String("file", f.Name))
			} else {
				s.logger.Error("extract file failed", zap.String("file", f.Name), zap.Error(err))
			}
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		texts = append(texts, extracted{source: f.Name, text: text})
	}
	if len(texts) == 0 {
		return "", ErrNoValidText
	}

	var chunks []model.DocChunk
	var contents []string
	for _, t := range texts {
		for _, piece := range chunkText(t.text, s.chunkSize, s.chunkOverlap) {
			chunks = append(chunks, model.DocChunk{
				Source:  t.source,
				Content: piece,
			})
			contents = append(contents, piece)
		}
	}

	// Call the embedding API in batches to avoid provider limits.
	var embeddings [][]float32
	for i := 0; i < len(contents); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(contents) {
			end = len(contents)
		}
		batched, err := s.embClient.EmbedBatch(ctx, s.embConfig, contents[i:end])
		if err != nil {
			return "", err
		}
		embeddings = append(embeddings, batched...)
	}
	if len(embeddings) != len(chunks) {
		return "", errors.New("embedding count mismatch")
	}

	sessionID := uuid.NewString()
	session := &model.DocSession{
		ID:        sessionID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return "", err
	}

	for i := range chunks {
		chunks[i].SessionID = sessionID
		chunks[i].SetEmbedding(embeddings[i])
	}
	if err := s.chunkRepo.CreateBatch(chunks); err != nil {
		return "", err
	}

	s.logger.Info("docbot session created",
		zap.String("session_id", sessionID),
		zap.Int("files", len(texts)),
		zap.Int("chunks", len(chunks)),
	)
	return sessionID, nil
}

type DocBotQueryInput struct {
	SessionID string
	Question  string
}

// Query retrieves the most similar chunks for the session, conditions the
// LLM on them plus the cached conversation history, and returns the answer.
func (s *DocBotService) Query(ctx context.Context, input DocBotQueryInput) (string, error) {
	question := strings.TrimSpace(input.Question)
	sessionID := strings.TrimSpace(input.SessionID)
	if question == "" || sessionID == "" {
		return "", ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return "", err
	}
	if session == nil || session.Expired(time.Now()) {
		return "", ErrSessionNotFound
	}

	chunks, err := s.chunkRepo.ListBySessionID(sessionID)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", ErrNoChunks
	}

	queryEmb, err := s.embClient.Embed(ctx, s.embConfig, question)
	if err != nil {
		return "", err
	}

	top := topChunksByCosine(chunks, queryEmb, s.topK)

	var contextBlock strings.Builder
	for _, c := range top {
		contextBlock.WriteString("\n---\n")
		contextBlock.WriteString(c.Content)
	}
	contextBlock.WriteString("\n---")

	messages := []ai.ChatMessage{{Role: "system", Content: docBotSystemPrompt}}
	if s.history != nil {
		prior, found, histErr := s.history.GetHistory(ctx, sessionID)
		if histErr != nil {
			s.logger.Warn("load conversation history failed", zap.String("session_id", sessionID), zap.Error(histErr))
		} else if found {
			messages = append(messages, prior...)
		}
	}
	messages = append(messages, ai.ChatMessage{
		Role:    "user",
		Content: "Context:" + contextBlock.String() + "\n\nQuestion: " + question + "\n\nAnswer:",
	})

	answer, err := s.llmClient.Complete(ctx, s.chatConfig, messages)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = noResponseText
	}

	if s.history != nil {
		turns := messages[1:] // keep the system prompt out of the cache
		turns = append(turns, ai.ChatMessage{Role: "assistant", Content: answer})
		if histErr := s.history.SetHistory(ctx, sessionID, turns); histErr != nil {
			s.logger.Warn("store conversation history failed", zap.String("session_id", sessionID), zap.Error(histErr))
		}
	}

	s.publishLog(ctx, model.ChatLog{
		Bot:       "docbot",
		SessionID: sessionID,
		Query:     question,
		Response:  answer,
		Resolver:  "rag",
	})
	return answer, nil
}

// PurgeExpiredSessions drops expired sessions, their chunks, and their
// cached history. Invoked periodically from bootstrap.
func (s *DocBotService) PurgeExpiredSessions(ctx context.Context) {
	ids, err := s.sessionRepo.PurgeExpired(time.Now())
	if err != nil {
		s.logger.Error("purge expired sessions failed", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		return
	}
	if err := s.chunkRepo.DeleteBySessionIDs(ids); err != nil {
		s.logger.Error("delete chunks of expired sessions failed", zap.Error(err))
	}
	if s.history != nil {
		for _, id := range ids {
			if err := s.history.DeleteHistory(ctx, id); err != nil {
				s.logger.Warn("delete history of expired session failed", zap.String("session_id", id), zap.Error(err))
			}
		}
	}
	s.logger.Info("purged expired docbot sessions", zap.Int("count", len(ids)))
}

func (s *DocBotService) publishLog(ctx context.Context, entry model.ChatLog) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, entry); err != nil {
		s.logger.Warn("publish chat log failed", zap.Error(err))
	}
}

// chunkText splits text into overlapping chunks by rune count.
func chunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap >= size {
		overlap = size / 2
	}
	var chunks []string
	runes := []rune(text)
	for i := 0; i < len(runes); {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		// Once a chunk reaches the end of the text, every further window
		// would be a suffix of it.
		if end == len(runes) {
			break
		}
		i += size - overlap
	}
	return chunks
}
