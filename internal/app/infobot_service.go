package app

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"campus-assist/internal/faq"
	"campus-assist/internal/lang"
	"campus-assist/internal/model"
)

// FAQSource loads the audience-keyed question/answer set.
type FAQSource interface {
	Load(audience string) (map[string]string, error)
}

// SemanticSearcher is the embedding-based FAQ matcher.
type SemanticSearcher interface {
	Match(ctx context.Context, query string, faqs map[string]string) (string, bool, error)
}

// QueryTranslator converts text between languages; failures are treated as
// fail-open by this service.
type QueryTranslator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// SourceScraper collects relevant text blocks from the fixed source URLs.
type SourceScraper interface {
	Scrape(ctx context.Context, query string, urls []string) []string
}

// InfoBotService resolves a free-text query through a fixed fallback chain:
// fuzzy FAQ match, semantic FAQ match, web scrape, fixed fallback message.
// The first hit wins and is translated back into the query's language.
type InfoBotService struct {
	faqs       FAQSource
	semantic   SemanticSearcher
	translator QueryTranslator
	scraper    SourceScraper
	publisher  AsyncChatLogPublisher
	logger     *zap.Logger

	sourceURLs      []string
	fallbackMessage string
}

func NewInfoBotService(
	faqs FAQSource,
	semantic SemanticSearcher,
	translator QueryTranslator,
	scraper SourceScraper,
	publisher AsyncChatLogPublisher,
	logger *zap.Logger,
	sourceURLs []string,
	fallbackMessage string,
) *InfoBotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallbackMessage == "" {
		fallbackMessage = "Sorry, I couldn't find the information you requested."
	}
	return &InfoBotService{
		faqs:            faqs,
		semantic:        semantic,
		translator:      translator,
		scraper:         scraper,
		publisher:       publisher,
		logger:          logger,
		sourceURLs:      sourceURLs,
		fallbackMessage: fallbackMessage,
	}
}

type ResolveInput struct {
	Query    string
	Audience string // empty defaults to staff
}

type ResolveResult struct {
	Response string
	Language string
	Resolver string // faq, semantic, scrape, fallback
}

func (s *InfoBotService) Resolve(ctx context.Context, input ResolveInput) (*ResolveResult, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, ErrInvalidInput
	}

	audience := strings.TrimSpace(input.Audience)
	if audience == "" {
		audience = faq.AudienceStaff
	}

	faqs, err := s.faqs.Load(audience)
	if err != nil {
		if errors.Is(err, faq.ErrUnknownAudience) {
			return nil, err
		}
		// A missing or malformed FAQ file degrades to an empty set so the
		// scrape fallback still gets a chance.
		s.logger.Warn("load faqs failed", zap.String("audience", audience), zap.Error(err))
		faqs = map[string]string{}
	}

	detected := lang.Detect(query)
	working := s.translate(ctx, query, detected, lang.DefaultLanguage)

	if answer, ok := faq.MatchFuzzy(working, faqs); ok {
		return s.respond(ctx, audience, detected, query, answer, "faq"), nil
	}

	if s.semantic != nil {
		answer, ok, matchErr := s.semantic.Match(ctx, working, faqs)
		if matchErr != nil {
			s.logger.Error("semantic search failed", zap.Error(matchErr))
		} else if ok {
			return s.respond(ctx, audience, detected, query, answer, "semantic"), nil
		}
	}

	if s.scraper != nil && len(s.sourceURLs) > 0 {
		sections := s.scraper.Scrape(ctx, working, s.sourceURLs)
		if best, ok := faq.BestPartialMatch(working, sections); ok {
			return s.respond(ctx, audience, detected, query, best, "scrape"), nil
		}
	}

	return s.respond(ctx, audience, detected, query, s.fallbackMessage, "fallback"), nil
}

func (s *InfoBotService) respond(ctx context.Context, audience, detected, query, answer, resolver string) *ResolveResult {
	translated := s.translate(ctx, answer, lang.DefaultLanguage, detected)

	s.publishResolveLog(ctx, model.ChatLog{
		Bot:      "infobot",
		Audience: audience,
		Language: detected,
		Query:    query,
		Response: translated,
		Resolver: resolver,
	})

	return &ResolveResult{
		Response: translated,
		Language: detected,
		Resolver: resolver,
	}
}

// translate is the fail-open translation step: any failure returns the
// input text unchanged with a logged warning.
func (s *InfoBotService) translate(ctx context.Context, text, source, target string) string {
	if s.translator == nil || source == target {
		return text
	}
	translated, err := s.translator.Translate(ctx, text, source, target)
	if err != nil {
		s.logger.Warn("translation failed",
			zap.String("source", source),
			zap.String("target", target),
			zap.Error(err),
		)
		return text
	}
	return translated
}

func (s *InfoBotService) publishResolveLog(ctx context.Context, entry model.ChatLog) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, entry); err != nil {
		s.logger.Warn("publish chat log failed", zap.Error(err))
	}
}
