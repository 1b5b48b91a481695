package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"campus-assist/internal/ai"
	appsvc "campus-assist/internal/app"
	"campus-assist/internal/bootstrap"
	"campus-assist/internal/cache"
	"campus-assist/internal/faq"
	"campus-assist/internal/lang"
	rabbitmqClient "campus-assist/internal/platform/rabbitmq"
	"campus-assist/internal/repository"
	"campus-assist/internal/scrape"
	"campus-assist/internal/speech"
	"campus-assist/internal/transport/http/handler"
	"campus-assist/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", "web/index.html")
	router.StaticFile("/login", "web/login.html")
	router.StaticFile("/register", "web/register.html")
	router.StaticFile("/chat", "web/chat.html")
	router.Static("/static", "static")
	router.GET("/healthz", healthHandler.Check)

	cfg := app.Config

	studentRepo := repository.NewStudentRepository(app.MySQL)
	staffRepo := repository.NewStaffRepository(app.MySQL)
	authService := appsvc.NewAuthService(
		studentRepo,
		staffRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
	)
	authHandler := handler.NewAuthHandler(authService, cfg.Auth.CookieName, cfg.Auth.JWTExpireMinute*60)
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	aiClient := ai.NewOpenAICompatibleClient()
	embConfig := ai.EmbeddingConfig{
		BaseURL: cfg.Embedding.BaseURL,
		APIKey:  cfg.Embedding.APIKey,
		Model:   cfg.Embedding.Model,
	}
	publisher := rabbitmqClient.NewChatLogPublisher(app.MQConn, cfg.RabbitMQ.ChatLogQueue)

	infoBotService := appsvc.NewInfoBotService(
		faq.NewStore(cfg.InfoBot.FAQDir),
		faq.NewSemanticMatcher(
			&ai.BoundEmbedder{Client: aiClient, Config: embConfig},
			cache.NewFAQEmbeddingCache(app.Redis, cfg.Embedding.Model, time.Duration(cfg.Redis.FAQEmbTTLSeconds)*time.Second),
		),
		lang.NewTranslator(lang.TranslatorConfig{
			BaseURL: cfg.Translator.BaseURL,
			APIKey:  cfg.Translator.APIKey,
			Timeout: time.Duration(cfg.Translator.TimeoutSeconds) * time.Second,
		}),
		scrape.NewScraper(time.Duration(cfg.InfoBot.ScrapeTimeoutSeconds)*time.Second, app.Logger),
		publisher,
		app.Logger,
		cfg.InfoBot.SourceURLs,
		cfg.InfoBot.FallbackMessage,
	)
	infoBotHandler := handler.NewInfoBotHandler(infoBotService)
	router.POST("/infobot/query", infoBotHandler.Query)

	authRequired := middleware.AuthJWT(cfg.Auth.JWTSecret, cfg.Auth.CookieName)

	docBotHandler := handler.NewDocBotHandler(app.DocBot, cfg.DocBot.MaxFileMB)
	docBotGroup := router.Group("/docbot")
	docBotGroup.Use(authRequired)
	docBotGroup.POST("/upload", docBotHandler.Upload)
	docBotGroup.POST("/query", docBotHandler.Query)

	speechHandler := handler.NewSpeechHandler(
		aiClient,
		ai.TranscriptionConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.STTModel,
		},
		speech.NewSynthesizer(speech.SynthesizerConfig{BaseURL: cfg.Speech.TTSBaseURL}),
		cfg.Speech.AudioDir,
	)
	router.POST("/stt", authRequired, speechHandler.SpeechToText)
	router.POST("/tts", authRequired, speechHandler.TextToSpeech)

	return router
}
