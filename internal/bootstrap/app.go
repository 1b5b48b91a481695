package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-assist/internal/ai"
	"campus-assist/internal/app"
	"campus-assist/internal/cache"
	"campus-assist/internal/config"
	"campus-assist/internal/model"
	mysqlClient "campus-assist/internal/platform/mysql"
	rabbitmqClient "campus-assist/internal/platform/rabbitmq"
	redisClient "campus-assist/internal/platform/redis"
	"campus-assist/internal/repository"
	"campus-assist/internal/worker"
)

const sessionPurgeInterval = 15 * time.Minute

type App struct {
	Config        *config.Config
	Logger        *zap.Logger
	MySQL         *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	ChatLogWorker *worker.ChatLogPersistWorker

	// DocBot is built here rather than in the router because the session
	// purge ticker needs it for the whole process lifetime.
	DocBot *app.DocBotService

	StartedAt   time.Time
	purgeCancel context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		logger.Warn("GROQ_API_KEY is not set; DocBot answers will fail until it is configured")
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.Student{},
		&model.Staff{},
		&model.DocSession{},
		&model.DocChunk{},
		&model.ChatLog{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	chatLogRepo := repository.NewChatLogRepository(mysqlDB)
	chatLogWorker := worker.NewChatLogPersistWorker(mqConn, chatLogRepo, cfg.RabbitMQ.ChatLogQueue, logger)
	if err := chatLogWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start chat log worker failed: %w", err)
	}

	llmClient := ai.NewOpenAICompatibleClient()
	historyCache := cache.NewHistoryCache(redisCli, time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second)
	publisher := rabbitmqClient.NewChatLogPublisher(mqConn, cfg.RabbitMQ.ChatLogQueue)

	docBot := app.NewDocBotService(
		repository.NewDocSessionRepository(mysqlDB),
		repository.NewDocChunkRepository(mysqlDB),
		historyCache,
		publisher,
		llmClient,
		llmClient,
		ai.ChatConfig{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		},
		ai.EmbeddingConfig{
			BaseURL: cfg.Embedding.BaseURL,
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
		},
		logger,
		app.DocBotOptions{
			SessionTTL:   time.Duration(cfg.DocBot.SessionTTLHours) * time.Hour,
			ChunkSize:    cfg.DocBot.ChunkSize,
			ChunkOverlap: cfg.DocBot.ChunkOverlap,
			TopK:         cfg.DocBot.TopK,
		},
	)

	a := &App{
		Config:        cfg,
		Logger:        logger,
		MySQL:         mysqlDB,
		Redis:         redisCli,
		MQConn:        mqConn,
		ChatLogWorker: chatLogWorker,
		DocBot:        docBot,
		StartedAt:     time.Now(),
	}
	a.startSessionPurge(ctx)
	return a, nil
}

func (a *App) startSessionPurge(ctx context.Context) {
	purgeCtx, cancel := context.WithCancel(ctx)
	a.purgeCancel = cancel

	go func() {
		ticker := time.NewTicker(sessionPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				a.DocBot.PurgeExpiredSessions(purgeCtx)
			}
		}
	}()
}

func (a *App) Close() error {
	var closeErr error
	if a.purgeCancel != nil {
		a.purgeCancel()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ChatLogWorker != nil {
		a.ChatLogWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
