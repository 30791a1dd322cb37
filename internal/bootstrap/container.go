package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lio-chatbot-be/internal/config"
	"lio-chatbot-be/internal/controller"
	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/internal/repository/sessionstore"
	"lio-chatbot-be/internal/repository/unitofwork"
	"lio-chatbot-be/internal/service"
	"lio-chatbot-be/pkg/chat/compaction"
	"lio-chatbot-be/pkg/chat/pipeline"
	"lio-chatbot-be/pkg/chat/planner"
	"lio-chatbot-be/pkg/chat/retrieval"
	"lio-chatbot-be/pkg/chat/synthesis"
	"lio-chatbot-be/pkg/embedding"
	"lio-chatbot-be/pkg/llm/factory"
	pktNats "lio-chatbot-be/pkg/nats"
	"lio-chatbot-be/pkg/qnagen"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	PortfolioController controller.IPortfolioController

	// Background Services (Exposed for main.go to run)
	EmbedConsumerService  service.IConsumerService
	QnaGenConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	var contextStore sessionstore.ContextStore
	if cfg.App.SessionStore == "memory" {
		contextStore = sessionstore.NewMemoryStore()
		log.Printf("[INFO] Using Session Store: MEMORY")
	} else {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		contextStore = sessionstore.NewRedisStore(rdb)
		log.Printf("[INFO] Using Session Store: REDIS")
	}

	// 5. Chat Pipeline Components
	queryPlanner := planner.New(llmProvider, sysLogger)
	retrievalEngine := retrieval.NewEngine(uowFactory, embeddingProvider, sysLogger, cfg.Chat.RetrievalTopK)
	answerSynthesizer := synthesis.New(llmProvider, sysLogger)
	contextCompactor := compaction.New(llmProvider, sysLogger)

	orchestrator := pipeline.NewOrchestrator(
		uowFactory,
		contextStore,
		queryPlanner,
		retrievalEngine,
		answerSynthesizer,
		contextCompactor,
		sysLogger,
		cfg.Chat.SessionTTLSeconds,
	)

	// 6. Services
	embedPublisher := service.NewPublisherService(cfg.Keys.EmbedItemTopic, pubSub)
	qnaGenPublisher := service.NewPublisherService(cfg.Keys.QnaGenTopic, pubSub)

	sessionService := service.NewSessionService(uowFactory, contextStore, sysLogger, cfg.Chat.SessionTTLSeconds)
	chatService := service.NewChatService(uowFactory, orchestrator)
	portfolioService := service.NewPortfolioService(uowFactory, embedPublisher, sysLogger)
	qnaGenerationService := service.NewQnaGenerationService(uowFactory, qnaGenPublisher, sysLogger)

	generator := qnagen.NewGenerator(uowFactory, llmProvider, sysLogger, cfg.Chat.QnaWorkers)

	embedConsumer := service.NewEmbedConsumerService(
		pubSub,
		cfg.Keys.EmbedItemTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)
	qnaGenConsumer := service.NewQnaGenConsumerService(
		pubSub,
		cfg.Keys.QnaGenTopic,
		generator,
		natsPub,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		ChatController:      controller.NewChatController(sessionService, chatService, cfg.Chat.SessionTTLSeconds),
		PortfolioController: controller.NewPortfolioController(portfolioService, qnaGenerationService),

		EmbedConsumerService:  embedConsumer,
		QnaGenConsumerService: qnaGenConsumer,

		Logger: sysLogger,
	}
}
