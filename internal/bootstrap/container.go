package bootstrap

import (
	"context"
	"log"
	"net/http"
	"time"

	"routine-advisor-be/internal/config"
	"routine-advisor-be/internal/controller"
	"routine-advisor-be/internal/handler"
	"routine-advisor-be/internal/pkg/logger"
	"routine-advisor-be/internal/repository/contract"
	"routine-advisor-be/internal/repository/implementation"
	"routine-advisor-be/internal/repository/memory"
	"routine-advisor-be/internal/repository/redisstore"
	"routine-advisor-be/internal/service"
	"routine-advisor-be/internal/websocket"
	"routine-advisor-be/pkg/advisor"
	"routine-advisor-be/pkg/catalog"
	"routine-advisor-be/pkg/llm/factory"

	pktNats "routine-advisor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const catalogFetchTimeout = 15 * time.Second

type Container struct {
	// Controllers
	CatalogController    controller.ICatalogController
	SelectionController  controller.ISelectionController
	ChatController       controller.IChatController
	PreferenceController controller.IPreferenceController

	// Background Services (Exposed for main.go to run)
	NotifierService service.INotifierService

	// WebSockets
	ChangeFeedHandler *handler.ChangeFeedHandler
	WebSocketHub      *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires the application. db may be nil unless the postgres store is selected.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	completionLogger := logger.NewIsolatedLogger(cfg.App.CompletionLogFilePath)
	c := &Container{Logger: sysLogger}

	// 2. Infrastructure
	// Redis (optional): cross-instance websocket fan-out and the redis preference store
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// NATS (optional): external export of change events
	var exporter service.EventExporter
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			exporter = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Repositories
	var preferenceRepo contract.PreferenceRepository
	switch cfg.Store.Backend {
	case "postgres":
		if db == nil {
			log.Fatalf("[FATAL] STORE_BACKEND=postgres requires DB_CONNECTION_STRING")
		}
		preferenceRepo = implementation.NewPreferenceRepository(db)
	case "redis":
		if rdb == nil {
			log.Fatalf("[FATAL] STORE_BACKEND=redis requires REDIS_URL")
		}
		preferenceRepo = redisstore.NewPreferenceRepository(rdb)
	case "memory":
		preferenceRepo = memory.NewPreferenceRepository()
	default:
		log.Fatalf("[FATAL] Unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
	log.Printf("[INFO] Using Preference Store: %s", cfg.Store.Backend)

	sessionRepo := memory.NewSessionRepository(cfg.Store.SessionTTL)

	// 4. Domain
	catalogSource := catalog.NewSource(cfg.Catalog.Source, &http.Client{Timeout: catalogFetchTimeout})
	catalogCache := catalog.NewCache(catalogSource, sysLogger)

	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		CompletionURL: cfg.Ai.CompletionURL,
		APIKey:        cfg.Ai.APIKey,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		Timeout:       cfg.Ai.Timeout,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	pipeline := advisor.NewPipeline(llmProvider, completionLogger)

	// 5. Services
	wsHub := websocket.NewHub(rdb, sysLogger)
	publisherService := service.NewPublisherService(cfg.Events.ChangeTopic, pubSub)
	advisorService := service.NewAdvisorService(
		catalogCache,
		preferenceRepo,
		sessionRepo,
		pipeline,
		publisherService,
		sysLogger,
	)

	c.NotifierService = service.NewNotifierService(pubSub, cfg.Events.ChangeTopic, wsHub, exporter, sysLogger)
	c.WebSocketHub = wsHub
	c.ChangeFeedHandler = handler.NewChangeFeedHandler(wsHub, sysLogger)

	// 6. Controllers
	c.CatalogController = controller.NewCatalogController(advisorService)
	c.SelectionController = controller.NewSelectionController(advisorService)
	c.ChatController = controller.NewChatController(advisorService)
	c.PreferenceController = controller.NewPreferenceController(advisorService)

	return c
}

// Start runs the websocket hub and the change notifier until ctx is done.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	return c.NotifierService.Consume(ctx)
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
