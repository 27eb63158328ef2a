package bootstrap

import (
	"context"
	"log"

	"cat-cards-be/internal/config"
	"cat-cards-be/internal/controller"
	"cat-cards-be/internal/handler"
	"cat-cards-be/internal/pkg/logger"
	"cat-cards-be/internal/pkg/mailer"
	"cat-cards-be/internal/repository/implementation"
	"cat-cards-be/internal/repository/unitofwork"
	"cat-cards-be/internal/service"
	"cat-cards-be/internal/websocket"
	"cat-cards-be/internal/workspace"
	pktNats "cat-cards-be/pkg/nats"
	"cat-cards-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	FolderController controller.IFolderController
	NoteController   controller.INoteController
	UserController   controller.IUserController
	AuthController   controller.IAuthController
	OAuthController  controller.IOAuthController

	// Background services (exposed for main.go to run)
	CleanupService service.ICleanupService

	// WebSockets & notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
		sysLogger,
	)

	// In-process event bus for blob cleanup
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Blob store
	blobs, err := storage.NewDiskStorage(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize blob storage: %v", err)
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
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

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(cfg.App.CleanupTopic, pubSub)
	cleanupService := service.NewCleanupService(
		pubSub,
		cfg.App.CleanupTopic,
		blobs,
		sysLogger,
	)

	userService := service.NewUserService(uowFactory)
	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory, sysLogger)

	folderService := service.NewFolderService(uowFactory, publisherService, natsPub)
	noteService := service.NewNoteService(
		uowFactory,
		publisherService,
		blobs,
		natsPub,
	)

	// Per-session navigation state for websocket clients
	sessions := workspace.NewSessionStore(noteService)

	// Notification domain
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, sessions, wsLogger)

	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		FolderController:    controller.NewFolderController(folderService),
		NoteController:      controller.NewNoteController(noteService),
		UserController:      controller.NewUserController(userService),
		AuthController:      controller.NewAuthController(authService),
		OAuthController:     controller.NewOAuthController(oauthService),

		CleanupService: cleanupService,
		Logger:         sysLogger,
	}
}
