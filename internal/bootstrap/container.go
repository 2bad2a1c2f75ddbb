package bootstrap

import (
	"notekeeper-be/internal/config"
	"notekeeper-be/internal/controller"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/service"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController controller.INoteController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

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

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Events.NoteTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.Events.NoteTopic, sysLogger)
	noteService := service.NewNoteService(uowFactory, publisherService, sysLogger)

	// 4. Controllers
	noteController := controller.NewNoteController(noteService)

	return &Container{
		NoteController:  noteController,
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
