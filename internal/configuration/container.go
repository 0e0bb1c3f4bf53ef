package configuration

import (
	"context"
	"fmt"
	"time"

	"github.com/anishverma926/Chat-App/internal/db"
	"github.com/anishverma926/Chat-App/internal/handler"
	"github.com/anishverma926/Chat-App/internal/hub"
	"github.com/anishverma926/Chat-App/internal/model"
	"github.com/anishverma926/Chat-App/internal/repo"
	"github.com/anishverma926/Chat-App/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Container struct {
	MessageHandler handler.MessageHandler
	UserHandler    handler.UserHandler
	MonitorHandler handler.MonitorHandler
	Hub            *hub.Hub
	Config         Config
	Logger         *zap.Logger

	// private - for cleanup
	mongoClient *mongo.Database
}

func BuildContainer() (*Container, error) {
	config, err := LoadConfig(ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	con, err := db.OpenConnection(config.ChatDatabase.Uri, config.ChatDatabase.Database)
	if err != nil {
		return nil, err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	messageCollection := db.NewRepository[model.Message](con, config.ChatDatabase.MessagesCollection)
	userCollection := db.NewRepository[model.User](con, config.ChatDatabase.UsersCollection)

	messageRepo := repo.NewMessageRepository(messageCollection, logger)
	userRepo := repo.NewUserRepository(userCollection, logger)

	// presence & delivery core: explicitly owned instances, wired by handle
	registry := hub.NewRegistry(logger)
	presence := hub.NewPresenceTracker(registry, userRepo, logger)
	dispatcher := hub.NewDispatcher(registry, logger)
	h := hub.NewHub(registry, presence, logger)

	chatService := service.NewChatService(messageRepo, dispatcher, logger)
	userService := service.NewUserService(userRepo, presence)

	return &Container{
		MessageHandler: handler.NewMessageHandler(chatService, userService),
		UserHandler:    handler.NewUserHandler(userService),
		MonitorHandler: handler.NewMonitorHandler(hub.NewMonitorService(registry)),
		Hub:            h,
		Config:         *config,
		Logger:         logger,
		mongoClient:    con,
	}, nil
}

// Close gracefully shuts down all connections.
func (c *Container) Close() error {
	// Stop the hub first (closes all WebSocket connections)
	if c.Hub != nil {
		c.Hub.Stop()
	}

	// Sync logger
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}

	// Close MongoDB connection pool
	if c.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.mongoClient.Client().Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to close MongoDB connection: %w", err)
		}
	}

	return nil
}
