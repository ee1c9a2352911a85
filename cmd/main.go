package main

import (
	"api"
	"api/internal/api/event"
	"api/internal/api/handler/endpoints"
	"api/internal/api/models"
	"api/internal/api/service"
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
)

func main() {
	api.InitConfig(".env")
	gin.SetMode(gin.ReleaseMode)

	if api.GetConfig().Mode == "dev" {
		if err := api.DB.AutoMigrate(
			&models.User{},
			&models.Job{},
			&models.JobUpdate{},
			&models.JobImage{},
			&models.JobLocation{},
			&models.Notification{},
		); err != nil {
			api.Logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		api.Logger.Info().Msg("Database migrated successfully")
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	router, err := graceful.Default(graceful.WithAddr(api.GetConfig().ApiPort))
	if err != nil {
		panic(err)
	}
	defer stop()
	defer router.Close()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	pusher, err := event.NewNatsPublisher(api.GetConfig().NatsURL, api.Logger)
	if err != nil {
		api.Logger.Fatal().Err(err).Msg("Failed to connect to NATS")
	}
	defer pusher.Close()

	bus := event.NewBus(256, api.Logger)
	dispatcher := service.NewNotificationService(pusher)
	bus.Subscribe(dispatcher.HandleEvent)
	go bus.Run()
	defer bus.Close()
	api.Logger.Info().Msg("Event bus started")

	workflowService := service.NewWorkflowService(bus)
	initAPI(router, workflowService, dispatcher)

	api.Logger.Debug().Msgf("Starting CORE API on port %s", api.GetConfig().ApiPort)
	if err = router.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		api.Logger.Fatal().Msg(err.Error())
		panic(err)
	}

}

func initAPI(router *graceful.Graceful, workflowService *service.WorkflowService, dispatcher *service.NotificationService) {
	endpoints.AuthHandler(router)
	endpoints.JobHandler(router, workflowService)
	endpoints.NotificationHandler(router, dispatcher)
}
