package endpoints

import (
	"api"
	"api/internal/api/handler/mapper"
	"api/internal/api/handler/middleware"
	"api/internal/api/handler/response"
	"api/internal/api/service"
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type notificationHandler struct {
	notificationService *service.NotificationService
	config              api.AppConfig
	logger              zerolog.Logger
}

func NotificationHandler(router *graceful.Graceful, notificationService *service.NotificationService) {
	h := &notificationHandler{
		notificationService: notificationService,
		config:              api.GetConfig(),
		logger:              api.Logger,
	}

	routes := router.Group("/api/v1/notifications")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("", h.list)
		routes.GET("/unread-count", h.unreadCount)
		routes.POST("/:id/read", h.markRead)
	}
}

func (slf *notificationHandler) list(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}

	notifications, err := slf.notificationService.ListForUser(actorID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", actorID).Msg("Failed to list notifications")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToNotificationResponses(notifications))
}

func (slf *notificationHandler) unreadCount(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}

	count, err := slf.notificationService.UnreadCount(actorID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", actorID).Msg("Failed to count unread notifications")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (slf *notificationHandler) markRead(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	if err := slf.notificationService.MarkRead(uint(id), actorID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
