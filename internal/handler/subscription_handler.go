package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/service"
)

// SubscriptionHandler handles meetup subscriptions of the caller
type SubscriptionHandler struct {
	service service.SubscriptionService
	logger  *slog.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(service service.SubscriptionService, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /subscriptions - upcoming meetups the caller attends
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	meetups, err := h.service.ListUpcoming(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, meetups)
}

// Subscribe handles POST /meetups/:id/subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	meetupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	subscription, err := h.service.Subscribe(c.Request.Context(), userID, meetupID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, subscription)
}

// Cancel handles DELETE /subscriptions/:id
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	subscriptionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), userID, subscriptionID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled"})
}
