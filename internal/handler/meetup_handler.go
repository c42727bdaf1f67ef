package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/service"
)

// MeetupHandler handles meetup CRUD and listing requests
type MeetupHandler struct {
	service service.MeetupService
	logger  *slog.Logger
}

// NewMeetupHandler creates a new meetup handler
func NewMeetupHandler(service service.MeetupService, logger *slog.Logger) *MeetupHandler {
	return &MeetupHandler{
		service: service,
		logger:  logger,
	}
}

type CreateMeetupRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Description string    `json:"description" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	FileID      uint      `json:"file_id" binding:"required"`
}

type UpdateMeetupRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description" binding:"omitempty,min=1"`
	Location    *string    `json:"location" binding:"omitempty,min=1"`
	Date        *time.Time `json:"date"`
	FileID      *uint      `json:"file_id" binding:"omitempty,min=1"`
}

type ListMeetupsQuery struct {
	Date string `form:"date"`
	Page int    `form:"page" binding:"omitempty,min=1"`
}

// List handles GET /meetups?date=YYYY-MM-DD&page=N
func (h *MeetupHandler) List(c *gin.Context) {
	var query ListMeetupsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}

	input := service.ListMeetupsInput{Page: query.Page}
	if query.Date != "" {
		day, err := time.Parse(time.DateOnly, query.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		input.Day = &day
	}

	meetups, err := h.service.List(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, meetups)
}

// Get handles GET /meetups/:id
func (h *MeetupHandler) Get(c *gin.Context) {
	meetupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	meetup, err := h.service.Get(c.Request.Context(), meetupID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, meetup)
}

// Organized handles GET /organizing - meetups owned by the caller
func (h *MeetupHandler) Organized(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	meetups, err := h.service.ListOrganized(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, meetups)
}

// Create handles POST /meetups
func (h *MeetupHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req CreateMeetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [MeetupHandler] Invalid create request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Title, description, location, date and file_id required."})
		return
	}

	meetup, err := h.service.Create(c.Request.Context(), service.CreateMeetupInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		FileID:      req.FileID,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, meetup)
}

// Update handles PUT /meetups/:id
func (h *MeetupHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	meetupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateMeetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [MeetupHandler] Invalid update request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	meetup, err := h.service.Update(c.Request.Context(), service.UpdateMeetupInput{
		CallerID:    userID,
		MeetupID:    meetupID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		FileID:      req.FileID,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, meetup)
}

// Delete handles DELETE /meetups/:id
func (h *MeetupHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	meetupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), userID, meetupID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meetup cancelled"})
}
