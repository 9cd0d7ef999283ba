package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/httpresp"
	"github.com/slotwise/scheduling-api/internal/middleware"
	"github.com/slotwise/scheduling-api/internal/models"
)

type EventTypeHandler struct {
	db *gorm.DB
}

func NewEventTypeHandler(db *gorm.DB) *EventTypeHandler {
	return &EventTypeHandler{db: db}
}

// --------- Requests ---------

type CreateEventTypeRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`

	DurationMin   int    `json:"duration_min" binding:"required,min=1"`
	LocationType  string `json:"location_type"`
	LocationValue string `json:"location_value"`

	AvailabilityScheduleID *uint `json:"availability_schedule_id"`

	MinNoticeMin    int  `json:"min_notice_min" binding:"min=0"`
	MaxFutureDays   int  `json:"max_future_days" binding:"min=0"`
	SlotIntervalMin *int `json:"slot_interval_min"`
	BufferBeforeMin int  `json:"buffer_before_min" binding:"min=0"`
	BufferAfterMin  int  `json:"buffer_after_min" binding:"min=0"`

	RequiresConfirmation bool `json:"requires_confirmation"`
}

type UpdateEventTypeRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`

	DurationMin   *int    `json:"duration_min,omitempty"`
	LocationType  *string `json:"location_type,omitempty"`
	LocationValue *string `json:"location_value,omitempty"`

	AvailabilityScheduleID *uint `json:"availability_schedule_id,omitempty"`

	MinNoticeMin    *int `json:"min_notice_min,omitempty"`
	MaxFutureDays   *int `json:"max_future_days,omitempty"`
	SlotIntervalMin *int `json:"slot_interval_min,omitempty"`
	BufferBeforeMin *int `json:"buffer_before_min,omitempty"`
	BufferAfterMin  *int `json:"buffer_after_min,omitempty"`

	RequiresConfirmation *bool `json:"requires_confirmation,omitempty"`
	Active               *bool `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *EventTypeHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	activeStr := strings.TrimSpace(c.Query("active"))

	q := h.db.Where("user_id = ?", userID)
	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	var eventTypes []models.EventType
	if err := q.Order("id ASC").Find(&eventTypes).Error; err != nil {
		httperr.Internal(c, "failed_to_list_event_types", "Could not list event types.")
		return
	}

	httpresp.List(c, eventTypes)
}

func (h *EventTypeHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateEventTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid event type payload.")
		return
	}

	if req.AvailabilityScheduleID != nil {
		var count int64
		h.db.Model(&models.AvailabilitySchedule{}).
			Where("id = ? AND user_id = ?", *req.AvailabilityScheduleID, userID).
			Count(&count)
		if count == 0 {
			httperr.BadRequest(c, httperr.CodeScheduleNotFound, "Schedule does not belong to you.")
			return
		}
	}

	maxFuture := req.MaxFutureDays
	if maxFuture == 0 {
		maxFuture = 60
	}

	et := models.EventType{
		UserID:                 userID,
		Title:                  req.Title,
		Slug:                   strings.ToLower(strings.TrimSpace(req.Slug)),
		Description:            req.Description,
		DurationMin:            req.DurationMin,
		SchedulingType:         "individual",
		LocationType:           req.LocationType,
		LocationValue:          req.LocationValue,
		AvailabilityScheduleID: req.AvailabilityScheduleID,
		MinNoticeMin:           req.MinNoticeMin,
		MaxFutureDays:          maxFuture,
		SlotIntervalMin:        req.SlotIntervalMin,
		BufferBeforeMin:        req.BufferBeforeMin,
		BufferAfterMin:         req.BufferAfterMin,
		RequiresConfirmation:   req.RequiresConfirmation,
		Active:                 true,
	}

	if err := h.db.Create(&et).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.BadRequest(c, "slug_already_exists", "Event type slug already in use.")
			return
		}
		httperr.Internal(c, "failed_to_create_event_type", "Could not create event type.")
		return
	}

	httpresp.Created(c, et)
}

func (h *EventTypeHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var et models.EventType
	if err := h.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&et).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, httperr.CodeEventNotFound, "Event type not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_event_type", "Could not load event type.")
		return
	}

	var req UpdateEventTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid event type payload.")
		return
	}

	if req.Title != nil {
		et.Title = *req.Title
	}
	if req.Description != nil {
		et.Description = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Duration must be positive.")
			return
		}
		et.DurationMin = *req.DurationMin
	}
	if req.LocationType != nil {
		et.LocationType = *req.LocationType
	}
	if req.LocationValue != nil {
		et.LocationValue = *req.LocationValue
	}
	if req.AvailabilityScheduleID != nil {
		var count int64
		h.db.Model(&models.AvailabilitySchedule{}).
			Where("id = ? AND user_id = ?", *req.AvailabilityScheduleID, userID).
			Count(&count)
		if count == 0 {
			httperr.BadRequest(c, httperr.CodeScheduleNotFound, "Schedule does not belong to you.")
			return
		}
		et.AvailabilityScheduleID = req.AvailabilityScheduleID
	}
	if req.MinNoticeMin != nil {
		et.MinNoticeMin = *req.MinNoticeMin
	}
	if req.MaxFutureDays != nil {
		et.MaxFutureDays = *req.MaxFutureDays
	}
	if req.SlotIntervalMin != nil {
		et.SlotIntervalMin = req.SlotIntervalMin
	}
	if req.BufferBeforeMin != nil {
		et.BufferBeforeMin = *req.BufferBeforeMin
	}
	if req.BufferAfterMin != nil {
		et.BufferAfterMin = *req.BufferAfterMin
	}
	if req.RequiresConfirmation != nil {
		et.RequiresConfirmation = *req.RequiresConfirmation
	}
	if req.Active != nil {
		et.Active = *req.Active
	}

	if err := h.db.Save(&et).Error; err != nil {
		httperr.Internal(c, "failed_to_update_event_type", "Could not update event type.")
		return
	}

	httpresp.OK(c, et)
}
