package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/httpresp"
	"github.com/slotwise/scheduling-api/internal/middleware"
	"github.com/slotwise/scheduling-api/internal/models"
	"github.com/slotwise/scheduling-api/internal/timezone"
)

type ScheduleHandler struct {
	db *gorm.DB
}

func NewScheduleHandler(db *gorm.DB) *ScheduleHandler {
	return &ScheduleHandler{db: db}
}

// --------- Requests ---------

type CreateScheduleRequest struct {
	Name     string `json:"name" binding:"required"`
	Timezone string `json:"timezone" binding:"required"`
}

type UpdateScheduleRequest struct {
	Name      *string `json:"name,omitempty"`
	Timezone  *string `json:"timezone,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

type RuleConfig struct {
	RuleType     string `json:"rule_type" binding:"required"`
	DayOfWeek    *int   `json:"day_of_week"`
	SpecificDate string `json:"specific_date"` // YYYY-MM-DD
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	IsAvailable  bool   `json:"is_available"`
}

type RulesUpdateRequest struct {
	Rules []RuleConfig `json:"rules" binding:"required"`
}

// --------- Handlers ---------

func (h *ScheduleHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var schedules []models.AvailabilitySchedule
	if err := h.db.
		Preload("Rules").
		Where("user_id = ?", userID).
		Order("is_default DESC, id ASC").
		Find(&schedules).Error; err != nil {

		httperr.Internal(c, "failed_to_list_schedules", "Could not list schedules.")
		return
	}

	httpresp.List(c, schedules)
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid schedule payload.")
		return
	}

	if !timezone.IsValid(req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
		return
	}

	var count int64
	h.db.Model(&models.AvailabilitySchedule{}).Where("user_id = ?", userID).Count(&count)

	schedule := models.AvailabilitySchedule{
		UserID:    userID,
		Name:      req.Name,
		Timezone:  req.Timezone,
		IsDefault: count == 0,
	}

	if err := h.db.Create(&schedule).Error; err != nil {
		httperr.Internal(c, "failed_to_create_schedule", "Could not create schedule.")
		return
	}

	httpresp.Created(c, schedule)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var schedule models.AvailabilitySchedule
	if err := h.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&schedule).Error; err != nil {

		httperr.NotFound(c, httperr.CodeScheduleNotFound, "Schedule not found.")
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid schedule payload.")
		return
	}

	if req.Name != nil {
		schedule.Name = *req.Name
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
			return
		}
		schedule.Timezone = *req.Timezone
	}

	// Promoting a schedule to default unsets the previous default in the same
	// transaction: at most one default per host, always.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault && !schedule.IsDefault {
			if err := tx.Model(&models.AvailabilitySchedule{}).
				Where("user_id = ? AND is_default = true", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
			schedule.IsDefault = true
		}
		return tx.Save(&schedule).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_schedule", "Could not update schedule.")
		return
	}

	httpresp.OK(c, schedule)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var schedule models.AvailabilitySchedule
	if err := h.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&schedule).Error; err != nil {

		httperr.NotFound(c, httperr.CodeScheduleNotFound, "Schedule not found.")
		return
	}

	var total int64
	h.db.Model(&models.AvailabilitySchedule{}).Where("user_id = ?", userID).Count(&total)
	if total <= 1 {
		httperr.BadRequest(c, "last_schedule", "Cannot delete the only schedule.")
		return
	}

	var referenced int64
	h.db.Model(&models.EventType{}).
		Where("availability_schedule_id = ? AND active = true", schedule.ID).
		Count(&referenced)
	if referenced > 0 {
		httperr.BadRequest(c, "schedule_in_use", "Schedule is referenced by an active event type.")
		return
	}

	if err := h.db.Delete(&schedule).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_schedule", "Could not delete schedule.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PutRules replaces the whole rule set of a schedule, the same way the host
// edits it: delete and re-insert in one transaction.
func (h *ScheduleHandler) PutRules(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var schedule models.AvailabilitySchedule
	if err := h.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&schedule).Error; err != nil {

		httperr.NotFound(c, httperr.CodeScheduleNotFound, "Schedule not found.")
		return
	}

	var req RulesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid rules payload.")
		return
	}

	toCreate := make([]models.AvailabilityRule, 0, len(req.Rules))
	for _, r := range req.Rules {
		rule := models.AvailabilityRule{
			ScheduleID:  schedule.ID,
			RuleType:    r.RuleType,
			DayOfWeek:   r.DayOfWeek,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			IsAvailable: r.IsAvailable,
		}

		if r.SpecificDate != "" {
			d, err := time.Parse("2006-01-02", r.SpecificDate)
			if err != nil {
				httperr.BadRequest(c, "invalid_rule_date", "Bad specific_date.")
				return
			}
			rule.SpecificDate = &d
		}

		// Reject malformed rules before they ever reach the resolver.
		if _, err := domain.RuleFromModel(rule); err != nil {
			httperr.BadRequest(c, "invalid_rule", "Rule "+r.RuleType+" is malformed.")
			return
		}

		toCreate = append(toCreate, rule)
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("schedule_id = ?", schedule.ID).
			Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}
		if len(toCreate) > 0 {
			return tx.Create(&toCreate).Error
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_rules", "Could not save rules.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
