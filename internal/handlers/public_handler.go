package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/httpresp"
	"github.com/slotwise/scheduling-api/internal/models"
	"github.com/slotwise/scheduling-api/internal/usecase/booking"
)

// ======================================================
// HANDLER (public, unauthenticated side)
// ======================================================

type PublicHandler struct {
	db           *gorm.DB
	repo         domain.Repository
	slotsUC      *booking.GetAvailableSlots
	createUC     *booking.CreateBooking
	lookupUC     *booking.LookupBookingByToken
	cancelUC     *booking.CancelBookingByToken
	rescheduleUC *booking.RescheduleBookingByToken
}

func NewPublicHandler(
	db *gorm.DB,
	repo domain.Repository,
	slotsUC *booking.GetAvailableSlots,
	createUC *booking.CreateBooking,
	lookupUC *booking.LookupBookingByToken,
	cancelUC *booking.CancelBookingByToken,
	rescheduleUC *booking.RescheduleBookingByToken,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		repo:         repo,
		slotsUC:      slotsUC,
		createUC:     createUC,
		lookupUC:     lookupUC,
		cancelUC:     cancelUC,
		rescheduleUC: rescheduleUC,
	}
}

// --------- Requests ---------

type PublicCreateBookingRequest struct {
	EventTypeID uint `json:"event_type_id" binding:"required"`

	InviteeName     string `json:"invitee_name" binding:"required"`
	InviteeEmail    string `json:"invitee_email" binding:"required,email"`
	InviteeTimezone string `json:"invitee_timezone"`
	InviteeNotes    string `json:"invitee_notes"`

	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type PublicRescheduleRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type PublicCancelRequest struct {
	Reason string `json:"reason"`
}

// --------- Views ---------

// publicEventTypeView strips scheduling internals (buffers, schedule ids)
// from what an invitee browsing the page gets to see.
type publicEventTypeView struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	DurationMin  int    `json:"duration_min"`
	LocationType string `json:"location_type"`
}

type publicBookingView struct {
	UID             string    `json:"uid"`
	Status          string    `json:"status"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	InviteeName     string    `json:"invitee_name"`
	InviteeEmail    string    `json:"invitee_email"`
	InviteeTimezone string    `json:"invitee_timezone"`
	EventTitle      string    `json:"event_title,omitempty"`
	HostName        string    `json:"host_name,omitempty"`
}

func toPublicEventType(et models.EventType) publicEventTypeView {
	return publicEventTypeView{
		ID:           et.ID,
		Title:        et.Title,
		Slug:         et.Slug,
		Description:  et.Description,
		DurationMin:  et.DurationMin,
		LocationType: et.LocationType,
	}
}

func toPublicBooking(b *models.Booking) publicBookingView {
	v := publicBookingView{
		UID:             b.UID,
		Status:          b.Status,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		InviteeName:     b.InviteeName,
		InviteeEmail:    b.InviteeEmail,
		InviteeTimezone: b.InviteeTimezone,
	}
	if b.EventType.ID != 0 {
		v.EventTitle = b.EventType.Title
	}
	if b.Host.ID != 0 {
		v.HostName = b.Host.Name
	}
	return v
}

// --------- Handlers ---------

// HostPage is the public landing view: the host profile plus their
// bookable event types.
func (h *PublicHandler) HostPage(c *gin.Context) {
	host, err := h.repo.GetHostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.NotFound(c, "host_not_found", "Host not found.")
		return
	}

	var eventTypes []models.EventType
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ? AND active = ?", host.ID, true).
		Order("created_at ASC").
		Find(&eventTypes).Error; err != nil {
		httperr.Internal(c, "failed_to_list_event_types", "Could not load event types.")
		return
	}

	views := make([]publicEventTypeView, 0, len(eventTypes))
	for _, et := range eventTypes {
		views = append(views, toPublicEventType(et))
	}

	httpresp.OK(c, gin.H{
		"host": gin.H{
			"name":     host.Name,
			"slug":     host.Slug,
			"timezone": host.Timezone,
		},
		"event_types": views,
	})
}

func (h *PublicHandler) EventType(c *gin.Context) {
	host, err := h.repo.GetHostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.NotFound(c, "host_not_found", "Host not found.")
		return
	}

	et, err := h.repo.GetEventTypeBySlug(c.Request.Context(), host.ID, c.Param("event_slug"))
	if err != nil || !et.Active {
		httperr.NotFound(c, httperr.CodeEventNotFound, "Event type not found.")
		return
	}

	httpresp.OK(c, toPublicEventType(*et))
}

func (h *PublicHandler) Slots(c *gin.Context) {
	eventTypeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Bad event type id.")
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required (YYYY-MM-DD).")
		return
	}

	days, err := h.slotsUC.Execute(c.Request.Context(), booking.AvailableSlotsInput{
		EventTypeID: uint(eventTypeID),
		StartDate:   date,
		EndDate:     c.Query("end_date"),
		ViewerTZ:    c.Query("timezone"),
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"days": days})
}

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req PublicCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_payload", "Invalid booking payload.")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), booking.CreateBookingInput{
		EventTypeID:     req.EventTypeID,
		InviteeName:     req.InviteeName,
		InviteeEmail:    req.InviteeEmail,
		InviteeTimezone: req.InviteeTimezone,
		InviteeNotes:    req.InviteeNotes,
		Start:           req.StartTime,
		End:             req.EndTime,
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.Created(c, toPublicBooking(b))
}

func (h *PublicHandler) Lookup(c *gin.Context) {
	b, err := h.lookupUC.Execute(c.Request.Context(), c.Param("uid"))
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, toPublicBooking(b))
}

func (h *PublicHandler) Cancel(c *gin.Context) {
	var req PublicCancelRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.cancelUC.Execute(c.Request.Context(), c.Param("uid"), req.Reason)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, toPublicBooking(b))
}

func (h *PublicHandler) Reschedule(c *gin.Context) {
	var req PublicRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_payload", "Invalid reschedule payload.")
		return
	}

	b, err := h.rescheduleUC.Execute(
		c.Request.Context(),
		c.Param("uid"),
		req.StartTime,
		req.EndTime,
	)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, toPublicBooking(b))
}
