package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/httpresp"
	"github.com/slotwise/scheduling-api/internal/middleware"
	"github.com/slotwise/scheduling-api/internal/usecase/booking"
)

// ======================================================
// HANDLER (host side)
// ======================================================

type BookingHandler struct {
	confirmUC  *booking.ConfirmBooking
	cancelUC   *booking.CancelBooking
	completeUC *booking.CompleteBooking
	noShowUC   *booking.MarkNoShow
	listUC     *booking.ListBookingsByRange
}

func NewBookingHandler(
	confirmUC *booking.ConfirmBooking,
	cancelUC *booking.CancelBooking,
	completeUC *booking.CompleteBooking,
	noShowUC *booking.MarkNoShow,
	listUC *booking.ListBookingsByRange,
) *BookingHandler {
	return &BookingHandler{
		confirmUC:  confirmUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
		noShowUC:   noShowUC,
		listUC:     listUC,
	}
}

// --------- Requests ---------

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// --------- Handlers ---------

func (h *BookingHandler) List(c *gin.Context) {
	hostID := c.MustGet(middleware.ContextUserID).(uint)

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		httperr.BadRequest(c, "missing_range", "from and to are required (YYYY-MM-DD).")
		return
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Bad from date.")
		return
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Bad to date.")
		return
	}

	statuses := c.QueryArray("status")

	list, err := h.listUC.Execute(
		c.Request.Context(),
		hostID,
		from,
		to.AddDate(0, 0, 1),
		statuses,
	)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, list)
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	hostID := c.MustGet(middleware.ContextUserID).(uint)
	bookingID, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.confirmUC.Execute(c.Request.Context(), bookingID, hostID)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	hostID := c.MustGet(middleware.ContextUserID).(uint)
	bookingID, ok := parseID(c)
	if !ok {
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.cancelUC.Execute(c.Request.Context(), bookingID, hostID, req.Reason)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	hostID := c.MustGet(middleware.ContextUserID).(uint)
	bookingID, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.completeUC.Execute(c.Request.Context(), bookingID, hostID)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) NoShow(c *gin.Context) {
	hostID := c.MustGet(middleware.ContextUserID).(uint)
	bookingID, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.noShowUC.Execute(c.Request.Context(), bookingID, hostID)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// --------- Helpers ---------

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Bad booking id.")
		return 0, false
	}
	return uint(id), true
}

// mapBookingError translates usecase error codes onto HTTP statuses. The
// split matters to the UI: a conflict re-opens the slot picker, a validation
// error stays on the form, a transient store error shows "try again".
func mapBookingError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, httperr.CodeSlotConflict):
		httperr.Conflict(c, httperr.CodeSlotConflict, "Slot no longer available.")
	case httperr.IsBusiness(err, httperr.CodeBookingNotFound):
		httperr.NotFound(c, httperr.CodeBookingNotFound, "Booking not found.")
	case httperr.IsBusiness(err, httperr.CodeEventNotFound):
		httperr.NotFound(c, httperr.CodeEventNotFound, "Event type not found.")
	case httperr.IsBusiness(err, httperr.CodeScheduleNotFound):
		httperr.NotFound(c, httperr.CodeScheduleNotFound, "Schedule not found.")
	case httperr.IsBusiness(err, httperr.CodeInvalidState):
		httperr.BadRequest(c, httperr.CodeInvalidState, "Booking is not in a valid state for this action.")
	case httperr.IsBusiness(err, "booking_not_past"):
		httperr.BadRequest(c, "booking_not_past", "Booking has not happened yet.")
	case httperr.IsBusiness(err, "invalid_invitee"):
		httperr.BadRequest(c, "invalid_invitee", "Invitee name and email are required.")
	case httperr.IsBusiness(err, "invalid_duration"):
		httperr.BadRequest(c, "invalid_duration", "Interval does not match the event duration.")
	case httperr.IsBusiness(err, "invalid_timezone"):
		httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
	case httperr.IsBusiness(err, "invalid_date"):
		httperr.BadRequest(c, "invalid_date", "Bad date, expected YYYY-MM-DD.")
	case httperr.IsBusiness(err, "invalid_date_range"):
		httperr.BadRequest(c, "invalid_date_range", "End date must follow start date within the allowed window.")
	case httperr.IsTransient(err):
		httperr.Unavailable(c, httperr.CodeStoreUnavailable, "Temporary store failure, try again.")
	default:
		httperr.Internal(c, "internal_error", "Unexpected failure.")
	}
}
