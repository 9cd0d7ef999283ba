package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Error codes used across usecases. Handlers map them onto HTTP statuses:
// validation codes → 400, slot_conflict → 409, *_not_found → 404,
// unauthorized → 401/403, store_unavailable → 503.
const (
	CodeSlotConflict     = "slot_conflict"
	CodeBookingNotFound  = "booking_not_found"
	CodeEventNotFound    = "event_type_not_found"
	CodeScheduleNotFound = "schedule_not_found"
	CodeInvalidState     = "invalid_state"
	CodeUnauthorized     = "unauthorized"
	CodeStoreUnavailable = "store_unavailable"
)
