package scheduling

import "github.com/slotwise/scheduling-api/internal/httperr"

type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
	StatusCompleted   Status = "completed"
	StatusNoShow      Status = "no_show"
)

const (
	CancelledByHost    = "host"
	CancelledByInvitee = "invitee"
)

// InitialStatus decides the state a fresh booking lands in.
func InitialStatus(requiresConfirmation bool) Status {
	if requiresConfirmation {
		return StatusPending
	}
	return StatusConfirmed
}

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

// ActiveStatuses are the states that hold the host's time. Only these
// participate in the overlap invariant.
func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

func IsTerminal(current Status) bool {
	switch current {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}
