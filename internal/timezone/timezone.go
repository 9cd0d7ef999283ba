package timezone

import (
	"time"

	"github.com/slotwise/scheduling-api/internal/httperr"
)

// Location resolves an IANA timezone identifier. A malformed identifier is a
// configuration error and fails the whole request; there is no silent default,
// a wrong guess here shifts every slot the host offers.
func Location(tz string) (*time.Location, error) {
	if tz == "" {
		return nil, httperr.ErrBusiness("invalid_timezone")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_timezone")
	}
	return loc, nil
}

func IsValid(tz string) bool {
	_, err := Location(tz)
	return err == nil
}
