package scheduling

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const uidBytes = 24

// NewBookingUID mints the capability token an invitee holds over one booking.
// It is deliberately not reused from any internal identifier: possession of
// the token is equivalent to invitee authorization, so it comes straight from
// the CSPRNG and is long enough to make guessing infeasible.
func NewBookingUID() (string, error) {
	buf := make([]byte, uidBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate booking uid: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
