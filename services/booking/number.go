package booking

import (
	"crypto/rand"
	"encoding/base32"
	"time"
)

const bookingNumberPrefix = "SCX"

// NewBookingNumber returns SCX-<UTC timestamp>-<6 random base32 chars>.
func NewBookingNumber(at time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS source is broken.
		panic(err)
	}
	suffix := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)[:6]
	return bookingNumberPrefix + "-" + at.UTC().Format("20060102150405") + "-" + suffix
}
