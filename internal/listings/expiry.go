package listings

import (
	"fmt"
	"math"
	"time"
)

// TimeUntilExpiry renders the advisory countdown shown next to a listing.
func TimeUntilExpiry(expiresAt, now time.Time) string {
	d := expiresAt.Sub(now)
	switch {
	case d < 0:
		return "Expired"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(math.Round(d.Minutes())))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(math.Round(d.Hours())))
	default:
		return fmt.Sprintf("%dd", int(math.Round(d.Hours()/24)))
	}
}

// ExpiresWithin reports whether expiresAt falls within window of now.
// Already-expired timestamps count as within.
func ExpiresWithin(expiresAt, now time.Time, window time.Duration) bool {
	return expiresAt.Sub(now) <= window
}
