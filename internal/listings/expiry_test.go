package listings

import (
	"testing"
	"time"
)

func TestTimeUntilExpiry(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   time.Duration
		want string
	}{
		{-30 * time.Minute, "Expired"},
		{-time.Second, "Expired"},
		{0, "0m"},
		{45 * time.Minute, "45m"},
		{59*time.Minute + 40*time.Second, "60m"},
		{time.Hour, "1h"},
		{2*time.Hour + 31*time.Minute, "3h"},
		{23 * time.Hour, "23h"},
		{24 * time.Hour, "1d"},
		{60 * time.Hour, "3d"},
	}
	for _, tt := range tests {
		if got := TimeUntilExpiry(now.Add(tt.in), now); got != tt.want {
			t.Errorf("TimeUntilExpiry(+%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpiresWithin(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	if !ExpiresWithin(now.Add(3*time.Hour), now, 4*time.Hour) {
		t.Error("3h should be within a 4h window")
	}
	if !ExpiresWithin(now.Add(4*time.Hour), now, 4*time.Hour) {
		t.Error("window boundary should count")
	}
	if ExpiresWithin(now.Add(5*time.Hour), now, 4*time.Hour) {
		t.Error("5h should be outside a 4h window")
	}
	if !ExpiresWithin(now.Add(-time.Hour), now, 4*time.Hour) {
		t.Error("already expired should count as within")
	}
}
