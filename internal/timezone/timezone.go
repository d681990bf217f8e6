package timezone

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const DefaultTimezone = "UTC"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Parse reads an ISO-8601 style date or timestamp. Values carrying their own
// offset keep it; bare dates are interpreted in tz. The result is UTC.
func Parse(value, tz string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(value), Location(tz))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
