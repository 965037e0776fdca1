// Package timezone pins every business date to the property's IANA zone (APP_TIMEZONE).
// Calendar dates such as check-in days resolve to midnight in that zone.
package timezone

import (
	"fmt"
	"sync"
	"time"

	"innkeep/config"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location
	loadOnce    sync.Once
	mu          sync.RWMutex
)

func load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", name).Msg("Application timezone initialized")

	return loc
}

func location() *time.Location {
	loadOnce.Do(func() {
		loc := load(config.Get().App.Timezone)

		mu.Lock()
		if appLocation == nil {
			appLocation = loc
		}
		mu.Unlock()
	})

	mu.RLock()
	defer mu.RUnlock()

	return appLocation
}

// SetLocation overrides the configured zone. Tests use it to pin a non-UTC property.
func SetLocation(loc *time.Location) {
	loadOnce.Do(func() {})

	mu.Lock()
	appLocation = loc
	mu.Unlock()
}

func Now() time.Time {
	return time.Now().In(location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

func GetLocation() *time.Location {
	return location()
}

// Parse reads a zone-less layout as wall-clock time at the property.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, location()) //nolint:wrapcheck
}

// ParseDate accepts either a calendar date or a full RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if parsed, err := Parse(time.DateOnly, value); err == nil {
		return parsed, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}

	return ToAppTime(parsed), nil
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// StartOfDay returns midnight of t's calendar day at the property.
func StartOfDay(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}
