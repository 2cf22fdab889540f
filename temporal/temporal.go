// Package temporal derives the time-based assessment values: time of day,
// weekend, light condition and expected traffic volume.
package temporal

import (
	"fmt"
	"time"
	// Serverless images often ship without a zoneinfo database.
	_ "time/tzdata"

	"github.com/roadwise/roadwise/model"
)

// Clock returns the current time in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a clock reporting wall time in the named IANA zone.
func NewClock(zone string) (*Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", zone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// FixedClock always reports t. Used by tests and the CLI's --at flag.
func FixedClock(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now returns the current time in the clock's location.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Location returns the clock's location.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Conditions derives every temporal value for t.
func Conditions(t time.Time) model.TemporalConditions {
	return model.TemporalConditions{
		TimeOfDay:      TimeOfDay(t),
		IsWeekend:      IsWeekend(t),
		LightCondition: LightCondition(t),
		TrafficVolume:  TrafficVolume(t),
	}
}

// TimeOfDay buckets the hour: 06-12 Morning, 12-17 Afternoon, 17-21 Evening,
// otherwise Night.
func TimeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return model.TimeMorning
	case h >= 12 && h < 17:
		return model.TimeAfternoon
	case h >= 17 && h < 21:
		return model.TimeEvening
	default:
		return model.TimeNight
	}
}

// IsWeekend reports Saturday and Sunday.
func IsWeekend(t time.Time) bool {
	d := t.Weekday()
	return d == time.Saturday || d == time.Sunday
}

// LightCondition is Daylight from 06:00 through the 18:00 hour.
func LightCondition(t time.Time) string {
	if h := t.Hour(); h >= 6 && h <= 18 {
		return model.LightDaylight
	}
	return model.LightNightWithLights
}

// IsRushHour reports the 08-11 and 17-20 commuter windows.
func IsRushHour(t time.Time) bool {
	h := t.Hour()
	return (h >= 8 && h < 11) || (h >= 17 && h < 20)
}

// TrafficVolume estimates traffic from the clock alone.
func TrafficVolume(t time.Time) string {
	h := t.Hour()
	if IsWeekend(t) {
		if h >= 10 && h < 22 {
			return model.TrafficMedium
		}
		return model.TrafficLow
	}
	switch {
	case IsRushHour(t):
		return model.TrafficHigh
	case (h >= 11 && h < 17) || (h >= 20 && h < 22):
		return model.TrafficMedium
	default:
		return model.TrafficLow
	}
}
