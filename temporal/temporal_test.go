package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-03-12 is a Wednesday, 2025-03-15 a Saturday.
func weekday(hour int) time.Time { return time.Date(2025, 3, 12, hour, 30, 0, 0, time.UTC) }
func weekend(hour int) time.Time { return time.Date(2025, 3, 15, hour, 30, 0, 0, time.UTC) }

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, "Night"}, {6, "Morning"}, {11, "Morning"}, {12, "Afternoon"},
		{16, "Afternoon"}, {17, "Evening"}, {20, "Evening"}, {21, "Night"}, {0, "Night"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeOfDay(weekday(tt.hour)), "hour %d", tt.hour)
	}
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, IsWeekend(weekday(10)))
	assert.True(t, IsWeekend(weekend(10)))
	assert.True(t, IsWeekend(time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)))
}

func TestLightCondition(t *testing.T) {
	assert.Equal(t, "Night_with_lights", LightCondition(weekday(5)))
	assert.Equal(t, "Daylight", LightCondition(weekday(6)))
	assert.Equal(t, "Daylight", LightCondition(weekday(18)))
	assert.Equal(t, "Night_with_lights", LightCondition(weekday(19)))
}

func TestTrafficVolume(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"weekday early", weekday(7), "Low"},
		{"weekday morning rush", weekday(8), "High"},
		{"weekday late morning", weekday(11), "Medium"},
		{"weekday evening rush", weekday(19), "High"},
		{"weekday late evening", weekday(21), "Medium"},
		{"weekday night", weekday(23), "Low"},
		{"weekend morning", weekend(9), "Low"},
		{"weekend day", weekend(10), "Medium"},
		{"weekend rush hour is not rush", weekend(18), "Medium"},
		{"weekend night", weekend(22), "Low"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrafficVolume(tt.at))
		})
	}
}

func TestIsRushHour(t *testing.T) {
	assert.True(t, IsRushHour(weekday(10)))
	assert.False(t, IsRushHour(weekday(11)))
	assert.True(t, IsRushHour(weekday(17)))
	assert.False(t, IsRushHour(weekday(20)))
}

func TestConditions(t *testing.T) {
	c := Conditions(weekday(9))
	assert.Equal(t, "Morning", c.TimeOfDay)
	assert.False(t, c.IsWeekend)
	assert.Equal(t, "Daylight", c.LightCondition)
	assert.Equal(t, "High", c.TrafficVolume)
}

func TestClock(t *testing.T) {
	c, err := NewClock("Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", c.Now().Location().String())

	_, err = NewClock("Mars/Olympus")
	assert.ErrorContains(t, err, "invalid timezone")

	// 03:00 UTC is 08:30 in Kolkata: rush hour there, not in UTC.
	at := time.Date(2025, 3, 12, 3, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return at }
	assert.Equal(t, 8, c.Now().Hour())
	assert.True(t, IsRushHour(c.Now()))

	fixed := FixedClock(at)
	assert.Equal(t, at, fixed.Now())
	assert.Equal(t, time.UTC, fixed.Location())
}
