package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/roadwise/roadwise/adapter"
	"github.com/roadwise/roadwise/cache"
	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wttrSample = `{
  "current_condition": [{
    "cloudcover": "75",
    "humidity": "88",
    "precipMM": "0.0",
    "temp_C": "24",
    "visibility": "3",
    "weatherDesc": [{"value": "Overcast"}],
    "windspeedKmph": "14"
  }],
  "nearest_area": [{"areaName": [{"value": "Pune"}]}]
}`

func TestMapConditions(t *testing.T) {
	tests := []struct {
		name       string
		obs        Observation
		hour       int
		weather    string
		surface    string
		visibility string
		light      string
	}{
		{"clear day", Observation{Description: "Sunny", Visibility: 10000}, 10,
			model.WeatherClear, model.SurfaceDry, model.VisibilityHigh, model.LightDaylight},
		{"rain by description", Observation{Description: "Light rain shower", Visibility: 4000}, 12,
			model.WeatherRainy, model.SurfaceWet, model.VisibilityMedium, model.LightDaylight},
		{"rain by precipitation", Observation{Description: "Overcast", CloudCover: 90, Precipitation: 0.4, Visibility: 8000}, 20,
			model.WeatherRainy, model.SurfaceWet, model.VisibilityHigh, model.LightNightWithLights},
		{"snow", Observation{Description: "Patchy sleet", Visibility: 2000}, 7,
			model.WeatherSnowy, model.SurfaceIcy, model.VisibilityMedium, model.LightDaylight},
		{"snow showers", Observation{Description: "Light snow showers", Precipitation: 0.3, Visibility: 3000}, 8,
			model.WeatherSnowy, model.SurfaceIcy, model.VisibilityMedium, model.LightDaylight},
		{"heavy snow with precipitation", Observation{Description: "Heavy snow", Precipitation: 1.2, Visibility: 800}, 22,
			model.WeatherSnowy, model.SurfaceIcy, model.VisibilityLow, model.LightNightWithLights},
		{"fog", Observation{Description: "Freezing fog", Visibility: 500}, 5,
			model.WeatherFoggy, model.SurfaceWet, model.VisibilityLow, model.LightNightWithLights},
		{"haze", Observation{Description: "Haze", Visibility: 1000}, 6,
			model.WeatherFoggy, model.SurfaceWet, model.VisibilityMedium, model.LightDaylight},
		{"thunder", Observation{Description: "Thundery outbreaks possible", Visibility: 9000}, 18,
			model.WeatherStormy, model.SurfaceWet, model.VisibilityHigh, model.LightNightWithLights},
		{"cloudy", Observation{Description: "Overcast", CloudCover: 75, Visibility: 5000}, 17,
			model.WeatherCloudy, model.SurfaceDry, model.VisibilityHigh, model.LightDaylight},
		{"seventy percent clouds is clear", Observation{Description: "Partly cloudy", CloudCover: 70}, 9,
			model.WeatherClear, model.SurfaceDry, model.VisibilityHigh, model.LightDaylight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MapConditions(tt.obs, tt.hour)
			assert.Equal(t, tt.weather, c.Weather)
			assert.Equal(t, tt.surface, c.RoadSurface)
			assert.Equal(t, tt.visibility, c.Visibility)
			assert.Equal(t, tt.light, c.LightCondition)
			assert.False(t, c.Fallback)
		})
	}
}

func TestVisibilityText(t *testing.T) {
	assert.Equal(t, "10.0 km", VisibilityText(10000))
	assert.Equal(t, "1.5 km", VisibilityText(1500))
	assert.Equal(t, "800 m", VisibilityText(800))
}

func TestParseWttr(t *testing.T) {
	obs, err := ParseWttr([]byte(wttrSample))
	require.NoError(t, err)
	assert.Equal(t, "Overcast", obs.Description)
	assert.Equal(t, 75.0, obs.CloudCover)
	assert.Equal(t, 3000.0, obs.Visibility)
	assert.Equal(t, 24.0, obs.Temperature)
	assert.Equal(t, 88, obs.Humidity)
	assert.Equal(t, 14.0, obs.WindSpeed)
	assert.Equal(t, "Pune", obs.Area)

	obs, err = ParseWttr([]byte(`{"current_condition":[{"weatherDesc":[{"value":"Clear"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Unknown Location", obs.Area)

	_, err = ParseWttr([]byte(`{"data":{}}`))
	assert.ErrorIs(t, err, adapter.ErrUpstream)
}

func TestWttrClient(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/18.52,73.85", r.URL.Path)
		assert.Equal(t, "j1", r.URL.Query().Get("format"))
		w.Write([]byte(wttrSample))
	}))
	defer server.Close()

	c := NewWttrClient(adapter.NewClient(5*time.Second, 1), config.ProviderConfig{URL: server.URL + "/"}, cache.NewMemory(), 10*time.Minute, false)
	assert.Equal(t, "weather", c.ID())
	assert.False(t, c.Mock())

	obs, err := c.Current(context.Background(), 18.52, 73.85)
	require.NoError(t, err)
	assert.Equal(t, "Pune", obs.Area)

	_, err = c.Current(context.Background(), 18.52, 73.85)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second lookup should hit the cache")
}

func TestWttrClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(wttrSample))
	}))
	defer server.Close()

	client := adapter.NewClient(5*time.Second, 3)
	client.InitialInterval = time.Millisecond
	c := NewWttrClient(client, config.ProviderConfig{URL: server.URL}, nil, 0, false)

	obs, err := c.Current(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Overcast", obs.Description)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWttrClient_Mock(t *testing.T) {
	c := NewWttrClient(nil, config.ProviderConfig{}, nil, 0, true)
	obs, err := c.Current(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, MockObservation, obs)
}

type failingProvider struct{ err error }

func (f failingProvider) Current(context.Context, float64, float64) (Observation, error) {
	return Observation{}, f.err
}

func TestService_Conditions(t *testing.T) {
	night := time.Date(2025, 3, 12, 22, 0, 0, 0, time.UTC)
	boom := errors.New("boom")

	c, err := NewService(failingProvider{err: boom}, false).Conditions(context.Background(), 1, 2, night)
	require.NoError(t, err)
	assert.True(t, c.Fallback)
	assert.Equal(t, model.WeatherClear, c.Weather)
	assert.Equal(t, model.SurfaceDry, c.RoadSurface)
	assert.Equal(t, model.VisibilityHigh, c.Visibility)
	assert.Equal(t, model.LightNightWithLights, c.LightCondition)

	_, err = NewService(failingProvider{err: boom}, true).Conditions(context.Background(), 1, 2, night)
	assert.ErrorIs(t, err, boom)

	c, err = NewService(NewWttrClient(nil, config.ProviderConfig{}, nil, 0, true), true).Conditions(context.Background(), 1, 2, night)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", c.Location)
	require.NotNil(t, c.Temperature)
	assert.Equal(t, 28.0, *c.Temperature)
}
