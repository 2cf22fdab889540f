// Package weather fetches current observations and maps them onto the
// environmental values of the assessment form.
package weather

import (
	"fmt"
	"strings"

	"github.com/roadwise/roadwise/adapter"
	"github.com/roadwise/roadwise/model"
	"github.com/tidwall/gjson"
)

// defaultVisibilityMeters is assumed when an observation carries none.
const defaultVisibilityMeters = 10000

// Observation is a current weather report.
type Observation struct {
	Description   string  `json:"description"`
	CloudCover    float64 `json:"cloud_cover"`
	Visibility    float64 `json:"visibility_m"`
	Precipitation float64 `json:"precipitation_mm"`
	Temperature   float64 `json:"temperature_c"`
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"wind_kmph"`
	Area          string  `json:"area"`
}

var (
	rainMarkers  = []string{"rain", "drizzle", "shower"}
	snowMarkers  = []string{"snow", "sleet", "ice"}
	fogMarkers   = []string{"mist", "fog", "haze"}
	stormMarkers = []string{"storm", "thunder"}
)

// DefaultConditions are reported when no observation is available.
func DefaultConditions(light string) model.WeatherConditions {
	return model.WeatherConditions{
		Weather:        model.WeatherClear,
		RoadSurface:    model.SurfaceDry,
		Visibility:     model.VisibilityHigh,
		VisibilityText: VisibilityText(defaultVisibilityMeters),
		LightCondition: light,
		Fallback:       true,
	}
}

// MapConditions derives weather, road surface, visibility band and light
// condition from an observation taken at hour.
func MapConditions(obs Observation, hour int) model.WeatherConditions {
	desc := strings.ToLower(obs.Description)
	c := model.WeatherConditions{
		Description: obs.Description,
		Location:    obs.Area,
		Temperature: &obs.Temperature,
		Humidity:    &obs.Humidity,
	}

	switch {
	case containsAny(desc, snowMarkers):
		c.Weather, c.RoadSurface = model.WeatherSnowy, model.SurfaceIcy
	case containsAny(desc, rainMarkers) || obs.Precipitation > 0:
		c.Weather, c.RoadSurface = model.WeatherRainy, model.SurfaceWet
	case containsAny(desc, fogMarkers):
		c.Weather, c.RoadSurface = model.WeatherFoggy, model.SurfaceWet
	case containsAny(desc, stormMarkers):
		c.Weather, c.RoadSurface = model.WeatherStormy, model.SurfaceWet
	case obs.CloudCover > 70:
		c.Weather, c.RoadSurface = model.WeatherCloudy, model.SurfaceDry
	default:
		c.Weather, c.RoadSurface = model.WeatherClear, model.SurfaceDry
	}

	visibility := obs.Visibility
	if visibility <= 0 {
		visibility = defaultVisibilityMeters
	}
	switch {
	case visibility < 1000:
		c.Visibility = model.VisibilityLow
	case visibility < 5000:
		c.Visibility = model.VisibilityMedium
	default:
		c.Visibility = model.VisibilityHigh
	}
	c.VisibilityText = VisibilityText(visibility)

	if hour >= 6 && hour < 18 {
		c.LightCondition = model.LightDaylight
	} else {
		c.LightCondition = model.LightNightWithLights
	}
	return c
}

// VisibilityText renders a distance in metres for display.
func VisibilityText(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", meters)
}

// ParseWttr reads a wttr.in "format=j1" document.
func ParseWttr(body []byte) (Observation, error) {
	doc := gjson.ParseBytes(body)
	current := doc.Get("current_condition.0")
	if !current.Exists() {
		return Observation{}, fmt.Errorf("%w: weather response has no current condition", adapter.ErrUpstream)
	}

	area := doc.Get("nearest_area.0.areaName.0.value").String()
	if area == "" {
		area = "Unknown Location"
	}
	return Observation{
		Description:   current.Get("weatherDesc.0.value").String(),
		CloudCover:    current.Get("cloudcover").Float(),
		Visibility:    current.Get("visibility").Float() * 1000,
		Precipitation: current.Get("precipMM").Float(),
		Temperature:   current.Get("temp_C").Float(),
		Humidity:      int(current.Get("humidity").Int()),
		WindSpeed:     current.Get("windspeedKmph").Float(),
		Area:          area,
	}, nil
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
