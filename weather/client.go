package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roadwise/roadwise/adapter"
	"github.com/roadwise/roadwise/cache"
	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/model"
	"github.com/roadwise/roadwise/utils"
)

// MockObservation is returned in mock mode.
var MockObservation = Observation{
	Description: "Clear",
	CloudCover:  10,
	Visibility:  10000,
	Temperature: 28,
	Humidity:    60,
	WindSpeed:   12.6,
	Area:        "Mumbai",
}

// Provider reports the current weather at a coordinate.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (Observation, error)
}

// WttrClient reads observations from wttr.in and caches them.
type WttrClient struct {
	client *adapter.Client
	base   string
	cache  cache.Cache
	ttl    time.Duration
	mock   bool
}

var (
	_ Provider        = (*WttrClient)(nil)
	_ adapter.Adapter = (*WttrClient)(nil)
)

// NewWttrClient creates a wttr.in client. c may be nil to disable caching.
func NewWttrClient(client *adapter.Client, cfg config.ProviderConfig, c cache.Cache, ttl time.Duration, mock bool) *WttrClient {
	if c == nil {
		c = cache.Nop{}
	}
	return &WttrClient{client: client, base: strings.TrimRight(cfg.URL, "/"), cache: c, ttl: ttl, mock: mock}
}

func (w *WttrClient) ID() string { return "weather" }

func (w *WttrClient) Mock() bool { return w.mock }

func (w *WttrClient) Current(ctx context.Context, lat, lon float64) (Observation, error) {
	if w.mock {
		return MockObservation, nil
	}

	key := fmt.Sprintf("weather:%.3f,%.3f", lat, lon)
	var obs Observation
	if err := cache.GetJSON(ctx, w.cache, key, &obs); err == nil {
		return obs, nil
	}

	body, err := w.client.Get(ctx, fmt.Sprintf("%s/%g,%g?format=j1", w.base, lat, lon), nil)
	if err != nil {
		return Observation{}, fmt.Errorf("weather request failed: %w", err)
	}
	obs, err = ParseWttr(body)
	if err != nil {
		return Observation{}, err
	}
	if err := cache.SetJSON(ctx, w.cache, key, obs, w.ttl); err != nil {
		utils.WarnCtx(ctx, "failed to cache weather observation", "key", key, "error", err)
	}
	return obs, nil
}

// Service maps provider observations to form conditions. In strict mode a
// provider failure is returned; otherwise the default conditions are reported
// with Fallback set.
type Service struct {
	provider Provider
	strict   bool
}

func NewService(provider Provider, strict bool) *Service {
	return &Service{provider: provider, strict: strict}
}

// Conditions reports the mapped conditions at lat,lon as of now.
func (s *Service) Conditions(ctx context.Context, lat, lon float64, now time.Time) (model.WeatherConditions, error) {
	obs, err := s.provider.Current(ctx, lat, lon)
	if err != nil {
		if s.strict {
			return model.WeatherConditions{}, err
		}
		utils.WarnCtx(ctx, "weather unavailable, using defaults", "lat", lat, "lon", lon, "error", err)
		return DefaultConditions(lightAt(now)), nil
	}
	return MapConditions(obs, now.Hour()), nil
}

func lightAt(now time.Time) string {
	if h := now.Hour(); h >= 6 && h < 18 {
		return model.LightDaylight
	}
	return model.LightNightWithLights
}
