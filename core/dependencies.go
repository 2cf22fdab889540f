package core

import (
	"context"
	"io"
	"time"

	"github.com/roadwise/roadwise/adapter"
	"github.com/roadwise/roadwise/blob"
	"github.com/roadwise/roadwise/cache"
	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/event"
	"github.com/roadwise/roadwise/license"
	"github.com/roadwise/roadwise/route"
	"github.com/roadwise/roadwise/secrets"
	"github.com/roadwise/roadwise/storage"
	"github.com/roadwise/roadwise/telemetry"
	"github.com/roadwise/roadwise/temporal"
	"github.com/roadwise/roadwise/utils"
	"github.com/roadwise/roadwise/weather"
)

// Dependencies are the long-lived collaborators the operations share.
type Dependencies struct {
	Clock    *temporal.Clock
	Store    storage.Storage
	Cache    cache.Cache
	Blob     blob.BlobStore
	Bus      event.EventBus
	Secrets  secrets.SecretsProvider
	Adapters *adapter.Registry
	OCR      license.OCR
	Geocoder route.Geocoder
	Planner  *route.Planner
	Weather  *weather.Service
}

// InitializeDependencies sets up storage, cache, blob store, event bus,
// secrets, tracing and the upstream providers. The returned cleanup releases
// everything that was opened; it is safe to call once.
func InitializeDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*Dependencies, func(), error) {
		cleanup()
		return nil, nil, err
	}

	clock, err := temporal.NewClock(cfg.App.Timezone)
	if err != nil {
		return nil, nil, err
	}

	shutdown, err := telemetry.Init(ctx, cfg.Tracing)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			utils.Error("Failed to shut down tracer: %v", err)
		}
	})

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fail(utils.Errorf("failed to initialize storage: %w", err))
	}
	closers = append(closers, closeWith("storage", store))

	c, err := cache.New(cfg.Cache)
	if err != nil {
		return fail(utils.Errorf("failed to initialize cache: %w", err))
	}
	closers = append(closers, closeWith("cache", c))

	blobStore, err := blob.New(ctx, cfg.Blob)
	if err != nil {
		return fail(utils.Errorf("failed to initialize blob store: %w", err))
	}
	if closer, ok := blobStore.(io.Closer); ok {
		closers = append(closers, closeWith("blob store", closer))
	}

	bus, err := event.NewEventBusFromConfig(cfg.Event)
	if err != nil {
		utils.WarnCtx(ctx, "Failed to create event bus, using in-memory fallback", "error", err)
		bus = event.NewInProcEventBus()
	}
	closers = append(closers, closeWith("event bus", bus))

	keys, err := secrets.NewSecretsProvider(ctx, cfg.Secrets)
	if err != nil {
		return fail(utils.Errorf("failed to initialize secrets: %w", err))
	}
	closers = append(closers, closeWith("secrets", keys))

	p := cfg.Providers
	client := adapter.NewClient(time.Duration(p.TimeoutSeconds)*time.Second, p.Retries)
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second

	ocr := license.NewOCRClient(client, p.OCR, keys, p.Mock)
	geocoder := route.NewNominatimGeocoder(client, p.Geocoder, c, ttl, p.Mock)
	directions := route.NewTrueWayDirections(client, p.Directions, keys, p.Mock)
	wttr := weather.NewWttrClient(client, p.Weather, c, ttl, p.Mock)

	adapters := adapter.NewRegistry()
	adapters.Register(ocr)
	adapters.Register(geocoder)
	adapters.Register(directions)
	adapters.Register(wttr)
	closers = append(closers, func() {
		if err := adapters.CloseAll(); err != nil {
			utils.Error("Failed to close adapters: %v", err)
		}
	})

	deps := &Dependencies{
		Clock:    clock,
		Store:    store,
		Cache:    c,
		Blob:     blobStore,
		Bus:      bus,
		Secrets:  keys,
		Adapters: adapters,
		OCR:      ocr,
		Geocoder: geocoder,
		Planner:  route.NewPlanner(geocoder, directions),
		Weather:  weather.NewService(wttr, p.Strict),
	}
	return deps, cleanup, nil
}

func closeWith(name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			utils.Error("Failed to close %s: %v", name, err)
		}
	}
}
