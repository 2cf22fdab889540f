// Package core assembles the roadwise application: configuration,
// dependencies, operations and the HTTP handler chain.
package core

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/constants"
	rwhttp "github.com/roadwise/roadwise/http"
	"github.com/roadwise/roadwise/telemetry"
	"github.com/roadwise/roadwise/temporal"
	"github.com/roadwise/roadwise/utils"
)

// App is one fully wired application instance.
type App struct {
	cfg     *config.Config
	deps    *Dependencies
	service *Service
	ops     []*OperationDefinition
	handler http.Handler

	cleanup   func()
	closeOnce sync.Once
}

var _ http.Handler = (*App)(nil)

// CreateApp builds the application for profile. The configuration file named
// by ROADWISE_CONFIG is merged when set.
func CreateApp(profile string) (*App, error) {
	cfg, err := config.Load(profile, os.Getenv(constants.EnvConfigPath))
	if err != nil {
		return nil, err
	}
	return NewApp(context.Background(), cfg)
}

// NewApp builds the application from an already loaded configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if os.Getenv(constants.EnvDebug) != "" {
		utils.SetMode(constants.LogModeDebug)
	} else if cfg.Log.Level != "" {
		utils.SetMode(cfg.Log.Level)
	}

	deps, cleanup, err := InitializeDependencies(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		deps:    deps,
		service: NewService(deps),
		ops:     sortedOperations(GetOperationsMapByGroups(cfg.Endpoints)),
		cleanup: cleanup,
	}
	a.handler = a.buildHandler()

	utils.Info("roadwise ready: profile=%s storage=%s endpoints=%d", cfg.App.Profile, cfg.Storage.Driver, len(a.ops))
	return a, nil
}

func (a *App) buildHandler() http.Handler {
	mux := http.NewServeMux()
	for _, op := range a.ops {
		mux.HandleFunc(op.Pattern(), func(w http.ResponseWriter, r *http.Request) {
			op.Handler(a, w, r)
		})
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteHTTPError(w, constants.ResponseNotFound, http.StatusNotFound)
	})

	var h http.Handler = rwhttp.RequestID(mux)
	if a.cfg.HTTP.CORS {
		h = rwhttp.CORS(h)
	}
	return telemetry.WrapHandler(constants.ServiceName, h)
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Profile is the configuration profile the application was built with.
func (a *App) Profile() string { return a.cfg.App.Profile }

// Config returns the configuration the application was built with.
func (a *App) Config() *config.Config { return a.cfg }

// Service exposes the operations for in-process callers such as the CLI.
func (a *App) Service() *Service { return a.service }

// SetClock replaces the clock the operations read the current time from.
func (a *App) SetClock(c *temporal.Clock) { a.deps.Clock = c }

// Operations lists the registered operations, ordered by path.
func (a *App) Operations() []*OperationDefinition { return a.ops }

// Close releases storage, cache, blob store, event bus, secrets and tracer.
func (a *App) Close() error {
	a.closeOnce.Do(a.cleanup)
	return nil
}
