// Package http hosts the application on serverless platforms and provides
// the middleware every deployment shares.
package http

import (
	"fmt"
	"net/http"
	"sync"
)

// Factory builds the application for a configuration profile.
type Factory func(profile string) (http.Handler, error)

// Adapter runs one application instance per process on a serverless host.
// The instance is built on first use; a factory error panics, and so does
// every later use. Requests are passed through untouched and panics raised
// by the application are not recovered.
type Adapter struct {
	factory Factory
	profile string

	once sync.Once
	app  http.Handler
	err  error
}

// NewAdapter returns an adapter that builds its application with
// factory(profile).
func NewAdapter(factory Factory, profile string) *Adapter {
	return &Adapter{factory: factory, profile: profile}
}

// App returns the application, building it on the first call.
func (a *Adapter) App() http.Handler {
	a.once.Do(func() {
		a.app, a.err = a.factory(a.profile)
		if a.err == nil && a.app == nil {
			a.err = fmt.Errorf("factory returned no application")
		}
	})
	if a.err != nil {
		panic(fmt.Errorf("failed to create %s application: %w", a.profile, a.err))
	}
	return a.app
}

func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.App().ServeHTTP(w, r)
}
