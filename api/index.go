// Package handler is the Vercel Go function entry point.
package handler

import (
	"net/http"

	"github.com/roadwise/roadwise/constants"
	"github.com/roadwise/roadwise/core"
	rwhttp "github.com/roadwise/roadwise/http"
)

var (
	factory rwhttp.Factory = createApp
	entry                  = newEntry()
)

func createApp(profile string) (http.Handler, error) {
	app, err := core.CreateApp(profile)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func newEntry() *rwhttp.Adapter {
	return rwhttp.NewAdapter(func(profile string) (http.Handler, error) {
		return factory(profile)
	}, constants.ProfileProduction)
}

// Handler serves every request with the production application, built on
// the first request of the process.
func Handler(w http.ResponseWriter, r *http.Request) {
	entry.ServeHTTP(w, r)
}
