// Package route geocodes trip ends, fetches a driving route between them and
// derives road and traffic conditions from it.
package route

import (
	"context"
	"fmt"
	"time"

	"github.com/roadwise/roadwise/model"
	"github.com/roadwise/roadwise/utils"
)

// Planner resolves both ends of a trip and analyzes the route between them.
type Planner struct {
	geocoder   Geocoder
	directions Directions
}

func NewPlanner(geocoder Geocoder, directions Directions) *Planner {
	return &Planner{geocoder: geocoder, directions: directions}
}

// Plan geocodes source and destination, fetches the route and analyzes it as
// of now. Location carries the same "km, min - summary" line the form shows.
func (p *Planner) Plan(ctx context.Context, source, destination string, now time.Time) (model.RouteConditions, error) {
	from, err := p.geocoder.Resolve(ctx, source)
	if err != nil {
		return model.RouteConditions{}, fmt.Errorf("source: %w", err)
	}
	to, err := p.geocoder.Resolve(ctx, destination)
	if err != nil {
		return model.RouteConditions{}, fmt.Errorf("destination: %w", err)
	}

	r, err := p.directions.Route(ctx, from, to)
	if err != nil {
		return model.RouteConditions{}, err
	}

	conditions := Analyze(r, now)
	conditions.Source = &from
	conditions.Destination = &to
	conditions.Location = fmt.Sprintf("%.1f km, %d min - %s", conditions.DistanceKm, conditions.DurationMin, conditions.Summary)

	utils.DebugCtx(ctx, "route analyzed",
		"road_type", conditions.RoadType,
		"area_type", conditions.AreaType,
		"traffic", conditions.TrafficVolume,
		"design", conditions.RoadDesign)
	return conditions, nil
}
