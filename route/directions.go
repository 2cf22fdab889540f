package route

import (
	"context"
	"fmt"
	"net/url"

	"github.com/roadwise/roadwise/adapter"
	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/model"
	"github.com/tidwall/gjson"
)

// MockRoute is the route returned in mock mode.
var MockRoute = Route{
	Distance: 8500,
	Duration: 1200,
	Summary:  "Via Main Road and Highway 1",
	Legs: []Leg{{Steps: []Step{
		{Instruction: "Head north on Main Street", Name: "Main Street", Distance: 500},
		{Instruction: "Turn right onto Highway 1", Name: "Highway 1", Distance: 7000},
		{Instruction: "Turn left at junction", Name: "Park Road", Distance: 1000},
	}}},
}

// Directions finds a driving route between two places.
type Directions interface {
	Route(ctx context.Context, from, to model.Place) (Route, error)
}

// TrueWayDirections calls the RapidAPI-hosted TrueWay FindDrivingRoute endpoint.
type TrueWayDirections struct {
	client *adapter.Client
	cfg    config.ProviderConfig
	keys   adapter.KeySource
	mock   bool
}

var (
	_ Directions      = (*TrueWayDirections)(nil)
	_ adapter.Adapter = (*TrueWayDirections)(nil)
)

func NewTrueWayDirections(client *adapter.Client, cfg config.ProviderConfig, keys adapter.KeySource, mock bool) *TrueWayDirections {
	return &TrueWayDirections{client: client, cfg: cfg, keys: keys, mock: mock}
}

func (d *TrueWayDirections) ID() string { return "directions" }

func (d *TrueWayDirections) Mock() bool { return d.mock }

func (d *TrueWayDirections) Route(ctx context.Context, from, to model.Place) (Route, error) {
	if d.mock {
		return MockRoute, nil
	}
	headers, err := adapter.RapidAPIHeadersFrom(ctx, d.keys, d.cfg.Host)
	if err != nil {
		return Route{}, err
	}

	stops := fmt.Sprintf("%g,%g;%g,%g", from.Lat, from.Lon, to.Lat, to.Lon)
	body, err := d.client.Get(ctx, d.cfg.URL+"?stops="+url.QueryEscape(stops), headers)
	if err != nil {
		return Route{}, fmt.Errorf("directions request failed: %w", err)
	}
	return parseTrueWay(body)
}

func parseTrueWay(body []byte) (Route, error) {
	doc := gjson.GetBytes(body, "route")
	if !doc.Exists() {
		return Route{}, fmt.Errorf("%w: directions response has no route", adapter.ErrUpstream)
	}
	r := Route{
		Distance: doc.Get("distance").Float(),
		Duration: doc.Get("duration").Float(),
		Summary:  doc.Get("summary").String(),
	}
	doc.Get("legs").ForEach(func(_, leg gjson.Result) bool {
		var l Leg
		leg.Get("steps").ForEach(func(_, step gjson.Result) bool {
			instruction := step.Get("instruction").String()
			if instruction == "" {
				instruction = step.Get("maneuver").String()
			}
			l.Steps = append(l.Steps, Step{
				Instruction: instruction,
				Name:        step.Get("name").String(),
				Distance:    step.Get("distance").Float(),
			})
			return true
		})
		r.Legs = append(r.Legs, l)
		return true
	})
	return r, nil
}
