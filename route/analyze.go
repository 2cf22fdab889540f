package route

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/roadwise/roadwise/model"
	"github.com/roadwise/roadwise/temporal"
)

// Route is a driving route as returned by a directions provider. Distance is
// in metres and Duration in seconds.
type Route struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Summary  string  `json:"summary,omitempty"`
	Legs     []Leg   `json:"legs"`
}

type Leg struct {
	Steps []Step `json:"steps"`
}

type Step struct {
	Instruction string  `json:"instruction"`
	Name        string  `json:"name"`
	Distance    float64 `json:"distance"`
}

var (
	highwayNameMarkers = []string{"highway", "expressway", "nh-", "nh ", "sh-", "sh ", "national highway", "state highway"}
	highwayStepMarkers = []string{"highway", "expressway"}
	villageNameMarkers = []string{"village", "gram", "rural", "gaon", "panchayat", "taluka", "khasra", "unpaved", "dirt", "mdr"}
	junctionMarkers    = []string{"roundabout", "junction", "intersection", "cross"}
	turnMarkers        = []string{"turn", "left", "right"}
	straightMarkers    = []string{"straight", "continue", "head"}
)

// DefaultConditions are reported for routes without legs.
func DefaultConditions() model.RouteConditions {
	return model.RouteConditions{
		RoadType:      model.RoadTypeCity,
		AreaType:      model.AreaUrban,
		TrafficVolume: model.TrafficMedium,
		RoadDesign:    model.DesignStraight,
		SpeedLimit:    60,
	}
}

type stepCounts struct {
	highway, city, village  int
	junctions, turns, ahead int
	names                   strings.Builder
}

// Analyze classifies a route's road, area, traffic and design from its step
// names and instructions. When the provider returned (almost) no road names
// the classification falls back to average speed and distance. now decides
// rush hour.
func Analyze(r Route, now time.Time) model.RouteConditions {
	c := DefaultConditions()
	if len(r.Legs) == 0 {
		return c
	}

	c.DistanceKm = math.Round(r.Distance/100) / 10
	c.DurationMin = int(math.Round(r.Duration / 60))
	c.Summary = r.Summary
	if c.Summary == "" {
		c.Summary = "Route calculated"
	}

	steps := r.Legs[0].Steps
	counts := countSteps(steps)
	rush := temporal.IsRushHour(now)

	if utf8.RuneCountInString(strings.TrimSpace(counts.names.String())) <= 10 {
		classifyBySpeed(&c, rush)
		return c
	}

	total := float64(len(steps))
	villagePct := float64(counts.village) / total * 100
	highwayPct := float64(counts.highway) / total * 100

	switch {
	case villagePct > 30 || counts.village > counts.city:
		c.RoadType, c.SpeedLimit = model.RoadTypeRural, 40
	case highwayPct > 40 || counts.highway > counts.city:
		c.RoadType, c.SpeedLimit = model.RoadTypeHighway, 80
	default:
		c.RoadType, c.SpeedLimit = model.RoadTypeCity, 60
	}

	switch {
	case c.RoadType == model.RoadTypeRural || counts.village > 3:
		c.AreaType = model.AreaRural
	case c.RoadType == model.RoadTypeHighway:
		if c.DistanceKm < 10 {
			c.AreaType = model.AreaSuburban
		} else {
			c.AreaType = model.AreaRural
		}
	case c.DistanceKm < 5:
		c.AreaType = model.AreaUrban
	case c.DistanceKm < 15:
		c.AreaType = model.AreaSuburban
	default:
		c.AreaType = model.AreaRural
	}

	switch {
	case c.AreaType == model.AreaRural || c.RoadType == model.RoadTypeRural:
		c.TrafficVolume = model.TrafficLow
	case c.AreaType == model.AreaUrban && c.RoadType == model.RoadTypeCity && rush:
		c.TrafficVolume = model.TrafficHigh
	default:
		c.TrafficVolume = model.TrafficMedium
	}

	switch {
	case counts.junctions > 5:
		c.RoadDesign = model.DesignJunction
	case float64(counts.turns)/total > 0.5 || counts.turns > 10:
		c.RoadDesign = model.DesignCurved
	default:
		c.RoadDesign = model.DesignStraight
	}
	return c
}

func countSteps(steps []Step) *stepCounts {
	counts := &stepCounts{}
	for _, step := range steps {
		instruction := strings.ToLower(step.Instruction)
		name := strings.ToLower(step.Name)
		counts.names.WriteString(" " + name)

		switch {
		case containsAny(name, highwayNameMarkers) || containsAny(instruction, highwayStepMarkers):
			counts.highway++
		case containsAny(name, villageNameMarkers) || name == "" || name == "unnamed road":
			counts.village++
		default:
			counts.city++
		}
		if containsAny(instruction, junctionMarkers) {
			counts.junctions++
		}
		if containsAny(instruction, turnMarkers) {
			counts.turns++
		}
		if containsAny(instruction, straightMarkers) {
			counts.ahead++
		}
	}
	return counts
}

// classifyBySpeed handles routes without usable road names.
func classifyBySpeed(c *model.RouteConditions, rush bool) {
	km := c.DistanceKm
	minutes := float64(c.DurationMin)
	// Zero minutes yields +Inf (or NaN for an empty route), as the
	// comparisons below expect.
	avgSpeed := km / minutes * 60

	farArea := model.AreaSuburban
	if km > 15 {
		farArea = model.AreaRural
	}

	switch {
	case avgSpeed > 50:
		c.RoadType, c.SpeedLimit, c.AreaType, c.TrafficVolume = model.RoadTypeHighway, 80, farArea, model.TrafficMedium
	case avgSpeed > 25 && km > 10 && rush:
		c.RoadType, c.SpeedLimit, c.AreaType, c.TrafficVolume = model.RoadTypeHighway, 80, farArea, model.TrafficHigh
	case avgSpeed > 25 && km > 10:
		c.RoadType, c.SpeedLimit, c.AreaType, c.TrafficVolume = model.RoadTypeCity, 60, model.AreaSuburban, model.TrafficMedium
	case avgSpeed < 25 && km < 8:
		c.RoadType, c.SpeedLimit, c.AreaType, c.TrafficVolume = model.RoadTypeCity, 60, model.AreaUrban, model.TrafficHigh
	case km > 15:
		c.RoadType, c.SpeedLimit, c.AreaType, c.TrafficVolume = model.RoadTypeHighway, 80, model.AreaSuburban, model.TrafficMedium
	default:
		c.RoadType, c.SpeedLimit, c.AreaType, c.TrafficVolume = model.RoadTypeRural, 40, model.AreaRural, model.TrafficLow
	}

	if minutes > km*2 {
		c.RoadDesign = model.DesignCurved
	} else {
		c.RoadDesign = model.DesignStraight
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
