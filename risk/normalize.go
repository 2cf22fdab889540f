// Package risk scores an assessment form and explains the score.
package risk

import (
	"strings"
	"time"

	"github.com/roadwise/roadwise/model"
	"github.com/roadwise/roadwise/temporal"
)

// Form defaults applied to absent numeric fields.
const (
	DefaultDriverAge       = 30
	DefaultExperience      = 5
	DefaultSpeedLimit      = 60
	DefaultCurrentSpeed    = 50
	DefaultAccidentHistory = 0
)

// Normalize returns a copy of in with form defaults applied. Attached licence,
// route and weather data fill any field the form left empty, and
// time-derived fields come from now when absent.
func Normalize(in model.PredictionInput, now time.Time) model.PredictionInput {
	out := in
	out.Mode = strings.ToLower(strings.TrimSpace(out.Mode))
	if out.Mode != model.ModeAuto {
		out.Mode = model.ModeManual
	}

	if l := out.LicenseData; l != nil {
		if out.DriverAge == nil && l.Age != nil {
			out.DriverAge = model.IntPtr(*l.Age)
		}
		if out.Experience == nil && l.Experience != nil {
			out.Experience = model.IntPtr(*l.Experience)
		}
		if out.LicenseValid == "" {
			out.LicenseValid = yesNo(l.IsValid)
		}
		if out.VehicleType == "" && len(l.VehicleTypes) > 0 {
			out.VehicleType = l.VehicleTypes[0]
		}
	}
	if r := out.RouteData; r != nil {
		fill(&out.Location, r.Location)
		fill(&out.AreaType, r.AreaType)
		fill(&out.RoadType, r.RoadType)
		fill(&out.RoadDesign, r.RoadDesign)
		fill(&out.TrafficVolume, r.TrafficVolume)
		if out.SpeedLimit == nil && r.SpeedLimit > 0 {
			out.SpeedLimit = model.IntPtr(r.SpeedLimit)
		}
	}
	if w := out.WeatherData; w != nil {
		fill(&out.Weather, w.Weather)
		fill(&out.RoadSurface, w.RoadSurface)
		fill(&out.Visibility, w.Visibility)
		fill(&out.LightCondition, w.LightCondition)
	}

	t := temporal.Conditions(now)
	fill(&out.TimeOfDay, t.TimeOfDay)
	fill(&out.LightCondition, t.LightCondition)
	fill(&out.TrafficVolume, t.TrafficVolume)
	if out.IsWeekend == nil {
		out.IsWeekend = model.BoolPtr(t.IsWeekend)
	}

	out.DriverAge = model.IntPtr(model.IntOr(out.DriverAge, DefaultDriverAge))
	out.Experience = model.IntPtr(model.IntOr(out.Experience, DefaultExperience))
	out.SpeedLimit = model.IntPtr(model.IntOr(out.SpeedLimit, DefaultSpeedLimit))
	out.CurrentSpeed = model.IntPtr(model.IntOr(out.CurrentSpeed, DefaultCurrentSpeed))
	out.AccidentHistory = model.IntPtr(model.IntOr(out.AccidentHistory, DefaultAccidentHistory))
	fill(&out.LicenseValid, "yes")
	fill(&out.VehicleType, model.VehicleCar)
	return out
}

func fill(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = v
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
