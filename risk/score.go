package risk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roadwise/roadwise/model"
)

// Factor categories.
const (
	CategoryDriver      = "driver"
	CategoryVehicle     = "vehicle"
	CategoryRoad        = "road"
	CategoryEnvironment = "environment"
	CategorySpeed       = "speed"
	CategoryTemporal    = "temporal"
	CategoryHistory     = "history"
)

// baseScore is the risk any trip carries.
const baseScore = 5

// Assessment is the outcome of scoring a normalized form.
type Assessment struct {
	Score           int
	Level           string
	Probability     float64
	Factors         []model.RiskFactor
	Recommendations []string
}

// Level maps a score to its risk level.
func Level(score int) string {
	switch {
	case score < 25:
		return model.RiskLow
	case score < 50:
		return model.RiskModerate
	case score < 75:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}

type factors []model.RiskFactor

func (f *factors) add(category string, points int, format string, args ...any) {
	if points == 0 {
		return
	}
	*f = append(*f, model.RiskFactor{Category: category, Description: fmt.Sprintf(format, args...), Points: points})
}

// Assess scores in, which should already be normalized. The score is the sum
// of the factor points plus a base, clamped to 0..100.
func Assess(in model.PredictionInput) Assessment {
	var f factors
	driverFactors(&f, in)
	vehicleFactors(&f, in)
	roadFactors(&f, in)
	environmentFactors(&f, in)
	speedFactors(&f, in)
	temporalFactors(&f, in)
	historyFactors(&f, in)

	score := baseScore
	for _, factor := range f {
		score += factor.Points
	}
	score = max(0, min(100, score))

	sort.SliceStable(f, func(i, j int) bool { return f[i].Points > f[j].Points })
	return Assessment{
		Score:           score,
		Level:           Level(score),
		Probability:     float64(score) / 100,
		Factors:         []model.RiskFactor(f),
		Recommendations: recommendations(f),
	}
}

func driverFactors(f *factors, in model.PredictionInput) {
	age := model.IntOr(in.DriverAge, DefaultDriverAge)
	switch {
	case age < 21:
		f.add(CategoryDriver, 12, "Young driver (%d years)", age)
	case age < 25:
		f.add(CategoryDriver, 6, "Driver under 25 (%d years)", age)
	case age > 65:
		f.add(CategoryDriver, 8, "Senior driver (%d years)", age)
	}

	experience := model.IntOr(in.Experience, DefaultExperience)
	switch {
	case experience < 1:
		f.add(CategoryDriver, 12, "Less than a year of driving experience")
	case experience < 3:
		f.add(CategoryDriver, 8, "Limited driving experience (%d years)", experience)
	case experience < 5:
		f.add(CategoryDriver, 4, "Moderate driving experience (%d years)", experience)
	}

	if strings.EqualFold(in.LicenseValid, "no") {
		f.add(CategoryDriver, 15, "Driving licence is not valid")
	}
}

var vehiclePoints = map[string]int{
	model.VehicleBike:         10,
	model.VehicleAutoRickshaw: 6,
	model.VehicleTruck:        6,
	model.VehicleBus:          5,
}

func vehicleFactors(f *factors, in model.PredictionInput) {
	f.add(CategoryVehicle, vehiclePoints[in.VehicleType], "%s is more exposed in a collision", in.VehicleType)
}

func roadFactors(f *factors, in model.PredictionInput) {
	switch in.RoadType {
	case model.RoadTypeRural:
		f.add(CategoryRoad, 6, "Rural road")
	case model.RoadTypeHighway:
		f.add(CategoryRoad, 4, "Highway speeds")
	}
	switch in.RoadDesign {
	case model.DesignCurved:
		f.add(CategoryRoad, 6, "Curved road")
	case model.DesignJunction:
		f.add(CategoryRoad, 5, "Junctions along the way")
	}
	switch in.RoadSurface {
	case model.SurfaceWet:
		f.add(CategoryRoad, 8, "Wet road surface")
	case model.SurfaceIcy:
		f.add(CategoryRoad, 15, "Icy road surface")
	}
	switch in.TrafficVolume {
	case model.TrafficHigh:
		f.add(CategoryRoad, 6, "Heavy traffic")
	case model.TrafficMedium:
		f.add(CategoryRoad, 3, "Moderate traffic")
	}
	if in.AreaType == model.AreaUrban {
		f.add(CategoryRoad, 2, "Dense urban area")
	}
}

var weatherPoints = map[string]int{
	model.WeatherCloudy: 2,
	model.WeatherRainy:  8,
	model.WeatherFoggy:  10,
	model.WeatherSnowy:  12,
	model.WeatherStormy: 14,
}

func environmentFactors(f *factors, in model.PredictionInput) {
	f.add(CategoryEnvironment, weatherPoints[in.Weather], "%s weather", in.Weather)
	switch in.Visibility {
	case model.VisibilityLow:
		f.add(CategoryEnvironment, 10, "Low visibility")
	case model.VisibilityMedium:
		f.add(CategoryEnvironment, 5, "Reduced visibility")
	}
	switch in.LightCondition {
	case model.LightNightWithLights:
		f.add(CategoryEnvironment, 5, "Night driving with street lights")
	case model.LightNightNoLights:
		f.add(CategoryEnvironment, 10, "Night driving without street lights")
	}
}

func speedFactors(f *factors, in model.PredictionInput) {
	limit := model.IntOr(in.SpeedLimit, DefaultSpeedLimit)
	over := model.IntOr(in.CurrentSpeed, DefaultCurrentSpeed) - limit
	switch {
	case over > 20:
		f.add(CategorySpeed, 20, "%d km/h over the %d km/h limit", over, limit)
	case over > 10:
		f.add(CategorySpeed, 14, "%d km/h over the %d km/h limit", over, limit)
	case over > 0:
		f.add(CategorySpeed, 8, "%d km/h over the %d km/h limit", over, limit)
	}
}

func temporalFactors(f *factors, in model.PredictionInput) {
	switch in.TimeOfDay {
	case model.TimeNight:
		f.add(CategoryTemporal, 4, "Night-time travel")
	case model.TimeEvening:
		f.add(CategoryTemporal, 2, "Evening travel")
	}
	if in.IsWeekend != nil && *in.IsWeekend {
		f.add(CategoryTemporal, 2, "Weekend travel")
	}
}

func historyFactors(f *factors, in model.PredictionInput) {
	n := model.IntOr(in.AccidentHistory, DefaultAccidentHistory)
	if n > 0 {
		f.add(CategoryHistory, min(15, n*5), "%d previous accident(s) on this route", n)
	}
}

var advice = map[string]string{
	CategoryDriver:      "Drive with an experienced companion and keep your licence up to date.",
	CategoryVehicle:     "Wear protective gear and keep a safe distance from larger vehicles.",
	CategoryRoad:        "Slow down on this stretch and watch for turns and slippery patches.",
	CategoryEnvironment: "Use headlights and increase your following distance.",
	CategorySpeed:       "Reduce your speed to the posted limit.",
	CategoryTemporal:    "Stay alert for fatigued drivers and consider travelling at a busier, better lit time.",
	CategoryHistory:     "This route has an accident history; take extra care at known hotspots.",
}

const safeTrip = "Conditions look favourable. Drive safely and stay alert."

// recommendations gives advice for the top three categories of the sorted factors.
func recommendations(sorted []model.RiskFactor) []string {
	var out []string
	seen := map[string]bool{}
	for _, factor := range sorted {
		if seen[factor.Category] {
			continue
		}
		seen[factor.Category] = true
		out = append(out, advice[factor.Category])
		if len(out) == 3 {
			break
		}
	}
	if len(out) == 0 {
		out = append(out, safeTrip)
	}
	return out
}
