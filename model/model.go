package model

import (
	"time"

	"github.com/google/uuid"
)

// Road types
const (
	RoadTypeCity    = "City_Road"
	RoadTypeHighway = "Highway"
	RoadTypeRural   = "Rural_Road"
)

// Area types
const (
	AreaUrban    = "Urban"
	AreaSuburban = "Suburban"
	AreaRural    = "Rural"
)

// Traffic volumes
const (
	TrafficLow    = "Low"
	TrafficMedium = "Medium"
	TrafficHigh   = "High"
)

// Road designs
const (
	DesignStraight = "Straight"
	DesignCurved   = "Curved"
	DesignJunction = "Junction"
)

// Weather kinds
const (
	WeatherClear  = "Clear"
	WeatherCloudy = "Cloudy"
	WeatherRainy  = "Rainy"
	WeatherSnowy  = "Snowy"
	WeatherFoggy  = "Foggy"
	WeatherStormy = "Stormy"
)

// Road surfaces
const (
	SurfaceDry = "Dry"
	SurfaceWet = "Wet"
	SurfaceIcy = "Icy"
)

// Visibility bands
const (
	VisibilityLow    = "low"
	VisibilityMedium = "medium"
	VisibilityHigh   = "high"
)

// Light conditions
const (
	LightDaylight        = "Daylight"
	LightNightWithLights = "Night_with_lights"
	LightNightNoLights   = "Night_without_lights"
)

// Times of day
const (
	TimeMorning   = "Morning"
	TimeAfternoon = "Afternoon"
	TimeEvening   = "Evening"
	TimeNight     = "Night"
)

// Vehicle types
const (
	VehicleCar          = "Car"
	VehicleBike         = "Bike"
	VehicleTruck        = "Truck"
	VehicleBus          = "Bus"
	VehicleAutoRickshaw = "Auto-rickshaw"
)

// Input modes
const (
	ModeManual = "manual"
	ModeAuto   = "auto"
)

// Risk levels
const (
	RiskLow      = "Low"
	RiskModerate = "Moderate"
	RiskHigh     = "High"
	RiskCritical = "Critical"
)

// LicenseData is what could be read off a driving licence. Age and
// Experience are nil when the corresponding date was not found.
type LicenseData struct {
	Name          string   `json:"name,omitempty" yaml:"name,omitempty"`
	DateOfBirth   string   `json:"date_of_birth,omitempty" yaml:"date_of_birth,omitempty"`
	Age           *int     `json:"age,omitempty" yaml:"age,omitempty"`
	LicenseNumber string   `json:"license_number,omitempty" yaml:"license_number,omitempty"`
	IssueDate     string   `json:"issue_date,omitempty" yaml:"issue_date,omitempty"`
	ExpiryDate    string   `json:"expiry_date,omitempty" yaml:"expiry_date,omitempty"`
	Experience    *int     `json:"experience,omitempty" yaml:"experience,omitempty"`
	VehicleClass  string   `json:"vehicle_class,omitempty" yaml:"vehicle_class,omitempty"`
	VehicleTypes  []string `json:"vehicle_types" yaml:"vehicle_types"`
	IsValid       bool     `json:"is_valid" yaml:"is_valid"`
	ImageURL      string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Place is a geocoded location.
type Place struct {
	Name     string  `json:"name" yaml:"name"`
	Lat      float64 `json:"lat" yaml:"lat"`
	Lon      float64 `json:"lon" yaml:"lon"`
	AreaType string  `json:"area_type,omitempty" yaml:"area_type,omitempty"`
}

// RouteConditions are the road and traffic values derived from a route.
type RouteConditions struct {
	Location        string  `json:"location,omitempty" yaml:"location,omitempty"`
	RoadType        string  `json:"road_type" yaml:"road_type"`
	AreaType        string  `json:"area_type" yaml:"area_type"`
	TrafficVolume   string  `json:"traffic_volume" yaml:"traffic_volume"`
	RoadDesign      string  `json:"road_design" yaml:"road_design"`
	SpeedLimit      int     `json:"speed_limit" yaml:"speed_limit"`
	DistanceKm      float64 `json:"distance_km" yaml:"distance_km"`
	DurationMin     int     `json:"duration_min" yaml:"duration_min"`
	Summary         string  `json:"summary,omitempty" yaml:"summary,omitempty"`
	AccidentHistory int     `json:"accident_history" yaml:"accident_history"`
	Source          *Place  `json:"source,omitempty" yaml:"source,omitempty"`
	Destination     *Place  `json:"destination,omitempty" yaml:"destination,omitempty"`
}

// WeatherConditions are the environmental values derived from an observation.
type WeatherConditions struct {
	Weather        string   `json:"weather" yaml:"weather"`
	RoadSurface    string   `json:"road_surface" yaml:"road_surface"`
	Visibility     string   `json:"visibility" yaml:"visibility"`
	VisibilityText string   `json:"visibility_text,omitempty" yaml:"visibility_text,omitempty"`
	LightCondition string   `json:"light_condition" yaml:"light_condition"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Humidity       *int     `json:"humidity,omitempty" yaml:"humidity,omitempty"`
	Location       string   `json:"location,omitempty" yaml:"location,omitempty"`
	Fallback       bool     `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// TemporalConditions are values derived from the clock alone.
type TemporalConditions struct {
	TimeOfDay      string `json:"time_of_day" yaml:"time_of_day"`
	IsWeekend      bool   `json:"is_weekend" yaml:"is_weekend"`
	LightCondition string `json:"light_condition" yaml:"light_condition"`
	TrafficVolume  string `json:"traffic_volume" yaml:"traffic_volume"`
}

// PredictionInput is the assessment form as submitted by the manual or auto
// flow. Numeric fields are pointers so absent values can take form defaults.
type PredictionInput struct {
	Mode            string `json:"mode,omitempty" yaml:"mode,omitempty"`
	DriverAge       *int   `json:"driver_age,omitempty" yaml:"driver_age,omitempty"`
	Experience      *int   `json:"experience,omitempty" yaml:"experience,omitempty"`
	LicenseValid    string `json:"license_valid,omitempty" yaml:"license_valid,omitempty"`
	VehicleType     string `json:"vehicle_type,omitempty" yaml:"vehicle_type,omitempty"`
	Location        string `json:"location,omitempty" yaml:"location,omitempty"`
	AreaType        string `json:"area_type,omitempty" yaml:"area_type,omitempty"`
	RoadType        string `json:"road_type,omitempty" yaml:"road_type,omitempty"`
	RoadDesign      string `json:"road_design,omitempty" yaml:"road_design,omitempty"`
	RoadSurface     string `json:"road_surface,omitempty" yaml:"road_surface,omitempty"`
	TrafficVolume   string `json:"traffic_volume,omitempty" yaml:"traffic_volume,omitempty"`
	SpeedLimit      *int   `json:"speed_limit,omitempty" yaml:"speed_limit,omitempty"`
	CurrentSpeed    *int   `json:"current_speed,omitempty" yaml:"current_speed,omitempty"`
	Weather         string `json:"weather,omitempty" yaml:"weather,omitempty"`
	Visibility      string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	LightCondition  string `json:"light_condition,omitempty" yaml:"light_condition,omitempty"`
	TimeOfDay       string `json:"time_of_day,omitempty" yaml:"time_of_day,omitempty"`
	IsWeekend       *bool  `json:"is_weekend,omitempty" yaml:"is_weekend,omitempty"`
	AccidentHistory *int   `json:"accident_history,omitempty" yaml:"accident_history,omitempty"`

	LicenseData *LicenseData       `json:"license_data,omitempty" yaml:"license_data,omitempty"`
	RouteData   *RouteConditions   `json:"route_data,omitempty" yaml:"route_data,omitempty"`
	WeatherData *WeatherConditions `json:"weather_data,omitempty" yaml:"weather_data,omitempty"`
}

// RiskFactor is one contribution to a risk score.
type RiskFactor struct {
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
	Points      int    `json:"points" yaml:"points"`
}

// Prediction is a persisted risk assessment.
type Prediction struct {
	ID              uuid.UUID       `json:"prediction_id" yaml:"prediction_id"`
	CreatedAt       time.Time       `json:"created_at" yaml:"created_at"`
	Mode            string          `json:"mode" yaml:"mode"`
	Input           PredictionInput `json:"input" yaml:"input"`
	RiskScore       int             `json:"risk_score" yaml:"risk_score"`
	RiskLevel       string          `json:"risk_level" yaml:"risk_level"`
	Probability     float64         `json:"probability" yaml:"probability"`
	Factors         []RiskFactor    `json:"factors" yaml:"factors"`
	Recommendations []string        `json:"recommendations" yaml:"recommendations"`
}

// IntOr dereferences p, or returns def when p is nil.
func IntOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
