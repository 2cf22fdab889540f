package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/roadwise/roadwise/adapter"
	"github.com/roadwise/roadwise/blob"
	"github.com/roadwise/roadwise/constants"
	"github.com/roadwise/roadwise/license"
	"github.com/roadwise/roadwise/model"
	"github.com/roadwise/roadwise/risk"
	"github.com/roadwise/roadwise/storage"
	"github.com/roadwise/roadwise/telemetry"
	"github.com/roadwise/roadwise/utils"
)

// ErrInvalidInput marks requests rejected before any work is done.
var ErrInvalidInput = errors.New("invalid input")

// Service implements the operations. The HTTP handlers and the CLI both call it.
type Service struct {
	deps *Dependencies
}

func NewService(deps *Dependencies) *Service {
	return &Service{deps: deps}
}

// ProcessLicense stores a licence image, extracts its text and parses it.
func (s *Service) ProcessLicense(ctx context.Context, filename, mime string, image []byte) (model.LicenseData, error) {
	if len(image) == 0 {
		return model.LicenseData{}, fmt.Errorf("%w: %s", ErrInvalidInput, constants.ResponseMissingLicenseFile)
	}
	url, err := s.deps.Blob.Put(ctx, image, mime, blob.LicenseKey(filename, mime))
	if err != nil {
		return model.LicenseData{}, fmt.Errorf("failed to store licence image: %w", err)
	}
	utils.DebugCtx(ctx, "licence image stored", "url", url, "bytes", len(image))

	text, err := s.deps.OCR.ExtractText(ctx, filename, image)
	if err != nil {
		s.providerFailed("ocr", err)
		return model.LicenseData{}, err
	}
	data := license.Parse(text, s.deps.Clock.Now())
	data.ImageURL = url
	return data, nil
}

// ParseLicense parses licence text that was extracted elsewhere.
func (s *Service) ParseLicense(text string) (model.LicenseData, error) {
	if strings.TrimSpace(text) == "" {
		return model.LicenseData{}, fmt.Errorf("%w: %s", ErrInvalidInput, constants.ResponseMissingLicenseText)
	}
	return license.Parse(text, s.deps.Clock.Now()), nil
}

// RouteAnalysis is the outcome of analyzing a trip.
type RouteAnalysis struct {
	Route   model.RouteConditions   `json:"route_data"`
	Weather model.WeatherConditions `json:"weather_data"`
}

// AnalyzeRoute derives road conditions between source and destination and
// the weather at the destination.
func (s *Service) AnalyzeRoute(ctx context.Context, source, destination string) (RouteAnalysis, error) {
	source, destination = strings.TrimSpace(source), strings.TrimSpace(destination)
	if source == "" || destination == "" {
		return RouteAnalysis{}, fmt.Errorf("%w: %s", ErrInvalidInput, constants.ResponseMissingRouteEnds)
	}

	now := s.deps.Clock.Now()
	conditions, err := s.deps.Planner.Plan(ctx, source, destination, now)
	if err != nil {
		s.providerFailed("route", err)
		return RouteAnalysis{}, err
	}

	to := conditions.Destination
	w, err := s.deps.Weather.Conditions(ctx, to.Lat, to.Lon, now)
	if err != nil {
		s.providerFailed("weather", err)
		return RouteAnalysis{}, err
	}
	return RouteAnalysis{Route: conditions, Weather: w}, nil
}

// Weather reports the conditions at lat,lon.
func (s *Service) Weather(ctx context.Context, lat, lon float64) (model.WeatherConditions, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return model.WeatherConditions{}, fmt.Errorf("%w: %s", ErrInvalidInput, constants.ResponseInvalidCoordinates)
	}
	w, err := s.deps.Weather.Conditions(ctx, lat, lon, s.deps.Clock.Now())
	if err != nil {
		s.providerFailed("weather", err)
		return model.WeatherConditions{}, err
	}
	return w, nil
}

// Predict normalizes in, scores it, stores the assessment and announces it on
// the event bus. A failed publish is logged; the assessment still counts.
func (s *Service) Predict(ctx context.Context, in model.PredictionInput) (*model.Prediction, error) {
	now := s.deps.Clock.Now()
	normalized := risk.Normalize(in, now)
	a := risk.Assess(normalized)

	p := &model.Prediction{
		ID:              uuid.New(),
		CreatedAt:       now,
		Mode:            normalized.Mode,
		Input:           normalized,
		RiskScore:       a.Score,
		RiskLevel:       a.Level,
		Probability:     a.Probability,
		Factors:         a.Factors,
		Recommendations: a.Recommendations,
	}
	if err := s.deps.Store.SavePrediction(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}
	if err := s.deps.Bus.Publish(ctx, constants.TopicPredictionCreated, p); err != nil {
		utils.WarnCtx(ctx, "failed to publish prediction", "prediction_id", p.ID, "error", err)
	}
	telemetry.RecordAssessment(p.RiskLevel)

	utils.InfoCtx(ctx, "prediction created",
		"prediction_id", p.ID,
		"mode", p.Mode,
		"score", p.RiskScore,
		"level", p.RiskLevel)
	return p, nil
}

// GetPrediction returns one stored assessment.
func (s *Service) GetPrediction(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	return s.deps.Store.GetPrediction(ctx, id)
}

// ListPredictions returns up to limit assessments, most recent first. limit
// is clamped to the storage bounds.
func (s *Service) ListPredictions(ctx context.Context, limit int) ([]*model.Prediction, error) {
	return s.deps.Store.ListPredictions(ctx, storage.ClampLimit(limit))
}

func (s *Service) providerFailed(provider string, err error) {
	if errors.Is(err, adapter.ErrUpstream) {
		telemetry.RecordProviderFailure(provider)
	}
}
