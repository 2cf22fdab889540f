package core

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/roadwise/roadwise/adapter"
	"github.com/roadwise/roadwise/constants"
	"github.com/roadwise/roadwise/form"
	"github.com/roadwise/roadwise/license"
	"github.com/roadwise/roadwise/model"
	"github.com/roadwise/roadwise/route"
	"github.com/roadwise/roadwise/storage"
	"github.com/roadwise/roadwise/telemetry"
	"github.com/roadwise/roadwise/utils"
)

// StatusFor maps an operation error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, form.ErrInvalid),
		errors.Is(err, route.ErrPlaceNotFound),
		errors.Is(err, license.ErrNoText):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, adapter.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the error envelope for err. Internal errors are logged
// and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		utils.ErrorCtx(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		msg = constants.ResponseInternalError
	} else {
		utils.WarnCtx(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	utils.WriteHTTPError(w, msg, status)
}

func writeOK(w http.ResponseWriter, body map[string]any) {
	body["success"] = true
	_ = utils.WriteHTTPJSON(w, http.StatusOK, body)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteHTTPJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type endpointInfo struct {
	ID          string `json:"id"`
	Group       string `json:"group"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	endpoints := make([]endpointInfo, 0, len(a.ops))
	for _, op := range a.ops {
		endpoints = append(endpoints, endpointInfo{
			ID:          op.ID,
			Group:       op.Group,
			Method:      op.HTTPMethod,
			Path:        op.HTTPPath,
			Description: op.Description,
		})
	}
	_ = utils.WriteHTTPJSON(w, http.StatusOK, map[string]any{
		"service":   a.cfg.App.Name,
		"profile":   a.cfg.App.Profile,
		"endpoints": endpoints,
		"providers": a.deps.Adapters.Status(),
	})
}

func (a *App) handleMetrics(w http.ResponseWriter, r *http.Request) {
	telemetry.MetricsHandler().ServeHTTP(w, r)
}

func (a *App) handleProcessLicense(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxLicenseUploadBytes)
	file, header, err := r.FormFile(constants.LicenseFormField)
	if err != nil {
		utils.WriteHTTPError(w, constants.ResponseMissingLicenseFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		utils.WriteHTTPError(w, constants.ResponseMissingLicenseFile, http.StatusBadRequest)
		return
	}
	mime := header.Header.Get(constants.HeaderContentType)
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(image)
	}

	data, err := a.service.ProcessLicense(r.Context(), header.Filename, mime, image)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"data": data})
}

func (a *App) handleParseLicense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteHTTPError(w, constants.ResponseInvalidRequestBody, http.StatusBadRequest)
		return
	}
	data, err := a.service.ParseLicense(req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"data": data})
}

func (a *App) handleAnalyzeRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source      string `json:"source"`
		Destination string `json:"destination"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteHTTPError(w, constants.ResponseInvalidRequestBody, http.StatusBadRequest)
		return
	}
	analysis, err := a.service.AnalyzeRoute(r.Context(), req.Source, req.Destination)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{
		"route_data":   analysis.Route,
		"weather_data": analysis.Weather,
	})
}

func (a *App) handleWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(q.Get("lat")), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(q.Get("lon")), 64)
	if latErr != nil || lonErr != nil {
		utils.WriteHTTPError(w, constants.ResponseInvalidCoordinates, http.StatusBadRequest)
		return
	}
	conditions, err := a.service.Weather(r.Context(), lat, lon)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"weather_data": conditions})
}

type predictionResponse struct {
	Success bool `json:"success"`
	*model.Prediction
	ResultsURL string `json:"results_url"`
}

func (a *App) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, utils.MaxJSONBodyBytes))
	if err != nil {
		utils.WriteHTTPError(w, constants.ResponseInvalidRequestBody, http.StatusBadRequest)
		return
	}
	in, err := form.Decode(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := a.service.Predict(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = utils.WriteHTTPJSON(w, http.StatusOK, predictionResponse{
		Success:    true,
		Prediction: p,
		ResultsURL: "/results/" + p.ID.String(),
	})
}

func (a *App) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.WriteHTTPError(w, constants.ResponseInvalidLimit, http.StatusBadRequest)
			return
		}
		limit = n
	}
	predictions, err := a.service.ListPredictions(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if predictions == nil {
		predictions = []*model.Prediction{}
	}
	writeOK(w, map[string]any{
		"predictions": predictions,
		"count":       len(predictions),
	})
}

// lookupPrediction resolves the {id} path value, writing the error response
// itself when it fails.
func (a *App) lookupPrediction(w http.ResponseWriter, r *http.Request) (*model.Prediction, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteHTTPError(w, constants.ResponseInvalidPredictionID, http.StatusBadRequest)
		return nil, false
	}
	p, err := a.service.GetPrediction(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteHTTPError(w, constants.ResponsePredictionNotFound, http.StatusNotFound)
			return nil, false
		}
		writeError(w, r, err)
		return nil, false
	}
	return p, true
}

func (a *App) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	p, ok := a.lookupPrediction(w, r)
	if !ok {
		return
	}
	writeOK(w, map[string]any{"prediction": p})
}

func (a *App) handleResults(w http.ResponseWriter, r *http.Request) {
	p, ok := a.lookupPrediction(w, r)
	if !ok {
		return
	}
	page, err := RenderResults(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, page); err != nil {
		utils.Warn(constants.LogWriteFailed, err)
	}
}
