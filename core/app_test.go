package core

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/constants"
	"github.com/roadwise/roadwise/license"
	"github.com/roadwise/roadwise/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekdayMorning = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

const safeForm = `{
	"mode": "manual",
	"driver_age": 30,
	"experience": 5,
	"license_valid": "yes",
	"vehicle_type": "Car",
	"area_type": "Suburban",
	"road_type": "City_Road",
	"road_design": "Straight",
	"road_surface": "Dry",
	"traffic_volume": "Low",
	"weather": "Clear",
	"visibility": "high",
	"light_condition": "Daylight",
	"time_of_day": "Morning",
	"speed_limit": 60,
	"current_speed": 50,
	"accident_history": 0
}`

func newTestApp(t *testing.T, mutate ...func(*config.Config)) *App {
	t.Helper()
	cfg, err := config.ForProfile(constants.ProfileTesting)
	require.NoError(t, err)
	cfg.Blob.Directory = t.TempDir()
	for _, m := range mutate {
		m(cfg)
	}
	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	app.SetClock(temporal.FixedClock(weekdayMorning))
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func do(t *testing.T, h http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCreateApp_UnknownProfile(t *testing.T) {
	_, err := CreateApp("staging")
	assert.Error(t, err)
}

func TestCreateApp_Testing(t *testing.T) {
	t.Setenv(constants.EnvConfigPath, "")
	app, err := CreateApp(constants.ProfileTesting)
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, constants.ProfileTesting, app.Profile())
	assert.True(t, app.Config().Providers.Mock)
	assert.NotEmpty(t, app.Operations())

	w := do(t, app, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	assert.NoError(t, app.Close(), "close is idempotent")
}

func TestIndex(t *testing.T) {
	app := newTestApp(t)
	w := do(t, app, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, constants.ServiceName, body["service"])
	assert.Equal(t, constants.ProfileTesting, body["profile"])
	assert.Len(t, body["endpoints"], len(GetAllOperations()))
	assert.Equal(t, map[string]any{"ocr": "mock", "geocoder": "mock", "directions": "mock", "weather": "mock"}, body["providers"])
}

func TestUnknownPath(t *testing.T) {
	app := newTestApp(t)
	w := do(t, app, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"not found"}`, w.Body.String())
}

func TestMetrics(t *testing.T) {
	app := newTestApp(t)
	do(t, app, http.MethodGet, "/healthz", "")

	w := do(t, app, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "roadwise_http_requests_total")
}

func TestMiddleware(t *testing.T) {
	app := newTestApp(t)

	w := do(t, app, http.MethodOptions, "/api/predict_comprehensive", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.CORSAllowOrigin, w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(constants.HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(constants.HeaderRequestID))

	w = do(t, app, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, w.Header().Get(constants.HeaderRequestID))
}

func TestCORSDisabled(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.HTTP.CORS = false })
	w := do(t, app, http.MethodGet, "/healthz", "")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEndpointGroups(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.Endpoints = []string{constants.GroupWeather} })

	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/weather?lat=19.07&lon=72.87", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/api/predictions", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodPost, "/api/parse-license", `{"text":"x"}`).Code)
}

func TestParseLicense(t *testing.T) {
	app := newTestApp(t)

	payload, _ := json.Marshal(map[string]string{"text": license.MockText})
	w := do(t, app, http.MethodPost, "/api/parse-license", string(payload))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "RAJESH KUMAR SHARMA", data["name"])
	assert.Equal(t, "MH-0120210012345", data["license_number"])

	w = do(t, app, http.MethodPost, "/api/parse-license", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = do(t, app, http.MethodPost, "/api/parse-license", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessLicense(t *testing.T) {
	app := newTestApp(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(constants.LicenseFormField, "licence.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\nfake image"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process-license", &buf)
	req.Header.Set(constants.HeaderContentType, mw.FormDataContentType())
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "RAJESH KUMAR SHARMA", data["name"])
	url, _ := data["image_url"].(string)
	assert.True(t, strings.HasPrefix(url, "file://"), url)

	stored, err := app.deps.Blob.Get(context.Background(), url)
	require.NoError(t, err)
	assert.Contains(t, string(stored), "fake image")
}

func TestProcessLicense_MissingFile(t *testing.T) {
	app := newTestApp(t)
	w := do(t, app, http.MethodPost, "/api/process-license", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"missing license file"}`, w.Body.String())
}

func TestAnalyzeRoute(t *testing.T) {
	app := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/analyze-route", `{"source":"Andheri","destination":"19.0760,72.8777"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	routeData := body["route_data"].(map[string]any)
	assert.NotEmpty(t, routeData["road_type"])
	assert.NotEmpty(t, routeData["location"])
	assert.Equal(t, "Andheri", routeData["source"].(map[string]any)["name"])
	assert.Equal(t, "Clear", body["weather_data"].(map[string]any)["weather"])

	w = do(t, app, http.MethodPost, "/api/analyze-route", `{"source":"Andheri"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeather(t *testing.T) {
	app := newTestApp(t)

	w := do(t, app, http.MethodGet, "/api/weather?lat=19.07&lon=72.87", "")
	require.Equal(t, http.StatusOK, w.Code)
	conditions := decode(t, w)["weather_data"].(map[string]any)
	assert.Equal(t, "Clear", conditions["weather"])
	assert.Equal(t, "Dry", conditions["road_surface"])

	for _, q := range []string{"", "?lat=abc&lon=1", "?lat=91&lon=0", "?lat=0&lon=-181"} {
		w := do(t, app, http.MethodGet, "/api/weather"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestWeather_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	strict := newTestApp(t, func(c *config.Config) {
		c.Providers.Mock = false
		c.Providers.Strict = true
		c.Providers.Weather.URL = upstream.URL
	})
	w := do(t, strict, http.MethodGet, "/api/weather?lat=1&lon=2", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	lenient := newTestApp(t, func(c *config.Config) {
		c.Providers.Mock = false
		c.Providers.Weather.URL = upstream.URL
	})
	w = do(t, lenient, http.MethodGet, "/api/weather?lat=1&lon=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["weather_data"].(map[string]any)["fallback"])
}

func TestPredictLifecycle(t *testing.T) {
	app := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/predict_comprehensive", safeForm)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, true, created["success"])
	assert.Equal(t, float64(5), created["risk_score"])
	assert.Equal(t, "Low", created["risk_level"])
	id, _ := created["prediction_id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "/results/"+id, created["results_url"])

	w = do(t, app, http.MethodGet, "/api/predictions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)["prediction"].(map[string]any)
	assert.Equal(t, id, got["prediction_id"])

	w = do(t, app, http.MethodGet, "/results/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.ContentTypeHTML, w.Header().Get(constants.HeaderContentType))
	assert.Contains(t, w.Body.String(), "Low risk")
	assert.Contains(t, w.Body.String(), id)

	w = do(t, app, http.MethodPost, "/api/predict_comprehensive", `{"mode":"auto","weather":"Foggy"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, app, http.MethodGet, "/api/predictions", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.Equal(t, float64(2), list["count"])

	w = do(t, app, http.MethodGet, "/api/predictions?limit=1", "")
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = do(t, app, http.MethodGet, "/api/predictions?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredict_EmptyList(t *testing.T) {
	app := newTestApp(t)
	w := do(t, app, http.MethodGet, "/api/predictions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"count":0,"predictions":[]}`, w.Body.String())
}

func TestPredict_InvalidPayload(t *testing.T) {
	app := newTestApp(t)
	w := do(t, app, http.MethodPost, "/api/predict_comprehensive", `{"driver_age": 7}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "driver_age")
}

func TestPredict_LookupErrors(t *testing.T) {
	app := newTestApp(t)

	w := do(t, app, http.MethodGet, "/api/predictions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, app, http.MethodGet, "/api/predictions/6f1c1f7e-7d1b-4d5f-9a43-2b0f3c1f0e11", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"prediction not found"}`, w.Body.String())

	w = do(t, app, http.MethodGet, "/results/6f1c1f7e-7d1b-4d5f-9a43-2b0f3c1f0e11", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPredict_PublishesEvent(t *testing.T) {
	app := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	received := make(chan []byte, 1)
	require.NoError(t, app.deps.Bus.Subscribe(ctx, constants.TopicPredictionCreated, func(payload []byte) {
		received <- payload
	}))

	w := do(t, app, http.MethodPost, "/api/predict_comprehensive", safeForm)
	require.Equal(t, http.StatusOK, w.Code)
	id := decode(t, w)["prediction_id"].(string)

	select {
	case payload := <-received:
		assert.Contains(t, string(payload), id)
	case <-time.After(2 * time.Second):
		t.Fatal("no prediction event received")
	}
}
