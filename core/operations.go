package core

import (
	"net/http"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/roadwise/roadwise/constants"
)

// OperationDefinition describes one endpoint of the service.
type OperationDefinition struct {
	ID          string                                         // Unique identifier
	Name        string                                         // Human-readable name
	Description string                                         // Description for the index page
	Group       string                                         // Logical group (system, license, route, weather, predictions)
	HTTPMethod  string                                         // HTTP method (GET, POST)
	HTTPPath    string                                         // Path pattern (/api/predictions/{id})
	Handler     func(*App, http.ResponseWriter, *http.Request) // Serves the operation on an application
}

// Pattern is the ServeMux pattern of the operation. The root path matches
// only itself.
func (op *OperationDefinition) Pattern() string {
	path := op.HTTPPath
	if path == "/" {
		path = "/{$}"
	}
	return op.HTTPMethod + " " + path
}

var (
	registryMu        sync.RWMutex
	operationRegistry = make(map[string]*OperationDefinition)
)

// RegisterOperation adds op to the registry, replacing any with the same ID.
func RegisterOperation(op *OperationDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	operationRegistry[op.ID] = op
}

// GetOperation returns the operation registered under id.
func GetOperation(id string) (*OperationDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	op, ok := operationRegistry[id]
	return op, ok
}

// GetAllOperations returns every registered operation.
func GetAllOperations() map[string]*OperationDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make(map[string]*OperationDefinition, len(operationRegistry))
	for id, op := range operationRegistry {
		out[id] = op
	}
	return out
}

// GetOperationsMapByGroups returns the operations whose group is in groups.
// System operations are always included; an empty groups list selects
// everything.
func GetOperationsMapByGroups(groups []string) map[string]*OperationDefinition {
	all := GetAllOperations()
	if len(groups) == 0 {
		return all
	}
	wanted := make([]string, 0, len(groups))
	for _, g := range groups {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			wanted = append(wanted, g)
		}
	}
	if len(wanted) == 0 {
		return all
	}

	out := make(map[string]*OperationDefinition)
	for id, op := range all {
		if op.Group == constants.GroupSystem || slices.Contains(wanted, op.Group) {
			out[id] = op
		}
	}
	return out
}

// sortedOperations orders ops by path, then method.
func sortedOperations(ops map[string]*OperationDefinition) []*OperationDefinition {
	out := make([]*OperationDefinition, 0, len(ops))
	for _, op := range ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HTTPPath != out[j].HTTPPath {
			return out[i].HTTPPath < out[j].HTTPPath
		}
		return out[i].HTTPMethod < out[j].HTTPMethod
	})
	return out
}

func init() {
	RegisterOperation(&OperationDefinition{
		ID:          "healthz",
		Name:        "Health Check",
		Description: "Report that the service is up",
		Group:       constants.GroupSystem,
		HTTPMethod:  http.MethodGet,
		HTTPPath:    "/healthz",
		Handler:     (*App).handleHealth,
	})
	RegisterOperation(&OperationDefinition{
		ID:          "index",
		Name:        "Service Index",
		Description: "Describe the service and list its endpoints",
		Group:       constants.GroupSystem,
		HTTPMethod:  http.MethodGet,
		HTTPPath:    "/",
		Handler:     (*App).handleIndex,
	})
	RegisterOperation(&OperationDefinition{
		ID:          "metrics",
		Name:        "Metrics",
		Description: "Prometheus metrics",
		Group:       constants.GroupSystem,
		HTTPMethod:  http.MethodGet,
		HTTPPath:    "/metrics",
		Handler:     (*App).handleMetrics,
	})

	RegisterOperation(&OperationDefinition{
		ID:          "processLicense",
		Name:        "Process Licence",
		Description: "Upload a driving licence image and read it",
		Group:       constants.GroupLicense,
		HTTPMethod:  http.MethodPost,
		HTTPPath:    "/api/process-license",
		Handler:     (*App).handleProcessLicense,
	})
	RegisterOperation(&OperationDefinition{
		ID:          "parseLicense",
		Name:        "Parse Licence Text",
		Description: "Read licence fields from already extracted text",
		Group:       constants.GroupLicense,
		HTTPMethod:  http.MethodPost,
		HTTPPath:    "/api/parse-license",
		Handler:     (*App).handleParseLicense,
	})

	RegisterOperation(&OperationDefinition{
		ID:          "analyzeRoute",
		Name:        "Analyze Route",
		Description: "Derive road, traffic and weather conditions for a trip",
		Group:       constants.GroupRoute,
		HTTPMethod:  http.MethodPost,
		HTTPPath:    "/api/analyze-route",
		Handler:     (*App).handleAnalyzeRoute,
	})

	RegisterOperation(&OperationDefinition{
		ID:          "weather",
		Name:        "Current Weather",
		Description: "Current conditions at lat,lon mapped to form values",
		Group:       constants.GroupWeather,
		HTTPMethod:  http.MethodGet,
		HTTPPath:    "/api/weather",
		Handler:     (*App).handleWeather,
	})

	RegisterOperation(&OperationDefinition{
		ID:          "predict",
		Name:        "Predict Risk",
		Description: "Assess the accident risk of a trip and store the result",
		Group:       constants.GroupPredictions,
		HTTPMethod:  http.MethodPost,
		HTTPPath:    "/api/predict_comprehensive",
		Handler:     (*App).handlePredict,
	})
	RegisterOperation(&OperationDefinition{
		ID:          "listPredictions",
		Name:        "List Predictions",
		Description: "Most recent assessments first",
		Group:       constants.GroupPredictions,
		HTTPMethod:  http.MethodGet,
		HTTPPath:    "/api/predictions",
		Handler:     (*App).handleListPredictions,
	})
	RegisterOperation(&OperationDefinition{
		ID:          "getPrediction",
		Name:        "Get Prediction",
		Description: "One stored assessment",
		Group:       constants.GroupPredictions,
		HTTPMethod:  http.MethodGet,
		HTTPPath:    "/api/predictions/{id}",
		Handler:     (*App).handleGetPrediction,
	})
	RegisterOperation(&OperationDefinition{
		ID:          "results",
		Name:        "Results Page",
		Description: "HTML rendering of one assessment",
		Group:       constants.GroupPredictions,
		HTTPMethod:  http.MethodGet,
		HTTPPath:    "/results/{id}",
		Handler:     (*App).handleResults,
	})
}
