package core

import (
	"fmt"
	"sync"

	pongo2 "github.com/flosch/pongo2/v6"
	"github.com/roadwise/roadwise/constants"
	"github.com/roadwise/roadwise/docs"
	"github.com/roadwise/roadwise/model"
)

var (
	resultsOnce sync.Once
	resultsTpl  *pongo2.Template
	resultsErr  error
)

type conditionRow struct {
	Label string
	Value string
}

// RenderResults renders the HTML results page of p.
func RenderResults(p *model.Prediction) (string, error) {
	resultsOnce.Do(func() {
		resultsTpl, resultsErr = pongo2.FromString(docs.ResultsTemplate)
	})
	if resultsErr != nil {
		return "", fmt.Errorf("failed to parse results template: %w", resultsErr)
	}
	return resultsTpl.Execute(resultsContext(p))
}

func resultsContext(p *model.Prediction) pongo2.Context {
	in := p.Input
	return pongo2.Context{
		"service":         constants.ServiceName,
		"id":              p.ID.String(),
		"created_at":      p.CreatedAt.Format("02 Jan 2006 15:04 MST"),
		"mode":            p.Mode,
		"level":           p.RiskLevel,
		"score":           p.RiskScore,
		"percent":         fmt.Sprintf("%.0f", p.Probability*100),
		"location":        in.Location,
		"factors":         p.Factors,
		"recommendations": p.Recommendations,
		"conditions": []conditionRow{
			{"Driver age", fmt.Sprint(model.IntOr(in.DriverAge, 0))},
			{"Experience", fmt.Sprintf("%d years", model.IntOr(in.Experience, 0))},
			{"Valid licence", in.LicenseValid},
			{"Vehicle", in.VehicleType},
			{"Area", in.AreaType},
			{"Road type", in.RoadType},
			{"Road design", in.RoadDesign},
			{"Road surface", in.RoadSurface},
			{"Traffic", in.TrafficVolume},
			{"Weather", in.Weather},
			{"Visibility", in.Visibility},
			{"Light", in.LightCondition},
			{"Time of day", in.TimeOfDay},
			{"Speed", fmt.Sprintf("%d km/h (limit %d)", model.IntOr(in.CurrentSpeed, 0), model.IntOr(in.SpeedLimit, 0))},
			{"Previous accidents", fmt.Sprint(model.IntOr(in.AccidentHistory, 0))},
		},
	}
}
