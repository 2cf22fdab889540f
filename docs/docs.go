// Package docs embeds the documents served or enforced by roadwise.
package docs

import _ "embed"

// PredictionSchema is the JSON Schema every assessment payload must satisfy.
//
//go:embed prediction.schema.json
var PredictionSchema string

// ResultsTemplate is the pongo2 template of the HTML results page.
//
//go:embed results.html
var ResultsTemplate string
