// Package schemas embeds the JSON Schemas that advisor LLM responses must satisfy.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema names, without the .schema.json suffix.
const (
	Compare         = "compare"
	Questionnaire   = "questionnaire"
	Recommendations = "recommendations"
)
