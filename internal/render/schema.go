package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	nullableString = map[string]any{"type": []any{"string", "null"}}
	nullableNumber = map[string]any{"type": []any{"number", "null"}}
	stringList     = map[string]any{
		"type":  []any{"array", "null"},
		"items": map[string]any{"type": "string"},
	}
)

// jobPostingSchema describes the object the backend asks its models for.
// Models drift from it; a mismatch is a warning, never a failure.
var jobPostingSchema = map[string]any{
	"$schema":  "http://json-schema.org/draft-07/schema#",
	"type":     "object",
	"required": []any{"jobTitle", "company"},
	"properties": map[string]any{
		"jobTitle":       nullableString,
		"company":        nullableString,
		"location":       nullableString,
		"workType":       nullableString,
		"employmentType": nullableString,
		"contractType":   nullableString,
		"salaryRange": map[string]any{
			"type": []any{"object", "null"},
			"properties": map[string]any{
				"min":      nullableNumber,
				"max":      nullableNumber,
				"currency": nullableString,
			},
		},
		"experience": map[string]any{
			"type": []any{"object", "null"},
			"properties": map[string]any{
				"yearsRequired": nullableNumber,
				"level":         nullableString,
			},
		},
		"skills":         stringList,
		"qualifications": stringList,
		"driverLicense":  nullableString,
		"educationLevel": nullableString,
		"benefits":       stringList,
		"department":     nullableString,
		"industry":       nullableString,
		"description":    nullableString,
	},
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(jobPostingSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("job_posting.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("job_posting.json")
	})
	return schema, schemaErr
}

// Inspect checks a result against the job posting schema and returns one
// warning per violation, sorted. A conforming result has no warnings.
func Inspect(raw json.RawMessage) []string {
	s, err := compiledSchema()
	if err != nil {
		return []string{err.Error()}
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return []string{fmt.Sprintf("result is not JSON: %v", err)}
	}

	err = s.Validate(v)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}

	var warnings []string
	collect(verr, &warnings)
	sort.Strings(warnings)
	return warnings
}

func collect(e *jsonschema.ValidationError, out *[]string) {
	if len(e.Causes) == 0 {
		loc := e.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", loc, e.Message))
		return
	}
	for _, c := range e.Causes {
		collect(c, out)
	}
}
