// Package schema checks persisted catalog files against their JSON Schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const catalogSchemaURL = "https://costsheet.local/schemas/catalog.schema.json"

//go:embed catalog.schema.json
var catalogSchema []byte

// Validator checks raw catalog bytes. It is safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded catalog schema.
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	if err := c.AddResource(catalogSchemaURL, bytes.NewReader(catalogSchema)); err != nil {
		return nil, fmt.Errorf("catalog schema load failed: %w", err)
	}

	compiled, err := c.Compile(catalogSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("catalog schema compile failed: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// Validate returns one "<instance path>: <message>" entry per violation,
// sorted. Undecodable input yields a single entry.
func (v *Validator) Validate(data []byte) []string {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("/: invalid JSON: %v", err)}
	}

	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("/: %v", err)}
	}

	var issues []string
	collectLeaves(ve, &issues)
	sort.Strings(issues)

	return issues
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		location := ve.InstanceLocation
		if location == "" {
			location = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", location, ve.Message))
		return
	}

	for _, cause := range ve.Causes {
		collectLeaves(cause, out)
	}
}
