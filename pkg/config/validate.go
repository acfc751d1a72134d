package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

// validateRaw checks a loaded config document against the embedded
// schema. Negative thresholds and wrong types are rejected here so the
// detectors never see them.
func validateRaw(raw map[string]any) error {
	// Round-trip through JSON so YAML/TOML native types line up with
	// what the schema validator expects.
	doc, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return err
	}

	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("embedded schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("whiff.schema.json", schemaDoc); err != nil {
		return fmt.Errorf("embedded schema: %w", err)
	}
	schema, err := compiler.Compile("whiff.schema.json")
	if err != nil {
		return fmt.Errorf("embedded schema: %w", err)
	}

	return schema.Validate(value)
}
