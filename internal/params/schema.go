package params

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "pidstore-config-v1.json"

var (
	schemaOnce     sync.Once
	schemaDoc      []byte
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// buildSchema renders the JSON Schema of a configuration document from the
// field metadata. Every property is optional, so partial documents validate.
func buildSchema() ([]byte, error) {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		p := map[string]any{"description": f.DisplayName}
		switch f.Type {
		case TypeToggle:
			p["type"] = "boolean"
		case TypeText:
			// maxLength counts characters; the item limit is in bytes
			p["type"] = "string"
			p["maxLength"] = int(f.Max)
			p["description"] = fmt.Sprintf("%s (at most %d bytes of UTF-8)", f.DisplayName, int(f.Max))
		case TypeInteger, TypeUInt8:
			p["type"] = "integer"
			p["minimum"] = f.Min
			p["maximum"] = f.Max
		default:
			p["type"] = "number"
			p["minimum"] = f.Min
			p["maximum"] = f.Max
		}
		props[f.Name] = p
	}

	return json.Marshal(map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"$id":        schemaURL,
		"title":      "pidstore configuration",
		"type":       "object",
		"properties": props,
	})
}

func compileSchema() {
	schemaDoc, schemaErr = buildSchema()
	if schemaErr != nil {
		return
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(string(schemaDoc))); err != nil {
		schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
		return
	}

	compiledSchema, schemaErr = compiler.Compile(schemaURL)
	if schemaErr != nil {
		schemaErr = fmt.Errorf("failed to compile schema: %w", schemaErr)
	}
}

// Schema returns the JSON Schema document for configuration documents.
func Schema() ([]byte, error) {
	schemaOnce.Do(compileSchema)
	return schemaDoc, schemaErr
}

// ValidateDocument checks a full or partial configuration document against
// the field types and ranges. Text fields are also checked against their
// byte limit, which the schema alone cannot express.
func ValidateDocument(data []byte) error {
	schemaOnce.Do(compileSchema)
	if schemaErr != nil {
		return schemaErr
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	values, _ := doc.(map[string]any)
	for _, f := range fields {
		if f.Type != TypeText {
			continue
		}
		if s, ok := values[f.Name].(string); ok && len(s) > int(f.Max) {
			return fmt.Errorf("%s is %d bytes, at most %d allowed", f.Name, len(s), int(f.Max))
		}
	}
	return nil
}
