package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

// ExtractJSON pulls a JSON object out of model text. It strips code fences and a
// leading "json" tag, tries the whole text, then the first '{' to the last '}'.
func ExtractJSON(text string) ([]byte, error) {
	s := strings.TrimSpace(text)
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "json") {
		s = strings.TrimSpace(s[4:])
	}
	if json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		candidate := s[start : end+1]
		if json.Valid([]byte(candidate)) {
			return []byte(candidate), nil
		}
	}
	return nil, fmt.Errorf("%w: no JSON object found", ErrInvalidLLMResponse)
}

// Schema is a compiled JSON schema.
type Schema struct {
	name   string
	schema *jsonschema.Schema
}

// CompileSchema compiles a JSON schema document.
func CompileSchema(name string, doc []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	s, err := compiler.Compile(doc)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

func mustCompile(name, doc string) *Schema {
	s, err := CompileSchema(name, []byte(doc))
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks data against the schema.
func (s *Schema) Validate(data []byte) error {
	result := s.schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("%w: %s schema validation failed: %v", ErrInvalidLLMResponse, s.name, result.Errors)
}

// Decode extracts JSON from text, validates it against schema and unmarshals it into v.
func Decode(text string, schema *Schema, v any) error {
	data, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if schema != nil {
		if err := schema.Validate(data); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
	}
	return nil
}
