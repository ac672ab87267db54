package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Serializer defines how to read and write a specific file format.
type Serializer interface {
	// Parse reads r into a JSON-compatible value: maps, slices, json.Number,
	// strings, bools and nil. Validation happens on that value.
	Parse(r io.Reader) (any, error)
	// Serialize converts the document to bytes.
	Serialize(v any) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by extension.
func DefaultSerializers(indent string) map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(indent),
		".yaml": NewYAMLSerializer(),
		".yml":  NewYAMLSerializer(),
	}
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON files.
type JSONSerializer struct {
	// Indent is used per nesting level. Empty writes compact JSON.
	Indent string
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(indent string) *JSONSerializer {
	return &JSONSerializer{Indent: indent}
}

func (s *JSONSerializer) Parse(r io.Reader) (any, error) {
	var payload any
	decoder := json.NewDecoder(r)
	// Keep numbers as written so integers and numeric strings can be told apart.
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("invalid json: trailing data after document")
	}
	return payload, nil
}

func (s *JSONSerializer) Serialize(v any) ([]byte, error) {
	if s.Indent == "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", s.Indent)
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML files.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Parse(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	// Re-encode through JSON so both formats validate the same value shapes.
	normalized, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return NewJSONSerializer("").Parse(bytes.NewReader(normalized))
}

func (s *YAMLSerializer) Serialize(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ Serializer = (*JSONSerializer)(nil)
var _ Serializer = (*YAMLSerializer)(nil)

