package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-pupil",
		Description: "A pupil record",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"class": map[string]any{"type": "string", "enum": []any{"JSS 1", "JSS 2", "JSS 3"}},
			},
			"required": []string{"name", "age"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"name":"Ada","age":10,"class":"JSS 1"}`, false},
		{"optional omitted", `{"name":"Bola","age":8}`, false},
		{"missing required", `{"name":"Chidi"}`, true},
		{"wrong type", `{"name":"Dayo","age":"ten"}`, true},
		{"enum violation", `{"name":"Efe","age":9,"class":"SS 3"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`"anything"`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedArrays(t *testing.T) {
	schema := &Schema{
		Name: "test-steps",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"steps": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":       "object",
						"properties": map[string]any{"stage": map[string]any{"type": "string"}},
						"required":   []string{"stage"},
					},
				},
			},
			"required": []string{"steps"},
		},
	}

	if err := validateResponse(schema, json.RawMessage(`{"steps":[{"stage":"Introduction"}]}`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := validateResponse(schema, json.RawMessage(`{"steps":[{"teacher":"x"}]}`)); err == nil {
		t.Fatal("expected error for step without stage")
	}
}
