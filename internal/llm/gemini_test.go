package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-3-flash-preview"},
		{"gemini-pro", "gemini-3-pro-preview"},
		{"gemini-2.5-flash-lite", "gemini-2.5-flash-lite"}, // pass-through
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rationale": map[string]any{"type": "string", "description": "why"},
			"learningObjectives": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"developmentSteps": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"stage": map[string]any{"type": "string"},
					},
					"required": []string{"stage"},
				},
			},
			"term": map[string]any{"type": "string", "enum": []any{"First term", "Second term"}},
		},
		"required": []string{"rationale", "learningObjectives"},
	}

	s := buildGeminiSchema(def)

	if s.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT, got %s", s.Type)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(s.Properties))
	}
	if s.Properties["rationale"].Description != "why" {
		t.Fatalf("description not carried over")
	}
	if s.Properties["learningObjectives"].Items.Type != genai.TypeString {
		t.Fatalf("expected STRING items, got %s", s.Properties["learningObjectives"].Items.Type)
	}
	steps := s.Properties["developmentSteps"].Items
	if steps.Type != genai.TypeObject || len(steps.Required) != 1 {
		t.Fatalf("unexpected nested step schema: %+v", steps)
	}
	if len(s.Properties["term"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(s.Properties["term"].Enum))
	}
	if len(s.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(s.Required))
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
