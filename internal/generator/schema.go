package generator

import (
	"fmt"

	"github.com/abhisek/planbook/internal/llm"
)

// FieldType is a language-neutral value type in the output description.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeArray  FieldType = "array"
	TypeObject FieldType = "object"
)

// FieldSpec describes one value of the expected output. Arrays carry their
// element in Items; objects list their members in Fields.
type FieldSpec struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	Items       *FieldSpec
	Fields      []FieldSpec
}

func str(name, desc string) FieldSpec {
	return FieldSpec{Name: name, Type: TypeString, Description: desc, Required: true}
}

func strList(name, desc string) FieldSpec {
	return FieldSpec{Name: name, Type: TypeArray, Description: desc, Required: true, Items: &FieldSpec{Type: TypeString}}
}

// ContentSpec is the shape of a generated lesson plan.
var ContentSpec = FieldSpec{
	Type: TypeObject,
	Fields: []FieldSpec{
		strList("learningObjectives", "A list of specific, measurable learning objectives."),
		str("rationale", "Rationale / reason for the lesson."),
		str("preRequisiteKnowledge", "What pupils should already know."),
		str("learningMaterials", "Materials pupils use during the lesson."),
		str("teachingResources", "Resources the teacher uses."),
		strList("referenceMaterial", "List of books and specific pages used as references."),
		{
			Name:        "developmentSteps",
			Type:        TypeArray,
			Description: "Lesson development table rows in teaching order.",
			Required:    true,
			Items: &FieldSpec{
				Type: TypeObject,
				Fields: []FieldSpec{
					str("stage", "Stage or step name, e.g. Introduction, Step 1, Evaluation."),
					str("teacherActivities", "What the teacher does."),
					str("pupilsActivities", "What the pupils do."),
					str("learningPoints", "Key learning points of the stage."),
				},
			},
		},
	},
}

// LessonPlanSchema is ContentSpec in JSON Schema form, sent with every request.
var LessonPlanSchema = &llm.Schema{
	Name:        "lesson-plan",
	Description: "Pedagogical content of a standard academic lesson plan",
	Definition:  ContentSpec.JSONSchema(),
}

// JSONSchema converts f to a JSON Schema document.
func (f FieldSpec) JSONSchema() map[string]any {
	out := map[string]any{"type": string(f.Type)}
	if f.Description != "" {
		out["description"] = f.Description
	}
	switch f.Type {
	case TypeArray:
		if f.Items != nil {
			out["items"] = f.Items.JSONSchema()
		}
	case TypeObject:
		props := make(map[string]any, len(f.Fields))
		var required []any
		for _, sub := range f.Fields {
			props[sub.Name] = sub.JSONSchema()
			if sub.Required {
				required = append(required, sub.Name)
			}
		}
		out["properties"] = props
		out["required"] = required
		out["additionalProperties"] = false
	}
	return out
}

// Check walks a decoded JSON value and reports the first place it departs
// from the spec: a missing required key or a value of the wrong type.
func (f FieldSpec) Check(path string, v any) error {
	switch f.Type {
	case TypeString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s: expected string, got %s", path, describe(v))
		}
	case TypeArray:
		list, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array, got %s", path, describe(v))
		}
		if f.Items == nil {
			return nil
		}
		for i, item := range list {
			if err := f.Items.Check(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %s", path, describe(v))
		}
		for _, sub := range f.Fields {
			child := sub.Name
			if path != "" {
				child = path + "." + sub.Name
			}
			val, present := obj[sub.Name]
			if !present || val == nil {
				if sub.Required {
					return fmt.Errorf("%s: required key missing", child)
				}
				continue
			}
			if err := sub.Check(child, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
