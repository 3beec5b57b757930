package generator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/llm"
)

func validPlanJSON() json.RawMessage {
	return json.RawMessage(`{
		"learningObjectives": ["Define values", "List three national values"],
		"rationale": "Values guide behaviour in society.",
		"preRequisiteKnowledge": "Pupils know rules at home.",
		"learningMaterials": "Charts",
		"teachingResources": "Textbook",
		"referenceMaterial": ["Civic Education for JSS 1, pp. 12-15"],
		"developmentSteps": [
			{"stage": "Introduction", "teacherActivities": "Asks questions", "pupilsActivities": "Answer", "learningPoints": "Interest"},
			{"stage": "Step 1", "teacherActivities": "Defines values", "pupilsActivities": "Listen", "learningPoints": "Meaning"},
			{"stage": "Evaluation", "teacherActivities": "Asks pupils to define values", "pupilsActivities": "Respond", "learningPoints": "Assessment"}
		]
	}`)
}

func TestGenerate_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validPlanJSON()})
	g := New(mock, DefaultConfig(), nil)

	content, err := g.Generate(context.Background(), lessonplan.DefaultInput())
	require.NoError(t, err)

	assert.Equal(t, []string{"Define values", "List three national values"}, content.LearningObjectives)
	require.Len(t, content.DevelopmentSteps, 3)
	assert.Equal(t, "Introduction", content.DevelopmentSteps[0].Stage)
	assert.Equal(t, "Step 1", content.DevelopmentSteps[1].Stage)
	assert.Equal(t, "Evaluation", content.DevelopmentSteps[2].Stage)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Same(t, LessonPlanSchema, req.Schema)
	assert.Equal(t, 8192, req.MaxTokens)
}

func TestGenerate_PromptCarriesEveryField(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validPlanJSON()})
	input := lessonplan.DefaultInput()
	input.Address = "12 Unity Road, Abuja"
	input.Week = 5

	_, err := New(mock, DefaultConfig(), nil).Generate(context.Background(), input)
	require.NoError(t, err)

	prompt := mock.Calls[0].Messages[0].Content
	for _, want := range []string{
		"School: TOLPBY GRACE AND GLORY ACADEMY TUNGA MAJE",
		"Address: 12 Unity Road, Abuja",
		"Teacher's Name: Adebisi Victor",
		"Term: First term",
		"Sub-Topic: Meaning of values",
		"Time: 8:30am - 9:10am",
		"No. in Class: 20",
		"Week: 5",
		"at least 4 Presentation Steps",
		"Chalkboard Summary/Conclusion",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.Equal(t, prompt, buildPrompt(input), "prompt must be deterministic")
}

func TestGenerate_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
		want Kind
	}{
		{
			name: "missing rationale",
			resp: llm.MockResponse{Content: json.RawMessage(`{"learningObjectives":[],"preRequisiteKnowledge":"","learningMaterials":"","teachingResources":"","referenceMaterial":[],"developmentSteps":[]}`)},
			want: MalformedPayload,
		},
		{
			name: "not json",
			resp: llm.MockResponse{Content: json.RawMessage(`Sure! Here is your plan`)},
			want: MalformedPayload,
		},
		{
			name: "truncated",
			resp: llm.MockResponse{Err: &llm.ErrMaxTokensExceeded{Content: json.RawMessage(`{"learn`)}},
			want: MalformedPayload,
		},
		{
			name: "empty",
			resp: llm.MockResponse{Err: llm.ErrEmptyResponse},
			want: EmptyResponse,
		},
		{
			name: "unavailable",
			resp: llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("dial tcp: no route to host")}},
			want: NetworkFailure,
		},
		{
			name: "rate limited",
			resp: llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}},
			want: NetworkFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp)
			content, err := New(mock, DefaultConfig(), nil).Generate(context.Background(), lessonplan.DefaultInput())
			assert.Nil(t, content)

			var ge *GenerationError
			require.True(t, errors.As(err, &ge), "got %T", err)
			assert.Equal(t, tt.want, ge.Kind)
			assert.Equal(t, UserMessage, ge.UserMessage())
			assert.Equal(t, 1, mock.CallCount(), "exactly one attempt")
		})
	}
}

func TestGenerate_IndependentResults(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: validPlanJSON()},
		llm.MockResponse{Content: validPlanJSON()},
	)
	g := New(mock, DefaultConfig(), nil)

	first, err := g.Generate(context.Background(), lessonplan.DefaultInput())
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), lessonplan.DefaultInput())
	require.NoError(t, err)

	first.LearningObjectives[0] = "changed"
	assert.Equal(t, "Define values", second.LearningObjectives[0])
	assert.Equal(t, 2, mock.CallCount(), "no caching")
}

func TestDecodeContent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Kind
		wantErr string
	}{
		{"whitespace only", "  \n", EmptyResponse, ""},
		{"objectives not a list", strings.Replace(string(validPlanJSON()), `["Define values", "List three national values"]`, `"Define values"`, 1), MalformedPayload, "learningObjectives: expected array"},
		{"step missing stage", strings.Replace(string(validPlanJSON()), `"stage": "Step 1", `, ``, 1), MalformedPayload, "developmentSteps[1].stage: required key missing"},
		{"null reference list", strings.Replace(string(validPlanJSON()), `["Civic Education for JSS 1, pp. 12-15"]`, `null`, 1), MalformedPayload, "referenceMaterial: required key missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeContent(json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestContentSpec_JSONSchema(t *testing.T) {
	def := LessonPlanSchema.Definition
	assert.Equal(t, "object", def["type"])
	assert.Equal(t, []any{
		"learningObjectives", "rationale", "preRequisiteKnowledge", "learningMaterials",
		"teachingResources", "referenceMaterial", "developmentSteps",
	}, def["required"])

	props := def["properties"].(map[string]any)
	steps := props["developmentSteps"].(map[string]any)
	items := steps["items"].(map[string]any)
	assert.Equal(t, []any{"stage", "teacherActivities", "pupilsActivities", "learningPoints"}, items["required"])
}

func TestDemoResponder(t *testing.T) {
	input := lessonplan.DefaultInput()
	input.SubTopic = "Types of values"
	input.Week = 3

	raw, err := DemoResponder(llm.Request{Messages: []llm.Message{{Role: llm.RoleUser, Content: buildPrompt(input)}}})
	require.NoError(t, err)

	content, err := decodeContent(raw)
	require.NoError(t, err)
	assert.Contains(t, content.LearningObjectives[0], "Types of values")
	assert.Contains(t, content.ReferenceMaterial[0], "week 3")
	assert.GreaterOrEqual(t, len(content.DevelopmentSteps), 7)
}

func TestDemoProviderEndToEnd(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Fallback = DemoResponder

	content, err := New(mock, DefaultConfig(), nil).Generate(context.Background(), lessonplan.DefaultInput())
	require.NoError(t, err)
	assert.Contains(t, content.Rationale, "Meaning of values")
}

func TestPromptDetails(t *testing.T) {
	details := promptDetails(buildPrompt(lessonplan.DefaultInput()))
	assert.Equal(t, "Civic Education", details["Subject"])
	assert.Equal(t, "1", details["Week"])
	assert.Len(t, details, len(promptFields))
}
