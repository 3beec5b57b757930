package lessonplan

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseTerm(t *testing.T) {
	tests := []struct {
		in      string
		want    Term
		wantErr bool
	}{
		{"First term", TermFirst, false},
		{"first", TermFirst, false},
		{" 2 ", TermSecond, false},
		{"3rd", TermThird, false},
		{"Third Term", TermThird, false},
		{"fourth", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTerm(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTermNext(t *testing.T) {
	assert.Equal(t, TermSecond, TermFirst.Next())
	assert.Equal(t, TermFirst, TermThird.Next())
}

func TestValidate_DefaultInputIsValid(t *testing.T) {
	assert.NoError(t, DefaultInput().Validate())
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	in := DefaultInput()
	in.SchoolName = "  "
	in.Topic = ""
	in.Week = 0

	err := in.Validate()
	require.Error(t, err)

	var fields []FieldKey
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var fe *FieldError
		require.True(t, errors.As(e, &fe))
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []FieldKey{FieldSchoolName, FieldTopic, FieldWeek}, fields)
}

func TestValidate_OptionalFieldsMayBeEmpty(t *testing.T) {
	in := DefaultInput()
	in.TeacherName = ""
	in.Theme = ""
	in.Duration = ""
	assert.NoError(t, in.Validate())
}

func TestGetSet_CoverEveryField(t *testing.T) {
	var in LessonInput
	for _, f := range Fields {
		value := "value-" + string(f.Key)
		switch f.Key {
		case FieldWeek:
			value = "7"
		case FieldTerm:
			value = "second"
		}
		require.NoError(t, in.Set(f.Key, value), f.Key)
	}

	assert.Equal(t, 7, in.Week)
	assert.Equal(t, TermSecond, in.Term)
	assert.Equal(t, "value-subTopic", in.SubTopic)
	assert.Equal(t, "value-noInClass", in.NoInClass)
	assert.Equal(t, "7", in.Get(FieldWeek))
	assert.Equal(t, "Second term", in.Get(FieldTerm))
}

func TestSet_RejectsBadValues(t *testing.T) {
	var in LessonInput
	assert.Error(t, in.Set(FieldWeek, "one"))
	assert.Error(t, in.Set(FieldTerm, "summer"))
	assert.Error(t, in.Set("nickname", "x"))
}

func TestFields_RequiredSet(t *testing.T) {
	var required []FieldKey
	for _, f := range Fields {
		if f.Required {
			required = append(required, f.Key)
		}
	}
	assert.Equal(t, []FieldKey{FieldSchoolName, FieldAddress, FieldWeek, FieldSubject, FieldTopic, FieldSubTopic}, required)

	def, ok := LookupField(FieldNoInClass)
	require.True(t, ok)
	assert.Equal(t, "No. in Class", def.Label)
}

func TestLessonInput_YAMLAcceptsLooseTerm(t *testing.T) {
	src := []byte("schoolName: Hilltop\naddress: Jos\nsubject: Basic Science\ntopic: Living things\nsubTopic: Plants\nterm: third\nweek: 4\n")

	var in LessonInput
	require.NoError(t, yaml.Unmarshal(src, &in))
	assert.Equal(t, TermThird, in.Term)
	assert.Equal(t, 4, in.Week)
	assert.NoError(t, in.Validate())
}

func TestGeneratedContent_JSONKeys(t *testing.T) {
	raw := `{"learningObjectives":["a"],"rationale":"r","preRequisiteKnowledge":"p","learningMaterials":"m",
		"teachingResources":"t","referenceMaterial":["b"],"developmentSteps":[{"stage":"Introduction",
		"teacherActivities":"ta","pupilsActivities":"pa","learningPoints":"lp"}]}`

	var c GeneratedContent
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "r", c.Rationale)
	require.Len(t, c.DevelopmentSteps, 1)
	assert.Equal(t, "pa", c.DevelopmentSteps[0].PupilsActivities)
}

func TestClone_IsDeep(t *testing.T) {
	orig := SavedPlan{
		ID:    "x",
		Input: DefaultInput(),
		Content: GeneratedContent{
			LearningObjectives: []string{"one"},
			ReferenceMaterial:  []string{"book"},
			DevelopmentSteps:   []DevelopmentStep{{Stage: "Intro"}},
		},
	}
	cp := orig.Clone()
	cp.Content.LearningObjectives[0] = "changed"
	cp.Content.DevelopmentSteps[0].Stage = "changed"
	cp.Content.ReferenceMaterial = append(cp.Content.ReferenceMaterial, "more")

	assert.Equal(t, "one", orig.Content.LearningObjectives[0])
	assert.Equal(t, "Intro", orig.Content.DevelopmentSteps[0].Stage)
	assert.Len(t, orig.Content.ReferenceMaterial, 1)
}

func TestLessonInput_UnmarshalJSONWeek(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "number", body: `{"subject":"Civic Education","week":3}`, want: 3},
		{name: "numeric string", body: `{"subject":"Civic Education","week":"4"}`, want: 4},
		{name: "padded string", body: `{"subject":"Civic Education","week":" 5 "}`, want: 5},
		{name: "missing", body: `{"subject":"Civic Education"}`, want: 0},
		{name: "null", body: `{"subject":"Civic Education","week":null}`, want: 0},
		{name: "word", body: `{"week":"five"}`, wantErr: true},
		{name: "fraction", body: `{"week":1.5}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in LessonInput
			err := json.Unmarshal([]byte(tt.body), &in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, in.Week)
			assert.Equal(t, "Civic Education", in.Subject)
		})
	}
}

func TestLessonInput_UnmarshalJSONKeepsOtherFields(t *testing.T) {
	var in LessonInput
	require.NoError(t, json.Unmarshal([]byte(`{"term":"second","topic":"Values","week":"2"}`), &in))
	assert.Equal(t, TermSecond, in.Term)
	assert.Equal(t, "Values", in.Topic)
	assert.Equal(t, 2, in.Week)

	var fe *FieldError
	err := json.Unmarshal([]byte(`{"week":"two"}`), &in)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldWeek, fe.Field)
}
