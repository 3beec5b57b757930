package lessonplan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Term is the school term a lesson belongs to.
type Term string

const (
	TermFirst  Term = "First term"
	TermSecond Term = "Second term"
	TermThird  Term = "Third term"
)

// Terms lists the terms in calendar order.
var Terms = []Term{TermFirst, TermSecond, TermThird}

// ParseTerm accepts "first", "First term", "1" and similar spellings.
func ParseTerm(s string) (Term, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, " term")
	switch v {
	case "first", "1", "1st":
		return TermFirst, nil
	case "second", "2", "2nd":
		return TermSecond, nil
	case "third", "3", "3rd":
		return TermThird, nil
	}
	return "", fmt.Errorf("unknown term %q: must be first, second or third", s)
}

// Next returns the following term, wrapping from third to first.
func (t Term) Next() Term {
	for i, term := range Terms {
		if term == t {
			return Terms[(i+1)%len(Terms)]
		}
	}
	return TermFirst
}

// UnmarshalText lets YAML and JSON decoders accept loose term spellings.
// An empty value leaves the term unset.
func (t *Term) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*t = ""
		return nil
	}
	parsed, err := ParseTerm(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// LessonInput holds the administrative and scheduling metadata for one lesson.
// Every field except Week is free text interpolated into the generation prompt.
type LessonInput struct {
	SchoolName  string `json:"schoolName" yaml:"schoolName"`
	Address     string `json:"address" yaml:"address"`
	TeacherName string `json:"teacherName" yaml:"teacherName"`
	Term        Term   `json:"term" yaml:"term"`
	Session     string `json:"session" yaml:"session"`
	Subject     string `json:"subject" yaml:"subject"`
	Theme       string `json:"theme" yaml:"theme"`
	Topic       string `json:"topic" yaml:"topic"`
	SubTopic    string `json:"subTopic" yaml:"subTopic"`
	Date        string `json:"date" yaml:"date"`
	Time        string `json:"time" yaml:"time"`
	Duration    string `json:"duration" yaml:"duration"`
	ClassName   string `json:"className" yaml:"className"`
	AverageAge  string `json:"averageAge" yaml:"averageAge"`
	Sex         string `json:"sex" yaml:"sex"`
	NoInClass   string `json:"noInClass" yaml:"noInClass"`
	Week        int    `json:"week" yaml:"week"`
}

// DevelopmentStep is one row of the lesson development table.
type DevelopmentStep struct {
	Stage             string `json:"stage"`
	TeacherActivities string `json:"teacherActivities"`
	PupilsActivities  string `json:"pupilsActivities"`
	LearningPoints    string `json:"learningPoints"`
}

// GeneratedContent is the pedagogical content produced for one LessonInput.
type GeneratedContent struct {
	LearningObjectives    []string          `json:"learningObjectives"`
	Rationale             string            `json:"rationale"`
	PreRequisiteKnowledge string            `json:"preRequisiteKnowledge"`
	LearningMaterials     string            `json:"learningMaterials"`
	TeachingResources     string            `json:"teachingResources"`
	ReferenceMaterial     []string          `json:"referenceMaterial"`
	DevelopmentSteps      []DevelopmentStep `json:"developmentSteps"`
}

// Clone returns a deep copy so the caller's slices can't leak into the copy.
func (c GeneratedContent) Clone() GeneratedContent {
	out := c
	out.LearningObjectives = append([]string(nil), c.LearningObjectives...)
	out.ReferenceMaterial = append([]string(nil), c.ReferenceMaterial...)
	out.DevelopmentSteps = append([]DevelopmentStep(nil), c.DevelopmentSteps...)
	return out
}

// SavedPlan pairs a LessonInput snapshot with its content. It is never
// mutated after creation.
type SavedPlan struct {
	ID      string           `json:"id"`
	Input   LessonInput      `json:"input"`
	Content GeneratedContent `json:"plan"`
}

// Clone deep-copies the plan.
func (p SavedPlan) Clone() SavedPlan {
	return SavedPlan{ID: p.ID, Input: p.Input, Content: p.Content.Clone()}
}

// UnmarshalJSON accepts week as a number or as a numeric string, the shape
// browser forms send.
func (in *LessonInput) UnmarshalJSON(b []byte) error {
	type plain LessonInput
	aux := struct {
		*plain
		Week json.RawMessage `json:"week"`
	}{plain: (*plain)(in)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Week)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] != '"' {
		return json.Unmarshal(raw, &in.Week)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	week, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return &FieldError{Field: FieldWeek, Message: fmt.Sprintf("week must be a whole number: %q", s)}
	}
	in.Week = week
	return nil
}
