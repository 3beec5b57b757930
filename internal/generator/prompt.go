package generator

import (
	"fmt"
	"strings"

	"github.com/abhisek/planbook/internal/lessonplan"
)

const systemPrompt = `You are an experienced teacher and curriculum planner who writes standardized academic lesson plans for primary and secondary schools.`

// promptFields is the order the lesson metadata appears in the prompt.
var promptFields = []struct {
	label string
	key   lessonplan.FieldKey
}{
	{"School", lessonplan.FieldSchoolName},
	{"Address", lessonplan.FieldAddress},
	{"Teacher's Name", lessonplan.FieldTeacherName},
	{"Term", lessonplan.FieldTerm},
	{"Session", lessonplan.FieldSession},
	{"Subject", lessonplan.FieldSubject},
	{"Theme", lessonplan.FieldTheme},
	{"Topic", lessonplan.FieldTopic},
	{"Sub-Topic", lessonplan.FieldSubTopic},
	{"Date", lessonplan.FieldDate},
	{"Time", lessonplan.FieldTime},
	{"Duration", lessonplan.FieldDuration},
	{"Class", lessonplan.FieldClassName},
	{"Average Age", lessonplan.FieldAverageAge},
	{"Sex", lessonplan.FieldSex},
	{"No. in Class", lessonplan.FieldNoInClass},
	{"Week", lessonplan.FieldWeek},
}

// buildPrompt renders the user message for one lesson. The output is a
// pure function of input.
func buildPrompt(input lessonplan.LessonInput) string {
	var b strings.Builder

	b.WriteString("Generate a detailed lesson plan following the provided format.\n\n")
	b.WriteString("INPUT DETAILS:\n")
	for _, f := range promptFields {
		fmt.Fprintf(&b, "%s: %s\n", f.label, input.Get(f.key))
	}

	b.WriteString(`
The generated content should be professional and specifically tailored to the level of the specified class.
Follow the structure of a standardized academic lesson plan.

Please provide:
1. Learning Objectives (specific and measurable)
2. Rationale / Reason for the lesson
3. Pre-requisite Knowledge
4. Learning Materials
5. Teaching Resources
6. Reference Materials (books, pages)
7. Detailed Lesson Development Table (including Introduction, at least 4 Presentation Steps, Evaluation, and Chalkboard Summary/Conclusion).
`)
	return b.String()
}

// promptDetails recovers the "Label: value" pairs of the INPUT DETAILS
// block from a prompt built by buildPrompt.
func promptDetails(prompt string) map[string]string {
	out := make(map[string]string)
	inBlock := false
	for line := range strings.SplitSeq(prompt, "\n") {
		switch {
		case line == "INPUT DETAILS:":
			inBlock = true
		case inBlock && strings.TrimSpace(line) == "":
			return out
		case inBlock:
			if label, value, ok := strings.Cut(line, ": "); ok {
				out[label] = value
			}
		}
	}
	return out
}
