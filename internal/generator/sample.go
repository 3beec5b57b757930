package generator

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/llm"
)

// SampleContent builds placeholder content for input without calling a
// model. It backs the offline demo provider.
func SampleContent(input lessonplan.LessonInput) lessonplan.GeneratedContent {
	topic := orElse(input.SubTopic, input.Topic)
	class := orElse(input.ClassName, "the class")

	return lessonplan.GeneratedContent{
		LearningObjectives: []string{
			fmt.Sprintf("Explain the meaning of %s in their own words.", topic),
			fmt.Sprintf("Give at least three examples of %s from everyday life.", topic),
			fmt.Sprintf("Relate %s to the wider theme of %s.", topic, orElse(input.Theme, input.Topic)),
		},
		Rationale:             fmt.Sprintf("Pupils in %s need a clear grasp of %s to build on later lessons in %s.", class, topic, input.Subject),
		PreRequisiteKnowledge: fmt.Sprintf("Pupils have met the idea of %s in earlier lessons and in daily life.", input.Topic),
		LearningMaterials:     "Charts, flash cards, exercise books.",
		TeachingResources:     "Chalkboard, textbook, pictures related to the topic.",
		ReferenceMaterial: []string{
			fmt.Sprintf("%s for %s, scheme of work, week %d.", input.Subject, class, input.Week),
		},
		DevelopmentSteps: []lessonplan.DevelopmentStep{
			{Stage: "Introduction", TeacherActivities: "Asks pupils questions on their previous knowledge.", PupilsActivities: "Answer the questions.", LearningPoints: "Arousing interest."},
			{Stage: "Step 1", TeacherActivities: fmt.Sprintf("Explains the meaning of %s.", topic), PupilsActivities: "Listen and take notes.", LearningPoints: "Meaning."},
			{Stage: "Step 2", TeacherActivities: "Gives examples and asks pupils for more.", PupilsActivities: "Give their own examples.", LearningPoints: "Examples."},
			{Stage: "Step 3", TeacherActivities: "Discusses why the topic matters.", PupilsActivities: "Contribute to the discussion.", LearningPoints: "Importance."},
			{Stage: "Step 4", TeacherActivities: "Groups pupils for a short activity.", PupilsActivities: "Work in groups and present.", LearningPoints: "Application."},
			{Stage: "Evaluation", TeacherActivities: fmt.Sprintf("Asks pupils to define %s and give two examples.", topic), PupilsActivities: "Answer the questions.", LearningPoints: "Assessment."},
			{Stage: "Chalkboard Summary/Conclusion", TeacherActivities: "Writes a summary on the chalkboard.", PupilsActivities: "Copy the summary into their notes.", LearningPoints: "Summary."},
		},
	}
}

// DemoResponder answers lesson-plan requests with SampleContent. It is the
// fallback of the mock provider in offline demo mode.
func DemoResponder(req llm.Request) (json.RawMessage, error) {
	if len(req.Messages) == 0 {
		return nil, errors.New("demo responder: no prompt")
	}
	details := promptDetails(req.Messages[len(req.Messages)-1].Content)

	var input lessonplan.LessonInput
	for _, f := range promptFields {
		if v, ok := details[f.label]; ok {
			// Week and term come from our own prompt and always parse;
			// a failure just leaves the zero value.
			_ = input.Set(f.key, v)
		}
	}
	return json.Marshal(SampleContent(input))
}

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
