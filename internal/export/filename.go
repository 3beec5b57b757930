package export

import "regexp"

const basePrefix = "Weekly_Lesson_Plans_"

var whitespaceRun = regexp.MustCompile(`\s+`)

// BaseName derives the export file name stem from a subject. Each run of
// whitespace becomes one underscore; everything else is kept as typed.
func BaseName(subject string) string {
	return basePrefix + whitespaceRun.ReplaceAllString(subject, "_")
}
