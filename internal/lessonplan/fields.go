package lessonplan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldKey names a LessonInput field by its wire key.
type FieldKey string

const (
	FieldSchoolName  FieldKey = "schoolName"
	FieldAddress     FieldKey = "address"
	FieldTeacherName FieldKey = "teacherName"
	FieldTerm        FieldKey = "term"
	FieldSession     FieldKey = "session"
	FieldWeek        FieldKey = "week"
	FieldSubject     FieldKey = "subject"
	FieldTheme       FieldKey = "theme"
	FieldTopic       FieldKey = "topic"
	FieldSubTopic    FieldKey = "subTopic"
	FieldDate        FieldKey = "date"
	FieldTime        FieldKey = "time"
	FieldClassName   FieldKey = "className"
	FieldAverageAge  FieldKey = "averageAge"
	FieldSex         FieldKey = "sex"
	FieldNoInClass   FieldKey = "noInClass"
	FieldDuration    FieldKey = "duration"
)

// FieldDef describes one editable input field.
type FieldDef struct {
	Key         FieldKey
	Label       string
	Required    bool
	Placeholder string
}

// Fields is the form order used by every input surface.
var Fields = []FieldDef{
	{Key: FieldSchoolName, Label: "School Name", Required: true, Placeholder: "e.g. TOLPBY GRACE AND GLORY ACADEMY TUNGA MAJE"},
	{Key: FieldAddress, Label: "School Address", Required: true, Placeholder: "School address"},
	{Key: FieldTeacherName, Label: "Teacher's Name"},
	{Key: FieldTerm, Label: "Term"},
	{Key: FieldSession, Label: "Session"},
	{Key: FieldWeek, Label: "Week", Required: true},
	{Key: FieldSubject, Label: "Subject", Required: true},
	{Key: FieldTheme, Label: "Theme"},
	{Key: FieldTopic, Label: "Topic", Required: true},
	{Key: FieldSubTopic, Label: "Sub-Topic", Required: true},
	{Key: FieldDate, Label: "Date"},
	{Key: FieldTime, Label: "Time Range", Placeholder: "e.g. 8:30am - 9:10am"},
	{Key: FieldClassName, Label: "Class"},
	{Key: FieldAverageAge, Label: "Average Age"},
	{Key: FieldSex, Label: "Sex"},
	{Key: FieldNoInClass, Label: "No. in Class"},
	{Key: FieldDuration, Label: "Duration"},
}

// LookupField returns the definition for key.
func LookupField(key FieldKey) (FieldDef, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Get returns the text value of a field.
func (in LessonInput) Get(key FieldKey) string {
	switch key {
	case FieldSchoolName:
		return in.SchoolName
	case FieldAddress:
		return in.Address
	case FieldTeacherName:
		return in.TeacherName
	case FieldTerm:
		return string(in.Term)
	case FieldSession:
		return in.Session
	case FieldWeek:
		return strconv.Itoa(in.Week)
	case FieldSubject:
		return in.Subject
	case FieldTheme:
		return in.Theme
	case FieldTopic:
		return in.Topic
	case FieldSubTopic:
		return in.SubTopic
	case FieldDate:
		return in.Date
	case FieldTime:
		return in.Time
	case FieldClassName:
		return in.ClassName
	case FieldAverageAge:
		return in.AverageAge
	case FieldSex:
		return in.Sex
	case FieldNoInClass:
		return in.NoInClass
	case FieldDuration:
		return in.Duration
	}
	return ""
}

// Set assigns a field from text. Week and term values are parsed.
func (in *LessonInput) Set(key FieldKey, value string) error {
	switch key {
	case FieldSchoolName:
		in.SchoolName = value
	case FieldAddress:
		in.Address = value
	case FieldTeacherName:
		in.TeacherName = value
	case FieldTerm:
		term, err := ParseTerm(value)
		if err != nil {
			return err
		}
		in.Term = term
	case FieldSession:
		in.Session = value
	case FieldWeek:
		week, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("week must be a whole number: %q", value)
		}
		in.Week = week
	case FieldSubject:
		in.Subject = value
	case FieldTheme:
		in.Theme = value
	case FieldTopic:
		in.Topic = value
	case FieldSubTopic:
		in.SubTopic = value
	case FieldDate:
		in.Date = value
	case FieldTime:
		in.Time = value
	case FieldClassName:
		in.ClassName = value
	case FieldAverageAge:
		in.AverageAge = value
	case FieldSex:
		in.Sex = value
	case FieldNoInClass:
		in.NoInClass = value
	case FieldDuration:
		in.Duration = value
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	return nil
}

// FieldError reports a single invalid field.
type FieldError struct {
	Field   FieldKey
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the required fields and the week invariant. It returns
// every problem joined with errors.Join, or nil.
func (in LessonInput) Validate() error {
	var errs []error
	for _, f := range Fields {
		if !f.Required || f.Key == FieldWeek {
			continue
		}
		if strings.TrimSpace(in.Get(f.Key)) == "" {
			errs = append(errs, &FieldError{Field: f.Key, Message: f.Label + " is required"})
		}
	}
	if in.Week < 1 {
		errs = append(errs, &FieldError{Field: FieldWeek, Message: "week must be 1 or greater"})
	}
	return errors.Join(errs...)
}

// DefaultInput returns the sample values the form starts with.
func DefaultInput() LessonInput {
	return LessonInput{
		SchoolName:  "TOLPBY GRACE AND GLORY ACADEMY TUNGA MAJE",
		Address:     "Abuja, Nigeria",
		TeacherName: "Adebisi Victor",
		Term:        TermFirst,
		Session:     "2025/2026",
		Subject:     "Civic Education",
		Theme:       "National values",
		Topic:       "Values",
		SubTopic:    "Meaning of values",
		Date:        "11/09/2025",
		Time:        "8:30am - 9:10am",
		Duration:    "40 minutes",
		ClassName:   "JSS 1",
		AverageAge:  "10 Years",
		Sex:         "Mixed",
		NoInClass:   "20",
		Week:        1,
	}
}
