// Package document lays lesson plans out as printable documents. A Document
// is a plain node tree; the HTML, text and raster back ends only read it.
package document

import (
	"fmt"
	"strings"

	"github.com/abhisek/planbook/internal/lessonplan"
)

// DefaultHeading is the title printed on every section.
const DefaultHeading = "Lesson Plan Template"

// Node is a top-level element of a Document: a *Section or a PageBreak.
type Node interface {
	node()
}

// PageBreak separates two sections.
type PageBreak struct{}

func (PageBreak) node() {}

// Field is one row of the metadata table.
type Field struct {
	Label string
	Value string
}

// ListStyle controls how a detail row with Items is drawn.
type ListStyle int

const (
	Plain ListStyle = iota
	Numbered
	Bulleted
)

// DetailRow is one row of the Section / Details / HOD's Remarks table.
// Rows with a list style other than Plain use Items instead of Text.
type DetailRow struct {
	Label string
	Text  string
	Items []string
	Style ListStyle
}

// PlainText flattens the row for back ends without list markup.
func (r DetailRow) PlainText() string {
	switch r.Style {
	case Numbered:
		lines := make([]string, len(r.Items))
		for i, item := range r.Items {
			lines[i] = fmt.Sprintf("%d. %s", i+1, item)
		}
		return strings.Join(lines, "\n")
	case Bulleted:
		lines := make([]string, len(r.Items))
		for i, item := range r.Items {
			lines[i] = "• " + item
		}
		return strings.Join(lines, "\n")
	}
	return r.Text
}

// Letterhead is the top block of a section.
type Letterhead struct {
	SchoolName string
	Address    string
	LogoRef    string
}

// Section is the full layout of one lesson plan.
type Section struct {
	Letterhead  Letterhead
	TeacherName string
	Term        string
	Session     string
	Heading     string
	Metadata    []Field
	Details     []DetailRow
	Steps       []lessonplan.DevelopmentStep
}

func (*Section) node() {}

// Document is an ordered list of nodes.
type Document struct {
	Nodes []Node
}

// Sections returns the sections of d in order.
func (d *Document) Sections() []*Section {
	var out []*Section
	for _, n := range d.Nodes {
		if s, ok := n.(*Section); ok {
			out = append(out, s)
		}
	}
	return out
}

// Empty reports whether d has nothing to render.
func (d *Document) Empty() bool {
	return d == nil || len(d.Sections()) == 0
}

// Options configures a Renderer.
type Options struct {
	// LogoRef is a path or URL for the school logo; it is also used as
	// the page watermark. Empty means no logo.
	LogoRef string
	Heading string
}

// Renderer builds Documents. It is immutable and safe for concurrent use.
type Renderer struct {
	opts Options
}

// NewRenderer creates a Renderer with opts.
func NewRenderer(opts Options) *Renderer {
	if opts.Heading == "" {
		opts.Heading = DefaultHeading
	}
	return &Renderer{opts: opts}
}

// LogoRef returns the configured logo reference.
func (r *Renderer) LogoRef() string { return r.opts.LogoRef }

// RenderSingle lays out one plan.
func (r *Renderer) RenderSingle(input lessonplan.LessonInput, content lessonplan.GeneratedContent) *Document {
	return &Document{Nodes: []Node{r.section(input, content)}}
}

// RenderCombined lays out every plan in order with a page break between
// consecutive plans.
func (r *Renderer) RenderCombined(plans []lessonplan.SavedPlan) *Document {
	doc := &Document{}
	for i, p := range plans {
		if i > 0 {
			doc.Nodes = append(doc.Nodes, PageBreak{})
		}
		doc.Nodes = append(doc.Nodes, r.section(p.Input, p.Content))
	}
	return doc
}

// MetadataLabels is the fixed order of the metadata table.
var MetadataLabels = []string{
	"Subject", "Theme", "Topic", "Sub-Topic", "Date", "Time", "Duration",
	"Class", "Average Age", "Sex", "No. in Class",
}

func (r *Renderer) section(in lessonplan.LessonInput, c lessonplan.GeneratedContent) *Section {
	values := []string{
		in.Subject, in.Theme, in.Topic, in.SubTopic, in.Date, in.Time, in.Duration,
		in.ClassName, in.AverageAge, in.Sex, in.NoInClass,
	}
	meta := make([]Field, len(MetadataLabels))
	for i, label := range MetadataLabels {
		meta[i] = Field{Label: label, Value: values[i]}
	}

	return &Section{
		Letterhead: Letterhead{
			SchoolName: in.SchoolName,
			Address:    in.Address,
			LogoRef:    r.opts.LogoRef,
		},
		TeacherName: in.TeacherName,
		Term:        string(in.Term),
		Session:     in.Session,
		Heading:     r.opts.Heading,
		Metadata:    meta,
		Details: []DetailRow{
			{Label: "Learning Objectives", Items: clone(c.LearningObjectives), Style: Numbered},
			{Label: "Rationale / Reason", Text: c.Rationale},
			{Label: "Pre-requisite Knowledge", Text: c.PreRequisiteKnowledge},
			{Label: "Learning Materials", Text: c.LearningMaterials},
			{Label: "Teaching Resources", Text: c.TeachingResources},
			{Label: "Reference Material", Items: clone(c.ReferenceMaterial), Style: Bulleted},
		},
		Steps: append([]lessonplan.DevelopmentStep(nil), c.DevelopmentSteps...),
	}
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
