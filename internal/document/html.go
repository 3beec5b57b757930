package document

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DetailHeaders are the columns of the details table.
var DetailHeaders = []string{"Section", "Details", "HOD's Remarks"}

// StepHeaders are the columns of the lesson development table.
var StepHeaders = []string{"Stage/Step", "Teacher's Activities", "Pupils' Activities", "Learning Points", "HOD's Remark"}

// Stylesheet styles the markup produced by HTML. Page breaks are honoured
// by browsers and by Word.
const Stylesheet = `
body { font-family: Arial, sans-serif; color: #0f172a; }
.lesson-plan { position: relative; max-width: 960px; margin: 0 auto; padding: 24px; }
.letterhead { display: flex; gap: 24px; border-bottom: 2px solid #cbd5e1; padding-bottom: 12px; }
.logo { width: 96px; height: 96px; object-fit: contain; }
.school-name { font-size: 22pt; color: #1e3a8a; text-transform: uppercase; margin: 0; }
.address b, .teacher-line b { color: #1e40af; }
.teacher-line span { display: inline-block; min-width: 120px; border-bottom: 1px solid #cbd5e1; margin-right: 24px; }
.heading { text-align: center; text-transform: uppercase; color: #1e3a8a; font-size: 14pt; }
.subheading { color: #1e3a8a; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { border: 1px solid #cbd5e1; padding: 6px; text-align: left; vertical-align: top; font-size: 10pt; }
th { background-color: #f8fafc; color: #1e3a8a; }
td.label { font-weight: bold; color: #1e3a8a; width: 30%; }
td.remark { background-color: #fef2f2; }
tr { page-break-inside: avoid; }
.page-break { page-break-after: always; break-after: page; }
.watermark-bg { position: absolute; top: 50%; left: 50%; width: 60%; transform: translate(-50%, -50%); opacity: 0.04; pointer-events: none; }
@media print { .no-print { display: none; } }
`

var documentTmpl = template.Must(
	template.New("document").
		Funcs(template.FuncMap{
			"detailHeaders": func() []string { return DetailHeaders },
			"stepHeaders":   func() []string { return StepHeaders },
			"isNumbered":    func(s ListStyle) bool { return s == Numbered },
			"isBulleted":    func(s ListStyle) bool { return s == Bulleted },
		}).
		ParseFS(templateFS, "templates/document.html.tmpl"),
)

type htmlNode struct {
	Break   bool
	Section *Section
	Logo    template.URL
}

// HTML renders d as a markup fragment without a surrounding page. Logos
// point at each section's LogoRef.
func HTML(d *Document) (template.HTML, error) {
	return render(d, nil)
}

// HTMLWithLogo renders d like HTML but points every logo at src, which
// may be a data URI.
func HTMLWithLogo(d *Document, src template.URL) (template.HTML, error) {
	return render(d, &src)
}

func render(d *Document, logo *template.URL) (template.HTML, error) {
	nodes := make([]htmlNode, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		switch n := n.(type) {
		case PageBreak:
			nodes = append(nodes, htmlNode{Break: true})
		case *Section:
			src := template.URL(n.Letterhead.LogoRef)
			if logo != nil {
				src = *logo
			}
			nodes = append(nodes, htmlNode{Section: n, Logo: src})
		}
	}

	var buf bytes.Buffer
	if err := documentTmpl.ExecuteTemplate(&buf, "document", nodes); err != nil {
		return "", fmt.Errorf("render document html: %w", err)
	}
	return template.HTML(buf.String()), nil
}
