package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/abhisek/planbook/internal/document"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// DocumentTitle is the title of every exported page.
const DocumentTitle = "Weekly Lesson Plans"

// wordStyle is the Word-specific stylesheet. Word ignores most of the
// browser rules, so tables and colours are restated plainly.
const wordStyle = `
body { font-family: Arial, sans-serif; line-height: 1.4; position: relative; }
table { border-collapse: collapse; width: 100%; margin-top: 10px; page-break-inside: auto; }
tr { page-break-inside: avoid; page-break-after: auto; }
th, td { border: 1px solid #999; padding: 6px; text-align: left; vertical-align: top; }
th { background-color: #f8f9fa; color: #1e3a8a; }
h1 { color: #1e3a8a; }
.logo { width: 72px; height: 72px; }
.page-break { page-break-after: always; }
.watermark-bg { position: fixed; top: 25%; left: 25%; width: 50%; opacity: 0.04; z-index: -1; }
`

type pageData struct {
	Title     string
	Style     template.CSS
	Body      template.HTML
	Logo      template.URL
	AutoPrint bool
}

// PrintablePage wraps doc in a complete HTML page. When autoPrint is set
// the page opens the browser print dialog once loaded.
func PrintablePage(doc *document.Document, autoPrint bool) ([]byte, error) {
	body, err := document.HTML(doc)
	if err != nil {
		return nil, err
	}
	return execPage("print", pageData{
		Title:     DocumentTitle,
		Style:     template.CSS(document.Stylesheet),
		Body:      body,
		AutoPrint: autoPrint,
	})
}

// WordDocument renders doc as an HTML document Word opens natively. The
// logo, when given, is inlined so the file is self-contained.
func WordDocument(doc *document.Document, logo *Logo) ([]byte, error) {
	body, err := document.HTMLWithLogo(doc, logo.DataURI())
	if err != nil {
		return nil, err
	}
	return execPage("word", pageData{
		Title: DocumentTitle,
		Style: template.CSS(wordStyle),
		Body:  body,
		Logo:  logo.DataURI(),
	})
}

func execPage(name string, data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s page: %w", name, err)
	}
	return buf.Bytes(), nil
}
