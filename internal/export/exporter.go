// Package export turns rendered documents into deliverables: a raster PDF,
// a Word-compatible HTML document, or a print job.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/planbook/internal/document"
	"github.com/abhisek/planbook/internal/logging"
	"github.com/abhisek/planbook/internal/metrics"
	"github.com/abhisek/planbook/internal/store"
)

// Format is an export target.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatWord  Format = "doc"
	FormatPrint Format = "print"
)

// ParseFormat accepts pdf, doc (or word) and print.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "pdf":
		return FormatPDF, nil
	case "doc", "word":
		return FormatWord, nil
	case "print":
		return FormatPrint, nil
	}
	return "", fmt.Errorf("unknown export format %q (want pdf, doc or print)", s)
}

// Scope says what was exported.
type Scope string

const (
	ScopeDraft      Scope = "draft"
	ScopeCollection Scope = "collection"
)

// Content types of exported files.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeWord = "application/msword"
)

// ErrEmptyDocument is returned when there is nothing to export.
var ErrEmptyDocument = errors.New("nothing to export")

// Job is one export request.
type Job struct {
	Doc *document.Document
	// Subject names the output files.
	Subject   string
	Scope     Scope
	PlanCount int
}

// File is an exported artifact held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Delivery is the outcome of an export: a file, or a print job when the
// PDF path is unavailable or printing was asked for.
type Delivery struct {
	Format  Format
	File    *File
	Printed bool
	Path    string
}

// Encoder turns a document into PDF bytes.
type Encoder interface {
	Encode(doc *document.Document) ([]byte, error)
}

// Options configures an Exporter.
type Options struct {
	Logo       *Logo
	PDFEnabled bool
	Printer    Printer
	Events     store.EventRepo
	Logger     *logging.Logger
}

// Exporter runs exports. The PDF strategy is fixed at construction.
type Exporter struct {
	pdf     Encoder
	logo    *Logo
	printer Printer
	events  store.EventRepo
	log     *logging.Logger
}

// New builds an Exporter. When PDF export is disabled or the rasterizer
// cannot start, PDF requests fall back to printing.
func New(opts Options) *Exporter {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "export")

	printer := opts.Printer
	if printer == nil {
		printer = NewCommandPrinter(DefaultPrintCommand)
	}

	e := &Exporter{logo: opts.Logo, printer: printer, events: opts.Events, log: log}
	if opts.PDFEnabled {
		r, err := NewRasterPDF(opts.Logo)
		if err != nil {
			log.Warn("pdf export unavailable, falling back to print", "error", err)
		} else {
			e.setPDF(r)
		}
	}
	return e
}

// setPDF installs the PDF encoder and lets a host print command spool
// the same PDF.
func (e *Exporter) setPDF(enc Encoder) {
	e.pdf = enc
	if cp, ok := e.printer.(*CommandPrinter); ok && cp.PDF == nil {
		cp.PDF = enc
	}
}

// NewWithEncoder builds an Exporter around a given PDF encoder. A nil
// encoder selects the print fallback.
func NewWithEncoder(enc Encoder, opts Options) *Exporter {
	opts.PDFEnabled = false
	e := New(opts)
	if enc != nil {
		e.setPDF(enc)
	}
	return e
}

// WithPrinter returns a copy of e that sends print jobs to p. The PDF
// strategy and the export log are shared.
func (e *Exporter) WithPrinter(p Printer) *Exporter {
	c := *e
	c.printer = p
	return &c
}

// PDFAvailable reports whether PDF requests produce files.
func (e *Exporter) PDFAvailable() bool {
	return e.pdf != nil
}

// Export produces the deliverable for format without touching disk.
func (e *Exporter) Export(ctx context.Context, format Format, job Job) (Delivery, error) {
	d, err := e.export(ctx, format, job)
	e.record(ctx, format, job, d, err)
	return d, err
}

// ExportTo exports and writes any resulting file into dir.
func (e *Exporter) ExportTo(ctx context.Context, format Format, job Job, dir string) (Delivery, error) {
	d, err := e.export(ctx, format, job)
	if err == nil && d.File != nil {
		d.Path, err = SaveFile(dir, d.File)
	}
	e.record(ctx, format, job, d, err)
	return d, err
}

func (e *Exporter) export(ctx context.Context, format Format, job Job) (Delivery, error) {
	if job.Doc.Empty() {
		return Delivery{Format: format}, ErrEmptyDocument
	}
	base := BaseName(job.Subject)

	switch format {
	case FormatPDF:
		if e.pdf == nil {
			return e.print(ctx, job), nil
		}
		data, err := e.pdf.Encode(job.Doc)
		if err != nil {
			return Delivery{Format: format}, fmt.Errorf("export pdf: %w", err)
		}
		return Delivery{Format: format, File: &File{Name: base + ".pdf", ContentType: ContentTypePDF, Data: data}}, nil

	case FormatWord:
		data, err := WordDocument(job.Doc, e.logo)
		if err != nil {
			return Delivery{Format: format}, fmt.Errorf("export word: %w", err)
		}
		return Delivery{Format: format, File: &File{Name: base + ".doc", ContentType: ContentTypeWord, Data: data}}, nil

	case FormatPrint:
		return e.print(ctx, job), nil
	}
	return Delivery{Format: format}, fmt.Errorf("unknown export format %q", format)
}

// print issues the print job. Failures are logged, never returned.
func (e *Exporter) print(ctx context.Context, job Job) Delivery {
	if err := e.printer.Print(ctx, job.Doc); err != nil {
		e.log.Warn("print job failed", "subject", job.Subject, "error", err)
	}
	return Delivery{Format: FormatPrint, Printed: true}
}

func (e *Exporter) record(ctx context.Context, format Format, job Job, d Delivery, exportErr error) {
	delivery := "file"
	switch {
	case exportErr != nil:
		delivery = "error"
	case d.Printed:
		delivery = "print"
	}
	metrics.ExportTotal.WithLabelValues(string(format), string(job.Scope), delivery).Inc()

	data := store.ExportEventData{
		Format:    string(format),
		Scope:     string(job.Scope),
		Subject:   job.Subject,
		PlanCount: job.PlanCount,
		Path:      d.Path,
		Printed:   d.Printed,
	}
	if d.File != nil {
		data.Bytes = int64(len(d.File.Data))
	}
	if exportErr != nil {
		data.ErrorMessage = exportErr.Error()
		e.log.Warn("export failed", "format", format, "scope", job.Scope, "error", exportErr)
	} else {
		e.log.Info("export complete", "format", format, "scope", job.Scope, "printed", d.Printed, "path", d.Path, "bytes", data.Bytes)
	}

	if e.events == nil {
		return
	}
	if err := e.events.AppendExport(ctx, data); err != nil {
		e.log.Warn("failed to record export", "error", err)
	}
}

// SaveFile writes f into dir, creating dir when needed, and returns the
// path written.
func SaveFile(dir string, f *File) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := diskName(f.Name)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid export file name %q", f.Name)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

var separators = strings.NewReplacer("/", "-", `\`, "-")

// diskName keeps a download name inside its directory: path separators
// in the subject become dashes.
func diskName(name string) string {
	return separators.Replace(name)
}
