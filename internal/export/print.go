package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/planbook/internal/document"
)

// DefaultPrintCommand spools to the default CUPS destination.
const DefaultPrintCommand = "lp"

// Printer issues a print job for a document.
type Printer interface {
	Print(ctx context.Context, doc *document.Document) error
}

// printColumns is the text width spooled when no PDF encoder is set.
const printColumns = 100

// CommandPrinter pipes a job into a host command such as lp. The job is a
// PDF when PDF is set and plain text otherwise, both of which a stock CUPS
// queue accepts.
type CommandPrinter struct {
	Command []string
	PDF     Encoder
}

// NewCommandPrinter splits command on whitespace. An empty command uses
// DefaultPrintCommand.
func NewCommandPrinter(command string) *CommandPrinter {
	args := strings.Fields(command)
	if len(args) == 0 {
		args = []string{DefaultPrintCommand}
	}
	return &CommandPrinter{Command: args}
}

func (p *CommandPrinter) Print(ctx context.Context, doc *document.Document) error {
	if len(p.Command) == 0 {
		return errors.New("print command not configured")
	}
	job, err := p.spool(doc)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, p.Command[0], p.Command[1:]...)
	cmd.Stdin = bytes.NewReader(job)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w: %s", p.Command[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (p *CommandPrinter) spool(doc *document.Document) ([]byte, error) {
	if p.PDF != nil {
		data, err := p.PDF.Encode(doc)
		if err != nil {
			return nil, fmt.Errorf("render print job: %w", err)
		}
		return data, nil
	}
	return []byte(PlainText(doc)), nil
}

// PlainText renders doc as unstyled text for line printers. Page breaks
// become form feeds.
func PlainText(doc *document.Document) string {
	var b strings.Builder
	for _, n := range doc.Nodes {
		switch n := n.(type) {
		case document.PageBreak:
			b.WriteString("\f")
		case *document.Section:
			one := &document.Document{Nodes: []document.Node{n}}
			b.WriteString(ansi.Strip(document.Text(one, printColumns)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// BrowserPrinter leaves printing to the browser that receives the
// printable page.
type BrowserPrinter struct{}

func (BrowserPrinter) Print(context.Context, *document.Document) error { return nil }
