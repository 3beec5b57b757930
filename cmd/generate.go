package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/generator"
	"github.com/abhisek/planbook/internal/lessonplan"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate lesson plans from a YAML file and export them",
	Long: `Generate reads one lesson (a YAML mapping) or a week-by-week list of
lessons (a YAML sequence). Each entry starts from the previous one, so later
weeks only need the fields that change; the week number advances on its own.
Every plan is accepted into the collection, which is then exported as one
combined document.`,
	Example: `  planbook generate -i term1.yaml --format pdf,doc --out ./plans
  planbook generate -i lesson.yaml --print`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath, _ := cmd.Flags().GetString("input")
		formatNames, _ := cmd.Flags().GetStringSlice("format")
		outDir, _ := cmd.Flags().GetString("out")
		printToo, _ := cmd.Flags().GetBool("print")

		formats, err := parseFormats(formatNames, printToo)
		if err != nil {
			return err
		}

		raw, err := readInput(inputPath)
		if err != nil {
			return err
		}

		d, err := buildDeps(cmd, depsOptions{})
		if err != nil {
			return err
		}
		defer d.Close()
		if outDir == "" {
			outDir = d.cfg.Export.Dir
		}

		entries, err := decodeEntries(raw)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		ctx := cmd.Context()
		for _, entry := range entries {
			input := d.session.State().Form
			if err := entry.Decode(&input); err != nil {
				return fmt.Errorf("decode lesson at line %d: %w", entry.Line, err)
			}
			if _, err := d.session.Generate(ctx, input); err != nil {
				return generateError(input, err)
			}
			saved, err := d.session.Accept()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Week %d: %s (%s)\n", saved.Input.Week, saved.Input.SubTopic, saved.Input.Topic)
		}

		plans := d.session.Plans()
		job := export.Job{
			Doc:       d.renderer.RenderCombined(plans),
			Subject:   plans[len(plans)-1].Input.Subject,
			Scope:     export.ScopeCollection,
			PlanCount: len(plans),
		}
		for _, f := range formats {
			dl, err := d.exporter.ExportTo(ctx, f, job, outDir)
			if err != nil {
				return err
			}
			switch {
			case dl.Printed && f == export.FormatPDF:
				fmt.Fprintln(out, "PDF export unavailable; sent to the printer instead.")
			case dl.Printed:
				fmt.Fprintln(out, "Sent to the printer.")
			default:
				fmt.Fprintf(out, "Saved %s\n", dl.Path)
			}
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("input", "i", "", "YAML file with one lesson or a list of lessons (- for stdin)")
	generateCmd.Flags().StringSlice("format", []string{"pdf", "doc"}, "Export formats: pdf, doc")
	generateCmd.Flags().StringP("out", "o", "", "Output directory (overrides export.dir)")
	generateCmd.Flags().Bool("print", false, "Also send the collection to the printer")
	_ = generateCmd.MarkFlagRequired("input")
}

func parseFormats(names []string, printToo bool) ([]export.Format, error) {
	var formats []export.Format
	for _, n := range names {
		f, err := export.ParseFormat(n)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	if printToo {
		formats = append(formats, export.FormatPrint)
	}
	return formats, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// decodeEntries returns one node per lesson in the document.
func decodeEntries(data []byte) ([]*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("input file is empty")
		}
		return nil, fmt.Errorf("parse input: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, errors.New("input file is empty")
	}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{root}, nil
	case yaml.SequenceNode:
		if len(root.Content) == 0 {
			return nil, errors.New("input list is empty")
		}
		return root.Content, nil
	}
	return nil, fmt.Errorf("input must be a lesson mapping or a list of lessons (line %d)", root.Line)
}

// generateError adds the week being generated and, for generation
// failures, the message shown to teachers.
func generateError(input lessonplan.LessonInput, err error) error {
	var genErr *generator.GenerationError
	if errors.As(err, &genErr) {
		return fmt.Errorf("week %d: %s: %w", input.Week, genErr.UserMessage(), err)
	}
	return fmt.Errorf("week %d: %w", input.Week, err)
}
