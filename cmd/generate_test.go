package cmd

import (
	"testing"

	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/lessonplan"
)

func TestDecodeEntries(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "single lesson", input: "subject: Mathematics\ntopic: Fractions\n", want: 1},
		{name: "list of lessons", input: "- topic: Values\n- subTopic: Honesty\n- subTopic: Respect\n", want: 3},
		{name: "empty", input: "", wantErr: true},
		{name: "empty list", input: "[]\n", wantErr: true},
		{name: "scalar", input: "hello\n", wantErr: true},
		{name: "invalid yaml", input: "a: [b\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeEntries([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d entries", len(got))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d entries, got %d", tt.want, len(got))
			}
		})
	}
}

func TestEntriesLayerOverPreviousInput(t *testing.T) {
	entries, err := decodeEntries([]byte("- subject: English\n  term: second\n- subTopic: Nouns\n  week: 7\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	in := lessonplan.DefaultInput()
	if err := entries[0].Decode(&in); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if in.Subject != "English" || in.Term != lessonplan.TermSecond {
		t.Errorf("unexpected first entry: subject %q term %q", in.Subject, in.Term)
	}
	if in.SchoolName != lessonplan.DefaultInput().SchoolName {
		t.Error("expected untouched fields to keep their values")
	}

	if err := entries[1].Decode(&in); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if in.Subject != "English" || in.SubTopic != "Nouns" || in.Week != 7 {
		t.Errorf("unexpected second entry: %+v", in)
	}
}

func TestParseFormats(t *testing.T) {
	got, err := parseFormats([]string{"pdf", "word"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []export.Format{export.FormatPDF, export.FormatWord, export.FormatPrint}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("format %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if _, err := parseFormats([]string{"odt"}, false); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "-",
		512:     "512 B",
		2048:    "2.0 KB",
		3 << 20: "3.0 MB",
	}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}
