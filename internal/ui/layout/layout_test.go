package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestPlanCount(t *testing.T) {
	tests := map[int]string{
		0: "▤ 0 plans",
		1: "▤ 1 plan",
		5: "▤ 5 plans",
	}
	for n, want := range tests {
		if got := PlanCount(n); got != want {
			t.Errorf("PlanCount(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestSpreadFillsWidth(t *testing.T) {
	got := spread(30, "ab", "mid", "z")
	if lipgloss.Width(got) != 30 {
		t.Errorf("expected width 30, got %d (%q)", lipgloss.Width(got), got)
	}
	if !strings.HasPrefix(got, "ab ") || !strings.HasSuffix(got, " z") {
		t.Errorf("unexpected layout %q", got)
	}
}

func TestSpreadKeepsGapsWhenNarrow(t *testing.T) {
	got := spread(4, "left", "center", "right")
	if got != "left center right" {
		t.Errorf("expected single spaces, got %q", got)
	}
}

func TestRenderFrameHeight(t *testing.T) {
	frame := RenderFrame("head", "body", "foot", 20, 10)
	if h := lipgloss.Height(frame); h != 10 {
		t.Errorf("expected height 10, got %d", h)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("narrow terminal should be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should fit")
	}
}
