package skills

import "testing"

func TestClassify_DesignKeywords(t *testing.T) {
	tests := []struct {
		task string
		want Capability
	}{
		{"fix the paddings and colors on the dashboard", CapVisualDesign},
		{"adjust margin on the sidebar", CapVisualDesign},
		{"make the layout responsive", CapVisualDesign},
		{"update the colour scheme", CapVisualDesign},
		{"fix CSS grid on mobile viewport", CapVisualDesign},
		{"tweak font and typography", CapVisualDesign},
		{"styling is broken on hover", CapVisualDesign},
		{"fix the off-by-one in pagination", CapNone},
		{"resolve failing unit tests", CapNone},
		{"add retry logic to the HTTP client", CapNone},
		{"", CapNone},
	}

	for _, tt := range tests {
		got := Classify(tt.task)
		if got.Capability != tt.want {
			t.Errorf("Classify(%q): expected %q, got %q (matched %v)",
				tt.task, tt.want, got.Capability, got.Matched)
		}
	}
}

func TestClassify_DeduplicatesMatches(t *testing.T) {
	got := Classify("padding padding PADDING and more padding")
	if len(got.Matched) != 1 {
		t.Errorf("expected 1 distinct match, got %v", got.Matched)
	}
	if got.Matched[0] != "padding" {
		t.Errorf("expected lowercased match, got %q", got.Matched[0])
	}
}

func TestClassify_WordBoundaries(t *testing.T) {
	// "css" inside a larger word must not match.
	got := Classify("update the accessibility checker")
	if got.Capability != CapNone {
		t.Errorf("expected no match inside larger words, matched %v", got.Matched)
	}
}

func TestDetectDesignKeywords(t *testing.T) {
	if !DetectDesignKeywords("align the header with the logo") {
		t.Error("expected design keywords to be detected")
	}
	if DetectDesignKeywords("speed up the database query") {
		t.Error("did not expect design keywords")
	}
}
