package services

import (
	"strings"
	"testing"
)

func TestParseLLMScoreStrictJSON(t *testing.T) {
	score, err := parseLLMScore(`{"fit_score": 8.5, "justification": "Strong Go background."}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.FitScore != 8.5 {
		t.Fatalf("fit_score = %v, want 8.5", score.FitScore)
	}
	if score.Justification != "Strong Go background." {
		t.Fatalf("justification = %q", score.Justification)
	}
}

func TestParseLLMScoreToleratesMarkdownFences(t *testing.T) {
	response := "```json\n{\"fit_score\": 7.0, \"justification\": \"Good match.\"}\n```"

	score, err := parseLLMScore(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.FitScore != 7.0 {
		t.Fatalf("fit_score = %v, want 7.0", score.FitScore)
	}
}

func TestParseLLMScoreToleratesSurroundingProse(t *testing.T) {
	response := `Here is my assessment: {"fit_score": 3.5, "justification": "Gaps in backend depth."} Hope this helps.`

	score, err := parseLLMScore(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.FitScore != 3.5 {
		t.Fatalf("fit_score = %v, want 3.5", score.FitScore)
	}
}

func TestParseLLMScoreMalformedJSONIsAFailure(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I think the candidate is a 7 out of 10."},
		{"truncated", `{"fit_score": 7.0, "justifica`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseLLMScore(tt.response); err == nil {
				t.Fatalf("expected parse failure for %q", tt.response)
			}
		})
	}
}

func TestParseLLMScoreOutOfRangeIsAFailure(t *testing.T) {
	if _, err := parseLLMScore(`{"fit_score": 0.0, "justification": "n/a"}`); err == nil {
		t.Fatalf("expected out-of-range failure for score 0.0")
	}
	if _, err := parseLLMScore(`{"fit_score": 11.0, "justification": "n/a"}`); err == nil {
		t.Fatalf("expected out-of-range failure for score 11.0")
	}
}

func TestExtractJSONPicksObjectBoundaries(t *testing.T) {
	got := extractJSON("noise {\"a\": 1} trailing")
	if got != `{"a": 1}` {
		t.Fatalf("got %q", got)
	}
}

func TestParseLLMScoreBlankJustificationGetsPlaceholder(t *testing.T) {
	score, err := parseLLMScore(`{"fit_score": 6.0, "justification": "  "}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(score.Justification, "Could not parse justification") {
		t.Fatalf("justification = %q, want placeholder", score.Justification)
	}
}
