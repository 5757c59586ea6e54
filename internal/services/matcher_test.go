package services

import (
	"testing"
)

func TestFilterByKeywords(t *testing.T) {
	docs := []Document{
		{Filename: "a.txt", Text: "Seasoned Python developer with Django experience"},
		{Filename: "b.txt", Text: "Java engineer focused on Spring services"},
	}

	matcher := NewMatcherService()

	filtered := matcher.FilterByKeywords(docs, "python")
	if len(filtered) != 1 || filtered[0].Filename != "a.txt" {
		t.Fatalf("filtered = %+v, want only a.txt", filtered)
	}
}

func TestFilterByKeywordsEmptyStringIsPassThrough(t *testing.T) {
	docs := []Document{
		{Filename: "a.txt", Text: "Python"},
		{Filename: "b.txt", Text: "Java"},
	}

	matcher := NewMatcherService()

	if got := matcher.FilterByKeywords(docs, "  "); len(got) != 2 {
		t.Fatalf("got %d docs, want pass-through of all 2", len(got))
	}
}

func TestFilterByKeywordsOrSemantics(t *testing.T) {
	docs := []Document{
		{Filename: "a.txt", Text: "Go and Kubernetes"},
		{Filename: "b.txt", Text: "Rust only"},
		{Filename: "c.txt", Text: "nothing relevant"},
	}

	matcher := NewMatcherService()

	filtered := matcher.FilterByKeywords(docs, "kubernetes, rust")
	if len(filtered) != 2 {
		t.Fatalf("got %d docs, want 2 (OR semantics)", len(filtered))
	}
}

func TestFilterByKeywordsCanEmptyThePool(t *testing.T) {
	docs := []Document{
		{Filename: "a.txt", Text: "Python developer"},
	}

	matcher := NewMatcherService()

	if got := matcher.FilterByKeywords(docs, "haskell"); len(got) != 0 {
		t.Fatalf("got %+v, want empty result", got)
	}
}

func TestKeyMatchesFindsSharedTerms(t *testing.T) {
	job := "Looking python developer with django skills"
	resume := "python developer django projects"

	matcher := NewMatcherService()
	matches := matcher.KeyMatches(resume, job, 3)

	if len(matches) != 3 {
		t.Fatalf("matches = %v, want exactly 3", matches)
	}

	shared := map[string]bool{
		"python":           true,
		"developer":        true,
		"django":           true,
		"python developer": true,
		"developer django": true,
	}
	for _, m := range matches {
		if !shared[m] {
			t.Fatalf("unexpected match %q in %v", m, matches)
		}
	}
}

func TestKeyMatchesNoOverlapYieldsSentinel(t *testing.T) {
	matcher := NewMatcherService()

	matches := matcher.KeyMatches("gardening and flowers", "quantum physics research", 3)
	if len(matches) != 1 || matches[0] != SentinelNoMatches {
		t.Fatalf("matches = %v, want [%q]", matches, SentinelNoMatches)
	}
}

func TestKeyMatchesStopwordsExcluded(t *testing.T) {
	matcher := NewMatcherService()

	// Overlap consists entirely of stopwords and boilerplate.
	matches := matcher.KeyMatches(
		"must have the ability and experience",
		"must have the ability and summary",
		3,
	)
	if len(matches) != 1 || matches[0] != SentinelNoMatches {
		t.Fatalf("matches = %v, want [%q]", matches, SentinelNoMatches)
	}
}
