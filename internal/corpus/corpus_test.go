package corpus

import "testing"

func TestWordCount(t *testing.T) {
	cases := map[string]int{
		"":                  0,
		"   ":               0,
		"a b c":             3,
		"one\ttwo\nthree  ": 3,
	}
	for in, want := range cases {
		if got := WordCount(in); got != want {
			t.Fatalf("WordCount(%q)=%d, want %d", in, got, want)
		}
	}
}

func TestCloneMetadata(t *testing.T) {
	if m := CloneMetadata(nil); m == nil {
		t.Fatalf("clone of nil must be non-nil")
	}
	src := map[string]string{"k": "v"}
	dst := CloneMetadata(src)
	dst["k"] = "changed"
	if src["k"] != "v" {
		t.Fatalf("clone shares storage with source")
	}
}

func TestReasons_UniqueAndNonEmpty(t *testing.T) {
	seen := map[Reason]bool{}
	for _, r := range Reasons() {
		if r == ReasonNone || seen[r] {
			t.Fatalf("bad reason list entry %q", r)
		}
		seen[r] = true
	}
	if Reasons()[0] != ReasonEmptyContent {
		t.Fatalf("evaluation order must start with empty content")
	}
}
