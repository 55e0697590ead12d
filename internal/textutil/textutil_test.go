package textutil_test

import (
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"alphamastery/internal/textutil"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"cat", "cat", 1.0},
		{"cat", "dog", 0.0},
		{"", "", 1.0},
		{"abc", "", 0.0},
		{"abcd", "bcde", 0.75},
		{"The cat sat", "The cat sat.", 22.0 / 23.0},
		{"caf\u00e9", "cafe\u0301", 1.0},
	}
	for _, tt := range tests {
		got := textutil.Ratio(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRatioCountsEveryMatchingBlock(t *testing.T) {
	// "itt" and "n" match; 2*4/13.
	for _, pair := range [][2]string{{"kitten", "sitting"}, {"sitting", "kitten"}} {
		if got := textutil.Ratio(pair[0], pair[1]); math.Abs(got-8.0/13.0) > 1e-9 {
			t.Fatalf("Ratio(%q, %q) = %v, want 8/13", pair[0], pair[1], got)
		}
	}
}

func TestRatioLongRepetitiveInput(t *testing.T) {
	a := strings.Repeat("abcdefghij", 1600)
	b := strings.Repeat("jihgfedcba", 1600)

	start := time.Now()
	got := textutil.Ratio(a, b)
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Ratio on %d runes took %v", len(a), elapsed)
	}
	// Every rune is popular in b, so autojunk leaves nothing to anchor on.
	if got != 0 {
		t.Fatalf("Ratio = %v, want 0 under autojunk", got)
	}
}

func TestFormatLabel(t *testing.T) {
	tests := map[string]string{
		"red_apple":       "red apple",
		"ice-cream!":      "ice cream",
		"  Tree (2) ":     "Tree 2",
		"caf\u00e9_table": "caf table",
		"___":             "",
	}
	for in, want := range tests {
		if got := textutil.FormatLabel(in); got != want {
			t.Errorf("FormatLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJumbledVariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	variants := textutil.JumbledVariants("apple", 4, rng)
	if len(variants) != 4 {
		t.Fatalf("expected 4 variants, got %v", variants)
	}
	seen := map[string]bool{}
	for _, v := range variants {
		if strings.EqualFold(v, "apple") {
			t.Fatalf("variant %q equals label", v)
		}
		if seen[v] {
			t.Fatalf("duplicate variant %q", v)
		}
		seen[v] = true
		a, b := []rune(v), []rune("apple")
		slices.Sort(a)
		slices.Sort(b)
		if string(a) != string(b) {
			t.Fatalf("variant %q is not a permutation of apple", v)
		}
	}
}

func TestJumbledVariantsExhaustsAttempts(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	if got := textutil.JumbledVariants("aaa", 4, rng); len(got) != 0 {
		t.Fatalf("expected no variants for a single repeated letter, got %v", got)
	}
	if got := textutil.JumbledVariants("Ab", 4, rng); len(got) > 1 {
		t.Fatalf("two letters allow at most one variant, got %v", got)
	}
	if got := textutil.JumbledVariants("", 4, rng); got != nil {
		t.Fatalf("expected nil for empty label, got %v", got)
	}
}

func TestShuffledOptionsContainsLabel(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	options := textutil.ShuffledOptions("cat", []string{"act", "tca"}, rng)
	if len(options) != 3 || !slices.Contains(options, "cat") {
		t.Fatalf("unexpected options %v", options)
	}
}
