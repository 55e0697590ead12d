package mastery_test

import (
	"context"
	"errors"
	"testing"

	"alphamastery/internal/mastery"
	"alphamastery/internal/services"
	"alphamastery/internal/services/vision"
)

const sampleImage = "cG5n"

type fakeDetector struct {
	symbols []vision.Symbol
	err     error
	gotImg  string
}

func (f *fakeDetector) DetectSymbols(_ context.Context, image string) ([]vision.Symbol, error) {
	f.gotImg = image
	return f.symbols, f.err
}

func syms(pairs ...any) []vision.Symbol {
	out := make([]vision.Symbol, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, vision.Symbol{Text: pairs[i].(string), Confidence: pairs[i+1].(float64)})
	}
	return out
}

func TestVerifyEasy(t *testing.T) {
	tests := []struct {
		name    string
		symbols []vision.Symbol
		correct bool
		reason  string
	}{
		{
			name:    "strong primary",
			symbols: syms("a", 0.9, "b", 0.4),
			correct: true,
			reason:  "Primary letter matches expected with strong confidence.",
		},
		{
			name:    "dominates",
			symbols: syms("a", 0.5, "a", 0.6, "b", 0.65),
			correct: true,
			reason:  "Expected letter dominates detections.",
		},
		{
			name:    "no match",
			symbols: syms("b", 0.9),
			reason:  "No matching letter detected.",
		},
		{
			name:    "weak primary",
			symbols: syms("a", 0.5, "b", 0.4, "c", 0.3),
			reason:  "Low confidence on primary (0.50).",
		},
		{
			name:    "not primary",
			symbols: syms("a", 0.5, "b", 0.9, "c", 0.2),
			reason:  "Expected letter not primary.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := mastery.NewVerifier(&fakeDetector{symbols: tt.symbols}, nil)
			got, err := verifier.Verify(context.Background(), mastery.CanvasInput{
				Image: sampleImage, ExpectedLetter: "a", Case: "small", Level: "easy",
			})
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if got.IsCorrect != tt.correct {
				t.Fatalf("is_correct = %v, want %v (%s)", got.IsCorrect, tt.correct, got.Reason)
			}
			if got.Reason != tt.reason {
				t.Fatalf("reason = %q, want %q", got.Reason, tt.reason)
			}
			if got.Mode != "small-easy" {
				t.Fatalf("mode = %q", got.Mode)
			}
			if got.DetectedCount != len(tt.symbols) {
				t.Fatalf("detected_count = %d, want %d", got.DetectedCount, len(tt.symbols))
			}
		})
	}
}

func TestVerifyMismatchesIncludeMissingExpected(t *testing.T) {
	verifier := mastery.NewVerifier(&fakeDetector{symbols: syms("b", 0.9, "c", 0.4, "c", 0.5)}, nil)
	got, err := verifier.Verify(context.Background(), mastery.CanvasInput{
		Image: sampleImage, ExpectedLetter: "a", Case: "small", Level: "easy",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	want := []mastery.Mismatch{
		{Letter: "c", Count: 2, TopConfidence: 0.5},
		{Letter: "b", Count: 1, TopConfidence: 0.9},
		{Letter: "a", Count: 1, TopConfidence: 0},
	}
	if len(got.Mismatches) != len(want) {
		t.Fatalf("mismatches = %+v", got.Mismatches)
	}
	for i := range want {
		if got.Mismatches[i] != want[i] {
			t.Fatalf("mismatch[%d] = %+v, want %+v", i, got.Mismatches[i], want[i])
		}
	}
}

func TestVerifyAppliesCase(t *testing.T) {
	verifier := mastery.NewVerifier(&fakeDetector{symbols: syms("a", 0.95)}, nil)
	got, err := verifier.Verify(context.Background(), mastery.CanvasInput{
		Image: sampleImage, ExpectedLetter: "a", Case: "capital", Level: "easy",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.ExpectedLetter != "A" || !got.IsCorrect || got.Sequence != "A" || !got.SequenceMatch {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Mode != "capital-easy" {
		t.Fatalf("mode = %q", got.Mode)
	}
}

func TestVerifyNoLetters(t *testing.T) {
	verifier := mastery.NewVerifier(&fakeDetector{symbols: syms("1", 0.9, "?", 0.8)}, nil)
	got, err := verifier.Verify(context.Background(), mastery.CanvasInput{
		Image: sampleImage, ExpectedLetter: "a", Case: "small", Level: "easy",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.IsCorrect || got.Reason != "No letters detected by OCR." {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Letters == nil || got.Mismatches == nil {
		t.Fatal("expected empty slices, not nil")
	}
}

func TestVerifyHard(t *testing.T) {
	tests := []struct {
		name    string
		symbols []vision.Symbol
		correct bool
		reason  string
	}{
		{
			name:    "strong pair",
			symbols: syms("a", 0.9, "b", 0.8),
			correct: true,
			reason:  "Both letters detected with strong confidence.",
		},
		{
			name:    "dominant pair",
			symbols: syms("a", 0.5, "b", 0.5),
			correct: true,
			reason:  "Expected pair dominates the detections.",
		},
		{
			name:    "missing letter",
			symbols: syms("a", 0.9),
			reason:  "Both letters must be present at least once.",
		},
		{
			name:    "wrong order",
			symbols: syms("b", 0.9, "a", 0.9),
			reason:  "Letters not detected in the required order 'ab'.",
		},
		{
			name:    "weak and diluted",
			symbols: syms("a", 0.5, "b", 0.5, "c", 0.5, "d", 0.5),
			reason:  "Low confidence and low ratio for the expected pair.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := mastery.NewVerifier(&fakeDetector{symbols: tt.symbols}, nil)
			got, err := verifier.Verify(context.Background(), mastery.CanvasInput{
				Image: sampleImage, ExpectedLetter: "ab", Case: "small", Level: "hard",
			})
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if got.IsCorrect != tt.correct || got.Reason != tt.reason {
				t.Fatalf("got (%v, %q), want (%v, %q)", got.IsCorrect, got.Reason, tt.correct, tt.reason)
			}
			if got.Mode != "small-hard" {
				t.Fatalf("mode = %q", got.Mode)
			}
			if _, ok := got.TopMatchConfidencePerLetter["a"]; !ok {
				t.Fatalf("per-letter confidences missing: %+v", got.TopMatchConfidencePerLetter)
			}
		})
	}
}

func TestVerifyStripsDataURL(t *testing.T) {
	detector := &fakeDetector{symbols: syms("a", 0.9)}
	_, err := mastery.NewVerifier(detector, nil).Verify(context.Background(), mastery.CanvasInput{
		Image: "data:image/png;base64,cG5n\n", ExpectedLetter: "a", Case: "small", Level: "easy",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if detector.gotImg != sampleImage {
		t.Fatalf("detector got %q, want %q", detector.gotImg, sampleImage)
	}
}

func TestVerifyValidation(t *testing.T) {
	tests := []struct {
		name  string
		input mastery.CanvasInput
	}{
		{name: "missing letter", input: mastery.CanvasInput{Image: sampleImage, Case: "small", Level: "easy"}},
		{name: "bad case", input: mastery.CanvasInput{Image: sampleImage, ExpectedLetter: "a", Case: "upper", Level: "easy"}},
		{name: "bad level", input: mastery.CanvasInput{Image: sampleImage, ExpectedLetter: "a", Case: "small", Level: "medium"}},
		{name: "digit", input: mastery.CanvasInput{Image: sampleImage, ExpectedLetter: "1", Case: "small", Level: "easy"}},
		{name: "easy needs one", input: mastery.CanvasInput{Image: sampleImage, ExpectedLetter: "ab", Case: "small", Level: "easy"}},
		{name: "hard needs two", input: mastery.CanvasInput{Image: sampleImage, ExpectedLetter: "a", Case: "small", Level: "hard"}},
		{name: "empty image", input: mastery.CanvasInput{Image: "data:image/png;base64,", ExpectedLetter: "a", Case: "small", Level: "easy"}},
		{name: "bad image", input: mastery.CanvasInput{Image: "@@@", ExpectedLetter: "a", Case: "small", Level: "easy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := &fakeDetector{}
			_, err := mastery.NewVerifier(detector, nil).Verify(context.Background(), tt.input)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if detector.gotImg != "" {
				t.Fatal("detector should not be called for invalid input")
			}
		})
	}
}

func TestVerifyDetectorFailure(t *testing.T) {
	verifier := mastery.NewVerifier(&fakeDetector{err: errors.New("quota")}, nil)
	_, err := verifier.Verify(context.Background(), mastery.CanvasInput{
		Image: sampleImage, ExpectedLetter: "a", Case: "small", Level: "easy",
	})
	if !errors.Is(err, services.ErrScoringUnavailable) {
		t.Fatalf("expected scoring unavailable, got %v", err)
	}
}
