package mastery

import (
	"cmp"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"unicode"

	"alphamastery/internal/logging"
	"alphamastery/internal/services"
	"alphamastery/internal/services/vision"
)

const (
	// strongConfidence is the top confidence that counts as clear evidence of a letter.
	strongConfidence = 0.70
	// dominanceRatio is the share of detections the expected letters must reach.
	dominanceRatio = 0.60
	// minSequenceConfidence drops very weak symbols from the ordered sequence.
	minSequenceConfidence = 0.30
)

// SymbolDetector returns OCR symbols for a base64 image.
type SymbolDetector interface {
	DetectSymbols(ctx context.Context, imageBase64 string) ([]vision.Symbol, error)
}

// CanvasInput is a handwritten attempt.
type CanvasInput struct {
	// Image is base64, optionally as a data URL.
	Image          string
	ExpectedLetter string
	// Case is "capital" or "small".
	Case string
	// Level is "easy" (one letter) or "hard" (two letters in order).
	Level string
}

// DetectedLetter is one alphabetic OCR symbol after case normalisation.
type DetectedLetter struct {
	Letter     string  `json:"letter"`
	Confidence float64 `json:"confidence"`
}

// Mismatch summarises a letter that should not be there, or an expected one
// that is missing (count 1, confidence 0).
type Mismatch struct {
	Letter        string  `json:"letter"`
	Count         int     `json:"count"`
	TopConfidence float64 `json:"top_confidence"`
}

// Verification is the outcome of Verify.
type Verification struct {
	Mode                        string             `json:"mode"`
	ExpectedLetter              string             `json:"expected_letter"`
	IsCorrect                   bool               `json:"is_correct"`
	Reason                      string             `json:"reason"`
	DetectedCount               int                `json:"detected_count"`
	MatchCount                  int                `json:"match_count"`
	TopMatchConfidence          float64            `json:"top_match_confidence"`
	TopMatchConfidencePerLetter map[string]float64 `json:"top_match_confidence_per_letter,omitempty"`
	MatchRatio                  float64            `json:"match_ratio"`
	Sequence                    string             `json:"sequence"`
	SequenceMatch               bool               `json:"sequence_match"`
	Letters                     []DetectedLetter   `json:"letters"`
	Mismatches                  []Mismatch         `json:"mismatches"`
}

// Verifier checks handwritten letters with an OCR collaborator.
type Verifier struct {
	detector SymbolDetector
	logger   *slog.Logger
}

// NewVerifier builds a Verifier around detector.
func NewVerifier(detector SymbolDetector, logger *slog.Logger) *Verifier {
	return &Verifier{detector: detector, logger: logging.NewComponentLogger(logger, "canvas")}
}

// Verify validates input, runs OCR and applies the easy or hard rules.
func (v *Verifier) Verify(ctx context.Context, input CanvasInput) (Verification, error) {
	expected, image, err := normalizeCanvasInput(input)
	if err != nil {
		return Verification{}, err
	}

	symbols, err := v.detector.DetectSymbols(ctx, image)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, v.logger), "ocr request failed", "vision_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check vision.api_key and network access"),
			logging.String(logging.FieldImpact, "handwriting not verified"),
		)
		return Verification{}, services.Wrap(services.ErrScoringUnavailable, "canvas", "verify", "ocr request failed", err)
	}

	stats := collectLetters(symbols, input.Case)
	var result Verification
	switch {
	case len(stats.letters) == 0:
		result = Verification{
			ExpectedLetter: expected,
			Reason:         "No letters detected by OCR.",
			Sequence:       stats.sequence,
			Letters:        []DetectedLetter{},
			Mismatches:     []Mismatch{},
		}
	case input.Level == "easy":
		result = judgeEasy(expected, stats)
	default:
		result = judgeHard(expected, stats)
	}
	result.Mode = input.Case + "-" + input.Level

	logging.WithContext(ctx, v.logger).Info("canvas verified",
		logging.String("mode", result.Mode),
		logging.Bool("is_correct", result.IsCorrect),
		logging.Int("detected_count", result.DetectedCount),
		logging.Float64("match_ratio", result.MatchRatio),
	)
	return result, nil
}

func normalizeCanvasInput(input CanvasInput) (string, string, error) {
	invalid := func(msg string) error {
		return services.Wrap(services.ErrValidation, "canvas", "verify", msg, nil)
	}
	expected := strings.TrimSpace(input.ExpectedLetter)
	if expected == "" {
		return "", "", invalid("expected_letter is required")
	}
	if input.Case != "capital" && input.Case != "small" {
		return "", "", invalid("is_capital must be 'capital' or 'small'")
	}
	if input.Level != "easy" && input.Level != "hard" {
		return "", "", invalid("level must be 'easy' or 'hard'")
	}
	for _, r := range expected {
		if !unicode.IsLetter(r) {
			return "", "", invalid("expected_letter must be letters only")
		}
	}
	length := len([]rune(expected))
	if input.Level == "easy" && length != 1 {
		return "", "", invalid("for 'easy', expected_letter must be exactly 1 letter")
	}
	if input.Level == "hard" && length != 2 {
		return "", "", invalid("for 'hard', expected_letter must be exactly 2 letters, e.g. 'ab'")
	}
	expected = applyCase(expected, input.Case)

	image := input.Image
	if _, after, found := strings.Cut(image, ","); found {
		image = after
	}
	image = strings.Join(strings.Fields(image), "")
	if image == "" {
		return "", "", invalid("empty base64 image")
	}
	if _, err := base64.StdEncoding.DecodeString(image); err != nil {
		return "", "", invalid("invalid base64 image")
	}
	return expected, image, nil
}

func applyCase(s, letterCase string) string {
	if letterCase == "capital" {
		return strings.ToUpper(s)
	}
	return strings.ToLower(s)
}

type letterStats struct {
	letters  []DetectedLetter
	sequence string
	order    []string // first-seen order of distinct letters
	count    map[string]int
	topConf  map[string]float64
}

func collectLetters(symbols []vision.Symbol, letterCase string) letterStats {
	stats := letterStats{
		letters: []DetectedLetter{},
		count:   map[string]int{},
		topConf: map[string]float64{},
	}
	var seq strings.Builder
	for _, symbol := range symbols {
		if len(symbol.Text) != 1 {
			continue
		}
		ch := rune(symbol.Text[0])
		if !(ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z') {
			continue
		}
		letter := applyCase(string(ch), letterCase)
		conf := round3(symbol.Confidence)
		stats.letters = append(stats.letters, DetectedLetter{Letter: letter, Confidence: conf})
		if symbol.Confidence >= minSequenceConfidence {
			seq.WriteString(letter)
		}
		if _, seen := stats.count[letter]; !seen {
			stats.order = append(stats.order, letter)
		}
		stats.count[letter]++
		stats.topConf[letter] = max(stats.topConf[letter], conf)
	}
	stats.sequence = seq.String()
	return stats
}

func (s letterStats) primary() (string, float64) {
	var (
		best     string
		bestConf = -1.0
	)
	for _, letter := range s.order {
		if s.topConf[letter] > bestConf {
			best, bestConf = letter, s.topConf[letter]
		}
	}
	return best, bestConf
}

func (s letterStats) mismatches(expected ...string) []Mismatch {
	out := []Mismatch{}
	for _, letter := range s.order {
		if slices.Contains(expected, letter) {
			continue
		}
		out = append(out, Mismatch{Letter: letter, Count: s.count[letter], TopConfidence: s.topConf[letter]})
	}
	for _, letter := range expected {
		if s.count[letter] == 0 {
			out = append(out, Mismatch{Letter: letter, Count: 1})
		}
	}
	slices.SortStableFunc(out, func(a, b Mismatch) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(b.TopConfidence, a.TopConfidence)
	})
	return out
}

func judgeEasy(expected string, stats letterStats) Verification {
	total := len(stats.letters)
	matches := stats.count[expected]
	ratio := float64(matches) / float64(total)
	primary, primaryConf := stats.primary()

	strongPrimary := primary == expected && primaryConf >= strongConfidence
	dominant := ratio >= dominanceRatio && matches >= 1

	var reason string
	switch {
	case strongPrimary:
		reason = "Primary letter matches expected with strong confidence."
	case dominant:
		reason = "Expected letter dominates detections."
	case matches == 0:
		reason = "No matching letter detected."
	case primary == expected:
		reason = fmt.Sprintf("Low confidence on primary (%.2f).", primaryConf)
	default:
		reason = "Expected letter not primary."
	}

	return Verification{
		ExpectedLetter:     expected,
		IsCorrect:          strongPrimary || dominant,
		Reason:             reason,
		DetectedCount:      total,
		MatchCount:         matches,
		TopMatchConfidence: stats.topConf[expected],
		MatchRatio:         round3(ratio),
		Sequence:           stats.sequence,
		SequenceMatch:      strings.Contains(stats.sequence, expected),
		Letters:            stats.letters,
		Mismatches:         stats.mismatches(expected),
	}
}

func judgeHard(expected string, stats letterStats) Verification {
	runes := []rune(expected)
	first, second := string(runes[0]), string(runes[1])
	total := len(stats.letters)
	c1, c2 := stats.count[first], stats.count[second]
	top1, top2 := stats.topConf[first], stats.topConf[second]
	matches := c1 + c2
	ratio := float64(matches) / float64(total)

	bothPresent := c1 >= 1 && c2 >= 1
	inOrder := strings.Contains(stats.sequence, first+second)
	confident := min(top1, top2) >= strongConfidence
	dominant := ratio >= dominanceRatio

	var reason string
	switch {
	case !bothPresent:
		reason = "Both letters must be present at least once."
	case !inOrder:
		reason = fmt.Sprintf("Letters not detected in the required order '%s%s'.", first, second)
	case confident:
		reason = "Both letters detected with strong confidence."
	case dominant:
		reason = "Expected pair dominates the detections."
	default:
		reason = "Low confidence and low ratio for the expected pair."
	}

	return Verification{
		ExpectedLetter:              expected,
		IsCorrect:                   bothPresent && inOrder && (confident || dominant),
		Reason:                      reason,
		DetectedCount:               total,
		MatchCount:                  matches,
		TopMatchConfidence:          min(top1, top2),
		TopMatchConfidencePerLetter: map[string]float64{first: top1, second: top2},
		MatchRatio:                  round3(ratio),
		Sequence:                    stats.sequence,
		SequenceMatch:               inOrder,
		Letters:                     stats.letters,
		Mismatches:                  stats.mismatches(first, second),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
