package mastery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"alphamastery/internal/logging"
	"alphamastery/internal/services"
	"alphamastery/internal/textutil"
)

// DefaultThreshold is the pass mark used when none is configured.
const DefaultThreshold = 0.9

// MaxTextRunes bounds each side of a mastery check.
const MaxTextRunes = 4096

var errNaNScore = errors.New("scorer returned NaN")

// Scorer rates how closely submitted matches expected, from 0 to 1.
type Scorer interface {
	Score(ctx context.Context, expected, submitted string) (float64, error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(ctx context.Context, expected, submitted string) (float64, error)

// Score implements Scorer.
func (f ScorerFunc) Score(ctx context.Context, expected, submitted string) (float64, error) {
	return f(ctx, expected, submitted)
}

// RatioScorer scores with textutil.Ratio.
type RatioScorer struct{}

// Score implements Scorer.
func (RatioScorer) Score(_ context.Context, expected, submitted string) (float64, error) {
	return textutil.Ratio(expected, submitted), nil
}

// Result is the outcome of a mastery check.
type Result struct {
	Score  float64 `json:"score"`
	Passed bool    `json:"passed"`
}

// Checker applies a pass threshold to a Scorer.
type Checker struct {
	scorer    Scorer
	threshold float64
	logger    *slog.Logger
}

// NewChecker builds a Checker. A nil scorer uses RatioScorer and a threshold
// outside (0, 1] falls back to DefaultThreshold.
func NewChecker(scorer Scorer, threshold float64, logger *slog.Logger) *Checker {
	if scorer == nil {
		scorer = RatioScorer{}
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Checker{
		scorer:    scorer,
		threshold: threshold,
		logger:    logging.NewComponentLogger(logger, "mastery"),
	}
}

// Threshold returns the configured pass mark.
func (c *Checker) Threshold() float64 {
	return c.threshold
}

// Check scores submitted against expected. Passed is Score >= Threshold.
func (c *Checker) Check(ctx context.Context, expected, submitted string) (Result, error) {
	if strings.TrimSpace(expected) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "mastery", "check", "expected text required", nil)
	}
	for _, field := range []struct{ name, text string }{{"expected", expected}, {"submitted", submitted}} {
		if n := utf8.RuneCountInString(field.text); n > MaxTextRunes {
			return Result{}, services.Wrap(services.ErrValidation, "mastery", "check",
				fmt.Sprintf("%s text has %d characters, limit is %d", field.name, n, MaxTextRunes), nil)
		}
	}
	score, err := c.scorer.Score(ctx, expected, submitted)
	if err == nil && math.IsNaN(score) {
		err = errNaNScore
	}
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "scorer failed", "scoring_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the scoring collaborator"),
			logging.String(logging.FieldImpact, "mastery check not scored"),
		)
		return Result{}, services.Wrap(services.ErrScoringUnavailable, "mastery", "check", "scorer failed", err)
	}
	score = min(max(score, 0), 1)
	result := Result{Score: score, Passed: score >= c.threshold}
	logging.WithContext(ctx, c.logger).Debug("mastery checked",
		logging.Float64("score", score),
		logging.Bool("passed", result.Passed),
	)
	return result, nil
}
