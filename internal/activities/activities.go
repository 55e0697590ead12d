package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"alphamastery/internal/logging"
	"alphamastery/internal/rotation"
	"alphamastery/internal/services"
	"alphamastery/internal/textutil"
)

const (
	defaultMythBatch   = 10
	defaultOptionCount = 4
)

// Selector is the subset of rotation.Selector the activities need.
type Selector interface {
	SelectNext(ctx context.Context, key string) (rotation.Item, error)
	SelectBatch(ctx context.Context, key string, n int) ([]rotation.Item, error)
}

// Settings tunes activity output.
type Settings struct {
	MythBatchSize    int
	ImageOptionCount int
}

// Sentence is a sentence-rearranging exercise.
type Sentence struct {
	ID       int64  `json:"sentence_id"`
	Original string `json:"original_sentence"`
	Jumbled  string `json:"jumbled_sentence"`
	Level    string `json:"difficulty_level"`
}

// Reading is a timed reading passage.
type Reading struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Level     string `json:"level"`
	WordCount int    `json:"word_count"`
}

// Image is an image-labeling exercise. Options holds the correct label and
// its jumbled distractors in random order. Arpabet is the label's
// pronunciation as supplied by the seed file; it is never derived.
type Image struct {
	ID          int64    `json:"image_id"`
	Label       string   `json:"image_label"`
	ImageBase64 string   `json:"image_base64"`
	Arpabet     string   `json:"arpabet"`
	Options     []string `json:"options"`
}

// Myth pairs a dyslexia myth with the truth.
type Myth struct {
	ID    int64  `json:"id"`
	Myth  string `json:"myth"`
	Truth string `json:"truth"`
}

// Service serves activities.
type Service struct {
	selector Selector
	settings Settings
	logger   *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option customizes a Service.
type Option func(*Service)

// WithRand sets the random source used for jumbling image labels.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// New builds a Service. Zero settings fall back to a myth batch of 10 and
// four image distractors.
func New(selector Selector, settings Settings, logger *slog.Logger, opts ...Option) *Service {
	if settings.MythBatchSize <= 0 {
		settings.MythBatchSize = defaultMythBatch
	}
	if settings.ImageOptionCount <= 0 {
		settings.ImageOptionCount = defaultOptionCount
	}
	s := &Service{
		selector: selector,
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "activities"),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextSentence serves the next sentence for level.
func (s *Service) NextSentence(ctx context.Context, level string) (Sentence, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return Sentence{}, services.Wrap(services.ErrValidation, "activities", "sentence", "level is required", nil)
	}
	item, err := s.next(ctx, SentenceKey(level))
	if err != nil {
		return Sentence{}, err
	}
	var payload struct {
		Original string `json:"original_sentence"`
		Jumbled  string `json:"jumbled_sentence"`
	}
	if err := decodePayload(item, &payload); err != nil {
		return Sentence{}, err
	}
	return Sentence{ID: item.ID, Original: payload.Original, Jumbled: payload.Jumbled, Level: level}, nil
}

// NextReading serves the next passage for level, which must be Easy, Medium
// or Hard in any letter case.
func (s *Service) NextReading(ctx context.Context, level string) (Reading, error) {
	normalized, ok := NormalizeReadingLevel(level)
	if !ok {
		return Reading{}, services.Wrap(services.ErrValidation, "activities", "reading", "level must be Easy, Medium, or Hard", nil)
	}
	item, err := s.next(ctx, ReadingKey(normalized))
	if err != nil {
		return Reading{}, err
	}
	var payload struct {
		Text      string `json:"text"`
		WordCount int    `json:"word_count"`
	}
	if err := decodePayload(item, &payload); err != nil {
		return Reading{}, err
	}
	if payload.WordCount <= 0 {
		payload.WordCount = len(strings.Fields(payload.Text))
	}
	return Reading{ID: item.ID, Text: payload.Text, Level: normalized, WordCount: payload.WordCount}, nil
}

// NextImage serves the next image with its label options.
func (s *Service) NextImage(ctx context.Context) (Image, error) {
	item, err := s.next(ctx, ImageKey)
	if err != nil {
		return Image{}, err
	}
	var payload struct {
		Label       string `json:"label"`
		ImageBase64 string `json:"image_base64"`
		Arpabet     string `json:"arpabet"`
	}
	if err := decodePayload(item, &payload); err != nil {
		return Image{}, err
	}
	label := textutil.FormatLabel(payload.Label)

	s.mu.Lock()
	variants := textutil.JumbledVariants(label, s.settings.ImageOptionCount, s.rng)
	options := textutil.ShuffledOptions(label, variants, s.rng)
	s.mu.Unlock()

	return Image{
		ID:          item.ID,
		Label:       label,
		ImageBase64: payload.ImageBase64,
		Arpabet:     strings.TrimSpace(payload.Arpabet),
		Options:     options,
	}, nil
}

// NextMyths serves the next min(n, total) myths. n <= 0 uses the configured
// batch size.
func (s *Service) NextMyths(ctx context.Context, n int) ([]Myth, error) {
	if n <= 0 {
		n = s.settings.MythBatchSize
	}
	items, err := s.selector.SelectBatch(services.WithRotationKey(ctx, MythKey), MythKey, n)
	if err != nil {
		return nil, err
	}
	myths := make([]Myth, 0, len(items))
	for _, item := range items {
		var payload struct {
			Myth  string `json:"myth"`
			Truth string `json:"truth"`
		}
		if err := decodePayload(item, &payload); err != nil {
			return nil, err
		}
		myths = append(myths, Myth{ID: item.ID, Myth: payload.Myth, Truth: payload.Truth})
	}
	logging.WithContext(ctx, s.logger).Debug("myths served", logging.Int("count", len(myths)))
	return myths, nil
}

func (s *Service) next(ctx context.Context, key string) (rotation.Item, error) {
	return s.selector.SelectNext(services.WithRotationKey(ctx, key), key)
}

func decodePayload(item rotation.Item, target any) error {
	if err := json.Unmarshal([]byte(item.Payload), target); err != nil {
		return fmt.Errorf("activities: decode %s item %d: %w", item.Key, item.ID, err)
	}
	return nil
}
