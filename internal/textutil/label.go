package textutil

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
)

// FormatLabel turns a stored image label such as "red_apple-2" into display
// text: underscores and hyphens become spaces, anything outside ASCII letters,
// digits and spaces is dropped, and the result is trimmed.
func FormatLabel(label string) string {
	label = strings.NewReplacer("_", " ", "-", " ").Replace(label)
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

const maxJumbleAttempts = 50

// JumbledVariants returns up to count distinct character shuffles of label.
// A shuffle that equals label ignoring case is rejected, and no more than 50
// shuffles are tried, so short or repetitive labels may yield fewer variants.
func JumbledVariants(label string, count int, rng *rand.Rand) []string {
	if count <= 0 || label == "" {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	fold := cases.Fold()
	folded := fold.String(label)
	chars := []rune(label)

	seen := make(map[string]struct{}, count)
	variants := make([]string, 0, count)
	for attempt := 0; attempt < maxJumbleAttempts && len(variants) < count; attempt++ {
		rng.Shuffle(len(chars), func(i, j int) { chars[i], chars[j] = chars[j], chars[i] })
		candidate := string(chars)
		if fold.String(candidate) == folded {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		variants = append(variants, candidate)
	}
	return variants
}

// ShuffledOptions returns label plus its jumbled variants in random order.
func ShuffledOptions(label string, variants []string, rng *rand.Rand) []string {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	options := make([]string, 0, len(variants)+1)
	options = append(options, label)
	options = append(options, variants...)
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}
