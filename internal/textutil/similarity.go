package textutil

import (
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/unicode/norm"
)

// Ratio returns the SequenceMatcher ratio 2*M/T of a and b, compared rune by
// rune after NFC normalisation. Inputs of 200 runes or more get autojunk, so
// runes occurring in more than 1% of b are skipped as match anchors. Two empty
// strings score 1.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runeElems(a), runeElems(b)).Ratio()
}

func runeElems(s string) []string {
	s = norm.NFC.String(s)
	elems := make([]string, 0, len(s))
	for _, r := range s {
		elems = append(elems, string(r))
	}
	return elems
}
