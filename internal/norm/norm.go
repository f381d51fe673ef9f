// Package norm canonicalizes card names for index keys and fuzzy matching.
//
// Normalization folds case, strips diacritics, collapses internal whitespace
// runs, and trims trailing punctuation. The same function is applied to
// both indexed names and incoming queries so that "Lightning Bolt",
// "lightning  bolt" and "LIGHTNING BOLT" all resolve to the same key, and
// "Jötun Grunt" is findable as "jotun grunt".
package norm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, removes combining marks, and recomposes.
// This turns "é" into "e" and leaves plain ASCII untouched. Chained
// transformers carry buffers, so each caller gets its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Name returns the normalized form of a card name.
// It is safe for concurrent use.
func Name(s string) string {
	// cases.Caser carries internal state, so take a fresh one per call.
	folded := cases.Fold().String(s)

	stripped, _, err := transform.String(stripMarks(), folded)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the
		// case-folded input rather than dropping the record.
		stripped = folded
	}

	return collapse(stripped)
}

// collapse strips trailing punctuation and folds internal whitespace runs
// into single spaces. Internal punctuation is kept: "Urza's Tower" and
// "Ach! Hans, Run!" stay distinguishable.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}

	return strings.TrimRightFunc(b.String(), unicode.IsPunct)
}
