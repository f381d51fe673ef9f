// Package lookup answers card queries against one generation's indexes.
//
// Every function here is a pure read over immutable index structures: no
// locking, no mutation, no network. Queries against a given generation are
// repeatable; the caller decides which generation to query and whether a
// miss falls through to the network.
//
// Disambiguation policy: when a name matches several printings of the same
// logical card (one oracle ID), the most recently released printing is the
// single best guess, with release-date ties broken by set code then by
// collector number. When a name maps to more than one distinct logical card,
// the match is genuinely ambiguous and reported as such.
package lookup

import (
	"sort"
	"strings"

	"github.com/manabase/scrydex/internal/index"
	"github.com/manabase/scrydex/internal/norm"
	"github.com/manabase/scrydex/pkg/cards"
	"github.com/manabase/scrydex/pkg/errors"
)

// ByName resolves a name to a single printing.
//
// Exact raw-name matches are preferred over normalized matches. Multiple
// printings of one logical card resolve to the best printing per the policy
// above; names shared by distinct logical cards return an AmbiguousError
// carrying the candidates in policy order.
func ByName(idx *index.Indexes, name string) (*cards.Card, error) {
	matches, err := AllByName(idx, name)
	if err != nil {
		return nil, err
	}

	if !sameLogicalCard(matches) {
		keys := make([]string, len(matches))
		for i, c := range matches {
			keys[i] = c.PrintingKey()
		}
		return nil, &errors.AmbiguousError{Name: name, Matches: keys}
	}

	return matches[0], nil
}

// AllByName returns every printing matching the name, best first. Exact
// raw-name matches are preferred over normalized matches.
func AllByName(idx *index.Indexes, name string) ([]*cards.Card, error) {
	cands := idx.Exact(name)
	if len(cands) == 0 {
		cands = idx.Normalized(name)
	}
	if len(cands) == 0 {
		return nil, errors.NewNotFoundError("card", name)
	}

	sorted := make([]*cards.Card, len(cands))
	copy(sorted, cands)
	SortByPolicy(sorted)
	return sorted, nil
}

// BySetAndNumber resolves a composite key to its single printing. The set
// code is case-insensitive; the collector number is matched as given.
func BySetAndNumber(idx *index.Indexes, setCode, collectorNumber string) (*cards.Card, error) {
	if c := idx.Composite(setCode, collectorNumber); c != nil {
		return c, nil
	}
	return nil, errors.NewNotFoundError("printing", setCode+"/"+collectorNumber)
}

// Fuzzy returns up to limit cards ranked against the query.
//
// Scoring, highest first: an exact normalized match, then substring
// containment (shorter names rank higher within the tier), then bounded edit
// distance (closer ranks higher). Ties break by name, then by set code.
// Each distinct card name appears at most once, represented by its best
// printing per the disambiguation policy.
func Fuzzy(idx *index.Indexes, query string, limit, distanceCutoff int) []*cards.Card {
	if limit <= 0 {
		return nil
	}

	q := norm.Name(query)
	if q == "" {
		return nil
	}

	type scored struct {
		name  string
		score int
	}
	var hits []scored

	for _, name := range idx.Names() {
		s, ok := score(q, name, distanceCutoff)
		if !ok {
			continue
		}
		hits = append(hits, scored{name: name, score: s})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].name < hits[j].name
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]*cards.Card, 0, len(hits))
	for _, h := range hits {
		results = append(results, best(idx.NormalizedKey(h.name)))
	}
	return results
}

// Score tiers keep the three match classes strictly ordered regardless of
// the per-tier adjustment.
const (
	tierExact     = 3 << 20
	tierSubstring = 2 << 20
	tierDistance  = 1 << 20
)

// score rates a candidate normalized name against a normalized query.
func score(q, name string, distanceCutoff int) (int, bool) {
	if name == q {
		return tierExact, true
	}
	if strings.Contains(name, q) || strings.Contains(q, name) {
		// Shorter candidates are closer to the query.
		return tierSubstring - len(name), true
	}
	if d, ok := distanceWithin(q, name, distanceCutoff); ok {
		return tierDistance - d, true
	}
	return 0, false
}

// SortByPolicy orders printings per the disambiguation policy: newest
// release first, ties by set code then collector number.
func SortByPolicy(cs []*cards.Card) {
	sort.SliceStable(cs, func(i, j int) bool {
		return policyLess(cs[i], cs[j])
	})
}

// best returns the policy-preferred printing from a non-empty candidate set.
func best(cands []*cards.Card) *cards.Card {
	top := cands[0]
	for _, c := range cands[1:] {
		if policyLess(c, top) {
			top = c
		}
	}
	return top
}

// policyLess reports whether a ranks before b under the policy.
func policyLess(a, b *cards.Card) bool {
	if !a.ReleasedAt.Equal(b.ReleasedAt) {
		return a.ReleasedAt.After(b.ReleasedAt)
	}
	if a.SetCode != b.SetCode {
		return a.SetCode < b.SetCode
	}
	return a.CollectorNumber < b.CollectorNumber
}

// sameLogicalCard reports whether every candidate shares one oracle ID.
// Candidates without an oracle ID never collapse together.
func sameLogicalCard(cs []*cards.Card) bool {
	if len(cs) <= 1 {
		return true
	}
	first := cs[0].OracleID
	if first == "" {
		return false
	}
	for _, c := range cs[1:] {
		if c.OracleID != first {
			return false
		}
	}
	return true
}

// distanceWithin computes the Levenshtein distance between a and b, giving
// up once the distance must exceed cutoff. Returns the distance and whether
// it is within the cutoff.
func distanceWithin(a, b string, cutoff int) (int, bool) {
	if a == b {
		return 0, true
	}
	la, lb := len(a), len(b)
	if la-lb > cutoff || lb-la > cutoff {
		return 0, false
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > cutoff {
			return 0, false
		}
		prev, curr = curr, prev
	}

	if prev[lb] > cutoff {
		return 0, false
	}
	return prev[lb], true
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
