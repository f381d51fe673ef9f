package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manabase/scrydex/pkg/cards"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testSnapshot() *cards.Snapshot {
	records := []cards.Card{
		{OracleID: "o-bolt", Name: "Lightning Bolt", SetCode: "lea", CollectorNumber: "161", ReleasedAt: date("1993-08-05")},
		{OracleID: "o-bolt", Name: "Lightning Bolt", SetCode: "m10", CollectorNumber: "146", ReleasedAt: date("2009-07-17")},
		{OracleID: "o-counter", Name: "Counterspell", SetCode: "lea", CollectorNumber: "55", ReleasedAt: date("1993-08-05")},
		{OracleID: "o-jotun", Name: "Jötun Grunt", SetCode: "csp", CollectorNumber: "9", ReleasedAt: date("2006-07-21")},
	}
	return cards.NewSnapshot(records, time.Now())
}

func TestBuild(t *testing.T) {
	snap := testSnapshot()
	idx, stats := Build(snap)

	assert.Equal(t, 4, stats.Records)
	assert.Equal(t, 3, stats.Names)
	assert.Equal(t, 0, stats.Collisions)

	t.Run("exact index groups printings by raw name", func(t *testing.T) {
		bolts := idx.Exact("Lightning Bolt")
		require.Len(t, bolts, 2)
		assert.Empty(t, idx.Exact("lightning bolt"), "exact index is case-sensitive")
	})

	t.Run("normalized index folds case and diacritics", func(t *testing.T) {
		require.Len(t, idx.Normalized("LIGHTNING BOLT"), 2)
		require.Len(t, idx.Normalized("jotun grunt"), 1)
		assert.Equal(t, "Jötun Grunt", idx.Normalized("jotun grunt")[0].Name)
	})

	t.Run("composite index is case-insensitive on set code", func(t *testing.T) {
		c := idx.Composite("LEA", "55")
		require.NotNil(t, c)
		assert.Equal(t, "Counterspell", c.Name)

		assert.Nil(t, idx.Composite("lea", "999"))
		assert.Nil(t, idx.Composite("zzz", "55"))
	})

	t.Run("names lists each distinct normalized name once", func(t *testing.T) {
		assert.Equal(t, []string{"lightning bolt", "counterspell", "jotun grunt"}, idx.Names())
	})
}

func TestBuildCollisions(t *testing.T) {
	records := []cards.Card{
		{OracleID: "o-a", Name: "First", SetCode: "set", CollectorNumber: "1", OracleText: "old"},
		{OracleID: "o-b", Name: "Second", SetCode: "SET", CollectorNumber: "1", OracleText: "new"},
	}
	snap := cards.NewSnapshot(records, time.Now())

	idx, stats := Build(snap)

	assert.Equal(t, 1, stats.Collisions)

	// Last record in snapshot order wins.
	c := idx.Composite("set", "1")
	require.NotNil(t, c)
	assert.Equal(t, "Second", c.Name)
}

func TestBuildSkipsPartialPrintings(t *testing.T) {
	records := []cards.Card{
		{OracleID: "o-memo", Name: "Memorial Token", SetCode: "", CollectorNumber: "7"},
		{OracleID: "o-promo", Name: "Promo Card", SetCode: "prm", CollectorNumber: ""},
	}
	snap := cards.NewSnapshot(records, time.Now())

	idx, stats := Build(snap)

	// Name lookups still work; only the composite index requires both keys.
	assert.Len(t, idx.Normalized("memorial token"), 1)
	assert.Nil(t, idx.Composite("", "7"))
	assert.Nil(t, idx.Composite("prm", ""))
	assert.Equal(t, 0, stats.Collisions)
}

func TestBuildDeterministic(t *testing.T) {
	snap := testSnapshot()

	idx1, stats1 := Build(snap)
	idx2, stats2 := Build(snap)

	assert.Equal(t, stats1, stats2)
	assert.Equal(t, idx1.Names(), idx2.Names())

	for _, name := range idx1.Names() {
		assert.Equal(t, idx1.NormalizedKey(name), idx2.NormalizedKey(name))
	}
}

func TestBuildEmptySnapshot(t *testing.T) {
	snap := cards.NewSnapshot(nil, time.Now())

	idx, stats := Build(snap)

	assert.Equal(t, Stats{}, stats)
	assert.Empty(t, idx.Names())
	assert.Nil(t, idx.Exact("anything"))
}
