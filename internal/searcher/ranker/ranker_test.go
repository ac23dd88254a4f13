package ranker

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/config"
)

func wordCounts(m map[string]int) func(string) DocInfo {
	return func(id string) DocInfo { return DocInfo{WordCount: m[id]} }
}

func TestRankNaturalOrder(t *testing.T) {
	survivors := index.Postings{"c": 1, "a": 4, "b": 2}
	got := Rank(survivors, RankParams{TotalDocs: 12}, wordCounts(map[string]int{"a": 8, "b": 2, "c": 10}))

	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	idf := math.Log2(12.0 / 3.0)
	assert.InDelta(t, 0.5*idf, got[0].Score, 1e-9)
	assert.InDelta(t, 1.0*idf, got[1].Score, 1e-9)
	assert.InDelta(t, 0.1*idf, got[2].Score, 1e-9)
	assert.Equal(t, 4, got[0].Count)
}

func TestRankScoreOrder(t *testing.T) {
	survivors := index.Postings{"c": 1, "a": 4, "b": 2, "d": 1}
	counts := map[string]int{"a": 8, "b": 2, "c": 10, "d": 10}
	got := Rank(survivors, RankParams{TotalDocs: 12, Order: config.OrderScore}, wordCounts(counts))

	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(got))
}

func TestRankBound(t *testing.T) {
	for _, n := range []int{0, 1, 14, 15, 16, 100} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			survivors := index.Postings{}
			for i := 0; i < n; i++ {
				survivors[fmt.Sprintf("doc-%03d", i)] = 1
			}
			got := Rank(survivors, RankParams{TotalDocs: 200}, wordCounts(nil))
			assert.Len(t, got, min(DefaultLimit, n))
		})
	}
}

func TestRankExplicitLimit(t *testing.T) {
	survivors := index.Postings{"a": 1, "b": 1, "c": 1}
	got := Rank(survivors, RankParams{TotalDocs: 3, Limit: 2}, wordCounts(nil))
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestRankZeroInputsScoreZero(t *testing.T) {
	// Every document survives: IDF is log2(1) = 0.
	got := Rank(index.Postings{"a": 3, "b": 1}, RankParams{TotalDocs: 2}, wordCounts(map[string]int{"a": 3, "b": 1}))
	for _, d := range got {
		assert.Zero(t, d.Score)
	}

	// Unknown word count gives TF 0, never NaN.
	got = Rank(index.Postings{"a": 3}, RankParams{TotalDocs: 4}, wordCounts(nil))
	require.Len(t, got, 1)
	assert.False(t, math.IsNaN(got[0].Score))
	assert.Zero(t, got[0].Score)
}

func TestRankEmpty(t *testing.T) {
	got := Rank(index.Postings{}, RankParams{TotalDocs: 10}, wordCounts(nil))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func ids(docs []ScoredDoc) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.DocID
	}
	return out
}
