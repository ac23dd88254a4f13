package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/multimap"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/tracing"
)

// fourDocs indexes D1..D4 where only D1 mentions "common" and the person
// "schweitzer".
func fourDocs() *index.InvertedIndex {
	ix := index.New()
	for _, id := range []string{"D1", "D2", "D3", "D4"} {
		ix.AddDocument(id)
		ix.SetWordCount(id, 10)
	}
	ix.AddWordN("common", "D1", 2)
	ix.AddWord("market", "D1")
	ix.AddWordN("market", "D2", 3)
	ix.AddWord("market", "D3")
	ix.AddWord("trade", "D2")
	ix.AddWord("trade", "D3")
	ix.AddPerson("schweitzer", "D1")
	ix.AddPerson("merkel", "D2")
	ix.AddPerson("merkel", "D4")
	ix.AddOrganization("reuters", "D3")
	ix.AddOrganization("reuters", "D4")
	return ix
}

func run(t *testing.T, ix *index.InvertedIndex, query string) *SearchResult {
	t.Helper()
	plan := parser.Parse(query, tokenizer.New(nil))
	res, err := New(ix).Execute(context.Background(), plan, Options{})
	require.NoError(t, err)
	return res
}

func docIDs(res *SearchResult) []string {
	out := make([]string, len(res.Results))
	for i, d := range res.Results {
		out[i] = d.DocID
	}
	return out
}

func TestExecuteWordAndPerson(t *testing.T) {
	res := run(t, fourDocs(), "common PERSON:schweitzer")
	assert.Equal(t, []string{"D1"}, docIDs(res))
	assert.Equal(t, 1, res.TotalHits)
	assert.Equal(t, 2, res.Results[0].Count)
}

func TestExecuteBooleanChains(t *testing.T) {
	ix := fourDocs()
	tests := []struct {
		query string
		want  []string
	}{
		{"market", []string{"D1", "D2", "D3"}},
		{"market trade", []string{"D2", "D3"}},
		{"market -trade", []string{"D1"}},
		{"market -common -trade", []string{}},
		{"ORG:reuters", []string{"D3", "D4"}},
		{"ORG:reuters PERSON:merkel", []string{"D4"}},
		{"market unknownword", []string{}},
		{"unknownword market", []string{}},
		{"PERSON:nobody", []string{}},
		{"ORG:", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, docIDs(run(t, ix, tt.query)))
		})
	}
}

func TestExecuteNegatedFirstTermMatchesNothing(t *testing.T) {
	ix := fourDocs()
	for _, q := range []string{"-trade market", "-trade", "-unknownword market"} {
		res := run(t, ix, q)
		assert.Empty(t, res.Results, q)
		assert.Zero(t, res.TotalHits, q)
	}
}

func TestExecuteKeepsRunningCounts(t *testing.T) {
	res := run(t, fourDocs(), "market trade")
	require.Len(t, res.Results, 2)
	assert.Equal(t, 3, res.Results[0].Count)
	assert.Equal(t, 1, res.Results[1].Count)
}

func TestExecuteEmptyQuery(t *testing.T) {
	res := run(t, fourDocs(), "   ")
	assert.Empty(t, res.Results)
	assert.Zero(t, res.TotalHits)
}

func TestExecuteScoreOrder(t *testing.T) {
	plan := parser.Parse("market", tokenizer.New(nil))
	res, err := New(fourDocs()).Execute(context.Background(), plan, Options{Order: config.OrderScore})
	require.NoError(t, err)
	assert.Equal(t, []string{"D2", "D1", "D3"}, docIDs(res))
	assert.Greater(t, res.Results[0].Score, res.Results[1].Score)
}

func TestExecuteRecordsSpans(t *testing.T) {
	ctx, root := tracing.StartSpan(context.Background(), "query", "")
	plan := parser.Parse("market trade", tokenizer.New(nil))
	_, err := New(fourDocs()).Execute(ctx, plan, Options{})
	require.NoError(t, err)

	eval := root.Child("evaluate")
	require.NotNil(t, eval)
	assert.Equal(t, 2, eval.Attrs["survivors"])
	assert.NotNil(t, root.Child("rank"))
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	plan := parser.Parse("market", tokenizer.New(nil))
	_, err := New(fourDocs()).Execute(ctx, plan, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIntersectionIsCommutativeAndAssociative(t *testing.T) {
	ix := fourDocs()
	ex := New(ix)
	n := tokenizer.New(nil)
	sets := func(q string) []string {
		return multimap.SortedDocs(ex.Evaluate(parser.Parse(q, n)))
	}
	assert.Equal(t, sets("market trade"), sets("trade market"))
	assert.Equal(t, sets("market trade ORG:reuters"), sets("ORG:reuters trade market"))
	assert.Equal(t, sets("market ORG:reuters trade"), sets("trade market ORG:reuters"))

	without := ex.Evaluate(parser.Parse("market -trade", n))
	for doc := range ix.LookupWords("trade") {
		assert.False(t, without.Has(doc))
	}
}
