package ranker

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/multimap"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/config"
)

// DefaultLimit caps a result list when no limit is given.
const DefaultLimit = 15

type ScoredDoc struct {
	DocID string  `json:"doc_id"`
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

type RankParams struct {
	TotalDocs int
	Order     string
	Limit     int
}

type DocInfo struct {
	WordCount int
}

// Rank scores every surviving document with TF-IDF and returns at most
// params.Limit of them. TF is the document's raw count over its indexed word
// count; IDF is log2 of the corpus size over the number of survivors. The
// natural order is ascending document id; config.OrderScore sorts by
// descending score instead, ties by document id.
func Rank(survivors index.Postings, params RankParams, getDocInfo func(docID string) DocInfo) []ScoredDoc {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(survivors) == 0 {
		return []ScoredDoc{}
	}

	idf := computeIDF(params.TotalDocs, len(survivors))
	result := make([]ScoredDoc, 0, len(survivors))
	for _, docID := range multimap.SortedDocs(survivors) {
		count := survivors[docID]
		tf := computeTF(count, getDocInfo(docID).WordCount)
		result = append(result, ScoredDoc{
			DocID: docID,
			Count: count,
			Score: tf * idf,
		})
	}

	if params.Order == config.OrderScore {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Score > result[j].Score
		})
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func computeIDF(totalDocs, survivors int) float64 {
	if totalDocs <= 0 || survivors <= 0 {
		return 0
	}
	return math.Log2(float64(totalDocs) / float64(survivors))
}

func computeTF(count, wordCount int) float64 {
	if wordCount <= 0 {
		return 0
	}
	return float64(count) / float64(wordCount)
}
