package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAndLookup(t *testing.T) {
	ix := New()
	ix.AddWord("german", "D1")
	ix.AddWord("german", "D1")
	ix.AddWord("german", "D2")
	ix.AddPerson("schweitzer", "D1")
	ix.AddOrganizationN("reuters", "D2", 3)

	assert.Equal(t, Postings{"D1": 2, "D2": 1}, ix.LookupWords("german"))
	assert.Equal(t, Postings{"D1": 1}, ix.LookupPeople("schweitzer"))
	assert.Equal(t, Postings{"D2": 3}, ix.LookupOrganizations("reuters"))
	assert.Empty(t, ix.LookupWords("french"))
	assert.Empty(t, ix.LookupPeople("German"))
	assert.Equal(t, 1, ix.DistinctWordCount())
	assert.Equal(t, 1, ix.DistinctPeopleCount())
	assert.Equal(t, 1, ix.DistinctOrganizationCount())
}

func TestAddDocumentIsUnique(t *testing.T) {
	ix := New()
	assert.True(t, ix.AddDocument("D1"))
	assert.True(t, ix.AddDocument("D2"))
	assert.False(t, ix.AddDocument("D1"))

	assert.Equal(t, 2, ix.DocumentCount())
	assert.Equal(t, []string{"D1", "D2"}, ix.Documents())
	assert.True(t, ix.HasDocument("D2"))
	assert.False(t, ix.HasDocument("D3"))
}

func TestSetWordCountLastWriteWins(t *testing.T) {
	ix := New()
	ix.SetWordCount("D1", 10)
	ix.SetWordCount("D1", 251)

	assert.Equal(t, 251, ix.WordCount("D1"))
	assert.Equal(t, 0, ix.WordCount("unknown"))
}

func TestDocumentsReturnsCopy(t *testing.T) {
	ix := New()
	ix.AddDocument("D1")
	docs := ix.Documents()
	docs[0] = "mutated"

	assert.Equal(t, []string{"D1"}, ix.Documents())
}

func TestReset(t *testing.T) {
	ix := New()
	ix.AddWord("a", "D1")
	ix.AddPerson("b", "D1")
	ix.AddDocument("D1")
	ix.SetWordCount("D1", 1)
	ix.Reset()

	assert.Equal(t, 0, ix.DistinctWordCount())
	assert.Equal(t, 0, ix.DistinctPeopleCount())
	assert.Equal(t, 0, ix.DocumentCount())
	assert.Equal(t, 0, ix.WordCount("D1"))
}

func TestValidKeyAndDocumentID(t *testing.T) {
	assert.True(t, ValidKey("Apple,"))
	assert.False(t, ValidKey("a:b"))
	assert.True(t, ValidDocumentID("data/2018_01/news_0001.json"))
	assert.False(t, ValidDocumentID(""))
	assert.False(t, ValidDocumentID("a;b"))
}
