// Package index composes the multimap containers into the corpus index: an
// ordered word map, hashed person and organization maps, and the document
// registry. It also owns the flat-file persistence format.
//
// An InvertedIndex has two phases. During the build phase a single writer
// calls the Add* and SetWordCount methods. Once built (or loaded) the index is
// only read, and concurrent readers need no locking.
package index

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/multimap"
)

// Postings maps a document id to the occurrence count of one key.
type Postings = multimap.Postings[string]

// reservedKeyChars may not appear in a person or organization key since the
// persistence format uses them as separators.
const reservedKeyChars = ":\r\n"

// reservedDocChars may not appear in a document id.
const reservedDocChars = ",;$^#\r\n"

type InvertedIndex struct {
	words    *multimap.Ordered[string, string]
	people   *multimap.Hashed[string, string]
	orgs     *multimap.Hashed[string, string]
	registry *Registry
}

func New() *InvertedIndex {
	return &InvertedIndex{
		words:    multimap.NewOrdered[string, string](),
		people:   multimap.NewStringHashed[string](),
		orgs:     multimap.NewStringHashed[string](),
		registry: NewRegistry(),
	}
}

// ValidKey reports whether key can be stored and persisted. A key may not
// start with the section marker prefix.
func ValidKey(key string) bool {
	return !strings.HasPrefix(key, markerPrefix) && !strings.ContainsAny(key, reservedKeyChars)
}

// ValidDocumentID reports whether id can be registered and persisted.
func ValidDocumentID(id string) bool {
	return id != "" && !strings.HasPrefix(id, markerPrefix) && !strings.ContainsAny(id, reservedDocChars)
}

func (ix *InvertedIndex) AddWord(term, docID string) {
	ix.words.Insert(term, docID)
}

// AddWordN adds n occurrences of term in docID.
func (ix *InvertedIndex) AddWordN(term, docID string, n int) {
	ix.words.InsertN(term, docID, n)
}

func (ix *InvertedIndex) AddPerson(name, docID string) {
	ix.people.Insert(name, docID)
}

func (ix *InvertedIndex) AddPersonN(name, docID string, n int) {
	ix.people.InsertN(name, docID, n)
}

func (ix *InvertedIndex) AddOrganization(name, docID string) {
	ix.orgs.Insert(name, docID)
}

func (ix *InvertedIndex) AddOrganizationN(name, docID string, n int) {
	ix.orgs.InsertN(name, docID, n)
}

// AddDocument registers docID and reports whether it was not yet registered.
func (ix *InvertedIndex) AddDocument(docID string) bool {
	return ix.registry.Add(docID)
}

// SetWordCount overwrites the indexed-term count of docID.
func (ix *InvertedIndex) SetWordCount(docID string, n int) {
	ix.registry.SetWordCount(docID, n)
}

// LookupWords returns the postings of a normalized term. Unknown terms yield
// an empty table.
func (ix *InvertedIndex) LookupWords(term string) Postings {
	return ix.words.Lookup(term)
}

func (ix *InvertedIndex) LookupPeople(name string) Postings {
	return ix.people.Lookup(name)
}

func (ix *InvertedIndex) LookupOrganizations(name string) Postings {
	return ix.orgs.Lookup(name)
}

func (ix *InvertedIndex) DocumentCount() int {
	return ix.registry.Len()
}

func (ix *InvertedIndex) HasDocument(docID string) bool {
	return ix.registry.Contains(docID)
}

func (ix *InvertedIndex) WordCount(docID string) int {
	return ix.registry.WordCount(docID)
}

func (ix *InvertedIndex) DistinctWordCount() int {
	return ix.words.Len()
}

func (ix *InvertedIndex) DistinctPeopleCount() int {
	return ix.people.Len()
}

func (ix *InvertedIndex) DistinctOrganizationCount() int {
	return ix.orgs.Len()
}

// Documents returns the registered document ids in registration order.
func (ix *InvertedIndex) Documents() []string {
	return ix.registry.IDs()
}

// Reset empties every container.
func (ix *InvertedIndex) Reset() {
	ix.words.Clear()
	ix.people = multimap.NewStringHashed[string]()
	ix.orgs = multimap.NewStringHashed[string]()
	ix.registry = NewRegistry()
}
