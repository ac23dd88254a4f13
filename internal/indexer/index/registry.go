package index

import (
	"maps"
	"slices"
)

// Registry is the list of indexed documents in registration order, together
// with the number of indexed terms each one contributed.
type Registry struct {
	ids        []string
	seen       map[string]struct{}
	wordCounts map[string]int
}

func NewRegistry() *Registry {
	return &Registry{
		seen:       make(map[string]struct{}),
		wordCounts: make(map[string]int),
	}
}

// Add appends id and reports whether it was new. A repeated id is ignored.
func (r *Registry) Add(id string) bool {
	if _, ok := r.seen[id]; ok {
		return false
	}
	r.seen[id] = struct{}{}
	r.ids = append(r.ids, id)
	return true
}

func (r *Registry) Contains(id string) bool {
	_, ok := r.seen[id]
	return ok
}

func (r *Registry) Len() int {
	return len(r.ids)
}

// IDs returns a copy of the registered ids in registration order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.ids)
}

// SetWordCount overwrites the term count stored for id.
func (r *Registry) SetWordCount(id string, n int) {
	r.wordCounts[id] = n
}

// WordCount is zero for documents without a stored count.
func (r *Registry) WordCount(id string) int {
	return r.wordCounts[id]
}

// wordCountIDs lists every id with a stored count, ascending.
func (r *Registry) wordCountIDs() []string {
	return slices.Sorted(maps.Keys(r.wordCounts))
}
