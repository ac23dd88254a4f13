// Package multimap provides the two key→postings containers the inverted
// index is built from: Ordered, an AVL tree used where deterministic key order
// matters, and Hashed, a chained hash table used where only lookup speed does.
//
// Both map a key to a Postings table (document → occurrence count). Inserting
// the same (key, document) pair again adds to the existing count. Neither
// container locks; callers own exclusive access during mutation.
package multimap

import (
	"cmp"
	"maps"
	"slices"
)

// nilNode marks an absent child or chain link in the node arenas.
const nilNode int32 = -1

// Postings is the frequency table attached to one key.
type Postings[D comparable] map[D]int

// Clone returns an independent copy. A nil receiver yields an empty table.
func (p Postings[D]) Clone() Postings[D] {
	out := make(Postings[D], len(p))
	maps.Copy(out, p)
	return out
}

// Has reports whether doc appears in the table.
func (p Postings[D]) Has(doc D) bool {
	_, ok := p[doc]
	return ok
}

// Intersect keeps the documents present in both tables, with the receiver's
// counts.
func (p Postings[D]) Intersect(other Postings[D]) Postings[D] {
	out := make(Postings[D])
	for doc, n := range p {
		if other.Has(doc) {
			out[doc] = n
		}
	}
	return out
}

// Without keeps the documents of the receiver that are absent from other.
func (p Postings[D]) Without(other Postings[D]) Postings[D] {
	out := make(Postings[D])
	for doc, n := range p {
		if !other.Has(doc) {
			out[doc] = n
		}
	}
	return out
}

// SortedDocs lists the documents of p in ascending order.
func SortedDocs[D cmp.Ordered](p Postings[D]) []D {
	return slices.Sorted(maps.Keys(p))
}
