package multimap

import (
	"github.com/cespare/xxhash/v2"

	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

// DefaultCapacity is the bucket count of a freshly built Hashed.
const DefaultCapacity = 100

type hashedEntry[K comparable, D comparable] struct {
	key      K
	postings Postings[D]
	next     int32
}

// Hashed is a separate-chaining hash table from key to postings. The bucket
// array doubles as soon as the key count reaches the bucket count, so
// Len() < Cap() holds after every insert. Iteration order is unspecified.
type Hashed[K comparable, D comparable] struct {
	hash    func(K) uint64
	buckets []int32
	entries []hashedEntry[K, D]
	free    []int32
	size    int
}

type hashedOptions struct {
	capacity int
}

// HashedOption configures NewHashed.
type HashedOption func(*hashedOptions)

// WithCapacity sets the initial bucket count. Values below 1 are ignored.
func WithCapacity(n int) HashedOption {
	return func(o *hashedOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// NewHashed builds an empty table that places keys with hash.
func NewHashed[K comparable, D comparable](hash func(K) uint64, opts ...HashedOption) *Hashed[K, D] {
	o := hashedOptions{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	return &Hashed[K, D]{
		hash:    hash,
		buckets: emptyBuckets(o.capacity),
	}
}

// NewStringHashed builds a table keyed by strings, hashed with xxHash.
func NewStringHashed[D comparable](opts ...HashedOption) *Hashed[string, D] {
	return NewHashed[string, D](xxhash.Sum64String, opts...)
}

func emptyBuckets(n int) []int32 {
	b := make([]int32, n)
	for i := range b {
		b[i] = nilNode
	}
	return b
}

func (m *Hashed[K, D]) Insert(key K, doc D) {
	m.InsertN(key, doc, 1)
}

// InsertN adds delta occurrences of key in doc. Non-positive deltas are
// ignored.
func (m *Hashed[K, D]) InsertN(key K, doc D, delta int) {
	if delta <= 0 {
		return
	}
	b := m.bucket(key)
	tail := nilNode
	for e := m.buckets[b]; e != nilNode; e = m.entries[e].next {
		if m.entries[e].key == key {
			m.entries[e].postings[doc] += delta
			return
		}
		tail = e
	}

	e := m.alloc(key)
	m.entries[e].postings[doc] = delta
	if tail == nilNode {
		m.buckets[b] = e
	} else {
		m.entries[tail].next = e
	}
	m.size++

	if m.size >= len(m.buckets) {
		m.rehash(2 * len(m.buckets))
	}
}

// Lookup returns a copy of the postings for key, or an empty table.
func (m *Hashed[K, D]) Lookup(key K) Postings[D] {
	if e := m.find(key); e != nilNode {
		return m.entries[e].postings.Clone()
	}
	return Postings[D]{}
}

func (m *Hashed[K, D]) Contains(key K) bool {
	return m.find(key) != nilNode
}

// Remove deletes key and its postings. It fails with an error matching
// errors.ErrNotFound when key is absent.
func (m *Hashed[K, D]) Remove(key K) error {
	b := m.bucket(key)
	prev := nilNode
	for e := m.buckets[b]; e != nilNode; e = m.entries[e].next {
		if m.entries[e].key != key {
			prev = e
			continue
		}
		if prev == nilNode {
			m.buckets[b] = m.entries[e].next
		} else {
			m.entries[prev].next = m.entries[e].next
		}
		m.release(e)
		m.size--
		return nil
	}
	return apperrors.NewKeyNotFound("hashed multimap", key)
}

func (m *Hashed[K, D]) Len() int {
	return m.size
}

// Cap is the current bucket count.
func (m *Hashed[K, D]) Cap() int {
	return len(m.buckets)
}

func (m *Hashed[K, D]) IsEmpty() bool {
	return m.size == 0
}

// Clear drops every key. The bucket count is kept.
func (m *Hashed[K, D]) Clear() {
	m.buckets = emptyBuckets(len(m.buckets))
	m.entries = nil
	m.free = nil
	m.size = 0
}

// Clone returns a deep copy with the same bucket count.
func (m *Hashed[K, D]) Clone() *Hashed[K, D] {
	c := &Hashed[K, D]{
		hash:    m.hash,
		buckets: append([]int32(nil), m.buckets...),
		entries: make([]hashedEntry[K, D], len(m.entries)),
		free:    append([]int32(nil), m.free...),
		size:    m.size,
	}
	for i, e := range m.entries {
		e.postings = e.postings.Clone()
		c.entries[i] = e
	}
	return c
}

// Range visits every key until fn returns false. The postings handed to fn
// are copies.
func (m *Hashed[K, D]) Range(fn func(key K, postings Postings[D]) bool) {
	for _, head := range m.buckets {
		for e := head; e != nilNode; e = m.entries[e].next {
			if !fn(m.entries[e].key, m.entries[e].postings.Clone()) {
				return
			}
		}
	}
}

func (m *Hashed[K, D]) bucket(key K) int {
	return int(m.hash(key) % uint64(len(m.buckets)))
}

func (m *Hashed[K, D]) find(key K) int32 {
	for e := m.buckets[m.bucket(key)]; e != nilNode; e = m.entries[e].next {
		if m.entries[e].key == key {
			return e
		}
	}
	return nilNode
}

// rehash moves every entry into a fresh arena chained off capacity buckets.
// Chains keep their relative order.
func (m *Hashed[K, D]) rehash(capacity int) {
	old := m.entries
	oldBuckets := m.buckets

	m.buckets = emptyBuckets(capacity)
	m.entries = make([]hashedEntry[K, D], 0, m.size)
	m.free = nil
	tails := emptyBuckets(capacity)

	for _, head := range oldBuckets {
		for e := head; e != nilNode; e = old[e].next {
			idx := int32(len(m.entries))
			m.entries = append(m.entries, hashedEntry[K, D]{
				key:      old[e].key,
				postings: old[e].postings,
				next:     nilNode,
			})
			b := m.bucket(old[e].key)
			if tails[b] == nilNode {
				m.buckets[b] = idx
			} else {
				m.entries[tails[b]].next = idx
			}
			tails[b] = idx
		}
	}
}

func (m *Hashed[K, D]) alloc(key K) int32 {
	e := hashedEntry[K, D]{
		key:      key,
		postings: make(Postings[D]),
		next:     nilNode,
	}
	if last := len(m.free) - 1; last >= 0 {
		idx := m.free[last]
		m.free = m.free[:last]
		m.entries[idx] = e
		return idx
	}
	m.entries = append(m.entries, e)
	return int32(len(m.entries) - 1)
}

func (m *Hashed[K, D]) release(e int32) {
	var zero hashedEntry[K, D]
	zero.next = nilNode
	m.entries[e] = zero
	m.free = append(m.free, e)
}
