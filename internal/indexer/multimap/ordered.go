package multimap

import (
	"cmp"

	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

// allowedImbalance is the largest height difference tolerated between the two
// subtrees of any node.
const allowedImbalance = 1

type orderedNode[K cmp.Ordered, D comparable] struct {
	key      K
	postings Postings[D]
	left     int32
	right    int32
	height   int32
}

// Ordered is a height-balanced (AVL) binary search tree from key to postings.
// Nodes live in an arena and refer to their children by index; slots freed by
// Remove are reused by later inserts.
type Ordered[K cmp.Ordered, D comparable] struct {
	nodes []orderedNode[K, D]
	free  []int32
	root  int32
	size  int
}

func NewOrdered[K cmp.Ordered, D comparable]() *Ordered[K, D] {
	return &Ordered[K, D]{root: nilNode}
}

// Insert records one occurrence of key in doc.
func (m *Ordered[K, D]) Insert(key K, doc D) {
	m.InsertN(key, doc, 1)
}

// InsertN adds delta occurrences of key in doc. Non-positive deltas are
// ignored since a posting count is always positive.
func (m *Ordered[K, D]) InsertN(key K, doc D, delta int) {
	if delta <= 0 {
		return
	}
	m.root = m.insert(m.root, key, doc, delta)
}

// Lookup returns a copy of the postings for key, or an empty table.
func (m *Ordered[K, D]) Lookup(key K) Postings[D] {
	if t := m.find(key); t != nilNode {
		return m.nodes[t].postings.Clone()
	}
	return Postings[D]{}
}

func (m *Ordered[K, D]) Contains(key K) bool {
	return m.find(key) != nilNode
}

// Remove deletes key and its postings. It fails with an error matching
// errors.ErrNotFound when key is absent.
func (m *Ordered[K, D]) Remove(key K) error {
	root, ok := m.remove(m.root, key)
	if !ok {
		return apperrors.NewKeyNotFound("ordered multimap", key)
	}
	m.root = root
	m.size--
	return nil
}

func (m *Ordered[K, D]) Len() int {
	return m.size
}

func (m *Ordered[K, D]) IsEmpty() bool {
	return m.root == nilNode
}

// Height is the height of the whole tree: -1 when empty, 0 for a single node.
func (m *Ordered[K, D]) Height() int {
	return int(m.height(m.root))
}

// Balanced reports whether every node obeys key order, carries a correct
// height, and has subtrees whose heights differ by at most one.
func (m *Ordered[K, D]) Balanced() bool {
	_, ok := m.check(m.root, nil, nil)
	return ok
}

func (m *Ordered[K, D]) check(t int32, lo, hi *K) (int32, bool) {
	if t == nilNode {
		return -1, true
	}
	n := &m.nodes[t]
	if (lo != nil && n.key <= *lo) || (hi != nil && n.key >= *hi) {
		return 0, false
	}
	hl, ok := m.check(n.left, lo, &n.key)
	if !ok {
		return 0, false
	}
	hr, ok := m.check(n.right, &n.key, hi)
	if !ok {
		return 0, false
	}
	if hl-hr > allowedImbalance || hr-hl > allowedImbalance {
		return 0, false
	}
	h := max(hl, hr) + 1
	return h, h == n.height
}

// Clear releases every node.
func (m *Ordered[K, D]) Clear() {
	m.nodes = nil
	m.free = nil
	m.root = nilNode
	m.size = 0
}

// Clone returns a deep copy sharing no state with m.
func (m *Ordered[K, D]) Clone() *Ordered[K, D] {
	c := &Ordered[K, D]{
		nodes: make([]orderedNode[K, D], len(m.nodes)),
		free:  append([]int32(nil), m.free...),
		root:  m.root,
		size:  m.size,
	}
	for i, n := range m.nodes {
		n.postings = n.postings.Clone()
		c.nodes[i] = n
	}
	return c
}

// Ascend visits every key in ascending order until fn returns false. The
// postings handed to fn are copies.
func (m *Ordered[K, D]) Ascend(fn func(key K, postings Postings[D]) bool) {
	m.ascend(m.root, fn)
}

func (m *Ordered[K, D]) ascend(t int32, fn func(K, Postings[D]) bool) bool {
	if t == nilNode {
		return true
	}
	n := m.nodes[t]
	if !m.ascend(n.left, fn) {
		return false
	}
	if !fn(n.key, n.postings.Clone()) {
		return false
	}
	return m.ascend(n.right, fn)
}

func (m *Ordered[K, D]) find(key K) int32 {
	t := m.root
	for t != nilNode {
		switch c := cmp.Compare(key, m.nodes[t].key); {
		case c < 0:
			t = m.nodes[t].left
		case c > 0:
			t = m.nodes[t].right
		default:
			return t
		}
	}
	return nilNode
}

// insert returns the new root of the subtree rooted at t. The arena may grow
// during the recursive call, so child links are written only after it
// returns.
func (m *Ordered[K, D]) insert(t int32, key K, doc D, delta int) int32 {
	if t == nilNode {
		n := m.alloc(key)
		m.nodes[n].postings[doc] = delta
		m.size++
		return n
	}
	switch c := cmp.Compare(key, m.nodes[t].key); {
	case c < 0:
		left := m.insert(m.nodes[t].left, key, doc, delta)
		m.nodes[t].left = left
	case c > 0:
		right := m.insert(m.nodes[t].right, key, doc, delta)
		m.nodes[t].right = right
	default:
		m.nodes[t].postings[doc] += delta
		return t
	}
	return m.balance(t)
}

func (m *Ordered[K, D]) remove(t int32, key K) (int32, bool) {
	if t == nilNode {
		return nilNode, false
	}
	switch c := cmp.Compare(key, m.nodes[t].key); {
	case c < 0:
		left, ok := m.remove(m.nodes[t].left, key)
		if !ok {
			return t, false
		}
		m.nodes[t].left = left
	case c > 0:
		right, ok := m.remove(m.nodes[t].right, key)
		if !ok {
			return t, false
		}
		m.nodes[t].right = right
	default:
		n := m.nodes[t]
		replacement := nilNode
		switch {
		case n.right != nilNode:
			// The in-order successor is detached from the right subtree and
			// takes this node's place.
			right, successor := m.detachMin(n.right)
			m.nodes[successor].left = n.left
			m.nodes[successor].right = right
			replacement = successor
		case n.left != nilNode:
			replacement = n.left
		}
		m.release(t)
		return m.balance(replacement), true
	}
	return m.balance(t), true
}

// detachMin unlinks the leftmost node of the subtree at t and returns the
// rebalanced subtree together with the detached node.
func (m *Ordered[K, D]) detachMin(t int32) (root int32, min int32) {
	if m.nodes[t].left == nilNode {
		return m.nodes[t].right, t
	}
	left, min := m.detachMin(m.nodes[t].left)
	m.nodes[t].left = left
	return m.balance(t), min
}

func (m *Ordered[K, D]) height(t int32) int32 {
	if t == nilNode {
		return -1
	}
	return m.nodes[t].height
}

func (m *Ordered[K, D]) fixHeight(t int32) {
	m.nodes[t].height = max(m.height(m.nodes[t].left), m.height(m.nodes[t].right)) + 1
}

// balance restores the AVL property at t, assuming both subtrees are already
// balanced with correct heights, and returns the subtree's new root.
func (m *Ordered[K, D]) balance(t int32) int32 {
	if t == nilNode {
		return t
	}
	left, right := m.nodes[t].left, m.nodes[t].right
	switch {
	case m.height(left)-m.height(right) > allowedImbalance:
		if m.height(m.nodes[left].left) >= m.height(m.nodes[left].right) {
			t = m.rotateWithLeftChild(t)
		} else {
			t = m.doubleWithLeftChild(t)
		}
	case m.height(right)-m.height(left) > allowedImbalance:
		if m.height(m.nodes[right].right) >= m.height(m.nodes[right].left) {
			t = m.rotateWithRightChild(t)
		} else {
			t = m.doubleWithRightChild(t)
		}
	}
	m.fixHeight(t)
	return t
}

func (m *Ordered[K, D]) rotateWithLeftChild(k2 int32) int32 {
	k1 := m.nodes[k2].left
	m.nodes[k2].left = m.nodes[k1].right
	m.nodes[k1].right = k2
	m.fixHeight(k2)
	m.fixHeight(k1)
	return k1
}

func (m *Ordered[K, D]) rotateWithRightChild(k1 int32) int32 {
	k2 := m.nodes[k1].right
	m.nodes[k1].right = m.nodes[k2].left
	m.nodes[k2].left = k1
	m.fixHeight(k1)
	m.fixHeight(k2)
	return k2
}

func (m *Ordered[K, D]) doubleWithLeftChild(k3 int32) int32 {
	left := m.rotateWithRightChild(m.nodes[k3].left)
	m.nodes[k3].left = left
	return m.rotateWithLeftChild(k3)
}

func (m *Ordered[K, D]) doubleWithRightChild(k1 int32) int32 {
	right := m.rotateWithLeftChild(m.nodes[k1].right)
	m.nodes[k1].right = right
	return m.rotateWithRightChild(k1)
}

func (m *Ordered[K, D]) alloc(key K) int32 {
	n := orderedNode[K, D]{
		key:      key,
		postings: make(Postings[D]),
		left:     nilNode,
		right:    nilNode,
	}
	if last := len(m.free) - 1; last >= 0 {
		idx := m.free[last]
		m.free = m.free[:last]
		m.nodes[idx] = n
		return idx
	}
	m.nodes = append(m.nodes, n)
	return int32(len(m.nodes) - 1)
}

func (m *Ordered[K, D]) release(t int32) {
	m.nodes[t] = orderedNode[K, D]{left: nilNode, right: nilNode}
	m.free = append(m.free, t)
}
