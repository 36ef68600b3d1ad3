package repository

import (
	"hash/fnv"
	"math"
	"strconv"
)

// Treap ordered by net worth DESC, then key ASC. "less" means ranks earlier,
// so in-order traversal yields the rich list from richest down.

// worthScale stores net worth (USD billions) with 1e-9 precision so equal
// amounts compare equal.
const worthScale = 1_000_000_000

type worthFP int64

func toFixedPoint(x float64) worthFP {
	switch {
	case math.IsNaN(x):
		return 0
	case x*worthScale >= math.MaxInt64:
		return math.MaxInt64
	case x*worthScale <= math.MinInt64:
		return math.MinInt64
	}
	return worthFP(math.Round(x * worthScale))
}

func toFloat(x worthFP) float64 { return float64(x) / worthScale }

type node struct {
	key   string
	worth worthFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func less(aWorth worthFP, aKey string, bWorth worthFP, bKey string) bool {
	if aWorth != bWorth {
		return aWorth > bWorth
	}
	return aKey < bKey
}

// priority hashes the key so tree shape depends only on the data.
func priority(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, key string, worth worthFP) *node {
	if n == nil {
		return &node{key: key, worth: worth, prio: priority(key), size: 1}
	}
	if less(worth, key, n.worth, n.key) {
		n.left = insert(n.left, key, worth)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, key, worth)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, key string, worth worthFP) *node {
	if n == nil {
		return nil
	}
	switch {
	case worth == n.worth && key == n.key:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, key, worth)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, key, worth)
		}
	case less(worth, key, n.worth, n.key):
		n.left = deleteNode(n.left, key, worth)
	default:
		n.right = deleteNode(n.right, key, worth)
	}
	fix(n)
	return n
}

// walk visits nodes in rank order until visit returns false.
func walk(n *node, visit func(*node) bool) bool {
	if n == nil {
		return true
	}
	if !walk(n.left, visit) {
		return false
	}
	if !visit(n) {
		return false
	}
	return walk(n.right, visit)
}

// tree is one ranked population, e.g. a single year.
type tree struct {
	root  *node
	byKey map[string]record
	// levels holds one node per distinct worth; counts tracks how many
	// keys share it. Subtree sizes over levels give dense ranks.
	levels *node
	counts map[worthFP]int
}

func newTree() *tree {
	return &tree{byKey: make(map[string]record), counts: make(map[worthFP]int)}
}

func levelKey(w worthFP) string { return strconv.FormatInt(int64(w), 10) }

func (t *tree) put(key string, m record) {
	if old, ok := t.byKey[key]; ok {
		t.root = deleteNode(t.root, key, old.worth)
		t.release(old.worth)
	}
	t.byKey[key] = m
	t.root = insert(t.root, key, m.worth)
	t.claim(m.worth)
}

func (t *tree) claim(w worthFP) {
	t.counts[w]++
	if t.counts[w] == 1 {
		t.levels = insert(t.levels, levelKey(w), w)
	}
}

func (t *tree) release(w worthFP) {
	t.counts[w]--
	if t.counts[w] == 0 {
		delete(t.counts, w)
		t.levels = deleteNode(t.levels, levelKey(w), w)
	}
}

// above counts the distinct worths greater than w.
func above(n *node, w worthFP) int {
	switch {
	case n == nil:
		return 0
	case n.worth > w:
		return nsize(n.left) + 1 + above(n.right, w)
	case n.worth < w:
		return above(n.left, w)
	default:
		return nsize(n.left)
	}
}

// rankOf returns the dense rank of key: ties share a rank and the next
// distinct amount takes the following rank.
func (t *tree) rankOf(key string) int {
	target, ok := t.byKey[key]
	if !ok {
		return 0
	}
	return above(t.levels, target.worth) + 1
}

// top returns up to limit entries in rank order with dense ranks. The walk
// stops after limit nodes.
func (t *tree) top(limit int) []Entry {
	out := make([]Entry, 0, min(limit, len(t.byKey)))
	rank := 0
	var last worthFP
	walk(t.root, func(n *node) bool {
		if len(out) >= limit {
			return false
		}
		if rank == 0 || n.worth != last {
			rank++
			last = n.worth
		}
		e := t.byKey[n.key].entry()
		e.Rank = rank
		out = append(out, e)
		return true
	})
	return out
}
