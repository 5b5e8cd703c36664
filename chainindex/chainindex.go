// Package chainindex implements the best-chain path: an ordered map
// from height to the chain node currently canonical at that height,
// with the set_tip retargeting algorithm of spec §4.7.
//
// The teacher (core/blockchain.go) keeps only a single Tip hash and
// walks backward through boltdb on demand (its Iterator); it never
// tracks a fork's worth of nodes at once, so it has no reorg logic at
// all. This package generalizes the teacher's "walk backward via
// PrevBlockHash" idiom into an explicit height-indexed path that can be
// redirected (spec §4.7 "set_tip").
package chainindex

import (
	"math/big"

	"ledgerd/blockstore"
)

// Index is the best-chain path, keyed by height.
type Index struct {
	path map[uint32]*blockstore.Node
	top  uint32
	has  bool
}

// New returns an empty chain index.
func New() *Index {
	return &Index{path: make(map[uint32]*blockstore.Node)}
}

// Tip returns the highest-height node on the best chain, or nil if the
// index is empty.
func (idx *Index) Tip() *blockstore.Node {
	if !idx.has {
		return nil
	}
	return idx.path[idx.top]
}

// CumulativeWork returns the tip's cumulative work, or zero if empty.
func (idx *Index) CumulativeWork() *big.Int {
	tip := idx.Tip()
	if tip == nil {
		return big.NewInt(0)
	}
	return tip.CumulativeWork
}

// Get returns the node canonical at height, if any.
func (idx *Index) Get(height uint32) (*blockstore.Node, bool) {
	n, ok := idx.path[height]
	return n, ok
}

// Contains reports whether node is, by identity, the node the index
// holds at its own height (not merely a node with a matching height).
func (idx *Index) Contains(node *blockstore.Node) bool {
	if node == nil {
		return false
	}
	existing, ok := idx.path[node.Height]
	return ok && existing == node
}

// SetTip redirects the best chain to end at node, per spec §4.7:
//  1. drop every entry with height >= node.Height.
//  2. walk backward from node via Previous, inserting each ancestor at
//     its height, stopping as soon as an ancestor is already present at
//     that height in the map (the common ancestor with the old path).
//
// This rewrites only the diverged suffix; it implicitly locates the
// fork point without any separate "find common ancestor" pass.
func (idx *Index) SetTip(node *blockstore.Node) {
	for h := range idx.path {
		if h >= node.Height {
			delete(idx.path, h)
		}
	}

	for n := node; n != nil; n = n.Previous {
		if existing, ok := idx.path[n.Height]; ok && existing == n {
			break
		}
		idx.path[n.Height] = n
	}

	idx.top = node.Height
	idx.has = true
}

// State captures enough of Index to restore it verbatim, used by the
// node state machine to roll back a tentative SetTip when contextual
// (UTXO rebuild) validation fails after it — spec §4.8 step 4b/§7's
// "rolls back ... by holding a pre-transition snapshot during
// reorg-rebuild".
type State struct {
	path map[uint32]*blockstore.Node
	top  uint32
	has  bool
}

// Save captures the index's current state for a possible Restore.
func (idx *Index) Save() *State {
	return &State{path: idx.Snapshot(), top: idx.top, has: idx.has}
}

// Restore reverts the index to a previously Saved state.
func (idx *Index) Restore(s *State) {
	idx.path = s.path
	idx.top = s.top
	idx.has = s.has
}

// Snapshot returns a shallow copy of the height->node mapping, safe for
// an external reader to inspect without racing the index's own writer
// (spec §5 "Shared-resource policy").
func (idx *Index) Snapshot() map[uint32]*blockstore.Node {
	out := make(map[uint32]*blockstore.Node, len(idx.path))
	for h, n := range idx.path {
		out[h] = n
	}
	return out
}
