// Package blockstore implements the content-addressed index of every
// seen block plus the orphan holding area — spec §4.6.
//
// Generalized from the teacher's core/blockchain.go, which kept this
// same block-by-hash mapping inside a boltdb bucket; here it is
// in-memory, with boltdb available separately (package persist) for
// implementations that want it durable.
package blockstore

import (
	"math/big"

	"ledgerd/block"
	"ledgerd/chainhash"
	"ledgerd/consensus"
)

// Node is a chain-index node: a block's header, height and cumulative
// work, plus a reference to its predecessor. Multiple forks' tips can
// share a common prefix of Nodes, so Previous is a handle (here, a
// pointer into the Store's own node table) rather than an owned value —
// spec §9 "Cyclic/shared chain nodes".
type Node struct {
	Height         uint32
	Header         block.Header
	CumulativeWork *big.Int
	Previous       *Node
}

// Hash returns the node's block hash.
func (n *Node) Hash() chainhash.Hash {
	return n.Header.Hash()
}

// InsertResult reports whether Insert connected the new block to a
// known predecessor or filed it as an orphan.
type InsertResult struct {
	Connected bool
	Node      *Node
}

// Store holds every seen block, an index of chain nodes for blocks whose
// predecessor is known, and an orphan holding area for blocks whose
// predecessor is not yet known.
type Store struct {
	blocks     map[chainhash.Hash]block.Block
	chainNodes map[chainhash.Hash]*Node
	orphans    map[chainhash.Hash]block.Block
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		blocks:     make(map[chainhash.Hash]block.Block),
		chainNodes: make(map[chainhash.Hash]*Node),
		orphans:    make(map[chainhash.Hash]block.Block),
	}
}

// Get returns the block with the given hash, from either the connected
// set or the orphan set.
func (s *Store) Get(hash chainhash.Hash) (block.Block, bool) {
	if b, ok := s.blocks[hash]; ok {
		return b, true
	}
	b, ok := s.orphans[hash]
	return b, ok
}

// Contains reports whether hash has been seen at all (connected or
// orphaned).
func (s *Store) Contains(hash chainhash.Hash) bool {
	_, ok := s.blocks[hash]
	if ok {
		return true
	}
	_, ok = s.orphans[hash]
	return ok
}

// NodeByHash returns the chain node for a connected block, if any.
func (s *Store) NodeByHash(hash chainhash.Hash) (*Node, bool) {
	n, ok := s.chainNodes[hash]
	return n, ok
}

// Insert files a new block. It returns Connected(node) if the block's
// predecessor is known (or the block is the genesis block, height 0
// with PreviousBlockHash == the zero hash); a height-0 block with any
// other previous hash is rejected with InvalidStructure; any other block
// is filed as an Orphaned block.
//
// Spec §9 leaves genesis connection ambiguous between height 0 and
// height 1; this implementation uses the explicit-sentinel design it
// recommends (DESIGN.md decision 3): height 0 with a zero previous hash
// always connects without a predecessor lookup.
func (s *Store) Insert(b block.Block) (InsertResult, error) {
	hash := b.Hash()
	if s.Contains(hash) {
		node, connected := s.chainNodes[hash]
		return InsertResult{Connected: connected, Node: node}, &alreadyPresentError{hash: hash}
	}

	if b.Height == 0 {
		if !b.Header.PreviousBlockHash.IsZero() {
			return InsertResult{}, consensus.New(consensus.InvalidStructure, "genesis block must reference the zero hash")
		}
		node := &Node{Height: 0, Header: b.Header, CumulativeWork: block.Work(b.Header.Difficulty)}
		s.blocks[hash] = b
		s.chainNodes[hash] = node
		s.resolveOrphans(hash)
		return InsertResult{Connected: true, Node: node}, nil
	}

	predecessor, ok := s.chainNodes[b.Header.PreviousBlockHash]
	if !ok {
		s.orphans[hash] = b
		return InsertResult{Connected: false}, nil
	}

	cumulative := new(big.Int).Add(predecessor.CumulativeWork, block.Work(b.Header.Difficulty))
	node := &Node{
		Height:         b.Height,
		Header:         b.Header,
		CumulativeWork: cumulative,
		Previous:       predecessor,
	}
	s.blocks[hash] = b
	s.chainNodes[hash] = node
	s.resolveOrphans(hash)

	return InsertResult{Connected: true, Node: node}, nil
}

// resolveOrphans scans orphans for any block whose previous hash is
// parentHash and reattempts insertion, breadth-first, bounded by the
// number of orphans on file.
func (s *Store) resolveOrphans(parentHash chainhash.Hash) {
	queue := []chainhash.Hash{parentHash}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		var resolved []chainhash.Hash
		for hash, orphan := range s.orphans {
			if orphan.Header.PreviousBlockHash != parent {
				continue
			}
			delete(s.orphans, hash)
			if _, err := s.Insert(orphan); err == nil {
				resolved = append(resolved, hash)
			}
		}
		queue = append(queue, resolved...)
	}
}

// alreadyPresentError marks a no-op re-insertion of an already-seen
// block so callers can distinguish "no-op" from a genuine failure
// without inspecting the Kind of a generic error.
type alreadyPresentError struct {
	hash chainhash.Hash
}

func (e *alreadyPresentError) Error() string {
	return "blockstore: block " + e.hash.String() + " already present"
}

// IsAlreadyPresent reports whether err indicates a block already seen by
// the store (the spec §4.6 "already in blocks, return early" case).
func IsAlreadyPresent(err error) bool {
	_, ok := err.(*alreadyPresentError)
	return ok
}
