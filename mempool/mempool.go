// Package mempool holds pending transactions awaiting block inclusion,
// each one valid against a projection of the current UTXO set through
// every mempool entry ahead of it — spec §4.3.
//
// The teacher has no real mempool (core/blockchain.go builds blocks
// directly from a caller-supplied transaction slice); this package is
// grounded on the spec's own description of the operation, generalizing
// the same validate-then-apply shape the teacher uses for UTXO updates
// in core/utxo.go's Update.
package mempool

import (
	"ledgerd/consensus"
	"ledgerd/txn"
	"ledgerd/utxo"
)

// DefaultMaxSize bounds a mempool created with New, mirroring the
// original's MemPool::new(size)/is_full admission cap — without a bound,
// a flood of pending transactions could grow the pool without limit
// before a block ever drains it.
const DefaultMaxSize = 10000

// Pool is an insertion-ordered list of pending transactions, bounded to
// maxSize entries. Order is preserved because later entries may spend
// outputs created by earlier ones.
type Pool struct {
	maxSize int
	entries []txn.Transaction
}

// New returns an empty mempool bounded at DefaultMaxSize.
func New() *Pool {
	return NewWithCapacity(DefaultMaxSize)
}

// NewWithCapacity returns an empty mempool bounded at maxSize entries.
func NewWithCapacity(maxSize int) *Pool {
	return &Pool{maxSize: maxSize}
}

// Len returns the number of pending transactions.
func (p *Pool) Len() int {
	return len(p.entries)
}

// IsFull reports whether the pool has reached its capacity.
func (p *Pool) IsFull() bool {
	return len(p.entries) >= p.maxSize
}

// Entries returns the pending transactions in insertion order. The
// returned slice is a copy; mutating it does not affect the pool.
func (p *Pool) Entries() []txn.Transaction {
	out := make([]txn.Transaction, len(p.entries))
	copy(out, p.entries)
	return out
}

// projected returns a clone of set with every current entry applied in
// order.
func (p *Pool) projected(set *utxo.Set) (*utxo.Set, error) {
	projected := set.Clone()
	for _, entry := range p.entries {
		if err := projected.Apply(entry); err != nil {
			return nil, err
		}
	}
	return projected, nil
}

// Add validates tx against a projection of set through every existing
// entry, then appends it on success. set itself is never mutated. On
// failure, tx is rejected and the pool is unchanged.
func (p *Pool) Add(set *utxo.Set, tx txn.Transaction) error {
	if p.IsFull() {
		return consensus.New(consensus.InvalidStructure, "mempool is full (max %d entries)", p.maxSize)
	}

	projected, err := p.projected(set)
	if err != nil {
		return err
	}
	if err := projected.ValidateTransaction(tx); err != nil {
		return err
	}
	p.entries = append(p.entries, tx)
	return nil
}

// Drain removes and returns every pending transaction, in order. Used by
// block construction.
func (p *Pool) Drain() []txn.Transaction {
	out := p.entries
	p.entries = nil
	return out
}

// Revalidate re-checks every entry, in insertion order, against a fresh
// projection of set, keeping only the subset that still validates. This
// is the mempool-after-reorg policy (spec §9 "Mempool after reorg",
// option (b)): entries that no longer apply (e.g. their input was
// confirmed or the referenced output was reorg'd away) are dropped
// rather than the whole pool being flushed.
func (p *Pool) Revalidate(set *utxo.Set) {
	projected := set.Clone()
	kept := p.entries[:0:0]
	for _, entry := range p.entries {
		if err := projected.ValidateTransaction(entry); err != nil {
			continue
		}
		if err := projected.Apply(entry); err != nil {
			continue
		}
		kept = append(kept, entry)
	}
	p.entries = kept
}
