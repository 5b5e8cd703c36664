// Package utxo implements the unspent-output set: a mapping from output
// reference to the transaction that created it, with validate/apply/
// revert semantics — spec §4.2.
//
// Generalized from the teacher's core/utxo.go, which kept this same
// mapping inside a boltdb bucket; here it is private in-process state
// (per spec §5's "Shared-resource policy"), with boltdb instead backing
// the optional persistence layer (package persist).
package utxo

import (
	"ledgerd/consensus"
	"ledgerd/txn"
)

// Set maps an output reference to the transaction that created it.
// Shared ownership of the Transaction gives O(1) access to the spent
// output's value and address during validation.
type Set struct {
	outputs map[txn.OutputReference]*txn.Transaction
}

// New returns an empty UTXO set.
func New() *Set {
	return &Set{outputs: make(map[txn.OutputReference]*txn.Transaction)}
}

// Len returns the number of unspent outputs tracked.
func (s *Set) Len() int {
	return len(s.outputs)
}

// Lookup returns the transaction that created ref's output, if ref is
// currently unspent.
func (s *Set) Lookup(ref txn.OutputReference) (*txn.Transaction, bool) {
	tx, ok := s.outputs[ref]
	return tx, ok
}

// Clone returns a deep-enough copy of s: a new map with the same
// Transaction pointers, safe for the mempool to validate prospective
// transactions against without mutating the real set.
func (s *Set) Clone() *Set {
	clone := New()
	for ref, tx := range s.outputs {
		clone.outputs[ref] = tx
	}
	return clone
}

// Equal reports whether s and other track exactly the same set of
// output references (values are redundant for equality, per spec §4.2).
func (s *Set) Equal(other *Set) bool {
	if len(s.outputs) != len(other.outputs) {
		return false
	}
	for ref := range s.outputs {
		if _, ok := other.outputs[ref]; !ok {
			return false
		}
	}
	return true
}

// ValidateTransaction succeeds iff:
//  1. The transaction's signature is valid. A coinbase input has no
//     meaningful SigningInfo and is exempt from this check: spec §4.5
//     only ever requires non-coinbase transactions to pass
//     verify_signature, and coinbase transactions are never submitted to
//     this set directly in normal operation (they are minted by block
//     construction and applied, not validated, at rebuild time).
//  2. If the input is a reference: the referenced output is present in
//     the set, its address matches the signer's address, and the sum of
//     the new outputs equals the referenced output's value exactly (no
//     fees).
//  3. If the input is coinbase: no UTXO precondition is checked here —
//     reward correctness is the block validator's job (spec §4.5).
func (s *Set) ValidateTransaction(tx txn.Transaction) error {
	if len(tx.Body.Outputs) == 0 {
		return consensus.New(consensus.InvalidStructure, "transaction has no outputs")
	}

	if tx.Body.Input.IsCoinbase() {
		return nil
	}

	if !tx.VerifySignature() {
		return consensus.New(consensus.InvalidSignature, "signature does not verify")
	}

	ref := tx.Body.Input.Reference
	spent, ok := s.outputs[ref]
	if !ok {
		return consensus.New(consensus.DoubleSpend, "output %x:%d not in utxo set", ref.Txid[:], ref.Index)
	}
	spentOutput := spent.Body.Outputs[ref.Index]

	signer := tx.SignerAddress()
	if signer != spentOutput.Address {
		return consensus.New(consensus.InputOutputMismatch, "signer address does not own referenced output")
	}

	var total uint64
	for _, out := range tx.Body.Outputs {
		total += out.Value
	}
	if total != spentOutput.Value {
		return consensus.New(consensus.InputOutputMismatch, "outputs sum %d != referenced value %d", total, spentOutput.Value)
	}

	return nil
}

// Apply mutates s in place for tx: if the input is a reference, the
// spent output is removed (failing if absent — a caller bug, since
// ValidateTransaction should have been checked first); then every output
// of tx is inserted as newly unspent. Apply either fully succeeds or
// leaves s unchanged.
func (s *Set) Apply(tx txn.Transaction) error {
	if !tx.Body.Input.IsCoinbase() {
		ref := tx.Body.Input.Reference
		if _, ok := s.outputs[ref]; !ok {
			return consensus.New(consensus.DoubleSpend, "apply: output %x:%d not in utxo set", ref.Txid[:], ref.Index)
		}
		delete(s.outputs, ref)
	}

	txid := tx.Txid()
	for i := range tx.Body.Outputs {
		ref := txn.OutputReference{Txid: txid, Index: uint32(i)}
		txCopy := tx
		s.outputs[ref] = &txCopy
	}
	return nil
}

// Revert is the inverse of Apply for a single transaction: it removes
// the outputs tx created and restores the output it spent (the caller
// supplies the transaction that produced the spent output, since s no
// longer has it once a reorg has unwound past it). The node does not
// call it: a failed reorg is undone by restoring the chain index and
// discarding the rebuilt set.
func (s *Set) Revert(tx txn.Transaction, restored *txn.Transaction) {
	txid := tx.Txid()
	for i := range tx.Body.Outputs {
		delete(s.outputs, txn.OutputReference{Txid: txid, Index: uint32(i)})
	}
	if !tx.Body.Input.IsCoinbase() && restored != nil {
		s.outputs[tx.Body.Input.Reference] = restored
	}
}
