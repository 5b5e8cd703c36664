package block

import (
	"crypto/sha256"

	"ledgerd/chainhash"
	"ledgerd/consensus"
	"ledgerd/txn"
)

// MaxTransactions bounds the number of transactions (coinbase included)
// a single block may carry, closing spec §9's open question on a max
// block size: without a bound, an attacker could submit an arbitrarily
// large block and exhaust memory during Merkle-root computation and
// UTXO rebuild.
const MaxTransactions = 5000

// Block is spec §3's Block: a height, a header, and a transaction list
// whose first entry is always the coinbase.
type Block struct {
	Height       uint32
	Header       Header
	Transactions []txn.Transaction
}

// Hash returns the block's identity, double_sha256(canonical(header)).
func (b Block) Hash() chainhash.Hash {
	return b.Header.Hash()
}

// Txids returns the transaction ids of b's transactions, in block order.
func (b Block) Txids() []chainhash.Hash {
	ids := make([]chainhash.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		ids[i] = tx.Txid()
	}
	return ids
}

// MerkleRoot computes the Merkle root over b's transaction ids, in
// block order, pairing nodes bottom-up and duplicating the last leaf at
// each odd-width level — the same construction as the teacher's
// core/merkle_tree.go, generalized to operate on chainhash.Hash leaves
// instead of raw transaction bytes.
func MerkleRoot(txids []chainhash.Hash) chainhash.Hash {
	if len(txids) == 0 {
		return chainhash.Zero
	}
	level := make([][32]byte, len(txids))
	for i, id := range txids {
		level[i] = id
	}

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([][32]byte, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			combined := append(append([]byte{}, level[i][:]...), level[i+1][:]...)
			next = append(next, sha256.Sum256(combined))
		}
		level = next
	}
	return level[0]
}

// GenesisRewardDefault and HalvingIntervalDefault are the defaults used
// when no configuration overrides them (spec §6's GENESIS_REWARD /
// HALVING_INTERVAL, matching the scenario walked through in spec §8.6).
const (
	GenesisRewardDefault   = 50
	HalvingIntervalDefault = 10
)

// Reward computes the deterministic block reward schedule of spec §4.5:
// reward(h) = GENESIS_REWARD >> (h / HALVING_INTERVAL), using integer
// arithmetic throughout.
func Reward(height uint32, genesisReward, halvingInterval uint64) uint64 {
	if halvingInterval == 0 {
		return genesisReward
	}
	shift := uint64(height) / halvingInterval
	if shift >= 64 {
		return 0
	}
	return genesisReward >> shift
}

// ValidateIsolated checks the properties of a block that don't depend
// on any external state (spec §4.5, points 1-4):
//  1. header hash <= difficulty target.
//  2. transactions[0] is coinbase with block_height == b.Height and
//     outputs[0].value == block_reward(height).
//  3. every non-coinbase transaction passes VerifySignature.
//  4. the Merkle root over txids equals header.MerkleRoot.
func ValidateIsolated(b Block, genesisReward, halvingInterval uint64) error {
	if err := ValidateDifficulty(b.Header.Difficulty); err != nil {
		return err
	}
	if len(b.Transactions) == 0 {
		return consensus.New(consensus.InvalidStructure, "block has no transactions")
	}
	if len(b.Transactions) > MaxTransactions {
		return consensus.New(consensus.InvalidStructure, "block has %d transactions, max %d", len(b.Transactions), MaxTransactions)
	}

	if !SatisfiesTarget(b.Hash(), b.Header.Difficulty) {
		return consensus.New(consensus.InvalidProofOfWork, "block hash exceeds target for difficulty %d", b.Header.Difficulty)
	}

	coinbase := b.Transactions[0]
	if !coinbase.Body.Input.IsCoinbase() {
		return consensus.New(consensus.InvalidStructure, "transactions[0] is not a coinbase")
	}
	if coinbase.Body.Input.BlockHeight != b.Height {
		return consensus.New(consensus.InvalidStructure, "coinbase height %d != block height %d", coinbase.Body.Input.BlockHeight, b.Height)
	}
	if len(coinbase.Body.Outputs) == 0 {
		return consensus.New(consensus.InvalidStructure, "coinbase has no outputs")
	}
	wantReward := Reward(b.Height, genesisReward, halvingInterval)
	if coinbase.Body.Outputs[0].Value != wantReward {
		return consensus.New(consensus.InvalidStructure, "coinbase reward %d != expected %d", coinbase.Body.Outputs[0].Value, wantReward)
	}

	for i, tx := range b.Transactions[1:] {
		if tx.Body.Input.IsCoinbase() {
			return consensus.New(consensus.InvalidStructure, "transaction %d is an unexpected second coinbase", i+1)
		}
		if !tx.VerifySignature() {
			return consensus.New(consensus.InvalidSignature, "transaction %d has an invalid signature", i+1)
		}
	}

	gotRoot := MerkleRoot(b.Txids())
	if gotRoot != b.Header.MerkleRoot {
		return consensus.New(consensus.InvalidStructure, "merkle root mismatch")
	}

	return nil
}
