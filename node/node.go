// Package node implements the node state machine that orchestrates
// ingestion of blocks and transactions and triggers reorg/UTXO rebuild
// — spec §4.8. It holds the block store, chain index, UTXO set and
// mempool, and is the single point through which every state transition
// in this core flows (spec §5: no suspension points inside a
// transition, single-threaded, effects strictly in arrival order).
//
// Grounded on the teacher's core/blockchain.go MineBlock/VerifyTx flow
// and cli.go's command dispatch, generalized from "one linear chain with
// no fork tracking" to the full reorg-aware state machine the spec
// requires.
package node

import (
	"context"
	"fmt"
	"sort"

	"ledgerd/address"
	"ledgerd/block"
	"ledgerd/blockstore"
	"ledgerd/chainhash"
	"ledgerd/chainindex"
	"ledgerd/config"
	"ledgerd/consensus"
	"ledgerd/mempool"
	"ledgerd/txn"
	"ledgerd/utxo"
)

// Node is the single-threaded consensus state machine of spec §4.8.
type Node struct {
	cfg config.Config

	store *blockstore.Store
	chain *chainindex.Index
	utxo  *utxo.Set
	pool  *mempool.Pool
}

// New constructs an empty Node (no genesis block yet — callers build
// and ingest one via NewGenesis+IngestBlock, or load persisted state).
func New(cfg config.Config) *Node {
	return &Node{
		cfg:   cfg,
		store: blockstore.New(),
		chain: chainindex.New(),
		utxo:  utxo.New(),
		pool:  mempool.New(),
	}
}

// Tip returns the current best-chain tip, or nil if no block has been
// ingested yet.
func (n *Node) Tip() *blockstore.Node {
	return n.chain.Tip()
}

// UTXOSet returns the node's current UTXO set. Callers that need a
// stable snapshot should Clone() it, since the node continues to mutate
// its own copy as new blocks arrive.
func (n *Node) UTXOSet() *utxo.Set {
	return n.utxo
}

// Mempool returns the node's pending-transaction pool.
func (n *Node) Mempool() *mempool.Pool {
	return n.pool
}

// BlockStore returns the node's block store (connected blocks and
// orphans).
func (n *Node) BlockStore() *blockstore.Store {
	return n.store
}

// ChainIndex returns the node's best-chain index.
func (n *Node) ChainIndex() *chainindex.Index {
	return n.chain
}

// NewGenesis builds (and mines) a valid height-0 block paying the
// genesis reward to addr, at the given difficulty. It does not ingest
// the block; call IngestBlock with the result.
func (n *Node) NewGenesis(ctx context.Context, addr address.Address, difficulty uint8) (block.Block, error) {
	coinbase := txn.NewCoinbase(addr, block.Reward(0, n.cfg.GenesisReward, n.cfg.HalvingInterval), 0)
	txs := []txn.Transaction{coinbase}

	header := block.Header{
		MerkleRoot: block.MerkleRoot(idsOf(txs)),
		Difficulty: difficulty,
	}
	mined, err := block.Mine(ctx, header)
	if err != nil {
		return block.Block{}, err
	}

	return block.Block{Height: 0, Header: mined, Transactions: txs}, nil
}

func idsOf(txs []txn.Transaction) []chainhash.Hash {
	ids := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		ids[i] = tx.Txid()
	}
	return ids
}


// IngestBlock applies spec §4.8's ingest_block algorithm:
//  1. no-op if already seen.
//  2. isolated validation; reject on failure.
//  3. insert into the block store; stop if orphaned.
//  4. if the new node's cumulative work beats the incumbent tip's
//     (strict, per DESIGN.md's tie-break decision), retarget the chain
//     index and rebuild the UTXO set from scratch; on contextual
//     failure, roll back the chain index and reject.
func (n *Node) IngestBlock(b block.Block) error {
	hash := b.Hash()
	if n.store.Contains(hash) {
		return nil
	}

	if err := block.ValidateIsolated(b, n.cfg.GenesisReward, n.cfg.HalvingInterval); err != nil {
		return err
	}

	result, err := n.store.Insert(b)
	if err != nil && !blockstore.IsAlreadyPresent(err) {
		return err
	}
	if !result.Connected {
		return nil
	}

	incumbentWork := n.chain.CumulativeWork()
	if result.Node.CumulativeWork.Cmp(incumbentWork) <= 0 {
		// Per DESIGN.md decision 2: incumbent tip wins ties.
		return nil
	}

	saved := n.chain.Save()
	n.chain.SetTip(result.Node)

	rebuilt, err := n.rebuildUTXO()
	if err != nil {
		n.chain.Restore(saved)
		return err
	}

	n.utxo = rebuilt
	n.pool.Revalidate(n.utxo)
	return nil
}

// rebuildUTXO replays every block on the (already retargeted) best
// chain, from genesis to tip, into a fresh UTXO set — spec §4.8 step 4b.
func (n *Node) rebuildUTXO() (*utxo.Set, error) {
	snapshot := n.chain.Snapshot()
	heights := make([]uint32, 0, len(snapshot))
	for h := range snapshot {
		heights = append(heights, h)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] < heights[j] })

	fresh := utxo.New()
	for _, h := range heights {
		cn := snapshot[h]
		b, ok := n.store.Get(cn.Hash())
		if !ok {
			return nil, consensus.New(consensus.UnknownParent, "chain node at height %d missing from block store", h)
		}
		for i, tx := range b.Transactions {
			if err := fresh.Apply(tx); err != nil {
				return nil, fmt.Errorf("rebuild utxo at height %d tx %d: %w", h, i, err)
			}
		}
	}
	return fresh, nil
}

// IngestTransaction validates tx against the current UTXO set and
// mempool projection, admitting it on success — spec §4.8
// ingest_transaction.
func (n *Node) IngestTransaction(tx txn.Transaction) error {
	return n.pool.Add(n.utxo, tx)
}

// BuildBlock drains the mempool, prepends a coinbase transaction paying
// kp's address the current height's reward, computes the Merkle root,
// builds a header extending the current tip (inheriting its
// difficulty), and mines it — spec §4.8 build_block. It does not ingest
// the result; callers pass it to IngestBlock.
func (n *Node) BuildBlock(ctx context.Context, kp txn.KeyPair, timestamp uint32) (block.Block, error) {
	tip := n.chain.Tip()

	var (
		prevHash   = chainhash.Zero
		height     uint32
		difficulty uint8
	)
	if tip != nil {
		prevHash = tip.Hash()
		height = tip.Height + 1
		difficulty = tip.Header.Difficulty
	}

	pending := n.pool.Drain()
	reward := block.Reward(height, n.cfg.GenesisReward, n.cfg.HalvingInterval)
	coinbase := txn.NewCoinbase(kp.Address(), reward, height)

	txs := make([]txn.Transaction, 0, len(pending)+1)
	txs = append(txs, coinbase)
	txs = append(txs, pending...)

	header := block.Header{
		PreviousBlockHash: prevHash,
		MerkleRoot:        block.MerkleRoot(idsOf(txs)),
		Timestamp:         timestamp,
		Difficulty:        difficulty,
	}
	mined, err := block.Mine(ctx, header)
	if err != nil {
		return block.Block{}, err
	}

	return block.Block{Height: height, Header: mined, Transactions: txs}, nil
}
