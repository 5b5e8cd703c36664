package block

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerd/address"
	"ledgerd/chainhash"
	"ledgerd/txn"
)

func idsOf(txs []txn.Transaction) []chainhash.Hash {
	ids := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		ids[i] = tx.Txid()
	}
	return ids
}

func mineGenesis(t *testing.T, difficulty uint8) Block {
	t.Helper()
	coinbase := txn.NewCoinbase(address.Address("miner"), Reward(0, GenesisRewardDefault, HalvingIntervalDefault), 0)
	txs := []txn.Transaction{coinbase}
	header := Header{
		MerkleRoot: MerkleRoot(idsOf(txs)),
		Difficulty: difficulty,
	}
	mined, err := Mine(context.Background(), header)
	require.NoError(t, err)
	return Block{Height: 0, Header: mined, Transactions: txs}
}

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{Timestamp: 123456, Difficulty: 4, Nonce: 99}
	encoded := h.Encode()
	assert.Len(t, encoded, HeaderSize)

	decoded, err := DecodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestRewardHalving(t *testing.T) {
	assert.Equal(t, uint64(50), Reward(0, 50, 10))
	assert.Equal(t, uint64(50), Reward(9, 50, 10))
	assert.Equal(t, uint64(25), Reward(10, 50, 10))
	assert.Equal(t, uint64(12), Reward(20, 50, 10))
}

func TestMineSatisfiesTarget(t *testing.T) {
	header := Header{Difficulty: 1}
	mined, err := Mine(context.Background(), header)
	require.NoError(t, err)
	assert.True(t, SatisfiesTarget(mined.Hash(), 1))
}

func TestValidateIsolatedAcceptsWellFormedGenesis(t *testing.T) {
	genesis := mineGenesis(t, 1)
	err := ValidateIsolated(genesis, GenesisRewardDefault, HalvingIntervalDefault)
	assert.NoError(t, err)
}

func TestValidateIsolatedRejectsWrongReward(t *testing.T) {
	genesis := mineGenesis(t, 1)
	genesis.Transactions[0].Body.Outputs[0].Value = 999
	err := ValidateIsolated(genesis, GenesisRewardDefault, HalvingIntervalDefault)
	assert.Error(t, err)
}

func TestValidateIsolatedRejectsTamperedMerkleRoot(t *testing.T) {
	genesis := mineGenesis(t, 1)
	genesis.Header.MerkleRoot[0] ^= 0xFF
	err := ValidateIsolated(genesis, GenesisRewardDefault, HalvingIntervalDefault)
	assert.Error(t, err)
}

func TestValidateIsolatedRejectsMissingCoinbase(t *testing.T) {
	genesis := mineGenesis(t, 1)
	genesis.Transactions = nil
	err := ValidateIsolated(genesis, GenesisRewardDefault, HalvingIntervalDefault)
	assert.Error(t, err)
}

func TestWorkIncreasesWithDifficulty(t *testing.T) {
	low := Work(1)
	high := Work(2)
	assert.Equal(t, -1, low.Cmp(high))
}

func TestMerkleRootOddLeafDuplication(t *testing.T) {
	a := txn.NewCoinbase(address.Address("a"), 1, 0)
	b := txn.NewCoinbase(address.Address("b"), 1, 0)
	c := txn.NewCoinbase(address.Address("c"), 1, 0)
	root := MerkleRoot([]chainhash.Hash{a.Txid(), b.Txid(), c.Txid()})
	assert.NotEqual(t, chainhash.Hash{}, root)
	assert.Equal(t, MerkleRoot([]chainhash.Hash{a.Txid(), b.Txid(), c.Txid(), c.Txid()}), root)
}
