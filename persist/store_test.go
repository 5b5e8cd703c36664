package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerd/block"
	"ledgerd/txn"
)

func TestPutGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerd.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	coinbase := txn.NewCoinbase("miner", 50, 0)
	b := block.Block{Height: 0, Transactions: []txn.Transaction{coinbase}}

	require.NoError(t, store.Put(b))

	got, found, err := store.Get(b.Hash())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, b.Height, got.Height)
	assert.Equal(t, b.Hash(), got.Hash())
}

func TestGetMissingBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerd.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	var missing block.Block
	_, found, err := store.Get(missing.Hash())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAllReturnsEveryPersistedBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerd.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	genesis := block.Block{Height: 0, Transactions: []txn.Transaction{txn.NewCoinbase("miner", 50, 0)}}
	genesis.Header.MerkleRoot = block.MerkleRoot(genesis.Txids())
	require.NoError(t, store.Put(genesis))

	child := block.Block{Height: 1, Header: block.Header{PreviousBlockHash: genesis.Hash()}, Transactions: []txn.Transaction{txn.NewCoinbase("miner", 50, 1)}}
	require.NoError(t, store.Put(child))

	all, err := store.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
