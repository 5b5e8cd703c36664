package blockstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerd/block"
	"ledgerd/chainhash"
)

func header(prev chainhash.Hash, difficulty uint8, nonce uint64) block.Header {
	return block.Header{PreviousBlockHash: prev, Difficulty: difficulty, Nonce: nonce}
}

func TestInsertGenesisConnectsWithoutParent(t *testing.T) {
	s := New()
	genesis := block.Block{Height: 0, Header: header(chainhash.Zero, 1, 1)}

	result, err := s.Insert(genesis)
	require.NoError(t, err)
	assert.True(t, result.Connected)
	assert.Equal(t, uint32(0), result.Node.Height)
	assert.Nil(t, result.Node.Previous)
}

func TestInsertOrphanWhenParentUnknown(t *testing.T) {
	s := New()
	orphanHeader := header(chainhash.Hash{0xAB}, 1, 1)
	orphan := block.Block{Height: 5, Header: orphanHeader}

	result, err := s.Insert(orphan)
	require.NoError(t, err)
	assert.False(t, result.Connected)
	assert.True(t, s.Contains(orphan.Hash()))
	_, onChain := s.NodeByHash(orphan.Hash())
	assert.False(t, onChain)
}

func TestInsertResolvesOrphanOnceParentArrives(t *testing.T) {
	s := New()
	genesis := block.Block{Height: 0, Header: header(chainhash.Zero, 1, 1)}
	_, err := s.Insert(genesis)
	require.NoError(t, err)

	child := block.Block{Height: 1, Header: header(genesis.Hash(), 1, 2)}
	grandchild := block.Block{Height: 2, Header: header(child.Hash(), 1, 3)}

	orphanResult, err := s.Insert(grandchild)
	require.NoError(t, err)
	assert.False(t, orphanResult.Connected)

	result, err := s.Insert(child)
	require.NoError(t, err)
	assert.True(t, result.Connected)

	resolved, ok := s.NodeByHash(grandchild.Hash())
	assert.True(t, ok)
	assert.Equal(t, child.Hash(), resolved.Previous.Hash())
}

func TestInsertDuplicateReturnsAlreadyPresent(t *testing.T) {
	s := New()
	genesis := block.Block{Height: 0, Header: header(chainhash.Zero, 1, 1)}
	_, err := s.Insert(genesis)
	require.NoError(t, err)

	_, err = s.Insert(genesis)
	assert.True(t, IsAlreadyPresent(err))
}

func TestCumulativeWorkAccumulates(t *testing.T) {
	s := New()
	genesis := block.Block{Height: 0, Header: header(chainhash.Zero, 1, 1)}
	genesisResult, err := s.Insert(genesis)
	require.NoError(t, err)

	child := block.Block{Height: 1, Header: header(genesis.Hash(), 1, 2)}
	childResult, err := s.Insert(child)
	require.NoError(t, err)

	assert.Equal(t, -1, genesisResult.Node.CumulativeWork.Cmp(childResult.Node.CumulativeWork))
}
