package chainindex

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"ledgerd/blockstore"
)

func node(height uint32, work int64, previous *blockstore.Node) *blockstore.Node {
	return &blockstore.Node{Height: height, CumulativeWork: big.NewInt(work), Previous: previous}
}

func TestSetTipBuildsPathFromGenesis(t *testing.T) {
	idx := New()
	genesis := node(0, 1, nil)
	child := node(1, 2, genesis)

	idx.SetTip(child)

	assert.Equal(t, child, idx.Tip())
	got, ok := idx.Get(0)
	assert.True(t, ok)
	assert.Equal(t, genesis, got)
}

func TestSetTipReorgsOntoFork(t *testing.T) {
	idx := New()
	genesis := node(0, 1, nil)
	oldTip := node(1, 2, genesis)
	idx.SetTip(oldTip)

	newFork := node(1, 3, genesis)
	idx.SetTip(newFork)

	got, ok := idx.Get(1)
	assert.True(t, ok)
	assert.Equal(t, newFork, got)
	assert.Equal(t, newFork, idx.Tip())
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	idx := New()
	genesis := node(0, 1, nil)
	idx.SetTip(genesis)

	snapshot := idx.Save()

	child := node(1, 2, genesis)
	idx.SetTip(child)
	assert.Equal(t, child, idx.Tip())

	idx.Restore(snapshot)
	assert.Equal(t, genesis, idx.Tip())
}

func TestContainsDistinguishesByIdentity(t *testing.T) {
	idx := New()
	genesis := node(0, 1, nil)
	idx.SetTip(genesis)

	other := node(0, 1, nil)
	assert.True(t, idx.Contains(genesis))
	assert.False(t, idx.Contains(other))
}
