package wallet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateThenGet(t *testing.T) {
	s := NewStore()
	addr, err := s.Create()
	require.NoError(t, err)

	kp, ok := s.Get(addr)
	assert.True(t, ok)
	assert.Equal(t, addr, kp.Address())
}

func TestSaveAndLoadFromFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.dat")

	s := NewStore()
	addr1, err := s.Create()
	require.NoError(t, err)
	addr2, err := s.Create()
	require.NoError(t, err)
	require.NoError(t, s.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Addresses(), 2)

	kp1, ok := loaded.Get(addr1)
	assert.True(t, ok)
	assert.Equal(t, addr1, kp1.Address())

	kp2, ok := loaded.Get(addr2)
	assert.True(t, ok)
	assert.Equal(t, addr2, kp2.Address())
}

func TestLoadFromFileMissingIsNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.dat")
	s, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, s.Addresses())
}
