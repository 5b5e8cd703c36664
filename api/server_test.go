package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerd/config"
	"ledgerd/node"
	"ledgerd/txn"
)

func newTestNode(t *testing.T) *node.Node {
	t.Helper()
	kp, err := txn.GenerateKeyPair()
	require.NoError(t, err)

	n := node.New(config.Default())
	genesis, err := n.NewGenesis(context.Background(), kp.Address(), 1)
	require.NoError(t, err)
	require.NoError(t, n.IngestBlock(genesis))
	return n
}

func TestHandleTipReturnsCurrentTip(t *testing.T) {
	n := newTestNode(t)
	srv := NewServer(n)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tip", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body tipResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint32(0), body.Height)
}

func TestHandleBlockRejectsMalformedHash(t *testing.T) {
	n := newTestNode(t)
	srv := NewServer(n)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/blocks/"+"00"+"", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMempoolReportsSize(t *testing.T) {
	n := newTestNode(t)
	srv := NewServer(n)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mempool", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body["size"])
}
