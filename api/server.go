// Package api exposes read-only snapshots of node state over HTTP —
// spec §5's "external readers ... obtain snapshots (copy-on-read or
// shared-immutable handles)". Handlers never mutate the node; they only
// read its current tip, UTXO set and mempool.
//
// Grounded on amnakhurram1-ZakatWallet/internal/api/handlers.go's
// gorilla/mux + JSON-response style, generalized from a wallet-specific
// REST surface to the chain-query surface this spec calls for.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"ledgerd/chainhash"
	"ledgerd/node"
)

// Server wraps a *node.Node with a read-only HTTP query surface.
type Server struct {
	n *node.Node
}

// NewServer constructs a Server over n.
func NewServer(n *node.Node) *Server {
	return &Server{n: n}
}

// Router builds the mux.Router with every route this server answers.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.HandleFunc("/api/v1/tip", s.handleTip).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/blocks/{hash}", s.handleBlock).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/utxo/{txid}/{index:[0-9]+}", s.handleUTXO).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/mempool", s.handleMempool).Methods(http.MethodGet)
	return r
}

type requestIDKey struct{}

// requestIDMiddleware stamps every request with a uuid for log
// correlation, the same pattern ZakatWallet's handlers use per-request
// identifiers for.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		log.Printf("request %s %s %s", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type tipResponse struct {
	Height         uint32 `json:"height"`
	Hash           string `json:"hash"`
	CumulativeWork string `json:"cumulative_work"`
}

func (s *Server) handleTip(w http.ResponseWriter, r *http.Request) {
	tip := s.n.Tip()
	if tip == nil {
		writeError(w, http.StatusNotFound, "no tip: chain is empty")
		return
	}
	writeJSON(w, http.StatusOK, tipResponse{
		Height:         tip.Height,
		Hash:           tip.Hash().String(),
		CumulativeWork: tip.CumulativeWork.String(),
	})
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	hashHex := mux.Vars(r)["hash"]
	hash, err := chainhash.FromHex(hashHex)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed hash")
		return
	}
	b, ok := s.n.BlockStore().Get(hash)
	if !ok {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleUTXO(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	txidHex := vars["txid"]
	txid, err := chainhash.FromHex(txidHex)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed txid")
		return
	}
	index, err := parseIndex(vars["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed index")
		return
	}

	ref := outputRef(txid, index)
	tx, ok := s.n.UTXOSet().Lookup(ref)
	if !ok {
		writeError(w, http.StatusNotFound, "output not in utxo set")
		return
	}
	writeJSON(w, http.StatusOK, tx.Body.Outputs[index])
}

func (s *Server) handleMempool(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"size": s.n.Mempool().Len()})
}
