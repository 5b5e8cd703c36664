// Package persist is the external collaborator spec §1 calls out as
// out of scope for the core itself ("on-disk persistence of blocks") but
// spec §6 still specifies a wire format for ("Persisted state": one
// file per block, keyed by block hash in hex, content a round-trip-safe
// textual form). This package implements that interface, with
// github.com/boltdb/bolt as the storage engine instead of literal
// one-file-per-block: a single db file holds one bucket, keyed by the
// same hex block hash spec §6 names, each value the block's JSON
// encoding.
//
// Grounded directly on the teacher's core/blockchain.go, which opens
// exactly this kind of single bolt file with a "Blocks" bucket keyed by
// block hash; this package generalizes that to the spec's block shape
// and textual (JSON, not gob) value encoding, so the persisted bytes are
// inspectable and stable across implementations rather than a
// Go-specific gob blob.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"

	"ledgerd/block"
	"ledgerd/chainhash"
)

const blocksBucket = "blocks"

// Store is a bolt-backed durable block index.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the bolt file at path and ensures
// the blocks bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(blocksBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("persist: init bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying bolt file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put persists b, keyed by its hex-encoded block hash.
func (s *Store) Put(b block.Block) error {
	encoded, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("persist: encode block: %w", err)
	}
	key := []byte(b.Hash().String())
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(blocksBucket)).Put(key, encoded)
	})
}

// Get loads the block with the given hash, if present.
func (s *Store) Get(hash chainhash.Hash) (block.Block, bool, error) {
	var b block.Block
	var found bool
	key := []byte(hash.String())
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(blocksBucket)).Get(key)
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &b)
	})
	if err != nil {
		return block.Block{}, false, fmt.Errorf("persist: decode block: %w", err)
	}
	return b, found, nil
}

// All loads every persisted block, for reconstructing a blockstore on
// startup. Order is unspecified; callers that need a height-ordered
// rebuild should sort the result by Height (the genesis block is the
// unique entry with Height == 0).
func (s *Store) All() ([]block.Block, error) {
	var out []block.Block
	err := s.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket([]byte(blocksBucket)).Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var b block.Block
			if err := json.Unmarshal(v, &b); err != nil {
				return fmt.Errorf("persist: decode block %s: %w", k, err)
			}
			out = append(out, b)
		}
		return nil
	})
	return out, err
}
