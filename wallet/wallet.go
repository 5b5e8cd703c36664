// Package wallet persists ECDSA keypairs to a local file so a CLI
// session can reuse the same address across invocations, mirroring the
// teacher's core/wallet.go Wallets type (LoadFromFile/Save2File via gob)
// generalized to wrap txn.KeyPair instead of a bespoke Wallet struct.
package wallet

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/gob"
	"errors"
	"math/big"
	"os"

	"ledgerd/address"
	"ledgerd/txn"
)

// Store is a collection of keypairs keyed by their derived address.
type Store struct {
	byAddress map[address.Address]txn.KeyPair
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{byAddress: make(map[address.Address]txn.KeyPair)}
}

// Create generates a new keypair, registers it and returns its address.
func (s *Store) Create() (address.Address, error) {
	kp, err := txn.GenerateKeyPair()
	if err != nil {
		return "", err
	}
	addr := kp.Address()
	s.byAddress[addr] = kp
	return addr, nil
}

// Get returns the keypair for addr, if known.
func (s *Store) Get(addr address.Address) (txn.KeyPair, bool) {
	kp, ok := s.byAddress[addr]
	return kp, ok
}

// Addresses lists every address this store holds a keypair for.
func (s *Store) Addresses() []address.Address {
	out := make([]address.Address, 0, len(s.byAddress))
	for a := range s.byAddress {
		out = append(out, a)
	}
	return out
}

// gobRecord is the on-disk shape: gob can't encode ecdsa.PrivateKey's
// elliptic.Curve interface field without the concrete curve registered
// first, same constraint the teacher's wallet.go works around.
type gobRecord struct {
	D []byte
}

// LoadFromFile returns a new Store holding the keypairs stored at path.
// A missing file is not an error — it is the first-run case.
func LoadFromFile(path string) (*Store, error) {
	s := NewStore()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	gob.Register(elliptic.P256())
	var records []gobRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&records); err != nil {
		return nil, err
	}

	for _, rec := range records {
		kp, err := keyPairFromD(rec.D)
		if err != nil {
			return nil, err
		}
		s.byAddress[kp.Address()] = kp
	}
	return s, nil
}

// SaveToFile writes every keypair in s to path.
func (s *Store) SaveToFile(path string) error {
	gob.Register(elliptic.P256())
	records := make([]gobRecord, 0, len(s.byAddress))
	for _, kp := range s.byAddress {
		records = append(records, gobRecord{D: kp.Private.D.Bytes()})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(records); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func keyPairFromD(d []byte) (txn.KeyPair, error) {
	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = txn.Curve
	priv.D = new(big.Int).SetBytes(d)
	priv.PublicKey.X, priv.PublicKey.Y = txn.Curve.ScalarBaseMult(d)
	return txn.KeyPair{Private: priv}, nil
}
