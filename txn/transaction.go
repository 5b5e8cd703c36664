package txn

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"math/big"

	"ledgerd/address"
	"ledgerd/chainhash"
	"ledgerd/consensus"
)

// Curve is the elliptic curve used for every keypair in this chain,
// matching the teacher's core/wallet.go choice of P256.
var Curve = elliptic.P256()

// SigningInfo carries the ECDSA signature over a transaction body and
// the public key that produced it. It is excluded from the canonical
// body encoding and therefore from the txid.
type SigningInfo struct {
	Signature []byte
	PublicKey []byte // uncompressed X‖Y
}

// Transaction pairs a signable Body with the SigningInfo that
// authorizes it.
type Transaction struct {
	Body    Body
	Signing SigningInfo
}

// KeyPair is a convenience bundle for generating and using an address's
// underlying keys.
type KeyPair struct {
	Private *ecdsa.PrivateKey
}

// GenerateKeyPair creates a fresh ECDSA keypair on Curve.
func GenerateKeyPair() (KeyPair, error) {
	priv, err := ecdsa.GenerateKey(Curve, rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Private: priv}, nil
}

// PublicKeyBytes renders the keypair's public key in the uncompressed
// X‖Y form used throughout this package, each coordinate zero-padded to
// the curve's byte size.
func (kp KeyPair) PublicKeyBytes() []byte {
	size := (Curve.Params().BitSize + 7) / 8
	buf := make([]byte, 2*size)
	kp.Private.PublicKey.X.FillBytes(buf[:size])
	kp.Private.PublicKey.Y.FillBytes(buf[size:])
	return buf
}

// Address derives the keypair's wallet address.
func (kp KeyPair) Address() address.Address {
	return address.FromPubKeyBytes(kp.PublicKeyBytes())
}

// Txid returns double_sha256(canonical(body)), the transaction's
// identity. The signature never enters this computation.
func Txid(body Body) chainhash.Hash {
	return chainhash.DoubleSHA256(Canonical(body))
}

// Sign builds a Transaction from body, attaching an ECDSA signature over
// double_sha256(canonical(body)) and the signer's public key.
func Sign(body Body, kp KeyPair) (Transaction, error) {
	digest := Txid(body)
	r, s, err := ecdsa.Sign(rand.Reader, kp.Private, digest[:])
	if err != nil {
		return Transaction{}, err
	}
	size := (Curve.Params().BitSize + 7) / 8
	sig := make([]byte, 2*size)
	r.FillBytes(sig[:size])
	s.FillBytes(sig[size:])
	return Transaction{
		Body: body,
		Signing: SigningInfo{
			Signature: sig,
			PublicKey: kp.PublicKeyBytes(),
		},
	}, nil
}

// Txid returns the transaction's identity, ignoring its signature.
func (tx Transaction) Txid() chainhash.Hash {
	return Txid(tx.Body)
}

// VerifySignature checks tx.Signing against tx.Body's txid digest. It
// does not special-case coinbase transactions: a coinbase built by
// NewCoinbase carries no signature, so this returns false for it, and
// callers that validate blocks or UTXO spends skip the check for the
// coinbase input instead.
func (tx Transaction) VerifySignature() bool {
	if len(tx.Signing.Signature) == 0 || len(tx.Signing.PublicKey) == 0 {
		return false
	}
	digest := tx.Txid()

	// Sign writes r and s as equal-width, zero-padded halves, so the
	// signature splits at its midpoint (and the public key likewise).
	half := len(tx.Signing.Signature) / 2
	if half == 0 {
		return false
	}
	r := new(big.Int).SetBytes(tx.Signing.Signature[:half])
	s := new(big.Int).SetBytes(tx.Signing.Signature[half:])

	keyHalf := len(tx.Signing.PublicKey) / 2
	if keyHalf == 0 {
		return false
	}
	x := new(big.Int).SetBytes(tx.Signing.PublicKey[:keyHalf])
	y := new(big.Int).SetBytes(tx.Signing.PublicKey[keyHalf:])

	pub := &ecdsa.PublicKey{Curve: Curve, X: x, Y: y}
	return ecdsa.Verify(pub, digest[:], r, s)
}

// SignerAddress derives the address committed to by tx's public key.
func (tx Transaction) SignerAddress() address.Address {
	return address.FromPubKeyBytes(tx.Signing.PublicKey)
}

// OutputReference returns the reference to the i-th output of tx,
// failing with OutOfBounds if i is out of range.
func (tx Transaction) OutputReference(i uint32) (OutputReference, error) {
	if int(i) >= len(tx.Body.Outputs) {
		return OutputReference{}, consensus.New(consensus.OutOfBounds, "output index %d >= %d outputs", i, len(tx.Body.Outputs))
	}
	return OutputReference{Txid: tx.Txid(), Index: i}, nil
}

// NewCoinbase builds an unsigned coinbase transaction paying reward to
// addr at the given block height. Coinbase transactions carry no
// signature: there is no spent input to authorize.
func NewCoinbase(addr address.Address, reward uint64, height uint32) Transaction {
	return Transaction{
		Body: Body{
			Input:   Coinbase(height),
			Outputs: []Output{{Value: reward, Address: addr}},
		},
	}
}
