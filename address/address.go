// Package address derives the textual wallet address from an ECDSA
// public key, following the fixed pipeline:
//
//	base58(version ‖ RIPEMD160(SHA256(pubkey)) ‖ first4(SHA256²(version ‖ hash160)))
//
// This mirrors the teacher's core/wallet.go pipeline, generalized into a
// standalone package with an opaque Address type instead of a raw string.
package address

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"

	"ledgerd/base58"
)

// version is the single address-format version byte this chain uses.
const version = byte(0x00)

// checksumLen is the number of checksum bytes appended before base58
// encoding.
const checksumLen = 4

// Address is an opaque textual wallet identifier. Equality is byte
// equality of the underlying string.
type Address string

// String returns the address's textual form.
func (a Address) String() string {
	return string(a)
}

// PubKeyHash extracts and returns RIPEMD160(SHA256(pubkey)) for an
// uncompressed public key, the "hash160" used both to derive and to
// validate addresses.
func PubKeyHash(pubKey []byte) []byte {
	sha := sha256.Sum256(pubKey)
	hasher := ripemd160.New()
	// ripemd160.New().Write never returns an error.
	_, _ = hasher.Write(sha[:])
	return hasher.Sum(nil)
}

// checksum returns the first checksumLen bytes of SHA256²(payload).
func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}

// uncompressed renders an ECDSA public key as the fixed-width
// X‖Y byte concatenation the teacher's wallet code uses.
func uncompressed(pub *ecdsa.PublicKey) []byte {
	size := (pub.Curve.Params().BitSize + 7) / 8
	buf := make([]byte, 2*size)
	pub.X.FillBytes(buf[:size])
	pub.Y.FillBytes(buf[size:])
	return buf
}

// FromPublicKey derives the Address for an ECDSA public key.
func FromPublicKey(pub *ecdsa.PublicKey) Address {
	return FromPubKeyBytes(uncompressed(pub))
}

// FromPubKeyBytes derives the Address from an already-serialized
// uncompressed public key, the form a Transaction's SigningInfo carries.
func FromPubKeyBytes(pubKey []byte) Address {
	hash160 := PubKeyHash(pubKey)
	versioned := append([]byte{version}, hash160...)
	sum := checksum(versioned)
	full := append(versioned, sum...)
	return Address(base58.Encode(full))
}

// Validate checks that addr is a well-formed address: its checksum
// matches the checksum of its version+hash160 payload. It does not (and
// cannot) confirm that any keypair controls it.
func Validate(addr Address) bool {
	full := base58.Decode([]byte(addr.String()))
	if len(full) <= checksumLen+1 {
		return false
	}
	actualVersion := full[0]
	hash160 := full[1 : len(full)-checksumLen]
	actualChecksum := full[len(full)-checksumLen:]
	expected := checksum(append([]byte{actualVersion}, hash160...))
	return bytes.Equal(actualChecksum, expected)
}
