// Package block implements the block header, its canonical 77-byte wire
// encoding, difficulty targets, proof-of-work mining and validation, and
// per-block/cumulative work accounting — spec §4.4, §4.5, §6.
//
// Grounded on the teacher's core/block.go (header fields, construction)
// and core/pow.go (big.Int target/compare loop), generalized from the
// teacher's gob+ad-hoc-concatenation encoding to the spec's exact
// fixed-offset binary layout, because mining substitutes bytes at a
// known nonce offset rather than re-serializing from scratch each try.
package block

import (
	"encoding/binary"

	"ledgerd/chainhash"
	"ledgerd/consensus"
)

// HeaderSize is the wire size of a canonical header: 32 + 32 + 4 + 1 + 8.
const HeaderSize = 32 + 32 + 4 + 1 + 8

// MaxDifficulty is the inclusive upper bound on Header.Difficulty
// (spec §6's MAX_DIFFICULTY constant).
const MaxDifficulty = 31

const (
	offsetPrevHash   = 0
	offsetMerkle     = 32
	offsetTimestamp  = 64
	offsetDifficulty = 68
	offsetNonce      = 69
)

// Header is the block header of spec §3.
type Header struct {
	PreviousBlockHash chainhash.Hash
	MerkleRoot        chainhash.Hash
	Timestamp         uint32
	Difficulty        uint8
	Nonce             uint64
}

// Encode renders h as the canonical 77-byte buffer of spec §6.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[offsetPrevHash:], h.PreviousBlockHash[:])
	copy(buf[offsetMerkle:], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(buf[offsetTimestamp:], h.Timestamp)
	buf[offsetDifficulty] = h.Difficulty
	binary.LittleEndian.PutUint64(buf[offsetNonce:], h.Nonce)
	return buf
}

// DecodeHeader parses the canonical 77-byte encoding back into a Header.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) != HeaderSize {
		return Header{}, consensus.New(consensus.MalformedEncoding, "header is %d bytes, want %d", len(buf), HeaderSize)
	}
	var h Header
	copy(h.PreviousBlockHash[:], buf[offsetPrevHash:offsetPrevHash+32])
	copy(h.MerkleRoot[:], buf[offsetMerkle:offsetMerkle+32])
	h.Timestamp = binary.LittleEndian.Uint32(buf[offsetTimestamp:])
	h.Difficulty = buf[offsetDifficulty]
	h.Nonce = binary.LittleEndian.Uint64(buf[offsetNonce:])
	return h, nil
}

// setNonce rewrites only the nonce field of an already-encoded header,
// avoiding a full re-encode on every mining attempt.
func setNonce(buf []byte, nonce uint64) {
	binary.LittleEndian.PutUint64(buf[offsetNonce:], nonce)
}

// Hash returns double_sha256(canonical(h)), the block's identity.
func (h Header) Hash() chainhash.Hash {
	return chainhash.DoubleSHA256(h.Encode())
}
