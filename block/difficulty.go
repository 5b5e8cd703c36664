package block

import (
	"math/big"

	"ledgerd/chainhash"
	"ledgerd/consensus"
)

// maxTargetByte is the fixed high byte (0xFF) used to build every
// difficulty target, per spec §4.4.
const maxTargetByte = 0xFF

// Target returns the 32-byte big-endian difficulty target for d: a
// buffer whose high byte is 0xFF shifted right by d whole bytes. d must
// be less than MaxDifficulty+1 (32); d >= 32 is rejected by the caller
// via ValidateDifficulty.
func Target(d uint8) *big.Int {
	buf := make([]byte, chainhash.Size)
	if int(d) < chainhash.Size {
		buf[d] = maxTargetByte
	}
	return new(big.Int).SetBytes(buf)
}

// ValidateDifficulty rejects d >= MaxDifficulty+1 (spec: "d >= 32 is
// rejected").
func ValidateDifficulty(d uint8) error {
	if d > MaxDifficulty {
		return consensus.New(consensus.OutOfBounds, "difficulty %d exceeds max %d", d, MaxDifficulty)
	}
	return nil
}

// SatisfiesTarget reports whether hash, read as a big-endian integer, is
// <= the difficulty target for d.
func SatisfiesTarget(hash chainhash.Hash, d uint8) bool {
	hashInt := new(big.Int).SetBytes(hash[:])
	return hashInt.Cmp(Target(d)) <= 0
}

// maxHashValue is 2^256 - 1, the largest value a 32-byte hash can take.
func maxHashValue() *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	return max.Sub(max, big.NewInt(1))
}

// Work returns the per-block work implied by difficulty d:
// floor((2^256 - 1 - target) / (target + 1)) + 1, per spec §4.4. Exact
// big-integer arithmetic, as the spec requires.
func Work(d uint8) *big.Int {
	target := Target(d)
	numerator := new(big.Int).Sub(maxHashValue(), target)
	denominator := new(big.Int).Add(target, big.NewInt(1))
	work := new(big.Int).Div(numerator, denominator)
	return work.Add(work, big.NewInt(1))
}
