// Package base58 implements the Bitcoin-style base58 alphabet used to
// render wallet addresses, adapted from the teacher's utils/base58.go.
// The teacher's leading-zero handling in Encode/Decode ranged over the
// loop index rather than the byte value; this version ranges over the
// bytes themselves so a pubkey hash with leading zero bytes round-trips.
package base58

import (
	"bytes"
	"math/big"
)

var alphabet = []byte("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz")
var radix = int64(len(alphabet))

// Encode returns the base58 encoding of input.
func Encode(input []byte) []byte {
	var encoded []byte
	x := big.NewInt(0).SetBytes(input)
	base := big.NewInt(radix)
	zero := big.NewInt(0)
	mod := &big.Int{}

	for x.Cmp(zero) != 0 {
		x.DivMod(x, base, mod)
		encoded = append(encoded, alphabet[mod.Int64()])
	}
	reverse(encoded)

	for _, b := range input {
		if b != 0x00 {
			break
		}
		encoded = append([]byte{alphabet[0]}, encoded...)
	}

	return encoded
}

// Decode reverses Encode.
func Decode(input []byte) []byte {
	acc := big.NewInt(0)
	leadingZeros := 0

	for _, b := range input {
		if b != alphabet[0] {
			break
		}
		leadingZeros++
	}

	for _, b := range input {
		idx := bytes.IndexByte(alphabet, b)
		acc.Mul(acc, big.NewInt(radix))
		acc.Add(acc, big.NewInt(int64(idx)))
	}

	decoded := acc.Bytes()
	return append(bytes.Repeat([]byte{0x00}, leadingZeros), decoded...)
}

func reverse(data []byte) {
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
}
