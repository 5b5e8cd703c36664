package base58

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	input := []byte{0x00, 0x01, 0x09, 0xff, 0x7f, 0x00, 0x10}
	encoded := Encode(input)
	decoded := Decode(encoded)
	assert.Equal(t, input, decoded)
}

func TestEncodePreservesLeadingZeroes(t *testing.T) {
	input := []byte{0x00, 0x00, 0x01}
	encoded := Encode(input)
	assert.Equal(t, byte('1'), encoded[0])
	assert.Equal(t, byte('1'), encoded[1])
}

func TestEncodeEmptyInput(t *testing.T) {
	encoded := Encode([]byte{})
	assert.Empty(t, encoded)
}
