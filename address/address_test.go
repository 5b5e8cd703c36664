package address

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledgerd/txn"
)

func TestFromPublicKeyValidates(t *testing.T) {
	kp, err := txn.GenerateKeyPair()
	assert.NoError(t, err)

	addr := kp.Address()
	assert.True(t, Validate(addr))
}

func TestValidateRejectsTamperedAddress(t *testing.T) {
	kp, err := txn.GenerateKeyPair()
	assert.NoError(t, err)

	addr := string(kp.Address())
	tampered := []byte(addr)
	tampered[0] = tampered[0] + 1
	assert.False(t, Validate(Address(tampered)))
}

func TestValidateRejectsShortInput(t *testing.T) {
	assert.False(t, Validate(Address("x")))
}

func TestFromPubKeyBytesDeterministic(t *testing.T) {
	kp, err := txn.GenerateKeyPair()
	assert.NoError(t, err)

	a := FromPubKeyBytes(kp.PublicKeyBytes())
	b := FromPubKeyBytes(kp.PublicKeyBytes())
	assert.Equal(t, a, b)
}
