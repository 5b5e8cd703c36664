package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerd/address"
)

func TestSignAndVerify(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	other, err := GenerateKeyPair()
	require.NoError(t, err)

	body := Body{
		Input: SpendOutput(OutputReference{Index: 0}),
		Outputs: []Output{
			{Value: 10, Address: other.Address()},
		},
	}

	tx, err := Sign(body, kp)
	require.NoError(t, err)
	assert.True(t, tx.VerifySignature())
	assert.Equal(t, kp.Address(), tx.SignerAddress())
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	body := Body{
		Input:   SpendOutput(OutputReference{Index: 0}),
		Outputs: []Output{{Value: 10, Address: address.Address("dst")}},
	}
	tx, err := Sign(body, kp)
	require.NoError(t, err)

	tx.Body.Outputs[0].Value = 999
	assert.False(t, tx.VerifySignature())
}

func TestTxidIgnoresSignature(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	body := Body{
		Input:   SpendOutput(OutputReference{Index: 0}),
		Outputs: []Output{{Value: 10, Address: address.Address("dst")}},
	}
	tx, err := Sign(body, kp)
	require.NoError(t, err)

	assert.Equal(t, Txid(body), tx.Txid())
}

func TestCanonicalRoundTrip(t *testing.T) {
	body := Body{
		Input: SpendOutput(OutputReference{Index: 3}),
		Outputs: []Output{
			{Value: 7, Address: address.Address("addr-one")},
			{Value: 9, Address: address.Address("addr-two")},
		},
	}
	encoded := Canonical(body)
	decoded, err := DecodeBody(encoded)
	require.NoError(t, err)
	assert.True(t, Equal(body, decoded))
}

func TestCanonicalCoinbaseRoundTrip(t *testing.T) {
	body := Body{
		Input:   Coinbase(42),
		Outputs: []Output{{Value: 50, Address: address.Address("miner")}},
	}
	decoded, err := DecodeBody(Canonical(body))
	require.NoError(t, err)
	assert.True(t, Equal(body, decoded))
	assert.True(t, decoded.Input.IsCoinbase())
	assert.Equal(t, uint32(42), decoded.Input.BlockHeight)
}

func TestDecodeBodyRejectsTruncatedInput(t *testing.T) {
	_, err := DecodeBody([]byte{0x01, 0x00})
	assert.Error(t, err)
}

func TestOutputReferenceOutOfBounds(t *testing.T) {
	tx := NewCoinbase(address.Address("miner"), 50, 0)
	_, err := tx.OutputReference(1)
	assert.Error(t, err)

	ref, err := tx.OutputReference(0)
	require.NoError(t, err)
	assert.Equal(t, tx.Txid(), ref.Txid)
}
