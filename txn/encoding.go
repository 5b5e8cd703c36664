// Package txn implements the transaction model: canonical
// serialization, identity (txid), signing and signature verification,
// and output references — spec §3 "TransactionOutput" through
// "SigningInfo" and §4.1.
//
// Canonical encoding is deliberately hand-rolled rather than gob or
// encoding/json: the txid is computed over these exact wire bytes, so the
// encoding must be stable across implementations (spec §6), which rules
// out gob's self-describing, Go-specific format. This generalizes the
// teacher's core/transaction.go (which used gob for hashing, a choice
// that only works because every node in the teacher's toy network is a
// Go node).
package txn

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"ledgerd/address"
	"ledgerd/chainhash"
	"ledgerd/consensus"
)

// InputKind tags which variant of TransactionInput is present.
type InputKind uint32

const (
	// InputCoinbase mints currency and consumes no output.
	InputCoinbase InputKind = 0
	// InputReference spends a previously unspent output.
	InputReference InputKind = 1
)

// OutputReference uniquely identifies one output of one transaction.
type OutputReference struct {
	Txid  chainhash.Hash
	Index uint32
}

// Input is the tagged TransactionInput variant of spec §3. Exactly one
// of the two payloads is meaningful, selected by Kind.
type Input struct {
	Kind InputKind

	// BlockHeight is meaningful when Kind == InputCoinbase.
	BlockHeight uint32

	// Reference is meaningful when Kind == InputReference.
	Reference OutputReference
}

// Coinbase constructs a coinbase Input for the given block height.
func Coinbase(blockHeight uint32) Input {
	return Input{Kind: InputCoinbase, BlockHeight: blockHeight}
}

// SpendOutput constructs a reference Input spending a prior output.
func SpendOutput(ref OutputReference) Input {
	return Input{Kind: InputReference, Reference: ref}
}

// IsCoinbase reports whether in is a coinbase input.
func (in Input) IsCoinbase() bool {
	return in.Kind == InputCoinbase
}

// Output is a single payment to an address, in indivisible base units.
type Output struct {
	Value   uint64
	Address address.Address
}

// Body is the signable content of a transaction: its single input and
// its non-empty list of outputs.
type Body struct {
	Input   Input
	Outputs []Output
}

// encodeUint64 appends a little-endian uint64.
func encodeUint64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

// encodeUint32 appends a little-endian uint32.
func encodeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

// encodeBytes appends a u64-length-prefixed byte string.
func encodeBytes(buf *bytes.Buffer, b []byte) {
	encodeUint64(buf, uint64(len(b)))
	buf.Write(b)
}

// Canonical returns the deterministic binary encoding of a transaction
// body, per spec §6 "Transaction body encoding". This is the exact
// preimage hashed for txid and for the signature.
func Canonical(body Body) []byte {
	var buf bytes.Buffer

	encodeUint32(&buf, uint32(body.Input.Kind))
	switch body.Input.Kind {
	case InputCoinbase:
		encodeUint32(&buf, body.Input.BlockHeight)
	case InputReference:
		buf.Write(body.Input.Reference.Txid[:])
		encodeUint64(&buf, uint64(body.Input.Reference.Index))
	}

	encodeUint64(&buf, uint64(len(body.Outputs)))
	for _, out := range body.Outputs {
		encodeUint64(&buf, out.Value)
		encodeBytes(&buf, []byte(out.Address.String()))
	}

	return buf.Bytes()
}

// decoder reads the fixed-width little-endian fields Canonical writes.
type decoder struct {
	buf []byte
	off int
}

func (d *decoder) uint32() (uint32, error) {
	if d.off+4 > len(d.buf) {
		return 0, fmt.Errorf("truncated u32 field")
	}
	v := binary.LittleEndian.Uint32(d.buf[d.off:])
	d.off += 4
	return v, nil
}

func (d *decoder) uint64() (uint64, error) {
	if d.off+8 > len(d.buf) {
		return 0, fmt.Errorf("truncated u64 field")
	}
	v := binary.LittleEndian.Uint64(d.buf[d.off:])
	d.off += 8
	return v, nil
}

func (d *decoder) bytesN(n int) ([]byte, error) {
	if n < 0 || d.off+n > len(d.buf) {
		return nil, fmt.Errorf("truncated byte field")
	}
	v := d.buf[d.off : d.off+n]
	d.off += n
	return v, nil
}

func (d *decoder) lengthPrefixed() ([]byte, error) {
	n, err := d.uint64()
	if err != nil {
		return nil, err
	}
	return d.bytesN(int(n))
}

// DecodeBody parses the canonical encoding back into a Body, for callers
// that hold raw wire bytes and must reconstruct the body. The persist
// package stores blocks as JSON and does not use it.
func DecodeBody(data []byte) (Body, error) {
	d := &decoder{buf: data}
	var body Body

	kind, err := d.uint32()
	if err != nil {
		return body, consensus.Wrap(consensus.MalformedEncoding, err, "transaction input tag")
	}
	body.Input.Kind = InputKind(kind)

	switch body.Input.Kind {
	case InputCoinbase:
		h, err := d.uint32()
		if err != nil {
			return body, consensus.Wrap(consensus.MalformedEncoding, err, "coinbase height")
		}
		body.Input.BlockHeight = h
	case InputReference:
		txidBytes, err := d.bytesN(32)
		if err != nil {
			return body, consensus.Wrap(consensus.MalformedEncoding, err, "reference txid")
		}
		copy(body.Input.Reference.Txid[:], txidBytes)
		idx, err := d.uint64()
		if err != nil {
			return body, consensus.Wrap(consensus.MalformedEncoding, err, "reference index")
		}
		body.Input.Reference.Index = uint32(idx)
	default:
		return body, consensus.New(consensus.MalformedEncoding, "unknown input tag %d", kind)
	}

	outCount, err := d.uint64()
	if err != nil {
		return body, consensus.Wrap(consensus.MalformedEncoding, err, "output count")
	}
	body.Outputs = make([]Output, 0, outCount)
	for i := uint64(0); i < outCount; i++ {
		value, err := d.uint64()
		if err != nil {
			return body, consensus.Wrap(consensus.MalformedEncoding, err, "output value")
		}
		addrBytes, err := d.lengthPrefixed()
		if err != nil {
			return body, consensus.Wrap(consensus.MalformedEncoding, err, "output address")
		}
		body.Outputs = append(body.Outputs, Output{
			Value:   value,
			Address: address.Address(addrBytes),
		})
	}

	return body, nil
}

// Equal reports whether two bodies are canonically identical.
func Equal(a, b Body) bool {
	return bytes.Equal(Canonical(a), Canonical(b))
}
