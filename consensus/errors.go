// Package consensus defines the closed set of validation error kinds
// shared by every layer of the core (transaction, block, chain index,
// node). Callers use errors.Is / errors.As against the sentinels below
// rather than string matching.
package consensus

import "fmt"

// Kind is a closed enumeration of the ways a piece of chain data can be
// rejected.
type Kind int

const (
	// MalformedEncoding means canonical serialization or decoding failed.
	MalformedEncoding Kind = iota
	// InvalidSignature means ECDSA verification failed.
	InvalidSignature
	// InvalidProofOfWork means the header hash exceeds its difficulty target.
	InvalidProofOfWork
	// InvalidStructure means a coinbase is missing/misplaced, height is
	// wrong, the Merkle root doesn't match, or the reward is wrong.
	InvalidStructure
	// DoubleSpend means the referenced output is absent from the UTXO
	// set at application time.
	DoubleSpend
	// InputOutputMismatch means the sum of outputs doesn't equal the
	// referenced output's value, or the output address doesn't match the
	// signer's address.
	InputOutputMismatch
	// UnknownParent means the block's predecessor is not known; this
	// classifies a block as an orphan rather than rejecting it outright.
	UnknownParent
	// OutOfBounds covers index/range violations such as an output index
	// past the end of the outputs list, or difficulty >= 32.
	OutOfBounds
)

func (k Kind) String() string {
	switch k {
	case MalformedEncoding:
		return "malformed encoding"
	case InvalidSignature:
		return "invalid signature"
	case InvalidProofOfWork:
		return "invalid proof of work"
	case InvalidStructure:
		return "invalid structure"
	case DoubleSpend:
		return "double spend"
	case InputOutputMismatch:
		return "input/output mismatch"
	case UnknownParent:
		return "unknown parent"
	case OutOfBounds:
		return "out of bounds"
	default:
		return "unknown validation error"
	}
}

// Error is a validation failure tagged with its Kind, so callers can
// branch on errors.As without parsing message text.
type Error struct {
	Kind Kind
	Msg  string
	err  error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target shares this error's Kind, satisfying the
// errors.Is protocol for *Error values constructed with the same Kind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// New constructs an *Error of the given Kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given Kind, wrapping an underlying
// cause for errors.Unwrap chains.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), err: err}
}

// Sentinel is a bare Kind value usable as an errors.Is target, e.g.
// errors.Is(err, consensus.Sentinel(consensus.DoubleSpend)).
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}
