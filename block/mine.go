package block

import (
	"context"

	"ledgerd/chainhash"
)

// Mine performs the naive linear nonce search of spec §4.4: starting
// from nonce 0, serialize the header, substitute the 8-byte nonce field
// at its fixed offset, double-SHA-256, and compare to the difficulty
// target, incrementing on miss. It is single-threaded and synchronous,
// as the spec requires of the core itself; callers that want concurrent
// mining run several Mine-equivalent searches over disjoint nonce
// ranges in goroutines and feed the first winner back through the node
// state machine (spec §5).
//
// ctx is checked periodically so long searches (high difficulty) can be
// cancelled; mining has no other externally required cancel semantics.
func Mine(ctx context.Context, h Header) (Header, error) {
	buf := h.Encode()
	var nonce uint64
	for {
		select {
		case <-ctx.Done():
			return Header{}, ctx.Err()
		default:
		}

		setNonce(buf, nonce)
		hash := chainhash.DoubleSHA256(buf)
		if SatisfiesTarget(hash, h.Difficulty) {
			h.Nonce = nonce
			return h, nil
		}
		nonce++
	}
}
