package main

import "ledgerd/chainhash"

func parseHash(s string) (chainhash.Hash, error) {
	if s == "" {
		return chainhash.Zero, nil
	}
	return chainhash.FromHex(s)
}
