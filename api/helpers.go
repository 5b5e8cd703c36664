package api

import (
	"strconv"

	"ledgerd/chainhash"
	"ledgerd/txn"
)

func parseIndex(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func outputRef(txid chainhash.Hash, index uint32) txn.OutputReference {
	return txn.OutputReference{Txid: txid, Index: index}
}
