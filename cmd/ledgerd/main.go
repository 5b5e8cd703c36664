// Command ledgerd is the CLI entry point to the core: it can create a
// chain, manage local wallets, submit transactions, mine blocks, and
// serve the read-only query API.
//
// Grounded on the teacher's cli.go/main.go: a usage string, a flag-based
// subcommand dispatch, os.Exit(1) on bad usage — generalized from the
// teacher's single-input "send"/"getbalance" commands to this spec's
// node operations (ingest/build_block) and reshaped to flag.FlagSet
// subcommands instead of the teacher's hand-rolled os.Args slicing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"ledgerd/address"
	"ledgerd/api"
	"ledgerd/block"
	"ledgerd/config"
	"ledgerd/node"
	"ledgerd/persist"
	"ledgerd/txn"
	"ledgerd/wallet"
)

const usage = `Usage:
	ledgerd createchain -addr ADDR -difficulty D     --- create the chain with a genesis block paying ADDR
	ledgerd createwallet                              --- generate a new wallet and print its address
	ledgerd listaddr                                  --- list every address in the local wallet file
	ledgerd send -src ADDR -dst ADDR -amount N        --- submit a transaction to the mempool
	ledgerd mine -addr ADDR                           --- drain the mempool into a new block and mine it
	ledgerd printchain                                --- print every block on the best chain
	ledgerd serve                                      --- serve the read-only query API`

const (
	walletFile = "wallets.dat"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg := config.Load()

	switch os.Args[1] {
	case "createchain":
		cmdCreateChain(cfg, os.Args[2:])
	case "createwallet":
		cmdCreateWallet()
	case "listaddr":
		cmdListAddr()
	case "send":
		cmdSend(cfg, os.Args[2:])
	case "mine":
		cmdMine(cfg, os.Args[2:])
	case "printchain":
		cmdPrintChain(cfg)
	case "serve":
		cmdServe(cfg)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

// loadNode reconstructs a *node.Node from the blocks persisted at
// cfg.DBPath, replaying them in height order through IngestBlock. Only
// one block per height is kept (where several share a height, the last
// one read wins), and replay stops at the first height with no block.
func loadNode(cfg config.Config) (*node.Node, *persist.Store, error) {
	store, err := persist.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	n := node.New(cfg)
	blocks, err := store.All()
	if err != nil {
		return nil, nil, err
	}

	byHeight := make(map[uint32]block.Block, len(blocks))
	var maxHeight uint32
	for _, b := range blocks {
		byHeight[b.Height] = b
		if b.Height > maxHeight {
			maxHeight = b.Height
		}
	}
	for h := uint32(0); h < uint32(len(byHeight)); h++ {
		b, ok := byHeight[h]
		if !ok {
			break
		}
		if err := n.IngestBlock(b); err != nil {
			return nil, nil, fmt.Errorf("replay block at height %d: %w", h, err)
		}
	}

	return n, store, nil
}

func cmdCreateChain(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("createchain", flag.ExitOnError)
	addr := fs.String("addr", "", "address to pay the genesis coinbase to")
	difficulty := fs.Uint("difficulty", 1, "genesis block difficulty")
	_ = fs.Parse(args)

	if *addr == "" || !address.Validate(address.Address(*addr)) {
		log.Fatal("createchain: -addr is required and must be a valid address")
	}

	n := node.New(cfg)
	genesis, err := n.NewGenesis(context.Background(), address.Address(*addr), uint8(*difficulty))
	if err != nil {
		log.Fatalf("createchain: %v", err)
	}
	if err := n.IngestBlock(genesis); err != nil {
		log.Fatalf("createchain: ingest genesis: %v", err)
	}

	store, err := persist.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("createchain: %v", err)
	}
	defer store.Close()
	if err := store.Put(genesis); err != nil {
		log.Fatalf("createchain: persist genesis: %v", err)
	}

	fmt.Printf("genesis block %s created at height 0\n", genesis.Hash())
}

func cmdCreateWallet() {
	store, err := wallet.LoadFromFile(walletFile)
	if err != nil {
		log.Fatalf("createwallet: %v", err)
	}
	addr, err := store.Create()
	if err != nil {
		log.Fatalf("createwallet: %v", err)
	}
	if err := store.SaveToFile(walletFile); err != nil {
		log.Fatalf("createwallet: %v", err)
	}
	fmt.Println(addr)
}

func cmdListAddr() {
	store, err := wallet.LoadFromFile(walletFile)
	if err != nil {
		log.Fatalf("listaddr: %v", err)
	}
	for i, addr := range store.Addresses() {
		fmt.Printf("#%d: %s\n", i, addr)
	}
}

func cmdSend(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	src := fs.String("src", "", "sender address")
	dst := fs.String("dst", "", "recipient address")
	amount := fs.Uint64("amount", 0, "amount to send")
	utxoTxid := fs.String("utxo-txid", "", "txid of the output being spent")
	utxoIndex := fs.Uint("utxo-index", 0, "index of the output being spent")
	_ = fs.Parse(args)

	wallets, err := wallet.LoadFromFile(walletFile)
	if err != nil {
		log.Fatalf("send: %v", err)
	}
	kp, ok := wallets.Get(address.Address(*src))
	if !ok {
		log.Fatalf("send: no local keypair for address %s", *src)
	}

	n, store, err := loadNode(cfg)
	if err != nil {
		log.Fatalf("send: %v", err)
	}
	defer store.Close()

	txidHash, err := parseHash(*utxoTxid)
	if err != nil {
		log.Fatalf("send: %v", err)
	}

	body := txn.Body{
		Input: txn.SpendOutput(txn.OutputReference{Txid: txidHash, Index: uint32(*utxoIndex)}),
		Outputs: []txn.Output{
			{Value: *amount, Address: address.Address(*dst)},
		},
	}
	tx, err := txn.Sign(body, kp)
	if err != nil {
		log.Fatalf("send: %v", err)
	}
	if err := n.IngestTransaction(tx); err != nil {
		log.Fatalf("send: rejected: %v", err)
	}

	fmt.Printf("transaction %s admitted to mempool\n", tx.Txid())
}

func cmdMine(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("mine", flag.ExitOnError)
	addr := fs.String("addr", "", "address to pay the block reward to")
	_ = fs.Parse(args)

	wallets, err := wallet.LoadFromFile(walletFile)
	if err != nil {
		log.Fatalf("mine: %v", err)
	}
	kp, ok := wallets.Get(address.Address(*addr))
	if !ok {
		log.Fatalf("mine: no local keypair for address %s", *addr)
	}

	n, store, err := loadNode(cfg)
	if err != nil {
		log.Fatalf("mine: %v", err)
	}
	defer store.Close()

	b, err := n.BuildBlock(context.Background(), kp, uint32(time.Now().Unix()))
	if err != nil {
		log.Fatalf("mine: %v", err)
	}
	if err := n.IngestBlock(b); err != nil {
		log.Fatalf("mine: ingest mined block: %v", err)
	}
	if err := store.Put(b); err != nil {
		log.Fatalf("mine: persist block: %v", err)
	}

	fmt.Printf("mined block %s at height %d\n", b.Hash(), b.Height)
}

func cmdPrintChain(cfg config.Config) {
	n, store, err := loadNode(cfg)
	if err != nil {
		log.Fatalf("printchain: %v", err)
	}
	defer store.Close()

	for h := uint32(0); ; h++ {
		cn, ok := n.ChainIndex().Get(h)
		if !ok {
			break
		}
		fmt.Printf("height %d: hash %s work %s\n", cn.Height, cn.Hash(), cn.CumulativeWork.String())
	}
}

func cmdServe(cfg config.Config) {
	n, store, err := loadNode(cfg)
	if err != nil {
		log.Fatalf("serve: %v", err)
	}
	defer store.Close()

	srv := api.NewServer(n)
	log.Printf("serving query API on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router()); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
