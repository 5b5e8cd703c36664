// Package config loads the chain-wide constants that every node must
// agree on to share a chain (spec §6 "Configuration constants"), plus a
// handful of deployment settings for the ambient API/persistence layers.
//
// Grounded on amnakhurram1-ZakatWallet/cmd/server/main.go's use of
// github.com/joho/godotenv to load a .env file before constructing the
// blockchain.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"ledgerd/block"
)

// Config holds every value that must be agreed by all nodes to share a
// chain, plus this node's own local deployment settings.
type Config struct {
	// GenesisReward is the initial coinbase value.
	GenesisReward uint64
	// HalvingInterval is the number of blocks per reward halving.
	HalvingInterval uint64
	// MaxDifficulty is the inclusive upper bound on a block's
	// difficulty byte.
	MaxDifficulty uint8

	// ListenAddr is the address the query API (package api) binds to.
	ListenAddr string
	// DBPath is the boltdb file path the persistence layer opens.
	DBPath string
}

// Default returns the configuration used by the scenarios in spec §8.
func Default() Config {
	return Config{
		GenesisReward:   block.GenesisRewardDefault,
		HalvingInterval: block.HalvingIntervalDefault,
		MaxDifficulty:   block.MaxDifficulty,
		ListenAddr:      ":8080",
		DBPath:          "ledgerd.db",
	}
}

// Load starts from Default() and overlays any values found in a .env
// file (if present) and the process environment. A missing .env file is
// not an error — it is the common case for a node started without local
// overrides.
func Load() Config {
	cfg := Default()

	_ = godotenv.Load()

	if v, ok := os.LookupEnv("GENESIS_REWARD"); ok {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.GenesisReward = parsed
		}
	}
	if v, ok := os.LookupEnv("HALVING_INTERVAL"); ok {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.HalvingInterval = parsed
		}
	}
	if v, ok := os.LookupEnv("MAX_DIFFICULTY"); ok {
		if parsed, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.MaxDifficulty = uint8(parsed)
		}
	}
	if v, ok := os.LookupEnv("LISTEN_ADDR"); ok && v != "" {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}

	return cfg
}
