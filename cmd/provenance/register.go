package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/tracefoundry/provenance"
	"github.com/tracefoundry/provenance/ledger"
)

type writeConfig struct {
	rpc      string
	contract string
	key      string
	chainID  int64
	id       uint64
	address  string
}

func bindWriteFlags(fs *flag.FlagSet, cfg *writeConfig) {
	fs.StringVar(&cfg.rpc, "rpc", "", "Ethereum RPC endpoint (required)")
	fs.StringVar(&cfg.contract, "contract", "", "contract address (required)")
	fs.StringVar(&cfg.key, "key", os.Getenv("PROVENANCE_KEY"), "signing key hex")
	fs.Int64Var(&cfg.chainID, "chain-id", 1, "chain id")
	fs.StringVar(&cfg.address, "address", "", "content address (required)")
}

func (cfg *writeConfig) validate() error {
	if cfg.rpc == "" || cfg.contract == "" {
		return errors.New("--rpc and --contract are required")
	}
	if cfg.key == "" {
		return errors.New("--key or PROVENANCE_KEY is required")
	}
	if cfg.address == "" {
		return errors.New("--address is required")
	}
	return nil
}

// writeClient dials the backend and builds a client with a transactor.
func writeClient(ctx context.Context, cfg *writeConfig) (*provenance.Client, func(), error) {
	backend, err := ethclient.DialContext(ctx, cfg.rpc)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", cfg.rpc, err)
	}

	key, err := crypto.HexToECDSA(cfg.key)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("parse signing key: %w", err)
	}
	signer, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(cfg.chainID))
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	chain, err := ledger.New(common.HexToAddress(cfg.contract), backend, ledger.WithTransactor(signer))
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	c, err := provenance.NewClient(provenance.WithLedger(chain), provenance.WithWriter(chain))
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return c, backend.Close, nil
}

func runRegister(args []string) error {
	var cfg writeConfig
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	bindWriteFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	ctx := context.Background()
	c, closeBackend, err := writeClient(ctx, &cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	id, err := c.Register(ctx, cfg.address)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	fmt.Printf("registered product %d\n", id)
	return nil
}

func runAppend(args []string) error {
	var cfg writeConfig
	fs := flag.NewFlagSet("append", flag.ExitOnError)
	bindWriteFlags(fs, &cfg)
	fs.Uint64Var(&cfg.id, "id", 0, "product id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.id == 0 {
		return errors.New("--id is required")
	}

	ctx := context.Background()
	c, closeBackend, err := writeClient(ctx, &cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	conf, err := c.Append(ctx, cfg.id, cfg.address)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	fmt.Printf("appended update to product %d (tx %s, block %d, gas %d)\n",
		cfg.id, conf.TxHash, conf.BlockNumber, conf.GasUsed)
	return nil
}
