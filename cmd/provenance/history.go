package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/tracefoundry/provenance"
	"github.com/tracefoundry/provenance/ipfs"
	"github.com/tracefoundry/provenance/ledger"
)

type historyConfig struct {
	rpc      string
	contract string
	id       uint64
	timeout  time.Duration
	verbose  bool
}

func runHistory(args []string) error {
	cfg := historyConfig{timeout: ipfs.DefaultAttemptTimeout}

	fs := flag.NewFlagSet("history", flag.ExitOnError)
	fs.StringVar(&cfg.rpc, "rpc", "", "Ethereum RPC endpoint (required)")
	fs.StringVar(&cfg.contract, "contract", "", "contract address (required)")
	fs.Uint64Var(&cfg.id, "id", 0, "product id (required)")
	fs.DurationVar(&cfg.timeout, "timeout", cfg.timeout, "per-gateway attempt timeout")
	fs.BoolVar(&cfg.verbose, "verbose", false, "log resolution progress")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.rpc == "" || cfg.contract == "" {
		return errors.New("--rpc and --contract are required")
	}
	if cfg.id == 0 {
		return errors.New("--id is required")
	}

	return history(&cfg)
}

func history(cfg *historyConfig) error {
	ctx := context.Background()

	backend, err := ethclient.DialContext(ctx, cfg.rpc)
	if err != nil {
		return fmt.Errorf("dial %s: %w", cfg.rpc, err)
	}
	defer backend.Close()

	var logger *slog.Logger
	if cfg.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	chain, err := ledger.New(common.HexToAddress(cfg.contract), backend, ledger.WithLogger(logger))
	if err != nil {
		return err
	}
	resolver := ipfs.NewResolver(
		ipfs.WithAttemptTimeout(cfg.timeout),
		ipfs.WithLogger(logger),
	)
	c, err := provenance.NewClient(
		provenance.WithLedger(chain),
		provenance.WithResolver(resolver),
		provenance.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	view, err := c.History(ctx, cfg.id)
	if err != nil {
		return fmt.Errorf("history for product %d: %w", cfg.id, err)
	}

	if n := view.Omitted(); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d update(s) omitted\n", n)
	}
	return printJSON(view)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
