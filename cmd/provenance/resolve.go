package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tracefoundry/provenance/ipfs"
)

type gatewayList []string

func (g *gatewayList) String() string { return fmt.Sprint(*g) }

func (g *gatewayList) Set(value string) error {
	*g = append(*g, value)
	return nil
}

type resolveConfig struct {
	address  string
	gateways gatewayList
	timeout  time.Duration
}

func runResolve(args []string) error {
	cfg := resolveConfig{timeout: ipfs.DefaultAttemptTimeout}

	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	fs.StringVar(&cfg.address, "address", "", "content address (required)")
	fs.Var(&cfg.gateways, "gateway", "extra gateway base URL, tried first (repeatable)")
	fs.DurationVar(&cfg.timeout, "timeout", cfg.timeout, "per-gateway attempt timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.address == "" {
		return errors.New("--address is required")
	}

	return resolve(&cfg)
}

func resolve(cfg *resolveConfig) error {
	opts := []ipfs.Option{ipfs.WithAttemptTimeout(cfg.timeout)}
	if len(cfg.gateways) > 0 {
		opts = append(opts, ipfs.WithGateways(append(cfg.gateways, ipfs.DefaultGateways...)...))
	}
	r := ipfs.NewResolver(opts...)

	doc, err := r.Resolve(context.Background(), cfg.address)
	if err != nil {
		var exhausted *ipfs.ExhaustedError
		if errors.As(err, &exhausted) {
			for _, a := range exhausted.Attempts {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", a.Gateway, a.Err)
			}
		}
		return fmt.Errorf("resolve %s: %w", cfg.address, err)
	}

	return printJSON(doc)
}
