// Package main provides a CLI for inspecting and writing product
// provenance.
//
// Usage:
//
//	provenance history --rpc wss://... --contract 0x... --id 42
//	provenance resolve --address Qm...
//	provenance register --rpc ... --contract 0x... --key <hex> --address Qm...
//	provenance append --rpc ... --contract 0x... --key <hex> --id 42 --address Qm...
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "history":
		err = runHistory(os.Args[2:])
	case "resolve":
		err = runResolve(os.Args[2:])
	case "register":
		err = runRegister(os.Args[2:])
	case "append":
		err = runAppend(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`provenance - product provenance over a supply-chain ledger

Usage:
  provenance <command> [options]

Commands:
  history   Assemble the full provenance view for a product
  resolve   Resolve a content address to its JSON document
  register  Anchor a new product record on the ledger
  append    Append an update pointer to a product

History Options:
  --rpc <url>        Ethereum RPC endpoint (required)
  --contract <addr>  SupplyChain contract address (required)
  --id <n>           Product id (required)
  --timeout <dur>    Per-gateway attempt timeout (default: 5s)
  --verbose          Log resolution progress to stderr

Resolve Options:
  --address <cid>    Content address (required)
  --gateway <url>    Extra gateway base URL, tried first (repeatable)
  --timeout <dur>    Per-gateway attempt timeout (default: 5s)

Register Options:
  --rpc <url>        Ethereum RPC endpoint (required)
  --contract <addr>  SupplyChain contract address (required)
  --key <hex>        Signing key (required; or PROVENANCE_KEY)
  --chain-id <n>     Chain id (default: 1)
  --address <cid>    Content address of the product document (required)

Append Options:
  Same as register, plus --id <n> for the target product.

Examples:
  # Inspect a product, omitting any updates whose documents are gone
  provenance history --rpc wss://sepolia.example --contract 0xabc... --id 42

  # Resolve a document through the default public gateways
  provenance resolve --address QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG`)
}
