// Package provenance reconstructs the verifiable history of a physical
// product from two complementary sources: a terse, tamper-evident anchor
// on a blockchain ledger, and descriptive JSON documents in a
// content-addressed store reached through untrusted public gateways.
//
// This package provides the high-level [Client]. The ledger adapter lives
// in the [ledger] subpackage; gateway resolution and session caching live
// in the [ipfs] subpackage.
//
// # Quick Start
//
// Assemble a product's history over a public RPC endpoint:
//
//	backend, err := ethclient.Dial("https://sepolia.example/rpc")
//	if err != nil {
//	    return err
//	}
//	chain, err := ledger.New(contractAddr, backend)
//	if err != nil {
//	    return err
//	}
//	c, err := provenance.NewClient(provenance.WithLedger(chain))
//	if err != nil {
//	    return err
//	}
//	view, err := c.History(ctx, 42)
//
// # Failure semantics
//
// The primary record and its descriptive document are an all-or-nothing
// gate: a product whose anchor exists but whose primary document cannot be
// resolved fails with [ErrContentUnavailable]. Update documents are
// best-effort: unresolvable updates become [Omission] notes on the
// returned [ProvenanceView] rather than failing the call.
//
// # Caching
//
// Resolved documents are memoized for the session, keyed by content
// address. That is safe because content at an address never changes, and
// it is only an optimization: the cache is never a source of truth, and a
// miss simply re-resolves.
package provenance
