// Package ledger adapts the on-chain SupplyChain contract into the thin
// read and write surfaces the provenance engine needs.
//
// The ledger is the source of truth for product identity and the
// append-only index of update pointers; everything descriptive lives in
// the content store. Reads are stateless pass-throughs with no internal
// retry. Writes await confirmation and extract their results from emitted
// events, and are never resubmitted automatically: a ledger write is not
// idempotent from the caller's point of view.
package ledger

import (
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Backend is the subset of an Ethereum client the adapter needs.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Record is a product's canonical on-chain anchor. It is created exactly
// once and immutable thereafter; descriptive fields live in the document
// at ContentAddress.
type Record struct {
	// ID is the ledger-assigned product identifier (positive).
	ID uint64

	// ContentAddress points at the primary descriptive document.
	ContentAddress string

	// Author is the account that created the record.
	Author common.Address

	// CreatedAt is the ledger timestamp of creation.
	CreatedAt time.Time
}

// Confirmation describes a mined, successful write.
type Confirmation struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}

// Client exposes the contract's read and write surfaces.
//
// Reads work with only a backend. Writes additionally require a signer
// configured via [WithTransactor]; without one they fail with
// [ErrNoTransactor].
type Client struct {
	contract *bind.BoundContract
	backend  Backend
	abi      abi.ABI
	signer   *bind.TransactOpts
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransactor enables the write surface using the given signing options.
// Obtain one from bind.NewKeyedTransactorWithChainID or a wallet
// integration.
func WithTransactor(signer *bind.TransactOpts) ClientOption {
	return func(c *Client) {
		c.signer = signer
	}
}

// WithLogger sets a logger for write confirmations. If nil, logs are
// discarded.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// New binds the SupplyChain contract at address over the given backend.
func New(address common.Address, backend Backend, opts ...ClientOption) (*Client, error) {
	parsed, err := contractABI()
	if err != nil {
		return nil, err
	}
	c := &Client{
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:  backend,
		abi:      parsed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}
