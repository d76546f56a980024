package provenance

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tracefoundry/provenance/ledger"
)

// Ledger is the read surface the assembler needs. *ledger.Client
// satisfies it; tests substitute fakes.
type Ledger interface {
	// Record fetches the canonical anchor, or ledger.ErrRecordNotFound.
	Record(ctx context.Context, id uint64) (ledger.Record, error)

	// UpdateCount returns the length of the append-only update index.
	UpdateCount(ctx context.Context, id uint64) (uint64, error)

	// UpdatePointer returns the content address at an index.
	UpdatePointer(ctx context.Context, id, index uint64) (string, error)
}

// Writer is the write surface. *ledger.Client satisfies it.
type Writer interface {
	// CreateRecord registers a product and returns its assigned id.
	CreateRecord(ctx context.Context, contentAddress string) (uint64, error)

	// AppendUpdate appends an update pointer to a product.
	AppendUpdate(ctx context.Context, id uint64, contentAddress string) (*ledger.Confirmation, error)
}

// Resolver turns a content address into a JSON document. *ipfs.Resolver
// satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, address string) (json.RawMessage, error)
}

// Client assembles provenance views and proxies ledger writes.
type Client struct {
	ledger      Ledger
	writer      Writer
	resolver    Resolver
	concurrency int
	logger      *slog.Logger
}

// DefaultResolveConcurrency bounds how many update documents are resolved
// at once during assembly, to avoid overwhelming public gateways.
const DefaultResolveConcurrency = 6

// NewClient creates a client. A ledger read surface is required; the
// resolver defaults to a gateway resolver with an unbounded session cache.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		concurrency: DefaultResolveConcurrency,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.ledger == nil {
		return nil, errNoLedger
	}
	if c.resolver == nil {
		c.resolver = defaultResolver(c.logger)
	}
	return c, nil
}

// Register anchors a new product at contentAddress and returns the
// ledger-assigned id. The document must already exist in the content
// store; uploading is outside this module.
func (c *Client) Register(ctx context.Context, contentAddress string) (uint64, error) {
	if c.writer == nil {
		return 0, ledger.ErrNoTransactor
	}
	return c.writer.CreateRecord(ctx, contentAddress)
}

// Append adds an update pointer to a product's on-chain history.
func (c *Client) Append(ctx context.Context, id uint64, contentAddress string) (*Confirmation, error) {
	if c.writer == nil {
		return nil, ledger.ErrNoTransactor
	}
	return c.writer.AppendUpdate(ctx, id, contentAddress)
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}
