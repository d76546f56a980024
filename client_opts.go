package provenance

import (
	"errors"
	"log/slog"

	"github.com/tracefoundry/provenance/ipfs"
)

// Option configures a Client.
type Option func(*Client) error

var errNoLedger = errors.New("provenance: a ledger is required")

// WithLedger sets the ledger read surface (required).
func WithLedger(l Ledger) Option {
	return func(c *Client) error {
		if l == nil {
			return errNoLedger
		}
		c.ledger = l
		return nil
	}
}

// WithWriter enables Register and Append. A *ledger.Client constructed
// with ledger.WithTransactor satisfies Writer.
func WithWriter(w Writer) Option {
	return func(c *Client) error {
		c.writer = w
		return nil
	}
}

// WithResolver sets a custom content resolver. If unset, a gateway
// resolver over [ipfs.DefaultGateways] is used.
func WithResolver(r Resolver) Option {
	return func(c *Client) error {
		if r != nil {
			c.resolver = r
		}
		return nil
	}
}

// WithResolveConcurrency bounds concurrent update resolution during
// History. Values < 1 force sequential resolution.
func WithResolveConcurrency(n int) Option {
	return func(c *Client) error {
		if n < 1 {
			n = 1
		}
		c.concurrency = n
		return nil
	}
}

// WithLogger sets a logger, propagated to the default resolver if one is
// created. If nil, logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

func defaultResolver(logger *slog.Logger) Resolver {
	return ipfs.NewResolver(ipfs.WithLogger(logger))
}
