package provenance

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// History assembles the full provenance view for a product.
//
// The anchor record and its primary document are fetched first and gate
// the whole call: a missing record propagates [ErrRecordNotFound]
// unchanged, and an unresolvable primary document fails with
// [ErrContentUnavailable]. Updates are then resolved with bounded
// concurrency; each update that cannot be resolved is omitted from the
// result and recorded on the view rather than failing the call.
//
// Successfully resolved updates are ordered by their client-supplied
// occurredAt timestamp, most recent first, with ties broken by ascending
// ledger index. There is no overall deadline; wrap ctx for one.
func (c *Client) History(ctx context.Context, id uint64) (*ProvenanceView, error) {
	record, err := c.ledger.Record(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := c.resolver.Resolve(ctx, record.ContentAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}
	var details ProductDocument
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %w", ErrContentUnavailable, record.ContentAddress, err)
	}

	count, err := c.ledger.UpdateCount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update count for %d: %w", id, err)
	}

	var (
		mu        sync.Mutex
		updates   = make([]UpdateEvent, 0, count)
		omissions []Omission
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for index := range count {
		g.Go(func() error {
			ev, pointer, err := c.resolveUpdate(gctx, id, index)
			if err != nil {
				// Cancellation is fatal; a single update failing to
				// resolve is not.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.log().Warn("update omitted", "id", id, "index", index, "error", err)
				mu.Lock()
				omissions = append(omissions, Omission{Index: index, ContentAddress: pointer, Err: err})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			updates = append(updates, ev)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortUpdates(updates)
	sort.Slice(omissions, func(i, j int) bool { return omissions[i].Index < omissions[j].Index })

	return &ProvenanceView{
		Record:     record,
		Details:    details,
		Updates:    updates,
		Omissions:  omissions,
		ResolvedAt: time.Now().UTC(),
	}, nil
}

// resolveUpdate fetches one update pointer and resolves its document.
// The pointer is returned even on failure, for omission diagnostics.
func (c *Client) resolveUpdate(ctx context.Context, id, index uint64) (UpdateEvent, string, error) {
	pointer, err := c.ledger.UpdatePointer(ctx, id, index)
	if err != nil {
		return UpdateEvent{}, "", err
	}
	raw, err := c.resolver.Resolve(ctx, pointer)
	if err != nil {
		return UpdateEvent{}, pointer, err
	}
	var doc UpdateDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return UpdateEvent{}, pointer, fmt.Errorf("decode update document: %w", err)
	}
	return UpdateEvent{UpdateDocument: doc, Index: index, ContentAddress: pointer}, pointer, nil
}

// sortUpdates orders by occurredAt descending, ties by ascending ledger
// index. The comparator is total, so the order is deterministic
// regardless of resolution completion order.
func sortUpdates(updates []UpdateEvent) {
	sort.Slice(updates, func(i, j int) bool {
		if updates[i].Timestamp != updates[j].Timestamp {
			return updates[i].Timestamp > updates[j].Timestamp
		}
		return updates[i].Index < updates[j].Index
	})
}
