package ledger

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// Created is a decoded ProductCreated event.
type Created struct {
	ID             uint64
	ContentAddress string
	Author         common.Address
	CreatedAt      time.Time
	Raw            types.Log
}

// Updated is a decoded ProductUpdated event.
type Updated struct {
	ID             uint64
	ContentAddress string
	OccurredAt     time.Time
	Raw            types.Log
}

// WatchCreated streams ProductCreated events into sink until the
// subscription is cancelled or fails. The returned subscription's Err
// channel reports the terminal error, if any.
func (c *Client) WatchCreated(ctx context.Context, sink chan<- Created) (event.Subscription, error) {
	logs, sub, err := c.contract.WatchLogs(&bind.WatchOpts{Context: ctx}, eventProductCreated)
	if err != nil {
		return nil, err
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case lg := <-logs:
				var ev productCreatedEvent
				if err := c.contract.UnpackLog(&ev, eventProductCreated, lg); err != nil {
					return err
				}
				out := Created{
					ID:             ev.Id.Uint64(),
					ContentAddress: ev.IpfsHash,
					Author:         ev.Manufacturer,
					CreatedAt:      time.Unix(ev.Timestamp.Int64(), 0).UTC(),
					Raw:            lg,
				}
				select {
				case sink <- out:
				case <-quit:
					return nil
				}
			case err := <-sub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}

// WatchUpdated streams ProductUpdated events into sink until the
// subscription is cancelled or fails.
func (c *Client) WatchUpdated(ctx context.Context, sink chan<- Updated) (event.Subscription, error) {
	logs, sub, err := c.contract.WatchLogs(&bind.WatchOpts{Context: ctx}, eventProductUpdated)
	if err != nil {
		return nil, err
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case lg := <-logs:
				var ev productUpdatedEvent
				if err := c.contract.UnpackLog(&ev, eventProductUpdated, lg); err != nil {
					return err
				}
				out := Updated{
					ID:             ev.Id.Uint64(),
					ContentAddress: ev.IpfsHash,
					OccurredAt:     time.Unix(ev.Timestamp.Int64(), 0).UTC(),
					Raw:            lg,
				}
				select {
				case sink <- out:
				case <-quit:
					return nil
				}
			case err := <-sub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}
