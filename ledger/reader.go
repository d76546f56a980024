package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Record fetches a product's canonical on-chain anchor.
//
// The contract returns zeroed fields rather than reverting for unknown
// ids; an all-zero author is mapped to [ErrRecordNotFound].
func (c *Client) Record(ctx context.Context, id uint64) (Record, error) {
	var out []any
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getProduct", new(big.Int).SetUint64(id))
	if err != nil {
		return Record{}, fmt.Errorf("get product %d: %w", id, err)
	}

	contentAddress := out[0].(string)
	author := out[1].(common.Address)
	createdAt := out[2].(*big.Int)

	if author == (common.Address{}) {
		return Record{}, fmt.Errorf("product %d: %w", id, ErrRecordNotFound)
	}

	return Record{
		ID:             id,
		ContentAddress: contentAddress,
		Author:         author,
		CreatedAt:      time.Unix(createdAt.Int64(), 0).UTC(),
	}, nil
}

// UpdateCount returns the number of update pointers appended to a product.
func (c *Client) UpdateCount(ctx context.Context, id uint64) (uint64, error) {
	var out []any
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getUpdateCount", new(big.Int).SetUint64(id))
	if err != nil {
		return 0, fmt.Errorf("get update count %d: %w", id, err)
	}
	return out[0].(*big.Int).Uint64(), nil
}

// UpdatePointer returns the content address appended at the given index.
// The index must satisfy 0 <= index < UpdateCount(id); out-of-range
// surfaces the contract's own failure.
func (c *Client) UpdatePointer(ctx context.Context, id, index uint64) (string, error) {
	var out []any
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getUpdateHash",
		new(big.Int).SetUint64(id), new(big.Int).SetUint64(index))
	if err != nil {
		return "", fmt.Errorf("get update %d[%d]: %w", id, index, err)
	}
	return out[0].(string), nil
}

// ProductCount returns the global number of registered products. It feeds
// dashboards only; the resolution engine never needs it.
func (c *Client) ProductCount(ctx context.Context) (uint64, error) {
	var out []any
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "productCount")
	if err != nil {
		return 0, fmt.Errorf("product count: %w", err)
	}
	return out[0].(*big.Int).Uint64(), nil
}

// IsStakeholder reports whether an account is registered as a stakeholder
// allowed to append updates.
func (c *Client) IsStakeholder(ctx context.Context, account common.Address) (bool, error) {
	var out []any
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "stakeholders", account)
	if err != nil {
		return false, fmt.Errorf("stakeholder %s: %w", account, err)
	}
	return out[0].(bool), nil
}
