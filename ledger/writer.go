package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ipfs/go-cid"
)

// CreateRecord registers a new product anchored at contentAddress and
// returns the ledger-assigned id.
//
// The id is extracted from the ProductCreated event in the mined receipt.
// A successful receipt without that event fails with
// [ErrCreationUnconfirmed]; a reverted transaction fails with
// [ErrTransactionReverted]. Neither case is retried here — resubmitting a
// ledger write can duplicate state, so the decision belongs to the caller.
func (c *Client) CreateRecord(ctx context.Context, contentAddress string) (uint64, error) {
	if err := validateAddress(contentAddress); err != nil {
		return 0, err
	}

	receipt, err := c.transact(ctx, "createProduct", contentAddress)
	if err != nil {
		return 0, err
	}

	createdID := c.abi.Events[eventProductCreated].ID
	for _, lg := range receipt.Logs {
		if len(lg.Topics) == 0 || lg.Topics[0] != createdID {
			continue
		}
		var ev productCreatedEvent
		if err := c.contract.UnpackLog(&ev, eventProductCreated, *lg); err != nil {
			continue
		}
		c.log().Info("product created", "id", ev.Id, "tx", receipt.TxHash)
		return ev.Id.Uint64(), nil
	}
	return 0, fmt.Errorf("%w: tx %s", ErrCreationUnconfirmed, receipt.TxHash)
}

// AppendUpdate appends a new update pointer to a product's history and
// returns the mined confirmation. The ledger guarantees append-only index
// ordering; the update's own timestamp lives in the document at
// contentAddress and is client-supplied.
func (c *Client) AppendUpdate(ctx context.Context, id uint64, contentAddress string) (*Confirmation, error) {
	if err := validateAddress(contentAddress); err != nil {
		return nil, err
	}

	receipt, err := c.transact(ctx, "updateProduct", new(big.Int).SetUint64(id), contentAddress)
	if err != nil {
		return nil, err
	}
	c.log().Info("product updated", "id", id, "tx", receipt.TxHash)
	return confirmationFrom(receipt), nil
}

// AddStakeholder registers an account allowed to append updates. The
// contract restricts this to its owner.
func (c *Client) AddStakeholder(ctx context.Context, account common.Address) (*Confirmation, error) {
	receipt, err := c.transact(ctx, "addStakeholder", account)
	if err != nil {
		return nil, err
	}
	c.log().Info("stakeholder added", "account", account, "tx", receipt.TxHash)
	return confirmationFrom(receipt), nil
}

// transact submits one contract call and waits for it to be mined.
func (c *Client) transact(ctx context.Context, method string, args ...any) (*types.Receipt, error) {
	if c.signer == nil {
		return nil, ErrNoTransactor
	}

	opts := *c.signer
	opts.Context = ctx

	tx, err := c.contract.Transact(&opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	c.log().Debug("transaction submitted", "method", method, "tx", tx.Hash())

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("%s: await confirmation: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%s: %w: tx %s", method, ErrTransactionReverted, tx.Hash())
	}
	return receipt, nil
}

// validateAddress rejects content addresses that are not decodable CIDs.
// Resolution treats addresses as opaque, but a write is irreversible, so
// the bar is higher before anything reaches the chain.
func validateAddress(address string) error {
	if address == "" {
		return ErrInvalidAddress
	}
	if _, err := cid.Decode(address); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return nil
}

func confirmationFrom(receipt *types.Receipt) *Confirmation {
	return &Confirmation{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}
}
