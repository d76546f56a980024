package ledger

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

var (
	contractAddr = common.HexToAddress("0x70ccA07C9b86127Bca4736c2B2F0BFAa3aeb0057")
	authorAddr   = common.HexToAddress("0x00000000000000000000000000000000deadbeef")
)

// fakeBackend is a minimal test double for Backend. Methods are
// configured via function fields; unset methods fail loudly.
type fakeBackend struct {
	CallContractFunc       func(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransactionFunc    func(ctx context.Context, tx *types.Transaction) error
	TransactionReceiptFunc func(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	SubscribeLogsFunc      func(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

var errNotImplemented = errors.New("not implemented in fake backend")

func (b *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if b.CallContractFunc != nil {
		return b.CallContractFunc(ctx, call, blockNumber)
	}
	return nil, errNotImplemented
}

func (b *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if b.SendTransactionFunc != nil {
		return b.SendTransactionFunc(ctx, tx)
	}
	return errNotImplemented
}

func (b *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if b.TransactionReceiptFunc != nil {
		return b.TransactionReceiptFunc(ctx, txHash)
	}
	return nil, errNotImplemented
}

func (b *fakeBackend) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	if b.SubscribeLogsFunc != nil {
		return b.SubscribeLogsFunc(ctx, query, ch)
	}
	return nil, errNotImplemented
}

func (b *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}

func (b *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x01}, nil
}

func (b *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return nil, errNotImplemented
}

func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 0, errNotImplemented
}

func (b *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return nil, errNotImplemented
}

func (b *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return nil, errNotImplemented
}

func (b *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 0, errNotImplemented
}

func (b *fakeBackend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, errNotImplemented
}

// callDispatcher routes eth_call data to per-method handlers using the
// real parsed ABI, so encode/decode round-trips go through the same code
// paths as production calls.
func callDispatcher(t *testing.T, handlers map[string]func() []any) func(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	t.Helper()
	parsed, err := contractABI()
	require.NoError(t, err)

	return func(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
		require.GreaterOrEqual(t, len(call.Data), 4)
		method, err := parsed.MethodById(call.Data[:4])
		require.NoError(t, err)

		handler, ok := handlers[method.Name]
		if !ok {
			t.Fatalf("unexpected contract call %q", method.Name)
		}
		return method.Outputs.Pack(handler()...)
	}
}

// testSigner returns transact options that sign nothing and skip all gas
// negotiation, keeping the fake backend surface small.
func testSigner() *bind.TransactOpts {
	return &bind.TransactOpts{
		From:     authorAddr,
		Nonce:    big.NewInt(1),
		GasPrice: big.NewInt(1),
		GasLimit: 500_000,
		Signer: func(_ common.Address, tx *types.Transaction) (*types.Transaction, error) {
			return tx, nil
		},
	}
}

func newTestClient(t *testing.T, backend *fakeBackend, opts ...ClientOption) *Client {
	t.Helper()
	c, err := New(contractAddr, backend, opts...)
	require.NoError(t, err)
	return c
}

func TestClient_Record(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	backend.CallContractFunc = callDispatcher(t, map[string]func() []any{
		"getProduct": func() []any {
			return []any{validCID, authorAddr, big.NewInt(1_700_000_000)}
		},
	})
	c := newTestClient(t, backend)

	record, err := c.Record(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), record.ID)
	assert.Equal(t, validCID, record.ContentAddress)
	assert.Equal(t, authorAddr, record.Author)
	assert.Equal(t, time.Unix(1_700_000_000, 0).UTC(), record.CreatedAt)
}

func TestClient_Record_NotFoundSentinel(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	backend.CallContractFunc = callDispatcher(t, map[string]func() []any{
		"getProduct": func() []any {
			// The contract returns zeroed fields for unknown ids.
			return []any{"", common.Address{}, big.NewInt(0)}
		},
	})
	c := newTestClient(t, backend)

	_, err := c.Record(context.Background(), 7)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestClient_UpdateCountAndPointer(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	backend.CallContractFunc = callDispatcher(t, map[string]func() []any{
		"getUpdateCount": func() []any { return []any{big.NewInt(3)} },
		"getUpdateHash":  func() []any { return []any{validCID} },
	})
	c := newTestClient(t, backend)

	count, err := c.UpdateCount(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	pointer, err := c.UpdatePointer(context.Background(), 42, 1)
	require.NoError(t, err)
	assert.Equal(t, validCID, pointer)
}

func TestClient_ProductCount(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	backend.CallContractFunc = callDispatcher(t, map[string]func() []any{
		"productCount": func() []any { return []any{big.NewInt(17)} },
	})
	c := newTestClient(t, backend)

	count, err := c.ProductCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(17), count)
}

func TestClient_IsStakeholder(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	backend.CallContractFunc = callDispatcher(t, map[string]func() []any{
		"stakeholders": func() []any { return []any{true} },
	})
	c := newTestClient(t, backend)

	ok, err := c.IsStakeholder(context.Background(), authorAddr)
	require.NoError(t, err)
	assert.True(t, ok)
}

// productCreatedLog builds a receipt log carrying a ProductCreated event.
func productCreatedLog(t *testing.T, id uint64, address string) *types.Log {
	t.Helper()
	parsed, err := contractABI()
	require.NoError(t, err)
	ev := parsed.Events[eventProductCreated]

	data, err := ev.Inputs.NonIndexed().Pack(address, big.NewInt(1_700_000_000))
	require.NoError(t, err)

	return &types.Log{
		Address: contractAddr,
		Topics: []common.Hash{
			ev.ID,
			common.BigToHash(new(big.Int).SetUint64(id)),
			common.BytesToHash(common.LeftPadBytes(authorAddr.Bytes(), 32)),
		},
		Data: data,
	}
}

func writeBackend(receipt func(txHash common.Hash) *types.Receipt) *fakeBackend {
	backend := &fakeBackend{}
	backend.SendTransactionFunc = func(context.Context, *types.Transaction) error { return nil }
	backend.TransactionReceiptFunc = func(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
		return receipt(txHash), nil
	}
	return backend
}

func TestClient_CreateRecord(t *testing.T) {
	t.Parallel()

	backend := writeBackend(func(txHash common.Hash) *types.Receipt {
		return &types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			TxHash:      txHash,
			BlockNumber: big.NewInt(12),
			GasUsed:     60_000,
			Logs:        []*types.Log{productCreatedLog(t, 7, validCID)},
		}
	})
	c := newTestClient(t, backend, WithTransactor(testSigner()))

	id, err := c.CreateRecord(context.Background(), validCID)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
}

func TestClient_CreateRecord_Unconfirmed(t *testing.T) {
	t.Parallel()

	// Mined and successful, but no ProductCreated event in the logs.
	backend := writeBackend(func(txHash common.Hash) *types.Receipt {
		return &types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			TxHash:      txHash,
			BlockNumber: big.NewInt(12),
		}
	})
	c := newTestClient(t, backend, WithTransactor(testSigner()))

	_, err := c.CreateRecord(context.Background(), validCID)
	assert.ErrorIs(t, err, ErrCreationUnconfirmed)
}

func TestClient_CreateRecord_Reverted(t *testing.T) {
	t.Parallel()

	backend := writeBackend(func(txHash common.Hash) *types.Receipt {
		return &types.Receipt{
			Status:      types.ReceiptStatusFailed,
			TxHash:      txHash,
			BlockNumber: big.NewInt(12),
		}
	})
	c := newTestClient(t, backend, WithTransactor(testSigner()))

	_, err := c.CreateRecord(context.Background(), validCID)
	assert.ErrorIs(t, err, ErrTransactionReverted)
	assert.NotErrorIs(t, err, ErrCreationUnconfirmed)
}

func TestClient_CreateRecord_InvalidAddress(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	backend.SendTransactionFunc = func(context.Context, *types.Transaction) error {
		t.Error("invalid addresses must never reach the chain")
		return nil
	}
	c := newTestClient(t, backend, WithTransactor(testSigner()))

	for _, address := range []string{"", "not-a-cid", "Qm"} {
		_, err := c.CreateRecord(context.Background(), address)
		assert.ErrorIs(t, err, ErrInvalidAddress, "address %q", address)
	}
}

func TestClient_Writes_RequireTransactor(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, &fakeBackend{})

	_, err := c.CreateRecord(context.Background(), validCID)
	assert.ErrorIs(t, err, ErrNoTransactor)

	_, err = c.AppendUpdate(context.Background(), 1, validCID)
	assert.ErrorIs(t, err, ErrNoTransactor)

	_, err = c.AddStakeholder(context.Background(), authorAddr)
	assert.ErrorIs(t, err, ErrNoTransactor)
}

func TestClient_AppendUpdate(t *testing.T) {
	t.Parallel()

	backend := writeBackend(func(txHash common.Hash) *types.Receipt {
		return &types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			TxHash:      txHash,
			BlockNumber: big.NewInt(34),
			GasUsed:     42_000,
		}
	})
	c := newTestClient(t, backend, WithTransactor(testSigner()))

	conf, err := c.AppendUpdate(context.Background(), 7, validCID)
	require.NoError(t, err)
	assert.Equal(t, uint64(34), conf.BlockNumber)
	assert.Equal(t, uint64(42_000), conf.GasUsed)
	assert.NotEqual(t, common.Hash{}, conf.TxHash)
}

// fakeSubscription satisfies ethereum.Subscription for watch tests.
type fakeSubscription struct {
	errs chan error
}

func (s *fakeSubscription) Unsubscribe() {}

func (s *fakeSubscription) Err() <-chan error { return s.errs }

func TestClient_WatchCreated(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	var raw chan<- types.Log
	backend.SubscribeLogsFunc = func(_ context.Context, _ ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
		raw = ch
		return &fakeSubscription{errs: make(chan error)}, nil
	}
	c := newTestClient(t, backend)

	sink := make(chan Created, 1)
	sub, err := c.WatchCreated(context.Background(), sink)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	raw <- *productCreatedLog(t, 9, validCID)

	select {
	case ev := <-sink:
		assert.Equal(t, uint64(9), ev.ID)
		assert.Equal(t, validCID, ev.ContentAddress)
		assert.Equal(t, authorAddr, ev.Author)
		assert.Equal(t, time.Unix(1_700_000_000, 0).UTC(), ev.CreatedAt)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}
