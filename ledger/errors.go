package ledger

import "errors"

// Sentinel errors for ledger operations.
var (
	// ErrRecordNotFound is returned when the ledger reports no record for
	// an id. The contract's sentinel for non-existence is an all-zero
	// author address.
	ErrRecordNotFound = errors.New("ledger: record not found")

	// ErrCreationUnconfirmed is returned when a create transaction was
	// mined successfully but its receipt carries no ProductCreated event,
	// so no assigned id can be extracted. Distinct from the transaction
	// itself failing.
	ErrCreationUnconfirmed = errors.New("ledger: creation event not found in confirmed transaction")

	// ErrTransactionReverted is returned when a mined write transaction
	// has a failed status.
	ErrTransactionReverted = errors.New("ledger: transaction reverted")

	// ErrInvalidAddress is returned when a content address fails
	// validation before a write is submitted. Writes are irreversible, so
	// a malformed address must never reach the chain.
	ErrInvalidAddress = errors.New("ledger: invalid content address")

	// ErrNoTransactor is returned by write operations on a read-only
	// client.
	ErrNoTransactor = errors.New("ledger: no transactor configured")
)
