package provenance

import (
	"errors"

	"github.com/tracefoundry/provenance/ipfs"
	"github.com/tracefoundry/provenance/ledger"
)

// ErrContentUnavailable is returned by History when a record exists on
// the ledger but its primary descriptive document cannot be resolved. The
// record's existence fact is still true; the product just cannot be
// verified without its document.
var ErrContentUnavailable = errors.New("provenance: primary document unavailable")

// Errors re-exported from ledger.
var (
	// ErrRecordNotFound is returned when the ledger has no record for an id.
	ErrRecordNotFound = ledger.ErrRecordNotFound

	// ErrCreationUnconfirmed is returned when a confirmed create
	// transaction carries no creation event.
	ErrCreationUnconfirmed = ledger.ErrCreationUnconfirmed

	// ErrTransactionReverted is returned when a mined write failed.
	ErrTransactionReverted = ledger.ErrTransactionReverted
)

// Errors re-exported from ipfs.
var (
	// ErrInvalidAddress is returned for an empty or malformed content address.
	ErrInvalidAddress = ipfs.ErrInvalidAddress

	// ErrResolutionExhausted is returned when every gateway failed for an
	// address.
	ErrResolutionExhausted = ipfs.ErrResolutionExhausted
)
