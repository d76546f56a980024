package provenance

import (
	"encoding/json"
	"time"

	"github.com/tracefoundry/provenance/ledger"
)

// --- Re-exports from ledger ---

// ProductRecord is a product's canonical on-chain anchor.
type ProductRecord = ledger.Record

// Confirmation describes a mined, successful ledger write.
type Confirmation = ledger.Confirmation

// Status is a supply-chain stage recorded in an update document.
type Status string

// The fixed status enumeration.
const (
	StatusManufactured Status = "Manufactured"
	StatusInTransit    Status = "In Transit"
	StatusAtWarehouse  Status = "At Warehouse"
	StatusAtRetailer   Status = "At Retailer"
	StatusDelivered    Status = "Delivered"
)

// Valid reports whether s is one of the known stages.
func (s Status) Valid() bool {
	switch s {
	case StatusManufactured, StatusInTransit, StatusAtWarehouse, StatusAtRetailer, StatusDelivered:
		return true
	}
	return false
}

// ProductDocument is the primary descriptive document stored at a
// record's content address. The ledger anchors it; the content store
// carries it.
type ProductDocument struct {
	Name         string   `json:"name"`
	Origin       string   `json:"origin"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Manufacturer string   `json:"manufacturer"`
	Timestamp    int64    `json:"timestamp"`
	Images       []string `json:"images,omitempty"`
}

// UpdateDocument is one supply-chain event as stored in the content
// store. Timestamp is client-supplied milliseconds and not validated by
// the ledger; it is advisory, not authoritative.
type UpdateDocument struct {
	Location  string `json:"location"`
	Status    Status `json:"status"`
	Notes     string `json:"notes,omitempty"`
	Timestamp int64  `json:"timestamp"`
	UpdatedBy string `json:"updatedBy"`
}

// UpdateEvent is a resolved update document together with its position in
// the ledger's append-only index.
type UpdateEvent struct {
	UpdateDocument

	// Index is the update's position in the on-chain list (0-based).
	Index uint64 `json:"index"`

	// ContentAddress is the pointer the ledger holds for this update.
	ContentAddress string `json:"contentAddress"`
}

// OccurredAt converts the document's millisecond timestamp.
func (u UpdateEvent) OccurredAt() time.Time {
	return time.UnixMilli(u.Timestamp).UTC()
}

// Omission records one update that could not be resolved. Omissions are
// soft failures: the history call still succeeds without them.
type Omission struct {
	// Index is the position of the omitted update in the on-chain list.
	Index uint64 `json:"index"`

	// ContentAddress is the unresolvable pointer, or empty when the
	// pointer fetch itself failed.
	ContentAddress string `json:"contentAddress,omitempty"`

	// Err is the cause.
	Err error `json:"-"`
}

// MarshalJSON renders the cause as its message.
func (o Omission) MarshalJSON() ([]byte, error) {
	type alias Omission
	return json.Marshal(struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(o), Error: errString(o.Err)})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ProvenanceView is the assembled read model for one product: its anchor
// record, resolved descriptive fields, and ordered update trail.
//
// Updates are sorted by client-supplied occurredAt descending, ties broken
// by ascending ledger index. The view is constructed fresh on every call
// and never persisted.
type ProvenanceView struct {
	Record    ProductRecord   `json:"record"`
	Details   ProductDocument `json:"details"`
	Updates   []UpdateEvent   `json:"updates"`
	Omissions []Omission      `json:"omissions,omitempty"`

	// ResolvedAt is the wall-clock time of assembly.
	ResolvedAt time.Time `json:"resolvedAt"`
}

// Omitted returns the number of updates missing from the view.
func (v *ProvenanceView) Omitted() int {
	return len(v.Omissions)
}
