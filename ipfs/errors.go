package ipfs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for content resolution.
var (
	// ErrInvalidAddress is returned when a content address is empty or malformed.
	// It is detected locally and never reaches the network.
	ErrInvalidAddress = errors.New("ipfs: invalid content address")

	// ErrResolutionExhausted is returned when every configured gateway failed
	// for an address. Use errors.As with *ExhaustedError for per-gateway detail.
	ErrResolutionExhausted = errors.New("ipfs: all gateways failed")
)

// Attempt records the outcome of a single gateway attempt.
type Attempt struct {
	// Gateway is the base URL that was tried.
	Gateway string

	// Err is the failure for this attempt: a transport error, a non-2xx
	// status, or a parse failure.
	Err error
}

// ExhaustedError reports that one pass over the gateway list produced no
// well-formed document. It matches ErrResolutionExhausted via errors.Is.
//
// The error is recoverable: a later Resolve call for the same address may
// succeed once a gateway recovers, since failures are never cached.
type ExhaustedError struct {
	// Address is the content address that could not be resolved.
	Address string

	// Attempts holds one entry per gateway, in the order they were tried.
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ipfs: all gateways failed for %q", e.Address)
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "; %s: %v", a.Gateway, a.Err)
	}
	return b.String()
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrResolutionExhausted
}
