package ipfs

import "strings"

// DefaultGateways is the prioritized public gateway list used when no
// custom list is configured. Gateways are tried in order; all are treated
// as equally trustworthy because content is addressed by hash.
var DefaultGateways = []string{
	"https://gateway.pinata.cloud/ipfs",
	"https://ipfs.io/ipfs",
	"https://cloudflare-ipfs.com/ipfs",
}

// GatewayURL formats a content address into a viewable URL on the first
// default gateway.
func GatewayURL(address string) string {
	return DefaultGateways[0] + "/" + address
}

// ValidAddress reports whether a string has the shape of a content address
// from either known prefix family. It is a light sanity check for write
// paths; resolution itself treats addresses as opaque.
func ValidAddress(address string) bool {
	if len(address) <= 40 {
		return false
	}
	return strings.HasPrefix(address, "Qm") || strings.HasPrefix(address, "bafy")
}

func gatewayEndpoint(base, address string) string {
	return strings.TrimSuffix(base, "/") + "/" + address
}
