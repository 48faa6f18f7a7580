package common

import (
	"strings"
)

const (
	hexPrefix    = "0x"
	ipfsScheme   = "ipfs://"
	ipfsPathPart = "ipfs/"
)

// NormalizeCID strips exactly one leading "0x" from an identifier.
// Example: NormalizeCID("0x0xab") = "0xab", NormalizeCID("bafy...") = "bafy..."
func NormalizeCID(id string) string {
	return strings.TrimPrefix(id, hexPrefix)
}

// GatewayURL joins a gateway base URL and a content identifier.
// A missing trailing slash on the base is added.
func GatewayURL(gateway, id string) string {
	if gateway != "" && !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	return gateway + id
}

// RewriteIPFSURL turns "ipfs://<cid>/<path>" (and the legacy "ipfs://ipfs/<cid>")
// into an HTTPS URL on the given gateway. Other URLs are returned unchanged.
func RewriteIPFSURL(uri, gateway string) string {
	if !strings.HasPrefix(uri, ipfsScheme) {
		return uri
	}
	rest := strings.TrimPrefix(uri, ipfsScheme)
	rest = strings.TrimPrefix(rest, ipfsPathPart)
	return GatewayURL(gateway, rest)
}
