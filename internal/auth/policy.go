// Package auth decides which wallet addresses may unlock vault content.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Policy is an allow-list of EVM addresses.
type Policy struct {
	allowed map[common.Address]struct{}
}

// NewPolicy builds a policy from hex addresses. Empty entries are skipped,
// malformed ones are rejected.
func NewPolicy(addresses []string) (*Policy, error) {
	p := &Policy{allowed: make(map[common.Address]struct{}, len(addresses))}
	for _, raw := range addresses {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("invalid authorized address %q", raw)
		}
		p.allowed[common.HexToAddress(raw)] = struct{}{}
	}
	if len(p.allowed) == 0 {
		return nil, errors.New("authorization policy needs at least one address")
	}
	return p, nil
}

// Allows reports whether addr is on the allow-list. Comparison is case-insensitive
// since both sides are parsed into 20-byte addresses.
func (p *Policy) Allows(addr string) bool {
	if p == nil || !common.IsHexAddress(strings.TrimSpace(addr)) {
		return false
	}
	_, ok := p.allowed[common.HexToAddress(strings.TrimSpace(addr))]
	return ok
}

// Addresses returns the allow-list in checksum form.
func (p *Policy) Addresses() []string {
	out := make([]string, 0, len(p.allowed))
	for a := range p.allowed {
		out = append(out, a.Hex())
	}
	return out
}
