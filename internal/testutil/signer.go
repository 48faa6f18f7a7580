package testutil

import (
	"context"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
)

// CountingSigner wraps a signer and counts SignMessage calls
type CountingSigner struct {
	Inner interface {
		Address() common.Address
		SignMessage(ctx context.Context, msg string) (string, error)
	}
	Messages []string
	count    atomic.Int32
}

// Address returns the inner signer's address
func (c *CountingSigner) Address() common.Address {
	return c.Inner.Address()
}

// SignMessage records msg and delegates
func (c *CountingSigner) SignMessage(ctx context.Context, msg string) (string, error) {
	c.count.Add(1)
	c.Messages = append(c.Messages, msg)
	return c.Inner.SignMessage(ctx, msg)
}

// Count returns the number of sign requests
func (c *CountingSigner) Count() int {
	return int(c.count.Load())
}
