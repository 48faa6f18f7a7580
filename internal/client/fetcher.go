package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.uber.org/multierr"
)

// Fetcher resolves a content identifier to a base64 payload
type Fetcher interface {
	Name() string
	FetchByIdentifier(ctx context.Context, id string) (string, error)
}

// StorageClient is any injected storage SDK able to download by identifier
type StorageClient interface {
	Download(ctx context.Context, id string) (string, error)
}

// StorageFetcher adapts a StorageClient to Fetcher
type StorageFetcher struct {
	name   string
	client StorageClient
}

// NewStorageFetcher wraps client under name
func NewStorageFetcher(name string, client StorageClient) *StorageFetcher {
	return &StorageFetcher{name: name, client: client}
}

// Name identifies the strategy in logs
func (s *StorageFetcher) Name() string {
	return s.name
}

// FetchByIdentifier delegates to the storage client
func (s *StorageFetcher) FetchByIdentifier(ctx context.Context, id string) (string, error) {
	return s.client.Download(ctx, id)
}

// ErrNoFetchers is returned by an empty chain
var ErrNoFetchers = errors.New("no fetch strategy configured")

// ChainFetcher tries strategies in priority order until one succeeds
type ChainFetcher struct {
	fetchers []Fetcher
}

// NewChainFetcher builds a chain; nil entries are skipped so optional strategies can be passed as-is
func NewChainFetcher(fetchers ...Fetcher) *ChainFetcher {
	c := &ChainFetcher{}
	for _, f := range fetchers {
		if f != nil {
			c.fetchers = append(c.fetchers, f)
		}
	}
	return c
}

// Name lists the chained strategies
func (c *ChainFetcher) Name() string {
	return fmt.Sprintf("chain of %d", len(c.fetchers))
}

// Fetchers returns the strategies in priority order
func (c *ChainFetcher) Fetchers() []Fetcher {
	return c.fetchers
}

// FetchByIdentifier returns the first successful payload. When every strategy fails the
// individual errors are combined.
func (c *ChainFetcher) FetchByIdentifier(ctx context.Context, id string) (string, error) {
	if len(c.fetchers) == 0 {
		return "", ErrNoFetchers
	}

	var errs error
	for _, f := range c.fetchers {
		if err := ctx.Err(); err != nil {
			return "", multierr.Append(errs, err)
		}
		payload, err := f.FetchByIdentifier(ctx, id)
		if err == nil {
			return payload, nil
		}
		slog.DebugContext(ctx, "fetch strategy failed", "strategy", f.Name(), "id", id, "error", err)
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", f.Name(), err))
	}
	return "", errs
}
