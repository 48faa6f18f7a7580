package client

import (
	"context"
	"fmt"
	"io"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/AlexZinkM/nftvault/internal/common"
)

// catter is the part of the IPFS shell the fetcher needs
type catter interface {
	Cat(path string) (io.ReadCloser, error)
}

// IPFSAPIFetcher reads payloads from an IPFS node's HTTP API (e.g. http://127.0.0.1:5001)
type IPFSAPIFetcher struct {
	endpoint string
	shell    catter
}

// NewIPFSAPIFetcher creates a fetcher backed by the node at endpoint
func NewIPFSAPIFetcher(endpoint string) *IPFSAPIFetcher {
	sh := shell.NewShell(endpoint)
	sh.SetTimeout(defaultHTTPTimeout)
	return &IPFSAPIFetcher{endpoint: endpoint, shell: sh}
}

// Name identifies the strategy in logs
func (f *IPFSAPIFetcher) Name() string {
	return "ipfs api " + f.endpoint
}

// FetchByIdentifier cats the object and returns its contents as text
func (f *IPFSAPIFetcher) FetchByIdentifier(ctx context.Context, id string) (string, error) {
	type result struct {
		body string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		rc, err := f.shell.Cat(common.NormalizeCID(id))
		if err != nil {
			done <- result{err: fmt.Errorf("failed to cat %s: %w", id, err)}
			return
		}
		defer rc.Close()
		body, err := readPayload(rc)
		if err != nil {
			done <- result{err: fmt.Errorf("failed to read %s: %w", id, err)}
			return
		}
		done <- result{body: body}
	}()

	// the shell's Cat takes no context
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.body, r.err
	}
}
