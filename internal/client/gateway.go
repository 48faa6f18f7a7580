package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AlexZinkM/nftvault/internal/common"
)

const defaultHTTPTimeout = 60 * time.Second

// maxPayloadSize is a variable so tests can lower it
var maxPayloadSize int64 = 256 << 20

var (
	// ErrStatus is wrapped by gateway errors caused by a non-2xx response
	ErrStatus = errors.New("unexpected status")
	// ErrPayloadTooLarge means the payload body exceeded maxPayloadSize
	ErrPayloadTooLarge = errors.New("payload too large")
)

// GatewayFetcher downloads base64 payloads from an HTTP gateway
type GatewayFetcher struct {
	baseURL string
	client  *http.Client
}

// NewGatewayFetcher creates a new gateway fetcher for baseURL (e.g. https://ipfs.io/ipfs/)
func NewGatewayFetcher(baseURL string) *GatewayFetcher {
	return &GatewayFetcher{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// Name identifies the strategy in logs
func (g *GatewayFetcher) Name() string {
	return "gateway " + g.baseURL
}

// FetchByIdentifier issues GET {gateway}{id without 0x} and returns the body as text
func (g *GatewayFetcher) FetchByIdentifier(ctx context.Context, id string) (string, error) {
	url := common.GatewayURL(g.baseURL, common.NormalizeCID(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch payload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch payload: %w %d", ErrStatus, resp.StatusCode)
	}

	body, err := readPayload(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read payload: %w", err)
	}
	return body, nil
}

// readPayload reads at most maxPayloadSize bytes and fails instead of truncating
func readPayload(r io.Reader) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxPayloadSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > maxPayloadSize {
		return "", fmt.Errorf("%w: more than %d bytes", ErrPayloadTooLarge, maxPayloadSize)
	}
	return strings.TrimSpace(string(body)), nil
}
