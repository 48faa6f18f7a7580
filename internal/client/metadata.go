package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/AlexZinkM/nftvault/internal/common"
	"github.com/AlexZinkM/nftvault/internal/model"
)

const (
	maxMetadataSize = 4 << 20
	dataJSONPrefix  = "data:application/json"
)

// MetadataClient fetches ERC-721 metadata documents
type MetadataClient struct {
	gateway string
	client  *http.Client
}

// NewMetadataClient creates a client that rewrites ipfs:// URIs onto gateway
func NewMetadataClient(gateway string) *MetadataClient {
	return &MetadataClient{
		gateway: gateway,
		client: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// ResolveURL rewrites an ipfs:// URI to the gateway; other URIs are left as they are
func (c *MetadataClient) ResolveURL(uri string) string {
	return common.RewriteIPFSURL(uri, c.gateway)
}

// Fetch loads the metadata behind a token URI. Inline data: JSON URIs are decoded directly.
func (c *MetadataClient) Fetch(ctx context.Context, tokenURI string) (*model.TokenMetadata, error) {
	if strings.HasPrefix(tokenURI, dataJSONPrefix) {
		return decodeDataURI(tokenURI)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResolveURL(tokenURI), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get metadata: status %d", resp.StatusCode)
	}

	var meta model.TokenMetadata
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxMetadataSize)).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return &meta, nil
}

// decodeDataURI handles data:application/json[;base64],<payload>
func decodeDataURI(uri string) (*model.TokenMetadata, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri")
	}

	var raw []byte
	if strings.HasSuffix(header, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode data uri: %w", err)
		}
		raw = b
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode data uri: %w", err)
		}
		raw = []byte(s)
	}

	var meta model.TokenMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return &meta, nil
}
