// Package app assembles the vault, gallery and proxy from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AlexZinkM/nftvault/internal/auth"
	"github.com/AlexZinkM/nftvault/internal/client"
	"github.com/AlexZinkM/nftvault/internal/config"
	"github.com/AlexZinkM/nftvault/internal/signer"
	"github.com/AlexZinkM/nftvault/nft"
	"github.com/AlexZinkM/nftvault/vault"
)

// ErrNoSignerConfigured means neither KEY_FILE_PATH nor SIGNER_RPC_URL is set
var ErrNoSignerConfigured = errors.New("no signer configured: set KEY_FILE_PATH or SIGNER_RPC_URL")

const proxyTimeout = 60 * time.Second

// OpenSigner opens the configured wallet. A local key file wins over a remote wallet.
// The key file password must already be in memory (config.PromptForPassword).
// The returned close func is never nil.
func OpenSigner(ctx context.Context) (signer.Signer, func(), error) {
	if path := config.GetKeyFilePath(); path != "" {
		password, err := config.GetKeyFilePasswordBytes()
		if err != nil {
			return nil, func() {}, err
		}
		defer clear(password)

		local, err := signer.LoadLocalSigner(path, password)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to load key file: %w", err)
		}
		slog.Info("local signer loaded", "address", local.Address().Hex())
		return local, func() {}, nil
	}

	if url := config.GetSignerRPCURL(); url != "" {
		remote, err := signer.DialRPCSigner(ctx, url)
		if err != nil {
			return nil, func() {}, err
		}
		slog.Info("remote signer connected", "address", remote.Address().Hex())
		return remote, remote.Close, nil
	}

	return nil, func() {}, ErrNoSignerConfigured
}

// NewCatalog loads TOKENS_FILE, or the built-in catalog when unset
func NewCatalog() (*vault.Catalog, error) {
	if path := config.GetTokensFile(); path != "" {
		return vault.LoadCatalog(path)
	}
	return vault.NewCatalog(vault.DefaultTokens)
}

// NewPipeline builds the download pipeline. Strategies passed in opts come first,
// then the IPFS node API when configured, then the storage gateway.
func NewPipeline(opts ...vault.Option) (*vault.Pipeline, error) {
	policy, err := auth.NewPolicy(config.GetAuthorizedAddresses())
	if err != nil {
		return nil, err
	}

	if endpoint := config.GetIPFSAPIURL(); endpoint != "" {
		opts = append(opts, vault.WithStrategies(client.NewIPFSAPIFetcher(endpoint)))
	}

	return vault.NewPipeline(policy, config.GetStorageGateway(), opts...), nil
}

// NewGallery dials ETH_RPC_URL; the returned close func releases the connection.
func NewGallery(ctx context.Context) (*nft.Gallery, func(), error) {
	eth, err := client.DialEthereum(ctx, config.GetEthRPCURL())
	if err != nil {
		return nil, nil, err
	}
	gallery := nft.NewGallery(eth, client.NewMetadataClient(config.GetIPFSGateway()))
	return gallery, eth.Close, nil
}

// NewProxyClient returns the HTTP client the CORS proxy uses upstream
func NewProxyClient() *http.Client {
	return &http.Client{Timeout: proxyTimeout}
}
