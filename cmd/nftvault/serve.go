package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/nftvault/internal/api"
	"github.com/AlexZinkM/nftvault/internal/app"
	"github.com/AlexZinkM/nftvault/internal/config"
	"github.com/AlexZinkM/nftvault/internal/handler"
	"github.com/AlexZinkM/nftvault/internal/session"
	"github.com/AlexZinkM/nftvault/internal/signer"
)

const shutdownTimeout = 10 * time.Second

func runServer(stderr io.Writer) int {
	if err := initConfig(stderr, true); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handlers := api.Handlers{
		Proxy: handler.NewProxyHandler(config.GetIPFSGateway(), app.NewProxyClient()),
	}

	if cfg.ProxyRateLimit > 0 {
		limiter := api.NewRateLimiter(cfg.ProxyRateLimit, cfg.ProxyRateBurst)
		go limiter.Run(ctx)
		handlers.Limiter = limiter
	}

	vaultHandler, closeSigner, err := newVaultHandler(ctx)
	if err != nil {
		slog.Error("vault setup failed", "error", err)
		return 1
	}
	defer closeSigner()
	handlers.Vault = vaultHandler

	gallery, closeGallery, err := app.NewGallery(ctx)
	if err != nil {
		slog.Warn("nft gallery disabled", "error", err)
	} else {
		defer closeGallery()
		handlers.NFT = handler.NewNFTHandler(gallery)
	}

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           api.SetupRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "gateway", config.GetIPFSGateway())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
		return 1
	}
	return 0
}

// newVaultHandler returns nil without an allow-list. A missing signer leaves the
// vault routes up but connecting answers 503.
func newVaultHandler(ctx context.Context) (*handler.VaultHandler, func(), error) {
	noop := func() {}
	if len(config.GetAuthorizedAddresses()) == 0 {
		slog.Warn("vault disabled: AUTHORIZED_ADDRESSES is empty")
		return nil, noop, nil
	}

	catalog, err := app.NewCatalog()
	if err != nil {
		return nil, noop, err
	}
	pipeline, err := app.NewPipeline()
	if err != nil {
		return nil, noop, err
	}

	if config.GetKeyFilePath() != "" {
		if err := config.PromptForPassword(); err != nil {
			return nil, noop, err
		}
	}

	var connect handler.ConnectFunc
	sg, closeSigner, err := app.OpenSigner(ctx)
	switch {
	case errors.Is(err, app.ErrNoSignerConfigured):
		slog.Warn("no signer configured, downloads will fail until one is set")
	case err != nil:
		return nil, noop, err
	default:
		connect = func(context.Context) (signer.Signer, error) { return sg, nil }
	}

	return handler.NewVaultHandler(pipeline, catalog, session.New(), connect), closeSigner, nil
}
