// Package vault unlocks token-gated encrypted files: an authorized wallet signs a
// challenge, the signature is hashed into an AES-GCM key, and the payload fetched by
// content identifier is decrypted and saved.
package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlexZinkM/nftvault/internal/auth"
	"github.com/AlexZinkM/nftvault/internal/client"
	"github.com/AlexZinkM/nftvault/internal/crypto"
	"github.com/AlexZinkM/nftvault/internal/model"
	"github.com/AlexZinkM/nftvault/internal/session"
	"github.com/AlexZinkM/nftvault/internal/signer"
)

var (
	// ErrNoSigner means no wallet is connected
	ErrNoSigner = errors.New("wallet not connected")
	// ErrUnauthorized means the connected address is not on the allow-list
	ErrUnauthorized = errors.New("address is not authorized")
	// ErrEmptyCID means the token has no content identifier configured
	ErrEmptyCID = errors.New("token has no content identifier")
	// ErrFetch wraps every payload fetch failure
	ErrFetch = errors.New("failed to fetch payload")
	// ErrSave wraps saver failures
	ErrSave = errors.New("failed to save")
)

// Pipeline runs challenge -> sign -> derive -> fetch -> decrypt -> save.
type Pipeline struct {
	policy *auth.Policy
	// strategies are tried before the gateway, highest priority first
	strategies []client.Fetcher
	gateway    string
	saver      Saver
	now        func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithStrategies prepends fetch strategies (injected storage clients, IPFS node API)
// ahead of the gateway fallback. Nil strategies are ignored.
func WithStrategies(fetchers ...client.Fetcher) Option {
	return func(p *Pipeline) {
		for _, f := range fetchers {
			if f != nil {
				p.strategies = append(p.strategies, f)
			}
		}
	}
}

// WithSaver sets where plaintext goes; without it Download only returns the bytes
func WithSaver(s Saver) Option {
	return func(p *Pipeline) {
		p.saver = s
	}
}

// WithClock overrides the challenge timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline that falls back to gateway for payloads
func NewPipeline(policy *auth.Policy, gateway string, opts ...Option) *Pipeline {
	p := &Pipeline{
		policy:  policy,
		gateway: gateway,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Strategies returns the configured fetch strategies in priority order.
// The gateway fallback is added per call and is not included.
func (p *Pipeline) Strategies() []client.Fetcher {
	return append([]client.Fetcher(nil), p.strategies...)
}

// fetcher builds the strategy chain for one call; a session gateway override
// replaces the configured gateway.
func (p *Pipeline) fetcher(st *session.State) client.Fetcher {
	gateway := p.gateway
	if override := st.Gateway(); override != "" {
		gateway = override
	}
	chain := append([]client.Fetcher(nil), p.strategies...)
	chain = append(chain, client.NewGatewayFetcher(gateway))
	return client.NewChainFetcher(chain...)
}

// Authorize checks a signer is connected and allowed, without signing anything.
func (p *Pipeline) Authorize(st *session.State) (signer.Signer, error) {
	sg := st.Signer()
	if sg == nil {
		return nil, ErrNoSigner
	}
	if !p.policy.Allows(sg.Address().Hex()) {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, sg.Address().Hex())
	}
	return sg, nil
}

// Download unlocks token for the session's signer and returns the plaintext.
// Every step is logged to the session; the first failure aborts the rest and is
// logged as well.
func (p *Pipeline) Download(ctx context.Context, st *session.State, token model.Token) ([]byte, error) {
	return p.DownloadTo(ctx, st, token, p.saver)
}

// DownloadTo is Download with a per-call saver; a nil saver skips the save step.
func (p *Pipeline) DownloadTo(ctx context.Context, st *session.State, token model.Token, saver Saver) ([]byte, error) {
	plaintext, err := p.download(ctx, st, token, saver)
	if err != nil {
		st.Logf("Error: %v", err)
		slog.WarnContext(ctx, "vault download failed", "session", st.ID(), "token", token.ID, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "vault download complete", "session", st.ID(), "token", token.ID, "bytes", len(plaintext))
	return plaintext, nil
}

func (p *Pipeline) download(ctx context.Context, st *session.State, token model.Token, saver Saver) ([]byte, error) {
	sg, err := p.Authorize(st)
	if err != nil {
		return nil, err
	}
	if token.CID == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCID, token.ID)
	}

	challenge := BuildChallenge(token.ID, p.now())
	st.Logf("Requesting signature for token %s", token.ID)
	signature, err := sg.SignMessage(ctx, challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to sign challenge: %w", err)
	}
	st.Logf("Signature received")

	key := crypto.DeriveKey(signature)
	defer clear(key)
	st.Logf("Key derived")

	st.Logf("Fetching payload %s", token.CID)
	payload, err := p.fetcher(st).FetchByIdentifier(ctx, token.CID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	st.Logf("Payload fetched (%d chars)", len(payload))

	plaintext, err := crypto.DecryptPayload(key, payload)
	if err != nil {
		return nil, err
	}
	st.Logf("Decrypted %d bytes", len(plaintext))

	if saver != nil {
		if err := saver.Save(ctx, token.FileName, plaintext); err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrSave, token.FileName, err)
		}
		st.Logf("Saved %s", token.FileName)
	}

	return plaintext, nil
}

// Seal encrypts plaintext under the key the session's signer yields for token at the
// given instant. Download reproduces the key only when its clock returns the same instant.
func (p *Pipeline) Seal(ctx context.Context, st *session.State, token model.Token, plaintext []byte, at time.Time) (string, error) {
	sg, err := p.Authorize(st)
	if err != nil {
		return "", err
	}

	signature, err := sg.SignMessage(ctx, BuildChallenge(token.ID, at))
	if err != nil {
		return "", fmt.Errorf("failed to sign challenge: %w", err)
	}
	key := crypto.DeriveKey(signature)
	defer clear(key)

	payload, err := crypto.EncryptPayload(key, plaintext)
	if err != nil {
		return "", err
	}
	st.Logf("Sealed %d bytes for token %s", len(plaintext), token.ID)
	return payload, nil
}
