package model

import (
	"errors"
	"fmt"
)

// Token is a statically configured encrypted asset gated behind a wallet signature.
type Token struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	CID      string `json:"cid" yaml:"cid"`
	FileName string `json:"fileName" yaml:"fileName"`
}

// Validate checks that a catalog entry is usable.
// An empty CID is allowed here; the download pipeline rejects it before fetching.
func (t Token) Validate() error {
	if t.ID == "" {
		return errors.New("token id is required")
	}
	if t.FileName == "" {
		return fmt.Errorf("token %s: fileName is required", t.ID)
	}
	return nil
}

// TokenListResponse represents response for GET /vault/tokens
type TokenListResponse struct {
	Tokens []Token `json:"tokens"`
}

// LogResponse represents response for GET /vault/logs
type LogResponse struct {
	SessionID string   `json:"sessionId"`
	Address   string   `json:"address,omitempty"`
	Lines     []string `json:"lines"`
}
