package signer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPCSigner delegates signing to a wallet exposing eth_accounts and personal_sign over JSON-RPC.
type RPCSigner struct {
	client  *rpc.Client
	address common.Address
}

// DialRPCSigner connects to a wallet endpoint and selects its first account.
func DialRPCSigner(ctx context.Context, url string) (*RPCSigner, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to wallet: %w", err)
	}

	var accounts []common.Address
	if err := client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to list wallet accounts: %w", err)
	}
	if len(accounts) == 0 {
		client.Close()
		return nil, errors.New("wallet exposes no accounts")
	}

	return &RPCSigner{client: client, address: accounts[0]}, nil
}

// Address returns the selected wallet account
func (s *RPCSigner) Address() common.Address {
	return s.address
}

// SignMessage asks the wallet to personal_sign msg.
func (s *RPCSigner) SignMessage(ctx context.Context, msg string) (string, error) {
	var sig hexutil.Bytes
	if err := s.client.CallContext(ctx, &sig, "personal_sign", hexutil.Encode([]byte(msg)), s.address); err != nil {
		return "", fmt.Errorf("wallet refused to sign: %w", err)
	}
	return hexutil.Encode(sig), nil
}

// Close disconnects from the wallet
func (s *RPCSigner) Close() {
	s.client.Close()
}
