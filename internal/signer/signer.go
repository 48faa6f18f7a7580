// Package signer produces EIP-191 personal_sign signatures for the vault challenge.
package signer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/AlexZinkM/nftvault/internal/crypto"
)

// Signer is a connected wallet.
type Signer interface {
	Address() common.Address
	// SignMessage returns the personal_sign signature of msg as 0x-prefixed hex.
	SignMessage(ctx context.Context, msg string) (string, error)
}

// LocalSigner signs with a secp256k1 key held in memory.
type LocalSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewLocalSigner wraps a private key.
func NewLocalSigner(key *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{key: key, address: ethcrypto.PubkeyToAddress(key.PublicKey)}
}

// LoadLocalSigner unlocks a key file and checks the stored address matches the key.
// password must be []byte for security (caller should zero it after use)
func LoadLocalSigner(filePath string, password []byte) (*LocalSigner, error) {
	keyFile, keyData, err := crypto.DecryptKeyFile(filePath, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt key file: %w", err)
	}
	defer clear(keyData.PrivateKey)

	key, err := ethcrypto.ToECDSA(keyData.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	s := NewLocalSigner(key)
	if !common.IsHexAddress(keyFile.Address) || common.HexToAddress(keyFile.Address) != s.address {
		return nil, errors.New("private key does not match address")
	}
	return s, nil
}

// Address returns the signer's address
func (s *LocalSigner) Address() common.Address {
	return s.address
}

// SignMessage signs msg the way wallets implement personal_sign.
func (s *LocalSigner) SignMessage(ctx context.Context, msg string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sig, err := ethcrypto.Sign(accounts.TextHash([]byte(msg)), s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[ethcrypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// Recover returns the address that produced a personal_sign signature over msg.
func Recover(msg, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid signature: %w", err)
	}
	if len(sig) != ethcrypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length: %d", len(sig))
	}
	v := sig[ethcrypto.RecoveryIDOffset]
	if v == 27 || v == 28 {
		v -= 27
	}
	if v != 0 && v != 1 {
		return common.Address{}, fmt.Errorf("invalid signature v: %d", sig[ethcrypto.RecoveryIDOffset])
	}
	sig[ethcrypto.RecoveryIDOffset] = v

	pub, err := ethcrypto.SigToPub(accounts.TextHash([]byte(msg)), sig)
	if err != nil {
		return common.Address{}, err
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}
