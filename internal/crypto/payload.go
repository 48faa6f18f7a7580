package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PayloadNonceSize is the length of the nonce prefix of an encrypted payload
const PayloadNonceSize = 12

var (
	// ErrPayloadTooShort means the decoded payload cannot hold a nonce and a tag
	ErrPayloadTooShort = errors.New("payload too short")
	// ErrDecrypt means the GCM tag did not authenticate
	ErrDecrypt = errors.New("decryption failed")
)

// DeriveKey hashes the signature text itself (as returned by the signer, "0x"-hex included)
// into a 32-byte AES-256 key.
func DeriveKey(signature string) []byte {
	sum := sha256.Sum256([]byte(signature))
	return sum[:]
}

// DecryptPayload decodes a base64 payload laid out as nonce(12) || ciphertext || tag
// and opens it with key.
func DecryptPayload(key []byte, payloadB64 string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payloadB64))
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	if len(raw) <= PayloadNonceSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooShort, len(raw))
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext := raw[:PayloadNonceSize], raw[PayloadNonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}

// EncryptPayload seals plaintext with a random nonce and returns the base64 payload.
func EncryptPayload(key, plaintext []byte) (string, error) {
	nonce := make([]byte, PayloadNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return SealPayload(key, nonce, plaintext)
}

// SealPayload seals plaintext with the given nonce.
func SealPayload(key, nonce, plaintext []byte) (string, error) {
	if len(nonce) != PayloadNonceSize {
		return "", fmt.Errorf("invalid nonce length: %d", len(nonce))
	}
	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}
	out := make([]byte, 0, PayloadNonceSize+len(plaintext)+aesGCM.Overhead())
	out = append(out, nonce...)
	out = aesGCM.Seal(out, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(out), nil
}
