package signer

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/nftvault/internal/crypto"
	"github.com/AlexZinkM/nftvault/internal/model"
)

const networkEthereum = "ethereum"

// FileExistsError is an error when file already exists and is not empty
type FileExistsError struct {
	Message string
}

func (e *FileExistsError) Error() string {
	return e.Message
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	_, ok := err.(*FileExistsError)
	return ok
}

// GenerateKeyFile creates a new secp256k1 key and saves it to a .cwt file.
// Returns the generated address on success.
// password must be []byte for security (caller should zero it after use)
func GenerateKeyFile(filePath string, password []byte) (address string, err error) {
	if filepath.Ext(filePath) != crypto.KeyFileExt {
		return "", fmt.Errorf("file must have %s extension", crypto.KeyFileExt)
	}

	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return "", &FileExistsError{Message: "file is not empty"}
	}

	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	address = ethcrypto.PubkeyToAddress(key.PublicKey).Hex()

	qrCode, err := generateQRCode(address)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	keyData := &model.KeyData{
		PrivateKey: ethcrypto.FromECDSA(key),
		CreatedAt:  time.Now().Format(time.RFC3339),
	}
	defer clear(keyData.PrivateKey)

	if err := crypto.EncryptKeyFile(filePath, networkEthereum, address, qrCode, keyData, password); err != nil {
		return "", fmt.Errorf("failed to encrypt key: %w", err)
	}

	return address, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
