package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the key file password is prompted at runtime and stored in memory - use GetKeyFilePasswordBytes()
type Config struct {
	Port                string   `envconfig:"PORT" default:"3000"`
	IPFSGateway         string   `envconfig:"IPFS_GATEWAY" default:"https://ipfs.io/ipfs/"`
	StorageGateway      string   `envconfig:"STORAGE_GATEWAY"`
	IPFSAPIURL          string   `envconfig:"IPFS_API_URL"`
	EthRPCURL           string   `envconfig:"ETH_RPC_URL" default:"https://cloudflare-eth.com"`
	SignerRPCURL        string   `envconfig:"SIGNER_RPC_URL"`
	KeyFilePath         string   `envconfig:"KEY_FILE_PATH"`
	AuthorizedAddresses []string `envconfig:"AUTHORIZED_ADDRESSES"`
	TokensFile          string   `envconfig:"TOKENS_FILE"`
	ProxyRateLimit      int      `envconfig:"PROXY_RATE_LIMIT" default:"10"`
	ProxyRateBurst      int      `envconfig:"PROXY_RATE_BURST" default:"20"`
	LogLevel            string   `envconfig:"LOG_LEVEL" default:"info"`
	OutputDir           string   `envconfig:"OUTPUT_DIR" default:"."`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if c.StorageGateway == "" {
		c.StorageGateway = c.IPFSGateway
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetIPFSGateway returns the upstream gateway used by the proxy and for metadata rewriting
func GetIPFSGateway() string {
	return Get().IPFSGateway
}

// GetStorageGateway returns the gateway used to fetch encrypted payloads
func GetStorageGateway() string {
	return Get().StorageGateway
}

// GetIPFSAPIURL returns the IPFS node API endpoint, empty when not configured
func GetIPFSAPIURL() string {
	return Get().IPFSAPIURL
}

// GetEthRPCURL returns the Ethereum JSON-RPC endpoint used for contract reads
func GetEthRPCURL() string {
	return Get().EthRPCURL
}

// GetSignerRPCURL returns the wallet JSON-RPC endpoint, empty when not configured
func GetSignerRPCURL() string {
	return Get().SignerRPCURL
}

// GetKeyFilePath returns path to the local signer key file
func GetKeyFilePath() string {
	return Get().KeyFilePath
}

// GetAuthorizedAddresses returns the download allow-list
func GetAuthorizedAddresses() []string {
	return Get().AuthorizedAddresses
}

// GetTokensFile returns the token catalog file path, empty for the built-in catalog
func GetTokensFile() string {
	return Get().TokensFile
}

// GetOutputDir returns the directory the CLI saves decrypted files into
func GetOutputDir() string {
	return Get().OutputDir
}

// GetLogLevel parses LOG_LEVEL into a slog level, defaulting to info
func GetLogLevel() slog.Level {
	switch strings.ToLower(Get().LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordBytes []byte

// PromptForPassword prompts the user for the key file password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := ReadPassword("Enter key file password: ")
	if err != nil {
		return err
	}
	passwordBytes = raw
	return nil
}

// ReadPassword prints prompt to stderr and reads a non-empty line without echo.
// Caller must zero the returned slice after use.
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// GetKeyFilePasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetKeyFilePasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
