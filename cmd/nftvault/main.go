package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AlexZinkM/nftvault/internal/config"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// startServer is a variable to allow mocking in tests
var startServer = runServer

// Run dispatches a subcommand and returns the process exit code
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		return startServer(stderr)
	}

	switch args[1] {
	case "serve", "server":
		return startServer(stderr)
	case "keygen":
		return runKeygenCmd(args[2:], stdout, stderr)
	case "passwd":
		return runPasswdCmd(args[2:], stdout, stderr)
	case "download":
		return runDownloadCmd(args[2:], stdout, stderr)
	case "seal":
		return runSealCmd(args[2:], stdout, stderr)
	case "nfts":
		return runNFTsCmd(args[2:], stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nftvault <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the HTTP API (default)")
	fmt.Fprintln(w, "  keygen     Create a local signer key file (-out)")
	fmt.Fprintln(w, "  passwd     Change a key file password (-file)")
	fmt.Fprintln(w, "  download   Unlock a token's file (-token, -at, -out)")
	fmt.Fprintln(w, "  seal       Encrypt a file for a token (-token, -in, -at)")
	fmt.Fprintln(w, "  nfts       List ERC-721 tokens owned by an address (-contract, -owner)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Configuration is read from the environment (PORT, IPFS_GATEWAY, KEY_FILE_PATH, ...).")
}

// initConfig loads the environment and installs the default logger
func initConfig(stderr io.Writer, json bool) error {
	if err := config.Init(); err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: config.GetLogLevel()}
	var h slog.Handler = slog.NewTextHandler(stderr, opts)
	if json {
		h = slog.NewJSONHandler(stderr, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}
