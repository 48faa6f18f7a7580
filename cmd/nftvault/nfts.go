package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/AlexZinkM/nftvault/internal/app"
)

const nftsTimeout = 2 * time.Minute

func runNFTsCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("nfts", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	contract := cmd.String("contract", "", "ERC-721 contract address")
	owner := cmd.String("owner", "", "Owner address")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if *contract == "" || *owner == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -contract and -owner are required")
		return 2
	}

	if err := initConfig(stderr, false); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), nftsTimeout)
	defer cancel()

	gallery, closeGallery, err := app.NewGallery(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeGallery()

	resp, err := gallery.ListOwned(ctx, *contract, *owner)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
	return 0
}
