package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AlexZinkM/nftvault/internal/app"
	"github.com/AlexZinkM/nftvault/internal/config"
	"github.com/AlexZinkM/nftvault/internal/model"
	"github.com/AlexZinkM/nftvault/internal/session"
	"github.com/AlexZinkM/nftvault/vault"
)

type sealOutput struct {
	Token   string `json:"token"`
	At      int64  `json:"at"`
	Payload string `json:"payload"`
}

func runDownloadCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("download", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	tokenID := cmd.String("token", "", "Token id from the catalog")
	at := cmd.Int64("at", 0, "Challenge timestamp in unix milliseconds (default: now)")
	out := cmd.String("out", "", "Output directory (default: OUTPUT_DIR)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if *tokenID == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -token is required")
		return 2
	}

	if err := initConfig(stderr, false); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	dir := *out
	if dir == "" {
		dir = config.GetOutputDir()
	}

	catalog, err := app.NewCatalog()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	token, ok := catalog.Lookup(*tokenID)
	if !ok {
		_, _ = fmt.Fprintf(stderr, "Error: unknown token %s\n", *tokenID)
		return 1
	}

	opts := []vault.Option{vault.WithSaver(vault.FileSaver{Dir: dir})}
	if *at != 0 {
		fixed := time.UnixMilli(*at)
		opts = append(opts, vault.WithClock(func() time.Time { return fixed }))
	}
	pipeline, err := app.NewPipeline(opts...)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx := context.Background()
	st, closeSigner, err := connectSession(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeSigner()

	_, err = pipeline.Download(ctx, st, token)
	for _, line := range st.Logs() {
		_, _ = fmt.Fprintln(stdout, line)
	}
	if err != nil {
		return 1
	}
	return 0
}

func runSealCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("seal", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	tokenID := cmd.String("token", "", "Token id the payload is bound to")
	in := cmd.String("in", "", "Plaintext file to encrypt")
	at := cmd.Int64("at", 0, "Challenge timestamp in unix milliseconds (default: now)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if *tokenID == "" || *in == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -token and -in are required")
		return 2
	}

	plaintext, err := os.ReadFile(*in)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: failed to read input: %v\n", err)
		return 1
	}

	if err := initConfig(stderr, false); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	pipeline, err := app.NewPipeline()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx := context.Background()
	st, closeSigner, err := connectSession(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeSigner()

	when := time.Now()
	if *at != 0 {
		when = time.UnixMilli(*at)
	}
	payload, err := pipeline.Seal(ctx, st, model.Token{ID: *tokenID}, plaintext, when)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(sealOutput{Token: *tokenID, At: when.UnixMilli(), Payload: payload})
	return 0
}

// connectSession opens the configured signer and connects a fresh session to it
func connectSession(ctx context.Context) (*session.State, func(), error) {
	if config.GetKeyFilePath() != "" {
		if err := config.PromptForPassword(); err != nil {
			return nil, nil, err
		}
	}
	sg, closeSigner, err := app.OpenSigner(ctx)
	if err != nil {
		return nil, nil, err
	}
	st := session.New()
	st.Connect(sg)
	return st, closeSigner, nil
}
