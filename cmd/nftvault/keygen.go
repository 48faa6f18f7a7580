package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/AlexZinkM/nftvault/internal/config"
	"github.com/AlexZinkM/nftvault/internal/crypto"
	"github.com/AlexZinkM/nftvault/internal/model"
	"github.com/AlexZinkM/nftvault/internal/signer"
)

// readPassword is a variable to allow mocking in tests
var readPassword = config.ReadPassword

func runKeygenCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("keygen", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	out := cmd.String("out", "", "Path of the new key file (must end in "+crypto.KeyFileExt+")")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if *out == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -out is required")
		return 2
	}

	password, err := readNewPassword()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer clear(password)

	resp := model.KeygenResponse{Path: *out}
	address, err := signer.GenerateKeyFile(*out, password)
	code := 0
	switch {
	case signer.IsFileExistsError(err):
		resp.Message = fmt.Sprintf("%s already exists", *out)
		code = 1
	case err != nil:
		resp.Message = err.Error()
		code = 1
	default:
		resp.Success = true
		resp.Message = "key file created"
		resp.Address = address
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
	return code
}

func runPasswdCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("passwd", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	file := cmd.String("file", "", "Key file to re-encrypt")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -file is required")
		return 2
	}

	oldPassword, err := readPassword("Current password: ")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer clear(oldPassword)

	newPassword, err := readNewPassword()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer clear(newPassword)

	if err := crypto.ChangeKeyFilePassword(*file, oldPassword, newPassword); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "Password changed for %s\n", *file)
	return 0
}

func readNewPassword() ([]byte, error) {
	first, err := readPassword("New password: ")
	if err != nil {
		return nil, err
	}
	second, err := readPassword("Repeat password: ")
	if err != nil {
		clear(first)
		return nil, err
	}
	defer clear(second)
	if !bytes.Equal(first, second) {
		clear(first)
		return nil, errors.New("passwords do not match")
	}
	return first, nil
}
