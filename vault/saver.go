package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Saver hands decrypted bytes to the user under a suggested file name
type Saver interface {
	Save(ctx context.Context, fileName string, data []byte) error
}

// SaverFunc adapts a function to Saver
type SaverFunc func(ctx context.Context, fileName string, data []byte) error

// Save calls f
func (f SaverFunc) Save(ctx context.Context, fileName string, data []byte) error {
	return f(ctx, fileName, data)
}

// FileSaver writes into a directory. Only the base name of fileName is used.
type FileSaver struct {
	Dir string
}

// Save writes data to Dir/base(fileName) with owner-only permissions
func (s FileSaver) Save(ctx context.Context, fileName string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := filepath.Base(filepath.Clean("/" + fileName))
	if name == "/" || name == "." {
		return errors.New("file name is empty")
	}
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
