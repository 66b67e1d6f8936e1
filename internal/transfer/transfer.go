// Package transfer writes downloaded files to disk.
//
// A download goes to a temporary file next to the destination and is renamed
// into place only when the fetch succeeds. The temporary file is closed and
// removed on every other path.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FetchFunc streams the remote file into w.
type FetchFunc func(ctx context.Context, w io.Writer) (int64, error)

// Save stores the fetched content as dir/filename and returns the final path.
// Only the base name of filename is used.
func Save(ctx context.Context, dir, filename string, fetch FetchFunc) (path string, err error) {
	name := SafeName(filename)
	if name == "" {
		return "", errors.New("download file name is empty")
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.part")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	closed := false

	defer func() {
		if !closed {
			tmp.Close()
		}
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = fetch(ctx, tmp); err != nil {
		return "", err
	}

	closed = true
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temporary file: %w", err)
	}

	path = filepath.Join(dir, name)
	if err = os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("moving download into place: %w", err)
	}

	return path, nil
}

// SafeName strips directories from a server supplied file name.
func SafeName(filename string) string {
	name := strings.TrimSpace(filename)
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
