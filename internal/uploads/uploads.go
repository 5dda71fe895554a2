// Package uploads maps audio references produced by the upload service onto
// files under a local upload root.
//
// A reference is whatever the upload service handed back to the client,
// typically a URL path such as "/uploads/audio/7f3c.wav". Only the part after
// the last '/' is meaningful: it names a file directly under the root.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyRef is returned when a reference names no file.
var ErrEmptyRef = errors.New("uploads: reference names no file")

// Resolver resolves audio references under a fixed root directory. It is
// read-only after construction and safe for concurrent use.
type Resolver struct {
	root string
}

// NewResolver returns a Resolver rooted at dir. The directory is not required
// to exist yet; see [Resolver.Check].
func NewResolver(dir string) *Resolver {
	return &Resolver{root: filepath.Clean(dir)}
}

// Root returns the cleaned upload root.
func (r *Resolver) Root() string { return r.root }

// Resolve returns the local path for ref. The result always lies directly
// inside the root; references whose final segment is empty, "." or ".." are
// rejected with [ErrEmptyRef]. Resolve does not touch the filesystem.
func (r *Resolver) Resolve(ref string) (string, error) {
	name := strings.TrimSpace(ref)
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrEmptyRef, ref)
	}

	joined := filepath.Join(r.root, name)
	if filepath.Dir(joined) != r.root {
		return "", fmt.Errorf("uploads: reference %q escapes the upload root", ref)
	}
	return joined, nil
}

// Open resolves ref and opens the file for reading. A missing file yields an
// error satisfying errors.Is(err, fs.ErrNotExist).
func (r *Resolver) Open(ref string) (*os.File, error) {
	path, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("uploads: open %q: %w", ref, err)
	}
	return f, nil
}

// Check reports whether the upload root exists and is a readable directory.
// It is used as a readiness probe.
func (r *Resolver) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("uploads: check: %w", err)
	}
	d, err := os.Open(r.root)
	if err != nil {
		return fmt.Errorf("uploads: open root: %w", err)
	}
	defer d.Close()

	info, err := d.Stat()
	if err != nil {
		return fmt.Errorf("uploads: stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("uploads: root %q is not a directory", r.root)
	}
	return nil
}
