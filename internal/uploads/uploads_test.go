package uploads_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrWong99/parlance/internal/uploads"
)

func TestResolve(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	r := uploads.NewResolver(root)

	cases := []struct {
		ref  string
		want string
	}{
		{"clip.wav", filepath.Join(root, "clip.wav")},
		{"/uploads/audio/7f3c.wav", filepath.Join(root, "7f3c.wav")},
		{"http://example.test/files/a b.wav", filepath.Join(root, "a b.wav")},
		{"  /x/y/z.pcm  ", filepath.Join(root, "z.pcm")},
		{"../../etc/passwd", filepath.Join(root, "passwd")},
	}
	for _, tt := range cases {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := r.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q; want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestResolve_EmptyName(t *testing.T) {
	t.Parallel()
	r := uploads.NewResolver(t.TempDir())

	for _, ref := range []string{"", "   ", "/uploads/", "..", "/a/..", "."} {
		t.Run(ref, func(t *testing.T) {
			_, err := r.Resolve(ref)
			if !errors.Is(err, uploads.ErrEmptyRef) {
				t.Errorf("Resolve(%q) err = %v; want ErrEmptyRef", ref, err)
			}
			if err != nil && !strings.HasPrefix(err.Error(), "uploads:") {
				t.Errorf("error %q should be prefixed with 'uploads:'", err)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "hello.pcm"), []byte("pcm"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := uploads.NewResolver(root)

	f, err := r.Open("/uploads/audio/hello.pcm")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil || string(data) != "pcm" {
		t.Errorf("read %q, %v; want %q", data, err, "pcm")
	}

	if _, err := r.Open("/uploads/audio/missing.pcm"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(missing) err = %v; want fs.ErrNotExist", err)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	if err := uploads.NewResolver(root).Check(context.Background()); err != nil {
		t.Errorf("Check(existing dir): %v", err)
	}
	if err := uploads.NewResolver(filepath.Join(root, "nope")).Check(context.Background()); err == nil {
		t.Error("Check(missing dir) should fail")
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := uploads.NewResolver(file).Check(context.Background()); err == nil {
		t.Error("Check(regular file) should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := uploads.NewResolver(root).Check(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Check(cancelled) err = %v; want context.Canceled", err)
	}
}
