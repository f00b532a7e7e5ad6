package imagestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meltforce/fittrack/internal/config"
)

// TestLocalUpload verifies the file is copied under Dir and addressed by /uploads/.
func TestLocalUpload(t *testing.T) {
	src := filepath.Join(t.TempDir(), "Lunch.JPG")
	if err := os.WriteFile(src, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	url, err := (&Local{Dir: dir}).Upload(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "/uploads/food/") || !strings.HasSuffix(url, ".jpg") {
		t.Errorf("url = %q, want /uploads/food/<id>.jpg", url)
	}

	got, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "jpeg bytes" {
		t.Errorf("copied content = %q", got)
	}
}

// TestLocalUploadMissingFile verifies a missing source file is an error.
func TestLocalUploadMissingFile(t *testing.T) {
	if _, err := (&Local{Dir: t.TempDir()}).Upload(context.Background(), "/nonexistent.png"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestMinioURL verifies public object URLs follow endpoint/bucket/object.
func TestMinioURL(t *testing.T) {
	m, err := NewMinio(config.ImagesConfig{MinioEndpoint: "s3.example.com", MinioBucket: "food", MinioSecure: true})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := m.url("food/a.png"), "https://s3.example.com/food/food/a.png"; got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
}

// TestNewProvider verifies provider selection.
func TestNewProvider(t *testing.T) {
	up, err := New(config.ImagesConfig{Provider: "local", LocalDir: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := up.(*Local); !ok {
		t.Errorf("provider = %T, want *Local", up)
	}
	if _, err := New(config.ImagesConfig{Provider: "ftp"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
