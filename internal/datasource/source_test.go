package datasource

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSourceFetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.csv")
	if err := os.WriteFile(path, []byte("Building Type\nOffice\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	src := NewFile(path)
	if src.Driver() != DriverFilesystem {
		t.Fatalf("driver = %q", src.Driver())
	}
	if src.Path() != path {
		t.Fatalf("path = %q, want %q", src.Path(), path)
	}
	rc, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "Building Type\nOffice\n" {
		t.Fatalf("data = %q", data)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFile(filepath.Join(t.TempDir(), "absent.csv"))
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFileSourceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFile("ignored.csv").Fetch(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestMemorySourceServesCopies(t *testing.T) {
	src := NewMemory([]byte("v1"))
	if src.Driver() != DriverMemory {
		t.Fatalf("driver = %q", src.Driver())
	}
	rc, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	src.Seed([]byte("v2"))
	data, _ := io.ReadAll(rc)
	if string(data) != "v1" {
		t.Fatalf("in-flight reader should keep serving the old bytes, got %q", data)
	}
	rc2, _ := src.Fetch(context.Background())
	data2, _ := io.ReadAll(rc2)
	if string(data2) != "v2" {
		t.Fatalf("fresh fetch = %q, want v2", data2)
	}
}

func TestOpenFromEnvDefaultsToFilesystem(t *testing.T) {
	t.Setenv("COOLINGCORE_DATA_DRIVER", "")
	t.Setenv("COOLINGCORE_DATA_PATH", "")
	src, err := OpenFromEnv(context.Background())
	if err != nil {
		t.Fatalf("OpenFromEnv: %v", err)
	}
	fs, ok := src.(*FileSource)
	if !ok {
		t.Fatalf("source = %T, want *FileSource", src)
	}
	if fs.Path() != DefaultPath {
		t.Fatalf("path = %q, want %q", fs.Path(), DefaultPath)
	}
}

func TestOpenFromEnvFilesystemPath(t *testing.T) {
	t.Setenv("COOLINGCORE_DATA_DRIVER", "fs")
	t.Setenv("COOLINGCORE_DATA_PATH", "/tmp/custom.csv")
	src, err := OpenFromEnv(context.Background())
	if err != nil {
		t.Fatalf("OpenFromEnv: %v", err)
	}
	if fs, ok := src.(*FileSource); !ok || fs.Path() != "/tmp/custom.csv" {
		t.Fatalf("source = %#v", src)
	}
}

func TestOpenFromEnvRejectsUnknownDriver(t *testing.T) {
	t.Setenv("COOLINGCORE_DATA_DRIVER", "gopher")
	if _, err := OpenFromEnv(context.Background()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpenFromEnvS3RequiresBucket(t *testing.T) {
	t.Setenv("COOLINGCORE_DATA_DRIVER", "s3")
	t.Setenv("COOLINGCORE_DATA_S3_BUCKET", "")
	if _, err := OpenFromEnv(context.Background()); err == nil {
		t.Fatalf("expected error when bucket is unset")
	}
}
