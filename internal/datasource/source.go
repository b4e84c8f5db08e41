// Package datasource abstracts where the reference-data CSV bytes come
// from: a local file beside the process, seeded memory for tests, or an
// S3 object in deployed environments.
package datasource

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Driver identifies a datasource backend.
type Driver string

// Supported datasource drivers.
const (
	// DriverFilesystem reads the dataset from a local path.
	DriverFilesystem Driver = "fs"
	// DriverMemory serves seeded bytes; test use only.
	DriverMemory Driver = "memory"
	// DriverS3 fetches the dataset object from an S3-compatible store.
	DriverS3 Driver = "s3"
)

// Source produces the raw dataset bytes. Fetch may be called repeatedly;
// each call returns a fresh reader over the current content.
type Source interface {
	Driver() Driver
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// Environment variables:
//
//	COOLINGCORE_DATA_DRIVER=fs|s3 (default fs)
//	COOLINGCORE_DATA_PATH=<path> (fs driver; default ashrae_data.csv)
//	COOLINGCORE_DATA_S3_BUCKET=<bucket> (required for s3)
//	COOLINGCORE_DATA_S3_KEY=<object key> (default ashrae_data.csv)
//	COOLINGCORE_DATA_S3_REGION=<region> (default us-east-1)
//	COOLINGCORE_DATA_S3_ENDPOINT=<url> (optional, for MinIO)
//	COOLINGCORE_DATA_S3_PATH_STYLE=true|false (default false)

// DefaultPath is the dataset file the original deployment shipped next to
// the process.
const DefaultPath = "ashrae_data.csv"

// OpenFromEnv selects and constructs a source from process environment.
func OpenFromEnv(ctx context.Context) (Source, error) {
	driver := Driver(strings.ToLower(os.Getenv("COOLINGCORE_DATA_DRIVER")))
	switch driver {
	case "", DriverFilesystem:
		path := os.Getenv("COOLINGCORE_DATA_PATH")
		if path == "" {
			path = DefaultPath
		}
		return NewFile(path), nil
	case DriverS3:
		return OpenS3FromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown datasource driver %q", driver)
	}
}
