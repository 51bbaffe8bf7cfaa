// Package jsonfile reads and writes whole JSON documents on disk.
package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// Read decodes the document at path into a value of type T.
// A missing file is not an error: fallback is returned with found=false.
func Read[T any](path string, fallback T) (value T, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fallback, false, nil
		}
		return fallback, false, oops.With("path", path, "context", "failed to read document").Wrap(err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return fallback, true, oops.With("path", path, "context", "failed to unmarshal document").Wrap(err)
	}

	return value, true, nil
}

// Write replaces the document at path with v.
// The data goes to a temporary file in the same directory first and is
// renamed over the target, so readers never observe a partial document.
func Write(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return oops.With("path", path, "context", "failed to marshal document").Wrap(err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return oops.With("dir", dir, "context", "failed to create storage directory").Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return oops.With("path", path, "context", "failed to create temp file").Wrap(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return oops.With("path", tmpName, "context", "failed to write temp file").Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return oops.With("path", tmpName, "context", "failed to close temp file").Wrap(err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return oops.With("path", tmpName, "context", "failed to chmod temp file").Wrap(err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return oops.With("path", path, "context", "failed to replace document").Wrap(err)
	}

	return nil
}
