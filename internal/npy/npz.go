package npy

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// DecodeNPZ parses an NPZ payload (a ZIP archive of NPY members) and returns
// every member array keyed by its name with the ".npy" suffix stripped.
func DecodeNPZ(data []byte) (map[string]*Array, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open NPZ archive: %w", err)
	}

	arrays := make(map[string]*Array, len(reader.File))
	for _, entry := range reader.File {
		name := strings.TrimSuffix(entry.Name, ".npy")

		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open NPZ member %q: %w", name, err)
		}
		buf, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read NPZ member %q: %w", name, err)
		}

		arr, err := Parse(buf)
		if err != nil {
			return nil, fmt.Errorf("NPZ member %q: %w", name, err)
		}
		arrays[name] = arr
	}

	return arrays, nil
}

// LoadNPZ reads and decodes an NPZ file from disk.
func LoadNPZ(path string) (map[string]*Array, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read NPZ file %s: %w", path, err)
	}

	arrays, err := DecodeNPZ(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return arrays, nil
}
