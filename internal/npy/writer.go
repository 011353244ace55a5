package npy

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
)

// Encode serializes an array as a version 1.0 NPY buffer: little-endian
// float32, C order, header padded with spaces to a 64-byte multiple and
// terminated with a newline.
func Encode(arr *Array) ([]byte, error) {
	count := 1
	for _, d := range arr.Shape {
		if d < 0 {
			return nil, fmt.Errorf("npy: negative shape dimension %d", d)
		}
		count *= d
	}
	if len(arr.Data) != count {
		return nil, fmt.Errorf("npy: shape %v expects %d elements, got %d", arr.Shape, count, len(arr.Data))
	}

	dims := make([]string, len(arr.Shape))
	for i, d := range arr.Shape {
		dims[i] = fmt.Sprintf("%d", d)
	}
	tuple := "(" + strings.Join(dims, ", ") + ")"
	if len(arr.Shape) == 1 {
		tuple = fmt.Sprintf("(%d,)", arr.Shape[0])
	}

	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': %s, }", tuple)
	// 10 bytes of preamble + header + final \n, padded to a 64-byte boundary.
	total := 10 + len(header) + 1
	pad := (64 - total%64) % 64
	header += strings.Repeat(" ", pad) + "\n"

	buf := &bytes.Buffer{}
	buf.Write(magic)
	buf.WriteByte(1)
	buf.WriteByte(0)
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	for _, v := range arr.Data {
		_ = binary.Write(buf, binary.LittleEndian, math.Float32bits(v))
	}

	return buf.Bytes(), nil
}

// EncodeNPZ packs named arrays into an NPZ (ZIP) payload. Members are stored
// uncompressed with a ".npy" suffix, in name order for determinism.
func EncodeNPZ(arrays map[string]*Array) ([]byte, error) {
	if len(arrays) == 0 {
		return nil, errors.New("npy: no arrays to encode")
	}

	names := make([]string, 0, len(arrays))
	for name := range arrays {
		if strings.TrimSpace(name) == "" {
			return nil, errors.New("npy: array name must not be empty")
		}
		names = append(names, name)
	}
	sort.Strings(names)

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, name := range names {
		payload, err := Encode(arrays[name])
		if err != nil {
			return nil, fmt.Errorf("npy: member %q: %w", name, err)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{Name: name + ".npy", Method: zip.Store})
		if err != nil {
			return nil, fmt.Errorf("npy: create member %q: %w", name, err)
		}
		if _, err := w.Write(payload); err != nil {
			return nil, fmt.Errorf("npy: write member %q: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("npy: finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteNPZ writes named arrays to an NPZ file.
func WriteNPZ(path string, arrays map[string]*Array) error {
	data, err := EncodeNPZ(arrays)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("npy: write %s: %w", path, err)
	}
	return nil
}
