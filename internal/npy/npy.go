// Package npy reads and writes the subset of the NumPy array format used by
// KittenTTS voice bundles: NPY versions 1.0 and 2.0, float32 dtype,
// C-contiguous layout, arbitrary dimensionality. NPZ files are ZIP archives
// whose members are NPY files; the member name minus its ".npy" suffix is the
// array name.
package npy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// magic is the 6-byte marker that opens every NPY buffer.
var magic = []byte("\x93NUMPY")

// ErrFormat is the sentinel wrapped by every malformed-container error.
var ErrFormat = errors.New("invalid NPY data")

// Array is a loaded NPY entry: shape plus flat float32 data in row-major order.
type Array struct {
	Shape []int
	Data  []float32
}

// Rows returns the first dimension, or 0 for a zero-dimensional array.
func (a *Array) Rows() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[0]
}

// Cols returns the second dimension, or 1 when the array has fewer than two.
func (a *Array) Cols() int {
	if len(a.Shape) < 2 {
		return 1
	}
	return a.Shape[1]
}

// Row returns row i as a slice into the backing data.
func (a *Array) Row(i int) []float32 {
	cols := a.Cols()
	return a.Data[i*cols : (i+1)*cols]
}

func formatErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

// Parse decodes a raw NPY byte buffer.
//
// Accepted dtypes are the float32 variants "<f4", "=f4", "|f4" and ">f4";
// big-endian data is byte-swapped on read. Fortran-order arrays are rejected.
func Parse(data []byte) (*Array, error) {
	if len(data) < 10 || string(data[:6]) != string(magic) {
		return nil, formatErr("bad magic")
	}

	major, minor := data[6], data[7]

	var headerLen, headerStart int
	switch major {
	case 1:
		headerLen = int(binary.LittleEndian.Uint16(data[8:10]))
		headerStart = 10
	case 2:
		if len(data) < 12 {
			return nil, formatErr("version 2 buffer too short")
		}
		headerLen = int(binary.LittleEndian.Uint32(data[8:12]))
		headerStart = 12
	default:
		return nil, formatErr("unsupported version %d.%d", major, minor)
	}

	headerEnd := headerStart + headerLen
	if len(data) < headerEnd {
		return nil, formatErr("truncated header")
	}
	if !utf8.Valid(data[headerStart:headerEnd]) {
		return nil, formatErr("header is not valid text")
	}
	header := string(data[headerStart:headerEnd])

	dtype, ok := headerField(header, "descr")
	if !ok {
		return nil, formatErr("header missing 'descr'")
	}
	dtype = strings.Trim(strings.TrimSpace(dtype), `'"`)
	switch dtype {
	case "<f4", "=f4", "|f4", ">f4":
	default:
		return nil, formatErr("unsupported dtype %q, only float32 is supported", dtype)
	}
	bigEndian := strings.HasPrefix(dtype, ">")

	if order, ok := headerField(header, "fortran_order"); ok {
		if strings.EqualFold(strings.TrimSpace(order), "true") {
			return nil, formatErr("fortran-order arrays are not supported")
		}
	}

	shapeStr, ok := headerField(header, "shape")
	if !ok {
		return nil, formatErr("header missing 'shape'")
	}
	shape, err := parseShape(strings.TrimSpace(shapeStr))
	if err != nil {
		return nil, err
	}

	count := 1
	for _, d := range shape {
		count *= d
	}

	raw := data[headerEnd:]
	if len(raw) < count*4 {
		return nil, formatErr("data section too short: want %d bytes, have %d", count*4, len(raw))
	}

	values := make([]float32, count)
	for i := range values {
		var bits uint32
		if bigEndian {
			bits = binary.BigEndian.Uint32(raw[i*4:])
		} else {
			bits = binary.LittleEndian.Uint32(raw[i*4:])
		}
		values[i] = math.Float32frombits(bits)
	}

	return &Array{Shape: shape, Data: values}, nil
}

// headerField extracts one value from the Python-literal dict header, e.g.
// headerField("{'descr': '<f4', 'shape': (3,)}", "descr") returns "<f4".
func headerField(header, field string) (string, bool) {
	start := -1
	for _, key := range []string{"'" + field + "':", `"` + field + `":`} {
		if pos := strings.Index(header, key); pos >= 0 {
			start = pos + len(key)
			break
		}
	}
	if start < 0 {
		return "", false
	}

	rest := strings.TrimLeft(header[start:], " ")
	switch {
	case strings.HasPrefix(rest, "("):
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return "", false
		}
		return rest[:end+1], true
	case strings.HasPrefix(rest, "'"), strings.HasPrefix(rest, `"`):
		quote := rest[0]
		end := strings.IndexByte(rest[1:], quote)
		if end < 0 {
			return "", false
		}
		return rest[1 : 1+end], true
	default:
		end := strings.IndexAny(rest, ",}")
		if end < 0 {
			end = len(rest)
		}
		return strings.TrimSpace(rest[:end]), true
	}
}

// parseShape decodes a Python tuple literal like "(256, 512)", "(100,)" or "()".
func parseShape(s string) ([]int, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	if strings.TrimSpace(inner) == "" {
		return []int{}, nil
	}

	var shape []int
	for _, tok := range strings.Split(inner, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		dim, err := strconv.Atoi(tok)
		if err != nil || dim < 0 {
			return nil, formatErr("bad shape dimension %q", tok)
		}
		shape = append(shape, dim)
	}

	return shape, nil
}
