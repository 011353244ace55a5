package npy

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func mustEncode(t *testing.T, shape []int, data []float32) []byte {
	t.Helper()

	buf, err := Encode(&Array{Shape: shape, Data: data})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		data  []float32
	}{
		{name: "1d", shape: []int{3}, data: []float32{1, 2, 3}},
		{name: "2d", shape: []int{2, 3}, data: []float32{0, 1, 2, 3, 4, 5}},
		{name: "3d", shape: []int{2, 1, 2}, data: []float32{-1.5, 0.25, 3e-8, 42}},
		{name: "scalar shape", shape: []int{}, data: []float32{7.5}},
		{name: "empty row", shape: []int{0, 4}, data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr, err := Parse(mustEncode(t, tt.shape, tt.data))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(arr.Shape) != len(tt.shape) {
				t.Fatalf("shape = %v, want %v", arr.Shape, tt.shape)
			}
			for i, d := range tt.shape {
				if arr.Shape[i] != d {
					t.Fatalf("shape = %v, want %v", arr.Shape, tt.shape)
				}
			}
			if len(arr.Data) != len(tt.data) {
				t.Fatalf("data length = %d, want %d", len(arr.Data), len(tt.data))
			}
			for i, v := range tt.data {
				if arr.Data[i] != v {
					t.Fatalf("data[%d] = %v, want %v", i, arr.Data[i], v)
				}
			}
		})
	}
}

func TestParseBigEndian(t *testing.T) {
	header := "{'descr': '>f4', 'fortran_order': False, 'shape': (2,), }"
	pad := (64 - (10+len(header)+1)%64) % 64
	for i := 0; i < pad; i++ {
		header += " "
	}
	header += "\n"

	buf := append([]byte{}, magic...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(1.5))
	buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(-2.0))

	arr, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if arr.Data[0] != 1.5 || arr.Data[1] != -2.0 {
		t.Fatalf("data = %v, want [1.5 -2]", arr.Data)
	}
}

func TestParseErrors(t *testing.T) {
	valid := mustEncode(t, []int{2}, []float32{1, 2})

	fortran := mustEncode(t, []int{2}, []float32{1, 2})
	// Flip the fortran_order literal in place.
	for i := 0; i+5 < len(fortran); i++ {
		if string(fortran[i:i+5]) == "False" {
			copy(fortran[i:], "True ")
			break
		}
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "bad magic", data: []byte("NOTANPYFILE")},
		{name: "truncated header", data: valid[:12]},
		{name: "short data section", data: valid[:len(valid)-4]},
		{name: "fortran order", data: fortran},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("error %v is not ErrFormat", err)
			}
		})
	}
}

func TestParseRejectsNonFloatDType(t *testing.T) {
	buf := mustEncode(t, []int{1}, []float32{1})
	for i := 0; i+3 < len(buf); i++ {
		if string(buf[i:i+3]) == "<f4" {
			copy(buf[i:], "<i8")
			break
		}
	}

	_, err := Parse(buf)
	if err == nil || !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat for int64 dtype, got %v", err)
	}
}

func TestHeaderField(t *testing.T) {
	header := "{'descr': '<f4', 'fortran_order': False, 'shape': (256, 512), }"

	tests := []struct {
		field string
		want  string
	}{
		{field: "descr", want: "<f4"},
		{field: "fortran_order", want: "False"},
		{field: "shape", want: "(256, 512)"},
	}
	for _, tt := range tests {
		got, ok := headerField(header, tt.field)
		if !ok || got != tt.want {
			t.Errorf("headerField(%q) = %q, %v; want %q", tt.field, got, ok, tt.want)
		}
	}

	if _, ok := headerField(header, "missing"); ok {
		t.Error("headerField should report absent fields")
	}
}

func TestArrayRowAccess(t *testing.T) {
	arr := &Array{Shape: []int{2, 3}, Data: []float32{0, 1, 2, 3, 4, 5}}

	if arr.Rows() != 2 || arr.Cols() != 3 {
		t.Fatalf("Rows/Cols = %d/%d, want 2/3", arr.Rows(), arr.Cols())
	}
	row := arr.Row(1)
	if row[0] != 3 || row[2] != 5 {
		t.Fatalf("Row(1) = %v, want [3 4 5]", row)
	}

	empty := &Array{Shape: []int{}, Data: []float32{1}}
	if empty.Rows() != 0 {
		t.Fatalf("zero-dim Rows = %d, want 0", empty.Rows())
	}
	if empty.Cols() != 1 {
		t.Fatalf("zero-dim Cols = %d, want 1", empty.Cols())
	}
}

func TestNPZRoundTrip(t *testing.T) {
	arrays := map[string]*Array{
		"alice": {Shape: []int{2, 2}, Data: []float32{1, 2, 3, 4}},
		"bob":   {Shape: []int{3}, Data: []float32{-0.5, 0, 0.5}},
	}

	payload, err := EncodeNPZ(arrays)
	if err != nil {
		t.Fatalf("EncodeNPZ: %v", err)
	}

	decoded, err := DecodeNPZ(payload)
	if err != nil {
		t.Fatalf("DecodeNPZ: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d members, want 2", len(decoded))
	}
	for name, want := range arrays {
		got, ok := decoded[name]
		if !ok {
			t.Fatalf("member %q missing after round-trip", name)
		}
		for i, v := range want.Data {
			if got.Data[i] != v {
				t.Fatalf("member %q data[%d] = %v, want %v", name, i, got.Data[i], v)
			}
		}
	}
}

func TestLoadNPZFromFile(t *testing.T) {
	path := t.TempDir() + "/voices.npz"
	arrays := map[string]*Array{
		"carol": {Shape: []int{1, 4}, Data: []float32{9, 8, 7, 6}},
	}
	if err := WriteNPZ(path, arrays); err != nil {
		t.Fatalf("WriteNPZ: %v", err)
	}

	loaded, err := LoadNPZ(path)
	if err != nil {
		t.Fatalf("LoadNPZ: %v", err)
	}
	if got := loaded["carol"]; got == nil || got.Cols() != 4 || got.Data[0] != 9 {
		t.Fatalf("unexpected loaded array: %+v", loaded["carol"])
	}
}
