package tts

import (
	"fmt"
	"sort"

	"github.com/example/go-kitten-tts/internal/npy"
)

// Voice holds one speaker's style-embedding matrix in row-major order.
// Row i conditions the model for an input of roughly i characters.
type Voice struct {
	rows int
	cols int
	data []float32
}

// VoiceFromArray wraps a decoded NPY matrix as a voice embedding.
func VoiceFromArray(arr *npy.Array) *Voice {
	return &Voice{
		rows: arr.Rows(),
		cols: arr.Cols(),
		data: arr.Data,
	}
}

// StyleRow returns the embedding row for a text of textLen characters,
// clamped to the matrix bounds.
func (v *Voice) StyleRow(textLen int) []float32 {
	if v.rows == 0 {
		return nil
	}

	i := textLen
	if i > v.rows-1 {
		i = v.rows - 1
	}

	return v.data[i*v.cols : (i+1)*v.cols]
}

// Dim returns the width of the embedding rows.
func (v *Voice) Dim() int {
	return v.cols
}

// LoadVoices reads a voices NPZ file and returns the voice map plus the
// sorted list of voice keys.
func LoadVoices(path string) (map[string]*Voice, []string, error) {
	arrays, err := npy.LoadNPZ(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load voices %s: %w", path, err)
	}

	voices := make(map[string]*Voice, len(arrays))
	names := make([]string, 0, len(arrays))

	for name, arr := range arrays {
		voices[name] = VoiceFromArray(arr)
		names = append(names, name)
	}

	sort.Strings(names)

	return voices, names, nil
}
