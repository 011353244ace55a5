package tts

import "context"

// Engine abstracts graph execution so the synthesis pipeline
// (normalization/chunking/phonemization/tokenization) can be exercised
// against fakes and alternative runtimes.
type Engine interface {
	Infer(ctx context.Context, ids []int64, style []float32, speed float32) ([]float32, error)
	Close()
}
