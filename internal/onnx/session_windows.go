//go:build windows

package onnx

import (
	"context"
	"fmt"
)

// SessionConfig holds ORT library settings for creating sessions.
// In windows builds, native ORT session support is currently unavailable.
type SessionConfig struct {
	LibraryPath string
	APIVersion  uint32
}

// Session is unavailable in windows builds.
type Session struct {
	modelPath string
}

func NewSession(modelPath string, cfg SessionConfig) (*Session, error) {
	return nil, fmt.Errorf("onnx session for %s: native ORT bindings are not supported on windows builds", modelPath)
}

func (s *Session) Infer(ctx context.Context, ids []int64, style []float32, speed float32) ([]float32, error) {
	return nil, fmt.Errorf("onnx session: native ORT bindings are not supported on windows builds")
}

func (s *Session) Close() {}

func (s *Session) ModelPath() string {
	if s == nil {
		return ""
	}

	return s.modelPath
}
