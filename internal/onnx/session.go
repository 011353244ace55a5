//go:build !windows

package onnx

import (
	"context"
	"errors"
	"fmt"

	ort "github.com/shota3506/onnxruntime-purego/onnxruntime"
)

// SessionConfig holds ORT library settings for creating sessions.
type SessionConfig struct {
	LibraryPath string
	APIVersion  uint32
}

// Session wraps an ORT session for the speech-synthesis graph. The graph
// takes three inputs:
//
//	input_ids [1, seq_len] int64
//	style     [1, style_d] float32
//	speed     [1]          float32
//
// and produces a single float32 waveform output.
type Session struct {
	modelPath string
	runtime   *ort.Runtime
	env       *ort.Env
	session   *ort.Session
}

// NewSession loads the ONNX model at modelPath using the ORT shared library
// from cfg. The caller owns the returned session and must Close it.
func NewSession(modelPath string, cfg SessionConfig) (*Session, error) {
	if cfg.APIVersion == 0 {
		cfg.APIVersion = 23
	}

	runtime, err := ort.NewRuntime(cfg.LibraryPath, cfg.APIVersion)
	if err != nil {
		return nil, fmt.Errorf("ort runtime: %w", err)
	}

	env, err := runtime.NewEnv("kittentts", ort.LoggingLevelWarning)
	if err != nil {
		_ = runtime.Close()
		return nil, fmt.Errorf("ort env: %w", err)
	}

	session, err := runtime.NewSession(env, modelPath, nil)
	if err != nil {
		env.Close()
		_ = runtime.Close()

		return nil, fmt.Errorf("ort session (%s): %w", modelPath, err)
	}

	return &Session{
		modelPath: modelPath,
		runtime:   runtime,
		env:       env,
		session:   session,
	}, nil
}

// Infer runs the graph for one token sequence and returns the raw waveform
// samples. The style vector is a single row of the voice embedding matrix.
func (s *Session) Infer(ctx context.Context, ids []int64, style []float32, speed float32) ([]float32, error) {
	if err := validateInferInputs(ids, style); err != nil {
		return nil, err
	}

	inputs := make(map[string]*ort.Value, 3)
	defer closeORTValues(inputs)

	idsValue, err := ort.NewTensorValue(s.runtime, ids, []int64{1, int64(len(ids))})
	if err != nil {
		return nil, fmt.Errorf("input_ids tensor: %w", err)
	}
	inputs["input_ids"] = idsValue

	styleValue, err := ort.NewTensorValue(s.runtime, style, []int64{1, int64(len(style))})
	if err != nil {
		return nil, fmt.Errorf("style tensor: %w", err)
	}
	inputs["style"] = styleValue

	speedValue, err := ort.NewTensorValue(s.runtime, []float32{speed}, []int64{1})
	if err != nil {
		return nil, fmt.Errorf("speed tensor: %w", err)
	}
	inputs["speed"] = speedValue

	outputs, err := s.session.Run(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", s.modelPath, err)
	}
	defer closeORTValues(outputs)

	return waveformOutput(outputs)
}

// Close releases all ORT resources. Safe to call multiple times.
func (s *Session) Close() {
	if s.session != nil {
		s.session.Close()
		s.session = nil
	}

	if s.env != nil {
		s.env.Close()
		s.env = nil
	}

	if s.runtime != nil {
		_ = s.runtime.Close()
		s.runtime = nil
	}
}

// ModelPath returns the path the session was loaded from.
func (s *Session) ModelPath() string {
	return s.modelPath
}

// waveformOutput extracts the float32 waveform from the graph outputs,
// regardless of the exported output name.
func waveformOutput(outputs map[string]*ort.Value) ([]float32, error) {
	for name, v := range outputs {
		elemType, err := v.GetTensorElementType()
		if err != nil {
			return nil, fmt.Errorf("output %q element type: %w", name, err)
		}

		if elemType != ort.ONNXTensorElementDataTypeFloat {
			continue
		}

		data, _, err := ort.GetTensorData[float32](v)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", name, err)
		}

		samples := make([]float32, len(data))
		copy(samples, data)

		return samples, nil
	}

	return nil, errors.New("graph produced no float32 waveform output")
}

func closeORTValues(vals map[string]*ort.Value) {
	for _, v := range vals {
		if v != nil {
			v.Close()
		}
	}
}
