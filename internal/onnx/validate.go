package onnx

import "errors"

var (
	ErrEmptyInput = errors.New("token sequence is empty")
	ErrEmptyStyle = errors.New("style vector is empty")
)

func validateInferInputs(ids []int64, style []float32) error {
	if len(ids) == 0 {
		return ErrEmptyInput
	}

	if len(style) == 0 {
		return ErrEmptyStyle
	}

	return nil
}
