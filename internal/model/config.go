// Package model handles model repository metadata and asset downloads.
//
// A model repository ships a config.json describing its assets:
//
//	{
//	  "type": "ONNX1",
//	  "model_file": "model.onnx",
//	  "voices": "voices.npz",
//	  "speed_priors": {"expr-voice-2-m": 1.1},
//	  "voice_aliases": {"Jasper": "expr-voice-2-m"}
//	}
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultRepo is the model repository used when none is given.
const DefaultRepo = "KittenML/kitten-tts-nano-0.8-int8"

// Config is the decoded config.json from a model repository.
type Config struct {
	// Type must be "ONNX1" or "ONNX2".
	Type string `json:"type"`

	// ModelFile is the ONNX model filename inside the repo.
	ModelFile string `json:"model_file"`

	// Voices is the voices NPZ filename inside the repo.
	Voices string `json:"voices"`

	// SpeedPriors holds optional per-voice speed multipliers.
	SpeedPriors map[string]float32 `json:"speed_priors"`

	// VoiceAliases maps friendly names to NPZ voice keys.
	VoiceAliases map[string]string `json:"voice_aliases"`
}

// ParseConfig decodes and validates a config.json payload.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config

	err := json.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse model config: %w", err)
	}

	if cfg.Type != "ONNX1" && cfg.Type != "ONNX2" {
		return Config{}, fmt.Errorf("unsupported model type %q, expected ONNX1 or ONNX2", cfg.Type)
	}

	if cfg.ModelFile == "" {
		return Config{}, errors.New("model config is missing model_file")
	}

	if cfg.Voices == "" {
		return Config{}, errors.New("model config is missing voices")
	}

	return cfg, nil
}

// LoadConfig reads and parses a config.json file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read model config: %w", err)
	}

	return ParseConfig(data)
}
