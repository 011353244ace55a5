package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `{
	"type": "ONNX1",
	"model_file": "model.onnx",
	"voices": "voices.npz",
	"speed_priors": {"expr-voice-2-m": 1.1},
	"voice_aliases": {"Jasper": "expr-voice-2-m"}
}`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(validConfig))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.Type != "ONNX1" {
		t.Errorf("Type = %q, want ONNX1", cfg.Type)
	}
	if cfg.ModelFile != "model.onnx" {
		t.Errorf("ModelFile = %q, want model.onnx", cfg.ModelFile)
	}
	if cfg.Voices != "voices.npz" {
		t.Errorf("Voices = %q, want voices.npz", cfg.Voices)
	}
	if cfg.SpeedPriors["expr-voice-2-m"] != 1.1 {
		t.Errorf("SpeedPriors = %v", cfg.SpeedPriors)
	}
	if cfg.VoiceAliases["Jasper"] != "expr-voice-2-m" {
		t.Errorf("VoiceAliases = %v", cfg.VoiceAliases)
	}
}

func TestParseConfigOptionalMapsDefaultEmpty(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"type": "ONNX2", "model_file": "m.onnx", "voices": "v.npz"}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if len(cfg.SpeedPriors) != 0 || len(cfg.VoiceAliases) != 0 {
		t.Errorf("expected empty optional maps, got %v / %v", cfg.SpeedPriors, cfg.VoiceAliases)
	}
}

func TestParseConfigErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{
			name:    "unsupported type",
			payload: `{"type": "GGUF", "model_file": "m", "voices": "v"}`,
			wantMsg: "unsupported model type",
		},
		{
			name:    "missing model_file",
			payload: `{"type": "ONNX1", "voices": "v"}`,
			wantMsg: "model_file",
		},
		{
			name:    "missing voices",
			payload: `{"type": "ONNX1", "model_file": "m"}`,
			wantMsg: "voices",
		},
		{
			name:    "invalid json",
			payload: `{`,
			wantMsg: "parse model config",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.payload))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(validConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ModelFile != "model.onnx" {
		t.Errorf("ModelFile = %q", cfg.ModelFile)
	}

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
