package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-kitten-tts/internal/config"
	"github.com/example/go-kitten-tts/internal/espeak"
	"github.com/example/go-kitten-tts/internal/model"
	"github.com/example/go-kitten-tts/internal/onnx"
	"github.com/example/go-kitten-tts/internal/tts"
)

// loadModel resolves downloaded assets from cfg.Model.Dir and opens the
// synthesis model. The caller owns the returned model and must Close it.
func loadModel(cfg config.Config) (*tts.Model, error) {
	assets, err := model.LoadAssets(cfg.Model.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve model assets (run 'kittentts model download' first): %w", err)
	}

	configureESpeak(cfg)

	info, err := onnx.Bootstrap(cfg.Runtime)
	if err != nil {
		return nil, err
	}

	slog.Debug("runtime ready",
		slog.String("ort_library", info.LibraryPath),
		slog.String("ort_version", info.Version),
		slog.String("model", assets.ModelPath),
	)

	return tts.Load(assets.ModelPath, assets.VoicesPath,
		assets.Config.SpeedPriors, assets.Config.VoiceAliases,
		onnx.SessionConfig{LibraryPath: info.LibraryPath})
}

// configureESpeak forwards espeak paths from config to the phonemizer.
// Must run before the first phonemization.
func configureESpeak(cfg config.Config) {
	if cfg.ESpeak.LibraryPath != "" {
		espeak.SetLibraryPath(cfg.ESpeak.LibraryPath)
	}
	if cfg.ESpeak.DataPath != "" {
		espeak.SetDataPath(cfg.ESpeak.DataPath)
	}
}
