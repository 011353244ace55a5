package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/go-kitten-tts/internal/audio"
	"github.com/spf13/cobra"
)

func newSynthCmd() *cobra.Command {
	var text string
	var ipa string
	var out string
	var voice string
	var speed float64
	var floatWAV bool
	var rawText bool
	var normalize bool
	var dcBlock bool
	var fadeInMS float64
	var fadeOutMS float64

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize text to WAV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			selectedVoice := cfg.TTS.Voice
			if voice != "" {
				selectedVoice = voice
			}

			selectedSpeed := float32(cfg.TTS.Speed)
			if cmd.Flags().Changed("speed") {
				selectedSpeed = float32(speed)
			}
			if selectedSpeed <= 0 {
				return fmt.Errorf("speed must be positive, got %v", selectedSpeed)
			}

			m, err := loadModel(cfg)
			if err != nil {
				return err
			}
			defer m.Close()

			var samples []float32
			if ipa != "" {
				if text != "" {
					return fmt.Errorf("--text and --ipa are mutually exclusive")
				}
				samples, err = m.GenerateFromIPA(cmd.Context(), ipa, selectedVoice, selectedSpeed, len(ipa))
			} else {
				var inputText string
				inputText, err = readSynthText(text, os.Stdin)
				if err != nil {
					return err
				}
				cleanText := cfg.TTS.CleanText && !rawText
				samples, err = m.Generate(cmd.Context(), inputText, selectedVoice, selectedSpeed, cleanText)
			}
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("synthesis produced no samples")
			}

			if normalize {
				samples = audio.PeakNormalize(samples)
			}
			if dcBlock {
				samples = audio.DCBlock(samples, audio.ExpectedSampleRate)
			}
			if fadeInMS > 0 {
				samples = audio.FadeIn(samples, audio.ExpectedSampleRate, fadeInMS)
			}
			if fadeOutMS > 0 {
				samples = audio.FadeOut(samples, audio.ExpectedSampleRate, fadeOutMS)
			}

			var wavData []byte
			if floatWAV {
				wavData, err = audio.EncodeWAVFloat32(samples)
			} else {
				wavData, err = audio.EncodeWAV(samples)
			}
			if err != nil {
				return fmt.Errorf("encode WAV: %w", err)
			}

			return writeSynthOutput(out, wavData, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to synthesize (if empty, read from stdin)")
	cmd.Flags().StringVar(&ipa, "ipa", "", "Pre-phonemized IPA string to synthesize instead of text")
	cmd.Flags().StringVar(&out, "out", "out.wav", "Output WAV path ('-' for stdout)")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice name or alias (overrides config)")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Speech speed multiplier (overrides config)")
	cmd.Flags().BoolVar(&floatWAV, "float-wav", false, "Write 32-bit IEEE-float WAV instead of 16-bit PCM")
	cmd.Flags().BoolVar(&rawText, "raw-text", false, "Skip text normalization for this invocation")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Peak-normalize output audio")
	cmd.Flags().BoolVar(&dcBlock, "dc-block", false, "Apply DC-block high-pass filter")
	cmd.Flags().Float64Var(&fadeInMS, "fade-in-ms", 0, "Apply linear fade-in duration in milliseconds")
	cmd.Flags().Float64Var(&fadeOutMS, "fade-out-ms", 0, "Apply linear fade-out duration in milliseconds")

	return cmd
}

func readSynthText(flagText string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(flagText) != "" {
		return flagText, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read text from stdin: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("empty input text")
	}

	return text, nil
}

func writeSynthOutput(outPath string, wavData []byte, stdout io.Writer) error {
	if outPath == "-" {
		if stdout == nil {
			return fmt.Errorf("stdout writer is nil")
		}
		_, err := stdout.Write(wavData)
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(outPath, wavData, 0o644); err != nil {
		return fmt.Errorf("write output WAV: %w", err)
	}

	return nil
}
