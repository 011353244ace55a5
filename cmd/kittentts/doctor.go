package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/go-kitten-tts/internal/doctor"
	"github.com/example/go-kitten-tts/internal/espeak"
	"github.com/example/go-kitten-tts/internal/model"
	"github.com/example/go-kitten-tts/internal/onnx"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that espeak-ng, ONNX Runtime, and model assets are available",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			configureESpeak(cfg)

			dcfg := doctor.Config{
				ESpeak: func() (string, error) {
					if !espeak.Available() {
						return "", errors.New("espeak-ng failed to initialize (set KITTENTTS_ESPEAK_LIB)")
					}
					return "initialized", nil
				},
				ONNXRuntime: func() (string, error) {
					info, err := onnx.DetectRuntime(cfg.Runtime)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%s (version %s)", info.LibraryPath, info.Version), nil
				},
			}

			// Model assets are optional for doctor: report them when the
			// directory exists, but a fresh checkout without a download is
			// not itself a failure.
			if _, statErr := os.Stat(cfg.Model.Dir); statErr == nil {
				dcfg.ModelDir = cfg.Model.Dir
				if assets, loadErr := model.LoadAssets(cfg.Model.Dir); loadErr == nil {
					dcfg.AssetFiles = []string{assets.ModelPath, assets.VoicesPath}
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s model directory %s: not downloaded (run 'kittentts model download')\n",
					doctor.PassMark, cfg.Model.Dir)
			}

			res := doctor.Run(dcfg, cmd.OutOrStdout())
			if res.Failed() {
				return fmt.Errorf("%d check(s) failed", len(res.Failures()))
			}
			return nil
		},
	}
}
