package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/example/go-kitten-tts/internal/audio"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <wav-file>",
		Short: "Decode a synthesized WAV file and print its audio stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			samples, err := audio.DecodeWAV(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			printWAVStats(cmd.OutOrStdout(), samples)
			return nil
		},
	}

	return cmd
}

// printWAVStats writes sample count, duration, peak, and RMS for decoded
// synthesis output.
func printWAVStats(w io.Writer, samples []float32) {
	var peak float64
	var sumSquares float64
	for _, s := range samples {
		abs := math.Abs(float64(s))
		if abs > peak {
			peak = abs
		}
		sumSquares += float64(s) * float64(s)
	}

	rms := 0.0
	if len(samples) > 0 {
		rms = math.Sqrt(sumSquares / float64(len(samples)))
	}

	fmt.Fprintf(w, "samples:  %d\n", len(samples))
	fmt.Fprintf(w, "duration: %.3fs\n", float64(len(samples))/float64(audio.ExpectedSampleRate))
	fmt.Fprintf(w, "peak:     %.4f\n", peak)
	fmt.Fprintf(w, "rms:      %.4f\n", rms)
}
