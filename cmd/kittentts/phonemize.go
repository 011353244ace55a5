package main

import (
	"fmt"
	"os"

	"github.com/example/go-kitten-tts/internal/espeak"
	"github.com/example/go-kitten-tts/internal/text"
	"github.com/spf13/cobra"
)

func newPhonemizeCmd() *cobra.Command {
	var inputText string
	var clean bool

	cmd := &cobra.Command{
		Use:   "phonemize",
		Short: "Convert text to IPA phonemes via espeak-ng",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			configureESpeak(cfg)

			input, err := readSynthText(inputText, os.Stdin)
			if err != nil {
				return err
			}

			if clean {
				input = text.NewNormalizer().Normalize(input)
			}

			ipa, err := espeak.Phonemize(input)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, ipa)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputText, "text", "", "Text to phonemize (if empty, read from stdin)")
	cmd.Flags().BoolVar(&clean, "clean", false, "Run the text normalizer before phonemizing")

	return cmd
}
