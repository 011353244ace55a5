package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/example/go-kitten-tts/internal/model"
	"github.com/example/go-kitten-tts/internal/tts"
	"github.com/spf13/cobra"
)

func newVoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List available voices and aliases",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			assets, err := model.LoadAssets(cfg.Model.Dir)
			if err != nil {
				return fmt.Errorf("resolve model assets (run 'kittentts model download' first): %w", err)
			}

			_, names, err := tts.LoadVoices(assets.VoicesPath)
			if err != nil {
				return err
			}

			for _, name := range names {
				fmt.Fprintln(os.Stdout, name)
			}

			if len(assets.Config.VoiceAliases) > 0 {
				fmt.Fprintln(os.Stdout)
				fmt.Fprintln(os.Stdout, "Aliases:")

				aliases := make([]string, 0, len(assets.Config.VoiceAliases))
				for alias := range assets.Config.VoiceAliases {
					aliases = append(aliases, alias)
				}
				sort.Strings(aliases)

				for _, alias := range aliases {
					fmt.Fprintf(os.Stdout, "  %s -> %s\n", alias, assets.Config.VoiceAliases[alias])
				}
			}

			return nil
		},
	}

	return cmd
}
