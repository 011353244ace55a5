package main

import (
	"fmt"
	"os"

	"github.com/example/go-kitten-tts/internal/model"
	"github.com/example/go-kitten-tts/internal/tts"
	"github.com/spf13/cobra"
)

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage model assets",
	}

	cmd.AddCommand(newModelDownloadCmd())
	cmd.AddCommand(newModelInfoCmd())

	return cmd
}

func newModelDownloadCmd() *cobra.Command {
	var repo string
	var outDir string
	var revision string
	var hfToken string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download model files from Hugging Face",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if repo == "" {
				repo = cfg.Model.Repo
			}
			if outDir == "" {
				outDir = cfg.Model.Dir
			}
			if revision == "" {
				revision = cfg.Model.Revision
			}
			if hfToken == "" {
				hfToken = os.Getenv("HF_TOKEN")
			}

			assets, err := model.Download(model.DownloadOptions{
				Repo:     repo,
				OutDir:   outDir,
				Revision: revision,
				HFToken:  hfToken,
				Stdout:   os.Stdout,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "model ready: %s (%s)\n", assets.ModelPath, assets.Config.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "Model repository or bare model name (overrides config)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Target directory for model files (overrides config)")
	cmd.Flags().StringVar(&revision, "revision", "", "Repository revision (overrides config)")
	cmd.Flags().StringVar(&hfToken, "hf-token", "", "Hugging Face access token (or set HF_TOKEN)")

	return cmd
}

func newModelInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show downloaded model metadata",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			assets, err := model.LoadAssets(cfg.Model.Dir)
			if err != nil {
				return err
			}

			_, names, err := tts.LoadVoices(assets.VoicesPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "type:       %s\n", assets.Config.Type)
			fmt.Fprintf(os.Stdout, "model:      %s\n", assets.ModelPath)
			fmt.Fprintf(os.Stdout, "voices:     %s (%d voices)\n", assets.VoicesPath, len(names))
			fmt.Fprintf(os.Stdout, "aliases:    %d\n", len(assets.Config.VoiceAliases))
			fmt.Fprintf(os.Stdout, "priors:     %d\n", len(assets.Config.SpeedPriors))

			return nil
		},
	}

	return cmd
}
