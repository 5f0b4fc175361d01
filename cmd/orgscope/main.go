package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/orgscope/orgscope/internal/api"
	"github.com/orgscope/orgscope/internal/ui"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	var tokenFlag string
	var logFile string

	rootCmd := &cobra.Command{
		Use:   "orgscope",
		Short: "Browse a GitHub organization's repositories from the terminal",
		Long: `orgscope resolves an organization by name, lists its repositories and
lets you filter them by name and by open-issue count, with paginated
results. A GitHub token raises the API rate limit; without one the app
runs against the unauthenticated quota.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := tokenFlag
			if token == "" {
				token = os.Getenv("GITHUB_TOKEN")
			}

			var client *api.Client
			if logFile != "" {
				client = api.NewClientWithLogging(token, logFile)
			} else {
				client = api.NewClient(token)
			}

			p := tea.NewProgram(ui.NewModel(client), tea.WithAltScreen())
			finalModel, err := p.Run()
			if err != nil {
				return fmt.Errorf("failed to run UI: %w", err)
			}

			// Unexpected failures are a hard fault, not a banner
			if m, ok := finalModel.(ui.Model); ok && m.FatalErr() != nil {
				return m.FatalErr()
			}
			return nil
		},
	}

	rootCmd.Flags().StringVar(&tokenFlag, "token", "", "GitHub personal access token (defaults to GITHUB_TOKEN)")
	rootCmd.Flags().StringVar(&logFile, "log", "", "Write API request logs to this file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
