package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	apiURL string
	token  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ironlog",
		Short: "Iron Log workout tools",
		Long: `Command line tools for Iron Log.

EXAMPLES:

  ironlog analyze export.json                         # Report from an exported workout file
  ironlog rename "Pull Ups=Pull Up" --token $TOKEN    # Rename an exercise in every workout
  ironlog rename --file renames.txt                   # Batch rename, one old=new per line`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", envOr("IRONLOG_API_URL", "http://localhost:8080/api/v1"), "base URL of the Iron Log API")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("IRONLOG_TOKEN"), "bearer token for API calls")

	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newRenameCmd(opts))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
