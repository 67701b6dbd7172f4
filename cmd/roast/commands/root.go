package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL of the roastd instance.
	serverURL string

	// outputFormat controls output format (text, json).
	outputFormat string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "roast",
	Short: "PushClash LeetCode roast CLI",
	Long: `roast talks to a running roastd instance.

Use it to roast a LeetCode profile, either as one complete response or
streamed as it is generated, and to check on the daemon.`,
	SilenceUsage: true,
}

// Execute runs the CLI. Commands stop when ctx is cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&serverURL, "server", defaultServerURL,
		"Base URL of the roastd server",
	)
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format: text, json",
	)

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)
}

// getClient returns a client for the configured server.
func getClient() (*Client, error) {
	return NewClient(serverURL)
}
