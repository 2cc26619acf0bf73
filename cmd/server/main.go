// Command splitvault serves the split settlement API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "splitvault",
	Short: "Collateralized split settlement server",
	Long:  "Serves the SplitService and AuthService Connect APIs over HTTP/2 cleartext.",
	// Without a subcommand the server starts.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fundCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
