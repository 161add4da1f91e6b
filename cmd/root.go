package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoice-transformer/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoice-transformer",
	Short: "Watch a directory for SalesInvoicePrint XML and transform it to standard invoice documents",
	Long: `invoice-transformer ingests proprietary SalesInvoicePrint XML files
deposited into a watched input directory, maps each one into the standardized
invoice schema (fixed element order, fixed namespaces, fixed numeric
formatting) and routes the source file to the archive or the error location
depending on the outcome.

Configuration is read from the environment (a .env file is honored). See the
run command for the directory and notification settings.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
