package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dpctl",
	Short: "Extract fields from construction progress-payment statements",
	Long: `dpctl runs a situation / demande de paiement document through the
Document Intelligence custom model and prints the flattened fields.

It reads the same environment (and .env file) as the API server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
