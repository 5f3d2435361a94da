package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tripmate",
		Short: "Trip planner backend with AI itinerary generation",
		Long: `tripmate serves the trip planner API and can generate a single
itinerary from the command line.

Examples:
  # Run the HTTP API
  tripmate serve

  # Plan a trip without touching the API
  tripmate plan --destination "Goa, India" --start 2025-12-20 --end 2025-12-24 --travelers 2`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPlanCmd())
	return rootCmd
}
