package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hartsched",
	Short: "hartsched - multi-hart work-stealing dispatcher",
	Long: `hartsched simulates an SMP task dispatcher: each hart owns an
independently locked scheduling queue, picks work local-first and falls back
to stealing from other harts' queues without ever blocking on a busy hart.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(traceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
