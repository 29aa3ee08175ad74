package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/folio-reader/folio/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("folio %s\n", version.Version)
		fmt.Printf("  Go: %s\n", runtime.Version())
	},
}
