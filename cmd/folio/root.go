package main

import (
	"github.com/spf13/cobra"

	"github.com/folio-reader/folio/internal/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Reading server for public-domain texts",
	Long: `Folio is the server side of a reading application for public-domain
texts. It ingests books in plain text, Markdown or HTML, and serves the
reader API:

  - selection resolution against the canonical text
  - structural context extraction (act, scene, speaker, who is on stage)
  - punctuation-tolerant search with match navigation
  - highlight rendering, bookmarks and reader sessions
  - optional LLM-backed passage explanations`,
	Version: version.Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./folio.yaml or ~/.folio/folio.yaml)",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
