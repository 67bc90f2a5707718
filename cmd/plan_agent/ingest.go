package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-planner/internal/ingestion"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest unit catalogue pages and extract unit references",
	Long: `Fetches one or more qualification catalogue pages, extracts the main
content and lists the national unit codes found on them. Multiple --url flags
are fetched concurrently and their unit lists merged. The headless-browser
fallback applies to single-URL ingestion only.`,
	RunE: runIngest,
}

var (
	ingestURLs       []string
	ingestOut        string
	ingestUseBrowser bool
	ingestVerbose    bool
)

func init() {
	ingestCmd.Flags().StringArrayVarP(&ingestURLs, "url", "u", nil, "Catalogue page URL (repeatable, required)")
	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "Path to write the unit references as JSON (optional)")
	ingestCmd.Flags().BoolVar(&ingestUseBrowser, "use-browser", false, "Use headless browser for script-rendered catalogues (requires Chrome)")
	ingestCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := ingestCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	var (
		refs []ingestion.UnitRef
		err  error
	)
	if len(ingestURLs) == 1 {
		_, refs, err = ingestion.IngestCatalogueURL(ctx, nil, ingestURLs[0], ingestUseBrowser, ingestVerbose)
	} else {
		refs, err = ingestion.IngestCatalogueURLs(ctx, nil, ingestURLs, ingestVerbose)
	}
	if err != nil {
		return fmt.Errorf("failed to ingest catalogue: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Found %d unit reference(s):\n", len(refs))
	fmt.Fprintln(os.Stdout, ingestion.FormatForPrompt(refs))

	if ingestOut != "" {
		data, err := json.MarshalIndent(refs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal unit references: %w", err)
		}
		if err := os.WriteFile(ingestOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Unit references written to %s\n", ingestOut)
	}

	return nil
}
