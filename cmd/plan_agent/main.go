// Package main implements the plan_agent CLI tool for training program planning.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "plan_agent",
	Short: "Training Program Planner",
	Long:  "Training Program Planner generates schema-validated delivery plans for vocational qualifications from structured intake records, with document export and a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
