// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/excelab/internal/artifact"
	"github.com/pdiddy/excelab/internal/preview"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Summarize a downloaded workbook, zip, or PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		s, err := artifact.Inspect(args[0])
		if err != nil {
			return err
		}
		return formatSummary(cmd.OutOrStdout(), s, jsonOutput)
	},
}

func init() {
	inspectCmd.Flags().Bool("json", false, "print the summary as JSON")
	rootCmd.AddCommand(inspectCmd)
}

func formatSummary(w io.Writer, s *artifact.Summary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(w, "%s  %s  %s\n", s.Name, s.Kind, preview.FormatFileSize(s.Size))
	switch s.Kind {
	case artifact.KindSpreadsheet:
		fmt.Fprintf(w, "%-30s  %8s  %8s\n", "Sheet", "Rows", "Columns")
		fmt.Fprintln(w, strings.Repeat("-", 50))
		for _, sh := range s.Sheets {
			fmt.Fprintf(w, "%-30s  %8d  %8d\n", sh.Name, sh.Rows, sh.Columns)
		}
	case artifact.KindArchive:
		fmt.Fprintf(w, "%-40s  %s\n", "Entry", "Size")
		fmt.Fprintln(w, strings.Repeat("-", 55))
		for _, e := range s.Entries {
			fmt.Fprintf(w, "%-40s  %s\n", e.Name, preview.FormatFileSize(int64(e.Size)))
		}
		fmt.Fprintf(w, "\n%d entries\n", len(s.Entries))
	case artifact.KindPDF:
		fmt.Fprintf(w, "%d pages\n", s.Pages)
	}
	return nil
}
