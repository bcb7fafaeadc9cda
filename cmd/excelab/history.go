// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/excelab/internal/history"
	"github.com/pdiddy/excelab/internal/preview"
	"github.com/pdiddy/excelab/pkg/types"
)

// filesWidth is the width of the Files column in history listings.
const filesWidth = 30

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or export past submissions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent submissions, newest first",
	RunE:  runHistoryList,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the submission history to YAML or JSON",
	RunE:  runHistoryExport,
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("module", "", "only this module ("+joinNames(types.Modes)+")")
		c.Flags().String("outcome", "", "only this outcome ("+joinNames(types.Outcomes)+")")
	}
	historyListCmd.Flags().Int("limit", history.DefaultLimit, "maximum entries")
	historyListCmd.Flags().Bool("json", false, "print entries as JSON")
	historyExportCmd.Flags().String("format", "yaml", "export format (yaml or json)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func joinNames[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

// historyFilter reads --module and --outcome, rejecting unknown values.
func historyFilter(cmd *cobra.Command) (history.Filter, error) {
	module, _ := cmd.Flags().GetString("module")
	outcome, _ := cmd.Flags().GetString("outcome")
	return parseFilter(module, outcome)
}

func parseFilter(module, outcome string) (history.Filter, error) {
	f := history.Filter{Module: types.Mode(module), Outcome: types.Outcome(outcome)}
	if module != "" && !slices.Contains(types.Modes, f.Module) {
		return f, fmt.Errorf("unknown module %q (use %s)", module, joinNames(types.Modes))
	}
	if outcome != "" && !slices.Contains(types.Outcomes, f.Outcome) {
		return f, fmt.Errorf("unknown outcome %q (use %s)", outcome, joinNames(types.Outcomes))
	}
	return f, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.Open(cfg.History.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := historyFilter(cmd)
	if err != nil {
		return err
	}
	f.Limit, _ = cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	attempts, err := store.List(cmd.Context(), f)
	if err != nil {
		return err
	}
	if err := formatHistory(cmd.OutOrStdout(), attempts, jsonOutput); err != nil || jsonOutput {
		return err
	}

	counts, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	formatCounts(cmd.OutOrStdout(), counts)
	return nil
}

// formatCounts prints the all-time total per outcome, skipping empty ones.
func formatCounts(w io.Writer, counts map[types.Outcome]int) {
	var parts []string
	for _, o := range types.Outcomes {
		if n := counts[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", o, n))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "All time: %s\n", strings.Join(parts, ", "))
	}
}

func formatHistory(w io.Writer, attempts []types.Attempt, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if attempts == nil {
			attempts = []types.Attempt{}
		}
		return enc.Encode(attempts)
	}

	if len(attempts) == 0 {
		fmt.Fprintln(w, "No submissions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-19s  %-8s  %-16s  %-6s  %-30s  %s\n",
		"Started", "Module", "Outcome", "Status", "Files", "Message")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	succeeded := 0
	for _, a := range attempts {
		if a.Outcome.Succeeded() {
			succeeded++
		}
		files := preview.Truncate(strings.Join(a.Files, ","), filesWidth)
		status := "-"
		if a.Status != 0 {
			status = fmt.Sprint(a.Status)
		}
		fmt.Fprintf(w, "%-19s  %-8s  %-16s  %-6s  %-30s  %s\n",
			a.StartedAt.Local().Format("2006-01-02 15:04:05"), a.Module, a.Outcome, status, files, a.Message)
	}

	fmt.Fprintf(w, "\n%d submissions, %d succeeded\n", len(attempts), succeeded)
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	f, err := historyFilter(cmd)
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml":
		path, err = store.ExportYAML(cmd.Context(), f)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), f)
	default:
		return fmt.Errorf("unsupported format %q (use yaml or json)", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}
