// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/excelab/internal/ops"
	"github.com/pdiddy/excelab/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Merge spreadsheets into one workbook",
	Long: `Merge uploads the files in the given order and shows a preview of the
merged table. With --download the same files and mode are sent again and
the merged workbook is saved.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("mode", string(types.MergeOuter), "merge mode (outer or inner)")
	mergeCmd.Flags().Int("preview-rows", ops.DefaultMergePreviewRows, "rows shown in the preview")
	mergeCmd.Flags().Bool("download", false, "save the merged workbook after the preview")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	var files ops.FileList
	if err := files.Add(args...); err != nil {
		return err
	}
	mode, _ := cmd.Flags().GetString("mode")
	rows, _ := cmd.Flags().GetInt("preview-rows")
	download, _ := cmd.Flags().GetBool("download")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	req := ops.MergeRequest{Files: files, Mode: types.MergeMode(mode), PreviewRows: rows}
	if _, err := a.suite.Merge.Preview(cmd.Context(), req); err != nil {
		return reported(err)
	}
	if download {
		_, err := a.suite.Merge.Download(cmd.Context(), req)
		return reported(err)
	}
	return nil
}
