// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/excelab/internal/ops"
	"github.com/pdiddy/excelab/pkg/types"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Remove empty rows and columns and trim cell text",
	RunE:  runClean,
}

func init() {
	def := types.DefaultCleanOptions()
	cleanCmd.Flags().Bool("remove-empty-rows", def.RemoveEmptyRows, "drop rows with no values")
	cleanCmd.Flags().Bool("remove-empty-cols", def.RemoveEmptyCols, "drop columns with no values")
	cleanCmd.Flags().Bool("trim-spaces", def.TrimSpaces, "trim leading and trailing spaces in text cells")
	cleanCmd.Flags().Int("preview-rows", ops.DefaultCleanPreviewRows, "rows shown in the preview")
	cleanCmd.Flags().Bool("download", false, "save the cleaned workbook after the preview")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	var files ops.FileList
	if err := files.Add(args...); err != nil {
		return err
	}
	rowsOpt, _ := cmd.Flags().GetBool("remove-empty-rows")
	colsOpt, _ := cmd.Flags().GetBool("remove-empty-cols")
	trim, _ := cmd.Flags().GetBool("trim-spaces")
	previewRows, _ := cmd.Flags().GetInt("preview-rows")
	download, _ := cmd.Flags().GetBool("download")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	req := ops.CleanRequest{
		Files: files,
		Options: types.CleanOptions{
			RemoveEmptyRows: rowsOpt,
			RemoveEmptyCols: colsOpt,
			TrimSpaces:      trim,
		},
		PreviewRows: previewRows,
	}
	if _, err := a.suite.Clean.Preview(cmd.Context(), req); err != nil {
		return reported(err)
	}
	if download {
		_, err := a.suite.Clean.Download(cmd.Context(), req)
		return reported(err)
	}
	return nil
}
