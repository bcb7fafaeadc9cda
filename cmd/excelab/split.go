// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/excelab/internal/ops"
)

var splitCmd = &cobra.Command{
	Use:   "split [file]",
	Short: "Split a spreadsheet into one file per value of a column",
	Long: `Split uploads the first file with the chosen column and saves the zip
of per-value workbooks. Use "split columns" to see which columns exist.`,
	RunE: runSplit,
}

var splitColumnsCmd = &cobra.Command{
	Use:   "columns [file]",
	Short: "List the columns of a spreadsheet",
	RunE:  runSplitColumns,
}

func init() {
	splitCmd.Flags().String("column", "", "column whose values decide the output files")

	splitCmd.AddCommand(splitColumnsCmd)
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	var files ops.FileList
	if err := files.Add(args...); err != nil {
		return err
	}
	column, _ := cmd.Flags().GetString("column")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.suite.Split.Split(cmd.Context(), ops.SplitRequest{Files: files, Column: column})
	return reported(err)
}

func runSplitColumns(cmd *cobra.Command, args []string) error {
	var files ops.FileList
	if err := files.Add(args...); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.suite.Split.Columns(cmd.Context(), files)
	return reported(err)
}
