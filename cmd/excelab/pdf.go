// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/excelab/internal/ops"
	"github.com/pdiddy/excelab/pkg/types"
)

var pdf2imgCmd = &cobra.Command{
	Use:   "pdf2img [file]",
	Short: "Render every page of a PDF to an image and save the zip",
	RunE:  runPDF2Img,
}

var pdfmergeCmd = &cobra.Command{
	Use:   "pdfmerge [files...]",
	Short: "Merge PDFs in the given order",
	Long: `Pdfmerge previews the merged page count and total size. With --download
the previewed files and options are sent again and the merged PDF is saved.`,
	RunE: runPDFMerge,
}

func init() {
	pdf2imgCmd.Flags().String("format", string(types.ImagePNG), "image format (png or jpeg)")
	pdf2imgCmd.Flags().Int("dpi", ops.DefaultDPI, "render resolution")

	pdfmergeCmd.Flags().StringSlice("option", nil, "merge option, repeatable (add_blank_page, add_toc)")
	pdfmergeCmd.Flags().Bool("download", false, "save the merged PDF after the preview")

	rootCmd.AddCommand(pdf2imgCmd)
	rootCmd.AddCommand(pdfmergeCmd)
}

func runPDF2Img(cmd *cobra.Command, args []string) error {
	var files ops.FileList
	if err := files.Add(args...); err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	dpi, _ := cmd.Flags().GetInt("dpi")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.suite.PDF2Img.Convert(cmd.Context(), ops.PDF2ImgRequest{
		Files:  files,
		Format: types.ImageFormat(format),
		DPI:    dpi,
	})
	return reported(err)
}

func runPDFMerge(cmd *cobra.Command, args []string) error {
	var files ops.FileList
	if err := files.Add(args...); err != nil {
		return err
	}
	names, _ := cmd.Flags().GetStringSlice("option")
	download, _ := cmd.Flags().GetBool("download")

	options := make([]types.PDFMergeOption, len(names))
	for i, n := range names {
		options[i] = types.PDFMergeOption(n)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.suite.PDFMerge.Preview(cmd.Context(), ops.PDFMergeRequest{Files: files, Options: options}); err != nil {
		return reported(err)
	}
	if download {
		_, err := a.suite.PDFMerge.Download(cmd.Context())
		return reported(err)
	}
	return nil
}
