// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/excelab/internal/upload"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := upload.NewHTTPSubmitter(cfg.HTTPConfig)
		if err := s.Health(cmd.Context()); err != nil {
			if upload.IsNetworkError(err) {
				return fmt.Errorf("%s (%s): %w", upload.ConnectivityMessage, cfg.BaseURL, err)
			}
			return err
		}
		successColor.Fprintf(cmd.OutOrStdout(), "%s ok\n", cfg.BaseURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
