// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the excelab CLI, a client for the
// Excelab spreadsheet and PDF processing backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/excelab/internal/history"
	"github.com/pdiddy/excelab/internal/logging"
	"github.com/pdiddy/excelab/internal/ops"
	"github.com/pdiddy/excelab/internal/secrets"
	"github.com/pdiddy/excelab/internal/upload"
	"github.com/pdiddy/excelab/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultBaseURL    = "http://127.0.0.1:8000"
	defaultHistoryDir = ".excelab"
)

// Runtime state built in PersistentPreRunE.
var (
	cfg    types.ClientConfig
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "excelab",
	Short: "Upload spreadsheets and PDFs to the Excelab backend for processing",
	Long: `excelab sends local files to the Excelab processing backend and shows
what comes back. JSON responses are rendered as previews in the terminal;
files (xlsx, zip, pdf) are saved to the output directory.

Each operation is a subcommand: merge, split, clean, pdf2img, and pdfmerge.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}

		l, err := logging.New(c.Log, os.Stderr)
		if err != nil {
			return err
		}

		if c.APIToken == "" {
			secretsDir, _ := cmd.Flags().GetString("secrets-dir")
			tok, err := secrets.APIToken(secretsDir, l)
			if err != nil {
				return err
			}
			if tok != "" {
				l.Debug("using api token from secrets", zap.String("dir", secretsDir))
			}
			c.APIToken = tok
		}

		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./excelab.yaml or ~/.config/excelab/excelab.yaml)")
	pf.String("base-url", "", "backend base URL (default "+defaultBaseURL+")")
	pf.String("output-dir", "", "directory for downloaded files (default .)")
	pf.String("secrets-dir", secrets.DefaultDir, "directory of secret files")

	_ = viper.BindPFlag("base_url", pf.Lookup("base-url"))
	_ = viper.BindPFlag("output_dir", pf.Lookup("output-dir"))

	viper.SetDefault("base_url", defaultBaseURL)
	viper.SetDefault("timeout", 0)
	viper.SetDefault("user_agent", "excelab/"+version)
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("history_dir", defaultHistoryDir)
	viper.SetDefault("history_disabled", false)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_file", "")
	viper.SetDefault("rate_limit_retries", 0)
	viper.SetDefault("api_token", "")
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("excelab")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "excelab"))
		}
	}

	viper.SetEnvPrefix("EXCELAB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, env, file, and default settings.
func loadConfig() (types.ClientConfig, error) {
	var c types.ClientConfig
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	if c.RateLimitRetries < 0 {
		return c, fmt.Errorf("rate_limit_retries must not be negative")
	}
	return c, nil
}

// app wires the library packages for one command invocation.
type app struct {
	submitter *upload.HTTPSubmitter
	view      *terminalView
	store     *history.Store
	suite     *ops.Suite
}

func newApp() (*app, error) {
	a := &app{
		submitter: upload.NewHTTPSubmitter(cfg.HTTPConfig),
		view:      newTerminalView(os.Stdout, cfg.OutputDir),
	}

	deps := ops.Deps{Submitter: a.submitter, View: a.view, Logger: logger}
	if !cfg.History.Disabled {
		store, err := history.Open(cfg.History.Dir)
		if err != nil {
			logger.Warn("attempt history unavailable", zap.Error(err))
		} else {
			a.store = store
			deps.Recorder = store
		}
	}
	a.suite = ops.NewSuite(deps)
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// reportedError marks an error the view already showed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// reported wraps a module error so main does not print it twice.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var re reportedError
		if !errors.As(err, &re) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
