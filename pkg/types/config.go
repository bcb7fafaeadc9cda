// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every request to the
// processing backend.
type HTTPConfig struct {
	// BaseURL is the backend origin, e.g. "http://127.0.0.1:8000".
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the HTTP request timeout. Zero leaves the transport
	// default in place.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "excelab/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// APIToken, when set, is sent as a bearer token.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty" mapstructure:"api_token"`

	// RateLimitRetries is how many times a 429 response is retried with
	// backoff. Zero (the default) disables retries.
	RateLimitRetries int `json:"rate_limit_retries" yaml:"rate_limit_retries" mapstructure:"rate_limit_retries"`
}

// LogConfig holds event-log settings.
type LogConfig struct {
	// Level is the console level: debug, info, warn, or error.
	Level string `json:"level" yaml:"level" mapstructure:"log_level"`

	// File, when set, receives a rotating JSON event log.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"log_file"`
}

// HistoryConfig holds settings for the attempt history database.
type HistoryConfig struct {
	// Dir is the directory holding history.db and exports.
	Dir string `json:"dir" yaml:"dir" mapstructure:"history_dir"`

	// Disabled turns off attempt recording.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"history_disabled"`
}

// ClientConfig groups every setting of the excelab client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// OutputDir is where downloaded artifacts are saved.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	Log     LogConfig     `json:"log" yaml:"log" mapstructure:",squash"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:",squash"`
}
