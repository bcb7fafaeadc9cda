// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the filtered history to dir/export.yaml and returns
// the path.
func (s *Store) ExportYAML(ctx context.Context, f Filter) (string, error) {
	attempts, err := s.exportAttempts(ctx, f)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(attempts)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dir, "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the filtered history to dir/export.json and returns
// the path.
func (s *Store) ExportJSON(ctx context.Context, f Filter) (string, error) {
	attempts, err := s.exportAttempts(ctx, f)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(attempts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dir, "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportAttempts(ctx context.Context, f Filter) (any, error) {
	if f.Limit == 0 {
		f.Limit = -1
	}
	attempts, err := s.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if attempts == nil {
		return []any{}, nil
	}
	return attempts, nil
}
