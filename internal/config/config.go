package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// Config is the tool's own settings file (not the operations table itself):
// where the table and key live, how to log, whether to keep an audit trail.
//
// The file is optional; a missing file means defaults.
type Config struct {
	// ConfigFile is the path of the INI-backed operations table.
	ConfigFile string `json:"config_file,omitempty"`
	// KeyFile is the path of the encryption key file.
	KeyFile string `json:"key_file,omitempty"`

	Logging LoggingConfig `json:"logging"`

	// Audit enables the mutation audit trail.
	Audit *AuditConfig `json:"audit,omitempty"`
}

type LoggingConfig struct {
	Level string `json:"level,omitempty"`
	// Console is a pointer so we can distinguish "omitted" (default true)
	// from an explicit false.
	Console *bool         `json:"console,omitempty"`
	File    FileLogConfig `json:"file"`
}

type FileLogConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// AuditConfig controls the optional persistence layer for mutation records.
//
// Driver values:
//   - "file": append-only JSON Lines
//   - "sqlite": SQLite database file (build with -tags sqlite)
//   - "" or "none": disabled
type AuditConfig struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		ConfigFile: "opstab.ini",
		KeyFile:    "opstab.key",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConsoleEnabled resolves the tri-state console flag.
func (l LoggingConfig) ConsoleEnabled() bool {
	if l.Console == nil {
		return true
	}
	return *l.Console
}

// Load reads the settings file at path. YAML files are coerced to JSON so
// the same strict decoder (DisallowUnknownFields) covers both formats, and
// typos in hand-written settings fail loudly instead of silently defaulting.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	jb, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("settings %s: trailing data", path)
		}
		return nil, err
	}

	if strings.TrimSpace(cfg.ConfigFile) == "" {
		cfg.ConfigFile = "opstab.ini"
	}
	if strings.TrimSpace(cfg.KeyFile) == "" {
		cfg.KeyFile = "opstab.key"
	}
	return cfg, nil
}

// coerceToJSONBytes converts YAML settings to JSON bytes so we can re-use
// the strict JSON decoder for both formats.
func coerceToJSONBytes(path string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	v = normalizeYAML(v)

	j, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, nil
}

// normalizeYAML ensures all map keys are strings so the result can be JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = normalizeYAML(v)
		}
		return m
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}
