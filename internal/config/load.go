package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when no --config flag is given.
const EnvConfig = "EARTHVIEW_CONFIG"

// Load builds the configuration from defaults, then the config file, then
// command-line flags, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := resolveConfigPath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveConfigPath picks the config file: --config, then $EARTHVIEW_CONFIG,
// then the first file found in the standard locations.
func resolveConfigPath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return findConfigFile()
}

func findConfigFile() string {
	candidates := []string{
		"earthview.yaml",
		"config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for this OS.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "EarthView")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "EarthView")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "earthview")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "earthview")
	}
}

// loadFromFile merges the YAML file at path over cfg. Relative asset roots
// listed in the file are taken relative to the file's directory.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Kind == 0 {
		return nil // empty file
	}
	if err := doc.Decode(cfg); err != nil {
		return err
	}

	var listed struct {
		Data struct {
			AssetRoots []string `yaml:"asset_roots"`
		} `yaml:"data"`
	}
	if err := doc.Decode(&listed); err != nil {
		return err
	}
	if roots := listed.Data.AssetRoots; len(roots) > 0 {
		cfg.Data.AssetRoots = resolveRoots(filepath.Dir(path), roots)
	}
	return nil
}

func resolveRoots(base string, roots []string) []string {
	out := make([]string, len(roots))
	for i, r := range roots {
		if r == "" || filepath.IsAbs(r) {
			out[i] = r
			continue
		}
		out[i] = filepath.Join(base, r)
	}
	return out
}
