package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadRaven loads the game configuration.
// Search order: customPath -> ~/.raven/configs/raven.yaml -> ./configs/raven.yaml -> embedded default.
// Files only need to set the keys they change; everything else keeps the
// default value.
func LoadRaven(customPath string) (RavenConfig, error) {
	cfg := embeddedDefault()

	// Custom path must exist and parse
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath("raven.yaml"), filepath.Join("configs", "raven.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := embeddedDefault()
		if err := yaml.Unmarshal(data, &candidate); err == nil && candidate.Validate() == nil {
			return candidate, nil
		}
	}

	return cfg, nil
}

// embeddedDefault parses the embedded YAML, falling back to the hard-coded
// defaults if that fails.
func embeddedDefault() RavenConfig {
	var cfg RavenConfig
	if err := yaml.Unmarshal(defaultRavenYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultRavenConfig()
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".raven", "configs", filename)
}
