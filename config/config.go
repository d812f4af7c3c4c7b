// Package config provides configuration structures and loading for convert_po.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/git-l10n/convert_po/repository"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// RepoConfigFile is looked up at the root of the enclosing git worktree.
	RepoConfigFile = "convert_po.yaml"
	// UserConfigFile is looked up in the home directory.
	UserConfigFile = ".convert_po.yaml"
)

// Config holds the complete convert_po configuration.
type Config struct {
	Layout string       `yaml:"layout"`
	Indent *int         `yaml:"indent"`
	Filter FilterConfig `yaml:"filter"`
}

// FilterConfig selects entries by state, like the command-line filters.
type FilterConfig struct {
	Translated   bool `yaml:"translated"`
	Untranslated bool `yaml:"untranslated"`
	Fuzzy        bool `yaml:"fuzzy"`
	NoObsolete   bool `yaml:"no_obsolete"`
	OnlySame     bool `yaml:"only_same"`
	OnlyObsolete bool `yaml:"only_obsolete"`
}

// IndentOrDefault returns the configured indent or def when unset.
func (c *Config) IndentOrDefault(def int) int {
	if c.Indent == nil {
		return def
	}
	return *c.Indent
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig copies the values set in override onto base.
// Filter switches can only be turned on by a later file.
func mergeConfig(base, override *Config) {
	if override.Layout != "" {
		base.Layout = override.Layout
	}
	if override.Indent != nil {
		indent := *override.Indent
		base.Indent = &indent
	}
	f := &base.Filter
	o := override.Filter
	f.Translated = f.Translated || o.Translated
	f.Untranslated = f.Untranslated || o.Untranslated
	f.Fuzzy = f.Fuzzy || o.Fuzzy
	f.NoObsolete = f.NoObsolete || o.NoObsolete
	f.OnlySame = f.OnlySame || o.OnlySame
	f.OnlyObsolete = f.OnlyObsolete || o.OnlyObsolete
}

// configPaths returns the optional configuration files, lowest priority first.
func configPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, UserConfigFile))
	}
	if workDir := repository.WorkDir(); workDir != "" {
		paths = append(paths, filepath.Join(workDir, RepoConfigFile))
	}
	return paths
}

// LoadConfig merges ~/.convert_po.yaml, convert_po.yaml at the worktree
// root, and configFile (if not empty), in that order. Missing optional
// files are skipped; a missing configFile is an error.
func LoadConfig(configFile string) (*Config, error) {
	cfg := &Config{}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		c, err := loadConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		log.Debugf("loaded config from %s", path)
		mergeConfig(cfg, c)
	}

	if configFile != "" {
		c, err := loadConfigFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
		log.Debugf("loaded config from %s", configFile)
		mergeConfig(cfg, c)
	}

	return cfg, nil
}
