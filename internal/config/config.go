package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings is the full option surface of a run. JSON tags double as the
// config-file schema; a file may set any subset and flags overlay on top.
type Settings struct {
	Batch   bool `json:"batch"`
	DryRun  bool `json:"dry_run"`
	Recurse bool `json:"recurse"`
	Scene   bool `json:"scene"`
	Verbose bool `json:"verbose"`
	Probe   bool `json:"probe"`

	Blacklist     []string `json:"blacklist"`
	ExtensionMask []string `json:"extension_mask"`
	MaxHits       int      `json:"max_hits"`

	MovieAPI         string `json:"movie_api"`
	MovieAPIKey      string `json:"movie_api_key"`
	MovieDestination string `json:"movie_destination"`
	MovieTemplate    string `json:"movie_template"`

	EpisodeAPI         string `json:"episode_api"`
	EpisodeAPIKey      string `json:"episode_api_key"`
	EpisodeDestination string `json:"episode_destination"`
	EpisodeTemplate    string `json:"episode_template"`

	Replacements map[string]string `json:"replacements"`

	LogRetentionDays int  `json:"log_retention_days"`
	EnableLogging    bool `json:"enable_logging"`
}

// Defaults returns the settings a fresh install runs with.
func Defaults() *Settings {
	return &Settings{
		Blacklist:     []string{"(?i)sample", "(?i)RARBG"},
		ExtensionMask: []string{"avi", "m4v", "mkv", "mov", "mp4", "srt", "ts", "wmv"},
		MaxHits:       5,
		MovieAPI:      "tmdb",
		EpisodeAPI:    "tvdb",
		Replacements: map[string]string{
			"&": "and",
			"@": "at",
			";": ",",
		},
		LogRetentionDays: 30,
		EnableLogging:    true,
	}
}

// Path returns the location of the user configuration file.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".media-mover", "config.json"), nil
}

// Load reads configuration, layering sources onto the defaults. A
// .media-mover.json in the working directory wins over the home config; an
// explicit path wins over both. Environment variable references in either
// file are expanded, so API keys can live outside the file.
func Load(explicitPath string) (*Settings, error) {
	cfg := Defaults()

	homePath, err := Path()
	if err != nil {
		return nil, err
	}

	paths := []string{homePath, ".media-mover.json"}
	if explicitPath != "" {
		paths = append(paths, explicitPath)
	}

	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				// Only the explicitly requested file must exist.
				if explicitPath != "" && i == len(paths)-1 {
					return nil, fmt.Errorf("failed to read config file: %w", err)
				}
				continue
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := json.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if cfg.MaxHits <= 0 {
		cfg.MaxHits = Defaults().MaxHits
	}
	if cfg.LogRetentionDays <= 0 {
		cfg.LogRetentionDays = Defaults().LogRetentionDays
	}

	return cfg, nil
}

// Save writes the settings to path, or to the default location when path is
// empty.
func (cfg *Settings) Save(path string) error {
	if path == "" {
		defaultPath, err := Path()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
