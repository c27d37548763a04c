package config

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/keshon/lvc/internal/fs"
)

const (
	DefaultHash          = "xxh3" // "xxh3" | "sha1" | "sha256"
	DefaultSplitStrategy = "first-parent"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "console"

	settingsVersion = 1
)

var (
	hashAlgorithms  = []string{"xxh3", "sha1", "sha256"}
	splitStrategies = []string{"first-parent", "nearest"}
	logLevels       = []string{"debug", "info", "warn", "error"}
	logFormats      = []string{"structured", "console"}
)

// Settings is the effective configuration of one invocation.
type Settings struct {
	Hash     string        `mapstructure:"hash"`
	Compress bool          `mapstructure:"compress"`
	Ignore   []string      `mapstructure:"ignore"`
	Merge    MergeSettings `mapstructure:"merge"`
	Log      LogSettings   `mapstructure:"log"`
}

type MergeSettings struct {
	SplitStrategy string `mapstructure:"split_strategy"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultSettings returns the settings used when nothing overrides them.
func DefaultSettings() Settings {
	return Settings{
		Hash:  DefaultHash,
		Merge: MergeSettings{SplitStrategy: DefaultSplitStrategy},
		Log:   LogSettings{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// DefaultValues flattens DefaultSettings into dotted keys.
func DefaultValues() map[string]any {
	d := DefaultSettings()
	return map[string]any{
		"hash":                 d.Hash,
		"compress":             d.Compress,
		"ignore":               []string{},
		"merge.split_strategy": d.Merge.SplitStrategy,
		"log.level":            d.Log.Level,
		"log.format":           d.Log.Format,
	}
}

// Validate normalizes enum values and rejects unknown ones.
func (s *Settings) Validate() error {
	s.Hash = strings.ToLower(strings.TrimSpace(s.Hash))
	if s.Hash == "" {
		s.Hash = DefaultHash
	}
	if !slices.Contains(hashAlgorithms, s.Hash) {
		return fmt.Errorf("unsupported hash %q (want one of %s)", s.Hash, strings.Join(hashAlgorithms, ", "))
	}

	s.Merge.SplitStrategy = strings.ToLower(strings.TrimSpace(s.Merge.SplitStrategy))
	if s.Merge.SplitStrategy == "" {
		s.Merge.SplitStrategy = DefaultSplitStrategy
	}
	if !slices.Contains(splitStrategies, s.Merge.SplitStrategy) {
		return fmt.Errorf("unsupported merge.split_strategy %q (want one of %s)", s.Merge.SplitStrategy, strings.Join(splitStrategies, ", "))
	}

	s.Log.Level = strings.ToLower(strings.TrimSpace(s.Log.Level))
	if !slices.Contains(logLevels, s.Log.Level) {
		return fmt.Errorf("unsupported log level %q", s.Log.Level)
	}
	s.Log.Format = strings.ToLower(strings.TrimSpace(s.Log.Format))
	if !slices.Contains(logFormats, s.Log.Format) {
		return fmt.Errorf("unsupported log format %q", s.Log.Format)
	}

	ignore := s.Ignore[:0]
	for _, p := range s.Ignore {
		if p = strings.TrimSpace(p); p != "" {
			ignore = append(ignore, p)
		}
	}
	s.Ignore = ignore
	return nil
}

// RepoSettings are the values fixed when a repository is created.
type RepoSettings struct {
	Version  int    `yaml:"version"`
	Hash     string `yaml:"hash"`
	Compress bool   `yaml:"compress"`
}

// SaveRepoSettings writes the repository settings file.
func SaveRepoSettings(fsys fs.FS, path string, rs RepoSettings) error {
	rs.Version = settingsVersion
	data, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := fsys.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings %q: %w", path, err)
	}
	return nil
}

// LoadRepoSettings reads the repository settings file. Other keys in the file
// are left to the Loader.
func LoadRepoSettings(fsys fs.FS, path string) (RepoSettings, error) {
	rs := RepoSettings{Version: settingsVersion, Hash: DefaultHash}
	data, err := fsys.ReadFile(path)
	if err != nil {
		if fsys.IsNotExist(err) {
			return rs, nil
		}
		return rs, fmt.Errorf("failed to read settings %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return rs, fmt.Errorf("failed to parse settings %q: %w", path, err)
	}
	if rs.Hash == "" {
		rs.Hash = DefaultHash
	}
	return rs, nil
}
