package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (LVC_HASH, LVC_LOG_LEVEL, ...).
const EnvPrefix = "LVC"

// Loader resolves Settings from defaults, the repository settings file, an
// explicit configuration file and the environment, later sources winning.
type Loader struct {
	envPrefix   string
	keyReplacer *strings.Replacer
}

func NewLoader(envPrefix string) *Loader {
	return &Loader{
		envPrefix:   envPrefix,
		keyReplacer: strings.NewReplacer(".", "_"),
	}
}

// Load merges repoSettingsFile (when present) and configFile (when given;
// it must exist) over the defaults.
func (l *Loader) Load(repoSettingsFile, configFile string) (Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(l.keyReplacer)
	v.AutomaticEnv()

	for key, value := range DefaultValues() {
		v.SetDefault(key, value)
	}

	if repoSettingsFile != "" {
		if _, err := os.Stat(repoSettingsFile); err == nil {
			v.SetConfigFile(repoSettingsFile)
			if err := v.MergeInConfig(); err != nil {
				return Settings{}, fmt.Errorf("failed to read configuration: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.MergeInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	var s Settings
	hook := viper.DecodeHook(mapstructure.StringToSliceHookFunc(","))
	if err := v.Unmarshal(&s, hook); err != nil {
		return Settings{}, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}
