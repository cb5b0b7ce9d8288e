package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/smux/internal/logging"
	"github.com/spf13/viper"
)

const (
	configDir  = ".smux"
	configName = "config"
	configType = "toml"
	envPrefix  = "SMUX"

	KeyProvidersPath  = "providers.path"
	KeySecretsPath    = "secrets.path"
	KeySessionCommand = "session.command"
	KeyResizeDebounce = "resize.debounce"
	KeyPollInterval   = "status.poll_interval"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyLogPath        = "log.path"

	DefaultResizeDebounce = 50 * time.Millisecond
	DefaultPollInterval   = 5 * time.Second
)

type Settings struct {
	Dir            string
	SecretsPath    string
	Command        []string
	ResizeDebounce time.Duration
	// PollInterval of zero or less turns the status poller off.
	PollInterval time.Duration
	Log          logging.Config
}

// Load reads ~/.smux/config.toml when it exists and layers SMUX_* environment
// variables on top. The returned viper instance is shared with the adapters
// that own their own keys, such as the provider store.
func Load() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, configDir)

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyProvidersPath, filepath.Join(dir, "providers.toml"))
	v.SetDefault(KeySecretsPath, filepath.Join(dir, "secrets"))
	v.SetDefault(KeySessionCommand, "")
	v.SetDefault(KeyResizeDebounce, DefaultResizeDebounce)
	v.SetDefault(KeyPollInterval, DefaultPollInterval)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogPath, "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// The provider store reads this key itself and does not know about "~".
	providersPath, err := expandHome(v.GetString(KeyProvidersPath), homeDir)
	if err != nil {
		return nil, err
	}
	v.Set(KeyProvidersPath, providersPath)

	return v, nil
}

func Decode(v *viper.Viper) (Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("resolve home directory: %w", err)
	}

	secretsPath, err := expandHome(v.GetString(KeySecretsPath), homeDir)
	if err != nil {
		return Settings{}, err
	}
	if secretsPath == "" {
		return Settings{}, errors.New("secrets path is empty")
	}

	debounce := v.GetDuration(KeyResizeDebounce)
	if debounce < 0 {
		return Settings{}, fmt.Errorf("%s must not be negative: %s", KeyResizeDebounce, debounce)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(v.GetString(KeyLogLevel))
	if format := v.GetString(KeyLogFormat); format == "json" || format == "console" {
		logCfg.Format = format
	}
	logPath, err := expandHome(v.GetString(KeyLogPath), homeDir)
	if err != nil {
		return Settings{}, err
	}
	logCfg.Path = logPath

	return Settings{
		Dir:            filepath.Join(homeDir, configDir),
		SecretsPath:    secretsPath,
		Command:        strings.Fields(v.GetString(KeySessionCommand)),
		ResizeDebounce: debounce,
		PollInterval:   v.GetDuration(KeyPollInterval),
		Log:            logCfg,
	}, nil
}

func expandHome(path, homeDir string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "~" {
		return homeDir, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:]), nil
	}
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return abs, nil
}
