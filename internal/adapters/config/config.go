package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/bbscapade/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName     = "config"
	configType     = "toml"
	configDirName  = ".bbscapade"
	configFileName = "config.toml"
	logFileName    = "bbscapade.log"
	envPrefix      = "BBSCAPADE"
	apiKeyEnv      = "GEMINI_API_KEY"
	configFileMode = 0o600
	configDirMode  = 0o700

	tempFilePattern = ".config-*.toml.tmp"

	keyVersion     = "version"
	keyAPIKey      = "api_key"
	keyModel       = "model"
	keyMaxRetries  = "fetch.max_retries"
	keyBaseDelay   = "fetch.base_delay"
	keyLogPath     = "log.path"
	keyLogLevel    = "log.level"
	keySeed        = "seed"
	keyTypingDelay = "ui.typing_delay"
	keyThinking    = "thinking_budget"

	DefaultModel       = "gemini-2.5-flash"
	DefaultMaxRetries  = 3
	MaxFetchRetries    = 10
	DefaultBaseDelay   = time.Second
	DefaultLogLevel    = "info"
	DefaultTypingDelay = 10 * time.Millisecond
)

var ErrConfigExists = errors.New("config file already exists")

type Config struct {
	APIKey string
	Model  string
	Seed   uint64
	Fetch  FetchConfig
	Log    LogConfig
	UI     UIConfig

	// ThinkingBudget caps Gemini thinking tokens per call. 0 disables
	// thinking and -1 lets the model decide.
	ThinkingBudget int

	// File is the config file that was read, empty when none was found.
	File string
}

type FetchConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

type LogConfig struct {
	Path  string
	Level string
}

type UIConfig struct {
	TypingDelay time.Duration
}

// Defaults returns the configuration used when no file or environment
// overrides are present. dir is the bbscapade home directory.
func Defaults(dir string) Config {
	return Config{
		Model: DefaultModel,
		Fetch: FetchConfig{
			MaxRetries: DefaultMaxRetries,
			BaseDelay:  DefaultBaseDelay,
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, logFileName),
			Level: DefaultLogLevel,
		},
		UI: UIConfig{TypingDelay: DefaultTypingDelay},
	}
}

// DefaultDir is ~/.bbscapade.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// Load reads dir/config.toml if present and applies BBSCAPADE_* environment
// overrides. The API key comes from GEMINI_API_KEY or BBSCAPADE_API_KEY only.
func Load(cfg *viper.Viper, dir string) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return Config{}, err
		}
	}

	defaults := Defaults(dir)
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	cfg.SetDefault(keyModel, defaults.Model)
	cfg.SetDefault(keyMaxRetries, defaults.Fetch.MaxRetries)
	cfg.SetDefault(keyBaseDelay, defaults.Fetch.BaseDelay)
	cfg.SetDefault(keyLogPath, defaults.Log.Path)
	cfg.SetDefault(keyLogLevel, defaults.Log.Level)
	cfg.SetDefault(keySeed, 0)
	cfg.SetDefault(keyThinking, 0)
	cfg.SetDefault(keyTypingDelay, defaults.UI.TypingDelay)

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	if err := cfg.BindEnv(keyAPIKey, apiKeyEnv, envPrefix+"_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env: %w", err)
	}

	err := cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("%w: read config file: %w", domain.ErrConfiguration, err)
		}
	}
	if err := validateVersion(cfg.GetInt(keyVersion)); err != nil {
		return Config{}, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	loaded := Config{
		APIKey:         strings.TrimSpace(cfg.GetString(keyAPIKey)),
		Model:          strings.TrimSpace(cfg.GetString(keyModel)),
		Seed:           cfg.GetUint64(keySeed),
		ThinkingBudget: cfg.GetInt(keyThinking),
		Fetch: FetchConfig{
			MaxRetries: cfg.GetInt(keyMaxRetries),
			BaseDelay:  cfg.GetDuration(keyBaseDelay),
		},
		Log: LogConfig{
			Path:  expandHome(cfg.GetString(keyLogPath)),
			Level: strings.ToLower(strings.TrimSpace(cfg.GetString(keyLogLevel))),
		},
		UI:   UIConfig{TypingDelay: cfg.GetDuration(keyTypingDelay)},
		File: cfg.ConfigFileUsed(),
	}

	if err := loaded.validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return loaded, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Model == "" {
		errs = append(errs, errors.New("model is empty"))
	}
	if c.Fetch.MaxRetries < 1 || c.Fetch.MaxRetries > MaxFetchRetries {
		errs = append(errs, fmt.Errorf("fetch.max_retries must be between 1 and %d, got %d", MaxFetchRetries, c.Fetch.MaxRetries))
	}
	if c.ThinkingBudget < -1 {
		errs = append(errs, fmt.Errorf("thinking_budget must be -1 or more, got %d", c.ThinkingBudget))
	}
	if c.Fetch.BaseDelay < 0 {
		errs = append(errs, fmt.Errorf("fetch.base_delay must not be negative, got %s", c.Fetch.BaseDelay))
	}
	if c.UI.TypingDelay < 0 {
		errs = append(errs, fmt.Errorf("ui.typing_delay must not be negative, got %s", c.UI.TypingDelay))
	}
	return errors.Join(errs...)
}

// RequireAPIKey reports a configuration error when no Gemini key is set.
func (c Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: %s is not set; export it or add it to a .env file", domain.ErrConfiguration, apiKeyEnv)
	}
	return nil
}

// WriteDefault writes the default config.toml into dir and returns its path.
// An existing file is only replaced when force is set.
func WriteDefault(dir string, force bool) (string, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return "", err
		}
	}

	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%w: %s", ErrConfigExists, path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat config file: %w", err)
	}

	file := toSchema(Defaults(dir))
	file.applyDefaults()
	if err := writeSchema(path, file); err != nil {
		return "", err
	}
	return path, nil
}

func writeSchema(path string, file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(path), configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}

	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}

	cleanup = false
	return nil
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
