package config

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version        int         `toml:"version"`
	Model          string      `toml:"model"`
	ThinkingBudget int         `toml:"thinking_budget"`
	Seed           uint64      `toml:"seed"`
	Fetch          fetchSchema `toml:"fetch"`
	Log            logSchema   `toml:"log"`
	UI             uiSchema    `toml:"ui"`
}

type fetchSchema struct {
	MaxRetries int    `toml:"max_retries"`
	BaseDelay  string `toml:"base_delay"`
}

type logSchema struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type uiSchema struct {
	TypingDelay string `toml:"typing_delay"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func validateVersion(version int) error {
	if version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", version, currentSchemaVersion)
	}

	return nil
}

func toSchema(cfg Config) fileSchema {
	return fileSchema{
		Version:        currentSchemaVersion,
		Model:          cfg.Model,
		ThinkingBudget: cfg.ThinkingBudget,
		Seed:           cfg.Seed,
		Fetch: fetchSchema{
			MaxRetries: cfg.Fetch.MaxRetries,
			BaseDelay:  cfg.Fetch.BaseDelay.String(),
		},
		Log: logSchema{
			Path:  cfg.Log.Path,
			Level: cfg.Log.Level,
		},
		UI: uiSchema{
			TypingDelay: cfg.UI.TypingDelay.String(),
		},
	}
}
