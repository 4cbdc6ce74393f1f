package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const dirName = ".shirtstats"

// Global configuration structure.
type Global struct {
	DefaultInput string `mapstructure:"default_input" yaml:"default_input"`
	TargetLabel  string `mapstructure:"target_label" yaml:"target_label" validate:"required"`

	// Persistence sink (PostgreSQL)
	DatabaseURL  string `mapstructure:"database_url" yaml:"database_url"`
	SaveToDB     bool   `mapstructure:"save_to_db" yaml:"save_to_db"`
	MergePolicy  string `mapstructure:"merge_policy" yaml:"merge_policy" validate:"oneof=overwrite increment"`
	DBTimeoutSec int    `mapstructure:"db_timeout_sec" yaml:"db_timeout_sec" validate:"gte=1"`

	BatchJobs int `mapstructure:"batch_jobs" yaml:"batch_jobs" validate:"gte=1,lte=64"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=console json"`
}

var validate = validator.New()

// Validate checks field constraints and returns the first violations joined.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Dir returns ~/.shirtstats.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.shirtstats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_input", "python_class_question.html")
	v.SetDefault("target_label", "RED")
	v.SetDefault("database_url", "")
	v.SetDefault("save_to_db", false)
	v.SetDefault("merge_policy", "overwrite")
	v.SetDefault("db_timeout_sec", 5)
	v.SetDefault("batch_jobs", 4)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
}

// Defaults returns the built-in configuration, ignoring files and env.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. CLI flags are applied by callers.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SHIRTSTATS")
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.MergePolicy = strings.ToLower(strings.TrimSpace(c.MergePolicy))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
