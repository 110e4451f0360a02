package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/npillmayer/wordpieces"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings of the wordpieces command.
type Config struct {
	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
	Render     RenderConfig     `mapstructure:"render"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	LogLevel   string           `mapstructure:"log_level"`
}

type VocabularyConfig struct {
	Backend   string `mapstructure:"backend"`
	SkipBlank bool   `mapstructure:"skip_blank"`
}

type RenderConfig struct {
	Marker  string `mapstructure:"marker"`
	Unknown string `mapstructure:"unknown"`
}

type PipelineConfig struct {
	Workers   int `mapstructure:"workers"`
	BatchSize int `mapstructure:"batch_size"`
}

// LoadOptions select the sources Load merges over Defaults.
type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	EnvFile    string // optional dotenv file; ".env" in the working directory if empty
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Vocabulary: VocabularyConfig{
			Backend:   string(wordpieces.DefaultBackend),
			SkipBlank: false,
		},
		Render: RenderConfig{
			Marker:  "##",
			Unknown: "[UNK]",
		},
		Pipeline: PipelineConfig{
			Workers:   1,
			BatchSize: 256,
		},
		LogLevel: "info",
	}
}

// RegisterFlags adds one flag per setting to fs, with defaults as values.
func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("vocabulary-backend", defaults.Vocabulary.Backend, "Vocabulary backend (dat|trie|hash)")
	fs.Bool("vocabulary-skip-blank", defaults.Vocabulary.SkipBlank, "Ignore blank lines in the word pieces file")
	fs.String("render-marker", defaults.Render.Marker, "Continuation marker for non-initial pieces")
	fs.String("render-unknown", defaults.Render.Unknown, "Placeholder for words which cannot be segmented")
	fs.Int("pipeline-workers", defaults.Pipeline.Workers, "Number of sentences segmented concurrently")
	fs.Int("pipeline-batch-size", defaults.Pipeline.BatchSize, "Sentences per processing batch")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

// Load merges defaults, config file, environment and flags, in increasing
// priority, and validates the result.
func Load(opts LoadOptions) (Config, error) {
	if err := loadDotEnv(opts.EnvFile); err != nil {
		return Config{}, err
	}

	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("WORDPIECES")
	replacer := strings.NewReplacer("-", "_", ".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("wordpieces")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges which viper cannot express.
func (c Config) Validate() error {
	if _, err := wordpieces.ParseBackend(c.Vocabulary.Backend); err != nil {
		return err
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be positive, is %d", c.Pipeline.Workers)
	}
	if c.Pipeline.BatchSize < 1 {
		return fmt.Errorf("pipeline.batch_size must be positive, is %d", c.Pipeline.BatchSize)
	}
	if c.Render.Unknown == "" {
		return errors.New("render.unknown must not be empty")
	}
	return nil
}

// Backend returns the configured vocabulary backend.
func (c Config) Backend() wordpieces.Backend {
	b, err := wordpieces.ParseBackend(c.Vocabulary.Backend)
	if err != nil {
		return wordpieces.DefaultBackend
	}
	return b
}

// loadDotEnv loads environment variables from a dotenv file. A missing
// default file is not an error; a missing explicit file is.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("check env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("could not load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("vocabulary.backend", c.Vocabulary.Backend)
	v.SetDefault("vocabulary.skip_blank", c.Vocabulary.SkipBlank)
	v.SetDefault("render.marker", c.Render.Marker)
	v.SetDefault("render.unknown", c.Render.Unknown)
	v.SetDefault("pipeline.workers", c.Pipeline.Workers)
	v.SetDefault("pipeline.batch_size", c.Pipeline.BatchSize)
	v.SetDefault("log_level", c.LogLevel)
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"vocabulary-backend":    "vocabulary.backend",
	"vocabulary-skip-blank": "vocabulary.skip_blank",
	"render-marker":         "render.marker",
	"render-unknown":        "render.unknown",
	"pipeline-workers":      "pipeline.workers",
	"pipeline-batch-size":   "pipeline.batch_size",
	"log-level":             "log_level",
}

// bindFlags binds every registered flag to its nested key, so that a flag
// only overrides config file and environment if it is set explicitly.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}
