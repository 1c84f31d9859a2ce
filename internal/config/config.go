// Package config loads the freezedry command configuration from
// freezedry.yaml, FREEZEDRY_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"freezedry/diff"
	"freezedry/internal/gen"
	"freezedry/options"
	"freezedry/primitive"
)

const (
	FileName  = "freezedry"
	EnvPrefix = "FREEZEDRY"
)

// Config represents the freezedry configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log"       yaml:"log"`
	Transform TransformConfig `mapstructure:"transform" yaml:"transform"`
	Diff      DiffConfig      `mapstructure:"diff"      yaml:"diff"`
	Gen       GenConfig       `mapstructure:"gen"       yaml:"gen"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"       yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// TransformConfig mirrors the engine options that can be set from a file
type TransformConfig struct {
	PersistClassConstants bool     `mapstructure:"persist_class_constants" yaml:"persist_class_constants"`
	PersistNullValues     bool     `mapstructure:"persist_null_values"     yaml:"persist_null_values"`
	GenericTypeSeparator  string   `mapstructure:"generic_type_separator"  yaml:"generic_type_separator"`
	ArraySuffix           string   `mapstructure:"array_suffix"            yaml:"array_suffix"`
	EntryName             string   `mapstructure:"entry_name"              yaml:"entry_name"`
	KeyName               string   `mapstructure:"key_name"                yaml:"key_name"`
	ValueName             string   `mapstructure:"value_name"              yaml:"value_name"`
	DateFormat            string   `mapstructure:"date_format"             yaml:"date_format"`
	DateParseFormats      []string `mapstructure:"date_parse_formats"      yaml:"date_parse_formats"`
	Tolerance             []string `mapstructure:"tolerance"               yaml:"tolerance"`
	MaxDepth              int      `mapstructure:"max_depth"               yaml:"max_depth"`
}

// DiffConfig represents difference calculation configuration
type DiffConfig struct {
	KeySeparator string `mapstructure:"key_separator" yaml:"key_separator"`
}

// GenConfig represents descriptor generation configuration
type GenConfig struct {
	Filename      string `mapstructure:"filename"       yaml:"filename"`
	FuncName      string `mapstructure:"func_name"      yaml:"func_name"`
	DescriptorPkg string `mapstructure:"descriptor_pkg" yaml:"descriptor_pkg"`
}

func setDefaults(v *viper.Viper) {
	def := options.Default()
	genDef := gen.DefaultGeneratorConfig()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("transform.persist_class_constants", def.PersistClassConstants)
	v.SetDefault("transform.persist_null_values", def.PersistNullValues)
	v.SetDefault("transform.generic_type_separator", def.GenericTypeSeparator)
	v.SetDefault("transform.array_suffix", def.ArraySuffix)
	v.SetDefault("transform.entry_name", def.EntryName)
	v.SetDefault("transform.key_name", def.KeyName)
	v.SetDefault("transform.value_name", def.ValueName)
	v.SetDefault("transform.date_format", "RFC3339Nano")
	v.SetDefault("transform.date_parse_formats", []string{"RFC3339Nano", "RFC3339", "DateTime", "DateOnly"})
	v.SetDefault("transform.tolerance", []string{"all"})
	v.SetDefault("transform.max_depth", def.MaxDepth)

	v.SetDefault("diff.key_separator", diff.DefaultKeySeparator)

	v.SetDefault("gen.filename", genDef.Filename)
	v.SetDefault("gen.func_name", genDef.FuncName)
	v.SetDefault("gen.descriptor_pkg", genDef.DescriptorPkg)
}

// Load loads the configuration from path, or from freezedry.yaml in the
// working directory when path is empty. A missing default file is not an
// error; defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support, e.g. FREEZEDRY_LOG_LEVEL
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	sep := c.Transform.GenericTypeSeparator
	if sep == "" {
		return errors.New("transform.generic_type_separator must not be empty")
	}

	if strings.IndexFunc(sep, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
		return fmt.Errorf("transform.generic_type_separator must not contain letters or digits, got: %s", sep)
	}

	if _, err := primitive.ParseCategories(c.Transform.Tolerance...); err != nil {
		return fmt.Errorf("transform.tolerance: %w", err)
	}

	if c.Transform.MaxDepth < 0 {
		return fmt.Errorf("transform.max_depth must not be negative, got: %d", c.Transform.MaxDepth)
	}

	if c.Diff.KeySeparator == "" {
		return errors.New("diff.key_separator must not be empty")
	}

	return nil
}

// EngineOptions converts the transform section into engine options.
func (c *Config) EngineOptions() ([]options.Option, error) {
	t := c.Transform

	tolerance, err := primitive.ParseCategories(t.Tolerance...)
	if err != nil {
		return nil, fmt.Errorf("transform.tolerance: %w", err)
	}

	return []options.Option{
		options.WithPersistClassConstants(t.PersistClassConstants),
		options.WithPersistNullValues(t.PersistNullValues),
		options.WithGenericTypeSeparator(t.GenericTypeSeparator),
		options.WithArraySuffix(t.ArraySuffix),
		options.WithEntryNames(t.EntryName, t.KeyName, t.ValueName),
		options.WithDateFormat(t.DateFormat),
		options.WithDateParseFormats(t.DateParseFormats...),
		options.WithTolerance(tolerance),
		options.WithMaxDepth(t.MaxDepth),
	}, nil
}

// GeneratorConfig converts the gen section into a generator configuration.
func (c *Config) GeneratorConfig() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		Filename:      c.Gen.Filename,
		FuncName:      c.Gen.FuncName,
		DescriptorPkg: c.Gen.DescriptorPkg,
	}
}

// Logger builds the logger described by the log section. It never fails:
// a logger that cannot be built is replaced by a no-op one.
func (c LogConfig) Logger() *zap.Logger {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}

	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}
