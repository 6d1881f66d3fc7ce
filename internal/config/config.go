package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/soundforge/flacpress/internal/model"
	"github.com/soundforge/flacpress/internal/validate"
)

// Configuration keys
const (
	KeyJobs          = "engine.jobs"
	KeyTimeoutSec    = "engine.timeout_sec"
	KeyShrinkFactor  = "engine.shrink_factor"
	KeySimulate      = "engine.simulate"
	KeyDeterministic = "engine.deterministic"
	KeyMaxFileSize   = "gate.max_file_size"
	KeyTypes         = "gate.types"
	KeyFormat        = "profile.format"
	KeySampleRate    = "profile.sample_rate"
	KeyChannels      = "profile.channels"
	KeyBitDepth      = "profile.bit_depth"
	KeyCodec         = "profile.codec"
	KeyOutputDir     = "output.dir"
	KeyLogLevel      = "log.level"
)

// Default values
const (
	DefaultJobs       = 3
	DefaultTimeoutSec = 120
	DefaultOutputDir  = "converted"
	DefaultLogLevel   = "info"

	// EnvPrefix namespaces environment overrides, e.g. FLACPRESS_ENGINE_JOBS.
	EnvPrefix = "FLACPRESS"
)

// Config holds all runtime settings for the conversion engine and CLI.
type Config struct {
	Engine  EngineConfig
	Gate    GateConfig
	Profile ProfileConfig
	Output  OutputConfig
	Log     LogConfig
}

// EngineConfig tunes the scheduler and the conversion operation.
type EngineConfig struct {
	Jobs          int     `validate:"gte=1,lte=32"` // conversions in flight at once
	TimeoutSec    int     `validate:"gte=1"`        // per-file deadline in seconds
	ShrinkFactor  float64 `validate:"gt=0,lte=1"`   // projected output/input size ratio
	Simulate      bool    // use the simulated encoder instead of ffmpeg
	Deterministic bool    // fixed progress steps in the simulated encoder
}

// GateConfig tunes file admission.
type GateConfig struct {
	MaxFileSize int64    `validate:"gt=0"` // admission ceiling in bytes
	Types       []string `validate:"min=1"`
}

// ProfileConfig describes the conversion target.
type ProfileConfig struct {
	Format     string `validate:"required"`
	SampleRate int    `validate:"gte=8000,lte=384000"`
	Channels   int    `validate:"gte=1,lte=8"`
	BitDepth   int    `validate:"oneof=16 24 32"`
	Codec      string `validate:"required"`
}

// OutputConfig describes where converted files land.
type OutputConfig struct {
	Dir string `validate:"required"`
}

// LogConfig tunes diagnostics.
type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

var validatorInst = validator.New()

// Load reads configuration from an optional YAML file and FLACPRESS_*
// environment variables, fills defaults, and validates the result. When
// path is empty, config.yaml is looked up in . and ./config and is allowed
// to be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	defaultProfile := model.DefaultProfile()
	v.SetDefault(KeyJobs, DefaultJobs)
	v.SetDefault(KeyTimeoutSec, DefaultTimeoutSec)
	v.SetDefault(KeyShrinkFactor, 0.55)
	v.SetDefault(KeySimulate, false)
	v.SetDefault(KeyDeterministic, false)
	v.SetDefault(KeyMaxFileSize, validate.DefaultMaxFileSize)
	v.SetDefault(KeyTypes, validate.DefaultTypes())
	v.SetDefault(KeyFormat, defaultProfile.Format)
	v.SetDefault(KeySampleRate, defaultProfile.SampleRate)
	v.SetDefault(KeyChannels, defaultProfile.Channels)
	v.SetDefault(KeyBitDepth, defaultProfile.BitDepth)
	v.SetDefault(KeyCodec, defaultProfile.Codec)
	v.SetDefault(KeyOutputDir, DefaultOutputDir)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		// Without an explicit path the file is optional.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Engine: EngineConfig{
			Jobs:          v.GetInt(KeyJobs),
			TimeoutSec:    v.GetInt(KeyTimeoutSec),
			ShrinkFactor:  v.GetFloat64(KeyShrinkFactor),
			Simulate:      v.GetBool(KeySimulate),
			Deterministic: v.GetBool(KeyDeterministic),
		},
		Gate: GateConfig{
			MaxFileSize: v.GetInt64(KeyMaxFileSize),
			Types:       v.GetStringSlice(KeyTypes),
		},
		Profile: ProfileConfig{
			Format:     v.GetString(KeyFormat),
			SampleRate: v.GetInt(KeySampleRate),
			Channels:   v.GetInt(KeyChannels),
			BitDepth:   v.GetInt(KeyBitDepth),
			Codec:      v.GetString(KeyCodec),
		},
		Output: OutputConfig{
			Dir: v.GetString(KeyOutputDir),
		},
		Log: LogConfig{
			Level: v.GetString(KeyLogLevel),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validatorInst.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TargetProfile maps the profile section to the domain type.
func (c *Config) TargetProfile() model.Profile {
	return model.Profile{
		Format:     c.Profile.Format,
		SampleRate: c.Profile.SampleRate,
		Channels:   c.Profile.Channels,
		BitDepth:   c.Profile.BitDepth,
		Codec:      c.Profile.Codec,
	}
}

// Timeout returns the per-file deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Engine.TimeoutSec) * time.Second
}
