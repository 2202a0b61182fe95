// Package config loads simulation settings from defaults, an optional YAML
// file and SURGERY_* environment variables, in increasing precedence.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. SURGERY_OUTPUT_PATH.
const EnvPrefix = "SURGERY"

// Built-in values used when neither a file nor the environment sets a key.
const (
	DefaultInputPath     = "MRI-Brain-Images-abenign-bmalignant-images.jpg"
	DefaultOutputPath    = "surgery_result.jpg"
	DefaultPaceDelay     = 2 * time.Second
	DefaultThreshold     = 100
	DefaultDamping       = 0.1
	DefaultArrowOffset   = 100
	DefaultRemovalRadius = 20
)

// Config holds every setting for one simulation run.
type Config struct {
	InputPath  string        `mapstructure:"input_path"`
	OutputPath string        `mapstructure:"output_path"`
	LogMode    string        `mapstructure:"log_mode"`
	Headless   bool          `mapstructure:"headless"`
	PaceDelay  time.Duration `mapstructure:"pace_delay"`

	Segment SegmentConfig `mapstructure:"segment"`
	Arm     ArmConfig     `mapstructure:"arm"`
	Target  TargetConfig  `mapstructure:"target"`
	Render  RenderConfig  `mapstructure:"render"`
}

// SegmentConfig controls foreground segmentation.
type SegmentConfig struct {
	Threshold int `mapstructure:"threshold"`
}

// ArmConfig places the actuator reference point and sets its approach and
// tremor damping.
type ArmConfig struct {
	ReferenceX    int     `mapstructure:"reference_x"`
	ReferenceY    int     `mapstructure:"reference_y"`
	ApproachDepth float64 `mapstructure:"approach_depth"`
	Damping       float64 `mapstructure:"damping"`
	TremorDelta   float64 `mapstructure:"tremor_delta"`
}

// TargetConfig controls the guide arrows.
type TargetConfig struct {
	ArrowOffset int `mapstructure:"arrow_offset"`
}

// RenderConfig controls the removal overlay.
type RenderConfig struct {
	RemovalRadius int `mapstructure:"removal_radius"`
}

// Load reads configuration. An empty path skips the file and uses defaults
// plus environment overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		InputPath:  DefaultInputPath,
		OutputPath: DefaultOutputPath,
		LogMode:    "development",
		PaceDelay:  DefaultPaceDelay,
		Segment:    SegmentConfig{Threshold: DefaultThreshold},
		Arm: ArmConfig{
			ReferenceX:    50,
			ReferenceY:    150,
			ApproachDepth: -2,
			Damping:       DefaultDamping,
			TremorDelta:   0.1,
		},
		Target: TargetConfig{ArrowOffset: DefaultArrowOffset},
		Render: RenderConfig{RemovalRadius: DefaultRemovalRadius},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input_path", d.InputPath)
	v.SetDefault("output_path", d.OutputPath)
	v.SetDefault("log_mode", d.LogMode)
	v.SetDefault("headless", d.Headless)
	v.SetDefault("pace_delay", d.PaceDelay)

	v.SetDefault("segment.threshold", d.Segment.Threshold)

	v.SetDefault("arm.reference_x", d.Arm.ReferenceX)
	v.SetDefault("arm.reference_y", d.Arm.ReferenceY)
	v.SetDefault("arm.approach_depth", d.Arm.ApproachDepth)
	v.SetDefault("arm.damping", d.Arm.Damping)
	v.SetDefault("arm.tremor_delta", d.Arm.TremorDelta)

	v.SetDefault("target.arrow_offset", d.Target.ArrowOffset)
	v.SetDefault("render.removal_radius", d.Render.RemovalRadius)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.InputPath == "":
		return errors.New("input_path must not be empty")
	case c.OutputPath == "":
		return errors.New("output_path must not be empty")
	case c.PaceDelay < 0:
		return errors.Errorf("pace_delay must not be negative, got %s", c.PaceDelay)
	case c.Segment.Threshold < 0 || c.Segment.Threshold > 255:
		return errors.Errorf("segment.threshold must be within 0..255, got %d", c.Segment.Threshold)
	case c.Render.RemovalRadius <= 0:
		return errors.Errorf("render.removal_radius must be positive, got %d", c.Render.RemovalRadius)
	}
	switch c.LogMode {
	case "development", "production":
	default:
		return errors.Errorf("log_mode must be development or production, got %q", c.LogMode)
	}
	return nil
}
