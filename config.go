package snapsocket

import (
	"bytes"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the effective configuration of the snapsocket binary.
type Config struct {
	Socket  SocketConfig  `mapstructure:"socket" yaml:"socket"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Sim     SimConfig     `mapstructure:"sim" yaml:"sim"`
	Hands   HandsConfig   `mapstructure:"hands" yaml:"hands"`
	Journal JournalConfig `mapstructure:"journal" yaml:"journal"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

type SimConfig struct {
	// DT is the fixed timestep in seconds.
	DT       float32 `mapstructure:"dt" yaml:"dt"`
	Duration float32 `mapstructure:"duration" yaml:"duration"`
}

// HandsConfig names the two hand controllers in the scene.
type HandsConfig struct {
	Left  string `mapstructure:"left" yaml:"left"`
	Right string `mapstructure:"right" yaml:"right"`
}

type JournalConfig struct {
	// Path of the sqlite journal; empty disables it.
	Path string `mapstructure:"path" yaml:"path"`
}

const EnvPrefix = "SNAPSOCKET"

// DefaultConfig returns the configuration used when nothing overrides it.
// The environment is not consulted.
func DefaultConfig() Config {
	return Config{
		Socket: DefaultSocketConfig(),
		Log:    LogConfig{Level: "info", Format: "text"},
		Sim:    SimConfig{DT: 1.0 / 90, Duration: 5},
		Hands:  HandsConfig{Left: "LeftHand Controller", Right: "RightHand Controller"},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("socket.radius", d.Socket.Radius)
	v.SetDefault("socket.angleTolerance", d.Socket.AngleTolerance)
	v.SetDefault("socket.lerpSpeed", d.Socket.LerpSpeed)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("sim.dt", d.Sim.DT)
	v.SetDefault("sim.duration", d.Sim.Duration)

	v.SetDefault("hands.left", d.Hands.Left)
	v.SetDefault("hands.right", d.Hands.Right)

	v.SetDefault("journal.path", d.Journal.Path)
}

// LoadConfig reads defaults, then the optional file at path (yaml, json or
// toml by extension), then SNAPSOCKET_* environment variables such as
// SNAPSOCKET_SOCKET_RADIUS.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Socket.Validate(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidConfig, c.Log.Format)
	}
	if !(c.Sim.DT > 0) {
		return fmt.Errorf("%w: sim.dt must be positive, got %v", ErrInvalidConfig, c.Sim.DT)
	}
	if !(c.Sim.Duration >= 0) {
		return fmt.Errorf("%w: sim.duration must not be negative, got %v", ErrInvalidConfig, c.Sim.Duration)
	}
	if c.Hands.Left == "" || c.Hands.Right == "" || c.Hands.Left == c.Hands.Right {
		return fmt.Errorf("%w: hands.left and hands.right must be distinct names", ErrInvalidConfig)
	}
	return nil
}

// Apply sets the level and formatter of l.
func (c LogConfig) Apply(l *log.Logger) error {
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	l.SetLevel(lvl)
	if c.Format == "json" {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// YAML renders the effective configuration.
func (c Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
