package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"wordimp/internal/formatting"
	"wordimp/pkg/wpdoc"
)

const (
	EnvPrefix = "WORDIMP"
	EnvConfig = "WORDIMP_CONFIG"
)

type Config struct {
	LogLevel   string     `toml:"log_level" mapstructure:"log_level"`
	Formatting Formatting `toml:"formatting" mapstructure:"formatting"`
	Styling    Styling    `toml:"styling" mapstructure:"styling"`
	Recent     Recent     `toml:"recent" mapstructure:"recent"`
	Preview    Preview    `toml:"preview" mapstructure:"preview"`
}

// Formatting seeds new formatting controllers.
type Formatting struct {
	FontFamily string `toml:"font_family" mapstructure:"font_family"`
	FontSize   int    `toml:"font_size" mapstructure:"font_size"`
	Foreground string `toml:"foreground" mapstructure:"foreground"`
}

type Styling struct {
	IndentWidth int    `toml:"indent_width" mapstructure:"indent_width"`
	Bullet      string `toml:"bullet" mapstructure:"bullet"`
}

type Recent struct {
	Dir string `toml:"dir" mapstructure:"dir"`
	Max int    `toml:"max" mapstructure:"max"`
}

type Preview struct {
	Width  int     `toml:"width" mapstructure:"width"`
	Margin int     `toml:"margin" mapstructure:"margin"`
	DPI    float64 `toml:"dpi" mapstructure:"dpi"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Formatting: Formatting{
			FontFamily: wpdoc.DefaultFontFamily,
			FontSize:   wpdoc.DefaultFontSize,
			Foreground: wpdoc.Black.Hex(),
		},
		Styling: Styling{IndentWidth: 4, Bullet: "•"},
		Recent:  Recent{Dir: "~/.config/wordimp/recent", Max: 10},
		Preview: Preview{Width: 816, Margin: 72, DPI: 72},
	}
}

// DefaultPath is ~/.config/wordimp/config.toml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wordimp", "config.toml"), nil
}

// ResolvePath picks path, then $WORDIMP_CONFIG, then DefaultPath, and
// expands a leading ~.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		return DefaultPath()
	}
	return homedir.Expand(path)
}

// Load layers defaults, the TOML file at path (if it exists) and WORDIMP_*
// environment variables. Nested keys use "_" in the environment, as in
// WORDIMP_FORMATTING_FONT_SIZE.
func Load(path string) (*Config, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("formatting.font_family", d.Formatting.FontFamily)
	v.SetDefault("formatting.font_size", d.Formatting.FontSize)
	v.SetDefault("formatting.foreground", d.Formatting.Foreground)
	v.SetDefault("styling.indent_width", d.Styling.IndentWidth)
	v.SetDefault("styling.bullet", d.Styling.Bullet)
	v.SetDefault("recent.dir", d.Recent.Dir)
	v.SetDefault("recent.max", d.Recent.Max)
	v.SetDefault("preview.width", d.Preview.Width)
	v.SetDefault("preview.margin", d.Preview.Margin)
	v.SetDefault("preview.dpi", d.Preview.DPI)
}

func (c *Config) normalize() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := wpdoc.ParseColour(c.Formatting.Foreground); err != nil {
		return fmt.Errorf("formatting.foreground: %w", err)
	}
	if c.Formatting.FontSize <= 0 {
		return fmt.Errorf("%w: formatting.font_size must be positive", wpdoc.ErrInvalidValue)
	}
	if c.Recent.Max <= 0 {
		c.Recent.Max = Default().Recent.Max
	}
	dir, err := homedir.Expand(c.Recent.Dir)
	if err != nil {
		return fmt.Errorf("recent.dir: %w", err)
	}
	c.Recent.Dir = dir
	if c.Preview.Width <= 2*c.Preview.Margin {
		return fmt.Errorf("%w: preview.width must exceed twice the margin", wpdoc.ErrInvalidValue)
	}
	if c.Preview.DPI <= 0 {
		c.Preview.DPI = Default().Preview.DPI
	}
	return nil
}

// FormattingState is the starting state for a formatting controller.
func (c *Config) FormattingState() formatting.State {
	st := formatting.DefaultState()
	if name := strings.TrimSpace(c.Formatting.FontFamily); name != "" {
		st.FontFamily = name
	}
	if c.Formatting.FontSize > 0 {
		st.FontSize = c.Formatting.FontSize
	}
	if col, err := wpdoc.ParseColour(c.Formatting.Foreground); err == nil {
		st.Foreground = col
	}
	return st
}

func (c *Config) Level() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level %q", wpdoc.ErrInvalidValue, s)
	}
	return lvl, nil
}

// Save writes cfg as TOML. Existing files are left alone unless force is
// set.
func Save(path string, cfg *Config, force bool) (string, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return "", err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("config: %s already exists", path)
		}
	}
	blob, err := Encode(cfg)
	if err != nil {
		return path, fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return path, err
	}
	return path, os.Rename(tmp, path)
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
