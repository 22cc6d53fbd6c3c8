package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataPath     string `mapstructure:"data_path" yaml:"data_path"`
	Sheet        string `mapstructure:"sheet" yaml:"sheet,omitempty"`
	Delimiter    string `mapstructure:"delimiter" yaml:"delimiter,omitempty"`
	StrictUnique bool   `mapstructure:"strict_unique" yaml:"strict_unique"`

	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`

	// View defaults
	TopN      int    `mapstructure:"top_n" yaml:"top_n"`
	MapField  string `mapstructure:"map_field" yaml:"map_field"`
	RankField string `mapstructure:"rank_field" yaml:"rank_field"`

	OutputFormat string  `mapstructure:"output_format" yaml:"output_format"`
	ChartWidth   float64 `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight  float64 `mapstructure:"chart_height" yaml:"chart_height"`
}

// Defaults for the config keys.
const (
	DefaultDataPath     = "./data/cost_of_living.csv"
	DefaultListenAddr   = ":8501"
	DefaultTopN         = 10
	DefaultMapField     = "Leather_Business_Shoes_USD"
	DefaultRankField    = "Apartment_1br_CityCentre_USD"
	DefaultOutputFormat = "table"
	DefaultChartWidth   = 8.0
	DefaultChartHeight  = 5.0
)

// OutputFormats lists the accepted values of output_format.
var OutputFormats = []string{"table", "json", "yaml", "markdown"}

// ValidFormat reports whether f is one of OutputFormats.
func ValidFormat(f string) bool {
	for _, o := range OutputFormats {
		if o == f {
			return true
		}
	}
	return false
}

// Delim returns the configured delimiter rune, or 0 to sniff it.
// "tab" and "\t" both select a tab.
func (c *Global) Delim() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: want a single character", c.Delimiter)
	}
	return r[0], nil
}

// DefaultPath returns ~/.costboard/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".costboard", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.costboard/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
// A .env file in the working directory is loaded into the environment first
// without overriding variables that are already set.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("COSTBOARD")
	v.AutomaticEnv()

	v.SetDefault("data_path", DefaultDataPath)
	v.SetDefault("sheet", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("strict_unique", false)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("top_n", DefaultTopN)
	v.SetDefault("map_field", DefaultMapField)
	v.SetDefault("rank_field", DefaultRankField)
	v.SetDefault("output_format", DefaultOutputFormat)
	v.SetDefault("chart_width", DefaultChartWidth)
	v.SetDefault("chart_height", DefaultChartHeight)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".costboard"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// a missing file is fine; a malformed one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if !ValidFormat(c.OutputFormat) {
		return nil, fmt.Errorf("invalid output_format %q (use table, json, yaml or markdown)", c.OutputFormat)
	}
	if _, err := c.Delim(); err != nil {
		return nil, err
	}
	return &c, nil
}
