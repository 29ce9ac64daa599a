package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SourceRef SourceReference `yaml:"source"`
	Chart     Chart           `yaml:"chart"`
	Server    Server          `yaml:"server"`
	Reload    Reload          `yaml:"reload"`
}

func Read(r io.Reader) (*Config, error) {
	var cfg Config
	d := yaml.NewDecoder(r)
	err := d.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return &cfg, nil
}

func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

type Chart struct {
	Title           string `yaml:"title"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	FlagMissing     bool   `yaml:"flag_missing"`
	TitleColor      string `yaml:"title_color"`
	SubtitleColor   string `yaml:"subtitle_color"`
	IncreasingColor string `yaml:"increasing_color"`
	DecreasingColor string `yaml:"decreasing_color"`
}

type Server struct {
	Addr             string        `yaml:"addr"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
	MetricsNamespace string        `yaml:"metrics_namespace"`
}

type Reload struct {
	Cron string `yaml:"cron"`
}

func (c *Config) ApplyDefaults() {
	if c.Chart.Title == "" {
		c.Chart.Title = "NETFLIX STOCK PRICE & VOLUME"
	}
	if c.Chart.Width <= 0 {
		c.Chart.Width = 1200
	}
	if c.Chart.Height <= 0 {
		c.Chart.Height = 750
	}
	if c.Chart.TitleColor == "" {
		c.Chart.TitleColor = "#E50914"
	}
	if c.Chart.SubtitleColor == "" {
		c.Chart.SubtitleColor = "#6e6e6e"
	}
	if c.Chart.IncreasingColor == "" {
		c.Chart.IncreasingColor = "green"
	}
	if c.Chart.DecreasingColor == "" {
		c.Chart.DecreasingColor = "red"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.MetricsNamespace == "" {
		c.Server.MetricsNamespace = "dashboard"
	}
}

// ApplyEnv lets credentials live outside the yaml file.
func (c *Config) ApplyEnv() {
	alpaca, ok := c.SourceRef.Source.(Alpaca)
	if !ok {
		return
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		alpaca.ApiKey = v
	}
	if v := os.Getenv("ALPACA_SECRET"); v != "" {
		alpaca.Secret = v
	}
	c.SourceRef.Source = alpaca
}

type SourceReference struct {
	Source Source
}

type Source interface{}

// source configs

type CSV struct {
	Path string `yaml:"path"`
}

type Alpaca struct {
	Symbol  string    `yaml:"symbol"`
	Start   time.Time `yaml:"start"`
	End     time.Time `yaml:"end"`
	BaseUrl string    `yaml:"base_url"`
	ApiKey  string    `yaml:"api_key"`
	Secret  string    `yaml:"secret"`
}

type SQLite struct {
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
}

func (w *SourceReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid source yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "csv":
		var csv CSV
		if err := value.Content[1].Decode(&csv); err != nil {
			return fmt.Errorf("failed parsing csv source config: %w", err)
		}
		w.Source = csv
	case "alpaca":
		var alpaca Alpaca
		if err := value.Content[1].Decode(&alpaca); err != nil {
			return fmt.Errorf("failed parsing alpaca source config: %w", err)
		}
		w.Source = alpaca
	case "sqlite":
		var sqlite SQLite
		if err := value.Content[1].Decode(&sqlite); err != nil {
			return fmt.Errorf("failed parsing sqlite source config: %w", err)
		}
		if sqlite.Table == "" {
			sqlite.Table = "daily_bars"
		}
		w.Source = sqlite
	default:
		return fmt.Errorf("unknown source type: %s", key)
	}

	return nil
}
