package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Browser  BrowserConfig  `yaml:"browser" mapstructure:"browser"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Render   RenderConfig   `yaml:"render" mapstructure:"render"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// BrowserConfig configures the headless Chrome session.
type BrowserConfig struct {
	ExecPath      string `yaml:"exec_path" mapstructure:"exec_path"`
	Headless      bool   `yaml:"headless" mapstructure:"headless"`
	NoSandbox     bool   `yaml:"no_sandbox" mapstructure:"no_sandbox"`
	DisableDevShm bool   `yaml:"disable_dev_shm" mapstructure:"disable_dev_shm"`
	UserAgent     string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ResolverConfig configures how a single address is looked up.
type ResolverConfig struct {
	BaseURL            string `yaml:"base_url" mapstructure:"base_url"`
	SearchSelector     string `yaml:"search_selector" mapstructure:"search_selector"`
	PageLoadWaitMs     int    `yaml:"page_load_wait_ms" mapstructure:"page_load_wait_ms"`
	ElementTimeoutSecs int    `yaml:"element_timeout_secs" mapstructure:"element_timeout_secs"`
	SettleWaitMs       int    `yaml:"settle_wait_ms" mapstructure:"settle_wait_ms"`
}

// PageLoadWait returns the pause after navigation as a duration.
func (c ResolverConfig) PageLoadWait() time.Duration {
	return time.Duration(c.PageLoadWaitMs) * time.Millisecond
}

// ElementTimeout returns the search input wait bound as a duration.
func (c ResolverConfig) ElementTimeout() time.Duration {
	return time.Duration(c.ElementTimeoutSecs) * time.Second
}

// SettleWait returns the pause after submitting a search as a duration.
func (c ResolverConfig) SettleWait() time.Duration {
	return time.Duration(c.SettleWaitMs) * time.Millisecond
}

// BatchConfig configures the scrape batch.
type BatchConfig struct {
	AddressesFile string `yaml:"addresses_file" mapstructure:"addresses_file"`
	OutputFile    string `yaml:"output_file" mapstructure:"output_file"`
	DelayMs       int    `yaml:"delay_ms" mapstructure:"delay_ms"`
}

// Delay returns the inter-address pause as a duration.
func (c BatchConfig) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// RenderConfig configures the HTML map output.
type RenderConfig struct {
	InputFile   string `yaml:"input_file" mapstructure:"input_file"`
	OutputFile  string `yaml:"output_file" mapstructure:"output_file"`
	Zoom        int    `yaml:"zoom" mapstructure:"zoom"`
	TileURL     string `yaml:"tile_url" mapstructure:"tile_url"`
	Attribution string `yaml:"attribution" mapstructure:"attribution"`
	Title       string `yaml:"title" mapstructure:"title"`
	FitBounds   bool   `yaml:"fit_bounds" mapstructure:"fit_bounds"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MAPSCRAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.no_sandbox", true)
	v.SetDefault("browser.disable_dev_shm", true)
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("resolver.base_url", "https://www.google.com/maps")
	v.SetDefault("resolver.search_selector", "#searchboxinput")
	v.SetDefault("resolver.page_load_wait_ms", 2000)
	v.SetDefault("resolver.element_timeout_secs", 10)
	v.SetDefault("resolver.settle_wait_ms", 3000)
	v.SetDefault("batch.addresses_file", "addresses2.txt")
	v.SetDefault("batch.output_file", "coordinates_results.csv")
	v.SetDefault("batch.delay_ms", 2000)
	v.SetDefault("render.input_file", "coordinates_results.csv")
	v.SetDefault("render.output_file", "map.html")
	v.SetDefault("render.zoom", 13)
	v.SetDefault("render.tile_url", "https://tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("render.attribution", `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`)
	v.SetDefault("render.title", "Geocoded addresses")
	v.SetDefault("render.fit_bounds", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Resolver.BaseURL) == "" {
		problems = append(problems, "resolver.base_url is required")
	}
	if strings.TrimSpace(c.Resolver.SearchSelector) == "" {
		problems = append(problems, "resolver.search_selector is required")
	}
	if c.Resolver.PageLoadWaitMs < 0 {
		problems = append(problems, "resolver.page_load_wait_ms must be >= 0")
	}
	if c.Resolver.ElementTimeoutSecs <= 0 {
		problems = append(problems, "resolver.element_timeout_secs must be > 0")
	}
	if c.Resolver.SettleWaitMs < 0 {
		problems = append(problems, "resolver.settle_wait_ms must be >= 0")
	}
	if c.Batch.DelayMs < 0 {
		problems = append(problems, "batch.delay_ms must be >= 0")
	}
	if c.Render.Zoom < 0 || c.Render.Zoom > 22 {
		problems = append(problems, "render.zoom must be between 0 and 22")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
