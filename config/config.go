package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/polyreward/internal/domain"
)

// Config es la configuración completa del estimador.
type Config struct {
	Event     EventConfig     `yaml:"event"`
	Estimator EstimatorConfig `yaml:"estimator"`
	Watch     WatchConfig     `yaml:"watch"`
	API       APIConfig       `yaml:"api"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// EventConfig identifica el mercado a valorar.
type EventConfig struct {
	Slug        string `yaml:"slug" env:"EVENT_SLUG"`
	MarketIndex int    `yaml:"market_index" env:"MARKET_INDEX"` // mercado dentro del evento (0 = primero)
}

// EstimatorConfig controla el cálculo de rewards.
type EstimatorConfig struct {
	CapitalUSD float64             `yaml:"capital_usd" env:"CAPITAL_USD"`
	Bands      []domain.SpreadBand `yaml:"bands" env:"-"`
	Workers    int                 `yaml:"workers" env:"ESTIMATOR_WORKERS"` // 0 = NumCPU
}

// WatchConfig controla el modo de ejecución periódica.
type WatchConfig struct {
	IntervalSeconds int `yaml:"interval_seconds" env:"WATCH_INTERVAL_SECONDS"` // 0 = una sola ejecución
}

// APIConfig contiene los base URLs de las APIs.
type APIConfig struct {
	CLOBBase       string `yaml:"clob_base" env:"CLOB_BASE"`
	GammaBase      string `yaml:"gamma_base" env:"GAMMA_BASE"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"API_TIMEOUT_SECONDS"` // timeout por request HTTP
}

// ServerConfig controla el endpoint HTTP opcional (/api/v1/report, /metrics).
type ServerConfig struct {
	Addr           string   `yaml:"addr" env:"SERVER_ADDR"` // vacío = sin servidor
	AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS" envSeparator:","`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // debug | info | warn | error
	Format string `yaml:"format" env:"LOG_FORMAT"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
// Si path está vacío solo se usan entorno y defaults.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse env: %w", err)
	}

	setDefaults(&cfg)
	return &cfg, nil
}

// WatchInterval devuelve el intervalo del modo watch como time.Duration.
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.Watch.IntervalSeconds) * time.Second
}

// HTTPTimeout devuelve el timeout por request a las APIs.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Validate rechaza configuraciones con las que el cálculo no tiene sentido.
// Debe llamarse después de aplicar los flags de la línea de comandos.
func (c *Config) Validate() error {
	if c.Event.Slug == "" {
		return fmt.Errorf("config: event slug is required")
	}
	if c.Event.MarketIndex < 0 {
		return fmt.Errorf("config: market_index must be >= 0, got %d", c.Event.MarketIndex)
	}
	if err := domain.ValidateConfig(c.Estimator.CapitalUSD, c.Estimator.Bands); err != nil {
		return fmt.Errorf("config: estimator: %w", err)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: api timeout must be > 0, got %d", c.API.TimeoutSeconds)
	}
	if c.Watch.IntervalSeconds < 0 {
		return fmt.Errorf("config: watch interval must be >= 0, got %d", c.Watch.IntervalSeconds)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("config: invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("config: invalid log format: %s", c.Log.Format)
	}
	return nil
}

// setDefaults asegura que los valores opcionales tengan valores sensatos.
// El capital no tiene default: un capital 0 lo rechaza Validate.
func setDefaults(cfg *Config) {
	if len(cfg.Estimator.Bands) == 0 {
		cfg.Estimator.Bands = domain.DefaultBands()
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
