// Package config loads and validates the gateway configuration from YAML.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/quantarc/tradegate/pkg/errors"
)

// Duration wraps time.Duration so YAML values like "5s" parse naturally.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid duration %q", raw)
	}

	*d = Duration(parsed)

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ConnectionConfig holds the live venue connection parameters and the
// retry/timeout constants. These are fixed configuration values, not
// protocol surface.
type ConnectionConfig struct {
	Host     string `yaml:"host" json:"host" jsonschema:"title=Host,description=Venue gateway host" validate:"required"`
	Port     int    `yaml:"port" json:"port" jsonschema:"title=Port,description=Venue gateway port,minimum=1" validate:"required,gt=0,lte=65535"`
	ClientID int    `yaml:"client_id" json:"client_id" jsonschema:"title=Client ID,description=Venue session client identifier,minimum=0" validate:"gte=0"`
	Account  string `yaml:"account" json:"account" jsonschema:"title=Account,description=Default account code"`

	// HandshakeWindow bounds the wait for the venue's next-valid-id signal.
	HandshakeWindow Duration `yaml:"handshake_window" json:"handshake_window" jsonschema:"title=Handshake Window"`
	// DialWindow bounds how long a connection attempt polls for the
	// transport to come up.
	DialWindow Duration `yaml:"dial_window" json:"dial_window" jsonschema:"title=Dial Window"`
	// ReconnectDelay is the fixed delay between reconnect attempts.
	ReconnectDelay Duration `yaml:"reconnect_delay" json:"reconnect_delay" jsonschema:"title=Reconnect Delay"`
	// RequestTimeout bounds every correlated request wait.
	RequestTimeout Duration `yaml:"request_timeout" json:"request_timeout" jsonschema:"title=Request Timeout"`
}

// CoordinatorConfig sizes the request queue and worker pool.
type CoordinatorConfig struct {
	Workers       int      `yaml:"workers" json:"workers" jsonschema:"title=Workers,minimum=1" validate:"required,gt=0"`
	QueueSize     int      `yaml:"queue_size" json:"queue_size" jsonschema:"title=Queue Size,minimum=1" validate:"required,gt=0"`
	PollInterval  Duration `yaml:"poll_interval" json:"poll_interval" jsonschema:"title=Poll Interval"`
	ShutdownGrace Duration `yaml:"shutdown_grace" json:"shutdown_grace" jsonschema:"title=Shutdown Grace"`
}

// BacktestConfig configures the deterministic simulator backend.
type BacktestConfig struct {
	DatabasePath   string  `yaml:"database_path" json:"database_path" jsonschema:"title=Database Path,description=DuckDB file holding datasets and orders"`
	Account        string  `yaml:"account" json:"account" jsonschema:"title=Account,description=Simulated account code"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,minimum=0" validate:"gte=0"`
	// PageSize bounds how many source bars one resampler read pulls from storage.
	PageSize int `yaml:"page_size" json:"page_size" jsonschema:"title=Page Size,minimum=1" validate:"gt=0"`
}

// Config is the root gateway configuration.
type Config struct {
	Connection  ConnectionConfig  `yaml:"connection" json:"connection" jsonschema:"title=Connection"`
	Coordinator CoordinatorConfig `yaml:"coordinator" json:"coordinator" jsonschema:"title=Coordinator"`
	Backtest    BacktestConfig    `yaml:"backtest" json:"backtest" jsonschema:"title=Backtest"`
}

// Default returns a Config with conservative defaults.
func Default() Config {
	return Config{
		Connection: ConnectionConfig{
			Host:            "127.0.0.1",
			Port:            7497,
			ClientID:        0,
			Account:         "",
			HandshakeWindow: Duration(5 * time.Second),
			DialWindow:      Duration(2 * time.Second),
			ReconnectDelay:  Duration(10 * time.Second),
			RequestTimeout:  Duration(5 * time.Second),
		},
		Coordinator: CoordinatorConfig{
			Workers:       4,
			QueueSize:     64,
			PollInterval:  Duration(100 * time.Millisecond),
			ShutdownGrace: Duration(5 * time.Second),
		},
		Backtest: BacktestConfig{
			DatabasePath:   "data/tradegate.duckdb",
			Account:        "SIM",
			InitialCapital: 100000,
			PageSize:       500,
		},
	}
}

// Parse unmarshals and validates a YAML config document, applying defaults
// for omitted sections.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return Parse(data)
}

// Validate validates the configuration using struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config.
func (c *Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(c)
	schema.Title = "tradegate-config"
	schema.Description = "Configuration schema for the tradegate gateway"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates an indented JSON schema string for the Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
