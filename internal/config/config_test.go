package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefault() {
	cfg := Default()

	suite.Equal("127.0.0.1", cfg.Connection.Host)
	suite.Equal(7497, cfg.Connection.Port)
	suite.Equal(5*time.Second, cfg.Connection.HandshakeWindow.Std())
	suite.Equal(10*time.Second, cfg.Connection.ReconnectDelay.Std())
	suite.Equal(4, cfg.Coordinator.Workers)
	suite.Equal(100000.0, cfg.Backtest.InitialCapital)
	suite.NoError(cfg.Validate())
}

func (suite *ConfigTestSuite) TestParseOverridesDefaults() {
	doc := `
connection:
  host: gateway.example.net
  port: 4001
  client_id: 3
  request_timeout: 2s
coordinator:
  workers: 8
  queue_size: 128
`

	cfg, err := Parse([]byte(doc))
	suite.NoError(err)
	suite.Equal("gateway.example.net", cfg.Connection.Host)
	suite.Equal(4001, cfg.Connection.Port)
	suite.Equal(3, cfg.Connection.ClientID)
	suite.Equal(2*time.Second, cfg.Connection.RequestTimeout.Std())
	// Values not mentioned keep their defaults
	suite.Equal(5*time.Second, cfg.Connection.HandshakeWindow.Std())
	suite.Equal(8, cfg.Coordinator.Workers)
}

func (suite *ConfigTestSuite) TestParseInvalidDuration() {
	doc := `
connection:
  host: localhost
  port: 4001
  reconnect_delay: soon
`

	_, err := Parse([]byte(doc))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestParseInvalidPort() {
	doc := `
connection:
  host: localhost
  port: 99999
`

	_, err := Parse([]byte(doc))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestParseMalformedYAML() {
	_, err := Parse([]byte("connection: ["))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	cfg := Default()

	schema, err := cfg.GenerateSchemaJSON()
	suite.NoError(err)
	suite.Contains(schema, "tradegate-config")
	suite.Contains(schema, "connection")
	suite.Contains(schema, "reconnect_delay")
}
