package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantarc/tradegate/internal/broker/brokertest"
	"github.com/quantarc/tradegate/internal/broker/wire"
	"github.com/quantarc/tradegate/internal/config"
	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/pkg/errors"
)

type ConnectionTestSuite struct {
	suite.Suite

	server *brokertest.Server
	client *Client
}

func TestConnectionSuite(t *testing.T) {
	suite.Run(t, new(ConnectionTestSuite))
}

func (suite *ConnectionTestSuite) SetupTest() {
	suite.server = brokertest.NewServer(100)
	suite.client = NewClient(suite.testConfig(), DialWebsocket, logger.NewNopLogger())
}

func (suite *ConnectionTestSuite) TearDownTest() {
	suite.client.Disconnect()
	suite.server.Close()
}

func (suite *ConnectionTestSuite) testConfig() config.ConnectionConfig {
	return config.ConnectionConfig{
		Host:            suite.server.Host(),
		Port:            suite.server.Port(),
		ClientID:        1,
		Account:         "DU1",
		HandshakeWindow: config.Duration(2 * time.Second),
		DialWindow:      config.Duration(time.Second),
		ReconnectDelay:  config.Duration(50 * time.Millisecond),
		RequestTimeout:  config.Duration(500 * time.Millisecond),
	}
}

func (suite *ConnectionTestSuite) waitConnected() {
	suite.Require().Eventually(suite.client.IsConnected, 3*time.Second, 10*time.Millisecond)
}

func (suite *ConnectionTestSuite) TestHandshakeSeedsRequestIDs() {
	suite.client.Connect()
	suite.waitConnected()

	// The venue's next valid ID is handed out first.
	suite.Equal(int64(100), suite.client.conn.NextRequestID())
	suite.Equal(int64(101), suite.client.conn.NextRequestID())
}

func (suite *ConnectionTestSuite) TestRepeatedConnectKeepsOneSession() {
	suite.client.Connect()
	suite.waitConnected()

	suite.client.Connect()
	suite.client.Connect()
	time.Sleep(200 * time.Millisecond)

	suite.Equal(1, suite.server.Dials())
	suite.True(suite.client.IsConnected())
}

func (suite *ConnectionTestSuite) TestReconnectsAfterUnsolicitedClose() {
	suite.client.Connect()
	suite.waitConnected()

	suite.server.CloseActive()

	suite.Require().Eventually(func() bool {
		return suite.server.Dials() >= 2 && suite.client.IsConnected()
	}, 3*time.Second, 10*time.Millisecond)
}

func (suite *ConnectionTestSuite) TestManualDisconnectStopsReconnects() {
	suite.client.Connect()
	suite.waitConnected()

	suite.client.Disconnect()

	// Well past several reconnect delays: no new session may appear.
	time.Sleep(300 * time.Millisecond)
	suite.Equal(1, suite.server.Dials())
	suite.False(suite.client.IsConnected())
}

func (suite *ConnectionTestSuite) TestRetriesWhileVenueUnavailable() {
	suite.server.Refuse(true)
	suite.client.Connect()

	time.Sleep(200 * time.Millisecond)
	suite.False(suite.client.IsConnected())

	suite.server.Refuse(false)
	suite.waitConnected()
}

func (suite *ConnectionTestSuite) TestSendWhileDisconnected() {
	err := suite.client.conn.Send(wire.Message{Kind: wire.KindReqPositions})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNotConnected))
}
