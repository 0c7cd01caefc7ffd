// Package brokertest provides a scripted in-process venue gateway for
// exercising the live client against real websocket traffic.
package brokertest

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/quantarc/tradegate/internal/broker/wire"
)

// Script decides how the venue replies to one inbound message. Returning no
// messages leaves the request unanswered.
type Script func(msg wire.Message) []wire.Message

type serverConn struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

func (c *serverConn) write(msg wire.Message) error {
	data, err := wire.Encode(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Server is a fake venue gateway. It answers the startApi handshake with a
// nextValidId and runs the configured script for everything else.
type Server struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	nextValidID int64
	dials       atomic.Int32
	refuse      atomic.Bool

	mu       sync.Mutex
	conns    []*serverConn
	received []wire.Message
	script   Script
}

func NewServer(nextValidID int64) *Server {
	s := &Server{nextValidID: nextValidID}

	router := mux.NewRouter()
	router.HandleFunc("/ws", s.handleWS)
	s.srv = httptest.NewServer(router)

	return s
}

// Host and Port return the listening address pieces for a ConnectionConfig.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.srv.Listener.Addr().String())
	return host
}

func (s *Server) Port() int {
	_, portStr, _ := net.SplitHostPort(s.srv.Listener.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return port
}

// Dials returns how many websocket sessions were accepted.
func (s *Server) Dials() int {
	return int(s.dials.Load())
}

// SetScript installs the reply script for non-handshake messages.
func (s *Server) SetScript(script Script) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = script
}

// Received returns a copy of every non-handshake message seen so far.
func (s *Server) Received() []wire.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]wire.Message, len(s.received))
	copy(out, s.received)
	return out
}

// ReceivedKinds returns the kinds of every received message, in order.
func (s *Server) ReceivedKinds() []wire.Kind {
	messages := s.Received()
	kinds := make([]wire.Kind, 0, len(messages))
	for _, msg := range messages {
		kinds = append(kinds, msg.Kind)
	}
	return kinds
}

// Broadcast pushes one unsolicited message to every live session.
func (s *Server) Broadcast(msg wire.Message) {
	s.mu.Lock()
	conns := make([]*serverConn, len(s.conns))
	copy(conns, s.conns)
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.write(msg)
	}
}

// CloseActive tears down every live session without stopping the listener,
// simulating an unsolicited disconnect.
func (s *Server) CloseActive() {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.conn.Close()
	}
}

// Refuse makes subsequent upgrade attempts fail until re-enabled.
func (s *Server) Refuse(refuse bool) {
	s.refuse.Store(refuse)
}

// Close stops the server and all sessions.
func (s *Server) Close() {
	s.CloseActive()
	s.srv.Close()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.refuse.Load() {
		http.Error(w, "venue unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.dials.Add(1)

	sc := &serverConn{conn: conn}
	s.mu.Lock()
	s.conns = append(s.conns, sc)
	s.mu.Unlock()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := wire.Decode(data)
		if err != nil {
			continue
		}

		if msg.Kind == wire.KindStartAPI {
			_ = sc.write(wire.Message{Kind: wire.KindNextValidID, OrderID: s.nextValidID})
			continue
		}

		s.mu.Lock()
		s.received = append(s.received, msg)
		script := s.script
		s.mu.Unlock()

		if script == nil {
			continue
		}
		for _, reply := range script(msg) {
			_ = sc.write(reply)
		}
	}
}
