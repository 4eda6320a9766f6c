// Package server implements the TCP server hosting real-time fighting
// matches: session handling, protocol dispatch, the simulation loop and the
// room sweep service.
package server

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"arena-game/internal/config"
	"arena-game/internal/game"
	"arena-game/internal/network"
	"arena-game/pkg/logger"
)

// Server accepts client connections and drives every active room
type Server struct {
	cfg      config.Config
	registry *game.Registry
	metrics  *Metrics
	logger   *logger.Logger

	mu         sync.RWMutex
	listener   net.Listener
	httpServer *http.Server
	sessions   map[string]*Session
	isRunning  bool

	quit chan struct{}
}

// NewServer creates a server for the given configuration
func NewServer(cfg config.Config) *Server {
	return &Server{
		cfg:      cfg,
		registry: game.NewRegistry(cfg.RoundDuration()),
		metrics:  NewMetrics(),
		logger:   logger.Server,
		sessions: make(map[string]*Session),
		quit:     make(chan struct{}),
	}
}

// Registry exposes the room registry (used by the gateway and tests)
func (s *Server) Registry() *game.Registry {
	return s.registry
}

// Start begins listening and blocks serving connections until Stop is called
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.isRunning = true
	s.mu.Unlock()

	s.logger.Info("Server listening on %s", listener.Addr())

	go s.simulationLoop()
	go s.sweepService()
	if s.cfg.HTTPAddr != "" {
		go s.serveGateway()
	}

	for s.running() {
		conn, err := listener.Accept()
		if err != nil {
			if s.running() {
				s.logger.Error("Failed to accept connection: %v", err)
				continue
			}
			break
		}
		go s.handleConn(conn)
	}
	return nil
}

// Stop shuts the server down: stops accepting, closes every session and
// halts the background loops
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	listener := s.listener
	s.mu.Unlock()

	close(s.quit)
	if listener != nil {
		listener.Close()
	}
	s.stopGateway()

	for _, sess := range s.snapshotSessions() {
		s.disconnectSession(sess)
	}
	s.logger.Info("Server stopped")
}

func (s *Server) running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound TCP address, or nil before Start
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func newSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// handleConn owns one TCP connection for its lifetime: registers the
// session, reads newline-delimited messages in order, and runs disconnect
// cleanup exactly once on the way out.
func (s *Server) handleConn(conn net.Conn) {
	sess := newSession(newSessionID(), newTCPTransport(conn))
	s.addSession(sess)
	s.logger.Info("New client connected: %s from %s", sess.ID, conn.RemoteAddr())

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)
	for scanner.Scan() {
		if !s.running() {
			break
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.processMessage(sess, line)
	}

	s.disconnectSession(sess)
}

// processMessage decodes and dispatches one inbound message. Undecodable
// bytes are logged and dropped; the connection stays open.
func (s *Server) processMessage(sess *Session, data []byte) {
	msg, err := network.DecodeClientMessage(data)
	if err != nil {
		logger.Network.Warn("Dropping undecodable message from %s: %v", sess.ID, err)
		return
	}

	logger.Network.Debug("Received %s from %s", msg.Type, sess.ID)

	switch msg.Type {
	case network.MsgSetPlayerInfo:
		s.handleSetPlayerInfo(sess, msg)
	case network.MsgCreateRoom:
		s.handleCreateRoom(sess, msg)
	case network.MsgJoinRoom:
		s.handleJoinRoom(sess, msg)
	case network.MsgGetRoomList:
		s.handleRoomList(sess)
	case network.MsgPlayerInput:
		s.handlePlayerInput(sess, msg)
	default:
		s.sendError(sess, "unknown message type")
	}
}

func (s *Server) handleSetPlayerInfo(sess *Session, msg *network.ClientMessage) {
	if msg.Name == "" {
		s.sendError(sess, "name must not be empty")
		return
	}
	sess.SetPlayerInfo(msg.Name, msg.Character)
	s.logger.Info("Player info set: %s (%s)", msg.Name, msg.Character)
	s.send(sess, network.NewSuccessMessage("player info set"))
}

func (s *Server) handleCreateRoom(sess *Session, msg *network.ClientMessage) {
	if !sess.HasPlayerInfo() {
		s.sendRequestError(sess, game.ErrPlayerInfoNotSet)
		return
	}
	if roomID, _ := sess.Room(); roomID != "" {
		s.sendRequestError(sess, game.ErrAlreadyInRoom)
		return
	}

	roomName := msg.RoomName
	if roomName == "" {
		roomName = "new room"
	}

	name, character := sess.PlayerInfo()
	room, playerID, err := s.registry.CreateRoom(roomName, sess.ID, name, character)
	if err != nil {
		s.sendRequestError(sess, err)
		return
	}

	sess.BindRoom(room.ID, playerID)
	s.send(sess, network.NewRoomCreatedMessage(room.ID, room.Info(), playerID))
}

func (s *Server) handleJoinRoom(sess *Session, msg *network.ClientMessage) {
	if !sess.HasPlayerInfo() {
		s.sendRequestError(sess, game.ErrPlayerInfoNotSet)
		return
	}
	if roomID, _ := sess.Room(); roomID != "" {
		s.sendRequestError(sess, game.ErrAlreadyInRoom)
		return
	}

	name, character := sess.PlayerInfo()
	room, playerID, started, err := s.registry.JoinRoom(msg.RoomID, sess.ID, name, character)
	if err != nil {
		s.sendRequestError(sess, err)
		return
	}

	sess.BindRoom(room.ID, playerID)
	if started {
		s.send(sess, network.NewGameReadyMessage(room.ID, room.Info(), playerID))
	} else {
		s.send(sess, network.NewRoomJoinedMessage(room.Info(), playerID))
	}
}

func (s *Server) handleRoomList(sess *Session) {
	s.send(sess, network.NewRoomListMessage(s.registry.ListJoinable()))
}

// handlePlayerInput routes an in-match action to the session's room. A stale
// binding, a mismatched player id, or a finished room all resolve to silent
// no-ops: a just-disconnected peer's in-flight input must not fault anything.
func (s *Server) handlePlayerInput(sess *Session, msg *network.ClientMessage) {
	roomID, playerID := sess.Room()
	if roomID == "" || msg.PlayerID != playerID {
		return
	}
	room, ok := s.registry.Get(roomID)
	if !ok {
		return
	}

	var direction game.Direction
	if msg.Data != nil {
		direction = msg.Data.Direction
	}
	room.ApplyInput(playerID, msg.Action, direction)
}

// send writes to the session; a failed write means the peer is gone
func (s *Server) send(sess *Session, msg *network.ServerMessage) {
	if err := sess.Send(msg); err != nil {
		s.metrics.IncSendFailure()
		s.disconnectSession(sess)
	}
}

func (s *Server) sendError(sess *Session, message string) {
	s.send(sess, network.NewErrorMessage(message))
}

// sendRequestError maps a typed request error onto an error message
func (s *Server) sendRequestError(sess *Session, err error) {
	switch {
	case errors.Is(err, game.ErrPlayerInfoNotSet),
		errors.Is(err, game.ErrAlreadyInRoom),
		errors.Is(err, game.ErrRoomNotFound),
		errors.Is(err, game.ErrRoomNotJoinable):
		s.sendError(sess, err.Error())
	default:
		s.logger.Error("Request from %s failed: %v", sess.ID, err)
		s.sendError(sess, "internal error")
	}
}

func (s *Server) addSession(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.metrics.IncSessionOpened()
}

// disconnectSession runs the cleanup path exactly once per session: leave
// the bound room, deregister, close the connection.
func (s *Server) disconnectSession(sess *Session) {
	sess.closeOnce.Do(func() {
		if roomID, _ := sess.Room(); roomID != "" {
			s.registry.LeaveRoom(roomID, sess.ID)
			sess.ClearRoom()
		}

		s.mu.Lock()
		delete(s.sessions, sess.ID)
		s.mu.Unlock()

		sess.conn.Close()
		s.metrics.IncSessionClosed()
		s.logger.Info("Client disconnected: %s", sess.ID)
	})
}

func (s *Server) snapshotSessions() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

func (s *Server) sessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// sessionsInRoom returns the sessions currently bound to a room
func (s *Server) sessionsInRoom(roomID string) []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var bound []*Session
	for _, sess := range s.sessions {
		if id, _ := sess.Room(); id == roomID {
			bound = append(bound, sess)
		}
	}
	return bound
}
