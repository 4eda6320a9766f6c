package server

import (
	"bufio"
	"net"
	"sync"
	"time"

	"arena-game/internal/network"
)

// writeTimeout bounds every outbound write so a stalled peer can never block
// the simulation loop
const writeTimeout = 5 * time.Second

// transport abstracts the framed byte stream under a session. The TCP
// listener and the websocket gateway provide implementations carrying the
// same JSON protocol.
type transport interface {
	WriteMessage(data []byte) error
	Close() error
	RemoteAddr() net.Addr
}

// tcpTransport frames messages as newline-delimited JSON on a TCP stream
type tcpTransport struct {
	conn net.Conn
	mu   sync.Mutex
	w    *bufio.Writer
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{conn: conn, w: bufio.NewWriter(conn)}
}

func (t *tcpTransport) WriteMessage(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if _, err := t.w.Write(data); err != nil {
		return err
	}
	if err := t.w.WriteByte('\n'); err != nil {
		return err
	}
	return t.w.Flush()
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

func (t *tcpTransport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

// Session is the server-side representation of one connected client,
// independent of which room it currently occupies.
type Session struct {
	ID string

	conn      transport
	closeOnce sync.Once

	mu        sync.Mutex
	name      string
	character string
	roomID    string
	playerID  int
}

func newSession(id string, conn transport) *Session {
	return &Session{ID: id, conn: conn}
}

// Send encodes and writes one message to the peer
func (s *Session) Send(msg *network.ServerMessage) error {
	data, err := msg.ToJSON()
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(data)
}

// SetPlayerInfo records the display name and character chosen by the client
func (s *Session) SetPlayerInfo(name, character string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	s.character = character
}

// PlayerInfo returns the client's display name and character
func (s *Session) PlayerInfo() (name, character string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name, s.character
}

// HasPlayerInfo reports whether set_player_info has been received
func (s *Session) HasPlayerInfo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name != ""
}

// BindRoom records the room occupancy assigned to this session
func (s *Session) BindRoom(roomID string, playerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomID = roomID
	s.playerID = playerID
}

// ClearRoom drops the session's room binding
func (s *Session) ClearRoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomID = ""
	s.playerID = 0
}

// Room returns the bound room id and assigned player id; roomID is empty
// when the session is in the lobby
func (s *Session) Room() (roomID string, playerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID, s.playerID
}
