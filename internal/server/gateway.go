package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"arena-game/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from arbitrary origins; the protocol
		// carries no credentials.
		return true
	},
}

// serveGateway runs the HTTP sidecar: health, metrics and a websocket
// endpoint carrying the same JSON protocol as the TCP listener.
func (s *Server) serveGateway() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{Addr: s.cfg.HTTPAddr, Handler: mux}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("Gateway listening on %s", s.cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Gateway failed: %v", err)
	}
}

func (s *Server) stopGateway() {
	s.mu.RLock()
	srv := s.httpServer
	s.mu.RUnlock()
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

// handleMetrics serves runtime counters plus live gauges as JSON
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	payload := s.metrics.Snapshot()
	payload["active_sessions"] = s.sessionCount()
	payload["active_rooms"] = s.registry.Count()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// wsTransport frames messages as websocket text frames
type wsTransport struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (t *wsTransport) WriteMessage(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return t.ws.WriteMessage(websocket.TextMessage, data)
}

func (t *wsTransport) Close() error {
	return t.ws.Close()
}

func (t *wsTransport) RemoteAddr() net.Addr {
	return t.ws.RemoteAddr()
}

// handleWS upgrades the connection and serves the protocol over websocket
// frames; the session behaves exactly like a TCP one.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Network.Warn("WebSocket upgrade failed: %v", err)
		return
	}

	sess := newSession(newSessionID(), &wsTransport{ws: ws})
	s.addSession(sess)
	s.logger.Info("New websocket client connected: %s from %s", sess.ID, ws.RemoteAddr())

	go func() {
		defer s.disconnectSession(sess)
		for s.running() {
			_, payload, err := ws.ReadMessage()
			if err != nil {
				return
			}
			if len(payload) == 0 {
				continue
			}
			s.processMessage(sess, payload)
		}
	}()
}
