package server

import (
	"time"

	"arena-game/internal/network"
)

// simulationLoop is the single process-wide ticking goroutine. Each tick it
// advances every active room and broadcasts the resulting snapshots. It
// never blocks on connection I/O: sends are bounded by the write deadline
// and a failed send disconnects that session.
func (s *Server) simulationLoop() {
	ticker := time.NewTicker(s.cfg.TickInterval())
	defer ticker.Stop()

	s.logger.Info("Simulation loop running at %d TPS", s.cfg.TickRate)

	for {
		select {
		case <-s.quit:
			return
		case now := <-ticker.C:
			start := time.Now()
			s.tick(now)
			s.metrics.AddTick(time.Since(start).Nanoseconds())
		}
	}
}

// tick advances every room once and fans out snapshots
func (s *Server) tick(now time.Time) {
	for _, room := range s.registry.Rooms() {
		snap, over, broadcast := room.Advance(now)
		if !broadcast {
			continue
		}

		sessions := s.sessionsInRoom(room.ID)
		s.broadcast(sessions, network.NewGameStateMessage(snap))

		if over {
			s.broadcast(sessions, network.NewGameOverMessage(snap.Winner))
			// The match is done; release the occupants back to the
			// lobby so they can create or join again. The finished
			// room itself is removed by the next sweep.
			for _, sess := range sessions {
				sess.ClearRoom()
			}
		}
	}
}

// broadcast delivers one message to each session, dropping peers whose
// writes fail
func (s *Server) broadcast(sessions []*Session, msg *network.ServerMessage) {
	for _, sess := range sessions {
		if err := sess.Send(msg); err != nil {
			s.metrics.IncSendFailure()
			s.disconnectSession(sess)
			continue
		}
		s.metrics.IncSnapshotSent()
	}
}

// sweepService periodically removes finished and stale rooms and logs a
// status line
func (s *Server) sweepService() {
	ticker := time.NewTicker(s.cfg.SweepPeriod())
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case now := <-ticker.C:
			s.registry.Sweep(now)
			if clients, rooms := s.sessionCount(), s.registry.Count(); clients > 0 || rooms > 0 {
				s.logger.Info("Connected clients: %d, active rooms: %d", clients, rooms)
			}
		}
	}
}
