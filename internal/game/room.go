package game

import (
	"sort"
	"sync"
	"time"

	"arena-game/pkg/logger"
)

// Room is a bounded two-player match container. It owns the authoritative
// PlayerState of its occupants and the match lifecycle. All mutation goes
// through the room's own mutex; the registry lock is never held while a
// room is being mutated.
type Room struct {
	ID   string
	Name string

	mu            sync.Mutex
	players       map[string]*PlayerState // session id -> state
	status        RoomStatus
	createdAt     time.Time
	roundDuration time.Duration
	roundStart    time.Time
	winner        int // player id, 0 = none
	terminalSent  bool

	clock func() time.Time
}

// NewRoom creates a room in waiting status
func NewRoom(id, name string, roundDuration time.Duration) *Room {
	if roundDuration <= 0 {
		roundDuration = DefaultRoundDuration
	}
	return &Room{
		ID:            id,
		Name:          name,
		players:       make(map[string]*PlayerState),
		status:        StatusWaiting,
		createdAt:     time.Now(),
		roundDuration: roundDuration,
		clock:         time.Now,
	}
}

// AddPlayer binds a session as the next occupant. The returned player id is
// assigned by join order (1, then 2). When the room fills, the match starts
// and started is true.
func (r *Room) AddPlayer(sessionID, name, character string) (playerID int, started bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusWaiting || len(r.players) >= MaxPlayers {
		return 0, false, ErrRoomNotJoinable
	}

	playerID = len(r.players) + 1
	r.players[sessionID] = &PlayerState{
		ID:        playerID,
		Name:      name,
		character: character,
	}

	if len(r.players) == MaxPlayers {
		r.startMatchLocked()
		started = true
	}
	return playerID, started, nil
}

// startMatchLocked transitions waiting -> playing: deterministic spawns by
// player id, full health, round clock started.
func (r *Room) startMatchLocked() {
	r.status = StatusPlaying
	r.roundStart = r.clock()

	for _, p := range r.players {
		if p.ID == 1 {
			p.X = SpawnLeftX
			p.FacingRight = true
		} else {
			p.X = SpawnRightX
			p.FacingRight = false
		}
		p.Y = GroundY
		p.Health = MaxHealth
		p.Attacking = false
		p.Jumping = false
	}

	logger.Game.Info("Match started in room %s (%s)", r.ID, r.Name)
}

// RemovePlayer unbinds a session from the room. A playing room finishes with
// no winner (abandonment ends the match). Returns true when the room is now
// empty.
func (r *Room) RemovePlayer(sessionID string) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[sessionID]; !ok {
		return len(r.players) == 0
	}
	delete(r.players, sessionID)

	if r.status == StatusPlaying {
		r.finishLocked(0)
		logger.Game.Info("Room %s finished: player abandoned the match", r.ID)
	}
	return len(r.players) == 0
}

// finishLocked transitions to the terminal state. winner 0 records a draw or
// an abandoned match. Calling it on an already finished room is a no-op, so
// the first resolution wins.
func (r *Room) finishLocked(winner int) {
	if r.status == StatusFinished {
		return
	}
	r.status = StatusFinished
	r.winner = winner
}

// Status returns the room's lifecycle state
func (r *Room) Status() RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Winner returns the resolved winner's player id, or 0 when there is none
func (r *Room) Winner() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.winner
}

// PlayerCount returns current occupancy
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Info returns the lobby-facing view of the room
func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.infoLocked()
}

func (r *Room) infoLocked() RoomInfo {
	list := make([]PlayerSummary, 0, len(r.players))
	for _, p := range r.players {
		list = append(list, PlayerSummary{Name: p.Name, Character: p.character})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return RoomInfo{
		RoomID:     r.ID,
		Name:       r.Name,
		Players:    len(r.players),
		MaxPlayers: MaxPlayers,
		Status:     r.status,
		PlayerList: list,
	}
}

// Advance runs one simulation tick against the room. For a playing room it
// clears the pulses broadcast last tick, resolves a round timeout, and
// returns the snapshot to broadcast. A room that has finished yields exactly
// one final snapshot with over set; after that broadcast stops.
func (r *Room) Advance(now time.Time) (snap Snapshot, over bool, broadcast bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.status {
	case StatusWaiting:
		return Snapshot{}, false, false

	case StatusPlaying:
		// An attacking/jumping pulse stays visible for the one broadcast
		// that follows it, then clears.
		for _, p := range r.players {
			if p.attackSeen {
				p.Attacking = false
				p.attackSeen = false
			}
			if p.jumpSeen {
				p.Jumping = false
				p.jumpSeen = false
			}
		}

		if now.Sub(r.roundStart) >= r.roundDuration {
			r.resolveTimeoutLocked()
		}

	case StatusFinished:
		if r.terminalSent {
			return Snapshot{}, false, false
		}
	}

	snap = r.snapshotLocked(now)
	if r.status == StatusFinished {
		r.terminalSent = true
		return snap, true, true
	}

	for _, p := range r.players {
		if p.Attacking {
			p.attackSeen = true
		}
		if p.Jumping {
			p.jumpSeen = true
		}
	}
	return snap, false, true
}

// resolveTimeoutLocked ends the round when time runs out: strictly higher
// health wins, equal health is a draw.
func (r *Room) resolveTimeoutLocked() {
	var best, winner int
	best = -1
	for _, p := range r.players {
		switch {
		case p.Health > best:
			best = p.Health
			winner = p.ID
		case p.Health == best:
			winner = 0
		}
	}
	r.finishLocked(winner)
	if winner != 0 {
		logger.Game.Info("Room %s finished: time up, player %d wins", r.ID, winner)
	} else {
		logger.Game.Info("Room %s finished: time up, draw", r.ID)
	}
}

// snapshotLocked builds a clean wire copy of the current match state
func (r *Room) snapshotLocked(now time.Time) Snapshot {
	players := make(map[int]PlayerState, len(r.players))
	for _, p := range r.players {
		players[p.ID] = PlayerState{
			ID:          p.ID,
			X:           p.X,
			Y:           p.Y,
			Health:      p.Health,
			FacingRight: p.FacingRight,
			Attacking:   p.Attacking,
			Jumping:     p.Jumping,
			Name:        p.Name,
		}
	}

	snap := Snapshot{
		Players:       players,
		GameStarted:   r.status != StatusWaiting,
		GameOver:      r.status == StatusFinished,
		RemainingTime: r.remainingLocked(now),
	}
	if r.winner != 0 {
		w := r.winner
		snap.Winner = &w
	}
	return snap
}

func (r *Room) remainingLocked(now time.Time) float64 {
	if r.roundStart.IsZero() {
		return r.roundDuration.Seconds()
	}
	left := r.roundDuration.Seconds() - now.Sub(r.roundStart).Seconds()
	if left < 0 {
		return 0
	}
	return left
}

// CreatedAt reports when the room was created; used by the sweep
func (r *Room) CreatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createdAt
}

// Snapshot returns the current wire state outside the tick loop
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(r.clock())
}
