package game

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"arena-game/pkg/logger"
)

// Registry owns every live room. Its lock only guards the room map itself;
// room state is guarded by each room's own mutex, so lobby traffic on one
// room never serializes against match traffic on another.
type Registry struct {
	mu            sync.RWMutex
	rooms         map[string]*Room
	roundDuration time.Duration
}

// NewRegistry creates an empty registry. roundDuration applies to every room
// it creates; zero selects the default.
func NewRegistry(roundDuration time.Duration) *Registry {
	return &Registry{
		rooms:         make(map[string]*Room),
		roundDuration: roundDuration,
	}
}

// newRoomID derives a short display id from a random 128-bit value
func newRoomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// CreateRoom allocates a room in waiting status with the requesting session
// as its first occupant (player id 1).
func (reg *Registry) CreateRoom(name, sessionID, playerName, character string) (*Room, int, error) {
	room := NewRoom(newRoomID(), name, reg.roundDuration)
	playerID, _, err := room.AddPlayer(sessionID, playerName, character)
	if err != nil {
		return nil, 0, err
	}

	reg.mu.Lock()
	reg.rooms[room.ID] = room
	reg.mu.Unlock()

	logger.Game.Info("Room created: %s (%s) by %s", room.ID, name, playerName)
	return room, playerID, nil
}

// JoinRoom binds a session to an existing waiting room. started reports that
// the room filled and the match began.
func (reg *Registry) JoinRoom(roomID, sessionID, playerName, character string) (room *Room, playerID int, started bool, err error) {
	reg.mu.RLock()
	room, ok := reg.rooms[roomID]
	reg.mu.RUnlock()
	if !ok {
		return nil, 0, false, ErrRoomNotFound
	}

	playerID, started, err = room.AddPlayer(sessionID, playerName, character)
	if err != nil {
		return nil, 0, false, err
	}

	logger.Game.Info("Player %s joined room %s", playerName, roomID)
	return room, playerID, started, nil
}

// LeaveRoom removes the session's occupancy from its room. An emptied room
// is deleted immediately; a playing room finishes with no winner.
func (reg *Registry) LeaveRoom(roomID, sessionID string) {
	reg.mu.RLock()
	room, ok := reg.rooms[roomID]
	reg.mu.RUnlock()
	if !ok {
		return
	}

	if empty := room.RemovePlayer(sessionID); empty {
		reg.mu.Lock()
		delete(reg.rooms, roomID)
		reg.mu.Unlock()
		logger.Game.Info("Removed empty room %s", roomID)
	}
}

// Get looks up a room by id
func (reg *Registry) Get(roomID string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[roomID]
	return room, ok
}

// Rooms returns a point-in-time slice of every live room
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Count returns the number of live rooms
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// ListJoinable returns only waiting rooms, for the lobby room list
func (reg *Registry) ListJoinable() []RoomInfo {
	rooms := reg.Rooms()
	list := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		info := room.Info()
		if info.Status == StatusWaiting && info.Players < info.MaxPlayers {
			list = append(list, info)
		}
	}
	return list
}

// Sweep removes finished rooms and empty waiting rooms older than the stale
// threshold. It inspects rooms one by one and only takes the registry lock
// to delete, so it is safe alongside join/leave/create traffic.
func (reg *Registry) Sweep(now time.Time) int {
	var stale []string
	for _, room := range reg.Rooms() {
		switch {
		case room.Status() == StatusFinished:
			stale = append(stale, room.ID)
		case room.PlayerCount() == 0 && now.Sub(room.CreatedAt()) > StaleRoomAge:
			stale = append(stale, room.ID)
		}
	}

	removed := 0
	reg.mu.Lock()
	for _, id := range stale {
		if _, ok := reg.rooms[id]; ok {
			delete(reg.rooms, id)
			removed++
		}
	}
	reg.mu.Unlock()

	if removed > 0 {
		logger.Game.Info("Sweep removed %d room(s)", removed)
	}
	return removed
}
