// Package game implements the authoritative match state: rooms, player state,
// combat resolution and the room registry.
package game

import (
	"errors"
	"time"
)

// Playfield and combat constants. These are the single authoritative set;
// clients render whatever the server resolves.
const (
	PlayfieldWidth = 1200.0
	PlayerWidth    = 50.0
	PlayerHeight   = 80.0
	GroundY        = 600.0

	SpawnLeftX  = 200.0
	SpawnRightX = 1000.0

	MoveSpeed    = 5.0
	MaxHealth    = 100
	AttackDamage = 20
	AttackRange  = 80.0
	AttackHeight = 80.0

	AttackCooldown       = 500 * time.Millisecond
	DefaultRoundDuration = 180 * time.Second

	MaxPlayers = 2

	// StaleRoomAge is how long an empty waiting room may sit before the
	// sweep removes it
	StaleRoomAge = 30 * time.Minute
)

// RoomStatus is the room lifecycle state. Transitions are strictly
// waiting -> playing -> finished.
type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

// Action is a player input kind
type Action string

const (
	ActionMove   Action = "move"
	ActionJump   Action = "jump"
	ActionAttack Action = "attack"
)

// Direction is a horizontal move direction
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Request errors surfaced to the originating session as error messages
var (
	ErrAlreadyInRoom    = errors.New("already in a room")
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotJoinable  = errors.New("room is not joinable")
	ErrPlayerInfoNotSet = errors.New("player info not set")
)

// PlayerState is the authoritative state of one occupant, owned by its Room.
// The exported fields are exactly what a snapshot carries on the wire.
type PlayerState struct {
	ID          int     `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Health      int     `json:"health"`
	FacingRight bool    `json:"facing_right"`
	Attacking   bool    `json:"attacking"`
	Jumping     bool    `json:"jumping"`
	Name        string  `json:"name"`

	character  string
	lastAttack time.Time
	// pulse bookkeeping: a set flag survives exactly one broadcast tick
	attackSeen bool
	jumpSeen   bool
}

// Character returns the occupant's chosen character id
func (p *PlayerState) Character() string {
	return p.character
}

// PlayerSummary is the lobby-facing view of an occupant
type PlayerSummary struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

// RoomInfo is the lobby-facing view of a room
type RoomInfo struct {
	RoomID     string          `json:"room_id"`
	Name       string          `json:"name"`
	Players    int             `json:"players"`
	MaxPlayers int             `json:"max_players"`
	Status     RoomStatus      `json:"status"`
	PlayerList []PlayerSummary `json:"player_list"`
}

// Snapshot is a point-in-time serialization of a room's match state,
// broadcast to every session bound to the room.
type Snapshot struct {
	Players       map[int]PlayerState `json:"players"`
	GameStarted   bool                `json:"game_started"`
	GameOver      bool                `json:"game_over"`
	Winner        *int                `json:"winner"`
	RemainingTime float64             `json:"remaining_time"`
}
