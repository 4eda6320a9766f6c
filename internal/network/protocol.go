// Package network defines the JSON wire protocol spoken between server and
// clients. One message is one JSON object per line (TCP) or per text frame
// (WebSocket gateway).
package network

import (
	"encoding/json"

	"arena-game/internal/game"
)

// MessageType identifies a protocol message
type MessageType string

const (
	// Client to server
	MsgSetPlayerInfo MessageType = "set_player_info"
	MsgCreateRoom    MessageType = "create_room"
	MsgJoinRoom      MessageType = "join_room"
	MsgGetRoomList   MessageType = "get_room_list"
	MsgPlayerInput   MessageType = "player_input"

	// Server to client
	MsgSuccess     MessageType = "success"
	MsgError       MessageType = "error"
	MsgRoomCreated MessageType = "room_created"
	MsgRoomJoined  MessageType = "room_joined"
	MsgGameReady   MessageType = "game_ready"
	MsgRoomList    MessageType = "room_list"
	MsgGameState   MessageType = "game_state"
	MsgGameOver    MessageType = "game_over"
)

// MoveData carries the direction payload of a move input
type MoveData struct {
	Direction game.Direction `json:"direction"`
}

// ClientMessage is the envelope for every client-to-server message
type ClientMessage struct {
	Type      MessageType `json:"type"`
	Name      string      `json:"name,omitempty"`
	Character string      `json:"character,omitempty"`
	RoomName  string      `json:"room_name,omitempty"`
	RoomID    string      `json:"room_id,omitempty"`
	PlayerID  int         `json:"player_id,omitempty"`
	Action    game.Action `json:"action,omitempty"`
	Data      *MoveData   `json:"data,omitempty"`
}

// ServerMessage is the envelope for every server-to-client message
type ServerMessage struct {
	Type     MessageType     `json:"type"`
	Message  string          `json:"message,omitempty"`
	RoomID   string          `json:"room_id,omitempty"`
	RoomInfo *game.RoomInfo  `json:"room_info,omitempty"`
	PlayerID int             `json:"player_id,omitempty"`
	Rooms    []game.RoomInfo `json:"rooms,omitempty"`
	Data     *game.Snapshot  `json:"data,omitempty"`
	Winner   *int            `json:"winner,omitempty"`
}

// ToJSON encodes the message for the wire
func (m *ClientMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToJSON encodes the message for the wire
func (m *ServerMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeClientMessage parses one inbound client message
func DecodeClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DecodeServerMessage parses one inbound server message
func DecodeServerMessage(data []byte) (*ServerMessage, error) {
	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Client-side constructors

// NewSetPlayerInfoMessage sets display name and character before lobby actions
func NewSetPlayerInfoMessage(name, character string) *ClientMessage {
	return &ClientMessage{Type: MsgSetPlayerInfo, Name: name, Character: character}
}

// NewCreateRoomMessage requests a new room
func NewCreateRoomMessage(roomName string) *ClientMessage {
	return &ClientMessage{Type: MsgCreateRoom, RoomName: roomName}
}

// NewJoinRoomMessage requests joining an existing room
func NewJoinRoomMessage(roomID string) *ClientMessage {
	return &ClientMessage{Type: MsgJoinRoom, RoomID: roomID}
}

// NewGetRoomListMessage requests the joinable room list
func NewGetRoomListMessage() *ClientMessage {
	return &ClientMessage{Type: MsgGetRoomList}
}

// NewMoveMessage sends one discrete move step
func NewMoveMessage(playerID int, direction game.Direction) *ClientMessage {
	return &ClientMessage{
		Type:     MsgPlayerInput,
		PlayerID: playerID,
		Action:   game.ActionMove,
		Data:     &MoveData{Direction: direction},
	}
}

// NewAttackMessage sends an attack input
func NewAttackMessage(playerID int) *ClientMessage {
	return &ClientMessage{Type: MsgPlayerInput, PlayerID: playerID, Action: game.ActionAttack}
}

// NewJumpMessage sends a jump input
func NewJumpMessage(playerID int) *ClientMessage {
	return &ClientMessage{Type: MsgPlayerInput, PlayerID: playerID, Action: game.ActionJump}
}

// Server-side constructors

// NewSuccessMessage acknowledges a request with no payload
func NewSuccessMessage(message string) *ServerMessage {
	return &ServerMessage{Type: MsgSuccess, Message: message}
}

// NewErrorMessage reports a request error to the originating session
func NewErrorMessage(message string) *ServerMessage {
	return &ServerMessage{Type: MsgError, Message: message}
}

// NewRoomCreatedMessage confirms room creation to its first occupant
func NewRoomCreatedMessage(roomID string, info game.RoomInfo, playerID int) *ServerMessage {
	return &ServerMessage{Type: MsgRoomCreated, RoomID: roomID, RoomInfo: &info, PlayerID: playerID}
}

// NewRoomJoinedMessage confirms a join that left the room still waiting
func NewRoomJoinedMessage(info game.RoomInfo, playerID int) *ServerMessage {
	return &ServerMessage{Type: MsgRoomJoined, RoomInfo: &info, PlayerID: playerID}
}

// NewGameReadyMessage confirms a join that filled the room and started the match
func NewGameReadyMessage(roomID string, info game.RoomInfo, playerID int) *ServerMessage {
	return &ServerMessage{Type: MsgGameReady, RoomID: roomID, RoomInfo: &info, PlayerID: playerID}
}

// NewRoomListMessage carries the joinable room list
func NewRoomListMessage(rooms []game.RoomInfo) *ServerMessage {
	return &ServerMessage{Type: MsgRoomList, Rooms: rooms}
}

// NewGameStateMessage carries one match snapshot
func NewGameStateMessage(snap game.Snapshot) *ServerMessage {
	return &ServerMessage{Type: MsgGameState, Data: &snap}
}

// NewGameOverMessage announces the match outcome; winner is nil for a draw
// or an abandoned match
func NewGameOverMessage(winner *int) *ServerMessage {
	return &ServerMessage{Type: MsgGameOver, Winner: winner}
}
