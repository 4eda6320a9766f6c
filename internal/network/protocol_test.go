package network

import (
	"encoding/json"
	"reflect"
	"testing"

	"arena-game/internal/game"
)

func TestDecodeClientMessages(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ClientMessage
	}{
		{
			name: "set_player_info",
			raw:  `{"type":"set_player_info","name":"alice","character":"anaxa"}`,
			want: ClientMessage{Type: MsgSetPlayerInfo, Name: "alice", Character: "anaxa"},
		},
		{
			name: "create_room",
			raw:  `{"type":"create_room","room_name":"my room"}`,
			want: ClientMessage{Type: MsgCreateRoom, RoomName: "my room"},
		},
		{
			name: "join_room",
			raw:  `{"type":"join_room","room_id":"deadbeef"}`,
			want: ClientMessage{Type: MsgJoinRoom, RoomID: "deadbeef"},
		},
		{
			name: "get_room_list",
			raw:  `{"type":"get_room_list"}`,
			want: ClientMessage{Type: MsgGetRoomList},
		},
		{
			name: "move input",
			raw:  `{"type":"player_input","player_id":1,"action":"move","data":{"direction":"left"}}`,
			want: ClientMessage{
				Type:     MsgPlayerInput,
				PlayerID: 1,
				Action:   game.ActionMove,
				Data:     &MoveData{Direction: game.DirectionLeft},
			},
		},
		{
			name: "attack input",
			raw:  `{"type":"player_input","player_id":2,"action":"attack"}`,
			want: ClientMessage{Type: MsgPlayerInput, PlayerID: 2, Action: game.ActionAttack},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeClientMessage([]byte(tt.raw))
			if err != nil {
				t.Fatalf("DecodeClientMessage: %v", err)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Fatalf("decoded %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestDecodeClientMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeClientMessage([]byte("not json at all")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	winner := 1
	snap := game.Snapshot{
		Players: map[int]game.PlayerState{
			1: {ID: 1, X: 205, Y: 600, Health: 80, FacingRight: true, Attacking: true, Name: "alice"},
			2: {ID: 2, X: 995, Y: 600, Health: 0, FacingRight: false, Jumping: true, Name: "bob"},
		},
		GameStarted:   true,
		GameOver:      true,
		Winner:        &winner,
		RemainingTime: 42.5,
	}

	data, err := NewGameStateMessage(snap).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := DecodeServerMessage(data)
	if err != nil {
		t.Fatalf("DecodeServerMessage: %v", err)
	}
	if decoded.Type != MsgGameState || decoded.Data == nil {
		t.Fatalf("decoded type=%s data=%v", decoded.Type, decoded.Data)
	}
	if !reflect.DeepEqual(decoded.Data.Players, snap.Players) {
		t.Fatalf("players round-trip mismatch:\n got %+v\nwant %+v", decoded.Data.Players, snap.Players)
	}
	if decoded.Data.GameStarted != snap.GameStarted ||
		decoded.Data.GameOver != snap.GameOver ||
		decoded.Data.RemainingTime != snap.RemainingTime {
		t.Fatalf("scalar fields mismatch: %+v", decoded.Data)
	}
	if decoded.Data.Winner == nil || *decoded.Data.Winner != winner {
		t.Fatalf("winner = %v, want %d", decoded.Data.Winner, winner)
	}
}

func TestSnapshotWireFieldNames(t *testing.T) {
	snap := game.Snapshot{
		Players: map[int]game.PlayerState{
			1: {ID: 1, X: 200, Y: 600, Health: 100, FacingRight: true, Name: "alice"},
		},
		GameStarted:   true,
		RemainingTime: 180,
	}
	data, err := NewGameStateMessage(snap).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	var wire struct {
		Type string `json:"type"`
		Data struct {
			Players map[string]map[string]any `json:"players"`
			Started bool                      `json:"game_started"`
			Over    bool                      `json:"game_over"`
			Winner  *int                      `json:"winner"`
			Remain  float64                   `json:"remaining_time"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal wire form: %v", err)
	}

	player, ok := wire.Data.Players["1"]
	if !ok {
		t.Fatalf("players not keyed by id: %v", wire.Data.Players)
	}
	for _, field := range []string{"id", "x", "y", "health", "facing_right", "attacking", "jumping", "name"} {
		if _, ok := player[field]; !ok {
			t.Errorf("player object missing %q: %v", field, player)
		}
	}
	if wire.Data.Winner != nil {
		t.Errorf("winner should encode as null when unset")
	}
}

func TestGameOverWinnerOmittedOnDraw(t *testing.T) {
	data, err := NewGameOverMessage(nil).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := wire["winner"]; ok {
		t.Fatalf("draw game_over carries winner: %v", wire)
	}
}

func TestRoomListMessage(t *testing.T) {
	rooms := []game.RoomInfo{{
		RoomID:     "cafe0123",
		Name:       "my room",
		Players:    1,
		MaxPlayers: 2,
		Status:     game.StatusWaiting,
		PlayerList: []game.PlayerSummary{{Name: "alice", Character: "anaxa"}},
	}}

	data, err := NewRoomListMessage(rooms).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := DecodeServerMessage(data)
	if err != nil {
		t.Fatalf("DecodeServerMessage: %v", err)
	}
	if !reflect.DeepEqual(decoded.Rooms, rooms) {
		t.Fatalf("rooms mismatch:\n got %+v\nwant %+v", decoded.Rooms, rooms)
	}
}
