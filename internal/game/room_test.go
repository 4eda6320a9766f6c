package game

import (
	"testing"
	"time"
)

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newPlayingRoom builds a full room with a controllable clock. The clock
// starts at testBase; tests move it by reassigning room.clock.
func newPlayingRoom(t *testing.T) *Room {
	t.Helper()
	room := NewRoom("room1234", "test room", 0)
	room.clock = func() time.Time { return testBase }

	if _, started, err := room.AddPlayer("sess-a", "alice", "anaxa"); err != nil || started {
		t.Fatalf("first AddPlayer: started=%v err=%v", started, err)
	}
	if _, started, err := room.AddPlayer("sess-b", "bob", "mydei"); err != nil || !started {
		t.Fatalf("second AddPlayer: started=%v err=%v", started, err)
	}
	return room
}

func setPlayer(t *testing.T, room *Room, id int, x float64, facingRight bool) {
	t.Helper()
	room.mu.Lock()
	defer room.mu.Unlock()
	p := room.playerByIDLocked(id)
	if p == nil {
		t.Fatalf("player %d not found", id)
	}
	p.X = x
	p.FacingRight = facingRight
}

func playerHealth(t *testing.T, room *Room, id int) int {
	t.Helper()
	room.mu.Lock()
	defer room.mu.Unlock()
	p := room.playerByIDLocked(id)
	if p == nil {
		t.Fatalf("player %d not found", id)
	}
	return p.Health
}

func TestRoomStartAssignsSpawnsAndHealth(t *testing.T) {
	room := newPlayingRoom(t)

	if got := room.Status(); got != StatusPlaying {
		t.Fatalf("status = %s, want %s", got, StatusPlaying)
	}

	snap := room.Snapshot()
	p1, ok := snap.Players[1]
	if !ok {
		t.Fatal("missing player 1 in snapshot")
	}
	p2, ok := snap.Players[2]
	if !ok {
		t.Fatal("missing player 2 in snapshot")
	}

	if p1.X != SpawnLeftX || p1.Y != GroundY || !p1.FacingRight {
		t.Errorf("player 1 spawn = (%v, %v) facingRight=%v", p1.X, p1.Y, p1.FacingRight)
	}
	if p2.X != SpawnRightX || p2.Y != GroundY || p2.FacingRight {
		t.Errorf("player 2 spawn = (%v, %v) facingRight=%v", p2.X, p2.Y, p2.FacingRight)
	}
	if p1.Health != MaxHealth || p2.Health != MaxHealth {
		t.Errorf("health = %d/%d, want %d", p1.Health, p2.Health, MaxHealth)
	}
	if !snap.GameStarted || snap.GameOver || snap.Winner != nil {
		t.Errorf("snapshot flags = started %v, over %v, winner %v", snap.GameStarted, snap.GameOver, snap.Winner)
	}
}

func TestRoomRejectsThirdPlayer(t *testing.T) {
	room := newPlayingRoom(t)

	if _, _, err := room.AddPlayer("sess-c", "carol", "anaxa"); err != ErrRoomNotJoinable {
		t.Fatalf("AddPlayer on full room = %v, want ErrRoomNotJoinable", err)
	}
}

func TestRoomAbandonmentFinishesWithNoWinner(t *testing.T) {
	room := newPlayingRoom(t)

	if empty := room.RemovePlayer("sess-a"); empty {
		t.Fatal("room reported empty with one occupant remaining")
	}
	if got := room.Status(); got != StatusFinished {
		t.Fatalf("status after abandonment = %s, want %s", got, StatusFinished)
	}
	if got := room.Winner(); got != 0 {
		t.Fatalf("winner after abandonment = %d, want none", got)
	}

	// Finished is terminal: no re-join, no status regression
	if _, _, err := room.AddPlayer("sess-c", "carol", "anaxa"); err != ErrRoomNotJoinable {
		t.Fatalf("AddPlayer on finished room = %v, want ErrRoomNotJoinable", err)
	}
	if empty := room.RemovePlayer("sess-b"); !empty {
		t.Fatal("room should be empty after last occupant left")
	}
	if got := room.Status(); got != StatusFinished {
		t.Fatalf("status = %s, want %s (monotonic)", got, StatusFinished)
	}
}

func TestRoomTimeoutHigherHealthWins(t *testing.T) {
	room := newPlayingRoom(t)

	room.mu.Lock()
	room.playerByIDLocked(1).Health = 80
	room.playerByIDLocked(2).Health = 60
	room.mu.Unlock()

	// One second before the deadline nothing resolves
	snap, over, broadcast := room.Advance(testBase.Add(DefaultRoundDuration - time.Second))
	if over || !broadcast || snap.GameOver {
		t.Fatalf("premature resolution: over=%v broadcast=%v gameOver=%v", over, broadcast, snap.GameOver)
	}

	snap, over, broadcast = room.Advance(testBase.Add(DefaultRoundDuration))
	if !over || !broadcast {
		t.Fatalf("timeout not resolved: over=%v broadcast=%v", over, broadcast)
	}
	if snap.Winner == nil || *snap.Winner != 1 {
		t.Fatalf("winner = %v, want player 1", snap.Winner)
	}
	if snap.RemainingTime != 0 {
		t.Errorf("remaining time = %v, want 0", snap.RemainingTime)
	}
}

func TestRoomTimeoutEqualHealthIsDraw(t *testing.T) {
	room := newPlayingRoom(t)

	snap, over, _ := room.Advance(testBase.Add(DefaultRoundDuration))
	if !over {
		t.Fatal("timeout not resolved")
	}
	if snap.Winner != nil {
		t.Fatalf("winner = %d, want draw", *snap.Winner)
	}
	if got := room.Status(); got != StatusFinished {
		t.Fatalf("status = %s, want %s", got, StatusFinished)
	}
}

func TestRoomExactlyOneTerminalBroadcast(t *testing.T) {
	room := newPlayingRoom(t)

	if _, over, broadcast := room.Advance(testBase.Add(DefaultRoundDuration)); !over || !broadcast {
		t.Fatal("expected terminal broadcast")
	}
	for i := 0; i < 3; i++ {
		if _, over, broadcast := room.Advance(testBase.Add(DefaultRoundDuration + time.Second)); over || broadcast {
			t.Fatalf("tick %d after terminal broadcast: over=%v broadcast=%v", i, over, broadcast)
		}
	}
}

func TestRoomWaitingRoomDoesNotBroadcast(t *testing.T) {
	room := NewRoom("room9999", "lonely", 0)
	if _, _, err := room.AddPlayer("sess-a", "alice", "anaxa"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if _, over, broadcast := room.Advance(time.Now()); over || broadcast {
		t.Fatalf("waiting room advanced: over=%v broadcast=%v", over, broadcast)
	}
}

func TestRoomAttackPulseLastsOneBroadcast(t *testing.T) {
	room := newPlayingRoom(t)
	setPlayer(t, room, 1, 100, true)
	setPlayer(t, room, 2, 500, false)

	room.ApplyInput(1, ActionAttack, "")
	room.ApplyInput(2, ActionJump, "")

	snap, _, _ := room.Advance(testBase.Add(time.Second))
	if !snap.Players[1].Attacking {
		t.Error("attacking pulse missing from first broadcast")
	}
	if !snap.Players[2].Jumping {
		t.Error("jumping pulse missing from first broadcast")
	}

	snap, _, _ = room.Advance(testBase.Add(2 * time.Second))
	if snap.Players[1].Attacking {
		t.Error("attacking pulse survived a second broadcast")
	}
	if snap.Players[2].Jumping {
		t.Error("jumping pulse survived a second broadcast")
	}
}
