package game

import (
	"testing"
	"time"
)

func TestAttackInReachDealsFixedDamage(t *testing.T) {
	room := newPlayingRoom(t)
	setPlayer(t, room, 1, 100, true)
	setPlayer(t, room, 2, 140, false)

	room.ApplyInput(1, ActionAttack, "")
	if got := playerHealth(t, room, 2); got != MaxHealth-AttackDamage {
		t.Fatalf("defender health = %d, want %d", got, MaxHealth-AttackDamage)
	}

	// Within the cooldown window a repeated attack is a no-op
	room.ApplyInput(1, ActionAttack, "")
	if got := playerHealth(t, room, 2); got != MaxHealth-AttackDamage {
		t.Fatalf("cooldown attack changed health to %d", got)
	}

	// After the cooldown the next attack lands again
	room.clock = func() time.Time { return testBase.Add(AttackCooldown + 100*time.Millisecond) }
	room.ApplyInput(1, ActionAttack, "")
	if got := playerHealth(t, room, 2); got != MaxHealth-2*AttackDamage {
		t.Fatalf("post-cooldown health = %d, want %d", got, MaxHealth-2*AttackDamage)
	}
}

func TestAttackOutOfReachMisses(t *testing.T) {
	room := newPlayingRoom(t)
	setPlayer(t, room, 1, 100, true)
	// Attack rect covers [150, 230); a body starting at 230 is out of reach
	setPlayer(t, room, 2, 230, false)

	room.ApplyInput(1, ActionAttack, "")
	if got := playerHealth(t, room, 2); got != MaxHealth {
		t.Fatalf("out-of-reach attack dealt damage, health = %d", got)
	}
}

func TestAttackRespectsFacing(t *testing.T) {
	room := newPlayingRoom(t)
	// Defender adjacent on the left, attacker facing right: miss
	setPlayer(t, room, 1, 300, true)
	setPlayer(t, room, 2, 240, true)

	room.ApplyInput(1, ActionAttack, "")
	if got := playerHealth(t, room, 2); got != MaxHealth {
		t.Fatalf("attack away from defender dealt damage, health = %d", got)
	}

	// Turn around; the left-side rect [220, 300) now covers the defender
	room.clock = func() time.Time { return testBase.Add(time.Second) }
	setPlayer(t, room, 1, 300, false)
	room.ApplyInput(1, ActionAttack, "")
	if got := playerHealth(t, room, 2); got != MaxHealth-AttackDamage {
		t.Fatalf("left-facing attack health = %d, want %d", got, MaxHealth-AttackDamage)
	}
}

func TestLethalAttackFinishesRoomSameStep(t *testing.T) {
	room := newPlayingRoom(t)
	setPlayer(t, room, 1, 100, true)
	setPlayer(t, room, 2, 140, false)
	room.mu.Lock()
	room.playerByIDLocked(2).Health = AttackDamage
	room.mu.Unlock()

	room.ApplyInput(1, ActionAttack, "")

	if got := playerHealth(t, room, 2); got != 0 {
		t.Fatalf("defender health = %d, want 0", got)
	}
	if got := room.Status(); got != StatusFinished {
		t.Fatalf("status = %s, want %s in the same step", got, StatusFinished)
	}
	if got := room.Winner(); got != 1 {
		t.Fatalf("winner = %d, want attacker", got)
	}

	// Further input against the finished room is a silent no-op
	room.clock = func() time.Time { return testBase.Add(time.Second) }
	room.ApplyInput(1, ActionAttack, "")
	if got := playerHealth(t, room, 2); got != 0 {
		t.Fatalf("health went below floor: %d", got)
	}
}

func TestHealthFloorsAtZero(t *testing.T) {
	room := newPlayingRoom(t)
	setPlayer(t, room, 1, 100, true)
	setPlayer(t, room, 2, 140, false)
	room.mu.Lock()
	room.playerByIDLocked(2).Health = AttackDamage / 2
	room.mu.Unlock()

	room.ApplyInput(1, ActionAttack, "")
	if got := playerHealth(t, room, 2); got != 0 {
		t.Fatalf("health = %d, want floor at 0", got)
	}
}

func TestMoveStepsAndClamps(t *testing.T) {
	room := newPlayingRoom(t)

	room.ApplyInput(1, ActionMove, DirectionRight)
	snap := room.Snapshot()
	if got := snap.Players[1].X; got != SpawnLeftX+MoveSpeed {
		t.Fatalf("x after one step = %v, want %v", got, SpawnLeftX+MoveSpeed)
	}

	// Facing follows direction
	room.ApplyInput(1, ActionMove, DirectionLeft)
	snap = room.Snapshot()
	if snap.Players[1].FacingRight {
		t.Error("facing right after moving left")
	}

	// Clamp at the left edge
	setPlayer(t, room, 1, 2, false)
	room.ApplyInput(1, ActionMove, DirectionLeft)
	if got := room.Snapshot().Players[1].X; got != 0 {
		t.Fatalf("x clamped = %v, want 0", got)
	}

	// Clamp at the right edge
	maxX := PlayfieldWidth - PlayerWidth
	setPlayer(t, room, 2, maxX-2, true)
	room.ApplyInput(2, ActionMove, DirectionRight)
	if got := room.Snapshot().Players[2].X; got != maxX {
		t.Fatalf("x clamped = %v, want %v", got, maxX)
	}
}

func TestJumpDoesNotMoveOrDamage(t *testing.T) {
	room := newPlayingRoom(t)
	setPlayer(t, room, 1, 100, true)
	setPlayer(t, room, 2, 140, false)

	room.ApplyInput(1, ActionJump, "")
	snap := room.Snapshot()
	if got := snap.Players[1]; got.X != 100 || got.Y != GroundY {
		t.Fatalf("jump moved player to (%v, %v)", got.X, got.Y)
	}
	if !snap.Players[1].Jumping {
		t.Error("jump pulse not recorded")
	}
	if got := playerHealth(t, room, 2); got != MaxHealth {
		t.Fatalf("jump dealt damage, health = %d", got)
	}
}

func TestUnknownPlayerInputIsNoOp(t *testing.T) {
	room := newPlayingRoom(t)
	before := room.Snapshot()

	room.ApplyInput(99, ActionAttack, "")
	room.ApplyInput(99, ActionMove, DirectionLeft)

	after := room.Snapshot()
	for id, p := range before.Players {
		if after.Players[id].X != p.X || after.Players[id].Health != p.Health {
			t.Fatalf("input for unknown player mutated player %d", id)
		}
	}
}
