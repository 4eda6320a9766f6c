package game

import "arena-game/pkg/logger"

// ApplyInput resolves one player action against the room's state. Unknown
// player ids and actions on a room that is not playing are no-ops: a just
// disconnected peer's in-flight input may arrive after cleanup and must not
// fault the room.
func (r *Room) ApplyInput(playerID int, action Action, direction Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying {
		return
	}
	p := r.playerByIDLocked(playerID)
	if p == nil {
		return
	}

	switch action {
	case ActionMove:
		r.applyMoveLocked(p, direction)
	case ActionAttack:
		r.applyAttackLocked(p)
	case ActionJump:
		// Vertical motion is not simulated; the pulse is mirrored to
		// clients for animation and never affects hit resolution.
		p.Jumping = true
	}
}

func (r *Room) playerByIDLocked(playerID int) *PlayerState {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// applyMoveLocked performs one discrete step and clamps to the playfield
func (r *Room) applyMoveLocked(p *PlayerState, direction Direction) {
	switch direction {
	case DirectionLeft:
		p.FacingRight = false
		p.X -= MoveSpeed
	case DirectionRight:
		p.FacingRight = true
		p.X += MoveSpeed
	default:
		return
	}
	if p.X < 0 {
		p.X = 0
	}
	if max := PlayfieldWidth - PlayerWidth; p.X > max {
		p.X = max
	}
}

// applyAttackLocked registers an attack and immediately resolves collision.
// Attacks inside the cooldown window are accepted as no-ops.
func (r *Room) applyAttackLocked(attacker *PlayerState) {
	now := r.clock()
	if !attacker.lastAttack.IsZero() && now.Sub(attacker.lastAttack) < AttackCooldown {
		return
	}
	attacker.lastAttack = now
	attacker.Attacking = true

	// Attack rectangle sits adjacent to the attacker on the facing side
	var attackX float64
	if attacker.FacingRight {
		attackX = attacker.X + PlayerWidth
	} else {
		attackX = attacker.X - AttackRange
	}

	for _, defender := range r.players {
		if defender.ID == attacker.ID {
			continue
		}
		if !rectOverlap(attackX, attacker.Y, AttackRange, AttackHeight,
			defender.X, defender.Y, PlayerWidth, PlayerHeight) {
			continue
		}

		defender.Health -= AttackDamage
		if defender.Health < 0 {
			defender.Health = 0
		}
		logger.Game.Debug("Room %s: player %d hit player %d for %d (health %d)",
			r.ID, attacker.ID, defender.ID, AttackDamage, defender.Health)

		if defender.Health == 0 {
			r.finishLocked(attacker.ID)
			logger.Game.Info("Room %s finished: player %d wins by knockout", r.ID, attacker.ID)
		}
	}
}

// rectOverlap tests axis-aligned rectangle intersection
func rectOverlap(x1, y1, w1, h1, x2, y2, w2, h2 float64) bool {
	return x1 < x2+w2 &&
		x1+w1 > x2 &&
		y1 < y2+h2 &&
		y1+h1 > y2
}
