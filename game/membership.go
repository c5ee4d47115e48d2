package game

import "time"

// Join adds a player to a waiting, non-full room and returns the room
// snapshot with the new player's id. Joining mid-game is rejected.
func (reg *Registry) Join(code, playerName string) (RoomState, string, error) {
	var (
		state    RoomState
		playerID string
	)
	err := reg.withRoom(code, func(r *room) error {
		if r.status != StatusWaiting {
			return ErrGameStarted
		}
		if len(r.players) >= MaxPlayers {
			return ErrRoomFull
		}
		p := &player{
			id:        r.newPlayerID(reg.gen),
			name:      playerName,
			connected: true,
			joinedAt:  time.Now(),
		}
		r.players = append(r.players, p)
		playerID = p.id
		state = r.snapshot()
		return nil
	})
	if err != nil {
		return RoomState{}, "", err
	}
	reg.logger.Info("player joined", "code", canonicalCode(code), "player_id", playerID)
	return state, playerID, nil
}

// Leave removes the player from the room. It is idempotent: leaving an
// unknown room or a room the player is not in is a no-op. An emptied
// room is deleted; a departing host hands the role to the earliest
// remaining joiner.
func (reg *Registry) Leave(code, playerID string) {
	c := canonicalCode(code)

	// Write lock: leave may delete the room from the map, and holding it
	// keeps a racing join from reviving a room mid-deletion.
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[c]
	if !ok {
		return
	}

	r.mu.Lock()
	kept := r.players[:0]
	for _, p := range r.players {
		if p.id != playerID {
			kept = append(kept, p)
		}
	}
	r.players = kept

	empty := len(r.players) == 0
	if !empty && playerID == r.hostID {
		next := r.players[0]
		next.isHost = true
		r.hostID = next.id
		reg.logger.Info("host reassigned", "code", c, "host_id", next.id)
	}
	// The departed player may have been the only one still mid-game.
	if r.status == StatusPlaying && r.allFinished() {
		r.status = StatusFinished
		reg.logger.Info("game finished", "code", c)
	}
	r.mu.Unlock()

	if empty {
		delete(reg.rooms, c)
		reg.logger.Info("room emptied and removed", "code", c)
	}
}
