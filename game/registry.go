package game

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// codeRetryLimit caps how often a colliding room code is redrawn before
// CreateRoom gives up with ErrCodeSpaceExhausted. At 36^6 possible codes
// the cap is unreachable in practice, but it keeps allocation total.
const codeRetryLimit = 100

// Registry owns every live room. The outer RWMutex guards the code->room
// map; each room carries its own mutex for its fields. Lock order is
// always registry before room.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*room
	gen    codeGenerator
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return newRegistry(randomCodeGenerator{}, logger)
}

func newRegistry(gen codeGenerator, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		rooms:  make(map[string]*room),
		gen:    gen,
		logger: logger,
	}
}

func canonicalCode(code string) string {
	return strings.ToUpper(code)
}

// allocateCode must be called with reg.mu held for writing.
func (reg *Registry) allocateCode() (string, error) {
	for i := 0; i < codeRetryLimit; i++ {
		code := reg.gen.Generate(RoomCodeLength)
		if _, taken := reg.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// newPlayerID must be called with the room lock held: player ids only
// need to be unique within their room.
func (r *room) newPlayerID(gen codeGenerator) string {
	for {
		id := gen.Generate(PlayerIDLength)
		if r.findPlayer(id) == nil {
			return id
		}
	}
}

// findPlayer must be called with r.mu held.
func (r *room) findPlayer(id string) *player {
	for _, p := range r.players {
		if p.id == id {
			return p
		}
	}
	return nil
}

// CreateRoom allocates a fresh room in waiting status with hostName as
// its sole, host-privileged player. It returns the room snapshot and the
// host's player id.
func (reg *Registry) CreateRoom(hostName string) (RoomState, string, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code, err := reg.allocateCode()
	if err != nil {
		reg.logger.Error("room code allocation failed", "err", err)
		return RoomState{}, "", err
	}

	now := time.Now()
	r := &room{
		code:      code,
		status:    StatusWaiting,
		maxRounds: DefaultMaxRounds,
		createdAt: now,
	}
	host := &player{
		id:        r.newPlayerID(reg.gen),
		name:      hostName,
		isHost:    true,
		connected: true,
		joinedAt:  now,
	}
	r.hostID = host.id
	r.players = append(r.players, host)
	reg.rooms[code] = r

	reg.logger.Info("room created", "code", code, "host", hostName)
	return r.snapshot(), host.id, nil
}

// Room returns a snapshot of the room. Lookup is case-insensitive.
func (reg *Registry) Room(code string) (RoomState, error) {
	var state RoomState
	err := reg.withRoom(code, func(r *room) error {
		state = r.snapshot()
		return nil
	})
	return state, err
}

// RemoveRoom deletes the room outright. Idempotent.
func (reg *Registry) RemoveRoom(code string) {
	c := canonicalCode(code)
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[c]; ok {
		delete(reg.rooms, c)
		reg.logger.Info("room removed", "code", c)
	}
}

// Count reports the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// withRoom runs fn inside the room's critical section while holding the
// registry read lock, so a concurrent leave cannot delete the room out
// from under fn. Rooms are independent: operations on different rooms
// run in parallel.
func (reg *Registry) withRoom(code string, fn func(*room) error) error {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[canonicalCode(code)]
	if !ok {
		return ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}
