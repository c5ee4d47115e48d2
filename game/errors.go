package game

import "errors"

// Lookup errors
var (
	ErrRoomNotFound   = errors.New("room-not-found")
	ErrPlayerNotFound = errors.New("player-not-found")
)

// Join / start rejections
var (
	ErrGameStarted    = errors.New("game-already-started")
	ErrGameNotStarted = errors.New("game-not-started")
	ErrRoomFull       = errors.New("room-full")
	ErrEmptyRoom      = errors.New("empty-room")
	ErrNotHost        = errors.New("not-host")
)

// Round progression
var (
	ErrQuizNotReady    = errors.New("quiz-not-ready")
	ErrRoundOutOfRange = errors.New("round-out-of-range")
)

// Code generation
var (
	ErrCodeSpaceExhausted = errors.New("code-space-exhausted")
)
