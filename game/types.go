package game

import (
	"sync"
	"time"
)

type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

const (
	DefaultMaxRounds = 5
	MaxPlayers       = 10
	PointsPerCorrect = 100

	RoomCodeLength = 6
	PlayerIDLength = 8
)

// Article identifies the news article a room's quiz was generated from.
type Article struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// QuizQuestion is one generated question. Difficulty equals its 1-based
// position in the quiz.
type QuizQuestion struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	Difficulty int    `json:"difficulty"`
}

// QuizData is the full generated quiz for a room, set once at game start.
// Hints are a flat pool rationed across rounds, not per question.
type QuizData struct {
	Title          string         `json:"title"`
	Questions      []QuizQuestion `json:"questions"`
	Hints          []string       `json:"hints"`
	AnswerKeywords []string       `json:"answer_keywords"`
	FullAnswer     string         `json:"full_answer"`
}

// Question is the view served to a player for one round. It is derived
// from (QuizData, round) on demand and never stored on the room, so two
// players on different rounds cannot clobber each other's view.
type Question struct {
	Round          int      `json:"round"`
	Text           string   `json:"text"`
	ArticleTitle   string   `json:"article_title"`
	ArticleURL     string   `json:"article_url"`
	Hints          []string `json:"hints"`
	AnswerKeywords []string `json:"answer_keywords"`
	Difficulty     int      `json:"difficulty"`
}

type player struct {
	id           string
	name         string
	score        int
	isHost       bool
	connected    bool
	currentRound int
	joinedAt     time.Time
	answeredAt   time.Time
}

// room is the unit of mutual exclusion: every read or write of its
// fields happens under mu. Handlers only ever see snapshots.
type room struct {
	mu sync.Mutex

	code      string
	hostID    string
	players   []*player
	status    RoomStatus
	maxRounds int
	article   Article
	quiz      QuizData
	hasQuiz   bool
	loading   string
	createdAt time.Time
}

// PlayerState is the JSON snapshot of one player.
type PlayerState struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	IsHost       bool   `json:"is_host"`
	Connected    bool   `json:"connected"`
	CurrentRound int    `json:"current_round"`
}

// RoomState is the JSON snapshot of a room, safe to use after the room
// lock is released.
type RoomState struct {
	Code           string        `json:"code"`
	HostID         string        `json:"host_id"`
	Players        []PlayerState `json:"players"`
	Status         RoomStatus    `json:"status"`
	MaxRounds      int           `json:"max_rounds"`
	Article        *Article      `json:"article,omitempty"`
	LoadingMessage string        `json:"loading_message,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// GuessResult reports the outcome of recording a guess.
type GuessResult struct {
	Correct      bool `json:"correct"`
	Score        int  `json:"score"`
	CurrentRound int  `json:"current_round"`
	Finished     bool `json:"finished"`
}

func (p *player) state() PlayerState {
	return PlayerState{
		ID:           p.id,
		Name:         p.name,
		Score:        p.score,
		IsHost:       p.isHost,
		Connected:    p.connected,
		CurrentRound: p.currentRound,
	}
}

// snapshot must be called with r.mu held.
func (r *room) snapshot() RoomState {
	players := make([]PlayerState, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p.state())
	}
	s := RoomState{
		Code:           r.code,
		HostID:         r.hostID,
		Players:        players,
		Status:         r.status,
		MaxRounds:      r.maxRounds,
		LoadingMessage: r.loading,
		CreatedAt:      r.createdAt,
	}
	if r.hasQuiz {
		a := r.article
		s.Article = &a
	}
	return s
}
