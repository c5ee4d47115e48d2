package game

import (
	"sort"
	"time"
)

// SubmitGuess records a graded guess for the player. Correctness is
// decided upstream by the answer grader; this only books the outcome:
// a correct guess is worth a flat PointsPerCorrect and advances the
// player by one round. A player past maxRounds is finished, and once
// every player is, the room itself moves to finished.
func (reg *Registry) SubmitGuess(code, playerID, guess string, correct bool) (GuessResult, error) {
	var res GuessResult
	err := reg.withRoom(code, func(r *room) error {
		if r.status != StatusPlaying {
			return ErrGameNotStarted
		}
		p := r.findPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		// A finished player sits at the maxRounds+1 sentinel; further
		// correct guesses must not move the score or the round.
		if correct && p.currentRound <= r.maxRounds {
			p.score += PointsPerCorrect
			p.currentRound++
			p.answeredAt = time.Now()
		}
		res = GuessResult{
			Correct:      correct,
			Score:        p.score,
			CurrentRound: p.currentRound,
			Finished:     p.currentRound > r.maxRounds,
		}
		if r.allFinished() {
			r.status = StatusFinished
		}
		return nil
	})
	if err != nil {
		return GuessResult{}, err
	}
	if correct {
		reg.logger.Info("correct guess",
			"code", canonicalCode(code),
			"player_id", playerID,
			"score", res.Score,
			"round", res.CurrentRound,
		)
	}
	return res, nil
}

// allFinished must be called with r.mu held.
func (r *room) allFinished() bool {
	for _, p := range r.players {
		if p.currentRound <= r.maxRounds {
			return false
		}
	}
	return len(r.players) > 0
}

// Leaderboard returns the room's players sorted by score descending.
// Ties keep join order: the sort is stable over the join-ordered list.
func (reg *Registry) Leaderboard(code string) ([]PlayerState, error) {
	var board []PlayerState
	err := reg.withRoom(code, func(r *room) error {
		board = make([]PlayerState, 0, len(r.players))
		for _, p := range r.players {
			board = append(board, p.state())
		}
		sort.SliceStable(board, func(i, j int) bool {
			return board[i].Score > board[j].Score
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}
