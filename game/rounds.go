package game

// BeginLoading marks the room as generating its quiz. Host-only, and
// only sensible while waiting. The flag is a UI hint for the other
// players, not a lock: a second start attempt is caught by the status
// check in Start, not by this flag.
func (reg *Registry) BeginLoading(code, playerID, message string) error {
	return reg.withRoom(code, func(r *room) error {
		if r.hostID != playerID {
			return ErrNotHost
		}
		if r.status != StatusWaiting {
			return ErrGameStarted
		}
		r.loading = message
		return nil
	})
}

// ClearLoading drops the loading flag, leaving everything else alone.
// Called when quiz generation fails so the room stays joinable and the
// host can retry.
func (reg *Registry) ClearLoading(code string) {
	reg.withRoom(code, func(r *room) error {
		r.loading = ""
		return nil
	})
}

// Start commits a fully generated quiz and moves the room to playing.
// The caller must have finished all upstream I/O (article fetch, quiz
// generation) before calling: nothing is committed on any error path, so
// a failed start leaves the room in waiting exactly as it was.
func (reg *Registry) Start(code, playerID string, article Article, quiz QuizData) (RoomState, error) {
	var state RoomState
	err := reg.withRoom(code, func(r *room) error {
		if r.hostID != playerID {
			return ErrNotHost
		}
		if r.status != StatusWaiting {
			return ErrGameStarted
		}
		if len(r.players) == 0 {
			return ErrEmptyRoom
		}
		r.article = article
		r.quiz = quiz
		r.hasQuiz = true
		r.loading = ""
		r.status = StatusPlaying
		for _, p := range r.players {
			p.currentRound = 1
		}
		state = r.snapshot()
		return nil
	})
	if err != nil {
		return RoomState{}, err
	}
	reg.logger.Info("game started", "code", canonicalCode(code), "questions", len(quiz.Questions))
	return state, nil
}

// Question derives the view for one round on demand. Each player asks
// with their own round number, so players on different rounds never
// overwrite each other's question.
func (reg *Registry) Question(code string, round int) (Question, error) {
	var q Question
	err := reg.withRoom(code, func(r *room) error {
		if r.status != StatusPlaying {
			return ErrGameNotStarted
		}
		return r.questionForRound(round, &q)
	})
	return q, err
}

// PlayerQuestion returns the question for the player's own current
// round.
func (reg *Registry) PlayerQuestion(code, playerID string) (Question, error) {
	var q Question
	err := reg.withRoom(code, func(r *room) error {
		if r.status != StatusPlaying {
			return ErrGameNotStarted
		}
		p := r.findPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		return r.questionForRound(p.currentRound, &q)
	})
	return q, err
}

// QuizAnswer exposes the grading material (keywords and full answer) so
// the handler can call the grader outside the room lock.
func (reg *Registry) QuizAnswer(code string) (keywords []string, fullAnswer string, err error) {
	err = reg.withRoom(code, func(r *room) error {
		if r.status != StatusPlaying {
			return ErrGameNotStarted
		}
		if !r.hasQuiz {
			return ErrQuizNotReady
		}
		keywords = append([]string(nil), r.quiz.AnswerKeywords...)
		fullAnswer = r.quiz.FullAnswer
		return nil
	})
	return keywords, fullAnswer, err
}

// questionForRound must be called with r.mu held.
func (r *room) questionForRound(round int, out *Question) error {
	if !r.hasQuiz {
		return ErrQuizNotReady
	}
	if round < 1 || round > len(r.quiz.Questions) {
		return ErrRoundOutOfRange
	}
	*out = Question{
		Round:          round,
		Text:           r.quiz.Questions[round-1].Text,
		ArticleTitle:   r.article.Title,
		ArticleURL:     r.article.URL,
		Hints:          hintWindow(r.quiz.Hints, round, r.maxRounds),
		AnswerKeywords: r.quiz.AnswerKeywords,
		Difficulty:     round,
	}
	return nil
}

// hintWindow rations the flat hint pool across rounds: each round gets a
// disjoint slice so later rounds reveal new hints instead of repeating
// earlier ones. Integer-division leftover at the tail goes unused, and
// rounds past the pool get an empty window.
func hintWindow(hints []string, round, maxRounds int) []string {
	perRound := len(hints) / maxRounds
	if perRound < 1 {
		perRound = 1
	}
	start := (round - 1) * perRound
	if start >= len(hints) {
		return []string{}
	}
	end := start + perRound
	if end > len(hints) {
		end = len(hints)
	}
	return hints[start:end]
}
