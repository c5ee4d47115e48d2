package game

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const loadingMessage = "Generating questions..."

// Handler is the HTTP boundary: it translates requests into registry
// calls and domain errors into status codes. All collaborator I/O
// happens here, outside any room lock.
type Handler struct {
	registry *Registry
	content  ContentProvider
	quizzes  QuizGenerator
	grader   AnswerGrader
	logger   *slog.Logger
}

func NewHandler(registry *Registry, content ContentProvider, quizzes QuizGenerator, grader AnswerGrader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry: registry,
		content:  content,
		quizzes:  quizzes,
		grader:   grader,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	rooms := r.Group("/api/rooms")
	rooms.POST("", h.CreateRoom)
	rooms.GET("/:code", h.GetRoom)
	rooms.POST("/:code/join", h.JoinRoom)
	rooms.POST("/:code/start", h.StartGame)
	rooms.POST("/:code/guess", h.SubmitGuess)
	rooms.GET("/:code/question", h.GetQuestion)
	rooms.POST("/:code/next", h.NextRound)
	rooms.GET("/:code/leaderboard", h.GetLeaderboard)
	rooms.POST("/:code/leave", h.LeaveRoom)
	rooms.GET("/:code/watch", h.WatchRoom)
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrRoundOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, ErrGameStarted),
		errors.Is(err, ErrGameNotStarted),
		errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrEmptyRoom),
		errors.Is(err, ErrQuizNotReady):
		return http.StatusConflict
	case errors.Is(err, ErrNoArticles),
		errors.Is(err, ErrQuizGeneration),
		errors.Is(err, ErrCodeSpaceExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(httpStatus(err), gin.H{"error": err.Error()})
}

type createRoomRequest struct {
	PlayerName string `json:"player_name" binding:"required"`
}

func (h *Handler) CreateRoom(ctx *gin.Context) {
	var req createRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	state, playerID, err := h.registry.CreateRoom(req.PlayerName)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": state, "player_id": playerID})
}

type joinRoomRequest struct {
	PlayerName string `json:"player_name" binding:"required"`
}

func (h *Handler) JoinRoom(ctx *gin.Context) {
	var req joinRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	state, playerID, err := h.registry.Join(ctx.Param("code"), req.PlayerName)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": state, "player_id": playerID})
}

func (h *Handler) GetRoom(ctx *gin.Context) {
	state, err := h.registry.Room(ctx.Param("code"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// StartGame runs the full start sequence: host check and loading flag,
// then the slow upstream calls, then the atomic commit. Any upstream
// failure clears the flag and leaves the room in waiting so the host can
// retry.
func (h *Handler) StartGame(ctx *gin.Context) {
	code := ctx.Param("code")
	playerID := ctx.Query("player_id")

	if err := h.registry.BeginLoading(code, playerID, loadingMessage); err != nil {
		abortWithError(ctx, err)
		return
	}

	article, err := h.content.RandomArticle(ctx.Request.Context())
	if err != nil {
		h.registry.ClearLoading(code)
		h.logger.Warn("no article available for game start", "code", code, "err", err)
		abortWithError(ctx, ErrNoArticles)
		return
	}

	body := h.content.ArticleContent(ctx.Request.Context(), article.URL)

	quiz, err := h.quizzes.GenerateQuiz(ctx.Request.Context(), article.Title, body)
	if err != nil {
		h.registry.ClearLoading(code)
		h.logger.Warn("quiz generation failed", "code", code, "err", err)
		abortWithError(ctx, ErrQuizGeneration)
		return
	}

	state, err := h.registry.Start(code, playerID, article, quiz)
	if err != nil {
		h.registry.ClearLoading(code)
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

type guessRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Guess    string `json:"guess" binding:"required"`
}

func (h *Handler) SubmitGuess(ctx *gin.Context) {
	var req guessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}
	code := ctx.Param("code")

	keywords, fullAnswer, err := h.registry.QuizAnswer(code)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	// Grading is slow collaborator I/O, done before the commit lock.
	correct, feedback := h.grader.CheckAnswer(ctx.Request.Context(), req.Guess, keywords, fullAnswer)

	res, err := h.registry.SubmitGuess(code, req.PlayerID, req.Guess, correct)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"correct":       res.Correct,
		"feedback":      feedback,
		"score":         res.Score,
		"current_round": res.CurrentRound,
		"finished":      res.Finished,
	})
}

func (h *Handler) GetQuestion(ctx *gin.Context) {
	q, err := h.registry.PlayerQuestion(ctx.Param("code"), ctx.Query("player_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, q)
}

type nextRoundRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Round    int    `json:"round" binding:"required"`
}

// NextRound recomputes the question view for an explicit round. A round
// past the available questions is a no-op and answers with a null
// question.
func (h *Handler) NextRound(ctx *gin.Context) {
	var req nextRoundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	q, err := h.registry.Question(ctx.Param("code"), req.Round)
	if errors.Is(err, ErrRoundOutOfRange) {
		ctx.JSON(http.StatusOK, gin.H{"question": nil})
		return
	}
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"question": q})
}

func (h *Handler) GetLeaderboard(ctx *gin.Context) {
	board, err := h.registry.Leaderboard(ctx.Param("code"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"leaderboard": board})
}

func (h *Handler) LeaveRoom(ctx *gin.Context) {
	h.registry.Leave(ctx.Param("code"), ctx.Query("player_id"))
	ctx.JSON(http.StatusOK, gin.H{"status": "success"})
}
