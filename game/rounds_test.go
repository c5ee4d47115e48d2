package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(testLogger())
	created, hostID, err := reg.CreateRoom("alice")
	require.NoError(t, err)
	_, _, err = reg.Join(created.Code, "bob")
	require.NoError(t, err)

	state, err := reg.Start(created.Code, hostID, testArticle(), testQuiz(3, 6))
	require.NoError(t, err)

	assert.Equal(t, StatusPlaying, state.Status)
	require.NotNil(t, state.Article)
	assert.Equal(t, testArticle().Title, state.Article.Title)
	assert.Empty(t, state.LoadingMessage)
	for _, p := range state.Players {
		assert.Equal(t, 1, p.CurrentRound)
	}
}

func TestStart_Rejections(t *testing.T) {
	t.Parallel()

	t.Run("unknown room", func(t *testing.T) {
		t.Parallel()
		reg := NewRegistry(testLogger())
		_, err := reg.Start("NOSUCH", "whoever", testArticle(), testQuiz(3, 6))
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("non-host", func(t *testing.T) {
		t.Parallel()
		reg := NewRegistry(testLogger())
		created, _, err := reg.CreateRoom("alice")
		require.NoError(t, err)
		_, bobID, err := reg.Join(created.Code, "bob")
		require.NoError(t, err)

		_, err = reg.Start(created.Code, bobID, testArticle(), testQuiz(3, 6))
		assert.ErrorIs(t, err, ErrNotHost)

		state, err := reg.Room(created.Code)
		require.NoError(t, err)
		assert.Equal(t, StatusWaiting, state.Status)
	})

	t.Run("already started", func(t *testing.T) {
		t.Parallel()
		reg := NewRegistry(testLogger())
		created, hostID, err := reg.CreateRoom("alice")
		require.NoError(t, err)
		_, err = reg.Start(created.Code, hostID, testArticle(), testQuiz(3, 6))
		require.NoError(t, err)

		_, err = reg.Start(created.Code, hostID, testArticle(), testQuiz(3, 6))
		assert.ErrorIs(t, err, ErrGameStarted)
	})
}

func TestLoadingFlag(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(testLogger())
	created, hostID, err := reg.CreateRoom("alice")
	require.NoError(t, err)
	_, bobID, err := reg.Join(created.Code, "bob")
	require.NoError(t, err)

	err = reg.BeginLoading(created.Code, bobID, "working")
	assert.ErrorIs(t, err, ErrNotHost)

	require.NoError(t, reg.BeginLoading(created.Code, hostID, "working"))
	state, err := reg.Room(created.Code)
	require.NoError(t, err)
	assert.Equal(t, "working", state.LoadingMessage)

	reg.ClearLoading(created.Code)
	state, err = reg.Room(created.Code)
	require.NoError(t, err)
	assert.Empty(t, state.LoadingMessage)
	assert.Equal(t, StatusWaiting, state.Status, "clearing the flag never commits anything")
}

func TestHintWindow(t *testing.T) {
	t.Parallel()

	hints := func(n int) []string {
		return testQuiz(3, n).Hints
	}

	testCases := []struct {
		name      string
		hints     []string
		round     int
		maxRounds int
		expected  []string
	}{
		{
			name:  "six hints over five rounds, round one",
			hints: hints(6), round: 1, maxRounds: 5,
			expected: []string{"hint 1"},
		},
		{
			name:  "six hints over five rounds, round five",
			hints: hints(6), round: 5, maxRounds: 5,
			expected: []string{"hint 5"},
		},
		{
			name:  "twelve hints over five rounds, round two",
			hints: hints(12), round: 2, maxRounds: 5,
			expected: []string{"hint 3", "hint 4"},
		},
		{
			name:  "leftover hints past the last window stay unused",
			hints: hints(12), round: 5, maxRounds: 5,
			expected: []string{"hint 9", "hint 10"},
		},
		{
			name:  "fewer hints than rounds, late round gets nothing",
			hints: hints(3), round: 4, maxRounds: 5,
			expected: []string{},
		},
		{
			name:  "final window clamps to pool size",
			hints: hints(7), round: 5, maxRounds: 5,
			expected: []string{"hint 5", "hint 6", "hint 7"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, hintWindow(tc.hints, tc.round, tc.maxRounds))
		})
	}
}

func TestQuestion(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(testLogger())
	created, hostID, err := reg.CreateRoom("alice")
	require.NoError(t, err)
	_, err = reg.Start(created.Code, hostID, testArticle(), testQuiz(3, 6))
	require.NoError(t, err)

	q, err := reg.Question(created.Code, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Round)
	assert.Equal(t, "question 2", q.Text)
	assert.Equal(t, 2, q.Difficulty, "difficulty equals round number")
	assert.Equal(t, testArticle().Title, q.ArticleTitle)
	assert.Equal(t, testArticle().URL, q.ArticleURL)
	assert.Equal(t, []string{"hint 2"}, q.Hints)
	assert.Equal(t, []string{"fusion", "energy", "reactor"}, q.AnswerKeywords)
}

func TestQuestion_Errors(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(testLogger())
	created, hostID, err := reg.CreateRoom("alice")
	require.NoError(t, err)

	_, err = reg.Question(created.Code, 1)
	assert.ErrorIs(t, err, ErrGameNotStarted)

	_, err = reg.Start(created.Code, hostID, testArticle(), testQuiz(3, 6))
	require.NoError(t, err)

	_, err = reg.Question(created.Code, 0)
	assert.ErrorIs(t, err, ErrRoundOutOfRange)
	_, err = reg.Question(created.Code, 4)
	assert.ErrorIs(t, err, ErrRoundOutOfRange, "only three questions exist")
}

// Two players on different rounds each see their own question; asking
// for one never disturbs the other.
func TestPlayerQuestion_IndependentRounds(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(testLogger())
	created, hostID, err := reg.CreateRoom("alice")
	require.NoError(t, err)
	_, bobID, err := reg.Join(created.Code, "bob")
	require.NoError(t, err)
	_, err = reg.Start(created.Code, hostID, testArticle(), testQuiz(3, 6))
	require.NoError(t, err)

	_, err = reg.SubmitGuess(created.Code, bobID, "fusion energy", true)
	require.NoError(t, err)

	bobQ, err := reg.PlayerQuestion(created.Code, bobID)
	require.NoError(t, err)
	assert.Equal(t, 2, bobQ.Round)

	hostQ, err := reg.PlayerQuestion(created.Code, hostID)
	require.NoError(t, err)
	assert.Equal(t, 1, hostQ.Round, "host still sees round one")

	bobAgain, err := reg.PlayerQuestion(created.Code, bobID)
	require.NoError(t, err)
	assert.Equal(t, bobQ, bobAgain)
}

func TestQuizAnswer(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(testLogger())
	created, hostID, err := reg.CreateRoom("alice")
	require.NoError(t, err)

	_, _, err = reg.QuizAnswer(created.Code)
	assert.ErrorIs(t, err, ErrGameNotStarted)

	_, err = reg.Start(created.Code, hostID, testArticle(), testQuiz(3, 6))
	require.NoError(t, err)

	keywords, fullAnswer, err := reg.QuizAnswer(created.Code)
	require.NoError(t, err)
	assert.Equal(t, []string{"fusion", "energy", "reactor"}, keywords)
	assert.Equal(t, "A breakthrough in fusion energy", fullAnswer)
}
