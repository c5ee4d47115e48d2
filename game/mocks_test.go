package game

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- codeGenerator ---

// scriptedGen hands out room codes from a fixed list and unique filler
// for player ids, so tests can force collisions.
type scriptedGen struct {
	roomCodes []string
	roomIdx   int
	playerSeq int
}

func (g *scriptedGen) Generate(length int) string {
	if length == RoomCodeLength && g.roomIdx < len(g.roomCodes) {
		code := g.roomCodes[g.roomIdx]
		g.roomIdx++
		return code
	}
	g.playerSeq++
	return fmt.Sprintf("%0*d", length, g.playerSeq)
}

// --- fixtures ---

func testArticle() Article {
	return Article{
		Title:  "Breakthrough in fusion energy announced",
		URL:    "https://news.example.com/fusion",
		Source: "Example News",
	}
}

func testQuiz(questions, hints int) QuizData {
	quiz := QuizData{
		Title:          "Fusion breakthrough",
		AnswerKeywords: []string{"fusion", "energy", "reactor"},
		FullAnswer:     "A breakthrough in fusion energy",
	}
	for i := 1; i <= questions; i++ {
		quiz.Questions = append(quiz.Questions, QuizQuestion{
			ID:         i,
			Text:       fmt.Sprintf("question %d", i),
			Difficulty: i,
		})
	}
	for i := 1; i <= hints; i++ {
		quiz.Hints = append(quiz.Hints, fmt.Sprintf("hint %d", i))
	}
	return quiz
}

// --- ContentProvider ---

type MockContentProvider struct {
	mock.Mock
}

func (m *MockContentProvider) RandomArticle(ctx context.Context) (Article, error) {
	args := m.Called(ctx)
	return args.Get(0).(Article), args.Error(1)
}

func (m *MockContentProvider) ArticleContent(ctx context.Context, url string) string {
	args := m.Called(ctx, url)
	return args.String(0)
}

// --- QuizGenerator ---

type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) GenerateQuiz(ctx context.Context, title, content string) (QuizData, error) {
	args := m.Called(ctx, title, content)
	return args.Get(0).(QuizData), args.Error(1)
}

// --- AnswerGrader ---

type MockAnswerGrader struct {
	mock.Mock
}

func (m *MockAnswerGrader) CheckAnswer(ctx context.Context, guess string, keywords []string, fullAnswer string) (bool, string) {
	args := m.Called(ctx, guess, keywords, fullAnswer)
	return args.Bool(0), args.String(1)
}
