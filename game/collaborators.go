package game

import (
	"context"
	"errors"
)

// Collaborator interfaces are defined here, by their consumer. The
// handlers call them with all blocking I/O done before any room lock is
// taken.

// ContentProvider supplies articles to build quizzes from.
type ContentProvider interface {
	// RandomArticle picks any live article, or ErrNoArticles.
	RandomArticle(ctx context.Context) (Article, error)
	// ArticleContent fetches article body text; empty on failure.
	ArticleContent(ctx context.Context, url string) string
}

// QuizGenerator turns an article into quiz data.
type QuizGenerator interface {
	// GenerateQuiz returns a complete quiz or ErrQuizGeneration; it must
	// never return a partially filled quiz alongside a nil error.
	GenerateQuiz(ctx context.Context, title, content string) (QuizData, error)
}

// AnswerGrader judges a free-text guess against the quiz answer. The
// core never re-derives correctness itself.
type AnswerGrader interface {
	CheckAnswer(ctx context.Context, guess string, keywords []string, fullAnswer string) (correct bool, feedback string)
}

var (
	ErrNoArticles     = errors.New("no-articles-available")
	ErrQuizGeneration = errors.New("quiz-generation-failed")
)
