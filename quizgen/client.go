// Package quizgen generates quizzes and grades guesses with a local
// Ollama model, degrading to deterministic fallbacks when the model is
// unreachable so a running game never depends on it.
package quizgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/toto789520/atugame/game"
)

const (
	generateTimeout = 180 * time.Second
	gradeTimeout    = 30 * time.Second
	probeTimeout    = 5 * time.Second

	promptContentLen = 800
)

type Client struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, model string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
		logger:  logger,
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format"`
	Options map[string]any `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// GenerateQuiz asks the model for a three-question quiz about the
// article. Model failures fall back to a generic quiz built from the
// title; only context cancellation is surfaced as an error.
func (c *Client) GenerateQuiz(ctx context.Context, title, content string) (game.QuizData, error) {
	prompt := buildQuizPrompt(title, content)

	raw, err := c.generate(ctx, generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Format: "json",
		Options: map[string]any{
			"temperature": 0.8,
			"num_predict": 600,
			"num_ctx":     2048,
			"top_p":       0.9,
		},
	}, generateTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return game.QuizData{}, fmt.Errorf("%w: %w", game.ErrQuizGeneration, ctx.Err())
		}
		c.logger.Warn("quiz generation fell back", "err", err)
		return fallbackQuiz(title), nil
	}

	quiz, err := parseQuiz(raw)
	if err != nil {
		c.logger.Warn("quiz response unusable, falling back", "err", err)
		return fallbackQuiz(title), nil
	}
	return quiz, nil
}

func parseQuiz(raw string) (game.QuizData, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return game.QuizData{}, err
	}
	var quiz game.QuizData
	if err := json.Unmarshal([]byte(payload), &quiz); err != nil {
		return game.QuizData{}, err
	}
	if len(quiz.Questions) == 0 || quiz.FullAnswer == "" {
		return game.QuizData{}, fmt.Errorf("incomplete quiz")
	}
	for i := range quiz.Questions {
		quiz.Questions[i].ID = i + 1
		quiz.Questions[i].Difficulty = i + 1
	}
	return quiz, nil
}

// extractJSON tolerates prose around the model's JSON object.
func extractJSON(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if json.Valid([]byte(raw)) {
		return raw, nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object in model output")
	}
	return raw[start : end+1], nil
}

func buildQuizPrompt(title, content string) string {
	runes := []rune(content)
	if len(runes) > promptContentLen {
		content = string(runes[:promptContentLen])
	}
	return fmt.Sprintf(`You are a quiz show host. Players must guess what a news article is about.

ARTICLE TO GUESS:
Title: %s
Content: %s

INSTRUCTIONS:
1. Write 3 questions that hint at the article's subject
2. Questions must be of PROGRESSIVE difficulty (easy -> medium -> hard)
3. NEVER quote the article title in the questions
4. Hints should make players think without giving the answer away
5. Players must guess WHAT the article is about (a person, event, discovery, policy decision, etc.)

Strict rules:
- All 3 questions relate to the same subject
- Hint 1 is vague (sector/general), hint 2 more precise, hint 3 very precise
- Answer ONLY with valid JSON in this shape:
{"title": "...", "questions": [{"id": 1, "text": "...", "difficulty": 1}], "hints": ["..."], "answer_keywords": ["..."], "full_answer": "..."}

Generate the JSON for this article now:`, title, content)
}

func fallbackQuiz(title string) game.QuizData {
	keywords := strings.Fields(strings.ToLower(title))
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}
	return game.QuizData{
		Title: "News article",
		Questions: []game.QuizQuestion{
			{ID: 1, Text: "What field or general subject does this article cover?", Difficulty: 1},
			{ID: 2, Text: "What specific event or decision is mentioned?", Difficulty: 2},
			{ID: 3, Text: "Which person, organization or country is it mainly about?", Difficulty: 3},
		},
		Hints: []string{
			"This article covers a recent news story",
			"The subject involves an important event or decision",
			"Political, economic or social actors are involved",
		},
		AnswerKeywords: keywords,
		FullAnswer:     title,
	}
}

type gradeResponse struct {
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback"`
}

// CheckAnswer grades a guess with the model, falling back to keyword
// matching when the model is down or answers garbage.
func (c *Client) CheckAnswer(ctx context.Context, guess string, keywords []string, fullAnswer string) (bool, string) {
	prompt := fmt.Sprintf(`You are an answer checker for a guessing game.

EXPECTED SUBJECT: %s
KEYWORDS: %s
PLAYER'S GUESS: %s

Judge whether the guess matches the expected subject. Be tolerant of
spelling mistakes, synonyms, different phrasings and partially correct
answers. If the player names the right subject, even missing details,
it is CORRECT.

Answer EXACTLY with this JSON:
{"correct": true or false, "feedback": "short explanation"}`,
		fullAnswer, strings.Join(keywords, ", "), guess)

	raw, err := c.generate(ctx, generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Format: "json",
		Options: map[string]any{
			"temperature": 0.3,
			"num_predict": 100,
		},
	}, gradeTimeout)
	if err == nil {
		var graded gradeResponse
		if jsonErr := json.Unmarshal([]byte(raw), &graded); jsonErr == nil && graded.Feedback != "" {
			return graded.Correct, graded.Feedback
		}
	}

	return gradeByKeywords(guess, keywords, fullAnswer)
}

// gradeByKeywords is the deterministic fallback grader.
func gradeByKeywords(guess string, keywords []string, fullAnswer string) (bool, string) {
	guessLower := strings.ToLower(strings.TrimSpace(guess))
	answerLower := strings.ToLower(fullAnswer)

	if guessLower != "" && (strings.Contains(answerLower, guessLower) || strings.Contains(guessLower, answerLower)) {
		return true, "Excellent! You found the exact subject of the article!"
	}

	var matched []string
	for _, k := range keywords {
		if len(k) > 3 && strings.Contains(guessLower, strings.ToLower(k)) {
			matched = append(matched, k)
		}
	}
	switch {
	case len(matched) >= 2:
		return true, fmt.Sprintf("Well done! You identified the key elements: %s", strings.Join(matched, ", "))
	case len(matched) == 1:
		return false, fmt.Sprintf("You are on the right track with %q, but something is missing. Keep going!", matched[0])
	}

	guessWords := map[string]struct{}{}
	for _, w := range strings.Fields(guessLower) {
		guessWords[w] = struct{}{}
	}
	common := 0
	for _, w := range strings.Fields(answerLower) {
		if _, ok := guessWords[w]; ok {
			common++
		}
	}
	if common >= 2 {
		return true, "Good answer! You got the essence of the subject."
	}
	return false, "Not quite. Reread the hints and try again!"
}

// Ready reports whether the Ollama server answers.
func (c *Client) Ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// WaitReady polls Ready once a second up to the given number of
// attempts. It never fails hard: the game works on fallbacks.
func (c *Client) WaitReady(ctx context.Context, attempts int) bool {
	for i := 0; i < attempts; i++ {
		if c.Ready(ctx) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Second):
		}
	}
	return false
}

func (c *Client) generate(ctx context.Context, req generateRequest, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var gen generateResponse
	if err := json.Unmarshal(data, &gen); err != nil {
		return "", err
	}
	return strings.TrimSpace(gen.Response), nil
}
