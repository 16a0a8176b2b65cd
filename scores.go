package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ScoreSubmission is the payload posted to the external scoring
// endpoint. ResultID makes retried submissions idempotent on the
// receiving side.
type ScoreSubmission struct {
	Score      int    `json:"score"`
	GameID     string `json:"gameId"`
	Difficulty string `json:"difficulty"`
	ResultID   string `json:"resultId"`
}

// ScoreClient posts final scores to an external endpoint with a bearer
// token. An empty endpoint disables submission entirely.
type ScoreClient struct {
	Endpoint    string
	Token       string
	MaxAttempts int
	RetryDelay  time.Duration
	HTTPClient  *http.Client
}

func newScoreClient(endpoint, token string) *ScoreClient {
	return &ScoreClient{
		Endpoint:    endpoint,
		Token:       token,
		MaxAttempts: 3,
		RetryDelay:  2 * time.Second,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Submit posts the score, retrying a fixed number of times. At-least-
// once delivery; the ResultID key keeps duplicates harmless.
func (sc *ScoreClient) Submit(sub ScoreSubmission) error {
	if sc.Endpoint == "" {
		logInfo("Score endpoint not configured, skipping submission for result %s", sub.ResultID)
		return nil
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal score submission: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= sc.MaxAttempts; attempt++ {
		lastErr = sc.post(body)
		if lastErr == nil {
			logInfo("Score %d submitted for result %s (attempt %d)", sub.Score, sub.ResultID, attempt)
			return nil
		}
		logWarn("Score submission attempt %d/%d failed: %v", attempt, sc.MaxAttempts, lastErr)
		if attempt < sc.MaxAttempts {
			time.Sleep(sc.RetryDelay)
		}
	}
	return lastErr
}

func (sc *ScoreClient) post(body []byte) error {
	req, err := http.NewRequest(http.MethodPost, sc.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if sc.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sc.Token)
	}
	resp, err := sc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("scoring endpoint returned %s", resp.Status)
	}
	return nil
}

// submitFinalScore fires score submission for a finished session from a
// goroutine. Gameplay never waits on it; a failure only sets a
// dismissible notice on the session.
func (app *App) submitFinalScore(session *GameSession, sessionID string) {
	if session.ScoreSubmitted || len(session.Results) == 0 {
		return
	}
	session.ScoreSubmitted = true
	sub := ScoreSubmission{
		Score:      session.CumulativeScore,
		GameID:     "vicludo-" + session.Variant,
		Difficulty: session.Difficulty,
		ResultID:   session.Results[len(session.Results)-1].ResultID,
	}
	go func() {
		if err := app.Scores.Submit(sub); err != nil {
			logWarn("Final score submission failed for session %s: %v", sessionID, err)
			app.SessionMutex.Lock()
			if s, ok := app.GameSessions[sessionID]; ok {
				s.ScoreNotice = "Score could not be saved. Your local result is unaffected."
			}
			app.SessionMutex.Unlock()
		}
	}()
}
