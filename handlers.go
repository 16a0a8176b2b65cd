package main

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// sessionView is the JSON shape handed to the frontend. Targets are
// never included while a round is in play; the review diff arrives as
// marks on the evaluated result.
type sessionView struct {
	Variant         string        `json:"variant"`
	Difficulty      string        `json:"difficulty"`
	Phase           string        `json:"phase"`
	RoundNumber     int           `json:"roundNumber"`
	RoundCount      int           `json:"roundCount"`
	TimeRemaining   int           `json:"timeRemaining"`
	CumulativeScore int           `json:"cumulativeScore"`
	Items           []Item        `json:"items,omitempty"`
	Clues           []string      `json:"clues,omitempty"`
	Slots           []string      `json:"slots,omitempty"`
	Pool            []string      `json:"pool,omitempty"`
	TotalCells      int           `json:"totalCells,omitempty"`
	SelectedCells   []int         `json:"selectedCells,omitempty"`
	MemorizeLeft    int           `json:"memorizeLeft,omitempty"`
	MemorizeCells   []int         `json:"memorizeCells,omitempty"`
	LastResult      *RoundResult  `json:"lastResult,omitempty"`
	Results         []RoundResult `json:"results,omitempty"`
	ScoreNotice     string        `json:"scoreNotice,omitempty"`
}

// newGameRequest selects what to play. Both fields are required.
type newGameRequest struct {
	Variant    string `json:"variant"`
	Difficulty string `json:"difficulty"`
}

type placeRequest struct {
	ItemID    string `json:"itemId"`
	SlotIndex int    `json:"slotIndex"`
}

type slotRequest struct {
	SlotIndex int `json:"slotIndex"`
}

type toggleRequest struct {
	Cell int `json:"cell"`
}

// buildView assembles the client-facing state for a session. Caller
// holds at least a read lock.
func (app *App) buildView(session *GameSession) sessionView {
	view := sessionView{
		Variant:         session.Variant,
		Difficulty:      session.Difficulty,
		Phase:           session.Phase,
		RoundNumber:     session.CurrentRound + 1,
		RoundCount:      session.RoundCount,
		TimeRemaining:   session.TimeRemaining,
		CumulativeScore: session.CumulativeScore,
		ScoreNotice:     session.ScoreNotice,
	}

	if session.Phase == PhaseAwaitingInput && session.Variant == VariantOrdering {
		if round, err := app.roundForIndex(session.Difficulty, session.CurrentRound); err == nil {
			view.Items = round.Items
			view.Clues = round.Clues
		}
	}
	// Cloned so the view stays marshalable after the lock is released.
	if session.Board != nil {
		view.Slots = slices.Clone(session.Board.Slots)
		view.Pool = slices.Clone(session.Board.Pool)
	}
	if session.Grid != nil {
		view.TotalCells = session.Grid.TotalCells
		view.SelectedCells = session.Grid.SelectedCells()
		// The target is exposed only during the memorize window.
		if session.Phase == PhaseAwaitingInput && session.MemorizeLeft > 0 {
			view.MemorizeLeft = session.MemorizeLeft
			view.MemorizeCells = session.GridTarget
		}
	}
	if len(session.Results) > 0 && session.Phase != PhaseAwaitingInput {
		view.LastResult = lo.ToPtr(session.Results[len(session.Results)-1])
	}
	if session.Phase == PhaseFinished {
		view.Results = session.Results
	}
	return view
}

// homeHandler describes the service so a fresh frontend can bootstrap.
func (app *App) homeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":         "Vicludo",
		"variants":     []string{VariantOrdering, VariantGrid},
		"difficulties": []string{DifficultyEasy, DifficultyMedium, DifficultyHard},
	})
}

// newGameHandler starts a fresh session for the requested variant and
// difficulty, discarding any session in progress.
func (app *App) newGameHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)

	var req newGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "variant and difficulty are required"})
		return
	}

	app.deleteGameSession(sessionID)

	if c.Query("reset") == "1" {
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session ID: %s", sessionID)
	}

	app.SessionMutex.Lock()
	session, err := app.newSession(req.Variant, req.Difficulty)
	if err != nil {
		app.SessionMutex.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app.GameSessions[sessionID] = session
	app.SessionMutex.Unlock()

	logInfo("New %s game (%s) for session %s: %d rounds", req.Variant, req.Difficulty, sessionID, session.RoundCount)
	app.saveGameSession(sessionID, session)

	app.SessionMutex.RLock()
	view := app.buildView(session)
	app.SessionMutex.RUnlock()
	c.JSON(http.StatusOK, view)
}

// gameStateHandler returns the current session state.
func (app *App) gameStateHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	session, ok := app.getGameSession(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrorNoSession})
		return
	}
	app.SessionMutex.RLock()
	view := app.buildView(session)
	app.SessionMutex.RUnlock()
	c.JSON(http.StatusOK, view)
}

// withLiveSession runs fn against the caller's session under the write
// lock and replies with the refreshed view. fn returning an error maps
// to a conflict response; rule violations never mutate state.
func (app *App) withLiveSession(c *gin.Context, fn func(sessionID string, session *GameSession) error) {
	sessionID := app.getOrCreateSession(c)
	session, ok := app.getGameSession(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrorNoSession})
		return
	}

	app.SessionMutex.Lock()
	err := fn(sessionID, session)
	view := app.buildView(session)
	app.SessionMutex.Unlock()

	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	app.saveGameSession(sessionID, session)
	c.JSON(http.StatusOK, view)
}

// placeHandler applies one drag-drop as an explicit place command.
// Unknown items are absorbed as no-ops; a stray drag event must never
// break the board.
func (app *App) placeHandler(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId and slotIndex are required"})
		return
	}
	app.withLiveSession(c, func(sessionID string, session *GameSession) error {
		if err := requirePhase(session, PhaseAwaitingInput); err != nil {
			return err
		}
		if session.Board == nil {
			return errors.New(ErrorWrongVariant)
		}
		session.Board.PlaceItem(req.ItemID, req.SlotIndex)
		return nil
	})
}

// returnHandler sends a slot's occupant back to the pool.
func (app *App) returnHandler(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slotIndex is required"})
		return
	}
	app.withLiveSession(c, func(sessionID string, session *GameSession) error {
		if err := requirePhase(session, PhaseAwaitingInput); err != nil {
			return err
		}
		if session.Board == nil {
			return errors.New(ErrorWrongVariant)
		}
		session.Board.ReturnToPool(req.SlotIndex)
		return nil
	})
}

// toggleHandler flips one cell of the grid selection.
func (app *App) toggleHandler(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cell is required"})
		return
	}
	app.withLiveSession(c, func(sessionID string, session *GameSession) error {
		if err := requirePhase(session, PhaseAwaitingInput); err != nil {
			return err
		}
		if session.Grid == nil {
			return errors.New(ErrorWrongVariant)
		}
		if session.MemorizeLeft > 0 {
			return errors.New(ErrorMemorizing)
		}
		session.Grid.ToggleCell(req.Cell)
		return nil
	})
}

// submitHandler evaluates the current round.
func (app *App) submitHandler(c *gin.Context) {
	app.withLiveSession(c, func(sessionID string, session *GameSession) error {
		return app.submitSession(session)
	})
}

// nextHandler advances past an evaluated round.
func (app *App) nextHandler(c *gin.Context) {
	app.withLiveSession(c, func(sessionID string, session *GameSession) error {
		return app.advanceSession(session, sessionID)
	})
}

// restartHandler replays the session from round 0.
func (app *App) restartHandler(c *gin.Context) {
	app.withLiveSession(c, func(sessionID string, session *GameSession) error {
		return app.restartSession(session)
	})
}

// exitHandler destroys the session and returns the player to the lobby.
func (app *App) exitHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	app.deleteGameSession(sessionID)
	logInfo("Session %s exited to lobby", sessionID)
	c.JSON(http.StatusOK, gin.H{"status": "exited"})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	app.SessionMutex.RLock()
	liveSessions := len(app.GameSessions)
	app.SessionMutex.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"env":           map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"rounds_loaded": lo.SumBy(lo.Values(app.RoundTables), func(rs []AuthoredRound) int { return len(rs) }),
		"grid_specs":    len(app.GridSpecs),
		"live_sessions": liveSessions,
		"uptime":        formatUptime(uptime),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// requirePhase guards player actions against the session phase.
func requirePhase(session *GameSession, phase string) error {
	if session.Phase == phase {
		return nil
	}
	if session.Phase == PhaseFinished {
		return errors.New(ErrorSessionFinished)
	}
	return errors.New(ErrorNotAwaitingInput)
}
