package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getGameSession fetches the live GameSession for a session ID, falling
// back to the on-disk snapshot for sessions that survived a restart.
func (app *App) getGameSession(sessionID string) (*GameSession, bool) {
	app.SessionMutex.RLock()
	session, exists := app.GameSessions[sessionID]
	app.SessionMutex.RUnlock()
	if exists {
		app.SessionMutex.Lock()
		session.LastAccessTime = time.Now()
		app.SessionMutex.Unlock()
		return session, true
	}

	loaded, err := loadGameSessionFromFile(sessionID, app.SessionTimeout)
	if err != nil {
		return nil, false
	}
	logInfo("Restored session %s from disk (phase %s, round %d)", sessionID, loaded.Phase, loaded.CurrentRound)
	app.SessionMutex.Lock()
	app.GameSessions[sessionID] = loaded
	app.SessionMutex.Unlock()
	return loaded, true
}

// saveGameSession registers the session, stamps its access time, and
// persists it. The copy handed to the file writer is taken under the
// lock so marshaling cannot race the clock goroutine or another
// handler mutating the live session.
func (app *App) saveGameSession(sessionID string, session *GameSession) {
	app.SessionMutex.Lock()
	app.GameSessions[sessionID] = session
	session.LastAccessTime = time.Now()
	snapshot := session.snapshot()
	app.SessionMutex.Unlock()
	if err := saveGameSessionToFile(sessionID, snapshot); err != nil {
		logWarn("Failed to persist session %s: %v", sessionID, err)
	}
}

// deleteGameSession removes a session from memory and disk.
func (app *App) deleteGameSession(sessionID string) {
	app.SessionMutex.Lock()
	delete(app.GameSessions, sessionID)
	app.SessionMutex.Unlock()
	removeGameSessionFile(sessionID)
}
