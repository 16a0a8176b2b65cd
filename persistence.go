package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const sessionDir = "data/sessions"

// saveGameSessionToFile persists a game session to disk
var saveGameSessionToFile = func(sessionID string, session *GameSession) error {
	if sessionID == "" || len(sessionID) < 10 {
		logWarn("Skipping save for invalid session ID: %s", sessionID)
		return nil
	}

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		logWarn("Failed to create sessions directory: %v", err)
		return err
	}

	sessionFile := filepath.Join(sessionDir, sessionID+".json")

	session.LastAccessTime = time.Now()
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		logWarn("Failed to marshal session %s: %v", sessionID, err)
		return err
	}

	if err := os.WriteFile(sessionFile, data, 0644); err != nil {
		logWarn("Failed to write session file %s: %v", sessionFile, err)
		return err
	}
	return nil
}

// loadGameSessionFromFile loads a game session from disk, discarding
// expired or structurally invalid snapshots.
var loadGameSessionFromFile = func(sessionID string, maxAge time.Duration) (*GameSession, error) {
	if sessionID == "" || len(sessionID) < 10 {
		return nil, os.ErrNotExist
	}

	sessionFile := filepath.Join(sessionDir, sessionID+".json")

	info, err := os.Stat(sessionFile)
	if err != nil {
		return nil, err
	}

	fileAge := time.Since(info.ModTime())
	if fileAge > maxAge {
		logInfo("Session file is too old (%v, max: %v), removing: %s", fileAge, maxAge, sessionFile)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}

	data, err := os.ReadFile(sessionFile)
	if err != nil {
		return nil, err
	}

	var session GameSession
	if err := json.Unmarshal(data, &session); err != nil {
		logWarn("Failed to unmarshal session file %s (corrupted), removing: %v", sessionFile, err)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}

	if session.Phase == "" || session.RoundCount <= 0 || session.CurrentRound >= session.RoundCount {
		logWarn("Session file %s has invalid structure (phase: %q, round: %d/%d), removing",
			sessionFile, session.Phase, session.CurrentRound, session.RoundCount)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}

	session.LastAccessTime = time.Now()
	return &session, nil
}

// removeGameSessionFile deletes the on-disk snapshot for a session.
var removeGameSessionFile = func(sessionID string) {
	if sessionID == "" || len(sessionID) < 10 {
		return
	}
	sessionFile := filepath.Join(sessionDir, sessionID+".json")
	if err := os.Remove(sessionFile); err != nil && !os.IsNotExist(err) {
		logWarn("Failed to remove session file %s: %v", sessionFile, err)
	}
}

// cleanupOldSessions removes session files older than specified duration
var cleanupOldSessions = func(maxAge time.Duration) error {
	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logWarn("Failed to read sessions directory: %v", err)
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	removedCount := 0
	errorCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logWarn("Failed to get info for session file %s: %v", entry.Name(), err)
			errorCount++
			continue
		}

		if info.ModTime().Before(cutoff) {
			sessionFile := filepath.Join(sessionDir, entry.Name())
			if err := os.Remove(sessionFile); err != nil {
				logWarn("Failed to remove old session file %s: %v", sessionFile, err)
				errorCount++
			} else {
				removedCount++
			}
		}
	}

	logInfo("Session cleanup completed: removed %d files, %d errors", removedCount, errorCount)
	return nil
}
