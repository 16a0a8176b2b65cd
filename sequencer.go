package main

import (
	"errors"
	"time"
)

// Sequencer operations. The App owns the session map; every function in
// this file expects the caller to hold app.SessionMutex for writing, so
// the session itself needs no lock of its own.

// newSession creates a GameSession at round 0 of the requested variant
// and difficulty.
func (app *App) newSession(variant, difficulty string) (*GameSession, error) {
	if variant != VariantOrdering && variant != VariantGrid {
		return nil, errors.New(ErrorUnknownVariant)
	}
	if !isKnownDifficulty(difficulty) {
		return nil, errors.New(ErrorUnknownTier)
	}
	roundCount, err := app.roundCountFor(variant, difficulty)
	if err != nil {
		return nil, err
	}
	session := &GameSession{
		Variant:        variant,
		Difficulty:     difficulty,
		RoundCount:     roundCount,
		CurrentRound:   0,
		Results:        []RoundResult{},
		LastAccessTime: time.Now(),
	}
	if err := app.startRound(session); err != nil {
		return nil, err
	}
	return session, nil
}

// startRound arms the workspace and clock for the session's current
// round and enters AwaitingInput.
func (app *App) startRound(session *GameSession) error {
	round, err := app.armRound(session)
	if err != nil {
		return err
	}
	switch session.Variant {
	case VariantGrid:
		session.Board = nil
		session.Grid = newGridBoard(round)
		session.MemorizeLeft = app.GridSpecs[session.Difficulty].MemorizeSeconds
	default:
		session.Grid = nil
		session.GridTarget = nil
		session.MemorizeLeft = 0
		session.Board = newBoard(round)
	}
	session.TimeRemaining = round.TimeLimitSeconds
	session.EvaluatedFor = 0
	session.Phase = PhaseAwaitingInput
	return nil
}

// armRound fetches (ordering) or samples (grid) the current round. A
// grid round's sampled target is pinned on the session so evaluation
// and review see the same cells.
func (app *App) armRound(session *GameSession) (Round, error) {
	if session.Variant == VariantGrid {
		round, err := app.gridRound(session.Difficulty)
		if err != nil {
			return Round{}, err
		}
		session.GridTarget = round.TargetCells
		return round, nil
	}
	return app.roundForIndex(session.Difficulty, session.CurrentRound)
}

// currentRound reconstructs the Round the session is playing, using the
// pinned grid target for the grid variant.
func (app *App) currentRound(session *GameSession) (Round, error) {
	if session.Variant == VariantGrid {
		spec, ok := app.GridSpecs[session.Difficulty]
		if !ok {
			return Round{}, errors.New(ErrorUnknownTier)
		}
		return Round{
			Variant:          VariantGrid,
			TotalCells:       spec.TotalCells,
			TargetCellCount:  spec.TargetCellCount,
			TargetCells:      session.GridTarget,
			TimeLimitSeconds: spec.TimeLimitSeconds,
		}, nil
	}
	return app.roundForIndex(session.Difficulty, session.CurrentRound)
}

// submitSession evaluates the current round off a player submit. An
// ordering board must be complete; a partially filled board can never
// be judged, so the submit is rejected instead of scored.
func (app *App) submitSession(session *GameSession) error {
	if session.Phase != PhaseAwaitingInput {
		if session.Phase == PhaseFinished {
			return errors.New(ErrorSessionFinished)
		}
		return errors.New(ErrorNotAwaitingInput)
	}
	if session.Variant == VariantOrdering && !session.Board.IsComplete() {
		return errors.New(ErrorBoardIncomplete)
	}
	if session.Variant == VariantGrid && session.MemorizeLeft > 0 {
		return errors.New(ErrorMemorizing)
	}
	return app.evaluateSession(session, false)
}

// evaluateSession runs the evaluator, appends the result to the ledger,
// and enters Evaluated. Results are append-only; nothing mutates them
// after creation.
func (app *App) evaluateSession(session *GameSession, timedOut bool) error {
	round, err := app.currentRound(session)
	if err != nil {
		return err
	}
	result := evaluateRound(round, session, session.CurrentRound, timedOut)
	session.Results = append(session.Results, result)
	session.CumulativeScore += result.ScoreDelta
	session.EvaluatedFor = 0
	session.Phase = PhaseEvaluated
	logInfo("Round %d/%d evaluated: correct=%v score+=%d (timedOut=%v)",
		session.CurrentRound+1, session.RoundCount, result.Correct, result.ScoreDelta, timedOut)
	return nil
}

// advanceSession leaves Evaluated: either re-arms the next round or, if
// the ledger holds a result for every round, terminates into Finished
// and kicks off score submission.
func (app *App) advanceSession(session *GameSession, sessionID string) error {
	if session.Phase != PhaseEvaluated {
		return errors.New(ErrorNotEvaluated)
	}
	session.Phase = PhaseAdvancing
	if session.CurrentRound+1 < session.RoundCount {
		session.CurrentRound++
		return app.startRound(session)
	}
	session.Board = nil
	session.Grid = nil
	session.GridTarget = nil
	session.Phase = PhaseFinished
	logInfo("Session finished: %d rounds, final score %d", session.RoundCount, session.CumulativeScore)
	app.submitFinalScore(session, sessionID)
	return nil
}

// restartSession wipes the ledger and score and re-enters round 0.
func (app *App) restartSession(session *GameSession) error {
	if session.Phase != PhaseFinished {
		return errors.New(ErrorNotFinished)
	}
	session.CurrentRound = 0
	session.CumulativeScore = 0
	session.Results = []RoundResult{}
	session.ScoreNotice = ""
	session.ScoreSubmitted = false
	return app.startRound(session)
}

// tickSession advances the session clock by one second. The countdown
// only runs in AwaitingInput and fires the forced-submit transition
// exactly once at zero; in Evaluated the same tick ages the review
// screen toward auto-advance. All other phases ignore ticks.
func (app *App) tickSession(session *GameSession, sessionID string) {
	switch session.Phase {
	case PhaseAwaitingInput:
		// Grid rounds burn the memorize window before the recall
		// countdown starts; the target stays visible until it hits 0.
		if session.MemorizeLeft > 0 {
			session.MemorizeLeft--
			return
		}
		if session.TimeRemaining <= 0 {
			return
		}
		session.TimeRemaining--
		if session.TimeRemaining == 0 {
			session.Phase = PhaseTimeExpired
			if err := app.evaluateSession(session, true); err != nil {
				logWarn("Forced evaluation failed: %v", err)
			}
		}
	case PhaseEvaluated:
		session.EvaluatedFor++
		if app.DisplayDelay > 0 && session.EvaluatedFor >= app.DisplayDelay {
			if err := app.advanceSession(session, sessionID); err != nil {
				logWarn("Auto-advance failed: %v", err)
			}
		}
	}
}
