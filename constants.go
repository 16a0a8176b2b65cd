package main

// Game variant identifiers
const (
	VariantOrdering = "ordering"
	VariantGrid     = "grid"
)

// Difficulty tiers
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Session phase constants
const (
	PhaseAwaitingInput = "awaiting_input"
	PhaseTimeExpired   = "time_expired"
	PhaseEvaluated     = "evaluated"
	PhaseAdvancing     = "advancing"
	PhaseFinished      = "finished"
)

// Per-position mark constants for the post-round diff
const (
	MarkCorrect = "correct"
	MarkWrong   = "wrong"
	MarkMissed  = "missed"
	MarkNeutral = "neutral"
)

// CorrectRoundBonus is the score awarded for a fully correct round.
const CorrectRoundBonus = 10

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome      = "/"
	RouteNewGame   = "/new-game"
	RouteGameState = "/game-state"
	RoutePlace     = "/place"
	RouteReturn    = "/return"
	RouteToggle    = "/toggle"
	RouteSubmit    = "/submit"
	RouteNext      = "/next"
	RouteRestart   = "/restart"
	RouteExit      = "/exit"
)

// Error message constants
const (
	ErrorNoSession        = "No active game session."
	ErrorSessionFinished  = "Session is finished. Restart or exit."
	ErrorNotAwaitingInput = "Round is not accepting input."
	ErrorNotEvaluated     = "No evaluated round to advance from."
	ErrorNotFinished      = "Session is not finished yet."
	ErrorBoardIncomplete  = "All slots must be filled before submitting."
	ErrorMemorizing       = "Memorize the pattern first."
	ErrorWrongVariant     = "Operation does not apply to this game variant."
	ErrorUnknownVariant   = "Unknown game variant."
	ErrorUnknownTier      = "Unknown difficulty tier."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

type contextKey string
