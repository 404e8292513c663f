package game

import "errors"

// API-facing error taxonomy. Messages surface verbatim in error envelopes,
// so they keep the wording clients already match on.
var (
	ErrGameNotFound       = errors.New("Game not found")
	ErrGameFull           = errors.New("Game is full")
	ErrGameFinished       = errors.New("Game is finished")
	ErrAlreadyStarted     = errors.New("Game already started")
	ErrNotHost            = errors.New("Only the host can start the game")
	ErrEmptyText          = errors.New("Text is required")
	ErrMissingPlayer      = errors.New("Player id is required")
	ErrMissingUserID      = errors.New("User id is required")
	ErrUnknownMode        = errors.New("Unknown game mode")
	ErrUnknownLeaderboard = errors.New("Unknown leaderboard type")
)
