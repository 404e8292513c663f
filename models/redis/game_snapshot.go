package redis

import (
	"encoding/json"
	"time"
)

// PlayerRef identifies a seated player in a snapshot
type PlayerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsBot bool   `json:"isBot,omitempty"`
}

/*
 * 'GameSnapshot' is the read model served to polling clients. It mirrors the
 * persisted Game; Redis holds it briefly so state polls do not hammer Postgres.
 */
type GameSnapshot struct {
	ID                  string          `json:"id"`
	CreatedAt           time.Time       `json:"createdAt"`
	HostID              string          `json:"hostId"`
	HostName            string          `json:"hostName"`
	Mode                string          `json:"mode"`
	Status              string          `json:"status"`
	InitialPrompt       string          `json:"initialPrompt"`
	GuidePrompt         string          `json:"guidePrompt"`
	CurrentPlayerID     *string         `json:"currentPlayerId"`
	CurrentPlayer       *string         `json:"currentPlayer"`
	TurnDurationSeconds int             `json:"turnDurationSeconds"`
	MaxTurns            int             `json:"maxTurns"`
	MaxPlayers          int             `json:"maxPlayers"`
	TurnsCount          int             `json:"turnsCount"`
	Players             []PlayerRef     `json:"players"`
	Scores              json.RawMessage `json:"scores"`
}
