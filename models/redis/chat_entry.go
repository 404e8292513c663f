package redis

import "time"

// ChatEntry represents a cached message in the game chat
type ChatEntry struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
