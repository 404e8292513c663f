package postgres

import "time"

// ChatMessage is a message in the game chat. Independent of turn sequencing.
type ChatMessage struct {
	ID         string    `gorm:"primaryKey;size:64;not null" json:"id"`
	GameID     string    `gorm:"size:50;not null;index:idx_chat_game" json:"gameId"`
	PlayerID   string    `gorm:"size:64" json:"playerId"`
	PlayerName string    `gorm:"size:50" json:"playerName"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}
