package postgres

import "time"

/*
 * 'Turn' is one story contribution. Turns are append-only: they are never
 * updated or deleted once created.
 */
type Turn struct {
	ID         string    `gorm:"primaryKey;size:64;not null" json:"id"`
	GameID     string    `gorm:"size:50;not null;index:idx_turns_game;uniqueIndex:idx_turns_game_order" json:"gameId"`
	Order      int       `gorm:"column:turn_order;not null;uniqueIndex:idx_turns_game_order" json:"order"`
	PlayerID   string    `gorm:"size:64" json:"playerId"`
	PlayerName string    `gorm:"size:50" json:"playerName"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	// The guiding prompt the player was answering to when writing this turn
	GuidePrompt string    `gorm:"type:text" json:"guidePrompt"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}
