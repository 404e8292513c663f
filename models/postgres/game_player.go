package postgres

import "time"

/*
 * 'GamePlayer' is a seat in a game. The composite primary key keeps a player
 * from being seated twice in the same game.
 */
type GamePlayer struct {
	GameID   string    `gorm:"primaryKey;size:50;not null" json:"-"`
	PlayerID string    `gorm:"primaryKey;size:64;not null" json:"id"`
	Name     string    `gorm:"size:50;not null" json:"name"`
	Seat     int       `gorm:"not null" json:"seat"`
	IsBot    bool      `gorm:"default:false" json:"isBot"`
	JoinedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"joinedAt"`
}
