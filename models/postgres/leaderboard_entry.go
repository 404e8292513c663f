package postgres

import "time"

/*
 * 'LeaderboardEntry' is the materialized best result per user. It is upserted
 * whenever a game finishes with a higher score than the stored one.
 */
type LeaderboardEntry struct {
	UserID        string    `gorm:"primaryKey;size:64;not null" json:"userId"`
	Username      string    `gorm:"size:50;not null" json:"username"`
	TopScore      int       `gorm:"default:0;index:idx_leaderboard_top" json:"topScore"`
	TopRapidScore int       `gorm:"default:0" json:"topRapidScore"`
	LastUpdated   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"lastUpdated"`
}
