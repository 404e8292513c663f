package redis

import "time"

// RankedEntry is one row of a computed leaderboard page
type RankedEntry struct {
	Rank        int       `json:"rank"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Score       int       `json:"score"`
	LastUpdated time.Time `json:"lastUpdated"`
}
