package utils

import "fmt"

// FormatGameSnapshotKey returns the key for a cached game snapshot
func FormatGameSnapshotKey(gameID string) string {
	return fmt.Sprintf("game:%s:snapshot", gameID)
}

// FormatChatKey returns the key for a game's cached chat backlog
func FormatChatKey(gameID string) string {
	return fmt.Sprintf("game:%s:chat", gameID)
}

// FormatLeaderboardKey returns the key for a cached leaderboard page
func FormatLeaderboardKey(lbType string) string {
	return fmt.Sprintf("leaderboard:%s", lbType)
}
