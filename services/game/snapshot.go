package game

import (
	"encoding/json"

	"cothread/models/postgres"
	redis_models "cothread/models/redis"
)

// BuildSnapshot shapes a persisted game into the read model served to
// clients. CurrentPlayer and Scores surface as JSON null until they exist.
func BuildSnapshot(g *postgres.Game) *redis_models.GameSnapshot {
	snapshot := &redis_models.GameSnapshot{
		ID:                  g.ID,
		CreatedAt:           g.CreatedAt,
		HostID:              g.HostID,
		HostName:            g.HostName,
		Mode:                string(g.Mode),
		Status:              string(g.Status),
		InitialPrompt:       g.InitialPrompt,
		GuidePrompt:         g.GuidePrompt,
		TurnDurationSeconds: g.TurnDurationSeconds,
		MaxTurns:            g.MaxTurns,
		MaxPlayers:          g.MaxPlayers,
		TurnsCount:          g.TurnsCount,
		Players:             make([]redis_models.PlayerRef, 0, len(g.Players)),
	}
	for _, p := range g.Players {
		snapshot.Players = append(snapshot.Players, redis_models.PlayerRef{
			ID:    p.PlayerID,
			Name:  p.Name,
			IsBot: p.IsBot,
		})
	}
	if g.CurrentPlayerID != "" {
		id, name := g.CurrentPlayerID, g.CurrentPlayerName
		snapshot.CurrentPlayerID = &id
		snapshot.CurrentPlayer = &name
	}
	if len(g.Scores) > 0 {
		snapshot.Scores = json.RawMessage(g.Scores)
	}
	return snapshot
}
