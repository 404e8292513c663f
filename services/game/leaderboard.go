package game

import (
	"context"
	"log"
	"time"

	"cothread/models/postgres"
	redis_models "cothread/models/redis"
	"cothread/services/ai"

	"gorm.io/gorm"
)

const leaderboardPageSize = 100

// Leaderboard types accepted by GetLeaderboard
const (
	LeaderboardGlobal    = "global"
	LeaderboardWeekly    = "weekly"
	LeaderboardFriends   = "friends"
	LeaderboardRapidfire = "rapidfire"
)

// GetLeaderboard answers a ranked leaderboard page. Global, weekly and
// rapidfire pages are cached briefly; friends pages depend on the caller and
// always hit Postgres.
func (s *Service) GetLeaderboard(ctx context.Context, lbType, userID string) ([]redis_models.RankedEntry, error) {
	switch lbType {
	case LeaderboardGlobal, LeaderboardWeekly, LeaderboardRapidfire:
	case LeaderboardFriends:
		if userID == "" {
			return nil, ErrMissingUserID
		}
	default:
		return nil, ErrUnknownLeaderboard
	}

	cacheable := lbType != LeaderboardFriends
	if cacheable && s.cache != nil {
		entries, err := s.cache.GetLeaderboard(lbType)
		if err != nil {
			log.Printf("[REDIS] leaderboard read failed for %s: %v", lbType, err)
		} else if entries != nil {
			return entries, nil
		}
	}

	query := s.db.WithContext(ctx).Model(&postgres.LeaderboardEntry{})
	scoreOf := func(e postgres.LeaderboardEntry) int { return e.TopScore }

	switch lbType {
	case LeaderboardGlobal:
		query = query.Order("top_score DESC")
	case LeaderboardWeekly:
		cutoff := time.Now().AddDate(0, 0, -7)
		query = query.Where("last_updated > ?", cutoff).Order("top_score DESC")
	case LeaderboardRapidfire:
		query = query.Where("top_rapid_score > 0").Order("top_rapid_score DESC")
		scoreOf = func(e postgres.LeaderboardEntry) int { return e.TopRapidScore }
	case LeaderboardFriends:
		ids, err := s.friendIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		query = query.Where("user_id IN (?)", ids).Order("top_score DESC")
	}

	var rows []postgres.LeaderboardEntry
	if err := query.Limit(leaderboardPageSize).Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]redis_models.RankedEntry, len(rows))
	for i, row := range rows {
		entries[i] = redis_models.RankedEntry{
			Rank:        i + 1,
			UserID:      row.UserID,
			Username:    row.Username,
			Score:       scoreOf(row),
			LastUpdated: row.LastUpdated,
		}
	}

	if cacheable && s.cache != nil {
		if err := s.cache.SaveLeaderboard(lbType, entries, leaderboardTTL); err != nil {
			log.Printf("[REDIS] leaderboard write failed for %s: %v", lbType, err)
		}
	}
	return entries, nil
}

// friendIDs resolves the social filter: the user plus everyone linked to them
// in the friendships table, whichever side they sit on.
func (s *Service) friendIDs(ctx context.Context, userID string) ([]string, error) {
	var friendships []postgres.Friendship
	err := s.db.WithContext(ctx).
		Where("user_id1 = ? OR user_id2 = ?", userID, userID).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	ids := []string{userID}
	for _, f := range friendships {
		if f.UserID1 == userID {
			ids = append(ids, f.UserID2)
		} else {
			ids = append(ids, f.UserID1)
		}
	}
	return ids, nil
}

// updateLeaderboard upserts each human participant's entry when a finished
// game beats their stored top score. Runs inside the finishing transaction.
func updateLeaderboard(tx *gorm.DB, game *postgres.Game, players []*postgres.GamePlayer, report *ai.ScoreReport) error {
	now := time.Now().UTC()
	for _, p := range players {
		if p.IsBot {
			continue
		}
		score, ok := report.Players[p.Name]
		if !ok {
			continue
		}

		var entry postgres.LeaderboardEntry
		err := tx.Where("user_id = ?", p.PlayerID).First(&entry).Error
		if err == gorm.ErrRecordNotFound {
			entry = postgres.LeaderboardEntry{
				UserID:      p.PlayerID,
				Username:    p.Name,
				LastUpdated: now,
			}
			if game.Mode == postgres.ModeRapid {
				entry.TopRapidScore = score.Total
			} else {
				entry.TopScore = score.Total
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		improved := false
		if game.Mode == postgres.ModeRapid {
			if score.Total > entry.TopRapidScore {
				entry.TopRapidScore = score.Total
				improved = true
			}
		} else if score.Total > entry.TopScore {
			entry.TopScore = score.Total
			improved = true
		}
		if improved {
			entry.Username = p.Name
			entry.LastUpdated = now
			if err := tx.Save(&entry).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
