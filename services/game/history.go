package game

import (
	"context"

	"cothread/models/postgres"

	"gorm.io/gorm"
)

// GetUserHistory returns the finished games the user played in, newest first.
func (s *Service) GetUserHistory(ctx context.Context, userID string) ([]postgres.Game, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	var games []postgres.Game
	err := s.db.WithContext(ctx).
		Joins("JOIN game_players ON game_players.game_id = games.id AND game_players.player_id = ?", userID).
		Where("games.status = ?", postgres.StatusFinished).
		Order("games.created_at DESC").
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("seat") }).
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}
