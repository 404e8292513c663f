package game

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"cothread/models/postgres"
	redis_models "cothread/models/redis"
	"cothread/services/ai"
	redis_utils "cothread/services/redis/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TurnResult is everything a turn submission produces. Scores is non-nil only
// when this submission finished the game.
type TurnResult struct {
	Game   *redis_models.GameSnapshot
	Turn   *postgres.Turn
	Scores *ai.ScoreReport
}

/*
 * SubmitTurn appends a story turn. The whole read-modify-write runs in one
 * transaction with the game row locked, so concurrent submissions for the
 * same game serialize and turn orders stay gapless.
 *
 * In single mode the human turn is followed by a StoryBot turn through the
 * same path, so each submission advances the counter by two unless the human
 * turn itself ends the game. Guide-prompt and scoring generation never fail
 * the submission: the AI guide always resolves to a usable string.
 */
func (s *Service) SubmitTurn(ctx context.Context, gameID, playerName, playerID, text string) (*TurnResult, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil, ErrEmptyText
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, ErrMissingPlayer
	}
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		playerName = "Anonymous"
	}

	result := &TurnResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, players, err := lockGame(tx, gameID)
		if err != nil {
			return err
		}
		if game.Status == postgres.StatusFinished {
			return ErrGameFinished
		}

		// Unknown submitters take a free seat, like any other join
		seated := false
		for _, p := range players {
			if p.PlayerID == playerID {
				seated = true
				break
			}
		}
		if !seated {
			if len(players) >= game.MaxPlayers {
				return ErrGameFull
			}
			seat := postgres.GamePlayer{
				GameID:   game.ID,
				PlayerID: playerID,
				Name:     playerName,
				Seat:     len(players),
			}
			if err := tx.Create(&seat).Error; err != nil {
				return err
			}
			players = append(players, &seat)
		}

		var prior []postgres.Turn
		if err := tx.Where("game_id = ?", gameID).Order("turn_order").Find(&prior).Error; err != nil {
			return err
		}
		story := buildStory(game.InitialPrompt, prior)

		turn := postgres.Turn{
			ID:          uuid.NewString(),
			GameID:      game.ID,
			Order:       game.TurnsCount + 1,
			PlayerID:    playerID,
			PlayerName:  playerName,
			Text:        clean,
			GuidePrompt: game.GuidePrompt,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Create(&turn).Error; err != nil {
			return err
		}
		game.TurnsCount++
		if game.Status == postgres.StatusWaiting {
			game.Status = postgres.StatusActive
		}
		story = story + "\n" + clean
		allTurns := append(prior, turn)
		advanceCurrentPlayer(game, players, playerID)

		finished := game.TurnsCount >= game.MaxTurns
		if !finished {
			game.GuidePrompt = s.guide.GenerateGuidePrompt(ctx, ai.GuideContext{
				StorySoFar:     story,
				LastTurnText:   clean,
				PreviousPrompt: turn.GuidePrompt,
				InitialPrompt:  game.InitialPrompt,
				TurnNumber:     game.TurnsCount + 1,
			})

			if game.Mode == postgres.ModeSingle {
				botText := s.guide.GenerateBotTurn(ctx, story, game.GuidePrompt)
				botTurn := postgres.Turn{
					ID:          uuid.NewString(),
					GameID:      game.ID,
					Order:       game.TurnsCount + 1,
					PlayerID:    StoryBotID,
					PlayerName:  StoryBotName,
					Text:        botText,
					GuidePrompt: game.GuidePrompt,
					CreatedAt:   time.Now().UTC(),
				}
				if err := tx.Create(&botTurn).Error; err != nil {
					return err
				}
				game.TurnsCount++
				story = story + "\n" + botText
				allTurns = append(allTurns, botTurn)
				advanceCurrentPlayer(game, players, StoryBotID)

				finished = game.TurnsCount >= game.MaxTurns
				if !finished {
					game.GuidePrompt = s.guide.GenerateGuidePrompt(ctx, ai.GuideContext{
						StorySoFar:     story,
						LastTurnText:   botText,
						PreviousPrompt: botTurn.GuidePrompt,
						InitialPrompt:  game.InitialPrompt,
						TurnNumber:     game.TurnsCount + 1,
					})
				}
			}
		}

		if finished {
			report, err := s.finishGame(ctx, tx, game, players, story, allTurns)
			if err != nil {
				return err
			}
			result.Scores = report
		}

		if err := tx.Save(game).Error; err != nil {
			return err
		}

		game.Players = players
		result.Game = BuildSnapshot(game)
		result.Turn = &turn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSnapshot(gameID)
	if result.Scores != nil && s.cache != nil {
		// Finishing a game can reshuffle the boards
		keys := []string{
			redis_utils.FormatLeaderboardKey(LeaderboardGlobal),
			redis_utils.FormatLeaderboardKey(LeaderboardWeekly),
			redis_utils.FormatLeaderboardKey(LeaderboardRapidfire),
		}
		if err := s.cache.CleanupKeys(keys); err != nil {
			log.Printf("[REDIS] leaderboard invalidation failed: %v", err)
		}
	}
	return result, nil
}

// finishGame closes the game, runs scoring and feeds the leaderboard.
func (s *Service) finishGame(ctx context.Context, tx *gorm.DB, game *postgres.Game, players []*postgres.GamePlayer, story string, turns []postgres.Turn) (*ai.ScoreReport, error) {
	game.Status = postgres.StatusFinished
	game.CurrentPlayerID = ""
	game.CurrentPlayerName = ""

	stats := make(map[string]ai.TurnStats, len(players))
	for _, p := range players {
		stats[p.Name] = ai.TurnStats{}
	}
	for _, t := range turns {
		st := stats[t.PlayerName]
		st.Turns++
		st.TotalChars += len(t.Text)
		stats[t.PlayerName] = st
	}

	report := s.guide.GenerateScores(ctx, story, stats)
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	game.Scores = data
	log.Printf("[GAME] game %s finished after %d turns", game.ID, game.TurnsCount)

	if err := updateLeaderboard(tx, game, players, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// advanceCurrentPlayer hands the pen to the seat after the one that just wrote
func advanceCurrentPlayer(game *postgres.Game, players []*postgres.GamePlayer, lastPlayerID string) {
	if len(players) == 0 {
		return
	}
	idx := -1
	for i, p := range players {
		if p.PlayerID == lastPlayerID {
			idx = i
			break
		}
	}
	next := players[(idx+1)%len(players)]
	game.CurrentPlayerID = next.PlayerID
	game.CurrentPlayerName = next.Name
}

func buildStory(initialPrompt string, turns []postgres.Turn) string {
	parts := make([]string, 0, len(turns)+1)
	if initialPrompt != "" {
		parts = append(parts, initialPrompt)
	}
	for _, t := range turns {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, "\n")
}
