package game

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cothread/models/postgres"
	redis_models "cothread/models/redis"
	"cothread/services/ai"
	"cothread/services/redis"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryBot is the synthetic opponent seated in single-player games
const (
	StoryBotID   = "storybot"
	StoryBotName = "StoryBot"
)

const (
	snapshotTTL    = 3 * time.Second
	leaderboardTTL = 30 * time.Second

	defaultTurnDuration = 60
	rapidTurnDuration   = 30
	defaultMaxTurns     = 10
	defaultMaxPlayers   = 4
)

/*
 * Service is the core game logic: creates games, seats players, sequences
 * turns, asks the AI guide for prompts and scores, and answers read queries.
 * Postgres is authoritative; the Redis cache only serves the polling reads
 * and is skipped entirely when nil.
 */
type Service struct {
	db    *gorm.DB
	cache *redis.RedisClient
	guide *ai.StoryGuide
}

func NewService(db *gorm.DB, cache *redis.RedisClient, guide *ai.StoryGuide) *Service {
	return &Service{db: db, cache: cache, guide: guide}
}

// CreateGameInput carries the host's game settings. Zero values get defaults.
type CreateGameInput struct {
	HostName            string
	HostID              string
	InitialPrompt       string
	TurnDurationSeconds int
	MaxTurns            int
	MaxPlayers          int
	Mode                postgres.GameMode
}

// CreateGame provisions a new game and seats the host. Single-player games
// also seat StoryBot so turn alternation has a counterpart.
func (s *Service) CreateGame(ctx context.Context, in CreateGameInput) (*postgres.Game, error) {
	mode := in.Mode
	if mode == "" {
		mode = postgres.ModeMulti
	}
	if mode != postgres.ModeSingle && mode != postgres.ModeMulti && mode != postgres.ModeRapid {
		return nil, ErrUnknownMode
	}

	hostName := strings.TrimSpace(in.HostName)
	if hostName == "" {
		hostName = "Host"
	}
	hostID := strings.TrimSpace(in.HostID)
	if hostID == "" {
		hostID = uuid.NewString()
	}

	duration := in.TurnDurationSeconds
	if duration <= 0 {
		duration = defaultTurnDuration
		if mode == postgres.ModeRapid {
			duration = rapidTurnDuration
		}
	}
	maxTurns := in.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	maxPlayers := in.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = defaultMaxPlayers
	}
	if mode == postgres.ModeSingle {
		maxPlayers = 2
	}

	prompt := strings.TrimSpace(in.InitialPrompt)
	if prompt == "" {
		prompt = s.guide.GenerateInitialPrompt(ctx, "")
	}

	// Multiplayer games wait for joins; single and rapid start playable
	status := postgres.StatusWaiting
	if mode != postgres.ModeMulti {
		status = postgres.StatusActive
	}

	game := postgres.Game{
		HostID:              hostID,
		HostName:            hostName,
		Mode:                mode,
		Status:              status,
		InitialPrompt:       prompt,
		GuidePrompt:         prompt,
		CurrentPlayerID:     hostID,
		CurrentPlayerName:   hostName,
		TurnDurationSeconds: duration,
		MaxTurns:            maxTurns,
		MaxPlayers:          maxPlayers,
	}
	game.Players = []*postgres.GamePlayer{
		{PlayerID: hostID, Name: hostName, Seat: 0},
	}
	if mode == postgres.ModeSingle {
		game.Players = append(game.Players, &postgres.GamePlayer{
			PlayerID: StoryBotID, Name: StoryBotName, Seat: 1, IsBot: true,
		})
	}

	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		return nil, err
	}
	log.Printf("[GAME] created game %s mode=%s host=%s", game.ID, mode, hostName)
	return &game, nil
}

// JoinGame seats a player. Joining twice with the same playerId is idempotent
// and never duplicates a seat.
func (s *Service) JoinGame(ctx context.Context, gameID, playerName, playerID string) (*postgres.Game, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, ErrMissingPlayer
	}
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		playerName = "Anonymous"
	}

	var game *postgres.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, players, err := lockGame(tx, gameID)
		if err != nil {
			return err
		}
		if g.Status == postgres.StatusFinished {
			return ErrGameFinished
		}
		for _, p := range players {
			if p.PlayerID == playerID {
				// Already seated, nothing to do
				g.Players = players
				game = g
				return nil
			}
		}
		if len(players) >= g.MaxPlayers {
			return ErrGameFull
		}

		seat := postgres.GamePlayer{
			GameID:   g.ID,
			PlayerID: playerID,
			Name:     playerName,
			Seat:     len(players),
		}
		if err := tx.Create(&seat).Error; err != nil {
			return err
		}
		g.Players = append(players, &seat)
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSnapshot(gameID)
	return game, nil
}

// StartGame moves a waiting game to active. Host only.
func (s *Service) StartGame(ctx context.Context, gameID, playerID string) (*postgres.Game, error) {
	var game *postgres.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, players, err := lockGame(tx, gameID)
		if err != nil {
			return err
		}
		if g.Status != postgres.StatusWaiting {
			return ErrAlreadyStarted
		}
		if playerID != "" && playerID != g.HostID {
			return ErrNotHost
		}

		g.Status = postgres.StatusActive
		if err := tx.Model(g).Update("status", g.Status).Error; err != nil {
			return err
		}
		g.Players = players
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSnapshot(gameID)
	return game, nil
}

// GetGameState answers the polling read. Served from the Redis snapshot when
// one is fresh, from Postgres otherwise.
func (s *Service) GetGameState(ctx context.Context, gameID string) (*redis_models.GameSnapshot, error) {
	if s.cache != nil {
		snapshot, err := s.cache.GetGameSnapshot(gameID)
		if err != nil {
			log.Printf("[REDIS] snapshot read failed for %s: %v", gameID, err)
		} else if snapshot != nil {
			return snapshot, nil
		}
	}

	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	snapshot := BuildSnapshot(game)

	if s.cache != nil {
		if err := s.cache.SaveGameSnapshot(snapshot, snapshotTTL); err != nil {
			log.Printf("[REDIS] snapshot write failed for %s: %v", gameID, err)
		}
	}
	return snapshot, nil
}

// GetGameTurns returns the game's turns in play order.
func (s *Service) GetGameTurns(ctx context.Context, gameID string) ([]postgres.Turn, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}
	var turns []postgres.Turn
	err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("turn_order").
		Find(&turns).Error
	if err != nil {
		return nil, err
	}
	return turns, nil
}

// SendChatMessage appends a chat message. Chat never touches turn sequencing.
func (s *Service) SendChatMessage(ctx context.Context, gameID, playerName, playerID, text string) (*postgres.ChatMessage, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil, ErrEmptyText
	}
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}

	message := postgres.ChatMessage{
		ID:         uuid.NewString(),
		GameID:     gameID,
		PlayerID:   playerID,
		PlayerName: strings.TrimSpace(playerName),
		Text:       clean,
		CreatedAt:  time.Now().UTC(),
	}
	if message.PlayerName == "" {
		message.PlayerName = "Anonymous"
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		entry := redis_models.ChatEntry{
			ID:         message.ID,
			PlayerID:   message.PlayerID,
			PlayerName: message.PlayerName,
			Text:       message.Text,
			CreatedAt:  message.CreatedAt,
		}
		if err := s.cache.PushChatEntry(gameID, entry); err != nil {
			log.Printf("[REDIS] chat push failed for %s: %v", gameID, err)
		}
	}
	return &message, nil
}

// GetChatMessages returns the game chat, oldest first. The Redis backlog
// answers when it is known to be complete; a trimmed backlog falls through to
// Postgres.
func (s *Service) GetChatMessages(ctx context.Context, gameID string) ([]postgres.ChatMessage, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		entries, err := s.cache.GetRecentChat(gameID)
		if err != nil {
			log.Printf("[REDIS] chat read failed for %s: %v", gameID, err)
		} else if entries != nil && len(entries) < redis.ChatBacklog {
			messages := make([]postgres.ChatMessage, len(entries))
			for i, e := range entries {
				messages[i] = postgres.ChatMessage{
					ID:         e.ID,
					GameID:     gameID,
					PlayerID:   e.PlayerID,
					PlayerName: e.PlayerName,
					Text:       e.Text,
					CreatedAt:  e.CreatedAt,
				}
			}
			return messages, nil
		}
	}

	var messages []postgres.ChatMessage
	err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// lockGame reads a game row FOR UPDATE plus its seats, inside a transaction.
// Row locking is a Postgres concern; SQLite (used in tests) serializes writers
// at the database level and rejects the clause.
func lockGame(tx *gorm.DB, gameID string) (*postgres.Game, []*postgres.GamePlayer, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var game postgres.Game
	err := q.Where("id = ?", gameID).
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrGameNotFound
		}
		return nil, nil, err
	}

	var players []*postgres.GamePlayer
	if err := tx.Where("game_id = ?", gameID).Order("seat").Find(&players).Error; err != nil {
		return nil, nil, err
	}
	return &game, players, nil
}

func (s *Service) loadGame(ctx context.Context, gameID string) (*postgres.Game, error) {
	var game postgres.Game
	err := s.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("seat") }).
		Where("id = ?", gameID).
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (s *Service) gameExists(ctx context.Context, gameID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&postgres.Game{}).Where("id = ?", gameID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (s *Service) invalidateSnapshot(gameID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteGameSnapshot(gameID); err != nil {
		log.Printf("[REDIS] snapshot invalidation failed for %s: %v", gameID, err)
	}
}
