package postgres

import (
	"math/rand"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GameMode string

const (
	ModeSingle GameMode = "single"
	ModeMulti  GameMode = "multi"
	ModeRapid  GameMode = "rapid"
)

type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusActive   GameStatus = "active"
	StatusFinished GameStatus = "finished"
)

/*
 * 'Game' defines the structure of a Co-Thread story game.
 * It contains references to GamePlayer, Turn and ChatMessage
 */
type Game struct {
	ID        string     `gorm:"primaryKey;size:50;not null" json:"id"`
	CreatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	HostID    string     `gorm:"size:64;index:idx_games_host" json:"hostId"`
	HostName  string     `gorm:"size:50" json:"hostName"`
	Mode      GameMode   `gorm:"size:10;default:'multi'" json:"mode"`
	Status    GameStatus `gorm:"size:10;default:'waiting';index:idx_games_status" json:"status"`

	InitialPrompt string `gorm:"type:text" json:"initialPrompt"`
	GuidePrompt   string `gorm:"type:text" json:"guidePrompt"`

	// Empty once the game is finished
	CurrentPlayerID   string `gorm:"size:64" json:"currentPlayerId"`
	CurrentPlayerName string `gorm:"size:50" json:"currentPlayer"`

	TurnDurationSeconds int `gorm:"default:60" json:"turnDurationSeconds"`
	MaxTurns            int `gorm:"default:10" json:"maxTurns"`
	MaxPlayers          int `gorm:"default:4" json:"maxPlayers"`
	TurnsCount          int `gorm:"default:0" json:"turnsCount"`

	// Populated by the scoring pass when the game finishes, null before that
	Scores datatypes.JSON `gorm:"type:jsonb" json:"scores,omitempty"`

	// Relationships
	Players      []*GamePlayer  `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"players,omitempty"`
	Turns        []*Turn        `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ChatMessages []*ChatMessage `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Random game id generation
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateGameID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// Ensure the id is truly unique before inserting the game
func (g *Game) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID != "" {
		return nil
	}
	for {
		newID := generateGameID(6)
		var existing Game
		if err := tx.Where("id = ?", newID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				g.ID = newID
				return nil
			}
			return err
		}
		// Otherwise, loop again to generate a new unique ID
	}
}
