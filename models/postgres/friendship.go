package postgres

import (
	"errors"

	"gorm.io/gorm"
)

/*
 * 'Friendship' links two users. It only exists to back the friends
 * leaderboard filter; the social graph itself is managed elsewhere.
 */
type Friendship struct {
	UserID1 string `gorm:"primaryKey;size:64;not null" json:"userId1"`
	UserID2 string `gorm:"primaryKey;size:64;not null;index:idx_friendships_user2" json:"userId2"`
}

// GORM hook to ensure both sides of the friendship are different users
func (f *Friendship) BeforeSave(tx *gorm.DB) error {
	if f.UserID1 == f.UserID2 {
		return errors.New("cannot create a friendship with the same user")
	}
	return nil
}
