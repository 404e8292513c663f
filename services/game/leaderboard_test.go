package game

import (
	"context"
	"testing"
	"time"

	"cothread/models/postgres"
	"cothread/services/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEntries(t *testing.T, db *gorm.DB, entries []postgres.LeaderboardEntry) {
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}
}

func TestGlobalLeaderboardRanking(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db, nil, ai.NewStoryGuide(nil, "test-model"))
	now := time.Now().UTC()

	seedEntries(t, db, []postgres.LeaderboardEntry{
		{UserID: "u1", Username: "Alice", TopScore: 70, LastUpdated: now},
		{UserID: "u2", Username: "Bob", TopScore: 90, LastUpdated: now},
		{UserID: "u3", Username: "Cleo", TopScore: 80, LastUpdated: now},
	})

	entries, err := s.GetLeaderboard(context.Background(), LeaderboardGlobal, "")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []string{"Bob", "Cleo", "Alice"},
		[]string{entries[0].Username, entries[1].Username, entries[2].Username})
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, 90, entries[0].Score)
}

func TestWeeklyLeaderboardWindow(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db, nil, ai.NewStoryGuide(nil, "test-model"))
	now := time.Now().UTC()

	seedEntries(t, db, []postgres.LeaderboardEntry{
		{UserID: "u1", Username: "Fresh", TopScore: 50, LastUpdated: now.AddDate(0, 0, -2)},
		{UserID: "u2", Username: "Stale", TopScore: 99, LastUpdated: now.AddDate(0, 0, -10)},
	})

	entries, err := s.GetLeaderboard(context.Background(), LeaderboardWeekly, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Fresh", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestRapidfireLeaderboard(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db, nil, ai.NewStoryGuide(nil, "test-model"))
	now := time.Now().UTC()

	seedEntries(t, db, []postgres.LeaderboardEntry{
		{UserID: "u1", Username: "Slow", TopScore: 95, TopRapidScore: 0, LastUpdated: now},
		{UserID: "u2", Username: "Quick", TopScore: 10, TopRapidScore: 60, LastUpdated: now},
		{UserID: "u3", Username: "Quicker", TopScore: 20, TopRapidScore: 80, LastUpdated: now},
	})

	entries, err := s.GetLeaderboard(context.Background(), LeaderboardRapidfire, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Quicker", entries[0].Username)
	assert.Equal(t, 80, entries[0].Score)
	assert.Equal(t, "Quick", entries[1].Username)
}

func TestFriendsLeaderboardFilter(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db, nil, ai.NewStoryGuide(nil, "test-model"))
	now := time.Now().UTC()

	seedEntries(t, db, []postgres.LeaderboardEntry{
		{UserID: "u1", Username: "Me", TopScore: 40, LastUpdated: now},
		{UserID: "u2", Username: "Friend", TopScore: 75, LastUpdated: now},
		{UserID: "u3", Username: "Stranger", TopScore: 99, LastUpdated: now},
	})
	require.NoError(t, db.Create(&postgres.Friendship{UserID1: "u2", UserID2: "u1"}).Error)

	entries, err := s.GetLeaderboard(context.Background(), LeaderboardFriends, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Friend", entries[0].Username)
	assert.Equal(t, "Me", entries[1].Username)

	_, err = s.GetLeaderboard(context.Background(), LeaderboardFriends, "")
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestUnknownLeaderboardType(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetLeaderboard(context.Background(), "monthly", "")
	assert.ErrorIs(t, err, ErrUnknownLeaderboard)
}

func TestLeaderboardUpsertKeepsBestScore(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db, nil, ai.NewStoryGuide(nil, "test-model"))
	ctx := context.Background()

	// Two finished single games for the same user; only the better result sticks
	for i := 0; i < 2; i++ {
		g, err := s.CreateGame(ctx, CreateGameInput{
			HostName: "Alice", HostID: "u1", Mode: postgres.ModeSingle, MaxTurns: 1,
		})
		require.NoError(t, err)
		_, err = s.SubmitTurn(ctx, g.ID, "Alice", "u1", "A line of story text for scoring.")
		require.NoError(t, err)
	}

	var entries []postgres.LeaderboardEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Greater(t, entries[0].TopScore, 0)
}

func TestFriendshipRejectsSelf(t *testing.T) {
	db := newTestDB(t)

	err := db.Create(&postgres.Friendship{UserID1: "u1", UserID2: "u1"}).Error
	assert.Error(t, err)
}

func TestUserHistory(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.GetUserHistory(ctx, "")
	assert.ErrorIs(t, err, ErrMissingUserID)

	// One finished game with u1, one still running, one finished without u1
	g1, err := s.CreateGame(ctx, CreateGameInput{
		HostName: "Alice", HostID: "u1", Mode: postgres.ModeSingle, MaxTurns: 1,
	})
	require.NoError(t, err)
	_, err = s.SubmitTurn(ctx, g1.ID, "Alice", "u1", "The closing line.")
	require.NoError(t, err)

	_, err = s.CreateGame(ctx, CreateGameInput{HostName: "Alice", HostID: "u1"})
	require.NoError(t, err)

	g3, err := s.CreateGame(ctx, CreateGameInput{
		HostName: "Zed", HostID: "u9", Mode: postgres.ModeSingle, MaxTurns: 1,
	})
	require.NoError(t, err)
	_, err = s.SubmitTurn(ctx, g3.ID, "Zed", "u9", "Someone else's story.")
	require.NoError(t, err)

	history, err := s.GetUserHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, g1.ID, history[0].ID)
	assert.Equal(t, postgres.StatusFinished, history[0].Status)
	assert.NotEmpty(t, history[0].Players)
	assert.NotEmpty(t, history[0].Scores)
}
