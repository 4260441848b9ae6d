// Package testutil builds throwaway sqlite databases for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"gamesite/db"
	"gamesite/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewDB opens a migrated sqlite database in a temp dir.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	conn, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// Fixture holds the rows most tests need.
type Fixture struct {
	Action, Puzzle models.Genre
	PC, Console    models.Platform
	Steam, GOG     models.Store
	Review         models.Review
	Online         models.OnlineStatus
	Award          models.Award
}

// Seed inserts two of each required lookup plus a review, an online status
// and an award.
func Seed(t testing.TB, conn *gorm.DB) *Fixture {
	t.Helper()
	f := &Fixture{
		Action:  models.Genre{GenreName: "Action"},
		Puzzle:  models.Genre{GenreName: "Puzzle"},
		PC:      models.Platform{PlatformName: "PC"},
		Console: models.Platform{PlatformName: "Console"},
		Steam:   models.Store{StoreName: "Steam"},
		GOG:     models.Store{StoreName: "GOG"},
		Review:  models.Review{Rating: 8},
		Online:  models.OnlineStatus{ActivePlayers: 100, RegisteredPlayers: 1000},
		Award:   models.Award{AwardName: "Best Indie"},
	}
	for _, v := range []interface{}{&f.Action, &f.Puzzle, &f.PC, &f.Console, &f.Steam, &f.GOG, &f.Review, &f.Online, &f.Award} {
		require.NoError(t, conn.Create(v).Error)
	}
	return f
}

// Game inserts a game directly, bypassing the store.
func Game(t testing.TB, conn *gorm.DB, g models.Game) models.Game {
	t.Helper()
	require.NoError(t, conn.Omit(clause.Associations).Create(&g).Error)
	return g
}

// Whitelist adds a membership row directly.
func Whitelist(t testing.TB, conn *gorm.DB, userID, gameID uint) {
	t.Helper()
	require.NoError(t, conn.Exec("INSERT INTO user_whitelisted_games (user_id, game_id) VALUES (?, ?)", userID, gameID).Error)
}

// User inserts an account with an unusable password.
func User(t testing.TB, conn *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Password: "!", UserType: models.UserTypeGamer, IsActive: true}
	require.NoError(t, conn.Create(&u).Error)
	return u
}

func UintPtr(v uint) *uint { return &v }
