package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil, "game"))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound, "game"), ErrNotFound)
	assert.ErrorIs(t, translate(errors.New("UNIQUE constraint failed: users.username"), "user"), ErrDuplicate)

	for _, msg := range []string{
		`ERROR: value too long for type character varying(200) (SQLSTATE 22001)`,
		`ERROR: numeric field overflow (SQLSTATE 22003)`,
		`ERROR: insert or update on table "games" violates foreign key constraint "fk_games_genre" (SQLSTATE 23503)`,
		`NOT NULL constraint failed: games.genre_id`,
	} {
		var verr *ValidationError
		require.ErrorAs(t, translate(errors.New(msg), "dlcs"), &verr, msg)
		assert.Equal(t, "non_field_errors", verr.Field)
	}

	other := translate(errors.New("connection refused"), "games")
	var verr *ValidationError
	assert.False(t, errors.As(other, &verr))
}
