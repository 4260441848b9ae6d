package store_test

import (
	"context"
	"strings"
	"testing"

	"gamesite/models"
	"gamesite/store"
	"gamesite/testutil"
	"gamesite/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsCoverEveryRelation(t *testing.T) {
	require.Len(t, store.Kinds(), len(models.Relations))
	for _, rel := range models.Relations {
		k, ok := store.KindByField(rel.Field)
		require.True(t, ok, rel.Field)
		assert.Equal(t, rel.Table, k.Name)
	}
	_, ok := store.KindByName("users")
	assert.False(t, ok)
}

func TestDeletingGenreCascades(t *testing.T) {
	conn := testutil.NewDB(t)
	f := testutil.Seed(t, conn)
	lookups := store.NewLookupStore(conn)
	games := store.NewGameStore(conn)
	users := store.NewUserStore(conn)
	ctx := context.Background()

	doomed := testutil.Game(t, conn, models.Game{GameName: "Doomed", GenreID: f.Action.ID, PlatformID: f.PC.ID, StoreID: f.Steam.ID})
	testutil.Game(t, conn, models.Game{GameName: "Kept", GenreID: f.Puzzle.ID, PlatformID: f.PC.ID, StoreID: f.Steam.ID})
	u := testutil.User(t, conn, "ann")
	testutil.Whitelist(t, conn, u.ID, doomed.ID)

	genres, _ := store.KindByName("genres")
	res, err := lookups.Delete(ctx, genres, f.Action.ID)
	require.NoError(t, err)
	assert.Equal(t, "Action", res.Name)
	assert.EqualValues(t, 1, res.GamesDeleted)

	_, err = games.Get(ctx, doomed.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	n, err := games.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ids, err := users.WhitelistIDs(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = lookups.Get(ctx, genres, f.Action.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeletingPlatformAndStoreCascades(t *testing.T) {
	conn := testutil.NewDB(t)
	f := testutil.Seed(t, conn)
	lookups := store.NewLookupStore(conn)
	games := store.NewGameStore(conn)
	ctx := context.Background()

	testutil.Game(t, conn, models.Game{GameName: "A", GenreID: f.Action.ID, PlatformID: f.Console.ID, StoreID: f.Steam.ID})
	testutil.Game(t, conn, models.Game{GameName: "B", GenreID: f.Action.ID, PlatformID: f.PC.ID, StoreID: f.GOG.ID})
	testutil.Game(t, conn, models.Game{GameName: "C", GenreID: f.Action.ID, PlatformID: f.PC.ID, StoreID: f.Steam.ID})

	platforms, _ := store.KindByName("platforms")
	res, err := lookups.Delete(ctx, platforms, f.Console.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.GamesDeleted)

	stores, _ := store.KindByName("stores")
	res, err = lookups.Delete(ctx, stores, f.GOG.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.GamesDeleted)

	n, err := games.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestDeletingOptionalLookupNullifies(t *testing.T) {
	conn := testutil.NewDB(t)
	f := testutil.Seed(t, conn)
	lookups := store.NewLookupStore(conn)
	games := store.NewGameStore(conn)
	ctx := context.Background()

	g := testutil.Game(t, conn, models.Game{
		GameName: "Orbit", GenreID: f.Action.ID, PlatformID: f.PC.ID, StoreID: f.Steam.ID,
		ReviewID: &f.Review.ID, AwardID: &f.Award.ID,
	})

	reviews, _ := store.KindByName("reviews")
	res, err := lookups.Delete(ctx, reviews, f.Review.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rating: 8", res.Name)
	assert.EqualValues(t, 0, res.GamesDeleted)
	assert.EqualValues(t, 1, res.GamesCleared)

	got, err := games.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReviewID)
	assert.Nil(t, got.Review)
	require.NotNil(t, got.AwardID)
	assert.Equal(t, f.Award.ID, *got.AwardID)
}

func TestCreateLookup(t *testing.T) {
	conn := testutil.NewDB(t)
	lookups := store.NewLookupStore(conn)
	ctx := context.Background()

	devs, _ := store.KindByName("developers")
	rec, err := lookups.Create(ctx, devs, []byte(`{"id": 77, "first_name": "Hideo", "last_name": "Kojima", "country": "JP"}`))
	require.NoError(t, err)
	assert.NotEqual(t, uint(77), rec.ID)
	assert.Equal(t, "Hideo Kojima", rec.Name)

	dlcs, _ := store.KindByName("dlcs")
	rec, err = lookups.Create(ctx, dlcs, []byte(`{"dlc_name": "Blood and Wine", "dlc_price": "19.99"}`))
	require.NoError(t, err)
	dlc := rec.Value.(*models.DLC)
	assert.Equal(t, "19.99", dlc.DLCPrice.StringFixed(2))

	_, err = lookups.Create(ctx, devs, []byte(`{"last_name": "Nobody"}`))
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "first_name", verr.Field)

	media, _ := store.KindByName("multimedia")
	_, err = lookups.Create(ctx, media, []byte(`{"website": "not a url"}`))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "website", verr.Field)

	_, err = lookups.Create(ctx, devs, []byte(`[1,2]`))
	require.ErrorAs(t, err, &verr)

	recs, err := lookups.List(ctx, devs)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Hideo Kojima", recs[0].Name)
}

func TestOptionsKeyedByField(t *testing.T) {
	conn := testutil.NewDB(t)
	f := testutil.Seed(t, conn)
	lookups := store.NewLookupStore(conn)

	opts, err := lookups.Options(context.Background())
	require.NoError(t, err)
	assert.Len(t, opts, len(models.Relations))
	require.Len(t, opts[models.FieldGenre], 2)
	assert.Equal(t, f.Action.ID, opts[models.FieldGenre][0].ID)
	assert.Equal(t, "Action", opts[models.FieldGenre][0].Name)
	assert.Empty(t, opts[models.FieldLanguage])
}

func TestCreateLookupEnforcesColumnLimits(t *testing.T) {
	conn := testutil.NewDB(t)
	lookups := store.NewLookupStore(conn)
	ctx := context.Background()
	dlcs, _ := store.KindByName("dlcs")
	media, _ := store.KindByName("multimedia")

	for _, price := range []string{`"123456.789"`, `"10000"`, `"19.999"`, `"-5"`} {
		_, err := lookups.Create(ctx, dlcs, []byte(`{"dlc_name": "Big", "dlc_price": `+price+`}`))
		var verr *store.ValidationError
		require.ErrorAs(t, err, &verr, price)
		assert.Equal(t, "dlc_price", verr.Field, price)
	}
	_, err := lookups.Create(ctx, dlcs, []byte(`{"dlc_name": "Max", "dlc_price": "9999.99"}`))
	assert.NoError(t, err)
	_, err = lookups.Create(ctx, dlcs, []byte(`{"dlc_name": "Free"}`))
	assert.NoError(t, err)

	long := "https://example.com/" + strings.Repeat("a", 230)
	_, err = lookups.Create(ctx, media, []byte(`{"website": "`+long+`"}`))
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "website", verr.Field)

	_, err = lookups.Create(ctx, media, []byte(`{"website": "https://example.com", "store_link": "`+long+`"}`))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "store_link", verr.Field)

	recs, err := lookups.List(ctx, dlcs)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestCreateLookupKeepsEveryFieldError(t *testing.T) {
	conn := testutil.NewDB(t)
	media, _ := store.KindByName("multimedia")

	_, err := store.NewLookupStore(conn).Create(context.Background(), media, []byte(`{"website": "nope", "store_link": "nope"}`))
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "store_link", verr.Field)
	errs := utils.ValidationErrors(verr.Unwrap())
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, "website")
}
