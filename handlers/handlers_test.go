package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gamesite/authz"
	"gamesite/catalog"
	"gamesite/handlers"
	"gamesite/models"
	"gamesite/store"
	"gamesite/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	t       *testing.T
	conn    *gorm.DB
	f       *testutil.Fixture
	h       *handlers.Handler
	router  *gin.Engine
	cookies []*http.Cookie
}

func newEnv(t *testing.T) *env {
	gin.SetMode(gin.TestMode)
	conn := testutil.NewDB(t)
	f := testutil.Seed(t, conn)
	h := handlers.New(store.NewGameStore(conn), store.NewUserStore(conn), store.NewLookupStore(conn))
	authorizer, err := authz.New()
	require.NoError(t, err)
	r, err := handlers.SetupRouter(h, handlers.RouterOptions{
		SessionSecret: "test-secret-test-secret-test-secret",
		Authorizer:    authorizer,
	})
	require.NoError(t, err)
	return &env{t: t, conn: conn, f: f, h: h, router: r}
}

// do sends a request carrying the cookies collected so far.
func (e *env) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		e.cookies = set
	}
	return w
}

func (e *env) form(method, target string, v url.Values) *httptest.ResponseRecorder {
	return e.do(method, target, "application/x-www-form-urlencoded", v.Encode())
}

func (e *env) json(method, target string, body interface{}) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(e.t, err)
	return e.do(method, target, "application/json", string(raw))
}

func (e *env) signupAndLogin(username string) {
	e.t.Helper()
	w := e.json(http.MethodPost, "/accounts/signup/", map[string]string{
		"username": username, "password1": "s3cret-pass", "password2": "s3cret-pass", "user_type": "gamer",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	w = e.json(http.MethodPost, "/accounts/login/", map[string]string{"username": username, "password": "s3cret-pass"})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	var body map[string]interface{}
	decode(t, w, &body)
	s, _ := body["detail"].(string)
	return s
}

func (e *env) game(name string, genre models.Genre) models.Game {
	return testutil.Game(e.t, e.conn, models.Game{GameName: name, GenreID: genre.ID, PlatformID: e.f.PC.ID, StoreID: e.f.Steam.ID})
}

func TestLoginErrors(t *testing.T) {
	e := newEnv(t)
	testutil.User(t, e.conn, "ann")

	w := e.form(http.MethodPost, "/accounts/login/", url.Values{"username": {"ann"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Both username and password are required.", detail(t, w))

	wrong := e.form(http.MethodPost, "/accounts/login/", url.Values{"username": {"ann"}, "password": {"nope-nope"}})
	unknown := e.form(http.MethodPost, "/accounts/login/", url.Values{"username": {"ghost"}, "password": {"nope-nope"}})
	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, "Invalid credentials.", detail(t, wrong))

	w = e.do(http.MethodGet, "/accounts/login/", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestLogout(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/accounts/logout/", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = e.do(http.MethodPost, "/accounts/logout/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out", detail(t, w))

	e.signupAndLogin("ann")
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/accounts/me/", "", "").Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodPost, "/accounts/logout/", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/accounts/me/", "", "").Code)
}

func TestSignupForm(t *testing.T) {
	e := newEnv(t)

	w := e.form(http.MethodPost, "/accounts/signup/", url.Values{
		"username": {"bob"}, "password1": {"s3cret-pass"}, "password2": {"other-pass"}, "user_type": {"dev"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "didn&#39;t match")

	w = e.form(http.MethodPost, "/accounts/signup/", url.Values{
		"username": {"bob"}, "password1": {"s3cret-pass"}, "password2": {"s3cret-pass"}, "user_type": {"dev"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestWhitelistToggle(t *testing.T) {
	e := newEnv(t)
	g := e.game("Orbit", e.f.Action)
	target := fmt.Sprintf("/whitelist/%d/", g.ID)

	w := e.do(http.MethodPost, target, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	e.signupAndLogin("ann")
	w = e.do(http.MethodPost, target, "", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var me struct {
		WhitelistedGames []uint `json:"whitelisted_games"`
	}
	decode(t, e.do(http.MethodGet, "/accounts/me/", "", ""), &me)
	assert.Equal(t, []uint{g.ID}, me.WhitelistedGames)

	var games []map[string]interface{}
	decode(t, e.do(http.MethodGet, "/api/games/?whitelisted=yes", "", ""), &games)
	require.Len(t, games, 1)
	assert.Equal(t, true, games[0]["is_whitelisted"])

	e.do(http.MethodPost, target, "", "")
	decode(t, e.do(http.MethodGet, "/accounts/me/", "", ""), &me)
	assert.Empty(t, me.WhitelistedGames)

	w = e.do(http.MethodPost, "/whitelist/9999/", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGameDetailJSON(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/game/999/json/", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.form(http.MethodPost, "/games/", url.Values{
		"game_name": {"Orbit"},
		"genre":     {catalog.FormatID(e.f.Action.ID)},
		"platform":  {catalog.FormatID(e.f.PC.ID)},
		"store":     {catalog.FormatID(e.f.Steam.ID)},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/games/", w.Header().Get("Location"))

	games, err := e.h.Games.List(context.Background(), catalog.Filter{Search: "orbit"}, 0)
	require.NoError(t, err)
	require.Len(t, games, 1)

	var got map[string]interface{}
	decode(t, e.do(http.MethodGet, fmt.Sprintf("/game/%d/json/", games[0].ID), "", ""), &got)
	assert.Equal(t, "Orbit", got["name"])
	assert.Equal(t, "Action", got["genre"])
	assert.Equal(t, "PC", got["platform"])
	assert.Equal(t, "Steam", got["store"])
	assert.Equal(t, "", got["developer"])
	assert.Equal(t, "None", got["dlc"])
	assert.Equal(t, "–", got["award"])
	assert.Nil(t, got["rating"])
	assert.Nil(t, got["players"])
	assert.Equal(t, false, got["is_whitelisted"])
}

func TestCreateGameFormErrors(t *testing.T) {
	e := newEnv(t)

	w := e.form(http.MethodPost, "/games/", url.Values{
		"game_name": {"Orbit"},
		"genre":     {catalog.FormatID(e.f.Action.ID)},
		"platform":  {catalog.FormatID(e.f.PC.ID)},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")

	n, err := e.h.Games.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateAndDeletePages(t *testing.T) {
	e := newEnv(t)
	g := testutil.Game(t, e.conn, models.Game{
		GameName: "Orbit", GenreID: e.f.Action.ID, PlatformID: e.f.PC.ID, StoreID: e.f.Steam.ID, AwardID: &e.f.Award.ID,
	})
	path := fmt.Sprintf("/update_game/%d/", g.ID)

	w := e.do(http.MethodGet, path, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Orbit"`)

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/update_game/999/", "", "").Code)

	w = e.form(http.MethodPost, path, url.Values{
		"game_name": {"Orbit II"},
		"genre":     {catalog.FormatID(e.f.Puzzle.ID)},
		"platform":  {catalog.FormatID(e.f.Console.ID)},
		"store":     {catalog.FormatID(e.f.GOG.ID)},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	got, err := e.h.Games.Get(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Orbit II", got.GameName)
	assert.Equal(t, e.f.Puzzle.ID, got.GenreID)
	require.NotNil(t, got.AwardID, "optional references survive an update that omits them")

	w = e.do(http.MethodPost, fmt.Sprintf("/delete_game/%d/", g.ID), "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Orbit II has been deleted.")

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, fmt.Sprintf("/delete_game/%d/", g.ID), "", "").Code)
}

func TestHomeListsGames(t *testing.T) {
	e := newEnv(t)
	e.game("Orbit", e.f.Action)
	e.game("Kingdoms", e.f.Puzzle)

	w := e.do(http.MethodGet, "/?search=orb", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Orbit")
	assert.NotContains(t, w.Body.String(), "Kingdoms")
}

func TestAPIRequiresLoginForWrites(t *testing.T) {
	e := newEnv(t)

	w := e.json(http.MethodPost, "/api/games/", map[string]interface{}{"game_name": "Orbit"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/games/", "", "").Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/genres/", "", "").Code)
}

func TestAPIGameLifecycle(t *testing.T) {
	e := newEnv(t)
	e.signupAndLogin("ann")

	w := e.json(http.MethodPost, "/api/games/", map[string]interface{}{
		"game_name": "Orbit", "genre": e.f.Action.ID, "platform": e.f.PC.ID, "store": e.f.Steam.ID, "review": e.f.Review.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID        uint   `json:"id"`
		GameName  string `json:"game_name"`
		GenreName string `json:"genre_name"`
	}
	decode(t, w, &created)
	assert.Equal(t, "Action", created.GenreName)
	path := fmt.Sprintf("/api/games/%d/", created.ID)

	w = e.json(http.MethodPatch, path, map[string]interface{}{"game_name": "Orbit 2", "review": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got, err := e.h.Games.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Orbit 2", got.GameName)
	assert.Nil(t, got.ReviewID)

	w = e.json(http.MethodPatch, path, map[string]interface{}{"genre": 9999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `Invalid pk "9999" - object does not exist.`, detail(t, w))

	w = e.json(http.MethodPut, path, map[string]interface{}{"game_name": "Orbit 3"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodDelete, path, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Orbit 2 has been deleted.", detail(t, w))
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, path, "", "").Code)
}

func TestAPISorting(t *testing.T) {
	e := newEnv(t)
	high := models.Review{Rating: 9}
	require.NoError(t, e.conn.Create(&high).Error)

	testutil.Game(t, e.conn, models.Game{GameName: "beta", GenreID: e.f.Action.ID, PlatformID: e.f.PC.ID, StoreID: e.f.Steam.ID, ReviewID: &e.f.Review.ID})
	testutil.Game(t, e.conn, models.Game{GameName: "Alpha", GenreID: e.f.Action.ID, PlatformID: e.f.PC.ID, StoreID: e.f.Steam.ID})
	testutil.Game(t, e.conn, models.Game{GameName: "Gamma", GenreID: e.f.Action.ID, PlatformID: e.f.PC.ID, StoreID: e.f.Steam.ID, ReviewID: &high.ID})

	names := func(query string) []string {
		var games []struct {
			GameName string `json:"game_name"`
		}
		decode(t, e.do(http.MethodGet, "/api/games/"+query, "", ""), &games)
		out := make([]string, len(games))
		for i, g := range games {
			out[i] = g.GameName
		}
		return out
	}

	assert.Equal(t, []string{"beta", "Alpha", "Gamma"}, names(""))
	assert.Equal(t, []string{"Alpha", "beta", "Gamma"}, names("?sort=name"))
	assert.Equal(t, []string{"Gamma", "beta", "Alpha"}, names("?sort=rating"))
	assert.Equal(t, []string{"beta", "Alpha", "Gamma"}, names("?sort=bogus&genre=abc"))
	assert.Empty(t, names("?whitelisted=yes"))
	assert.Len(t, names("?whitelisted=no"), 3)
}

func TestAdminRoutes(t *testing.T) {
	e := newEnv(t)
	e.signupAndLogin("ann")
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/api/admin/stats/", "", "").Code)

	_, err := e.h.Users.EnsureAdmin(context.Background(), "root", "admin-pass-1")
	require.NoError(t, err)
	w := e.json(http.MethodPost, "/accounts/login/", map[string]string{"username": "root", "password": "admin-pass-1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/api/admin/stats/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalUsers int64 `json:"total_users"`
	}
	decode(t, w, &stats)
	assert.EqualValues(t, 2, stats.TotalUsers)

	w = e.json(http.MethodPost, "/api/admin/lookups/awards/", map[string]string{"award_name": "GOTY"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/admin/lookups/nope/", "", "").Code)

	e.game("Orbit", e.f.Action)
	w = e.do(http.MethodDelete, fmt.Sprintf("/api/admin/lookups/genres/%d/", e.f.Action.ID), "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res map[string]interface{}
	decode(t, w, &res)
	assert.Equal(t, "Action has been deleted.", res["detail"])
	assert.EqualValues(t, 1, res["games_deleted"])
}

func TestUnknownRoute(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodGet, "/nowhere/", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found.", detail(t, w))
}

func TestAnonymousNeverSeesWhitelistFlag(t *testing.T) {
	e := newEnv(t)
	g := e.game("Orbit", e.f.Action)
	e.signupAndLogin("ann")
	require.Equal(t, http.StatusFound, e.do(http.MethodPost, fmt.Sprintf("/whitelist/%d/", g.ID), "", "").Code)

	detailPath := fmt.Sprintf("/game/%d/json/", g.ID)
	var got map[string]interface{}
	decode(t, e.do(http.MethodGet, detailPath, "", ""), &got)
	require.Equal(t, true, got["is_whitelisted"])
	var me struct {
		ID uint `json:"id"`
	}
	decode(t, e.do(http.MethodGet, "/accounts/me/", "", ""), &me)

	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/accounts/logout/", "", "").Code)
	e.cookies = nil

	decode(t, e.do(http.MethodGet, detailPath, "", ""), &got)
	assert.Equal(t, false, got["is_whitelisted"])

	var games []map[string]interface{}
	decode(t, e.do(http.MethodGet, "/api/games/", "", ""), &games)
	require.Len(t, games, 1)
	assert.Equal(t, false, games[0]["is_whitelisted"])

	ids, err := e.h.Users.WhitelistIDs(context.Background(), me.ID)
	require.NoError(t, err)
	assert.True(t, ids[g.ID], "the whitelist row itself is still there")
}

func TestUpdateFormKeepsOptionalFieldPostedEmpty(t *testing.T) {
	e := newEnv(t)
	g := testutil.Game(t, e.conn, models.Game{
		GameName: "Orbit", GenreID: e.f.Action.ID, PlatformID: e.f.PC.ID, StoreID: e.f.Steam.ID, AwardID: &e.f.Award.ID,
	})

	w := e.form(http.MethodPost, fmt.Sprintf("/update_game/%d/", g.ID), url.Values{
		"game_name": {"Orbit"},
		"genre":     {catalog.FormatID(e.f.Action.ID)},
		"platform":  {catalog.FormatID(e.f.PC.ID)},
		"store":     {catalog.FormatID(e.f.Steam.ID)},
		"award":     {""},
		"review":    {catalog.FormatID(e.f.Review.ID)},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	got, err := e.h.Games.Get(context.Background(), g.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AwardID)
	assert.Equal(t, e.f.Award.ID, *got.AwardID)
	require.NotNil(t, got.ReviewID)
	assert.Equal(t, e.f.Review.ID, *got.ReviewID)
}

func TestAdminCreateLookupReportsEveryFieldError(t *testing.T) {
	e := newEnv(t)
	_, err := e.h.Users.EnsureAdmin(context.Background(), "root", "admin-pass-1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, e.json(http.MethodPost, "/accounts/login/", map[string]string{"username": "root", "password": "admin-pass-1"}).Code)

	w := e.json(http.MethodPost, "/api/admin/lookups/multimedia/", map[string]string{"website": "nope", "store_link": "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Detail string            `json:"detail"`
		Errors map[string]string `json:"errors"`
	}
	decode(t, w, &body)
	assert.Equal(t, "store_link must be a valid URL", body.Detail)
	assert.Equal(t, map[string]string{
		"website":    "website must be a valid URL",
		"store_link": "store_link must be a valid URL",
	}, body.Errors)

	w = e.json(http.MethodPost, "/api/admin/lookups/dlcs/", map[string]string{"dlc_name": "Big", "dlc_price": "123456.789"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &body)
	assert.Contains(t, body.Errors, "dlc_price")
}
