package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gamesite/catalog"
	"gamesite/middleware"
	"gamesite/models"
	"gamesite/serializers"
	"gamesite/store"
	"gamesite/utils"

	"github.com/gin-gonic/gin"
)

type gameRow struct {
	Game        models.Game
	Whitelisted bool
}

// formField is one reference <select> of the add and edit forms.
type formField struct {
	Name     string
	Label    string
	Required bool
	Options  []store.Record
	Selected uint
}

type listPage struct {
	User      *models.User
	Games     []gameRow
	Genres    []store.Record
	Platforms []store.Record
	Stores    []store.Record
	Filter    catalog.Filter
	Fields    []formField
	Error     string
}

type updatePage struct {
	User   *models.User
	Game   *models.Game
	Fields []formField
	Error  string
}

type errorPage struct {
	Status  int
	Message string
}

func fieldLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "dlc" {
		return "DLC"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func formFields(options map[string][]store.Record, g *models.Game) []formField {
	fields := make([]formField, 0, len(models.Relations))
	for _, rel := range models.Relations {
		f := formField{
			Name:     rel.Field,
			Label:    fieldLabel(rel.Field),
			Required: rel.Required,
			Options:  options[rel.Field],
		}
		if g != nil {
			f.Selected, _ = g.RefID(rel.Field)
		}
		fields = append(fields, f)
	}
	return fields
}

// htmlError renders the error page for store errors.
func htmlError(c *gin.Context, err error) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		c.HTML(http.StatusBadRequest, "error.html", errorPage{http.StatusBadRequest, verr.Message})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errNotFound):
		c.HTML(http.StatusNotFound, "error.html", errorPage{http.StatusNotFound, "Not found."})
	default:
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, "error.html", errorPage{http.StatusInternalServerError, "Internal server error."})
	}
}

// listing builds the page shared by "/" and "/games/".
func (h *Handler) listing(c *gin.Context, withForm bool) (listPage, error) {
	ctx := c.Request.Context()
	page := listPage{
		User:   middleware.CurrentUser(c),
		Filter: catalog.ParseFilter(c.Request.URL.Query()),
	}

	viewer, err := h.viewer(c)
	if err != nil {
		return page, err
	}
	games, err := h.Games.List(ctx, page.Filter, middleware.CurrentUserID(c))
	if err != nil {
		return page, err
	}
	page.Games = make([]gameRow, len(games))
	for i, g := range games {
		page.Games[i] = gameRow{Game: g, Whitelisted: viewer.Has(g.ID)}
	}

	options, err := h.Lookups.Options(ctx)
	if err != nil {
		return page, err
	}
	page.Genres = options[models.FieldGenre]
	page.Platforms = options[models.FieldPlatform]
	page.Stores = options[models.FieldStore]
	if withForm {
		page.Fields = formFields(options, nil)
	}
	return page, nil
}

// Home - GET /
func (h *Handler) Home(c *gin.Context) {
	page, err := h.listing(c, false)
	if err != nil {
		htmlError(c, err)
		return
	}
	c.HTML(http.StatusOK, "home.html", page)
}

// GamesPage - GET /games/
func (h *Handler) GamesPage(c *gin.Context) {
	page, err := h.listing(c, true)
	if err != nil {
		htmlError(c, err)
		return
	}
	c.HTML(http.StatusOK, "games.html", page)
}

// CreateGameForm - POST /games/
func (h *Handler) CreateGameForm(c *gin.Context) {
	patch, err := bindGamePatch(c, true)
	if err == nil {
		var game *models.Game
		game, err = h.Games.Create(c.Request.Context(), patch)
		if err == nil {
			utils.LogInfo("Game created", logFields(c, map[string]interface{}{"game_id": game.ID}))
			c.Redirect(http.StatusFound, "/games/")
			return
		}
	}

	var verr *store.ValidationError
	if !errors.As(err, &verr) {
		htmlError(c, err)
		return
	}
	page, lerr := h.listing(c, true)
	if lerr != nil {
		htmlError(c, lerr)
		return
	}
	page.Error = verr.Error()
	c.HTML(http.StatusBadRequest, "games.html", page)
}

// UpdateGamePage - GET /update_game/:id/
func (h *Handler) UpdateGamePage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		htmlError(c, errNotFound)
		return
	}
	game, err := h.Games.Get(c.Request.Context(), id)
	if err != nil {
		htmlError(c, err)
		return
	}
	h.renderUpdate(c, http.StatusOK, game, "")
}

func (h *Handler) renderUpdate(c *gin.Context, status int, game *models.Game, msg string) {
	options, err := h.Lookups.Options(c.Request.Context())
	if err != nil {
		htmlError(c, err)
		return
	}
	c.HTML(status, "update_game.html", updatePage{
		User:   middleware.CurrentUser(c),
		Game:   game,
		Fields: formFields(options, game),
		Error:  msg,
	})
}

// UpdateGameForm - POST /update_game/:id/
//
// Name, genre, platform and store are always overwritten; optional
// references only change when the form supplies a value.
func (h *Handler) UpdateGameForm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		htmlError(c, errNotFound)
		return
	}
	ctx := c.Request.Context()
	// 404 before validating the form
	game, err := h.Games.Get(ctx, id)
	if err != nil {
		htmlError(c, err)
		return
	}

	patch, err := bindGamePatch(c, true)
	if err == nil {
		_, err = h.Games.Update(ctx, id, patch)
		if err == nil {
			utils.LogInfo("Game updated", logFields(c, map[string]interface{}{"game_id": id}))
			c.Redirect(http.StatusFound, "/games/")
			return
		}
	}
	var verr *store.ValidationError
	if !errors.As(err, &verr) {
		htmlError(c, err)
		return
	}
	h.renderUpdate(c, http.StatusBadRequest, game, verr.Error())
}

// DeleteGamePage - POST /delete_game/:id/
func (h *Handler) DeleteGamePage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		htmlError(c, errNotFound)
		return
	}
	name, err := h.Games.Delete(c.Request.Context(), id)
	if err != nil {
		htmlError(c, err)
		return
	}
	utils.LogInfo("Game deleted", logFields(c, map[string]interface{}{"game_id": id}))
	c.HTML(http.StatusOK, "delete_game.html", gin.H{"Name": name})
}

// GameDetailJSON - GET /game/:id/json/
func (h *Handler) GameDetailJSON(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFoundJSON(c)
		return
	}
	game, err := h.Games.Get(c.Request.Context(), id)
	if err != nil {
		jsonError(c, err)
		return
	}
	viewer, err := h.viewer(c)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializers.NewGameDetail(game, viewer))
}
