package handlers

import (
	"fmt"
	"net/http"

	"gamesite/catalog"
	"gamesite/middleware"
	"gamesite/serializers"
	"gamesite/store"
	"gamesite/utils"

	"github.com/gin-gonic/gin"
)

// ListGamesAPI - GET /api/games/
func (h *Handler) ListGamesAPI(c *gin.Context) {
	f := catalog.ParseFilter(c.Request.URL.Query())
	games, err := h.Games.List(c.Request.Context(), f, middleware.CurrentUserID(c))
	if err != nil {
		jsonError(c, err)
		return
	}
	viewer, err := h.viewer(c)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializers.NewGameResources(games, viewer))
}

// GetGameAPI - GET /api/games/:id/
func (h *Handler) GetGameAPI(c *gin.Context) {
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
	c.JSON(http.StatusOK, serializers.NewGameResource(game, viewer))
}

// CreateGameAPI - POST /api/games/
func (h *Handler) CreateGameAPI(c *gin.Context) {
	patch, err := bindGamePatch(c, true)
	if err != nil {
		jsonError(c, err)
		return
	}
	game, err := h.Games.Create(c.Request.Context(), patch)
	if err != nil {
		jsonError(c, err)
		return
	}
	utils.LogInfo("Game created", logFields(c, map[string]interface{}{"game_id": game.ID}))
	viewer, err := h.viewer(c)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializers.NewGameResource(game, viewer))
}

// UpdateGameAPI serves PUT (full) and PATCH (partial) on /api/games/:id/.
func (h *Handler) UpdateGameAPI(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFoundJSON(c)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Games.Get(ctx, id); err != nil {
		jsonError(c, err)
		return
	}

	patch, err := bindGamePatch(c, c.Request.Method == http.MethodPut)
	if err != nil {
		jsonError(c, err)
		return
	}
	game, err := h.Games.Update(ctx, id, patch)
	if err != nil {
		jsonError(c, err)
		return
	}
	utils.LogInfo("Game updated", logFields(c, map[string]interface{}{"game_id": id}))
	viewer, err := h.viewer(c)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializers.NewGameResource(game, viewer))
}

// DeleteGameAPI - DELETE /api/games/:id/
func (h *Handler) DeleteGameAPI(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFoundJSON(c)
		return
	}
	name, err := h.Games.Delete(c.Request.Context(), id)
	if err != nil {
		jsonError(c, err)
		return
	}
	utils.LogInfo("Game deleted", logFields(c, map[string]interface{}{"game_id": id}))
	c.JSON(http.StatusOK, gin.H{"detail": fmt.Sprintf("%s has been deleted.", name)})
}

// ListLookupAPI returns {id, name} rows of one lookup table.
func (h *Handler) ListLookupAPI(kind string) gin.HandlerFunc {
	k, ok := store.KindByName(kind)
	if !ok {
		panic("handlers: unknown lookup kind " + kind)
	}
	return func(c *gin.Context) {
		recs, err := h.Lookups.List(c.Request.Context(), k)
		if err != nil {
			jsonError(c, err)
			return
		}
		c.JSON(http.StatusOK, serializers.NewLookups(recs))
	}
}

func (h *Handler) GetLookupAPI(kind string) gin.HandlerFunc {
	k, ok := store.KindByName(kind)
	if !ok {
		panic("handlers: unknown lookup kind " + kind)
	}
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			notFoundJSON(c)
			return
		}
		rec, err := h.Lookups.Get(c.Request.Context(), k, id)
		if err != nil {
			jsonError(c, err)
			return
		}
		c.JSON(http.StatusOK, serializers.NewLookup(rec))
	}
}
