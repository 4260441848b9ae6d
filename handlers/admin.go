package handlers

import (
	"fmt"
	"io"
	"net/http"

	"gamesite/concurrent"
	"gamesite/models"
	"gamesite/monitoring"
	"gamesite/store"
	"gamesite/utils"

	"github.com/gin-gonic/gin"
)

func lookupKind(c *gin.Context) (store.Kind, bool) {
	k, ok := store.KindByName(c.Param("kind"))
	if !ok {
		notFoundJSON(c)
	}
	return k, ok
}

// AdminListLookups - GET /api/admin/lookups/:kind/
func (h *Handler) AdminListLookups(c *gin.Context) {
	k, ok := lookupKind(c)
	if !ok {
		return
	}
	recs, err := h.Lookups.List(c.Request.Context(), k)
	if err != nil {
		jsonError(c, err)
		return
	}
	rows := make([]models.Entity, len(recs))
	for i, r := range recs {
		rows[i] = r.Value
	}
	c.JSON(http.StatusOK, rows)
}

// AdminCreateLookup - POST /api/admin/lookups/:kind/
func (h *Handler) AdminCreateLookup(c *gin.Context) {
	k, ok := lookupKind(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		jsonError(c, err)
		return
	}
	rec, err := h.Lookups.Create(c.Request.Context(), k, body)
	if err != nil {
		jsonError(c, err)
		return
	}
	utils.LogInfo("Lookup created", logFields(c, map[string]interface{}{"kind": k.Name, "id": rec.ID}))
	c.JSON(http.StatusCreated, rec.Value)
}

// AdminDeleteLookup - DELETE /api/admin/lookups/:kind/:id/
//
// Games referencing a deleted genre, platform or store go with it; other
// references are cleared.
func (h *Handler) AdminDeleteLookup(c *gin.Context) {
	k, ok := lookupKind(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		notFoundJSON(c)
		return
	}
	res, err := h.Lookups.Delete(c.Request.Context(), k, id)
	if err != nil {
		jsonError(c, err)
		return
	}
	monitoring.LookupDeletes.WithLabelValues(k.Name).Inc()
	utils.LogInfo("Lookup deleted", logFields(c, map[string]interface{}{
		"kind":          k.Name,
		"id":            id,
		"games_deleted": res.GamesDeleted,
		"games_cleared": res.GamesCleared,
	}))
	c.JSON(http.StatusOK, gin.H{
		"detail":        fmt.Sprintf("%s has been deleted.", res.Name),
		"games_deleted": res.GamesDeleted,
		"games_cleared": res.GamesCleared,
	})
}

// AdminStats - GET /api/admin/stats/
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := concurrent.CalculateDashboardStats(c.Request.Context(), concurrent.Sources{
		Games:   h.Games,
		Users:   h.Users,
		Lookups: h.Lookups,
	})
	if err != nil {
		jsonError(c, err)
		return
	}
	monitoring.TotalGames.Set(float64(stats.TotalGames))
	monitoring.TotalUsers.Set(float64(stats.TotalUsers))
	c.JSON(http.StatusOK, stats)
}
