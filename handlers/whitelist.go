package handlers

import (
	"net/http"

	"gamesite/middleware"
	"gamesite/monitoring"
	"gamesite/utils"

	"github.com/gin-gonic/gin"
)

// ToggleWhitelist - POST /whitelist/:id/
//
// Adds the game to the user's whitelist or removes it, then sends the
// browser back to the page it came from.
func (h *Handler) ToggleWhitelist(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		notFoundJSON(c)
		return
	}

	added, err := h.Users.ToggleWhitelist(c.Request.Context(), user.ID, id)
	if err != nil {
		jsonError(c, err)
		return
	}

	action := "removed"
	if added {
		action = "added"
	}
	monitoring.WhitelistToggles.WithLabelValues(action).Inc()
	utils.LogDebug("Whitelist toggled", map[string]interface{}{"user_id": user.ID, "game_id": id, "action": action})

	c.Redirect(http.StatusFound, safeRedirect(c, c.Request.Referer()))
}
