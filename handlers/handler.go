package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gamesite/middleware"
	"gamesite/serializers"
	"gamesite/store"
	"gamesite/utils"

	"github.com/gin-gonic/gin"
)

// Handler serves the HTML pages and the JSON API.
type Handler struct {
	Games   *store.GameStore
	Users   *store.UserStore
	Lookups *store.LookupStore
}

func New(games *store.GameStore, users *store.UserStore, lookups *store.LookupStore) *Handler {
	return &Handler{Games: games, Users: users, Lookups: lookups}
}

// viewer loads the current user's whitelist. Anonymous requests get nil.
func (h *Handler) viewer(c *gin.Context) (serializers.Viewer, error) {
	id := middleware.CurrentUserID(c)
	if id == 0 {
		return nil, nil
	}
	ids, err := h.Users.WhitelistIDs(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	return serializers.Viewer(ids), nil
}

// paramID parses a positive integer path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

var errNotFound = errors.New("not found")

func notFoundJSON(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

// jsonError maps store errors onto API responses.
func jsonError(c *gin.Context, err error) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr) && verr.Unwrap() != nil:
		// struct validation: report every failing field
		utils.ValidationErrorResponse(c, verr.Unwrap())
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": verr.Message,
			"errors": gin.H{verr.Field: verr.Message},
		})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errNotFound):
		notFoundJSON(c)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}

func methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method not allowed. Use POST."})
}

// Health - liveness probe
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func logFields(c *gin.Context, extra map[string]interface{}) map[string]interface{} {
	fields := map[string]interface{}{
		"ip":      c.ClientIP(),
		"user_id": middleware.CurrentUserID(c),
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}
