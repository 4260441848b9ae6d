package middleware

import (
	"context"
	"net/http"

	"gamesite/models"
	"gamesite/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	SessionName = "gamesite_session"
	// SessionUserKey holds the logged-in user's id in the session.
	SessionUserKey = "user_id"
	// UserKey holds the resolved *models.User in the gin context.
	UserKey = "user"
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	Secret string
	Secure bool
}

// Sessions installs the cookie session store.
func Sessions(opts SessionOptions) gin.HandlerFunc {
	store := cookie.NewStore([]byte(opts.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 3600,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(SessionName, store)
}

// UserLoader resolves a session user id.
type UserLoader interface {
	Get(ctx context.Context, id uint) (*models.User, error)
}

// LoadUser puts the session's user into the context. Stale or inactive
// sessions are cleared and the request continues anonymously.
func LoadUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(SessionUserKey).(uint)
		if !ok || id == 0 {
			c.Next()
			return
		}
		user, err := users.Get(c.Request.Context(), id)
		if err != nil || !user.IsActive {
			if err != nil {
				utils.LogDebug("Dropping stale session", map[string]interface{}{"user_id": id, "error": err.Error()})
			}
			session.Clear()
			_ = session.Save()
			c.Next()
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// CurrentUserID is 0 for anonymous requests.
func CurrentUserID(c *gin.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

// Login stores the user in the session.
func Login(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(SessionUserKey, user.ID)
	return session.Save()
}

// Logout clears the session. It is a no-op without one.
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}
