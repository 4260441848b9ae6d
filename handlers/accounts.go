package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"gamesite/middleware"
	"gamesite/models"
	"gamesite/monitoring"
	"gamesite/store"
	"gamesite/utils"

	"github.com/gin-gonic/gin"
)

type signupPage struct {
	Form   models.RegisterInput
	Errors map[string]string
}

// SignupPage - GET /accounts/signup/
func (h *Handler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", signupPage{Form: models.RegisterInput{UserType: models.UserTypeGamer}})
}

// Signup - POST /accounts/signup/
//
// Form posts get the page back (400) or a redirect home; JSON posts get
// JSON.
func (h *Handler) Signup(c *gin.Context) {
	wantsJSON := c.ContentType() == gin.MIMEJSON

	var in models.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		h.signupFailed(c, wantsJSON, in, &store.ValidationError{Field: "non_field_errors", Message: "Malformed request body."})
		return
	}

	user, err := h.Users.Create(c.Request.Context(), in)
	if err != nil {
		var verr *store.ValidationError
		if !errors.As(err, &verr) {
			if wantsJSON {
				jsonError(c, err)
			} else {
				htmlError(c, err)
			}
			return
		}
		h.signupFailed(c, wantsJSON, in, verr)
		return
	}

	utils.LogInfo("User registered", map[string]interface{}{
		"user_id":   user.ID,
		"username":  user.Username,
		"user_type": user.UserType,
	})
	if wantsJSON {
		c.JSON(http.StatusCreated, gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"user_type": user.UserType,
		})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) signupFailed(c *gin.Context, wantsJSON bool, in models.RegisterInput, verr *store.ValidationError) {
	if wantsJSON {
		jsonError(c, verr)
		return
	}
	errs := map[string]string{verr.Field: verr.Message}
	if cause := verr.Unwrap(); cause != nil {
		errs = utils.ValidationErrors(cause)
	}
	in.Password1, in.Password2 = "", ""
	c.HTML(http.StatusBadRequest, "signup.html", signupPage{Form: in, Errors: errs})
}

// Login - POST /accounts/login/
func (h *Handler) Login(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		methodNotAllowed(c)
		return
	}

	var in models.LoginInput
	_ = c.ShouldBind(&in)
	if in.Username == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Both username and password are required."})
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		if !errors.Is(err, store.ErrInvalidCredentials) {
			jsonError(c, err)
			return
		}
		c.Set(middleware.LoginOutcomeKey, middleware.LoginFailed)
		monitoring.AuthenticationAttempts.WithLabelValues("failure").Inc()
		utils.LogWarn("Failed login attempt", map[string]interface{}{"username": in.Username, "ip": c.ClientIP()})
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid credentials."})
		return
	}

	if err := middleware.Login(c, user); err != nil {
		jsonError(c, err)
		return
	}
	c.Set(middleware.LoginOutcomeKey, middleware.LoginSucceeded)
	monitoring.AuthenticationAttempts.WithLabelValues("success").Inc()
	utils.LogInfo("User logged in", map[string]interface{}{"user_id": user.ID, "ip": c.ClientIP()})
	c.JSON(http.StatusOK, gin.H{"detail": "Logged in", "username": user.Username})
}

// Logout - POST /accounts/logout/. Succeeds with or without a session.
func (h *Handler) Logout(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		methodNotAllowed(c)
		return
	}
	if err := middleware.Logout(c); err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Logged out"})
}

// Me - GET /accounts/me/
func (h *Handler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}
	ids, err := h.Users.WhitelistIDs(c.Request.Context(), user.ID)
	if err != nil {
		jsonError(c, err)
		return
	}
	games := make([]uint, 0, len(ids))
	for id := range ids {
		games = append(games, id)
	}
	sort.Slice(games, func(i, j int) bool { return games[i] < games[j] })

	c.JSON(http.StatusOK, gin.H{
		"id":                user.ID,
		"username":          user.Username,
		"user_type":         user.UserType,
		"is_staff":          user.IsStaff,
		"whitelisted_games": games,
	})
}

// safeRedirect keeps redirects on this site.
func safeRedirect(c *gin.Context, target string) string {
	if target == "" {
		return "/"
	}
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return target
	}
	host := c.Request.Host
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(target, scheme+host+"/") || target == scheme+host {
			return target
		}
	}
	return "/"
}
