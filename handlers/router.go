package handlers

import (
	"net/http"
	"time"

	"gamesite/authz"
	"gamesite/cache"
	"gamesite/middleware"
	"gamesite/monitoring"
	"gamesite/templates"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions carries everything the router needs besides the handler.
type RouterOptions struct {
	SessionSecret string
	SecureCookies bool
	CORSOrigins   []string
	Authorizer    *authz.Authorizer
	LoginLimiter  middleware.AttemptLimiter
}

// SetupRouter wires middleware and routes.
func SetupRouter(h *Handler, opts RouterOptions) (*gin.Engine, error) {
	tmpl, err := templates.Load()
	if err != nil {
		return nil, err
	}

	if opts.LoginLimiter == nil {
		opts.LoginLimiter = cache.NewLoginLimiter(nil, 0, 0)
	}
	corsConfig := cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.SetHTMLTemplate(tmpl)

	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.ErrorLogger(),
		monitoring.PrometheusMiddleware(),
		middleware.SecurityHeaders(),
		cors.New(corsConfig),
		middleware.Sessions(middleware.SessionOptions{
			Secret: opts.SessionSecret,
			Secure: opts.SecureCookies,
		}),
		middleware.LoadUser(h.Users),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method not allowed."})
	})

	r.GET("/healthz", Health)
	r.GET("/metrics", monitoring.PrometheusHandler())

	// Server-rendered pages
	r.GET("/", h.Home)
	r.GET("/games/", h.GamesPage)
	r.POST("/games/", h.CreateGameForm)
	r.GET("/update_game/:id/", h.UpdateGamePage)
	r.POST("/update_game/:id/", h.UpdateGameForm)
	r.POST("/delete_game/:id/", h.DeleteGamePage)
	r.GET("/game/:id/json/", h.GameDetailJSON)

	guard := opts.Authorizer.Middleware()
	r.POST("/whitelist/:id/", guard, h.ToggleWhitelist)

	accounts := r.Group("/accounts")
	{
		accounts.GET("/signup/", h.SignupPage)
		accounts.POST("/signup/", h.Signup)
		accounts.Any("/login/", middleware.LoginThrottle(opts.LoginLimiter), h.Login)
		accounts.Any("/logout/", h.Logout)
		accounts.GET("/me/", guard, h.Me)
	}

	api := r.Group("/api", guard)
	{
		api.GET("/games/", h.ListGamesAPI)
		api.POST("/games/", h.CreateGameAPI)
		api.GET("/games/:id/", h.GetGameAPI)
		api.PUT("/games/:id/", h.UpdateGameAPI)
		api.PATCH("/games/:id/", h.UpdateGameAPI)
		api.DELETE("/games/:id/", h.DeleteGameAPI)

		for _, kind := range []string{"genres", "platforms", "stores"} {
			api.GET("/"+kind+"/", h.ListLookupAPI(kind))
			api.GET("/"+kind+"/:id/", h.GetLookupAPI(kind))
		}

		admin := api.Group("/admin")
		{
			admin.GET("/lookups/:kind/", h.AdminListLookups)
			admin.POST("/lookups/:kind/", h.AdminCreateLookup)
			admin.DELETE("/lookups/:kind/:id/", h.AdminDeleteLookup)
			admin.GET("/stats/", h.AdminStats)
		}
	}

	return r, nil
}
