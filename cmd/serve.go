package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamesite/authz"
	"gamesite/cache"
	"gamesite/config"
	"gamesite/db"
	"gamesite/handlers"
	"gamesite/monitoring"
	"gamesite/store"
	"gamesite/utils"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, conn, err := bootstrap()
	if err != nil {
		return err
	}
	if err := db.Migrate(conn); err != nil {
		return err
	}
	monitoring.InitMetrics()

	var limiterClient *cache.Client
	if cfg.RedisURL != "" {
		limiterClient, err = cache.Connect(cache.Options{Addr: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			utils.LogWarn("Redis unavailable, login throttling disabled", map[string]interface{}{"error": err.Error()})
			limiterClient = nil
		} else {
			utils.LogInfo("Redis connected", map[string]interface{}{"addr": cfg.RedisURL})
			defer limiterClient.Close()
		}
	}

	authorizer, err := authz.New()
	if err != nil {
		return err
	}

	h := handlers.New(store.NewGameStore(conn), store.NewUserStore(conn), store.NewLookupStore(conn))
	router, err := handlers.SetupRouter(h, handlers.RouterOptions{
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.SessionSecure || cfg.UseHTTPS,
		CORSOrigins:   cfg.Origins(),
		Authorizer:    authorizer,
		LoginLimiter:  cache.NewLoginLimiter(limiterClient, cfg.LoginMaxAttempts, cfg.LoginWindow),
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return listen(cmd.Context(), server, cfg)
}

// listen serves until SIGINT/SIGTERM, then shuts down gracefully.
func listen(ctx context.Context, server *http.Server, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if cfg.UseHTTPS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			server.TLSConfig = &tls.Config{
				MinVersion:       tls.VersionTLS12,
				CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256, tls.CurveP384},
			}
			utils.LogInfo("Starting HTTPS server", map[string]interface{}{
				"port": cfg.Port,
				"cert": cfg.TLSCertFile,
			})
			errCh <- server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		utils.LogInfo("Starting HTTP server", map[string]interface{}{"port": cfg.Port})
		if cfg.IsRelease() {
			utils.LogWarn("Running without HTTPS. Set USE_HTTPS=true for production", nil)
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	utils.LogInfo("Shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
