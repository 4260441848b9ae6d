package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port     string `mapstructure:"PORT"`
	GinMode  string `mapstructure:"GIN_MODE"`
	DBDriver string `mapstructure:"DB_DRIVER"`
	// DatabaseURL is a postgres DSN, or a file path when DBDriver is sqlite.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	SessionSecret string `mapstructure:"SESSION_SECRET"`
	SessionSecure bool   `mapstructure:"SESSION_SECURE"`
	CORSOrigins   string `mapstructure:"CORS_ORIGINS"`

	RedisURL         string        `mapstructure:"REDIS_URL"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	LoginMaxAttempts int           `mapstructure:"LOGIN_MAX_ATTEMPTS"`
	LoginWindow      time.Duration `mapstructure:"LOGIN_WINDOW"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	UseHTTPS    bool   `mapstructure:"USE_HTTPS"`
	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`
}

var keys = []string{
	"PORT", "GIN_MODE", "DB_DRIVER", "DATABASE_URL", "SESSION_SECRET", "SESSION_SECURE",
	"CORS_ORIGINS", "REDIS_URL", "REDIS_PASSWORD", "LOGIN_MAX_ATTEMPTS", "LOGIN_WINDOW",
	"LOG_LEVEL", "LOG_FILE", "USE_HTTPS", "TLS_CERT_FILE", "TLS_KEY_FILE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost port=5432 user=postgres dbname=gamesite sslmode=disable")
	v.SetDefault("SESSION_SECRET", "change-me-in-production")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:8081")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_WINDOW", 15*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "logs/app.log")
	v.SetDefault("USE_HTTPS", false)
	v.SetDefault("TLS_CERT_FILE", "")
	v.SetDefault("TLS_KEY_FILE", "")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about; AutomaticEnv alone is lazy.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits CORS_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) IsRelease() bool { return c.GinMode == "release" }
