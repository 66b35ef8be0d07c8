package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gauss2302/jobhub/internal/domain/oauth"
)

// Config contains runtime configuration values.
type Config struct {
	Environment          string
	HTTPPort             string
	ServiceName          string
	DatabaseURL          string
	RedisURL             string
	SecretKey            string
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	OAuthStateTTL        time.Duration
	Google               oauth.ProviderConfig
	GitHub               oauth.ProviderConfig
	AdminEmail           string
	AdminPassword        string
	RateLimitRPM         int
	AuthRateLimitRPM     int
	TelemetryEndpoint    string
	TelemetryInsecure    bool
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if len(secret) < 32 {
		return Config{}, fmt.Errorf("SECRET_KEY is required and must be at least 32 characters")
	}

	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "8000"),
		ServiceName:          getEnv("SERVICE_NAME", "jobhub-api"),
		DatabaseURL:          databaseURL(),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SecretKey:            secret,
		AccessTokenTTL:       minutes("ACCESS_TOKEN_EXPIRE_MINUTES", 30*time.Minute),
		RefreshTokenTTL:      minutes("REFRESH_TOKEN_EXPIRE_MINUTES", 7*24*time.Hour),
		OAuthStateTTL:        getDuration("OAUTH_STATE_TTL", 10*time.Minute),
		Google:               googleProvider(),
		GitHub:               githubProvider(),
		AdminEmail:           strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 600),
		AuthRateLimitRPM:     getInt("AUTH_RATE_LIMIT_RPM", 30),
		TelemetryEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:    getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type", "X-Request-ID"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", false),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL or the POSTGRES_* variables are required")
	}

	return cfg, nil
}

// databaseURL prefers an explicit DATABASE_URL and otherwise assembles a DSN
// from the individual POSTGRES_* variables.
func databaseURL() string {
	if url := strings.TrimSpace(os.Getenv("DATABASE_URL")); url != "" {
		return url
	}
	server := os.Getenv("POSTGRES_SERVER")
	user := os.Getenv("POSTGRES_USER")
	db := os.Getenv("POSTGRES_DB")
	if server == "" || user == "" || db == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		user,
		os.Getenv("POSTGRES_PASSWORD"),
		server,
		getEnv("POSTGRES_PORT", "5432"),
		db,
	)
}

func googleProvider() oauth.ProviderConfig {
	return oauth.ProviderConfig{
		Name:         "google",
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),
		AuthURL:      "https://accounts.google.com/o/oauth2/auth",
		TokenURL:     "https://oauth2.googleapis.com/token",
		UserInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
		Scopes:       []string{"openid", "email", "profile"},
		UsePKCE:      true,
	}
}

func githubProvider() oauth.ProviderConfig {
	return oauth.ProviderConfig{
		Name:         "github",
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("GITHUB_REDIRECT_URI"),
		AuthURL:      "https://github.com/login/oauth/authorize",
		TokenURL:     "https://github.com/login/oauth/access_token",
		UserInfoURL:  "https://api.github.com/user",
		Scopes:       []string{"read:user", "user:email"},
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func minutes(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
