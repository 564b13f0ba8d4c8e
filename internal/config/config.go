package config

import (
	"os"
	"strings"
)

// OAuthProviderConfig holds the credentials and endpoints for one OAuth provider.
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scope        string
	RedirectURI  string
}

type Config struct {
	DatabaseURL      string // sqlite path by default, postgres:// URI supported
	RedisURI         string // optional; in-memory session tokens when empty
	DataDir          string // JSON document directory
	JWTSecret        string
	GeminiAPIKey     string
	Port             string
	FrontendURL      string
	AllowedOrigins   []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	OAuthRedirectURI string   // base redirect; provider tag appended as query param
	OAuthProviders   map[string]OAuthProviderConfig

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	Environment string // ENV: production, development, etc.
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	redirectURI := getEnv("OAUTH_REDIRECT_URI", "http://localhost:8080/api/auth/oauth/callback")

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "talkheal.db"),
		RedisURI:         getEnv("REDIS_URI", ""),
		DataDir:          getEnv("DATA_DIR", "data"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		Port:             getEnv("PORT", "8080"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:   allowedOrigins,
		OAuthRedirectURI: redirectURI,
		OAuthProviders:   loadOAuthProviders(redirectURI),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		Environment: env,
	}
}

// loadOAuthProviders builds the provider table from environment variables.
// A provider is only registered when both its client id and secret are set.
func loadOAuthProviders(redirectURI string) map[string]OAuthProviderConfig {
	providers := make(map[string]OAuthProviderConfig)

	if id, secret := os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"); id != "" && secret != "" {
		providers["google"] = OAuthProviderConfig{
			ClientID:     id,
			ClientSecret: secret,
			AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL:     "https://oauth2.googleapis.com/token",
			UserInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
			Scope:        "openid email profile",
			RedirectURI:  redirectURI + "?provider=google",
		}
	}

	if id, secret := os.Getenv("GITHUB_CLIENT_ID"), os.Getenv("GITHUB_CLIENT_SECRET"); id != "" && secret != "" {
		providers["github"] = OAuthProviderConfig{
			ClientID:     id,
			ClientSecret: secret,
			AuthURL:      "https://github.com/login/oauth/authorize",
			TokenURL:     "https://github.com/login/oauth/access_token",
			UserInfoURL:  "https://api.github.com/user",
			Scope:        "user:email",
			RedirectURI:  redirectURI + "?provider=github",
		}
	}

	if id, secret := os.Getenv("MICROSOFT_CLIENT_ID"), os.Getenv("MICROSOFT_CLIENT_SECRET"); id != "" && secret != "" {
		providers["microsoft"] = OAuthProviderConfig{
			ClientID:     id,
			ClientSecret: secret,
			AuthURL:      "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
			TokenURL:     "https://login.microsoftonline.com/common/oauth2/v2.0/token",
			UserInfoURL:  "https://graph.microsoft.com/v1.0/me",
			Scope:        "openid email profile",
			RedirectURI:  redirectURI + "?provider=microsoft",
		}
	}

	return providers
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
