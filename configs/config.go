package config

import "os"

type Config struct {
	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRedirectURI     string
	YoutubeRedirectURI    string
	YoutubeAPIKey         string
	PinterestClientID     string
	PinterestClientSecret string
	PinterestRedirectURI  string
	InstagramClientID     string
	InstagramClientSecret string
	InstagramRedirectURI  string
	FacebookClientID      string
	FacebookClientSecret  string
	FacebookRedirectURI   string
	GeminiAPIKey          string
	PostgresURI           string
	RedisURI              string
	FrontendURL           string
	SecretKey             string
	CookieName            string
}

func LoadConfig() *Config {
	return &Config{
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:     getEnv("GOOGLE_REDIRECT_URI", ""),
		YoutubeRedirectURI:    getEnv("YOUTUBE_REDIRECT_URI", ""),
		YoutubeAPIKey:         getEnv("YOUTUBE_API_KEY", ""),
		PinterestClientID:     getEnv("PINTEREST_CLIENT_ID", ""),
		PinterestClientSecret: getEnv("PINTEREST_CLIENT_SECRET", ""),
		PinterestRedirectURI:  getEnv("PINTEREST_REDIRECT_URI", ""),
		InstagramClientID:     getEnv("INSTAGRAM_CLIENT_ID", ""),
		InstagramClientSecret: getEnv("INSTAGRAM_CLIENT_SECRET", ""),
		InstagramRedirectURI:  getEnv("INSTAGRAM_REDIRECT_URI", ""),
		FacebookClientID:      getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret:  getEnv("FACEBOOK_CLIENT_SECRET", ""),
		FacebookRedirectURI:   getEnv("FACEBOOK_REDIRECT_URI", ""),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		PostgresURI:           getEnv("POSTGRES_URI", ""),
		RedisURI:              getEnv("REDIS_URI", ""),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:             getEnv("SECRET_KEY", ""),
		CookieName:            getEnv("COOKIE_NAME", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
