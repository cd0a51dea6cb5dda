package config

import "os"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	JWTSecret  string
	CORSOrigin string
	StaticDir  string
}

func Load() *Config {
	return &Config{
		Port:       getenv("PORT", "3000"),
		MongoURI:   getenv("MONGO_URI", ""),
		MongoDB:    getenv("MONGO_DB", "jobtrack"),
		JWTSecret:  getenv("JWT_SECRET", ""),
		CORSOrigin: getenv("CORS_ORIGIN", "*"),
		StaticDir:  getenv("STATIC_DIR", "frontend/dist"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
