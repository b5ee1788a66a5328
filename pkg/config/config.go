package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort       string
	Environment      string
	FirebaseProject  string
	FirebaseAPIKey   string
	StorageBucket    string
	PasswordResetURL string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		FirebaseProject:  getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseAPIKey:   getEnv("FIREBASE_API_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", ""),
		PasswordResetURL: getEnv("PASSWORD_RESET_URL", "http://localhost:3000/update-password"),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
