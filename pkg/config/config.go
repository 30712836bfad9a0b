package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	GoogleApiKey   string
	DatabaseURL    string
	SearchModel    string
	ChatModel      string
	DraftModel     string
	Port           string
	AgentInterval  time.Duration
	ChunkSize      int
	ChunkOverlap   int
	SafetyPolicy   string
	ChatSystemRole string
}

func Load() *Config {
	return &Config{
		GoogleApiKey:   getEnv("GOOGLE_API_KEY", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SearchModel:    getEnv("SEARCH_MODEL", "gemini-3-flash-preview"),
		ChatModel:      getEnv("CHAT_MODEL", "gemini-3-flash-preview"),
		DraftModel:     getEnv("DRAFT_MODEL", "gemini-3-flash-preview"),
		Port:           getEnv("PORT", "3000"),
		AgentInterval:  getEnvAsDuration("AGENT_INTERVAL", 60*time.Second),
		ChunkSize:      getEnvAsInt("CHUNK_SIZE", 8000),
		ChunkOverlap:   getEnvAsInt("CHUNK_OVERLAP", 200),
		SafetyPolicy:   getEnv("SAFETY_POLICY_FILE", ""),
		ChatSystemRole: getEnv("CHAT_SYSTEM_ROLE", defaultChatSystemRole),
	}
}

const defaultChatSystemRole = "You are a friendly and knowledgeable rental housing assistant. Help the user evaluate listings, neighborhoods, lease terms and application paperwork. Keep answers practical and concise."

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
