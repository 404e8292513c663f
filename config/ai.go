package config

import (
	"cothread/services/ai"
	"os"
	"strconv"
	"time"
)

// LoadAIConfig builds the AI adapter configuration from the environment.
// All env reads live here so the adapter itself never touches os.Getenv.
func LoadAIConfig() ai.Config {
	c := ai.Config{
		APIKey:  os.Getenv("GROQ_API_KEY"),
		Model:   getenv("GROQ_MODEL", "llama-3.1-8b-instant"),
		BaseURL: getenv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Timeout: 10 * time.Second,
	}
	if ms := os.Getenv("GROQ_TIMEOUT_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n > 0 {
			c.Timeout = time.Duration(n) * time.Millisecond
		}
	}
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
