package utils

import (
	"os"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Addr string
}

// LoadServerConfig reads .env when present, then the environment,
// falling back to dev defaults.
func LoadServerConfig() ServerConfig {
	_ = godotenv.Load()

	addr := os.Getenv("LIBRARIAN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return ServerConfig{Addr: addr}
}
