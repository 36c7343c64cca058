package config

import (
	"os"
	"strconv"
)

type Config struct {
	// client side
	BaseURL         string
	ConversationID  int64
	PollIntervalSec int
	SessionFile     string
	// server side
	Addr      string
	JWTSecret string
	JWTTTLMin int
	DBDriver  string
	SQLiteDSN string
	PGDSN     string
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}
	return def
}

func MustLoad() Config {
	pollSec, _ := strconv.Atoi(getenv("POLL_INTERVAL_SEC", "3"))
	jwtttl, _ := strconv.Atoi(getenv("JWT_TTL_MIN", "1440"))
	convoID, _ := strconv.ParseInt(getenv("CONVERSATION_ID", "1"), 10, 64)

	cfg := Config{
		BaseURL:         getenv("CHAT_BASE_URL", "http://localhost:8082"),
		ConversationID:  convoID,
		PollIntervalSec: pollSec,
		SessionFile:     getenv("SESSION_FILE", ""),
		Addr:            getenv("HTTP_ADDR", ":8082"),
		JWTSecret:       getenv("JWT_SECRET", "dev-secret"),
		JWTTTLMin:       jwtttl,
		DBDriver:        getenv("DB_DRIVER", "sqlite"),
		SQLiteDSN:       getenv("SQLITE_DSN", "file:ghichat.db?_pragma=foreign_keys(ON)"),
		PGDSN:           getenv("PG_DSN", ""),
	}
	return cfg
}

// DSN picks the connection string matching DBDriver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.PGDSN
	}
	return c.SQLiteDSN
}
