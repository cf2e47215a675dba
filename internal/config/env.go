package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr   string // BILLINO_ADDR (default ":8080")
	GinMode   string // GIN_MODE
	DBDSN     string // BILLINO_DB_DSN
	JWTSecret string // BILLINO_JWT_SECRET
	Debug     bool   // BILLINO_DEBUG ("1"/"true")
}

func LoadEnv() Env {
	debug := strings.TrimSpace(os.Getenv("BILLINO_DEBUG"))
	return Env{
		AppAddr: envOrDefault("BILLINO_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN: envOrDefault("BILLINO_DB_DSN",
			"root:@tcp(127.0.0.1:3306)/billino?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"),
		JWTSecret: envOrDefault("BILLINO_JWT_SECRET", "dev-secret-change-me"),
		Debug:     debug == "1" || strings.EqualFold(debug, "true"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
