package config

import (
	"os"
	"strings"
)

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

// Port returns the listen address, ":8080" unless APP_PORT is set.
func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	if port[0] != ':' {
		port = ":" + port
	}
	return port
}

// AllowedOrigins reads the comma-separated CORS_ALLOWED_ORIGINS list. An
// empty list allows any origin.
func AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
