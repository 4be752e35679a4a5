package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for LIFF token verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	MongoURI             string
	MongoDatabase        string
	StoreCollection      string
	Timeout              time.Duration
	Timezone             string
	ServerLog            *log.Logger
	JWTConfigs           []JWTConfig
	JWTAudience          string
	MessengerEndpoint    string
	MessengerDestination string
	MessengerTimeout     time.Duration
	AvailabilityBaseURL  string
	ReservationBaseURL   string
	ExternalTimeout      time.Duration
	GitHubAPIBaseURL     string
	GitHubRepo           string
	GitHubToken          string
	SessionTTL           time.Duration
	AllowedOrigins       []string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	messengerEndpoint := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL"))
	if messengerEndpoint == "" {
		messengerEndpoint = "http://messenger-gateway:3000"
	}

	messengerDestination := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_DESTINATION"))
	if messengerDestination == "" {
		messengerDestination = "line"
	}

	messengerTimeout := 3 * time.Second
	if raw := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			messengerTimeout = parsed
		}
	}

	externalTimeout := 10 * time.Second
	if raw := strings.TrimSpace(os.Getenv("EXTERNAL_API_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			externalTimeout = parsed
		}
	}

	sessionTTL := 2 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			sessionTTL = parsed
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	// LIFF トークン検証は任意設定。未設定でも予約フローは動作し、
	// 確認メッセージ送信だけが行われなくなる。
	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_LIFF_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_LIFF_JWT_ISSUER", "line-forms-auth"),
			Secret: []byte(secret),
		})
	}
	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_LIFF_JWT_AUDIENCE"))

	cfg := Config{
		Addr:                 envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:             envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        envOrDefault("MONGO_DB", "line-forms"),
		StoreCollection:      envOrDefault("STORE_COLLECTION", "stores"),
		Timeout:              timeout,
		Timezone:             envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:            log.New(os.Stdout, "[line-forms-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:           jwtConfigs,
		JWTAudience:          jwtAudience,
		MessengerEndpoint:    messengerEndpoint,
		MessengerDestination: messengerDestination,
		MessengerTimeout:     messengerTimeout,
		AvailabilityBaseURL:  strings.TrimSpace(os.Getenv("GAS_AVAILABILITY_URL")),
		ReservationBaseURL:   strings.TrimSpace(os.Getenv("GAS_RESERVATION_URL")),
		ExternalTimeout:      externalTimeout,
		GitHubAPIBaseURL:     strings.TrimSpace(os.Getenv("GITHUB_API_URL")),
		GitHubRepo:           strings.TrimSpace(os.Getenv("GITHUB_REPO")),
		GitHubToken:          strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		SessionTTL:           sessionTTL,
		AllowedOrigins:       allowedOrigins,
	}

	if cfg.AvailabilityBaseURL == "" || cfg.ReservationBaseURL == "" {
		cfg.ServerLog.Printf("警告: GAS_AVAILABILITY_URL / GAS_RESERVATION_URL が未設定です。予約フローは動作しません。")
	}
	if cfg.GitHubRepo == "" || cfg.GitHubToken == "" {
		cfg.ServerLog.Printf("警告: GITHUB_REPO / GITHUB_TOKEN が未設定です。webhook リレーは動作しません。")
	}
	cfg.ServerLog.Printf("loaded config: availability=%q reservation=%q messengerEndpoint=%q destination=%q", cfg.AvailabilityBaseURL, cfg.ReservationBaseURL, messengerEndpoint, messengerDestination)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
