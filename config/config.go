// Package config loads the bot configuration from the environment. A .env
// file in the working directory is honored when present so local runs do not
// need exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Solve policies for a correctly guessed riddle.
const (
	SolvePolicyConsume = "consume" // delete the riddle from the bank
	SolvePolicyMark    = "mark"    // record the solver, exclude until reset
)

// Channel policy modes.
const (
	ChannelPolicyAllow = "allow"
	ChannelPolicyDeny  = "deny"
)

// Match strategies for guess comparison.
const (
	MatchExact = "exact"
	MatchFuzzy = "fuzzy"
)

// Config holds every runtime knob of the bot.
type Config struct {
	DiscordToken string
	HTTPPort     int
	DataDir      string

	CommandPrefix       string
	CooldownSeconds     int
	CooldownResetOnPost bool
	SolvePolicy         string
	ChannelPolicyMode   string
	MatchStrategy       string
	FuzzyThreshold      float64

	AdminChannelID string
	AdminRoleID    string
	DailyPostTime  string
	PostChannelID  string

	DialogTimeout time.Duration

	PostgresURL string
	LogLevel    string
}

// Load reads the environment (and an optional .env file) into a Config.
// The Discord token is the only required value.
func Load() (Config, error) {
	// missing .env is fine, env vars may already be exported
	_ = godotenv.Load()

	cfg := Config{
		DiscordToken:        os.Getenv("DISCORD_TOKEN"),
		HTTPPort:            envInt("HTTP_PORT", 8080),
		DataDir:             envString("DATA_DIR", "data"),
		CommandPrefix:       envString("COMMAND_PREFIX", "!"),
		CooldownSeconds:     envInt("COOLDOWN_SECONDS", 300),
		CooldownResetOnPost: envBool("COOLDOWN_RESET_ON_POST", false),
		SolvePolicy:         envString("SOLVE_POLICY", SolvePolicyConsume),
		ChannelPolicyMode:   envString("CHANNEL_POLICY_MODE", ChannelPolicyAllow),
		MatchStrategy:       envString("MATCH_STRATEGY", MatchExact),
		FuzzyThreshold:      envFloat("FUZZY_THRESHOLD", 1.0),
		AdminChannelID:      os.Getenv("ADMIN_CHANNEL_ID"),
		AdminRoleID:         os.Getenv("ADMIN_ROLE_ID"),
		DailyPostTime:       envString("DAILY_POST_TIME", "09:00"),
		PostChannelID:       os.Getenv("POST_CHANNEL_ID"),
		DialogTimeout:       time.Duration(envInt("DIALOG_TIMEOUT_SECONDS", 60)) * time.Second,
		PostgresURL:         os.Getenv("POSTGRES_URL"),
		LogLevel:            envString("LOG_LEVEL", "info"),
	}

	if cfg.DiscordToken == "" {
		return Config{}, fmt.Errorf("DISCORD_TOKEN is not set")
	}
	if cfg.SolvePolicy != SolvePolicyConsume && cfg.SolvePolicy != SolvePolicyMark {
		return Config{}, fmt.Errorf("invalid SOLVE_POLICY %q", cfg.SolvePolicy)
	}
	if cfg.ChannelPolicyMode != ChannelPolicyAllow && cfg.ChannelPolicyMode != ChannelPolicyDeny {
		return Config{}, fmt.Errorf("invalid CHANNEL_POLICY_MODE %q", cfg.ChannelPolicyMode)
	}
	if cfg.MatchStrategy != MatchExact && cfg.MatchStrategy != MatchFuzzy {
		return Config{}, fmt.Errorf("invalid MATCH_STRATEGY %q", cfg.MatchStrategy)
	}
	if cfg.CooldownSeconds < 0 {
		return Config{}, fmt.Errorf("COOLDOWN_SECONDS must not be negative")
	}
	if _, err := time.Parse("15:04", cfg.DailyPostTime); err != nil {
		return Config{}, fmt.Errorf("invalid DAILY_POST_TIME %q: %w", cfg.DailyPostTime, err)
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
