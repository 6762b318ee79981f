package config

import "time"

// RateLimitConfig drives the Redis token-bucket limiter applied to the
// booking and auth endpoints.  KeyStrategy selects what identifies a caller
// ("user" keys on the authenticated user when present, "ip" on the remote
// address).
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig builds a RateLimitConfig from environment variables
// with conservative defaults: 60 requests burst, one token refilled per
// second, bucket state expiring after ten minutes of inactivity.
func LoadRateLimitConfig() RateLimitConfig {
    return RateLimitConfig{
        Enabled:        envBoolDefault("RATE_LIMIT_ENABLED", true),
        Capacity:       atoi(getenv("RATE_LIMIT_CAPACITY", "60")),
        RefillTokens:   atoi(getenv("RATE_LIMIT_REFILL_TOKENS", "1")),
        RefillInterval: parseDur(getenv("RATE_LIMIT_REFILL_INTERVAL", "1s")),
        TTL:            parseDur(getenv("RATE_LIMIT_TTL", "10m")),
        KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "user"),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
        Debug:          envBoolDefault("RATE_LIMIT_DEBUG", false),
    }
}
