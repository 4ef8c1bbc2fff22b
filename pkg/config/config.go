package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Capacity policies supported by the enrollment workflow.
const (
	CapacityPolicyHard = "hard"
	CapacityPolicySoft = "soft"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Enrollment EnrollmentConfig
	Captcha    CaptchaConfig
	Catalog    CatalogConfig
	Graduation GraduationConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EnrollmentConfig tunes the enrollment workflow.
type EnrollmentConfig struct {
	// CapacityPolicy is "hard" (deny at capacity) or "soft" (grant with warning).
	CapacityPolicy string
	// RespectWeekParity makes the conflict detector treat odd/even-week slots
	// on the same weekday as non-conflicting when their parities differ.
	RespectWeekParity bool
	// TxRetries bounds retry attempts on serialization failures.
	TxRetries int
}

// CaptchaConfig controls login captcha issuance.
type CaptchaConfig struct {
	Enabled bool
	TTL     time.Duration
	Length  int
}

// CatalogConfig governs course catalog caching.
type CatalogConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// GraduationConfig carries the static credit requirement table.
type GraduationConfig struct {
	// Requirements maps course type to required credits. Loaded from
	// GRADUATION_REQUIREMENTS as "type:credits" comma pairs; defaults cover
	// the institution's published plan.
	Requirements map[string]int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	policy := strings.ToLower(v.GetString("ENROLLMENT_CAPACITY_POLICY"))
	if policy != CapacityPolicyHard {
		policy = CapacityPolicySoft
	}
	retries := v.GetInt("ENROLLMENT_TX_RETRIES")
	if retries <= 0 {
		retries = 3
	}
	cfg.Enrollment = EnrollmentConfig{
		CapacityPolicy:    policy,
		RespectWeekParity: v.GetBool("ENROLLMENT_RESPECT_WEEK_PARITY"),
		TxRetries:         retries,
	}

	length := v.GetInt("CAPTCHA_LENGTH")
	if length <= 0 {
		length = 4
	}
	cfg.Captcha = CaptchaConfig{
		Enabled: v.GetBool("CAPTCHA_ENABLED"),
		TTL:     parseDuration(v.GetString("CAPTCHA_TTL"), 5*time.Minute),
		Length:  length,
	}

	cfg.Catalog = CatalogConfig{
		CacheEnabled: v.GetBool("CATALOG_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("CATALOG_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Graduation = GraduationConfig{
		Requirements: parseRequirements(v.GetString("GRADUATION_REQUIREMENTS")),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_select")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "course-select-api")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENROLLMENT_CAPACITY_POLICY", CapacityPolicySoft)
	v.SetDefault("ENROLLMENT_RESPECT_WEEK_PARITY", false)
	v.SetDefault("ENROLLMENT_TX_RETRIES", 3)

	v.SetDefault("CAPTCHA_ENABLED", true)
	v.SetDefault("CAPTCHA_TTL", "5m")
	v.SetDefault("CAPTCHA_LENGTH", 4)

	v.SetDefault("CATALOG_CACHE_ENABLED", true)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseRequirements reads "type:credits" comma pairs. Malformed pairs are
// skipped; an empty result falls back to the published plan.
func parseRequirements(raw string) map[string]int {
	out := map[string]int{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idx := strings.LastIndex(pair, ":")
		if idx <= 0 {
			continue
		}
		name := strings.TrimSpace(pair[:idx])
		credits, err := strconv.Atoi(strings.TrimSpace(pair[idx+1:]))
		if err != nil || credits <= 0 {
			continue
		}
		out[name] = credits
	}
	if len(out) == 0 {
		return DefaultCreditRequirements()
	}
	return out
}

// DefaultCreditRequirements returns the institution's published credit plan
// keyed by course type.
func DefaultCreditRequirements() map[string]int {
	return map[string]int{
		"math":           14,
		"english":        8,
		"politics":       20,
		"military":       4,
		"pe":             4,
		"arts":           2,
		"reading":        1,
		"science":        1,
		"general":        10,
		"foundation":     64,
		"major_elective": 33,
		"thesis":         6,
	}
}
