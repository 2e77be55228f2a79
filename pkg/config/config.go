package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Auth      AuthConfig
	Generator GeneratorConfig
	Exports   ExportsConfig
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

// AuthConfig carries the fixed credential table: one bcrypt hash for the
// coordinator and one per faculty ID ("faculty_001:$2a$...,faculty_002:...").
type AuthConfig struct {
	CoordinatorPasswordHash string
	FacultyPasswordHashes   map[string]string
}

// GeneratorConfig holds default timing parameters for timetable generation.
// Requests may override any of them. LabDurationMinutes is accepted for
// parity with the configuration form but does not influence slot typing.
type GeneratorConfig struct {
	StartTime          string
	EndTime            string
	PeriodMinutes      int
	BreakMinutes       int
	BreakAfterPeriods  int
	LabDurationMinutes int
	RoomPolicy         string
}

// ExportsConfig controls where rendered timetable exports are archived.
type ExportsConfig struct {
	StorageDir string
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

	cfg.Auth = AuthConfig{
		CoordinatorPasswordHash: v.GetString("AUTH_COORDINATOR_HASH"),
		FacultyPasswordHashes:   parseHashTable(v.GetString("AUTH_FACULTY_HASHES")),
	}

	cfg.Generator = GeneratorConfig{
		StartTime:          v.GetString("GENERATOR_START_TIME"),
		EndTime:            v.GetString("GENERATOR_END_TIME"),
		PeriodMinutes:      v.GetInt("GENERATOR_PERIOD_MINUTES"),
		BreakMinutes:       v.GetInt("GENERATOR_BREAK_MINUTES"),
		BreakAfterPeriods:  v.GetInt("GENERATOR_BREAK_AFTER_PERIODS"),
		LabDurationMinutes: v.GetInt("GENERATOR_LAB_DURATION_MINUTES"),
		RoomPolicy:         v.GetString("GENERATOR_ROOM_POLICY"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir: v.GetString("EXPORTS_STORAGE_DIR"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "timetable-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AUTH_COORDINATOR_HASH", "")
	v.SetDefault("AUTH_FACULTY_HASHES", "")

	v.SetDefault("GENERATOR_START_TIME", "09:00")
	v.SetDefault("GENERATOR_END_TIME", "14:15")
	v.SetDefault("GENERATOR_PERIOD_MINUTES", 60)
	v.SetDefault("GENERATOR_BREAK_MINUTES", 15)
	v.SetDefault("GENERATOR_BREAK_AFTER_PERIODS", 2)
	v.SetDefault("GENERATOR_LAB_DURATION_MINUTES", 60)
	v.SetDefault("GENERATOR_ROOM_POLICY", "dual_pool")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
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
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func parseHashTable(raw string) map[string]string {
	result := make(map[string]string)
	for _, entry := range splitAndTrim(raw) {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		result[parts[0]] = parts[1]
	}
	return result
}
