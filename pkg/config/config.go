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

	Database      DatabaseConfig
	Redis         RedisConfig
	CORS          CORSConfig
	Log           LogConfig
	Solver        SolverConfig
	Normalization NormalizationConfig
	Integrity     IntegrityConfig
	Scheduler     SchedulerConfig
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

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig tunes the constraint solver's search behaviour.
type SolverConfig struct {
	// WallClockTimeout bounds a single solve/repair attempt before the
	// solver gives up and reports TIMEOUT.
	WallClockTimeout time.Duration
	// MaxDailyCourseSlots is the daily-course cap applied to every
	// lecture requirement.
	MaxDailyCourseSlots int
	// FallbackEnabled toggles the pure backtracking fallback solver
	// when the primary propagation solver reports infeasible.
	FallbackEnabled bool
}

// NormalizationConfig tunes the fuzzy matcher and clustering thresholds.
type NormalizationConfig struct {
	FacultyThreshold int
	CourseThreshold  int
	RoomThreshold    int
	MinClusterSize   int
}

// IntegrityConfig tunes the integrity verifier's health scoring.
type IntegrityConfig struct {
	MinCompletenessScore float64
	WarnEmptySections    bool
	WarnOrphanRecords    bool
	ThresholdsLocked     bool
}

// SchedulerConfig holds the ENABLE_SCHEDULER flag, which no component
// reads, and SnapshotCacheTTL, the lifetime cmd/api-gateway gives to
// cached integrity reports.
type SchedulerConfig struct {
	Enabled          bool
	SnapshotCacheTTL time.Duration
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

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Solver = SolverConfig{
		WallClockTimeout:    parseDuration(v.GetString("SOLVER_WALL_CLOCK_TIMEOUT"), 10*time.Second),
		MaxDailyCourseSlots: v.GetInt("SOLVER_MAX_DAILY_COURSE_SLOTS"),
		FallbackEnabled:     v.GetBool("SOLVER_FALLBACK_ENABLED"),
	}

	cfg.Normalization = NormalizationConfig{
		FacultyThreshold: v.GetInt("NORMALIZATION_FACULTY_THRESHOLD"),
		CourseThreshold:  v.GetInt("NORMALIZATION_COURSE_THRESHOLD"),
		RoomThreshold:    v.GetInt("NORMALIZATION_ROOM_THRESHOLD"),
		MinClusterSize:   v.GetInt("NORMALIZATION_MIN_CLUSTER_SIZE"),
	}

	cfg.Integrity = IntegrityConfig{
		MinCompletenessScore: v.GetFloat64("INTEGRITY_MIN_COMPLETENESS_SCORE"),
		WarnEmptySections:    v.GetBool("INTEGRITY_WARN_EMPTY_SECTIONS"),
		WarnOrphanRecords:    v.GetBool("INTEGRITY_WARN_ORPHAN_RECORDS"),
		ThresholdsLocked:     v.GetBool("INTEGRITY_THRESHOLDS_LOCKED"),
	}

	cfg.Scheduler = SchedulerConfig{
		Enabled:          v.GetBool("ENABLE_SCHEDULER"),
		SnapshotCacheTTL: parseDuration(v.GetString("SCHEDULER_SNAPSHOT_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ttcore")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLVER_WALL_CLOCK_TIMEOUT", "10s")
	v.SetDefault("SOLVER_MAX_DAILY_COURSE_SLOTS", 2)
	v.SetDefault("SOLVER_FALLBACK_ENABLED", true)

	v.SetDefault("NORMALIZATION_FACULTY_THRESHOLD", 80)
	v.SetDefault("NORMALIZATION_COURSE_THRESHOLD", 75)
	v.SetDefault("NORMALIZATION_ROOM_THRESHOLD", 80)
	v.SetDefault("NORMALIZATION_MIN_CLUSTER_SIZE", 2)

	v.SetDefault("INTEGRITY_MIN_COMPLETENESS_SCORE", 80.0)
	v.SetDefault("INTEGRITY_WARN_EMPTY_SECTIONS", true)
	v.SetDefault("INTEGRITY_WARN_ORPHAN_RECORDS", true)
	v.SetDefault("INTEGRITY_THRESHOLDS_LOCKED", false)

	v.SetDefault("ENABLE_SCHEDULER", true)
	v.SetDefault("SCHEDULER_SNAPSHOT_CACHE_TTL", "5m")
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
