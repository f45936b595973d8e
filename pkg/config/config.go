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

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Scheduler  SchedulerConfig
	Validation ValidationConfig
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

// SchedulerConfig tunes the auto-scheduler search.
type SchedulerConfig struct {
	Seed               int64
	MaxPairEvaluations int
	Weights            SchedulerWeights
}

// SchedulerWeights holds the soft-scoring constants. The values are tuned
// heuristics: changing their ratios only affects placement quality, never
// correctness of the hard constraints.
type SchedulerWeights struct {
	Gap                float64
	Balance            float64
	Adjacency          float64
	RoomUsage          float64
	JitterMax          float64
	RarePlacement      float64
	VeryRarePlacement  float64
	RelaxedConsecutive float64
	LabInBothExtra     float64
	MostRelaxedPass    float64
}

// ValidationConfig controls conflict-report caching.
type ValidationConfig struct {
	CacheTTL time.Duration
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

	cfg.Scheduler = SchedulerConfig{
		Seed:               v.GetInt64("SCHEDULER_SEED"),
		MaxPairEvaluations: v.GetInt("SCHEDULER_MAX_PAIR_EVALUATIONS"),
		Weights: SchedulerWeights{
			Gap:                v.GetFloat64("SCHEDULER_WEIGHT_GAP"),
			Balance:            v.GetFloat64("SCHEDULER_WEIGHT_BALANCE"),
			Adjacency:          v.GetFloat64("SCHEDULER_WEIGHT_ADJACENCY"),
			RoomUsage:          v.GetFloat64("SCHEDULER_WEIGHT_ROOM_USAGE"),
			JitterMax:          v.GetFloat64("SCHEDULER_WEIGHT_JITTER_MAX"),
			RarePlacement:      v.GetFloat64("SCHEDULER_WEIGHT_RARE"),
			VeryRarePlacement:  v.GetFloat64("SCHEDULER_WEIGHT_VERY_RARE"),
			RelaxedConsecutive: v.GetFloat64("SCHEDULER_WEIGHT_RELAXED_CONSECUTIVE"),
			LabInBothExtra:     v.GetFloat64("SCHEDULER_WEIGHT_LAB_IN_BOTH"),
			MostRelaxedPass:    v.GetFloat64("SCHEDULER_WEIGHT_MOST_RELAXED"),
		},
	}

	cfg.Validation = ValidationConfig{
		CacheTTL: parseDuration(v.GetString("VALIDATION_CACHE_TTL"), 300*time.Millisecond),
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
	v.SetDefault("DB_NAME", "citcs_schedule")
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

	v.SetDefault("SCHEDULER_SEED", 0)
	v.SetDefault("SCHEDULER_MAX_PAIR_EVALUATIONS", 20000)
	v.SetDefault("SCHEDULER_WEIGHT_GAP", 3)
	v.SetDefault("SCHEDULER_WEIGHT_BALANCE", 2)
	v.SetDefault("SCHEDULER_WEIGHT_ADJACENCY", -2)
	v.SetDefault("SCHEDULER_WEIGHT_ROOM_USAGE", 0.2)
	v.SetDefault("SCHEDULER_WEIGHT_JITTER_MAX", 4)
	v.SetDefault("SCHEDULER_WEIGHT_RARE", 35)
	v.SetDefault("SCHEDULER_WEIGHT_VERY_RARE", 70)
	v.SetDefault("SCHEDULER_WEIGHT_RELAXED_CONSECUTIVE", 12)
	v.SetDefault("SCHEDULER_WEIGHT_LAB_IN_BOTH", 15)
	v.SetDefault("SCHEDULER_WEIGHT_MOST_RELAXED", 36)

	v.SetDefault("VALIDATION_CACHE_TTL", "300ms")
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
