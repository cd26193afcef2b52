package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port      string
	LogLevel  slog.Level
	TaskQueue TaskQueueConfig
	Redis     *RedisConfig
	Analysis  *AnalysisConfig
}

// TaskQueueConfig selects where sweep runs are dispatched. Locally jobs go to a
// Cloud Tasks compatible HTTP emulator at TasksURL; under gcloud they go to the
// Cloud Tasks queue named by the GCloud fields.
type TaskQueueConfig struct {
	TasksURL  string
	QueueName string
	TargetURL string

	GCloudProjectID      string
	GCloudLocationID     string
	GCloudQueueID        string
	GCloudServiceAccount string

	MaxRetries int
}

func Load() (*Config, error) {
	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	analysisConfig, err := LoadAnalysisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		LogLevel:  ParseLogLevel(os.Getenv("LOG_LEVEL")),
		TaskQueue: LoadTaskQueueConfig(),
		Redis:     redisConfig,
		Analysis:  analysisConfig,
	}, nil
}

func LoadTaskQueueConfig() TaskQueueConfig {
	maxRetries := 3
	if v := os.Getenv("TASK_QUEUE_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	return TaskQueueConfig{
		TasksURL:  os.Getenv("TASK_QUEUE_URL"),
		QueueName: getEnvOrDefault("TASK_QUEUE_NAME", "default"),
		TargetURL: os.Getenv("TASK_QUEUE_TARGET_URL"),

		GCloudProjectID:      os.Getenv("GCLOUD_PROJECT_ID"),
		GCloudLocationID:     os.Getenv("GCLOUD_LOCATION_ID"),
		GCloudQueueID:        os.Getenv("GCLOUD_QUEUE_ID"),
		GCloudServiceAccount: os.Getenv("GCLOUD_TASKS_SERVICE_ACCOUNT"),

		MaxRetries: maxRetries,
	}
}

// ParseLogLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
