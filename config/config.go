package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	HTTP          HTTPConfig
	Classifier    ClassifierConfig
	Storage       StorageConfig
	Thresholds    ThresholdsConfig
}

type HTTPConfig struct {
	Port int
}

type ClassifierConfig struct {
	Backend         string // dnn, remote, static
	ModelPath       string
	ModelConfigPath string
	LabelsPath      string
	InputSize       int
	Softmax         bool
	URL             string
	Timeout         time.Duration
}

type StorageConfig struct {
	Backend  string // file, redis, postgres, memory
	Dir      string
	RedisURL string
	Database DatabaseConfig
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// ThresholdsConfig пороги интерпретации, значения по умолчанию совпадают с app.DefaultThresholds.
type ThresholdsConfig struct {
	NoiseFloor               float64
	Severe                   float64
	Moderate                 float64
	SecondaryNarrative       float64
	SecondaryDeficiency      float64
	MaxSecondaryFindings     int
	MaxSecondaryDeficiencies int
}

var (
	validClassifiers = map[string]bool{"dnn": true, "remote": true, "static": true}
	validStorages    = map[string]bool{"file": true, "redis": true, "postgres": true, "memory": true}
)

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		HTTP: HTTPConfig{
			Port: envInt("HTTP_PORT", 8080),
		},
		Classifier: ClassifierConfig{
			Backend:         envString("CLASSIFIER_BACKEND", "dnn"),
			ModelPath:       envString("MODEL_PATH", "models/coffee_leaf.onnx"),
			ModelConfigPath: os.Getenv("MODEL_CONFIG_PATH"),
			LabelsPath:      envString("LABELS_PATH", "models/labels.txt"),
			InputSize:       envInt("MODEL_INPUT_SIZE", 224),
			Softmax:         envBool("MODEL_SOFTMAX", true),
			URL:             os.Getenv("CLASSIFIER_URL"),
			Timeout:         envDuration("CLASSIFIER_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Backend:  envString("STORAGE_BACKEND", "file"),
			Dir:      envString("STORAGE_DIR", "data"),
			RedisURL: os.Getenv("REDIS_URL"),
			Database: DatabaseConfig{
				URL:             os.Getenv("DATABASE_URL"),
				MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 5),
				ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			},
		},
		Thresholds: ThresholdsConfig{
			NoiseFloor:               envFloat("THRESHOLD_NOISE_FLOOR", 0.10),
			Severe:                   envFloat("THRESHOLD_SEVERE", 0.80),
			Moderate:                 envFloat("THRESHOLD_MODERATE", 0.50),
			SecondaryNarrative:       envFloat("THRESHOLD_SECONDARY_NARRATIVE", 0.15),
			SecondaryDeficiency:      envFloat("THRESHOLD_SECONDARY_DEFICIENCY", 0.20),
			MaxSecondaryFindings:     envInt("MAX_SECONDARY_FINDINGS", 2),
			MaxSecondaryDeficiencies: envInt("MAX_SECONDARY_DEFICIENCIES", 2),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if !validClassifiers[c.Classifier.Backend] {
		return fmt.Errorf("CLASSIFIER_BACKEND must be one of dnn, remote, static; got %q", c.Classifier.Backend)
	}
	if c.Classifier.Backend == "remote" {
		if c.Classifier.URL == "" {
			return fmt.Errorf("CLASSIFIER_URL is required when CLASSIFIER_BACKEND is remote")
		}
		if !strings.HasPrefix(c.Classifier.URL, "http://") && !strings.HasPrefix(c.Classifier.URL, "https://") {
			return fmt.Errorf("CLASSIFIER_URL must start with http:// or https://, got %q", c.Classifier.URL)
		}
	}
	if c.Classifier.InputSize <= 0 {
		return fmt.Errorf("MODEL_INPUT_SIZE must be positive, got %d", c.Classifier.InputSize)
	}

	if !validStorages[c.Storage.Backend] {
		return fmt.Errorf("STORAGE_BACKEND must be one of file, redis, postgres, memory; got %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "redis" && c.Storage.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when STORAGE_BACKEND is redis")
	}
	if c.Storage.Backend == "postgres" && c.Storage.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND is postgres")
	}

	t := c.Thresholds
	for name, v := range map[string]float64{
		"THRESHOLD_NOISE_FLOOR":          t.NoiseFloor,
		"THRESHOLD_SEVERE":               t.Severe,
		"THRESHOLD_MODERATE":             t.Moderate,
		"THRESHOLD_SECONDARY_NARRATIVE":  t.SecondaryNarrative,
		"THRESHOLD_SECONDARY_DEFICIENCY": t.SecondaryDeficiency,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, v)
		}
	}
	if t.Moderate > t.Severe {
		return fmt.Errorf("THRESHOLD_MODERATE (%v) must not exceed THRESHOLD_SEVERE (%v)", t.Moderate, t.Severe)
	}
	if t.MaxSecondaryFindings < 0 || t.MaxSecondaryDeficiencies < 0 {
		return fmt.Errorf("MAX_SECONDARY_FINDINGS and MAX_SECONDARY_DEFICIENCIES must not be negative")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
