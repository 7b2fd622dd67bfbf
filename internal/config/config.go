package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka scenario pipeline, enabled only when KAFKA_BROKERS is set.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration

	// Climatology seeding configuration.
	ClimateEnabled   bool
	ClimateTimeout   time.Duration
	ClimateCacheSize int

	// Recommended storage band overrides, liters.
	TankBandMinLiters float64
	TankBandMaxLiters float64
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first,
// best-effort.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := parsePositiveDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	climateTimeout, err := parsePositiveDuration("CLIMATE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	tankMin, err := parseFloat("TANK_BAND_MIN_L", 140_000)
	if err != nil {
		return nil, err
	}
	tankMax, err := parseFloat("TANK_BAND_MAX_L", 280_000)
	if err != nil {
		return nil, err
	}
	if tankMin >= tankMax {
		return nil, errors.New("TANK_BAND_MIN_L must be less than TANK_BAND_MAX_L")
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:       len(brokers) > 0,
		KafkaBrokers:       brokers,
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "scenario-requests"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "scenario-assessments"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "rainharvest-planner"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		ClimateEnabled:   envOrDefault("CLIMATE_ENABLED", "true") == "true",
		ClimateTimeout:   climateTimeout,
		ClimateCacheSize: parseClimateCacheSize(),

		TankBandMinLiters: tankMin,
		TankBandMaxLiters: tankMax,
	}

	if cfg.KafkaEnabled {
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required when Kafka is enabled")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when Kafka is enabled")
		}
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

// parseBatchSize bounds BATCH_SIZE to [1, 1000]; oversized batches hold
// uncommitted offsets for too long.
func parseBatchSize() (int, error) {
	s := os.Getenv("BATCH_SIZE")
	if s == "" {
		return 50, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 1000 {
		return 0, errors.New("invalid BATCH_SIZE: must be an integer in [1, 1000]")
	}
	return n, nil
}

func parseClimateCacheSize() int {
	if s := os.Getenv("CLIMATE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
