package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPort        = "8080"
	defaultDatabase    = "xtrac"
	defaultCORSOrigin  = "*"
	defaultEventsTopic = "xtrac_events"
	defaultWorkers     = 4
	defaultBcryptCost  = bcrypt.DefaultCost
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port          string
	Development   bool
	LogLevel      string
	MongoURI      string
	MongoDatabase string
	BcryptCost    int
	CORSOrigin    string
	Kafka         KafkaConfig
	EventWorkers  int
}

type KafkaConfig struct {
	BootstrapServers string
	APIKey           string
	APISecret        string
	Topic            string
}

// Enabled reports whether an event broker was configured.
func (k KafkaConfig) Enabled() bool {
	return k.BootstrapServers != ""
}

// LoadDotenv loads a .env file if present. It reports whether one was found.
func LoadDotenv() bool {
	return godotenv.Load() == nil
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:          getenv("PORT", defaultPort),
		Development:   strings.EqualFold(os.Getenv("APP_ENV"), "development"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		MongoURI:      getenv("MONGO_URI", os.Getenv("GLOBALDATABASE")),
		MongoDatabase: getenv("MONGO_DATABASE", defaultDatabase),
		CORSOrigin:    getenv("CORS_ORIGIN", defaultCORSOrigin),
		Kafka: KafkaConfig{
			BootstrapServers: os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
			APIKey:           os.Getenv("KAFKA_API_KEY"),
			APISecret:        os.Getenv("KAFKA_API_SECRET"),
			Topic:            getenv("KAFKA_EVENTS_TOPIC", defaultEventsTopic),
		},
	}

	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI environment variable not set")
	}

	var err error
	cfg.BcryptCost, err = intEnv("BCRYPT_COST", defaultBcryptCost)
	if err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}

	cfg.EventWorkers, err = intEnv("EVENT_WORKERS", defaultWorkers)
	if err != nil {
		return Config{}, err
	}
	if cfg.EventWorkers < 1 {
		return Config{}, fmt.Errorf("EVENT_WORKERS must be positive, got %d", cfg.EventWorkers)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func intEnv(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return n, nil
}
