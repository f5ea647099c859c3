package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database  *dbConfig
	Service   *svcConfig
	Simulator *simulatorConfig
	Queue     *queueConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"sqlite"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"talentflow.db"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string `envconfig:"TALENTFLOW_ADDRESS" default:":3443"`
	MetricsAddress string `envconfig:"TALENTFLOW_METRICS_ADDRESS" default:":8080"`
	LogLevel       string `envconfig:"TALENTFLOW_LOG_LEVEL" default:"info"`
	Seed           bool   `envconfig:"TALENTFLOW_SEED" default:"true"`
	// AllowedOrigins are the CORS origins accepted by the serve command.
	AllowedOrigins []string `envconfig:"TALENTFLOW_ALLOWED_ORIGINS" default:"*"`
}

type simulatorConfig struct {
	LatencyMin       time.Duration `envconfig:"TALENTFLOW_LATENCY_MIN" default:"200ms"`
	LatencyMax       time.Duration `envconfig:"TALENTFLOW_LATENCY_MAX" default:"1200ms"`
	ReadFailureRate  float64       `envconfig:"TALENTFLOW_READ_FAILURE_RATE" default:"0.05"`
	WriteFailureRate float64       `envconfig:"TALENTFLOW_WRITE_FAILURE_RATE" default:"0.1"`
	RandomSeed       int64         `envconfig:"TALENTFLOW_SIMULATOR_SEED" default:"0"`
}

type queueConfig struct {
	BaseDelay  time.Duration `envconfig:"TALENTFLOW_QUEUE_BASE_DELAY" default:"1s"`
	MaxRetries int           `envconfig:"TALENTFLOW_QUEUE_MAX_RETRIES" default:"3"`
	StorageKey string        `envconfig:"TALENTFLOW_QUEUE_KEY" default:"offline-queue"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a configuration backed by a private in-memory sqlite
// database, with no simulated latency or failures. Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: "file::memory:",
		},
		Service: &svcConfig{
			Address:        ":3443",
			MetricsAddress: ":8080",
			LogLevel:       "debug",
			Seed:           false,
			AllowedOrigins: []string{"*"},
		},
		Simulator: &simulatorConfig{},
		Queue: &queueConfig{
			BaseDelay:  10 * time.Millisecond,
			MaxRetries: 3,
			StorageKey: "offline-queue",
		},
	}
}
