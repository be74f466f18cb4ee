package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	TokenSecret        string
	TokenLifetimeHours int

	PolicyModelPath string
	PolicyCSVPath   string

	EnableAttendanceConsumer bool
	EnableOwnershipFallback  bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "sitesense"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	modelPath := os.Getenv("POLICY_MODEL_PATH")
	if modelPath == "" {
		modelPath = "config/rbac_model.conf"
	}
	policyPath := os.Getenv("POLICY_CSV_PATH")
	if policyPath == "" {
		policyPath = "config/rbac_policy.csv"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		TokenSecret:        os.Getenv("TOKEN_SECRET"),
		TokenLifetimeHours: envInt("TOKEN_LIFETIME_HOURS", 1),

		PolicyModelPath: modelPath,
		PolicyCSVPath:   policyPath,

		EnableAttendanceConsumer: envBool("ENABLE_ATTENDANCE_CONSUMER", true),
		EnableOwnershipFallback:  envBool("ENABLE_OWNERSHIP_FALLBACK", true),
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
