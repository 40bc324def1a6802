/*
Package configs is responsible for loading and parsing the relay's configuration settings.

Values are resolved through viper from operating system environment variables, falling back
to built-in defaults. ALLOWED_ORIGINS falls back to NEXT_PUBLIC_APP_URL when unset.
*/
package configs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultPort          = "3001"
	defaultAllowedOrigin = "http://localhost:3000"
	defaultServiceName   = "debatehub-relay"

	minPort = 1
	maxPort = 65535
)

// AppConfig contains all configuration parameters required for the relay to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int
	LogLevel    string

	// Security Settings
	AllowedOrigins []string

	// Presence Settings
	GateLeaveNotifications bool

	// Rate Limit Settings
	EventRate    float64
	EventBurst   int
	ConnectRate  float64
	ConnectBurst int

	// Telemetry Settings; an empty OTLPEndpoint disables metrics export.
	ServiceName  string
	OTLPEndpoint string
}

// IsDevelopment reports whether the relay runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads and parses the relay configuration from environment variables.
// Every key has a default; numeric values are parsed and range-checked.
func LoadConfig() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("port", defaultPort)
	v.SetDefault("log_level", "")
	v.SetDefault("next_public_app_url", defaultAllowedOrigin)
	v.SetDefault("gate_leave_notifications", "false")
	v.SetDefault("event_rate", "20")
	v.SetDefault("event_burst", "40")
	v.SetDefault("connect_rate", "1")
	v.SetDefault("connect_burst", "10")
	v.SetDefault("otel_service_name", defaultServiceName)
	v.SetDefault("otel_exporter_otlp_endpoint", "")

	cfg := &AppConfig{
		Environment: strings.TrimSpace(v.GetString("environment")),
		LogLevel:    strings.TrimSpace(v.GetString("log_level")),
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// --- General Server Settings ---
	port, err := strconv.Atoi(strings.TrimSpace(v.GetString("port")))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	if port < minPort || port > maxPort {
		return nil, fmt.Errorf("port number %d is outside the allowed range (%d-%d)", port, minPort, maxPort)
	}
	cfg.Port = port

	// --- Security Settings ---
	rawOrigins := strings.TrimSpace(v.GetString("allowed_origins"))
	if rawOrigins == "" {
		rawOrigins = v.GetString("next_public_app_url")
	}
	cfg.AllowedOrigins = splitOrigins(rawOrigins)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{defaultAllowedOrigin}
	}

	// --- Presence Settings ---
	gate, err := strconv.ParseBool(strings.TrimSpace(v.GetString("gate_leave_notifications")))
	if err != nil {
		return nil, fmt.Errorf("invalid GATE_LEAVE_NOTIFICATIONS environment variable: %w", err)
	}
	cfg.GateLeaveNotifications = gate

	// --- Rate Limit Settings ---
	if cfg.EventRate, err = parsePositiveFloat(v, "event_rate"); err != nil {
		return nil, err
	}
	if cfg.EventBurst, err = parsePositiveInt(v, "event_burst"); err != nil {
		return nil, err
	}
	if cfg.ConnectRate, err = parsePositiveFloat(v, "connect_rate"); err != nil {
		return nil, err
	}
	if cfg.ConnectBurst, err = parsePositiveInt(v, "connect_burst"); err != nil {
		return nil, err
	}

	// --- Telemetry Settings ---
	cfg.ServiceName = strings.TrimSpace(v.GetString("otel_service_name"))
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}
	cfg.OTLPEndpoint = strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint"))

	return cfg, nil
}

func splitOrigins(raw string) []string {
	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		trimmed := strings.TrimRight(strings.TrimSpace(origin), "/")
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func parsePositiveFloat(v *viper.Viper, key string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", strings.ToUpper(key), err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero, got %v", strings.ToUpper(key), f)
	}
	return f, nil
}

func parsePositiveInt(v *viper.Viper, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", strings.ToUpper(key), err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero, got %d", strings.ToUpper(key), n)
	}
	return n, nil
}
