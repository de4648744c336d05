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
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Office     OfficeConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// OfficeConfig is the default geofence, used until an admin saves an
// override through the settings API.
type OfficeConfig struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	PublicIP     string
}

// AttendanceConfig holds punch/session policy knobs.
type AttendanceConfig struct {
	MaxPunchesPerDay    int
	HalfDayMinutes      int
	FullDayMinutes      int
	HeartbeatStaleAfter time.Duration
	SweepInterval       time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// Office geofence defaults
	officeLat, err := strconv.ParseFloat(getEnv("OFFICE_LATITUDE", "17.489313654492967"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_LATITUDE: %w", err)
	}
	officeLon, err := strconv.ParseFloat(getEnv("OFFICE_LONGITUDE", "78.39285505628658"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_LONGITUDE: %w", err)
	}
	officeRadius, err := strconv.Atoi(getEnv("OFFICE_RADIUS_METERS", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_RADIUS_METERS: %w", err)
	}

	config.Office = OfficeConfig{
		Latitude:     officeLat,
		Longitude:    officeLon,
		RadiusMeters: officeRadius,
		PublicIP:     getEnv("OFFICE_PUBLIC_IP", "103.206.104.149"),
	}

	// Attendance policy
	maxPunches, err := strconv.Atoi(getEnv("MAX_PUNCHES_PER_DAY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_PUNCHES_PER_DAY: %w", err)
	}
	halfDayMinutes, err := strconv.Atoi(getEnv("HALF_DAY_MINUTES", "240"))
	if err != nil {
		return nil, fmt.Errorf("invalid HALF_DAY_MINUTES: %w", err)
	}
	fullDayMinutes, err := strconv.Atoi(getEnv("FULL_DAY_MINUTES", "480"))
	if err != nil {
		return nil, fmt.Errorf("invalid FULL_DAY_MINUTES: %w", err)
	}
	staleAfter, err := time.ParseDuration(getEnv("HEARTBEAT_STALE_AFTER", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEARTBEAT_STALE_AFTER: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnv("HEARTBEAT_SWEEP_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEARTBEAT_SWEEP_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		MaxPunchesPerDay:    maxPunches,
		HalfDayMinutes:      halfDayMinutes,
		FullDayMinutes:      fullDayMinutes,
		HeartbeatStaleAfter: staleAfter,
		SweepInterval:       sweepInterval,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.MaxPunchesPerDay <= 0 {
		return fmt.Errorf("MAX_PUNCHES_PER_DAY must be positive")
	}
	if c.Attendance.HalfDayMinutes <= 0 || c.Attendance.FullDayMinutes <= c.Attendance.HalfDayMinutes {
		return fmt.Errorf("FULL_DAY_MINUTES must be greater than HALF_DAY_MINUTES")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	return strings.Split(getEnv(key, fallback), ",")
}
