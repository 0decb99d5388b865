package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // CALENDAR_TIMEZONE must resolve in minimal containers

	"room-scheduler/internal/core/services"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string `validate:"oneof=dev prod"`
	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"omitempty,oneof=debug info warn error"`
	Database DatabaseConfig
	Cookie   CookieConfig
	Schedule ScheduleConfig
	Calendar CalendarConfig
	Web      WebConfig

	// EnvFileLoaded reports whether a .env file was found
	EnvFileLoaded bool
}

// DatabaseConfig holds database configuration for the schedule table
type DatabaseConfig struct {
	Driver   string `validate:"oneof=mysql postgres sqlite"`
	Host     string
	Port     string
	User     string
	Password string
	DBName   string `validate:"required"`
}

// CookieConfig holds the session cookie configuration
type CookieConfig struct {
	Name     string `validate:"required"`
	Secure   bool
	SameSite string `validate:"oneof=lax strict none"`
	Domain   string
}

// ScheduleConfig selects where schedule rows come from
type ScheduleConfig struct {
	Source      string `validate:"oneof=api db"`
	APIURL      string `validate:"required,url"`
	RefreshCron string `validate:"required"`
}

// CalendarConfig controls projection of rows into calendar events
type CalendarConfig struct {
	Horizon      time.Time
	TimezoneName string `validate:"required"`
	Location     *time.Location
	// TermStart is zero when events anchor to the current week
	TermStart time.Time
}

// WebConfig holds dashboard settings
type WebConfig struct {
	// RoleHomeDefault must be reachable by a role no route grants
	RoleHomeDefault string `validate:"startswith=/,role_home"`
	IndexFile       string `validate:"omitempty,file"`
}

// Global config instance
var AppConfig *Config

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("role_home", func(fl validator.FieldLevel) bool {
		return services.DashboardRoutes().Reachable("", fl.Field().String())
	})
	return v
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// .env is optional; production reads the real environment
	envLoaded := godotenv.Load() == nil

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	calendar, err := loadCalendarConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:       appMode,
		Port:          getEnv("PORT", "3000"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "")),
		Database:      loadDatabaseConfig(appMode),
		Cookie:        loadCookieConfig(appMode),
		Schedule:      loadScheduleConfig(),
		Calendar:      calendar,
		Web:           loadWebConfig(),
		EnvFileLoaded: envLoaded,
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	AppConfig = config
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	driver := strings.ToLower(getEnv(prefix+"DB_DRIVER", "mysql"))
	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "scheduler"),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", getEnv("COOKIE_SECURE", "false")))

	return CookieConfig{
		Name:     getEnv("COOKIE_NAME", "access_token"),
		Secure:   secure,
		SameSite: strings.ToLower(getEnv("COOKIE_SAMESITE", "lax")),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Source:      strings.ToLower(getEnv("SCHEDULE_SOURCE", "api")),
		APIURL:      getEnv("SCHEDULE_API_URL", "http://localhost:5000"),
		RefreshCron: getEnv("SCHEDULE_REFRESH_CRON", "*/15 * * * *"),
	}
}

func loadCalendarConfig() (CalendarConfig, error) {
	tz := getEnv("CALENDAR_TIMEZONE", "Asia/Jakarta")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return CalendarConfig{}, fmt.Errorf("invalid CALENDAR_TIMEZONE %q: %w", tz, err)
	}

	rawHorizon := getEnv("CALENDAR_HORIZON", "2025-12-31T23:59:59Z")
	horizon, err := time.Parse(time.RFC3339, rawHorizon)
	if err != nil {
		return CalendarConfig{}, fmt.Errorf("invalid CALENDAR_HORIZON %q: %w", rawHorizon, err)
	}

	var termStart time.Time
	if raw := getEnv("CALENDAR_TERM_START", ""); raw != "" {
		termStart, err = time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return CalendarConfig{}, fmt.Errorf("invalid CALENDAR_TERM_START %q: %w", raw, err)
		}
	}

	return CalendarConfig{
		Horizon:      horizon,
		TimezoneName: tz,
		Location:     loc,
		TermStart:    termStart,
	}, nil
}

func loadWebConfig() WebConfig {
	return WebConfig{
		RoleHomeDefault: getEnv("ROLE_HOME_DEFAULT", services.DefaultFallbackHome),
		IndexFile:       getEnv("WEB_INDEX_FILE", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:5173"
	}
	return origins
}
