// Package config provides configuration management for the agency backend.
// It handles loading and validation of configuration values from environment variables,
// with support for required variables, default values, and collective error reporting.
// Configuration is loaded once at startup and injected into the components that need it;
// nothing reads the environment after LoadConfig returns.
// In Nest.js, the `@nestjs/config` module serves a similar purpose.
package config

import (
	"fmt"
	"net"
	"net/url"
	// `os` package provides operating system functionalities, like reading environment variables.
	"os"
	"strconv"
	"strings"
	"time"
)

// Upper bounds on token lifetimes. Configuration may shorten them, never extend them.
const (
	MaxAccessTokenDuration  = 15 * time.Minute
	MaxRefreshTokenDuration = 7 * 24 * time.Hour
	// MinSecretLength is the shortest JWT_SECRET accepted (256 bits for HS256).
	MinSecretLength = 32
	// DefaultBcryptCost matches the work factor of 10 rounds.
	DefaultBcryptCost = 10
)

// DatabaseConfig represents configuration for the database connection pool.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxSize  int
	// QueryTimeout bounds every credential store call.
	QueryTimeout time.Duration
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret            string        // Secret key for signing JWTs; never logged
	AccessTokenDuration  time.Duration // Duration for access tokens
	RefreshTokenDuration time.Duration // Duration for refresh tokens
	BcryptCost           int           // Work factor for password hashing
}

// CookieConfig controls the refresh-token cookie.
type CookieConfig struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite string // lax, strict or none
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port               string // Port for the HTTP server
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Database *DatabaseConfig
	Auth     *AuthConfig
	Cookie   *CookieConfig
	Server   *ServerConfig
}

// String redacts the secret so an accidental `%v` never prints it.
func (c AuthConfig) String() string {
	return fmt.Sprintf("AuthConfig{JWTSecret:[REDACTED] AccessTokenDuration:%s RefreshTokenDuration:%s BcryptCost:%d}",
		c.AccessTokenDuration, c.RefreshTokenDuration, c.BcryptCost)
}

// DSN returns a postgres:// connection URL for both pgx and golang-migrate.
func (c *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Helper function to get a required environment variable.
// Appends an error to the errors slice if the variable is not set.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as an int.
// Uses defaultValue if not set or if parsing fails. Appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// Helper function to get an optional environment variable parsed as a bool.
func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueBool
}

// Helper function to get an optional environment variable parsed as time.Duration.
// `time.ParseDuration` expects a string like "15m", "1h30s".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// getOptionalEnvList splits a comma-separated variable, dropping blanks.
func getOptionalEnvList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// clampPoolSize keeps the pool size between 5 and 100.
func clampPoolSize(size int, varName string, errors *[]string) int {
	if size < 5 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is less than minimum 5", varName, size))
		return 5
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100", varName, size))
		return 100
	}
	return size
}

// LoadDatabaseConfig reads only the DB_* variables. The migrate command uses it
// so that applying the schema does not require the signing secret.
func LoadDatabaseConfig() (*DatabaseConfig, error) {
	var errors []string
	cfg := loadDatabaseConfig(&errors)
	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}
	return cfg, nil
}

func loadDatabaseConfig(errors *[]string) *DatabaseConfig {
	cfg := &DatabaseConfig{
		User:         getRequiredEnv("DB_USER", errors),
		Password:     getRequiredEnv("DB_PASSWORD", errors),
		DBName:       getRequiredEnv("DB_NAME", errors),
		Host:         getOptionalEnv("DB_HOST", "localhost"),
		Port:         getOptionalEnvInt("DB_PORT", 5432, errors),
		SSLMode:      getOptionalEnv("DB_SSLMODE", "disable"),
		MaxSize:      clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, errors), "DB_POOL_SIZE", errors),
		QueryTimeout: getOptionalEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second, errors),
	}
	if cfg.QueryTimeout <= 0 {
		*errors = append(*errors, "DB_QUERY_TIMEOUT must be positive")
	}
	return cfg
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	// `errors` slice collects all validation/parsing errors during config loading.
	var errors []string

	// Database Configuration
	dbConfig := loadDatabaseConfig(&errors)

	// Auth Configuration
	authConfig := &AuthConfig{
		JWTSecret:            getRequiredEnv("JWT_SECRET", &errors),
		AccessTokenDuration:  getOptionalEnvDuration("JWT_ACCESS_TOKEN_DURATION", MaxAccessTokenDuration, &errors),
		RefreshTokenDuration: getOptionalEnvDuration("JWT_REFRESH_TOKEN_DURATION", MaxRefreshTokenDuration, &errors),
		BcryptCost:           getOptionalEnvInt("BCRYPT_COST", DefaultBcryptCost, &errors),
	}
	errors = append(errors, authConfig.validate()...)

	// Cookie Configuration
	cookieConfig := &CookieConfig{
		Name:     getOptionalEnv("COOKIE_NAME", "refreshToken"),
		Domain:   getOptionalEnv("COOKIE_DOMAIN", ""),
		Path:     getOptionalEnv("COOKIE_PATH", "/"),
		Secure:   getOptionalEnvBool("COOKIE_SECURE", true, &errors),
		SameSite: strings.ToLower(getOptionalEnv("COOKIE_SAME_SITE", "strict")),
	}
	switch cookieConfig.SameSite {
	case "lax", "strict", "none":
	default:
		errors = append(errors, fmt.Sprintf("invalid value for COOKIE_SAME_SITE: %q (want lax, strict or none)", cookieConfig.SameSite))
	}

	// Server Configuration
	serverConfig := &ServerConfig{
		// Port is a string because it's used directly in the listen address (e.g., ":8080").
		Port:               getOptionalEnv("PORT", "8080"),
		RequestTimeout:     getOptionalEnvDuration("REQUEST_TIMEOUT", 30*time.Second, &errors),
		CORSAllowedOrigins: getOptionalEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// If any errors were collected during loading, return a single aggregated error message.
	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		Database: dbConfig,
		Auth:     authConfig,
		Cookie:   cookieConfig,
		Server:   serverConfig,
	}, nil
}

// validate enforces the token lifetime ceilings, secret length and bcrypt cost range.
func (c *AuthConfig) validate() []string {
	var errs []string
	if c.JWTSecret != "" && len(c.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Sprintf("JWT_SECRET must be at least %d bytes", MinSecretLength))
	}
	if c.AccessTokenDuration <= 0 || c.AccessTokenDuration > MaxAccessTokenDuration {
		errs = append(errs, fmt.Sprintf("JWT_ACCESS_TOKEN_DURATION must be in (0, %s]", MaxAccessTokenDuration))
	}
	if c.RefreshTokenDuration <= 0 || c.RefreshTokenDuration > MaxRefreshTokenDuration {
		errs = append(errs, fmt.Sprintf("JWT_REFRESH_TOKEN_DURATION must be in (0, %s]", MaxRefreshTokenDuration))
	}
	// bcrypt accepts costs 4..31.
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, "BCRYPT_COST must be between 4 and 31")
	}
	return errs
}
