package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/straye-as/elevator-api/internal/secrets"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	// AutoMigrate runs gorm AutoMigrate on startup; goose migrations are the default
	AutoMigrate bool
}

// AuthConfig holds credentials and token settings for API authentication
type AuthConfig struct {
	// JWTSecret signs session tokens issued by /auth/login (HS256)
	JWTSecret string
	// TokenTTLMinutes is the lifetime of issued session tokens
	TokenTTLMinutes int
	// Issuer is written to the iss claim
	Issuer string
	// APIKey authenticates system callers through the x-api-key header
	APIKey string
	// BootstrapAdminUsername and BootstrapAdminPassword create the first admin
	// when the users table is empty
	BootstrapAdminUsername string
	BootstrapAdminPassword string
	BootstrapAdminEmail    string
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	// CloudAccountURL is used with the ambient Azure identity when no connection string is set
	CloudAccountURL string
	CloudContainer  string
	MaxUploadSizeMB int64
}

type SecretsConfig struct {
	// Source is "environment", "vault" or "auto" (vault outside development)
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig configures go-chi/cors. "*" in AllowedOrigins allows any origin.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // seconds
}

// SecurityConfig lists the response security headers. Empty strings omit a header.
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	XSSProtection         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig holds per-minute budgets for anonymous (per IP) and
// authenticated (per user) requests
type RateLimitConfig struct {
	Enabled               bool
	RequestsPerMinute     int
	RequestsPerMinuteAuth int
	WhitelistIPs          []string
	// WhitelistPaths match exactly or as "/prefix/*"
	WhitelistPaths []string
}

// JobsConfig holds configuration for scheduled background jobs
type JobsConfig struct {
	// Enabled starts the cron scheduler
	Enabled bool
	// InventoryScanEnabled registers the inventory reorder scan
	InventoryScanEnabled bool
	// InventoryScanCron is a six-field cron expression (with seconds)
	InventoryScanCron string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TokenTTL returns the session token lifetime as duration
func (a *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// Load reads configuration without contacting Key Vault. Precedence, highest
// first: environment (APP_PORT for app.port), config.json in . or ./config,
// .env, defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Short names used by deployments
	if cfg.Auth.APIKey == "" {
		cfg.Auth.APIKey = v.GetString("ADMIN_API_KEY")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// vaultSecrets lists the config fields that may come from Key Vault. An
// explicitly set environment variable still wins.
func vaultSecrets(cfg *Config) []secrets.Binding {
	return []secrets.Binding{
		{SecretName: "POSTGRES-MAIN-HOST", EnvName: "DATABASE_HOST", Target: &cfg.Database.Host},
		{SecretName: "POSTGRES-MAIN-USER", EnvName: "DATABASE_USER", Target: &cfg.Database.User},
		{SecretName: "POSTGRES-MAIN-PASSWORD", EnvName: "DATABASE_PASSWORD", Target: &cfg.Database.Password},
		{SecretName: "admin-api-key", EnvName: "ADMIN_API_KEY", Target: &cfg.Auth.APIKey},
		{SecretName: "jwt-secret", EnvName: "JWT_SECRET", Target: &cfg.Auth.JWTSecret},
		{SecretName: "bootstrap-admin-password", EnvName: "AUTH_BOOTSTRAPADMINPASSWORD", Target: &cfg.Auth.BootstrapAdminPassword},
		{SecretName: "storage-connection-string", EnvName: "STORAGE_CLOUDCONNECTIONSTRING", Target: &cfg.Storage.CloudConnectionString},
	}
}

// useVault reports whether secrets should be read from Key Vault: the
// USE_AZURE_KEY_VAULT switch must be on and secrets.source must resolve to
// vault for the environment ("auto" does so for staging and production).
func useVault(cfg *Config) bool {
	if !strings.EqualFold(os.Getenv("USE_AZURE_KEY_VAULT"), "true") {
		return false
	}
	source := secrets.SecretSource(cfg.Secrets.Source)
	if source == "" {
		source = secrets.SourceAuto
	}
	return secrets.ResolveSource(source, cfg.App.Environment) == secrets.SourceVault
}

// LoadWithSecrets loads configuration and, when enabled, overlays the
// credentials stored in Azure Key Vault.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if !useVault(cfg) {
		logger.Info("using environment variables for secrets", zap.String("environment", cfg.App.Environment))
		return cfg, nil
	}
	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	// Database name and sslmode stay per deployment
	if name := os.Getenv("DEFAULT_DATABASE"); name != "" {
		cfg.Database.Name = name
	}
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	resolved := provider.Apply(ctx, vaultSecrets(cfg))
	logger.Info("secrets loaded from vault",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
		zap.Int("resolved", resolved),
	)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Elevator Installation API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "elevators")
	v.SetDefault("database.user", "elevator_user")
	v.SetDefault("database.password", "elevator_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.autoMigrate", false)

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300) // 5 minutes

	// Auth defaults
	v.SetDefault("auth.tokenTTLMinutes", 60*24)
	v.SetDefault("auth.issuer", "elevator-api")
	v.SetDefault("auth.bootstrapAdminUsername", "admin")
	v.SetDefault("auth.bootstrapAdminEmail", "admin@localhost")

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.maxUploadSizeMB", 20)
	v.SetDefault("storage.cloudContainer", "proforma-attachments")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	// CORS defaults - restrictive by default
	// In development, you may want to override with specific origins
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300) // 5 minutes

	// Security header defaults - secure by default
	v.SetDefault("security.enableHSTS", false)    // Disabled by default, enable in production with HTTPS
	v.SetDefault("security.hstsMaxAge", 31536000) // 1 year
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)      // 60 requests per minute for unauthenticated
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 120) // 120 requests per minute for authenticated users
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})

	// Job defaults
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.inventoryScanEnabled", true)
	v.SetDefault("jobs.inventoryScanCron", "0 0 6 * * *") // 06:00 every day
}
