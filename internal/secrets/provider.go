package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource defines where secrets are loaded from
type SecretSource string

const (
	// SourceEnvironment loads secrets from environment variables
	SourceEnvironment SecretSource = "environment"
	// SourceVault loads secrets from Azure Key Vault
	SourceVault SecretSource = "vault"
	// SourceAuto uses vault outside development
	SourceAuto SecretSource = "auto"
)

// ErrSecretNotFound is returned when a secret has no value in its source
var ErrSecretNotFound = errors.New("secret not found")

// Store fetches a single named secret
type Store interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

type envStore struct{}

func (envStore) GetSecret(_ context.Context, name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%w: environment variable %s", ErrSecretNotFound, name)
	}
	return value, nil
}

// Provider resolves secrets from the configured store
type Provider struct {
	source SecretSource
	store  Store
	logger *zap.Logger
}

// ProviderConfig holds configuration for the secrets provider
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Binding maps a secret to the config field it fills. EnvName, when set,
// overrides the stored secret.
type Binding struct {
	SecretName string
	EnvName    string
	Target     *string
}

// ResolveSource turns SourceAuto into a concrete source for the environment
func ResolveSource(source SecretSource, environment string) SecretSource {
	if source != SourceAuto {
		return source
	}
	switch environment {
	case "development", "local", "test", "":
		return SourceEnvironment
	default:
		return SourceVault
	}
}

// NewProvider creates a new secrets provider
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := ResolveSource(cfg.Source, cfg.Environment)

	var store Store
	switch source {
	case SourceEnvironment:
		store = envStore{}
	case SourceVault:
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required when using vault secret source")
		}
		vaultClient, err := NewVaultClient(&VaultConfig{
			VaultName:    cfg.VaultName,
			CacheEnabled: cfg.CacheEnabled,
			CacheTTL:     cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vault client: %w", err)
		}
		store = vaultClient
	default:
		return nil, fmt.Errorf("unknown secret source: %s", source)
	}

	logger.Info("secrets provider initialized",
		zap.String("source", string(source)),
		zap.String("environment", cfg.Environment),
	)
	return NewProviderWithStore(source, store, logger), nil
}

// NewProviderWithStore builds a provider around an existing store
func NewProviderWithStore(source SecretSource, store Store, logger *zap.Logger) *Provider {
	return &Provider{source: source, store: store, logger: logger}
}

// GetSecret retrieves a secret by name
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	return p.store.GetSecret(ctx, name)
}

// GetSecretOrEnv prefers an explicitly set environment variable over the store
func (p *Provider) GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error) {
	if envName != "" {
		if value := os.Getenv(envName); value != "" {
			p.logger.Debug("using environment variable override", zap.String("env_name", envName))
			return value, nil
		}
	}
	return p.GetSecret(ctx, secretName)
}

// Apply resolves every binding and writes found values into their targets.
// Missing secrets leave the target untouched. It returns the number resolved.
func (p *Provider) Apply(ctx context.Context, bindings []Binding) int {
	resolved := 0
	for _, b := range bindings {
		value, err := p.GetSecretOrEnv(ctx, b.SecretName, b.EnvName)
		if err != nil || value == "" {
			p.logger.Debug("secret not resolved, keeping configured value",
				zap.String("secret_name", b.SecretName),
				zap.Error(err),
			)
			continue
		}
		*b.Target = value
		resolved++
	}
	return resolved
}

// Source returns the current secret source
func (p *Provider) Source() SecretSource {
	return p.source
}

// IsVaultEnabled returns true if secrets are loaded from vault
func (p *Provider) IsVaultEnabled() bool {
	return p.source == SourceVault
}
