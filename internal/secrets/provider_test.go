package secrets_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/straye-as/elevator-api/internal/secrets"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mapStore map[string]string

func (m mapStore) GetSecret(_ context.Context, name string) (string, error) {
	value, ok := m[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
	}
	return value, nil
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		source      secrets.SecretSource
		environment string
		want        secrets.SecretSource
	}{
		{secrets.SourceAuto, "development", secrets.SourceEnvironment},
		{secrets.SourceAuto, "", secrets.SourceEnvironment},
		{secrets.SourceAuto, "staging", secrets.SourceVault},
		{secrets.SourceAuto, "production", secrets.SourceVault},
		{secrets.SourceEnvironment, "production", secrets.SourceEnvironment},
		{secrets.SourceVault, "development", secrets.SourceVault},
	}

	for _, tt := range tests {
		t.Run(string(tt.source)+"/"+tt.environment, func(t *testing.T) {
			assert.Equal(t, tt.want, secrets.ResolveSource(tt.source, tt.environment))
		})
	}
}

func TestProvider_Apply(t *testing.T) {
	store := mapStore{
		"jwt-secret":             "from-vault",
		"POSTGRES-MAIN-PASSWORD": "vault-password",
	}
	provider := secrets.NewProviderWithStore(secrets.SourceVault, store, zap.NewNop())
	t.Setenv("DATABASE_PASSWORD", "env-password")

	jwtSecret := ""
	dbPassword := ""
	apiKey := "configured"

	resolved := provider.Apply(context.Background(), []secrets.Binding{
		{SecretName: "jwt-secret", EnvName: "JWT_SECRET_UNSET_IN_TEST", Target: &jwtSecret},
		{SecretName: "POSTGRES-MAIN-PASSWORD", EnvName: "DATABASE_PASSWORD", Target: &dbPassword},
		{SecretName: "admin-api-key", Target: &apiKey},
	})

	assert.Equal(t, 2, resolved)
	assert.Equal(t, "from-vault", jwtSecret)
	assert.Equal(t, "env-password", dbPassword)
	assert.Equal(t, "configured", apiKey)
	assert.True(t, provider.IsVaultEnabled())
}
