package secrets

import (
	"context"
	"fmt"
	"os"
)

// EnvSecretsProvider implements SecretsProvider using environment variables
type EnvSecretsProvider struct {
	prefix string
}

var _ SecretsProvider = (*EnvSecretsProvider)(nil)

// NewEnvSecretsProvider creates a new environment variable secrets provider
func NewEnvSecretsProvider(prefix string) *EnvSecretsProvider {
	return &EnvSecretsProvider{prefix: prefix}
}

// GetSecret looks up prefix+key, then key itself.
func (e *EnvSecretsProvider) GetSecret(ctx context.Context, key string) (string, error) {
	if e.prefix != "" {
		if value := os.Getenv(e.prefix + key); value != "" {
			return value, nil
		}
	}
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("%w in environment: %s", ErrNotFound, key)
}

// Close is a no-op for the environment provider.
func (e *EnvSecretsProvider) Close() error {
	return nil
}
