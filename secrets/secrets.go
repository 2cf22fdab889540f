package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/constants"
)

// ErrNotFound is returned when no provider holds the requested secret.
var ErrNotFound = errors.New("secret not found")

// SecretsProvider resolves named secrets such as provider API keys.
type SecretsProvider interface {
	GetSecret(ctx context.Context, key string) (string, error)
	Close() error
}

// NewSecretsProvider builds the provider selected by cfg. The aws-sm driver
// falls back to environment variables for keys Secrets Manager does not hold.
func NewSecretsProvider(ctx context.Context, cfg config.SecretsConfig) (SecretsProvider, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", constants.SecretsDriverEnv:
		return NewEnvSecretsProvider(cfg.Prefix), nil
	case constants.SecretsDriverAWS:
		aws, err := NewAWSSecretsProvider(ctx, cfg.Region, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return NewChain(aws, NewEnvSecretsProvider("")), nil
	default:
		return nil, fmt.Errorf("unsupported secrets driver: %s", cfg.Driver)
	}
}
