package secrets

import (
	"context"
	"errors"
	"fmt"
)

// Chain asks each provider in order and returns the first value found.
// Errors other than ErrNotFound stop the lookup.
type Chain struct {
	providers []SecretsProvider
}

var _ SecretsProvider = (*Chain)(nil)

// NewChain creates a failover chain over providers.
func NewChain(providers ...SecretsProvider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) GetSecret(ctx context.Context, key string) (string, error) {
	for _, p := range c.providers {
		value, err := p.GetSecret(ctx, key)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, key)
}

// Close closes every provider and joins their errors.
func (c *Chain) Close() error {
	var errs []error
	for _, p := range c.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
