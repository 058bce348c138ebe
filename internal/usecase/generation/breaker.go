package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/homegrid/intentd/internal/domain"
)

// BreakerConfig tunes the circuit breaker around the generative model.
type BreakerConfig struct {
	// MaxFailures trips the circuit after this many consecutive failures.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before probing again.
	OpenTimeout time.Duration
	// HalfOpenMaxRequests limits probe requests while half-open.
	HalfOpenMaxRequests uint32
}

// DefaultBreakerConfig matches a slow upstream: trip after 3 consecutive
// failures, probe again after 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:         3,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 2,
	}
}

// BreakerGenerator wraps a Generator with a circuit breaker so a failing
// model API sheds load fast instead of stacking up slow timeouts. An open
// circuit reports as a provider error, which the resolver degrades on.
type BreakerGenerator struct {
	inner   domain.Generator
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewBreakerGenerator wraps a generator with circuit breaking.
func NewBreakerGenerator(inner domain.Generator, cfg BreakerConfig, logger *zap.Logger) *BreakerGenerator {
	bg := &BreakerGenerator{inner: inner, logger: logger}

	bg.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "generation",
		MaxRequests: cfg.HalfOpenMaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Generation circuit state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return bg
}

// Generate implements domain.Generator.
func (b *BreakerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return b.execute(ctx, func() (string, error) {
		return b.inner.Generate(ctx, prompt)
	})
}

// DescribeImage implements domain.Generator. Image calls share the circuit
// with text calls since both hit the same upstream.
func (b *BreakerGenerator) DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	return b.execute(ctx, func() (string, error) {
		return b.inner.DescribeImage(ctx, image, mimeType)
	})
}

// State reports the current circuit state for health checks.
func (b *BreakerGenerator) State() string {
	return b.breaker.State().String()
}

func (b *BreakerGenerator) execute(ctx context.Context, fn func() (string, error)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("generation canceled: %w", err)
	}

	result, err := b.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("generation circuit open: %w", domain.ErrGenerationProviderError)
		}
		return "", err
	}

	return result.(string), nil
}
