package llm

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerSettings configures the circuit breaker around an LLM client.
type BreakerSettings struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

// DefaultBreakerSettings returns settings that trip after half of at least five calls fail.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "llm",
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		MinRequests:      5,
		FailureThreshold: 0.5,
	}
}

// BreakerClient wraps a Client with a circuit breaker. While the breaker is open,
// calls fail immediately with gobreaker.ErrOpenState.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker[string]
}

// NewBreakerClient wraps next with a circuit breaker.
func NewBreakerClient(next Client, settings BreakerSettings, logger *zap.Logger) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	cbSettings := gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= settings.MinRequests &&
				failureRatio >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerClient{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[string](cbSettings),
	}
}

// GenerateContent generates text content through the breaker
func (b *BreakerClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.GenerateContent(ctx, prompt, tier)
	})
}

// GenerateJSON generates JSON content through the breaker
func (b *BreakerClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.GenerateJSON(ctx, prompt, tier)
	})
}

// GetModel returns the wrapped client's model for a tier
func (b *BreakerClient) GetModel(tier ModelTier) string {
	return b.next.GetModel(tier)
}

// Close closes the wrapped client
func (b *BreakerClient) Close() error {
	return b.next.Close()
}

// State returns the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

// Stats returns breaker statistics for health reporting.
func (b *BreakerClient) Stats() map[string]any {
	counts := b.cb.Counts()
	return map[string]any{
		"name":                 b.cb.Name(),
		"state":                b.cb.State().String(),
		"requests":             counts.Requests,
		"total_failures":       counts.TotalFailures,
		"consecutive_failures": counts.ConsecutiveFailures,
	}
}
