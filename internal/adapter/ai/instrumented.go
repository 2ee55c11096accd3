package ai

import (
	"time"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// InstrumentedGenerator decorates a TextGenerator with Prometheus metrics.
type InstrumentedGenerator struct {
	Inner domain.TextGenerator
}

// NewInstrumentedGenerator wraps gen with per-call metrics.
func NewInstrumentedGenerator(gen domain.TextGenerator) *InstrumentedGenerator {
	return &InstrumentedGenerator{Inner: gen}
}

// ModelName returns the wrapped generator's model identifier.
func (g *InstrumentedGenerator) ModelName() string { return g.Inner.ModelName() }

// GenerateJSON delegates to the wrapped generator and records call count and
// duration by model and outcome.
func (g *InstrumentedGenerator) GenerateJSON(ctx domain.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	out, err := g.Inner.GenerateJSON(ctx, systemPrompt, userPrompt)
	observability.ObserveGeneration(g.Inner.ModelName(), time.Since(start), err)
	return out, err
}
