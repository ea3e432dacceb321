// ABOUTME: Ordered fallback chain over nutrition sources.
// ABOUTME: Stops at the first usable result; every suppressed failure is logged and observed.
package nutrition

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/charmbracelet/log"
)

// Observer receives one callback per source attempt.
type Observer interface {
	LookupHit(source string)
	LookupMiss(source string, err error)
}

type nopObserver struct{}

func (nopObserver) LookupHit(string)         {}
func (nopObserver) LookupMiss(string, error) {}

// Chain tries each source in order until one yields a usable result.
type Chain struct {
	sources []Source
	logger  *log.Logger
	obs     Observer
}

// NewChain creates a chain over sources in priority order.
// A nil logger or observer disables that hook.
func NewChain(logger *log.Logger, obs Observer, sources ...Source) *Chain {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Chain{sources: sources, logger: logger, obs: obs}
}

// Sources returns the source names in priority order.
func (c *Chain) Sources() []string {
	names := make([]string, 0, len(c.sources))
	for _, s := range c.sources {
		names = append(names, s.Name())
	}
	return names
}

// Lookup resolves query to nutrition totals, or nil when no source finds it.
// It never fails: source errors degrade to the next source.
func (c *Chain) Lookup(ctx context.Context, query string) *Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	for _, src := range c.sources {
		// Once ctx is done only offline sources can still answer.
		if err := ctx.Err(); err != nil && !isOffline(src) {
			c.miss(src.Name(), query, &SourceError{Source: src.Name(), Err: err})
			continue
		}
		res, err := src.Resolve(ctx, query)
		if err == nil {
			err = usable(src, res)
		}
		if err != nil {
			c.miss(src.Name(), query, err)
			continue
		}
		c.obs.LookupHit(src.Name())
		if c.logger != nil {
			c.logger.Debug("nutrition lookup hit", "source", src.Name(), "query", query, "kcal", res.Calories)
		}
		return res
	}
	return nil
}

// usable enforces the result invariants. A zero calorie total from a source
// that does not vouch for it means the provider understood nothing.
func usable(src Source, res *Result) error {
	if res == nil {
		return &SourceError{Source: src.Name(), Err: ErrNoMatch}
	}
	if math.IsNaN(res.Calories) || math.IsInf(res.Calories, 0) || res.Calories < 0 {
		return sourceErr(src.Name(), ErrMalformed, "calories %v", res.Calories)
	}
	if res.Calories == 0 {
		if z, ok := src.(ZeroCaloriesAccepter); !ok || !z.AcceptsZeroCalories() {
			return sourceErr(src.Name(), ErrNoMatch, "zero calories")
		}
	}
	return nil
}

func (c *Chain) miss(source, query string, err error) {
	c.obs.LookupMiss(source, err)
	if c.logger == nil {
		return
	}
	switch {
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrNoMatch):
		c.logger.Debug("nutrition source skipped", "source", source, "query", query, "err", err)
	case IsSuppressible(err):
		c.logger.Warn("nutrition source failed", "source", source, "query", query, "err", err)
	default:
		c.logger.Error("nutrition source returned unexpected error", "source", source, "query", query, "err", err)
	}
}
