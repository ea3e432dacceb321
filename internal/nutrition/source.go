// ABOUTME: Result type, Source capability and typed lookup errors for nutrition lookup.
// ABOUTME: Each external provider is a Source; failures are reported as *SourceError.
package nutrition

import (
	"context"
	"errors"
	"fmt"
)

// Provenance tags for results.
const (
	SourceCalorieNinjas = "calorieninjas"
	SourceEdamam        = "edamam"
	SourceLocalTable    = "local_table"
)

// Result is the calorie and macro total for one free-text query.
type Result struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	Source   string  `json:"source"`
}

// Source resolves a query against one data provider.
// A nil result is never returned together with a nil error.
type Source interface {
	Name() string
	Resolve(ctx context.Context, query string) (*Result, error)
}

// ZeroCaloriesAccepter is implemented by sources whose zero-calorie results
// are genuine matches. Sources without it have zero totals treated as no match.
type ZeroCaloriesAccepter interface {
	AcceptsZeroCalories() bool
}

// Offliner is implemented by sources that answer without the network.
// The chain still consults them after the caller's context is done.
type Offliner interface {
	Offline() bool
}

func isOffline(src Source) bool {
	o, ok := src.(Offliner)
	return ok && o.Offline()
}

// Lookup error kinds. Every Source failure wraps exactly one of these.
var (
	ErrNotConfigured = errors.New("source not configured")
	ErrTransport     = errors.New("transport failure")
	ErrStatus        = errors.New("unexpected status")
	ErrMalformed     = errors.New("malformed response")
	ErrNoMatch       = errors.New("no matching food")
)

// SourceError attributes a lookup failure to a source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func sourceErr(source string, kind error, format string, args ...any) error {
	if format == "" {
		return &SourceError{Source: source, Err: kind}
	}
	return &SourceError{Source: source, Err: fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))}
}

// IsSuppressible reports whether err is one of the lookup error kinds the
// chain degrades past, including a cancelled or expired context.
func IsSuppressible(err error) bool {
	for _, kind := range []error{ErrNotConfigured, ErrTransport, ErrStatus, ErrMalformed, ErrNoMatch,
		context.DeadlineExceeded, context.Canceled} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// Kind returns a short label for the lookup error kind of err.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrNoMatch):
		return "no_match"
	default:
		return "other"
	}
}
