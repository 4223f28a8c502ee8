package gen

import (
	"context"

	"github.com/poiesic/recall/core"
)

// Generator produces a natural-language answer for a query, grounded in the
// retrieved statements. Implementations must be thread-safe for concurrent
// use.
type Generator interface {
	// Generate answers the query using the given statements as supporting
	// context. The statements arrive ranked, most relevant first.
	// Returns an error if generation fails; an empty context is allowed.
	Generate(ctx context.Context, query string, statements []core.Statement) (string, error)

	// Close releases resources held by the generator.
	// After Close is called, the generator should not be used.
	Close() error
}
