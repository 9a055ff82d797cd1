package verify

import (
	"context"

	"github.com/vidfact/vidfact/internal/model"
)

// Verifier submits one claim to an external fact-check service and
// returns a verdict. A returned error means the call itself failed; the
// orchestrator records a sentinel verdict and moves on to the next
// claim in the chunk.
type Verifier interface {
	Check(ctx context.Context, claim string) (model.Verdict, error)
}
