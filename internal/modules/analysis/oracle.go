package analysis

import (
	"context"
	"time"
)

// AssessmentRequest is what the oracle is asked to judge: the action's
// description plus whatever optional context the submitter provided.
type AssessmentRequest struct {
	Description  string
	LocationName string // empty when absent
	HasImage     bool
}

// Oracle is the external content-assessment model. Implementations return
// the raw model output; parsing and repair happen in the pipeline, which
// must survive any output shape. Call failures map onto the apperror
// oracle sentinels (unavailable / rate limited / quota exhausted) and are
// never retried here.
type Oracle interface {
	Assess(ctx context.Context, req AssessmentRequest) (string, error)
}

type timeoutOracle struct {
	next    Oracle
	timeout time.Duration
}

// WithTimeout bounds every Assess call with its own deadline.
func WithTimeout(next Oracle, timeout time.Duration) Oracle {
	if timeout <= 0 {
		return next
	}
	return &timeoutOracle{next: next, timeout: timeout}
}

func (o *timeoutOracle) Assess(ctx context.Context, req AssessmentRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.next.Assess(ctx, req)
}
