package loadtest

import (
	"context"
	"fmt"

	"github.com/okian/apiroute/pkg/logger"
)

// verifyResults checks every response against the plan and the dispatcher
// counter deltas against the planned outcomes. Other clients may add
// traffic, so deltas must be at least the planned count.
func verifyResults(ctx context.Context, log logger.Logger, cfg *Config, report *Report) error {
	s := report.Stats
	if s.Unexpected > 0 || s.Failed > 0 {
		if cfg.Verbose {
			for _, r := range report.Results {
				if !r.OK() {
					log.Warn(ctx, "unexpected response",
						logger.String("method", r.Method),
						logger.String("path", r.Path),
						logger.Int("want", r.WantStatus),
						logger.Int("got", r.Status),
						logger.String("requestID", r.RequestID),
						logger.String("error", r.Err),
					)
				}
			}
		}
		return fmt.Errorf("%w: %d unexpected, %d failed of %d", ErrUnexpected, s.Unexpected, s.Failed, s.Sent)
	}

	checks := []struct {
		outcome       string
		before, after uint64
	}{
		{OutcomeMatched, report.Before.Matched, report.After.Matched},
		{OutcomeNoEndpoint, report.Before.NoEndpoint, report.After.NoEndpoint},
		{OutcomeNoRoute, report.Before.NoRoute, report.After.NoRoute},
	}
	for _, c := range checks {
		want := uint64(s.ByOutcome[c.outcome])
		if got := c.after - c.before; got < want {
			return fmt.Errorf("%w: %s grew by %d, want at least %d", ErrCounterDrift, c.outcome, got, want)
		}
	}
	if report.After.Panics != report.Before.Panics {
		return fmt.Errorf("%w: %d handler panics during the run", ErrCounterDrift, report.After.Panics-report.Before.Panics)
	}

	log.Info(ctx, "dispatch counters verified",
		logger.Any("before", report.Before),
		logger.Any("after", report.After),
	)
	return nil
}
