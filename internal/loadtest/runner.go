package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/apiroute/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
	percentage          = 100
)

// Run executes a complete load test against cfg.BaseURL. The report is
// returned even when verification fails.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	log := logger.Get().Named("loadtest")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	report := &Report{Stats: Stats{StartTime: time.Now()}}

	log.Info(ctx, "starting apiroute load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.NumRequests),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
	)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, cfg); err != nil {
		return nil, err
	}

	// Step 2: Snapshot dispatcher counters
	if err := client.getJSON(ctx, cfg.SystemRoute+"/stats", &report.Before); err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}

	// Step 3: Send the plan concurrently
	plan := buildPlan(cfg)
	report.Stats.Planned = len(plan)
	report.Stats.ByOutcome = countOutcomes(plan)
	report.Results = sendAll(ctx, client, cfg.Workers, plan)

	// Step 4: Snapshot again and compare
	if err := client.getJSON(ctx, cfg.SystemRoute+"/stats", &report.After); err != nil {
		return report, fmt.Errorf("read stats: %w", err)
	}

	summarize(report)
	displayFinalStats(ctx, log, report)

	if cfg.OutputFile != "" {
		if err := saveReport(cfg.OutputFile, report); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	if err := verifyResults(ctx, log, cfg, report); err != nil {
		return report, err
	}

	log.Info(ctx, "load test completed successfully")
	return report, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidRun)
	case cfg.BaseURL == "":
		return fmt.Errorf("%w: base url is required", ErrInvalidRun)
	case cfg.NumRequests <= 0:
		return fmt.Errorf("%w: requests must be positive", ErrInvalidRun)
	case cfg.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidRun)
	case cfg.APIRoute == "" || cfg.SystemRoute == "":
		return fmt.Errorf("%w: routes are required", ErrInvalidRun)
	}
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *httpClient, cfg *Config) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := client.getJSON(ctx, cfg.SystemRoute+"/healthz", &health); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("%w: status %q", ErrUnhealthy, health.Status)
	}
	return nil
}

// sendAll runs plan with at most workers requests in flight. Results keep
// the plan order.
func sendAll(ctx context.Context, client *httpClient, workers int, plan []Request) []Result {
	results := make([]Result, len(plan))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, req := range plan {
		g.Go(func() error {
			results[i] = client.do(gctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func summarize(report *Report) {
	s := &report.Stats
	for _, r := range report.Results {
		s.Sent++
		switch {
		case r.Err != "":
			s.Failed++
		case r.OK():
			s.AsExpected++
		default:
			s.Unexpected++
		}
	}

	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
	if s.Sent > 0 {
		s.SuccessRate = float64(s.AsExpected) / float64(s.Sent) * percentage
	}
	if s.Duration > 0 {
		s.RequestsPS = float64(s.Sent) / s.Duration.Seconds()
	}
}

// saveReport writes report as indented JSON.
func saveReport(filename string, report *Report) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, report *Report) {
	s := report.Stats
	log.Info(ctx, "final statistics",
		logger.Int("planned", s.Planned),
		logger.Int("sent", s.Sent),
		logger.Int("asExpected", s.AsExpected),
		logger.Int("unexpected", s.Unexpected),
		logger.Int("failed", s.Failed),
		logger.Int("matched", s.ByOutcome[OutcomeMatched]),
		logger.Int("noEndpoint", s.ByOutcome[OutcomeNoEndpoint]),
		logger.Int("noRoute", s.ByOutcome[OutcomeNoRoute]),
		logger.String("duration", s.Duration.String()),
		logger.Float64("successRate", s.SuccessRate),
		logger.Float64("requestsPerSecond", s.RequestsPS),
	)
}
