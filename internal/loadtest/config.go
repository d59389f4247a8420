// Package loadtest drives a running apiroute service with a concurrent mix
// of matching and non-matching requests and checks every dispatch decision.
package loadtest

import "time"

// Dispatch outcomes a planned request is expected to produce.
const (
	OutcomeMatched    = "matched"
	OutcomeNoRoute    = "no_route"
	OutcomeNoEndpoint = "no_endpoint"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL     string        // Base URL of the service
	APIRoute    string        // Public Api prefix
	SystemRoute string        // System Api prefix
	NumRequests int           // Number of requests to send
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Optional JSON report path
	Verbose     bool          // Log every unexpected response
}

// Request is one planned call and the answer it should get.
type Request struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	Body       string `json:"body,omitempty"`
	WantStatus int    `json:"want_status"`
	Outcome    string `json:"outcome"`
}

// Result records what the service answered.
type Result struct {
	Request
	Status     int     `json:"status"`
	RequestID  string  `json:"request_id,omitempty"`
	Err        string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// OK reports whether the service answered as planned.
func (r Result) OK() bool {
	return r.Err == "" && r.Status == r.WantStatus
}

// ServerStats is the subset of the system stats endpoint the run compares.
type ServerStats struct {
	Matched    uint64 `json:"matched"`
	NoRoute    uint64 `json:"noRoute"`
	NoEndpoint uint64 `json:"noEndpoint"`
	Panics     uint64 `json:"panics"`
}

// Stats holds run statistics.
type Stats struct {
	Planned     int            `json:"planned"`
	Sent        int            `json:"sent"`
	AsExpected  int            `json:"as_expected"`
	Unexpected  int            `json:"unexpected"`
	Failed      int            `json:"failed"`
	ByOutcome   map[string]int `json:"by_outcome"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
	Duration    time.Duration  `json:"duration"`
	RequestsPS  float64        `json:"requests_per_second"`
	SuccessRate float64        `json:"success_rate"`
}

// Report is the outcome of Run.
type Report struct {
	Stats   Stats       `json:"stats"`
	Before  ServerStats `json:"server_before"`
	After   ServerStats `json:"server_after"`
	Results []Result    `json:"results"`
}
