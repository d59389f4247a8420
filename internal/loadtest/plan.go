package loadtest

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// requestCase builds the i-th request of one kind.
type requestCase func(cfg *Config, i int) Request

// cases cycles through every dispatch outcome: matched endpoints, a path
// match with the wrong method, an unknown suffix and an unclaimed route.
var cases = []requestCase{
	func(cfg *Config, _ int) Request {
		return Request{Method: http.MethodGet, Path: cfg.APIRoute + "/time", WantStatus: http.StatusOK, Outcome: OutcomeMatched}
	},
	func(cfg *Config, i int) Request {
		return Request{Method: http.MethodGet, Path: fmt.Sprintf("%s/uuid?count=%d", cfg.APIRoute, i%5+1), WantStatus: http.StatusOK, Outcome: OutcomeMatched}
	},
	func(cfg *Config, i int) Request {
		body := fmt.Sprintf(`{"seq":%d,"id":%q}`, i, uuid.NewString())
		return Request{Method: http.MethodPost, Path: cfg.APIRoute + "/echo", Body: body, WantStatus: http.StatusOK, Outcome: OutcomeMatched}
	},
	func(cfg *Config, _ int) Request {
		return Request{Method: http.MethodGet, Path: cfg.APIRoute + "/whoami", WantStatus: http.StatusOK, Outcome: OutcomeMatched}
	},
	func(cfg *Config, _ int) Request {
		return Request{Method: http.MethodPost, Path: cfg.APIRoute + "/time", WantStatus: http.StatusNotFound, Outcome: OutcomeNoEndpoint}
	},
	func(cfg *Config, i int) Request {
		return Request{Method: http.MethodGet, Path: fmt.Sprintf("%s/missing/%d", cfg.APIRoute, i), WantStatus: http.StatusNotFound, Outcome: OutcomeNoEndpoint}
	},
	func(_ *Config, i int) Request {
		return Request{Method: http.MethodGet, Path: fmt.Sprintf("/unclaimed/%d", i), WantStatus: http.StatusNotFound, Outcome: OutcomeNoRoute}
	},
}

// buildPlan returns cfg.NumRequests requests cycling through cases.
func buildPlan(cfg *Config) []Request {
	plan := make([]Request, cfg.NumRequests)
	for i := range plan {
		plan[i] = cases[i%len(cases)](cfg, i)
	}
	return plan
}

// countOutcomes tallies planned requests by outcome.
func countOutcomes(plan []Request) map[string]int {
	out := map[string]int{}
	for _, r := range plan {
		out[r.Outcome]++
	}
	return out
}
