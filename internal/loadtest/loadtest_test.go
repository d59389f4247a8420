package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/apiroute/internal/app"
	"github.com/okian/apiroute/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestConfig(baseURL string) *Config {
	return &Config{
		BaseURL:     baseURL,
		APIRoute:    "/api",
		SystemRoute: "/system",
		NumRequests: 14,
		Workers:     4,
		Timeout:     5 * time.Second,
	}
}

func startService() (*httptest.Server, func()) {
	svc := service.New(service.WithLogger(logger.Nop()))
	So(svc.Start(context.Background()), ShouldBeNil)
	ts := httptest.NewServer(svc.Handler())
	return ts, func() {
		ts.Close()
		svc.Stop()
	}
}

func TestBuildPlan(t *testing.T) {
	Convey("Given a plan of two full cycles", t, func() {
		cfg := newTestConfig("http://unused")
		plan := buildPlan(cfg)

		Convey("Then every outcome should be represented", func() {
			So(len(plan), ShouldEqual, 14)
			counts := countOutcomes(plan)
			So(counts[OutcomeMatched], ShouldEqual, 8)
			So(counts[OutcomeNoEndpoint], ShouldEqual, 4)
			So(counts[OutcomeNoRoute], ShouldEqual, 2)
		})

		Convey("Then echo bodies should be unique", func() {
			So(plan[2].Body, ShouldNotBeEmpty)
			So(plan[9].Body, ShouldNotBeEmpty)
			So(plan[2].Body, ShouldNotEqual, plan[9].Body)
		})

		Convey("Then paths should use the configured routes", func() {
			cfg.APIRoute = "/v1"
			So(buildPlan(cfg)[0].Path, ShouldEqual, "/v1/time")
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		ts, stop := startService()
		defer stop()

		Convey("When the plan matches the service routes", func() {
			cfg := newTestConfig(ts.URL)
			cfg.OutputFile = filepath.Join(t.TempDir(), "out", "report.json")

			report, err := Run(context.Background(), cfg)

			Convey("Then every response should be as planned", func() {
				So(err, ShouldBeNil)
				So(report.Stats.Sent, ShouldEqual, 14)
				So(report.Stats.AsExpected, ShouldEqual, 14)
				So(report.Stats.SuccessRate, ShouldEqual, 100.0)
				So(report.After.Matched-report.Before.Matched, ShouldBeGreaterThanOrEqualTo, uint64(8))
				So(report.After.NoEndpoint-report.Before.NoEndpoint, ShouldEqual, uint64(4))
				So(report.After.NoRoute-report.Before.NoRoute, ShouldEqual, uint64(2))
				So(report.Results[0].RequestID, ShouldNotBeEmpty)
			})

			Convey("Then the report should be saved", func() {
				data, err := os.ReadFile(cfg.OutputFile)
				So(err, ShouldBeNil)

				var saved Report
				So(json.Unmarshal(data, &saved), ShouldBeNil)
				So(saved.Stats.Planned, ShouldEqual, 14)
				So(len(saved.Results), ShouldEqual, 14)
			})
		})

		Convey("When the client expects a different api route", func() {
			cfg := newTestConfig(ts.URL)
			cfg.APIRoute = "/v1"
			cfg.Verbose = true

			report, err := Run(context.Background(), cfg)

			Convey("Then the run should report unexpected responses", func() {
				So(errors.Is(err, ErrUnexpected), ShouldBeTrue)
				So(report, ShouldNotBeNil)
				So(report.Stats.Unexpected, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given an unhealthy service", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		_, err := Run(context.Background(), newTestConfig(ts.URL))

		Convey("Then Run should fail the health check", func() {
			So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
		})
	})

	Convey("Given invalid configs", t, func() {
		cases := []struct {
			name   string
			mutate func(*Config)
		}{
			{"no base url", func(c *Config) { c.BaseURL = "" }},
			{"no requests", func(c *Config) { c.NumRequests = 0 }},
			{"no workers", func(c *Config) { c.Workers = 0 }},
			{"no api route", func(c *Config) { c.APIRoute = "" }},
		}
		for _, tc := range cases {
			Convey("Then "+tc.name+" should be rejected", func() {
				cfg := newTestConfig("http://unused")
				tc.mutate(cfg)
				_, err := Run(context.Background(), cfg)
				So(errors.Is(err, ErrInvalidRun), ShouldBeTrue)
			})
		}

		_, err := Run(context.Background(), nil)
		So(errors.Is(err, ErrInvalidRun), ShouldBeTrue)
	})
}

func TestVerifyResults(t *testing.T) {
	Convey("Given a report whose counters did not move", t, func() {
		report := &Report{
			Stats:  Stats{Sent: 1, AsExpected: 1, ByOutcome: map[string]int{OutcomeNoRoute: 1}},
			Before: ServerStats{NoRoute: 3},
			After:  ServerStats{NoRoute: 3},
		}

		err := verifyResults(context.Background(), logger.Nop(), newTestConfig("http://unused"), report)

		Convey("Then it should report counter drift", func() {
			So(errors.Is(err, ErrCounterDrift), ShouldBeTrue)
		})
	})

	Convey("Given a report with handler panics", t, func() {
		report := &Report{
			Stats:  Stats{ByOutcome: map[string]int{}},
			Before: ServerStats{Panics: 0},
			After:  ServerStats{Panics: 2},
		}

		err := verifyResults(context.Background(), logger.Nop(), newTestConfig("http://unused"), report)
		So(errors.Is(err, ErrCounterDrift), ShouldBeTrue)
	})
}

func TestHTTPClientDo(t *testing.T) {
	Convey("Given a slow endpoint", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(20 * time.Millisecond)
			w.Header().Set(requestIDHeader, "slow-1")
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		res := newHTTPClient(ts.URL, time.Second).do(context.Background(),
			Request{Method: http.MethodGet, Path: "/slow", WantStatus: http.StatusOK})

		Convey("Then the result should carry the elapsed time", func() {
			So(res.OK(), ShouldBeTrue)
			So(res.RequestID, ShouldEqual, "slow-1")
			So(res.DurationMS, ShouldBeGreaterThanOrEqualTo, 20.0)
		})
	})

	Convey("Given an unreachable service", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		res := newHTTPClient(url, time.Second).do(context.Background(),
			Request{Method: http.MethodGet, Path: "/", WantStatus: http.StatusOK})

		Convey("Then the transport error and duration should be recorded", func() {
			So(res.Err, ShouldNotBeEmpty)
			So(res.OK(), ShouldBeFalse)
			So(res.DurationMS, ShouldBeGreaterThan, 0.0)
		})
	})
}
