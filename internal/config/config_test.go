package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/apiroute/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.LogFile, convey.ShouldBeEmpty)
			convey.So(cfg.APIRoute, convey.ShouldEqual, "/api")
			convey.So(cfg.SystemRoute, convey.ShouldEqual, "/system")
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, int64(1<<20))
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configs", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"bad log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"zero body limit", func(c *config.Config) { c.MaxBodyBytes = 0 }},
			{"zero shutdown", func(c *config.Config) { c.ShutdownTimeoutMS = 0 }},
			{"empty api route", func(c *config.Config) { c.APIRoute = "" }},
			{"relative system route", func(c *config.Config) { c.SystemRoute = "system" }},
			{"api route shadowing system", func(c *config.Config) { c.APIRoute = "/" }},
			{"system route shadowing api", func(c *config.Config) { c.APIRoute = "/system/api" }},
			{"identical routes", func(c *config.Config) { c.APIRoute = "/x"; c.SystemRoute = "/x" }},
		}

		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)

			convey.Convey("Then "+tc.name+" is rejected", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
