package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/apiroute/pkg/router"
	"github.com/smartystreets/goconvey/convey"
)

func TestEndpoint_CheckMethod(t *testing.T) {
	convey.Convey("Given a GET endpoint", t, func() {
		ep := router.NewEndpoint("/users", http.MethodGet, func(http.ResponseWriter, *http.Request, ...any) {})

		convey.Convey("Then only the exact token matches", func() {
			convey.So(ep.CheckMethod("GET"), convey.ShouldBeTrue)
			convey.So(ep.CheckMethod("get"), convey.ShouldBeFalse)
			convey.So(ep.CheckMethod("GET "), convey.ShouldBeFalse)
			convey.So(ep.CheckMethod("POST"), convey.ShouldBeFalse)
			convey.So(ep.CheckMethod(""), convey.ShouldBeFalse)
		})

		convey.Convey("And its fields are exposed read-only", func() {
			convey.So(ep.Path(), convey.ShouldEqual, "/users")
			convey.So(ep.Method(), convey.ShouldEqual, http.MethodGet)
		})
	})
}

func TestEndpoint_Execute(t *testing.T) {
	convey.Convey("Given an endpoint that records its invocation", t, func() {
		var got []any
		calls := 0
		ep := router.NewEndpoint("/x", http.MethodPost, func(w http.ResponseWriter, r *http.Request, args ...any) {
			calls++
			got = args
			w.WriteHeader(http.StatusTeapot)
		})
		req := httptest.NewRequest(http.MethodPost, "/x", http.NoBody)

		convey.Convey("When executed without args", func() {
			w := httptest.NewRecorder()
			ep.ExecuteHandler(w, req)

			convey.Convey("Then the handler runs once with no args", func() {
				convey.So(calls, convey.ShouldEqual, 1)
				convey.So(got, convey.ShouldBeEmpty)
				convey.So(w.Code, convey.ShouldEqual, http.StatusTeapot)
			})
		})

		convey.Convey("When executed with args", func() {
			w := httptest.NewRecorder()
			ep.ExecuteHandlerArgs(w, req, "a", 2, nil)

			convey.Convey("Then the args arrive unchanged and in order", func() {
				convey.So(calls, convey.ShouldEqual, 1)
				convey.So(got, convey.ShouldResemble, []any{"a", 2, nil})
			})
		})
	})

	convey.Convey("Given an endpoint whose handler panics", t, func() {
		boom := errors.New("boom")
		ep := router.NewEndpoint("/x", http.MethodGet, func(http.ResponseWriter, *http.Request, ...any) {
			panic(boom)
		})

		convey.Convey("Then the panic reaches the caller unchanged", func() {
			convey.So(func() {
				ep.ExecuteHandler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", http.NoBody))
			}, convey.ShouldPanicWith, boom)
		})
	})
}

func TestAdapters(t *testing.T) {
	convey.Convey("Given standard library handlers", t, func() {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)

		convey.Convey("Then Func ignores extra args", func() {
			w := httptest.NewRecorder()
			router.Func(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			})(w, req, "ignored")
			convey.So(w.Code, convey.ShouldEqual, http.StatusAccepted)
		})

		convey.Convey("Then Handler serves through ServeHTTP", func() {
			w := httptest.NewRecorder()
			router.Handler(http.NotFoundHandler())(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}
