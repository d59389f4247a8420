package swagger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/smartystreets/goconvey/convey"
	"go.yaml.in/yaml/v3"

	"github.com/okian/apiroute/internal/dispatch"
)

type staticRoutes []dispatch.RouteInfo

func (s staticRoutes) Routes() []dispatch.RouteInfo { return s }

var testRoutes = staticRoutes{
	{Route: "/api", Path: "/time", Method: http.MethodGet},
	{Route: "/api", Path: "/echo", Method: http.MethodPost},
	{Route: "/api", Path: "/time", Method: http.MethodGet},
	{Route: "/system", Path: "/openapi.yaml", Method: http.MethodGet},
}

func TestBuild(t *testing.T) {
	convey.Convey("Given a route table", t, func() {
		doc := Build(testRoutes, "apiroute", "v1")

		convey.Convey("Then it should describe every distinct path", func() {
			convey.So(doc.OpenAPI, convey.ShouldEqual, "3.0.3")
			convey.So(doc.Info, convey.ShouldResemble, Info{Title: "apiroute", Version: "v1"})
			convey.So(len(doc.Paths), convey.ShouldEqual, 3)
		})

		convey.Convey("Then operations should be keyed by lowercase method", func() {
			op, ok := doc.Paths["/api/echo"]["post"]
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(op.OperationID, convey.ShouldEqual, "post_api_echo")
			convey.So(op.Tags, convey.ShouldResemble, []string{"/api"})
		})

		convey.Convey("Then duplicate routes should collapse to one operation", func() {
			convey.So(len(doc.Paths["/api/time"]), convey.ShouldEqual, 1)
		})

		convey.Convey("Then dots in paths should not leak into operation ids", func() {
			convey.So(doc.Paths["/system/openapi.yaml"]["get"].OperationID, convey.ShouldEqual, "get_system_openapi_yaml")
		})
	})

	convey.Convey("Given no routes", t, func() {
		doc := Build(nil, "empty", "v0")
		convey.So(doc.Paths, convey.ShouldBeEmpty)
	})
}

func TestHandler(t *testing.T) {
	convey.Convey("Given a swagger handler", t, func() {
		h := NewHandler(testRoutes, "apiroute", "v1", "/system/openapi.yaml")

		convey.Convey("When requesting the OpenAPI document", func() {
			w := httptest.NewRecorder()
			h.HandleSpec(w, httptest.NewRequest(http.MethodGet, "/system/openapi.yaml", http.NoBody))

			convey.Convey("Then it should return YAML that round-trips to the built document", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")

				var got Document
				convey.So(yaml.Unmarshal(w.Body.Bytes(), &got), convey.ShouldBeNil)
				diff := cmp.Diff(Build(testRoutes, "apiroute", "v1"), got)
				convey.So(diff, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When requesting the docs page", func() {
			w := httptest.NewRecorder()
			h.HandleDocs(w, httptest.NewRequest(http.MethodGet, "/system/docs", http.NoBody))

			convey.Convey("Then it should render ReDoc pointed at the OpenAPI document", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "apiroute - ReDoc")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `openapi.yaml`)
			})
		})
	})
}
