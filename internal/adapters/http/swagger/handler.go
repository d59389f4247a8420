// Package swagger serves an OpenAPI document generated from the registered
// route table, and a ReDoc page that renders it.
package swagger

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/okian/apiroute/internal/dispatch"
)

// RoutesProvider lists the registered routes.
type RoutesProvider interface {
	Routes() []dispatch.RouteInfo
}

// Handler serves the generated OpenAPI document and the docs page.
type Handler struct {
	routes  RoutesProvider
	title   string
	version string
	specURL string
}

// NewHandler creates a handler. specURL is where the docs page loads the
// OpenAPI document from, normally the path HandleSpec is registered at.
func NewHandler(routes RoutesProvider, title, version, specURL string) *Handler {
	return &Handler{routes: routes, title: title, version: version, specURL: specURL}
}

// HandleSpec handles GET /openapi.yaml requests.
func (h *Handler) HandleSpec(w http.ResponseWriter, _ *http.Request, _ ...any) {
	out, err := yaml.Marshal(Build(h.routes.Routes(), h.title, h.version))
	if err != nil {
		http.Error(w, fmt.Sprintf("%v: %v", ErrServe, err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(out)
}

// HandleDocs handles GET /docs requests.
func (h *Handler) HandleDocs(w http.ResponseWriter, _ *http.Request, _ ...any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, struct{ Title, SpecURL string }{h.title, h.specURL})
}

// Document is the subset of OpenAPI 3 the route table can fill in.
type Document struct {
	OpenAPI string              `yaml:"openapi"`
	Info    Info                `yaml:"info"`
	Paths   map[string]PathItem `yaml:"paths"`
}

// Info describes the API.
type Info struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

// PathItem maps a lowercase method to its operation.
type PathItem map[string]Operation

// Operation documents one endpoint.
type Operation struct {
	OperationID string              `yaml:"operationId"`
	Summary     string              `yaml:"summary"`
	Tags        []string            `yaml:"tags"`
	Responses   map[string]Response `yaml:"responses"`
}

// Response documents one status code.
type Response struct {
	Description string `yaml:"description"`
}

// Build converts a route table into an OpenAPI document. Routes are
// literal prefixes, so each path also matches every URL it prefixes.
func Build(routes []dispatch.RouteInfo, title, version string) Document {
	doc := Document{
		OpenAPI: "3.0.3",
		Info:    Info{Title: title, Version: version},
		Paths:   make(map[string]PathItem, len(routes)),
	}
	for _, rt := range routes {
		full := rt.Route + rt.Path
		method := strings.ToLower(rt.Method)

		item, ok := doc.Paths[full]
		if !ok {
			item = PathItem{}
			doc.Paths[full] = item
		}
		// First registered wins, as in dispatch.
		if _, dup := item[method]; dup {
			continue
		}
		item[method] = Operation{
			OperationID: operationID(rt),
			Summary:     fmt.Sprintf("%s %s (prefix match)", rt.Method, full),
			Tags:        []string{rt.Route},
			Responses: map[string]Response{
				"200": {Description: "handled"},
				"404": {Description: "no endpoint for method and path"},
			},
		}
	}
	return doc
}

func operationID(rt dispatch.RouteInfo) string {
	parts := strings.FieldsFunc(rt.Route+rt.Path, func(r rune) bool {
		return r == '/' || r == '.' || r == '-' || r == '_'
	})
	return strings.ToLower(rt.Method) + "_" + strings.Join(parts, "_")
}

var indexTemplate = template.Must(template.New("docs").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>{{.Title}} - ReDoc</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
    <script>Redoc.init({{.SpecURL}}, { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`))
