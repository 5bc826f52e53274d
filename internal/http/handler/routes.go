package handler

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"textapi/docs"
	"textapi/internal/service"
)

// Deps are the collaborators the HTTP surface is built on.
type Deps struct {
	DB       *sql.DB
	Files    service.FileService
	Analyses service.AnalysisService
	// Gatherer backs /metrics. The route is skipped when nil.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps, opts Options) {
	app.Get("/swagger/*", SwaggerUI())

	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", LivenessProbe())
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Post("/upload", UploadFile(deps.Files, opts))

	app.Post("/analysis", InitiateAnalysis(deps.Analyses, opts))
	app.Get("/analysis/:taskId", GetAnalysisResult(deps.Analyses, opts))

	app.Get("/files", ListFiles(deps.Files, opts))
	app.Get("/files/:fileId", GetFile(deps.Files, opts))
	app.Get("/files/:fileId/analyses", ListFileAnalyses(deps.Analyses, opts))
}

// swaggerMu guards docs.SwaggerInfo, which the swagger handler renders from.
var swaggerMu sync.Mutex

// SwaggerUI serves the API docs with host and scheme taken from the request,
// honoring X-Forwarded-Proto behind a proxy.
func SwaggerUI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get(fiber.HeaderXForwardedProto); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		swaggerMu.Lock()
		defer swaggerMu.Unlock()
		docs.SwaggerInfo.Host = c.Get(fiber.HeaderHost)
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
