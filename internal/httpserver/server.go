// Package httpserver is the wire boundary: it validates requests, runs the
// guardrail gate, invokes the pipeline, and maps tagged failures to HTTP
// responses.
package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"updategen/internal/generator"
	"updategen/internal/guardrails"
)

// Deps is everything the router needs, passed in explicitly so tests can
// build isolated instances.
type Deps struct {
	Gate             *guardrails.Gate
	Pipeline         *generator.Pipeline
	MaxInputChars    int
	TelemetryEnabled bool
	TelemetrySalt    string
	Log              *slog.Logger
}

// NewRouter wires the public endpoints: /health liveness and the single
// generation endpoint.
func NewRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &GenerateHandler{
		gate:             deps.Gate,
		pipeline:         deps.Pipeline,
		maxInputChars:    deps.MaxInputChars,
		telemetryEnabled: deps.TelemetryEnabled,
		telemetrySalt:    deps.TelemetrySalt,
		log:              deps.Log,
	}
	r.POST("/generate", h.Handle)

	return r
}
