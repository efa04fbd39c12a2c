package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo, h *Handler, metricsEnabled bool) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	if metricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	g := e.Group("/api")
	g.POST("/transcribe", h.Transcribe)
	g.POST("/speak", h.Speak)
	g.POST("/summarize", h.Summarize)
	g.POST("/translate", h.Translate)
	g.POST("/pipeline", h.Pipeline)
	g.GET("/transcriptions/:id", h.GetTranscription)
}
