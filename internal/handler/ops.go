// Package handler holds the operational HTTP surface: health and
// readiness. Insight generation is served over Kafka, not HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports whether an infrastructure dependency is usable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// ConnChecker reports stream connectivity.
type ConnChecker interface {
	IsConnected() bool
}

// OpsHandler registers /healthz and /readyz.
type OpsHandler struct {
	db     HealthChecker
	stream ConnChecker
}

func NewOpsHandler(db HealthChecker, stream ConnChecker) *OpsHandler {
	return &OpsHandler{db: db, stream: stream}
}

func (h *OpsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.healthz)
	e.GET("/readyz", h.readyz)
}

// healthz reports liveness only.
func (h *OpsHandler) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// readyz checks the storage and feed dependencies.
func (h *OpsHandler) readyz(c echo.Context) error {
	checks := map[string]string{}
	status := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Health(ctx); err != nil {
			checks["clickhouse"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["clickhouse"] = "ok"
		}
	}
	if h.stream != nil {
		if h.stream.IsConnected() {
			checks["pricefeed"] = "ok"
		} else {
			checks["pricefeed"] = "disconnected"
			status = http.StatusServiceUnavailable
		}
	}

	return c.JSON(status, checks)
}
