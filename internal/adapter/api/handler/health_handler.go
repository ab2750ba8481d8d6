package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"fleamarkt/internal/infrastructure/graphdb"
	"fleamarkt/internal/infrastructure/mongodb"
)

// HealthHandler reports process liveness and per-store connectivity. A
// store handle may be nil when the process came up degraded without it.
type HealthHandler struct {
	mongo *mongodb.Client
	graph *graphdb.Executor
}

var healthHandler *HealthHandler

func SetupHealthHandler(mongo *mongodb.Client, graph *graphdb.Executor) {
	healthHandler = &HealthHandler{
		mongo: mongo,
		graph: graph,
	}
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) Check(c echo.Context) error {
	ctx := c.Request().Context()

	stores := map[string]string{
		"mongodb": "unavailable",
		"neo4j":   "unavailable",
	}
	healthy := true

	if h.mongo != nil {
		if err := h.mongo.Ping(ctx); err != nil {
			stores["mongodb"] = "error: " + err.Error()
			healthy = false
		} else {
			stores["mongodb"] = "ok"
		}
	} else {
		healthy = false
	}

	if h.graph != nil {
		if err := h.graph.Verify(ctx); err != nil {
			stores["neo4j"] = "error: " + err.Error()
			healthy = false
		} else {
			stores["neo4j"] = "ok"
		}
	} else {
		healthy = false
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	return c.JSON(status, map[string]interface{}{
		"status": overall,
		"stores": stores,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
