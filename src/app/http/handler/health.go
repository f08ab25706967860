// Package handler maps the JSON API onto the form session service. Handlers
// parse path and body, call one service method, and write the response
// envelope; domain errors go through response.FromDomainError.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regform/src/core/usecase"
)

// HealthHandler reports liveness and the state of the country directory
// and the session store.
type HealthHandler struct {
	healthService *usecase.HealthService
}

func NewHealthHandler(healthService *usecase.HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// Liveness answers as soon as the router is up; WaitForReady polls it.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DetailedHealth lists the country_directory component (loaded size and
// time, or empty) and the sessions component (open forms). An empty
// directory makes the status "degraded" but still answers 200: forms take
// a typed country until the list arrives.
// GET /health/detailed
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthService.Check(c.Request.Context()))
}
