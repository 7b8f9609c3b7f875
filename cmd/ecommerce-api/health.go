package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordenes-ecom/internal/health"
)

type healthChecker interface {
	Check(ctx context.Context) health.Report
}

// @Summary     Check application health
// @Tags        health
// @Produce     json
// @Success     200 {object} health.Report "Application is healthy"
// @Failure     503 {object} health.Report "Application is unhealthy"
// @Router      /health [get]
func healthHandler(h healthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		rep := h.Check(c.Request.Context())
		status := http.StatusOK
		if !rep.Healthy() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, rep)
	}
}

func livenessHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
