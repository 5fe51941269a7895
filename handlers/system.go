package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Probe reports whether one dependency is usable.
type Probe func(ctx context.Context) error

// RegisterHealth registers /health (liveness) and /ready (readiness).
// /ready returns 503 when any probe fails; each probe gets at most timeout.
func RegisterHealth(r gin.IRouter, probes map[string]Probe, timeout time.Duration) {
	started := time.Now()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := make(map[string]bool, len(probes))
		for name, probe := range probes {
			ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
			err := probe(ctx)
			cancel()
			deps[name] = err == nil
			if err != nil {
				ready = false
			}
		}

		uptime := time.Since(started).Truncate(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})
}
