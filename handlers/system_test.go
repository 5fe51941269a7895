package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	g := gin.New()
	RegisterHealth(g, nil, time.Second)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())
}

func TestReady(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("unreachable") }

	cases := []struct {
		name   string
		probes map[string]Probe
		code   int
		status string
	}{
		{"no probes", nil, http.StatusOK, "ready"},
		{"all up", map[string]Probe{"store": ok, "redis": ok}, http.StatusOK, "ready"},
		{"store down", map[string]Probe{"store": down, "redis": ok}, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := gin.New()
			RegisterHealth(g, tc.probes, time.Second)

			w := httptest.NewRecorder()
			g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			require.Equal(t, tc.code, w.Code)

			var body struct {
				Status string          `json:"status"`
				Deps   map[string]bool `json:"deps"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.status, body.Status)
			for name := range tc.probes {
				assert.Contains(t, body.Deps, name)
			}
		})
	}
}

func TestReady_ProbeTimeout(t *testing.T) {
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	g := gin.New()
	RegisterHealth(g, map[string]Probe{"store": slow}, 10*time.Millisecond)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
