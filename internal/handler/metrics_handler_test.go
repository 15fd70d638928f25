package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaya-relief/camp-api/internal/service"
)

type pingStub struct{ err error }

func (p pingStub) PingContext(ctx context.Context) error { return p.err }

type cachePingStub struct {
	enabled bool
	err     error
}

func (p cachePingStub) Enabled() bool                  { return p.enabled }
func (p cachePingStub) Ping(ctx context.Context) error { return p.err }

func readyStatus(t *testing.T, h *MetricsHandler) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/ready", nil)
	h.Ready(c)
	return w.Code, decodeEnvelope(t, w)
}

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	code, body := readyStatus(t, NewMetricsHandler(nil, pingStub{}, cachePingStub{enabled: true}))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["cache"])

	code, body = readyStatus(t, NewMetricsHandler(nil, pingStub{}, cachePingStub{enabled: true, err: errors.New("dial tcp: refused")}))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body["cache"])

	code, body = readyStatus(t, NewMetricsHandler(nil, pingStub{}, nil))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "disabled", body["cache"])

	code, body = readyStatus(t, NewMetricsHandler(nil, pingStub{err: errors.New("connection reset")}, nil))
	require.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.RecordTransition("pledge", "success", 0)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(metrics, nil, nil).Prometheus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `reconciliation_transitions_total{operation="pledge",outcome="success"} 1`)
}
