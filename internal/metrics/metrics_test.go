package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.PacketSent("/cosmos.bank.v1beta1.Query/Balance")
	m.PacketSent("/cosmos.bank.v1beta1.Query/Balance")
	m.AckProcessed("result")
	m.AckProcessed("error")
	m.PacketTimedOut()
	m.ChannelEvent("connect")
	m.HandshakeRejected()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.packetsSent.WithLabelValues("/cosmos.bank.v1beta1.Query/Balance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.acks.WithLabelValues("result")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.acks.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.acks.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.timeouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.channelEvents.WithLabelValues("connect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.handshakeErrors))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.PacketSent("x")
	m.AckProcessed("empty")
	m.PacketTimedOut()
	m.ChannelEvent("close")
	m.HandshakeRejected()
	m.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.PacketTimedOut()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wasmicq_packets_timed_out_total 1")
}
