package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDecode(t *testing.T) {
	registry := New()

	registry.ObserveDecode("modern", nil, 3*time.Microsecond)
	registry.ObserveDecode("modern", nil, 4*time.Microsecond)
	registry.ObserveDecode("legacy", errors.New("bad id"), time.Microsecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(registry.decodeRequests.WithLabelValues("modern", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.decodeRequests.WithLabelValues("legacy", OutcomeError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(registry.decodeRequests.WithLabelValues("legacy", OutcomeOK)))
	assert.Equal(t, 2, testutil.CollectAndCount(registry.decodeDuration))
}

func TestObserveAddressLookup(t *testing.T) {
	registry := New()

	registry.ObserveProbe(false)
	registry.ObserveProbe(true)
	registry.ObserveProbe(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(registry.probeRuns.WithLabelValues(SourceInterface)))
	assert.Equal(t, 2.0, testutil.ToFloat64(registry.probeRuns.WithLabelValues(SourceRandom)))
}

func TestStreamSessions(t *testing.T) {
	registry := New()

	registry.AddStreamSessions(1)
	registry.AddStreamSessions(1)
	registry.AddStreamSessions(-1)

	assert.Equal(t, 1.0, testutil.ToFloat64(registry.streamSessions))
}

func TestNilRegistryIsDisabled(t *testing.T) {
	var registry *Registry

	assert.NotPanics(t, func() {
		registry.ObserveDecode("modern", nil, time.Millisecond)
		registry.ObserveProbe(true)
		registry.AddStreamSessions(1)
	})
}

func TestHandlerExposition(t *testing.T) {
	registry := New()
	registry.ObserveDecode("modern", nil, time.Microsecond)

	server := httptest.NewServer(registry.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, `msgidscope_decode_requests_total{layout="modern",outcome="ok"} 1`), text)
	assert.True(t, strings.Contains(text, "msgidscope_decode_duration_seconds_bucket"), text)
	assert.True(t, strings.Contains(text, "go_goroutines"), text)
}
