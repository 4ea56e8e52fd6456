package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defensoria/expedientes/internal/domain"
	"github.com/defensoria/expedientes/internal/events"
)

func TestTransitionsCountedFromBus(t *testing.T) {
	m := New(nil)
	bus := events.NewBus[domain.ActuacionStatusChanged]()
	detach := m.Attach(bus)

	bus.Publish(domain.ActuacionStatusChanged{OldStatus: domain.ActuacionBorrador, NewStatus: domain.ActuacionParaFirmar})
	bus.Publish(domain.ActuacionStatusChanged{OldStatus: domain.ActuacionBorrador, NewStatus: domain.ActuacionParaFirmar})
	bus.Publish(domain.ActuacionStatusChanged{OldStatus: domain.ActuacionParaFirmar, NewStatus: domain.ActuacionFirmado})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("borrador", "para-firmar")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("para-firmar", "firmado")))

	detach()
	bus.Publish(domain.ActuacionStatusChanged{OldStatus: domain.ActuacionParaFirmar, NewStatus: domain.ActuacionFirmado})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("para-firmar", "firmado")))
}

func TestPendingGaugeReadsCallback(t *testing.T) {
	pending := 3
	m := New(func() int { return pending })

	expected := `
# HELP expedientes_actuaciones_pending_signature Actuaciones currently waiting in para-firmar.
# TYPE expedientes_actuaciones_pending_signature gauge
expedientes_actuaciones_pending_signature 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "expedientes_actuaciones_pending_signature"))

	pending = 1
	expected = strings.Replace(expected, "signature 3", "signature 1", 1)
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "expedientes_actuaciones_pending_signature"))
}

func TestHandlerServesInstrumentedRequests(t *testing.T) {
	m := New(func() int { return 0 })
	api := m.Instrument(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	api.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/expedientes", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("post", "201")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "expedientes_http_requests_total")
	assert.Contains(t, string(body), "expedientes_actuaciones_pending_signature 0")
}
