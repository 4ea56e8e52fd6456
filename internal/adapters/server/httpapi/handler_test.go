package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/domain"
	"github.com/defensoria/expedientes/internal/events"
	"github.com/defensoria/expedientes/internal/store"
)

// apiHarness wires the handler over an in-memory service with a controllable clock.
type apiHarness struct {
	handler *Handler
	svc     *app.Service
	now     time.Time
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	h := &apiHarness{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	seq := 0
	repo := store.NewRepository(store.NewMemoryBackend(), nil)
	bus := events.NewBus[domain.ActuacionStatusChanged]()
	h.svc = app.NewService(repo, bus, func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}, func() time.Time { return h.now }, app.ServiceConfig{DefaultActor: "ana"})
	h.handler = NewHandler(h.svc, nil)
	return h
}

// do sends one request and returns the recorder.
func (h *apiHarness) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

// decodeBody decodes one JSON response body into the requested type.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return out
}

// expectStatus fails when the recorder code differs from want.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, want, rec.Body.String())
	}
}

// TestExpedientLifecycleOverHTTP verifies create, derive and status changes.
func TestExpedientLifecycleOverHTTP(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/expedientes", map[string]any{"title": "Amparo X"})
	expectStatus(t, rec, http.StatusCreated)
	exp := decodeBody[domain.Expedient](t, rec)
	if exp.Number != 1 || exp.Status != domain.ExpedientDraft {
		t.Fatalf("unexpected expedient %#v", exp)
	}

	rec = h.do(t, http.MethodPost, "/expedientes/"+exp.ID+"/derivar", nil)
	expectStatus(t, rec, http.StatusBadRequest)
	if got := decodeBody[ErrorEnvelope](t, rec); got.Error.Code != "invalid_request" {
		t.Fatalf("unexpected error code %q", got.Error.Code)
	}

	rec = h.do(t, http.MethodPut, "/expedientes/"+exp.ID, map[string]any{"title": "Amparo X", "assignedOffice": "Penal 1", "reference": "EXP-100/2026"})
	expectStatus(t, rec, http.StatusOK)

	rec = h.do(t, http.MethodPost, "/expedientes/"+exp.ID+"/derivar", map[string]any{"reason": "asignado"})
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[domain.Expedient](t, rec); got.Status != domain.ExpedientEnTramite || got.DerivadoPor != "ana" {
		t.Fatalf("unexpected derived expedient %#v", got)
	}

	rec = h.do(t, http.MethodPut, "/expedientes/"+exp.ID, map[string]any{"title": "Otro", "assignedOffice": "Penal 1"})
	expectStatus(t, rec, http.StatusConflict)

	rec = h.do(t, http.MethodPost, "/expedientes/"+exp.ID+"/estado", map[string]any{"status": "paralizado"})
	expectStatus(t, rec, http.StatusOK)
	rec = h.do(t, http.MethodPost, "/expedientes/"+exp.ID+"/estado", map[string]any{"status": "draft"})
	expectStatus(t, rec, http.StatusConflict)

	rec = h.do(t, http.MethodGet, "/expedientes/"+exp.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	view := decodeBody[map[string]any](t, rec)
	if view["status"] != "paralizado" {
		t.Fatalf("unexpected status in view %#v", view["status"])
	}
	if _, ok := view["allowedTransitions"]; !ok {
		t.Fatal("expected allowedTransitions in expedient view")
	}
}

// TestListExpedientsPaginates verifies page metadata and status filters.
func TestListExpedientsPaginates(t *testing.T) {
	h := newAPIHarness(t)
	for i := range 5 {
		rec := h.do(t, http.MethodPost, "/expedientes", map[string]any{"title": fmt.Sprintf("Causa %d", i+1)})
		expectStatus(t, rec, http.StatusCreated)
	}

	rec := h.do(t, http.MethodGet, "/expedientes?page=2&size=2&status=draft", nil)
	expectStatus(t, rec, http.StatusOK)
	page := decodeBody[app.Page[domain.Expedient]](t, rec)
	if page.Total != 5 || page.Pages != 3 || len(page.Items) != 2 {
		t.Fatalf("unexpected page %#v", page)
	}
	if page.Items[0].Title != "Causa 3" {
		t.Fatalf("expected insertion order, got %q", page.Items[0].Title)
	}

	rec = h.do(t, http.MethodGet, "/expedientes?page=-1", nil)
	expectStatus(t, rec, http.StatusBadRequest)
	rec = h.do(t, http.MethodGet, "/expedientes?status=bogus", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

// TestActuacionSigningOverHTTP verifies the signing flow, the reversal window and notifications.
func TestActuacionSigningOverHTTP(t *testing.T) {
	h := newAPIHarness(t)
	exp, err := h.svc.CreateExpedient(context.Background(), app.CreateExpedientInput{Title: "Causa"})
	if err != nil {
		t.Fatalf("CreateExpedient() error = %v", err)
	}

	rec := h.do(t, http.MethodPost, "/actuaciones", map[string]any{"expedientId": exp.ID, "title": "Escrito", "type": "providencia"})
	expectStatus(t, rec, http.StatusCreated)
	act := decodeBody[domain.Actuacion](t, rec)

	rec = h.do(t, http.MethodPost, "/actuaciones/"+act.ID+"/enviar", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = h.do(t, http.MethodGet, "/actuaciones/pendientes", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string]int](t, rec); got["pending"] != 1 {
		t.Fatalf("expected one pending signature, got %#v", got)
	}

	rec = h.do(t, http.MethodGet, "/notificaciones", nil)
	expectStatus(t, rec, http.StatusOK)
	notes := decodeBody[struct {
		Items  []domain.ActuacionNotification `json:"items"`
		Unread int                            `json:"unread"`
	}](t, rec)
	if len(notes.Items) != 1 || notes.Unread != 1 {
		t.Fatalf("unexpected notifications %#v", notes)
	}

	rec = h.do(t, http.MethodPost, "/notificaciones/"+notes.Items[0].ID+"/leer", nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = h.do(t, http.MethodPost, "/actuaciones/"+act.ID+"/firmar", map[string]any{"signer": "juez"})
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[domain.Actuacion](t, rec); got.Status != domain.ActuacionFirmado || got.SignedBy != "juez" {
		t.Fatalf("unexpected signed actuacion %#v", got)
	}

	rec = h.do(t, http.MethodDelete, "/actuaciones/"+act.ID, nil)
	expectStatus(t, rec, http.StatusConflict)

	h.now = h.now.Add(25 * time.Hour)
	rec = h.do(t, http.MethodGet, "/actuaciones/"+act.ID+"/revertible", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string]bool](t, rec); got["revertible"] {
		t.Fatal("expected signature to be outside the reversal window")
	}
	rec = h.do(t, http.MethodPost, "/actuaciones/"+act.ID+"/revertir", nil)
	expectStatus(t, rec, http.StatusConflict)
	if got := decodeBody[ErrorEnvelope](t, rec); got.Error.Code != "signature_window_closed" {
		t.Fatalf("unexpected error code %q", got.Error.Code)
	}
}

// TestListActuacionesFilters verifies query parsing for estado, sort and expedient scoping.
func TestListActuacionesFilters(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()
	exp, err := h.svc.CreateExpedient(ctx, app.CreateExpedientInput{Title: "Causa"})
	if err != nil {
		t.Fatalf("CreateExpedient() error = %v", err)
	}
	for _, title := range []string{"b", "a", "c"} {
		if _, err := h.svc.CreateActuacion(ctx, app.CreateActuacionInput{ExpedientID: exp.ID, Title: title}); err != nil {
			t.Fatalf("CreateActuacion() error = %v", err)
		}
	}

	rec := h.do(t, http.MethodGet, "/expedientes/"+exp.ID+"/actuaciones?sort=title&desc=true", nil)
	expectStatus(t, rec, http.StatusOK)
	page := decodeBody[app.Page[domain.Actuacion]](t, rec)
	got := make([]string, 0, len(page.Items))
	for _, a := range page.Items {
		got = append(got, a.Title)
	}
	if strings.Join(got, ",") != "c,b,a" {
		t.Fatalf("unexpected order %v", got)
	}

	rec = h.do(t, http.MethodGet, "/actuaciones?estado=firmado", nil)
	expectStatus(t, rec, http.StatusOK)
	if page := decodeBody[app.Page[domain.Actuacion]](t, rec); page.Total != 0 {
		t.Fatalf("expected no firmado actuaciones, got %d", page.Total)
	}

	signed, err := h.svc.ListActuaciones(ctx, app.ActuacionFilter{ExpedientID: exp.ID})
	if err != nil {
		t.Fatalf("ListActuaciones() error = %v", err)
	}
	if _, err := h.svc.SendActuacionToSign(ctx, signed[0].ID); err != nil {
		t.Fatalf("SendActuacionToSign() error = %v", err)
	}
	if _, err := h.svc.SignActuacion(ctx, signed[0].ID, "ana"); err != nil {
		t.Fatalf("SignActuacion() error = %v", err)
	}
	for _, tc := range []struct {
		query string
		want  int
	}{
		{query: "estado=firmado&desde=2026-03-02&hasta=2026-03-02", want: 1},
		{query: "desde=2026-03-02&hasta=2026-03-02", want: 3},
		{query: "estado=firmado&hasta=2026-03-01", want: 0},
		{query: "estado=firmado&desde=2026-03-03", want: 0},
		{query: "estado=firmado&hasta=2026-03-02T08:59:59Z", want: 0},
	} {
		rec = h.do(t, http.MethodGet, "/actuaciones?"+tc.query, nil)
		expectStatus(t, rec, http.StatusOK)
		if page := decodeBody[app.Page[domain.Actuacion]](t, rec); page.Total != tc.want {
			t.Fatalf("%s: total = %d, want %d", tc.query, page.Total, tc.want)
		}
	}

	rec = h.do(t, http.MethodGet, "/actuaciones?sort=bogus", nil)
	expectStatus(t, rec, http.StatusBadRequest)
	rec = h.do(t, http.MethodGet, "/actuaciones?desde=yesterday", nil)
	expectStatus(t, rec, http.StatusBadRequest)
	rec = h.do(t, http.MethodGet, "/expedientes/missing/actuaciones", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

// TestTramiteAndAgendaOverHTTP verifies the single open tramite rule and fecha to cita synthesis.
func TestTramiteAndAgendaOverHTTP(t *testing.T) {
	h := newAPIHarness(t)
	exp, err := h.svc.CreateExpedient(context.Background(), app.CreateExpedientInput{Title: "Causa"})
	if err != nil {
		t.Fatalf("CreateExpedient() error = %v", err)
	}

	rec := h.do(t, http.MethodPost, "/tramites", map[string]any{"expedientId": exp.ID, "title": "Pedido"})
	expectStatus(t, rec, http.StatusCreated)
	tramite := decodeBody[domain.Tramite](t, rec)
	rec = h.do(t, http.MethodPost, "/tramites", map[string]any{"expedientId": exp.ID, "title": "Otro"})
	expectStatus(t, rec, http.StatusConflict)
	rec = h.do(t, http.MethodPost, "/tramites/"+tramite.ID+"/finalizar", nil)
	expectStatus(t, rec, http.StatusOK)
	rec = h.do(t, http.MethodGet, "/expedientes/"+exp.ID+"/tramites", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = h.do(t, http.MethodPost, "/agenda/fechas-citacion", map[string]any{
		"expedientId": exp.ID,
		"fecha":       "2026-03-10T10:00:00Z",
		"motivo":      "Audiencia",
		"persona":     "Juan Pérez",
	})
	expectStatus(t, rec, http.StatusCreated)
	created := decodeBody[struct {
		Fecha domain.FechaCitacion `json:"fecha"`
		Cita  domain.CitaAgenda    `json:"cita"`
	}](t, rec)
	if created.Cita.Title != "Citación: Audiencia (Juan Pérez)" {
		t.Fatalf("unexpected cita title %q", created.Cita.Title)
	}

	rec = h.do(t, http.MethodGet, "/agenda/citas?desde=2026-03-10&hasta=2026-03-10", nil)
	expectStatus(t, rec, http.StatusOK)
	citas := decodeBody[map[string][]domain.CitaAgenda](t, rec)
	if len(citas["items"]) != 1 {
		t.Fatalf("expected one cita on 2026-03-10, got %d", len(citas["items"]))
	}
	rec = h.do(t, http.MethodGet, "/agenda/citas?hasta=2026-03-09", nil)
	expectStatus(t, rec, http.StatusOK)
	if citas := decodeBody[map[string][]domain.CitaAgenda](t, rec); len(citas["items"]) != 0 {
		t.Fatalf("expected no cita before 2026-03-10, got %d", len(citas["items"]))
	}

	rec = h.do(t, http.MethodPost, "/agenda/citas/"+created.Cita.ID+"/estado", map[string]any{"status": "confirmada"})
	expectStatus(t, rec, http.StatusOK)
	rec = h.do(t, http.MethodPost, "/agenda/citas/"+created.Cita.ID+"/estado", map[string]any{"status": "perdida"})
	expectStatus(t, rec, http.StatusBadRequest)
	rec = h.do(t, http.MethodDelete, "/agenda/citas/"+created.Cita.ID, nil)
	expectStatus(t, rec, http.StatusNoContent)
}

// TestRecordsOverHTTP verifies oficios, radicaciones and legajos endpoints.
func TestRecordsOverHTTP(t *testing.T) {
	h := newAPIHarness(t)
	exp, err := h.svc.CreateExpedient(context.Background(), app.CreateExpedientInput{Title: "Causa"})
	if err != nil {
		t.Fatalf("CreateExpedient() error = %v", err)
	}

	rec := h.do(t, http.MethodPost, "/oficios", map[string]any{"expedientId": exp.ID, "destinatario": "Registro Civil", "asunto": "Partida"})
	expectStatus(t, rec, http.StatusCreated)
	oficio := decodeBody[domain.Oficio](t, rec)
	rec = h.do(t, http.MethodPost, "/oficios/"+oficio.ID+"/finalizar", nil)
	expectStatus(t, rec, http.StatusOK)
	rec = h.do(t, http.MethodPut, "/oficios/"+oficio.ID, map[string]any{"destinatario": "Otro", "asunto": "Otro"})
	expectStatus(t, rec, http.StatusConflict)

	rec = h.do(t, http.MethodPost, "/radicaciones", map[string]any{
		"expedientId":          exp.ID,
		"oficinaDestino":       "Mesa de entradas",
		"fechaRetornoEsperada": "2026-03-05T00:00:00Z",
	})
	expectStatus(t, rec, http.StatusCreated)
	rad := decodeBody[domain.RadicacionInterna](t, rec)

	h.now = h.now.AddDate(0, 0, 7)
	rec = h.do(t, http.MethodGet, "/radicaciones/vencidas", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string][]domain.RadicacionInterna](t, rec); len(got["items"]) != 1 {
		t.Fatalf("expected one overdue radicacion, got %#v", got)
	}
	rec = h.do(t, http.MethodPost, "/radicaciones/"+rad.ID+"/devolver", nil)
	expectStatus(t, rec, http.StatusOK)
	rec = h.do(t, http.MethodPost, "/radicaciones/"+rad.ID+"/devolver", nil)
	expectStatus(t, rec, http.StatusConflict)

	rec = h.do(t, http.MethodPost, "/legajos", map[string]any{"number": "L-1", "nombre": "Marta", "apellido": "Gómez", "documento": "30111222"})
	expectStatus(t, rec, http.StatusCreated)
	legajo := decodeBody[domain.Legajo](t, rec)
	rec = h.do(t, http.MethodPost, "/legajos/"+legajo.ID+"/activo", map[string]any{"activo": false})
	expectStatus(t, rec, http.StatusOK)
	rec = h.do(t, http.MethodGet, "/legajos?q=gómez", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string][]domain.Legajo](t, rec); len(got["items"]) != 0 {
		t.Fatalf("expected inactive legajo hidden, got %d", len(got["items"]))
	}
	rec = h.do(t, http.MethodGet, "/legajos?q=gómez&inactivos=true", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string][]domain.Legajo](t, rec); len(got["items"]) != 1 {
		t.Fatalf("expected inactive legajo listed, got %d", len(got["items"]))
	}
}

// TestHandlerRejectsMalformedRequests verifies strict decoding and unknown routes.
func TestHandlerRejectsMalformedRequests(t *testing.T) {
	h := newAPIHarness(t)
	cases := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{name: "unknown field", method: http.MethodPost, target: "/expedientes", body: `{"title":"x","extra":1}`, want: http.StatusBadRequest},
		{name: "trailing content", method: http.MethodPost, target: "/expedientes", body: `{"title":"x"}{}`, want: http.StatusBadRequest},
		{name: "missing body", method: http.MethodPost, target: "/expedientes", body: nil, want: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, target: "/nada", body: nil, want: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPatch, target: "/legajos", body: nil, want: http.StatusMethodNotAllowed},
		{name: "missing expedient", method: http.MethodGet, target: "/expedientes/missing", body: nil, want: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(t, tc.method, tc.target, tc.body)
			expectStatus(t, rec, tc.want)
			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Fatalf("content-type = %q, want application/json", got)
			}
		})
	}
}
