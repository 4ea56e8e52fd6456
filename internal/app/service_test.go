package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/domain"
	"github.com/defensoria/expedientes/internal/events"
	"github.com/defensoria/expedientes/internal/store"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type harness struct {
	svc    *app.Service
	repo   *store.Repository
	bus    *events.Bus[domain.ActuacionStatusChanged]
	clock  *testClock
	events []domain.ActuacionStatusChanged
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		repo:  store.NewRepository(store.NewMemoryBackend(), nil),
		bus:   events.NewBus[domain.ActuacionStatusChanged](),
		clock: &testClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
	}
	seq := 0
	idGen := func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	h.svc = app.NewService(h.repo, h.bus, idGen, h.clock.Now, app.ServiceConfig{DefaultActor: "ana"})
	h.bus.Subscribe(func(evt domain.ActuacionStatusChanged) {
		h.events = append(h.events, evt)
	})
	return h
}

func (h *harness) expedient(t *testing.T, title string) domain.Expedient {
	t.Helper()
	exp, err := h.svc.CreateExpedient(context.Background(), app.CreateExpedientInput{
		Title:          title,
		AssignedOffice: "Defensoría Civil 1",
		Reference:      "ref-" + title,
	})
	if err != nil {
		t.Fatalf("CreateExpedient() error = %v", err)
	}
	return exp
}

func (h *harness) actuacion(t *testing.T, expedientID, title string) domain.Actuacion {
	t.Helper()
	act, err := h.svc.CreateActuacion(context.Background(), app.CreateActuacionInput{
		ExpedientID: expedientID,
		Title:       title,
		Content:     "<p>" + title + "</p>",
		Type:        domain.ActuacionProvidencia,
	})
	if err != nil {
		t.Fatalf("CreateActuacion() error = %v", err)
	}
	return act
}

func TestCreateExpedientAssignsSequentialNumbers(t *testing.T) {
	h := newHarness(t)
	first := h.expedient(t, "Amparo A")
	second := h.expedient(t, "Amparo B")
	if first.Number != 1 || second.Number != 2 {
		t.Fatalf("expected numbers 1 and 2, got %d and %d", first.Number, second.Number)
	}
	if first.Status != domain.ExpedientDraft {
		t.Fatalf("expected draft status, got %q", first.Status)
	}
}

func TestDeriveExpedientRequiresOffice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exp, err := h.svc.CreateExpedient(ctx, app.CreateExpedientInput{Title: "Amparo X", AssignedOffice: "", Reference: "algo"})
	if err != nil {
		t.Fatalf("CreateExpedient() error = %v", err)
	}
	if _, err := h.svc.DeriveExpedient(ctx, exp.ID, "ana", ""); !errors.Is(err, domain.ErrInvalidOffice) {
		t.Fatalf("expected ErrInvalidOffice, got %v", err)
	}
	stored, err := h.svc.GetExpedient(ctx, exp.ID)
	if err != nil {
		t.Fatalf("GetExpedient() error = %v", err)
	}
	if stored.Status != domain.ExpedientDraft || stored.FechaDerivacion != nil {
		t.Fatalf("expected no partial write, got %#v", stored)
	}
}

func TestExpedientLifecycleThroughService(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exp := h.expedient(t, "Amparo")

	updated, err := h.svc.UpdateExpedient(ctx, app.UpdateExpedientInput{ID: exp.ID, Title: "Amparo salud", AssignedOffice: "Defensoría Civil 2", Reference: "r-9"})
	if err != nil {
		t.Fatalf("UpdateExpedient() error = %v", err)
	}
	if updated.Title != "Amparo salud" {
		t.Fatalf("unexpected title %q", updated.Title)
	}

	h.clock.Advance(time.Hour)
	derived, err := h.svc.SetExpedientStatus(ctx, exp.ID, domain.ExpedientEnTramite, "", "inicio")
	if err != nil {
		t.Fatalf("SetExpedientStatus(en_tramite) error = %v", err)
	}
	if derived.DerivadoPor != "ana" || derived.FechaDerivacion == nil || !derived.FechaDerivacion.Equal(h.clock.now) {
		t.Fatalf("expected derivation stamps, got %#v", derived)
	}
	if _, err := h.svc.UpdateExpedient(ctx, app.UpdateExpedientInput{ID: exp.ID, Title: "otro"}); !errors.Is(err, domain.ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}

	h.clock.Advance(time.Hour)
	paused, err := h.svc.SetExpedientStatus(ctx, exp.ID, domain.ExpedientParalizado, "", "espera pericia")
	if err != nil {
		t.Fatalf("SetExpedientStatus(paralizado) error = %v", err)
	}
	if paused.StatusReason != "espera pericia" || !paused.LastActivityAt.Equal(h.clock.now) {
		t.Fatalf("expected reason and activity refresh, got %#v", paused)
	}
	if _, err := h.svc.SetExpedientStatus(ctx, exp.ID, domain.ExpedientDraft, "", ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	received, err := h.svc.ReceiveExpedient(ctx, exp.ID, "beto")
	if err != nil {
		t.Fatalf("ReceiveExpedient() error = %v", err)
	}
	if received.RecibidoPor != "beto" {
		t.Fatalf("unexpected receiver %q", received.RecibidoPor)
	}
	if _, err := h.svc.GetExpedient(ctx, "missing"); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListExpedientsFilterAndPaginate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i := range 5 {
		exp := h.expedient(t, fmt.Sprintf("Caso %d", i))
		if i%2 == 0 {
			if _, err := h.svc.DeriveExpedient(ctx, exp.ID, "", ""); err != nil {
				t.Fatalf("DeriveExpedient() error = %v", err)
			}
		}
	}
	derived, err := h.svc.ListExpedients(ctx, app.ExpedientFilter{Statuses: []domain.ExpedientStatus{domain.ExpedientEnTramite}})
	if err != nil {
		t.Fatalf("ListExpedients() error = %v", err)
	}
	if len(derived) != 3 || derived[0].Title != "Caso 0" || derived[2].Title != "Caso 4" {
		t.Fatalf("unexpected filtered expedients %#v", derived)
	}
	byQuery, err := h.svc.ListExpedients(ctx, app.ExpedientFilter{Query: "caso 3"})
	if err != nil {
		t.Fatalf("ListExpedients() error = %v", err)
	}
	if len(byQuery) != 1 {
		t.Fatalf("expected one match, got %d", len(byQuery))
	}
	byNumber, err := h.svc.ListExpedients(ctx, app.ExpedientFilter{Query: "5"})
	if err != nil {
		t.Fatalf("ListExpedients() error = %v", err)
	}
	if len(byNumber) != 1 || byNumber[0].Number != 5 || byNumber[0].Title != "Caso 4" {
		t.Fatalf("expected number 5 only, got %#v", byNumber)
	}
	if hashed, _ := h.svc.ListExpedients(ctx, app.ExpedientFilter{Query: "#2"}); len(hashed) != 1 || hashed[0].Number != 2 {
		t.Fatalf("expected #2 to match number 2, got %#v", hashed)
	}

	all, _ := h.svc.ListExpedients(ctx, app.ExpedientFilter{})
	page, err := app.Paginate(all, 2, 2)
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	if page.Total != 5 || page.Pages != 3 || len(page.Items) != 2 || page.Items[0].Title != "Caso 2" {
		t.Fatalf("unexpected page %#v", page)
	}
	past, err := app.Paginate(all, 9, 2)
	if err != nil || len(past.Items) != 0 {
		t.Fatalf("expected empty page past the end, got %#v, %v", past, err)
	}
	if _, err := app.Paginate(all, -1, 2); !errors.Is(err, app.ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
}

func TestActuacionNumbersAreScopedToExpedient(t *testing.T) {
	h := newHarness(t)
	a := h.expedient(t, "A")
	b := h.expedient(t, "B")
	first := h.actuacion(t, a.ID, "uno")
	second := h.actuacion(t, a.ID, "dos")
	other := h.actuacion(t, b.ID, "otro")
	if first.Number != 1 || second.Number != 2 || other.Number != 1 {
		t.Fatalf("unexpected numbers %d %d %d", first.Number, second.Number, other.Number)
	}
	if first.CreatedBy != "ana" || first.Status != domain.ActuacionBorrador {
		t.Fatalf("unexpected new actuacion %#v", first)
	}
	if _, err := h.svc.CreateActuacion(context.Background(), app.CreateActuacionInput{ExpedientID: "missing", Title: "x"}); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown expedient, got %v", err)
	}
}

func TestActuacionSigningWindowThroughService(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    error
	}{
		{name: "23h59m", elapsed: 23*time.Hour + 59*time.Minute},
		{name: "24h01m", elapsed: 24*time.Hour + time.Minute, want: domain.ErrSignatureWindowClosed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			ctx := context.Background()
			exp := h.expedient(t, "Amparo")
			act := h.actuacion(t, exp.ID, "Resolución")

			if _, err := h.svc.SendActuacionToSign(ctx, act.ID); err != nil {
				t.Fatalf("SendActuacionToSign() error = %v", err)
			}
			signed, err := h.svc.SignActuacion(ctx, act.ID, "juez")
			if err != nil {
				t.Fatalf("SignActuacion() error = %v", err)
			}
			signedAt := h.clock.now
			if signed.SignedBy != "juez" || signed.SignedAt == nil || !signed.SignedAt.Equal(signedAt) {
				t.Fatalf("expected signature stamps, got %#v", signed)
			}
			if _, err := h.svc.UpdateActuacionContent(ctx, act.ID, "x", "y"); !errors.Is(err, domain.ErrNotEditable) {
				t.Fatalf("expected ErrNotEditable, got %v", err)
			}

			h.clock.Advance(tc.elapsed)
			can, err := h.svc.CanRevertActuacion(ctx, act.ID)
			if err != nil {
				t.Fatalf("CanRevertActuacion() error = %v", err)
			}
			if can != (tc.want == nil) {
				t.Fatalf("CanRevertActuacion() = %t", can)
			}
			reverted, err := h.svc.RevertActuacionSignature(ctx, act.ID)
			if !errors.Is(err, tc.want) {
				t.Fatalf("RevertActuacionSignature() error = %v, want %v", err, tc.want)
			}
			stored, _ := h.svc.GetActuacion(ctx, act.ID)
			if tc.want != nil {
				if stored.Status != domain.ActuacionFirmado {
					t.Fatalf("expected stored status firmado, got %q", stored.Status)
				}
				return
			}
			if reverted.Status != domain.ActuacionParaFirmar || stored.SignedAt != nil || stored.SignedBy != "" {
				t.Fatalf("expected cleared signature, got %#v", stored)
			}
		})
	}
}

func TestActuacionStatusChangesPublishAndNotify(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exp := h.expedient(t, "Amparo")
	act := h.actuacion(t, exp.ID, "Providencia")
	if len(h.events) != 0 {
		t.Fatalf("expected no events on create, got %d", len(h.events))
	}
	if _, err := h.svc.UpdateActuacionContent(ctx, act.ID, "Providencia 2", "texto"); err != nil {
		t.Fatalf("UpdateActuacionContent() error = %v", err)
	}
	if len(h.events) != 0 {
		t.Fatalf("expected no events on same-status save, got %d", len(h.events))
	}

	if _, err := h.svc.SendActuacionToSign(ctx, act.ID); err != nil {
		t.Fatalf("SendActuacionToSign() error = %v", err)
	}
	if _, err := h.svc.SignActuacion(ctx, act.ID, "juez"); err != nil {
		t.Fatalf("SignActuacion() error = %v", err)
	}
	if len(h.events) != 2 {
		t.Fatalf("expected two events, got %d", len(h.events))
	}
	first := h.events[0]
	if first.OldStatus != domain.ActuacionBorrador || first.NewStatus != domain.ActuacionParaFirmar || first.Actuacion.ID != act.ID {
		t.Fatalf("unexpected first event %#v", first)
	}
	if h.events[1].NewStatus != domain.ActuacionFirmado || !h.events[1].Timestamp.Equal(h.clock.now) {
		t.Fatalf("unexpected second event %#v", h.events[1])
	}

	log, err := h.svc.ListNotifications(ctx)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if len(log) != 1 || log[0].NewStatus != domain.ActuacionParaFirmar || log[0].Title != "Providencia 2" || log[0].Read {
		t.Fatalf("expected a single unread para-firmar notification, got %#v", log)
	}
	unread, _ := h.svc.UnreadNotificationCount(ctx)
	if unread != 1 {
		t.Fatalf("expected one unread, got %d", unread)
	}
	if err := h.svc.MarkNotificationRead(ctx, log[0].ID); err != nil {
		t.Fatalf("MarkNotificationRead() error = %v", err)
	}
	unread, _ = h.svc.UnreadNotificationCount(ctx)
	if unread != 0 {
		t.Fatalf("expected zero unread, got %d", unread)
	}
	if err := h.svc.MarkNotificationRead(ctx, "missing"); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotificationLogIsCapped(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exp := h.expedient(t, "Amparo")
	var ids []string
	for i := range 11 {
		act := h.actuacion(t, exp.ID, fmt.Sprintf("act %02d", i))
		h.clock.Advance(time.Minute)
		if _, err := h.svc.SendActuacionToSign(ctx, act.ID); err != nil {
			t.Fatalf("SendActuacionToSign() error = %v", err)
		}
		ids = append(ids, act.ID)
	}
	log, err := h.svc.ListNotifications(ctx)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if len(log) != domain.DefaultNotificationLimit {
		t.Fatalf("expected %d entries, got %d", domain.DefaultNotificationLimit, len(log))
	}
	if log[0].ActuacionID != ids[10] {
		t.Fatalf("expected newest first, got %q", log[0].ActuacionID)
	}
	for _, n := range log {
		if n.ActuacionID == ids[0] {
			t.Fatal("expected oldest notification to be evicted")
		}
	}
	if err := h.svc.MarkAllNotificationsRead(ctx); err != nil {
		t.Fatalf("MarkAllNotificationsRead() error = %v", err)
	}
	if unread, _ := h.svc.UnreadNotificationCount(ctx); unread != 0 {
		t.Fatalf("expected all read, got %d unread", unread)
	}
}

func TestListActuacionesFilterKeepsInsertionOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exp := h.expedient(t, "Amparo")

	day := 24 * time.Hour
	titles := []string{"c", "a", "d", "b", "e"}
	var created []domain.Actuacion
	for _, title := range titles {
		h.clock.Advance(day)
		created = append(created, h.actuacion(t, exp.ID, title))
	}
	for _, i := range []int{0, 1, 3, 4} {
		if _, err := h.svc.SendActuacionToSign(ctx, created[i].ID); err != nil {
			t.Fatalf("SendActuacionToSign() error = %v", err)
		}
		if _, err := h.svc.SignActuacion(ctx, created[i].ID, "juez"); err != nil {
			t.Fatalf("SignActuacion() error = %v", err)
		}
	}

	filter := app.ActuacionFilter{
		ExpedientID: exp.ID,
		Estados:     []domain.ActuacionStatus{domain.ActuacionFirmado},
		From:        created[1].CreatedAt,
		To:          created[3].CreatedAt,
	}
	got, err := h.svc.ListActuaciones(ctx, filter)
	if err != nil {
		t.Fatalf("ListActuaciones() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "b" {
		t.Fatalf("expected [a b] in insertion order, got %v", actuacionTitles(got))
	}

	filter.From, filter.To = time.Time{}, time.Time{}
	filter.SortBy = app.SortByTitle
	got, _ = h.svc.ListActuaciones(ctx, filter)
	if want := []string{"a", "b", "c", "e"}; fmt.Sprint(actuacionTitles(got)) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, actuacionTitles(got))
	}
	filter.SortBy = app.SortByNumber
	filter.Descending = true
	got, _ = h.svc.ListActuaciones(ctx, filter)
	if want := []string{"e", "b", "a", "c"}; fmt.Sprint(actuacionTitles(got)) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, actuacionTitles(got))
	}
	pending, err := h.svc.PendingSignatureCount(ctx)
	if err != nil || pending != 0 {
		t.Fatalf("PendingSignatureCount() = %d, %v", pending, err)
	}
}

func actuacionTitles(items []domain.Actuacion) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Title)
	}
	return out
}

func TestDeleteActuacionRejectsSigned(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exp := h.expedient(t, "Amparo")
	draft := h.actuacion(t, exp.ID, "borrador")
	signed := h.actuacion(t, exp.ID, "firmada")
	if _, err := h.svc.SendActuacionToSign(ctx, signed.ID); err != nil {
		t.Fatalf("SendActuacionToSign() error = %v", err)
	}
	if _, err := h.svc.SignActuacion(ctx, signed.ID, "juez"); err != nil {
		t.Fatalf("SignActuacion() error = %v", err)
	}
	if err := h.svc.DeleteActuacion(ctx, signed.ID); !errors.Is(err, domain.ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
	if err := h.svc.DeleteActuacion(ctx, draft.ID); err != nil {
		t.Fatalf("DeleteActuacion() error = %v", err)
	}
	if _, err := h.svc.GetActuacion(ctx, draft.ID); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected deleted actuacion to be gone, got %v", err)
	}
}

func TestTramiteBlockedWhileOpen(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exp := h.expedient(t, "Amparo")
	first, err := h.svc.CreateTramite(ctx, app.CreateTramiteInput{ExpedientID: exp.ID, Title: "Pedido de informes"})
	if err != nil {
		t.Fatalf("CreateTramite() error = %v", err)
	}
	if _, err := h.svc.CreateTramite(ctx, app.CreateTramiteInput{ExpedientID: exp.ID, Title: "Segundo"}); !errors.Is(err, domain.ErrOpenTramiteExists) {
		t.Fatalf("expected ErrOpenTramiteExists, got %v", err)
	}
	open, ok, err := h.svc.OpenTramite(ctx, exp.ID)
	if err != nil || !ok || open.ID != first.ID {
		t.Fatalf("OpenTramite() = %#v, %t, %v", open, ok, err)
	}
	if _, err := h.svc.FinalizeTramite(ctx, first.ID); err != nil {
		t.Fatalf("FinalizeTramite() error = %v", err)
	}
	if _, err := h.svc.CreateTramite(ctx, app.CreateTramiteInput{ExpedientID: exp.ID, Title: "Segundo"}); err != nil {
		t.Fatalf("expected creation after finalize, got %v", err)
	}
	tramites, _ := h.svc.ListTramites(ctx, exp.ID)
	if len(tramites) != 2 {
		t.Fatalf("expected two tramites, got %d", len(tramites))
	}
}

func TestCreateFechaCitacionWritesBothStores(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exp := h.expedient(t, "Amparo")
	fecha := h.clock.now.Add(72 * time.Hour)
	fc, cita, err := h.svc.CreateFechaCitacion(ctx, app.CreateFechaCitacionInput{
		ExpedientID: exp.ID,
		Fecha:       fecha,
		Motivo:      "Audiencia",
		Persona:     "Juan Pérez",
		Lugar:       "Sala 2",
	})
	if err != nil {
		t.Fatalf("CreateFechaCitacion() error = %v", err)
	}
	if fc.CitaID != cita.ID {
		t.Fatalf("expected fecha to link cita, got %q vs %q", fc.CitaID, cita.ID)
	}
	citas, err := h.svc.ListCitas(ctx, app.CitaFilter{ExpedientID: exp.ID})
	if err != nil {
		t.Fatalf("ListCitas() error = %v", err)
	}
	if len(citas) != 1 || !citas[0].Start.Equal(fecha) || citas[0].Status != domain.CitaProgramada {
		t.Fatalf("unexpected citas %#v", citas)
	}
	fechas, _ := h.svc.ListFechasCitacion(ctx, exp.ID)
	if len(fechas) != 1 || fechas[0].ID != fc.ID {
		t.Fatalf("unexpected fechas %#v", fechas)
	}

	confirmed, err := h.svc.SetCitaStatus(ctx, cita.ID, domain.CitaConfirmada)
	if err != nil || confirmed.Status != domain.CitaConfirmada {
		t.Fatalf("SetCitaStatus() = %#v, %v", confirmed, err)
	}
	inRange, _ := h.svc.ListCitas(ctx, app.CitaFilter{From: h.clock.now, To: h.clock.now.Add(24 * time.Hour)})
	if len(inRange) != 0 {
		t.Fatalf("expected no citas in the next day, got %d", len(inRange))
	}
	if err := h.svc.DeleteCita(ctx, cita.ID); err != nil {
		t.Fatalf("DeleteCita() error = %v", err)
	}
}

func TestOficioLifecycleThroughService(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exp := h.expedient(t, "Amparo")
	oficio, err := h.svc.CreateOficio(ctx, app.CreateOficioInput{ExpedientID: exp.ID, Destinatario: "Registro Civil", Asunto: "Partida"})
	if err != nil {
		t.Fatalf("CreateOficio() error = %v", err)
	}
	if oficio.Number != 1 {
		t.Fatalf("expected number 1, got %d", oficio.Number)
	}
	if _, err := h.svc.AttachOficioResponse(ctx, oficio.ID, domain.OficioResponse{FileName: "respuesta.pdf", ContentType: "application/pdf", SizeBytes: 1024}); err != nil {
		t.Fatalf("AttachOficioResponse() error = %v", err)
	}
	if _, err := h.svc.FinalizeOficio(ctx, oficio.ID); err != nil {
		t.Fatalf("FinalizeOficio() error = %v", err)
	}
	if _, err := h.svc.UpdateOficio(ctx, oficio.ID, "Otro", "Otro", ""); !errors.Is(err, domain.ErrOficioFinalized) {
		t.Fatalf("expected ErrOficioFinalized, got %v", err)
	}
	list, _ := h.svc.ListOficios(ctx, exp.ID)
	if len(list) != 1 || !list[0].Finalizado || list[0].Response == nil {
		t.Fatalf("unexpected oficios %#v", list)
	}
}

func TestRadicacionPendingAndOverdueThroughService(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exp := h.expedient(t, "Amparo")
	rad, err := h.svc.CreateRadicacion(ctx, app.CreateRadicacionInput{
		ExpedientID:          exp.ID,
		OficinaDestino:       "Mesa de entradas",
		FechaRetornoEsperada: h.clock.now.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateRadicacion() error = %v", err)
	}
	pending, _ := h.svc.ListPendingRadicaciones(ctx)
	if len(pending) != 1 {
		t.Fatalf("expected one pending, got %d", len(pending))
	}
	h.clock.Advance(72 * time.Hour)
	overdue, _ := h.svc.ListOverdueRadicaciones(ctx)
	if len(overdue) != 1 || overdue[0].ID != rad.ID {
		t.Fatalf("expected overdue radicacion, got %#v", overdue)
	}
	if _, err := h.svc.MarkRadicacionReturned(ctx, rad.ID); err != nil {
		t.Fatalf("MarkRadicacionReturned() error = %v", err)
	}
	pending, _ = h.svc.ListPendingRadicaciones(ctx)
	if len(pending) != 0 {
		t.Fatalf("expected no pending, got %d", len(pending))
	}
}

func TestLegajoOperations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	legajo, err := h.svc.CreateLegajo(ctx, app.LegajoInput{Number: "1043", Nombre: "Ana", Apellido: "Gómez", Dependencia: "Defensoría Civil"})
	if err != nil {
		t.Fatalf("CreateLegajo() error = %v", err)
	}
	if _, err := h.svc.CreateLegajo(ctx, app.LegajoInput{Number: "1043", Apellido: "Otro"}); !errors.Is(err, domain.ErrInvalidDocumentNumber) {
		t.Fatalf("expected duplicate number rejection, got %v", err)
	}
	if _, err := h.svc.SetLegajoActive(ctx, legajo.ID, false); err != nil {
		t.Fatalf("SetLegajoActive() error = %v", err)
	}
	active, _ := h.svc.SearchLegajos(ctx, "gómez", false)
	all, _ := h.svc.SearchLegajos(ctx, "gómez", true)
	if len(active) != 0 || len(all) != 1 {
		t.Fatalf("unexpected search results %d/%d", len(active), len(all))
	}
	if _, err := h.svc.UpdateLegajo(ctx, legajo.ID, app.LegajoInput{Number: "1043", Apellido: "Gómez"}); !errors.Is(err, domain.ErrLegajoInactive) {
		t.Fatalf("expected ErrLegajoInactive, got %v", err)
	}
	if err := h.svc.DeleteLegajo(ctx, legajo.ID); err != nil {
		t.Fatalf("DeleteLegajo() error = %v", err)
	}
}
