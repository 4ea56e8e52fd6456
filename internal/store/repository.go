package store

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/domain"
)

// Repository composes one collection per entity over a single backend.
type Repository struct {
	backend       Backend
	expedients    *Collection[domain.Expedient]
	actuaciones   *Collection[domain.Actuacion]
	tramites      *Collection[domain.Tramite]
	citas         *Collection[domain.CitaAgenda]
	fechas        *Collection[domain.FechaCitacion]
	oficios       *Collection[domain.Oficio]
	radicaciones  *Collection[domain.RadicacionInterna]
	legajos       *Collection[domain.Legajo]
	notifications *Collection[domain.ActuacionNotification]
}

var _ app.Repository = (*Repository)(nil)

// NewRepository constructs a repository over backend.
func NewRepository(backend Backend, logger *log.Logger) *Repository {
	return &Repository{
		backend:       backend,
		expedients:    NewCollection(backend, KeyExpedients, func(e domain.Expedient) string { return e.ID }, logger),
		actuaciones:   NewCollection(backend, KeyActuaciones, func(a domain.Actuacion) string { return a.ID }, logger),
		tramites:      NewCollection(backend, KeyTramites, func(t domain.Tramite) string { return t.ID }, logger),
		citas:         NewCollection(backend, KeyAgendaCitas, func(c domain.CitaAgenda) string { return c.ID }, logger),
		fechas:        NewCollection(backend, KeyFechasCitacion, func(f domain.FechaCitacion) string { return f.ID }, logger),
		oficios:       NewCollection(backend, KeyOficios, func(o domain.Oficio) string { return o.ID }, logger),
		radicaciones:  NewCollection(backend, KeyRadicaciones, func(r domain.RadicacionInterna) string { return r.ID }, logger),
		legajos:       NewCollection(backend, KeyLegajos, func(l domain.Legajo) string { return l.ID }, logger),
		notifications: NewCollection(backend, KeyActuacionNotifications, func(n domain.ActuacionNotification) string { return n.ID }, logger),
	}
}

// Backend returns the underlying backend.
func (r *Repository) Backend() Backend {
	return r.backend
}

// find loads one record or returns app.ErrNotFound.
func find[T any](ctx context.Context, c *Collection[T], id string) (T, error) {
	item, ok, err := c.Find(ctx, id)
	if err != nil {
		return item, err
	}
	if !ok {
		return item, fmt.Errorf("%s %q: %w", c.Key(), id, app.ErrNotFound)
	}
	return item, nil
}

// remove deletes one record or returns app.ErrNotFound.
func remove[T any](ctx context.Context, c *Collection[T], id string) error {
	ok, err := c.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %q: %w", c.Key(), id, app.ErrNotFound)
	}
	return nil
}

// ListExpedients lists expedients.
func (r *Repository) ListExpedients(ctx context.Context) ([]domain.Expedient, error) {
	return r.expedients.All(ctx)
}

// GetExpedient returns one expedient.
func (r *Repository) GetExpedient(ctx context.Context, id string) (domain.Expedient, error) {
	return find(ctx, r.expedients, id)
}

// SaveExpedient upserts an expedient.
func (r *Repository) SaveExpedient(ctx context.Context, e domain.Expedient) error {
	return r.expedients.Save(ctx, e)
}

// ListActuaciones lists actuaciones.
func (r *Repository) ListActuaciones(ctx context.Context) ([]domain.Actuacion, error) {
	return r.actuaciones.All(ctx)
}

// GetActuacion returns one actuacion.
func (r *Repository) GetActuacion(ctx context.Context, id string) (domain.Actuacion, error) {
	return find(ctx, r.actuaciones, id)
}

// SaveActuacion upserts an actuacion.
func (r *Repository) SaveActuacion(ctx context.Context, a domain.Actuacion) error {
	return r.actuaciones.Save(ctx, a)
}

// DeleteActuacion removes an actuacion.
func (r *Repository) DeleteActuacion(ctx context.Context, id string) error {
	return remove(ctx, r.actuaciones, id)
}

// ListTramites lists tramites.
func (r *Repository) ListTramites(ctx context.Context) ([]domain.Tramite, error) {
	return r.tramites.All(ctx)
}

// GetTramite returns one tramite.
func (r *Repository) GetTramite(ctx context.Context, id string) (domain.Tramite, error) {
	return find(ctx, r.tramites, id)
}

// SaveTramite upserts a tramite.
func (r *Repository) SaveTramite(ctx context.Context, t domain.Tramite) error {
	return r.tramites.Save(ctx, t)
}

// ListCitas lists agenda entries.
func (r *Repository) ListCitas(ctx context.Context) ([]domain.CitaAgenda, error) {
	return r.citas.All(ctx)
}

// GetCita returns one agenda entry.
func (r *Repository) GetCita(ctx context.Context, id string) (domain.CitaAgenda, error) {
	return find(ctx, r.citas, id)
}

// SaveCita upserts an agenda entry.
func (r *Repository) SaveCita(ctx context.Context, c domain.CitaAgenda) error {
	return r.citas.Save(ctx, c)
}

// DeleteCita removes an agenda entry.
func (r *Repository) DeleteCita(ctx context.Context, id string) error {
	return remove(ctx, r.citas, id)
}

// ListFechasCitacion lists citation dates.
func (r *Repository) ListFechasCitacion(ctx context.Context) ([]domain.FechaCitacion, error) {
	return r.fechas.All(ctx)
}

// SaveFechaCitacion upserts a citation date.
func (r *Repository) SaveFechaCitacion(ctx context.Context, f domain.FechaCitacion) error {
	return r.fechas.Save(ctx, f)
}

// ListOficios lists oficios.
func (r *Repository) ListOficios(ctx context.Context) ([]domain.Oficio, error) {
	return r.oficios.All(ctx)
}

// GetOficio returns one oficio.
func (r *Repository) GetOficio(ctx context.Context, id string) (domain.Oficio, error) {
	return find(ctx, r.oficios, id)
}

// SaveOficio upserts an oficio.
func (r *Repository) SaveOficio(ctx context.Context, o domain.Oficio) error {
	return r.oficios.Save(ctx, o)
}

// ListRadicaciones lists internal radicaciones.
func (r *Repository) ListRadicaciones(ctx context.Context) ([]domain.RadicacionInterna, error) {
	return r.radicaciones.All(ctx)
}

// GetRadicacion returns one radicacion.
func (r *Repository) GetRadicacion(ctx context.Context, id string) (domain.RadicacionInterna, error) {
	return find(ctx, r.radicaciones, id)
}

// SaveRadicacion upserts a radicacion.
func (r *Repository) SaveRadicacion(ctx context.Context, rad domain.RadicacionInterna) error {
	return r.radicaciones.Save(ctx, rad)
}

// ListLegajos lists personnel files.
func (r *Repository) ListLegajos(ctx context.Context) ([]domain.Legajo, error) {
	return r.legajos.All(ctx)
}

// GetLegajo returns one personnel file.
func (r *Repository) GetLegajo(ctx context.Context, id string) (domain.Legajo, error) {
	return find(ctx, r.legajos, id)
}

// SaveLegajo upserts a personnel file.
func (r *Repository) SaveLegajo(ctx context.Context, l domain.Legajo) error {
	return r.legajos.Save(ctx, l)
}

// DeleteLegajo removes a personnel file.
func (r *Repository) DeleteLegajo(ctx context.Context, id string) error {
	return remove(ctx, r.legajos, id)
}

// ListNotifications returns the notification log, newest first.
func (r *Repository) ListNotifications(ctx context.Context) ([]domain.ActuacionNotification, error) {
	return r.notifications.All(ctx)
}

// ReplaceNotifications overwrites the notification log.
func (r *Repository) ReplaceNotifications(ctx context.Context, entries []domain.ActuacionNotification) error {
	return r.notifications.ReplaceAll(ctx, entries)
}
