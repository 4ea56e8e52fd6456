package app

import (
	"context"

	"github.com/defensoria/expedientes/internal/domain"
)

// Repository is the persistence port used by the service. Get methods return ErrNotFound for
// unknown ids. Save methods insert or replace by id.
type Repository interface {
	ListExpedients(context.Context) ([]domain.Expedient, error)
	GetExpedient(context.Context, string) (domain.Expedient, error)
	SaveExpedient(context.Context, domain.Expedient) error

	ListActuaciones(context.Context) ([]domain.Actuacion, error)
	GetActuacion(context.Context, string) (domain.Actuacion, error)
	SaveActuacion(context.Context, domain.Actuacion) error
	DeleteActuacion(context.Context, string) error

	ListTramites(context.Context) ([]domain.Tramite, error)
	GetTramite(context.Context, string) (domain.Tramite, error)
	SaveTramite(context.Context, domain.Tramite) error

	ListCitas(context.Context) ([]domain.CitaAgenda, error)
	GetCita(context.Context, string) (domain.CitaAgenda, error)
	SaveCita(context.Context, domain.CitaAgenda) error
	DeleteCita(context.Context, string) error

	ListFechasCitacion(context.Context) ([]domain.FechaCitacion, error)
	SaveFechaCitacion(context.Context, domain.FechaCitacion) error

	ListOficios(context.Context) ([]domain.Oficio, error)
	GetOficio(context.Context, string) (domain.Oficio, error)
	SaveOficio(context.Context, domain.Oficio) error

	ListRadicaciones(context.Context) ([]domain.RadicacionInterna, error)
	GetRadicacion(context.Context, string) (domain.RadicacionInterna, error)
	SaveRadicacion(context.Context, domain.RadicacionInterna) error

	ListLegajos(context.Context) ([]domain.Legajo, error)
	GetLegajo(context.Context, string) (domain.Legajo, error)
	SaveLegajo(context.Context, domain.Legajo) error
	DeleteLegajo(context.Context, string) error

	ListNotifications(context.Context) ([]domain.ActuacionNotification, error)
	ReplaceNotifications(context.Context, []domain.ActuacionNotification) error
}

// StatusPublisher receives actuacion status-change events after they are persisted.
type StatusPublisher interface {
	Publish(domain.ActuacionStatusChanged)
}
