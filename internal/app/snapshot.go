package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/defensoria/expedientes/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "expedientes.snapshot.v1"

// Snapshot is a portable copy of every collection.
type Snapshot struct {
	Version        string                         `json:"version"`
	ExportedAt     time.Time                      `json:"exported_at"`
	Expedients     []domain.Expedient             `json:"expedients"`
	Actuaciones    []domain.Actuacion             `json:"actuaciones"`
	Tramites       []domain.Tramite               `json:"tramites"`
	Citas          []domain.CitaAgenda            `json:"agenda_citas"`
	FechasCitacion []domain.FechaCitacion         `json:"fechas_citacion"`
	Oficios        []domain.Oficio                `json:"oficios"`
	Radicaciones   []domain.RadicacionInterna     `json:"radicaciones"`
	Legajos        []domain.Legajo                `json:"legajos"`
	Notifications  []domain.ActuacionNotification `json:"actuacion_notifications,omitempty"`
}

// ExportSnapshot reads every collection into a snapshot.
func (s *Service) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Version: SnapshotVersion, ExportedAt: s.clock().UTC()}
	var err error
	if snap.Expedients, err = s.repo.ListExpedients(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Actuaciones, err = s.repo.ListActuaciones(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Tramites, err = s.repo.ListTramites(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Citas, err = s.repo.ListCitas(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.FechasCitacion, err = s.repo.ListFechasCitacion(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Oficios, err = s.repo.ListOficios(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Radicaciones, err = s.repo.ListRadicaciones(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Legajos, err = s.repo.ListLegajos(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Notifications, err = s.repo.ListNotifications(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ImportSnapshot upserts every record of snap. The notification log is replaced when present.
// Imported records bypass status-change publication.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	for _, e := range snap.Expedients {
		if err := s.repo.SaveExpedient(ctx, e); err != nil {
			return err
		}
	}
	for _, a := range snap.Actuaciones {
		if err := s.repo.SaveActuacion(ctx, a); err != nil {
			return err
		}
	}
	for _, t := range snap.Tramites {
		if err := s.repo.SaveTramite(ctx, t); err != nil {
			return err
		}
	}
	for _, c := range snap.Citas {
		if err := s.repo.SaveCita(ctx, c); err != nil {
			return err
		}
	}
	for _, f := range snap.FechasCitacion {
		if err := s.repo.SaveFechaCitacion(ctx, f); err != nil {
			return err
		}
	}
	for _, o := range snap.Oficios {
		if err := s.repo.SaveOficio(ctx, o); err != nil {
			return err
		}
	}
	for _, r := range snap.Radicaciones {
		if err := s.repo.SaveRadicacion(ctx, r); err != nil {
			return err
		}
	}
	for _, l := range snap.Legajos {
		if err := s.repo.SaveLegajo(ctx, l); err != nil {
			return err
		}
	}
	if len(snap.Notifications) > 0 {
		entries := snap.Notifications
		if len(entries) > s.notificationLimit {
			entries = entries[:s.notificationLimit]
		}
		if err := s.repo.ReplaceNotifications(ctx, entries); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the requested operation.
func (s *Snapshot) Validate() error {
	if s.Version != "" && s.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidSnapshot, s.Version)
	}

	expedientIDs := map[string]struct{}{}
	for i, e := range s.Expedients {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("%w: expedients[%d].id is required", ErrInvalidSnapshot, i)
		}
		if strings.TrimSpace(e.Title) == "" {
			return fmt.Errorf("%w: expedients[%d].title is required", ErrInvalidSnapshot, i)
		}
		if _, err := domain.ParseExpedientStatus(string(e.Status)); err != nil {
			return fmt.Errorf("%w: expedients[%d].status: %w", ErrInvalidSnapshot, i, err)
		}
		if _, exists := expedientIDs[e.ID]; exists {
			return fmt.Errorf("%w: duplicate expedient id %q", ErrInvalidSnapshot, e.ID)
		}
		expedientIDs[e.ID] = struct{}{}
	}

	actuacionIDs := map[string]struct{}{}
	for i, a := range s.Actuaciones {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("%w: actuaciones[%d].id is required", ErrInvalidSnapshot, i)
		}
		if _, ok := expedientIDs[a.ExpedientID]; !ok {
			return fmt.Errorf("%w: actuaciones[%d] references unknown expedient %q", ErrInvalidSnapshot, i, a.ExpedientID)
		}
		if _, err := domain.ParseActuacionStatus(string(a.Status)); err != nil {
			return fmt.Errorf("%w: actuaciones[%d].status: %w", ErrInvalidSnapshot, i, err)
		}
		if a.Status == domain.ActuacionFirmado && (a.SignedAt == nil || strings.TrimSpace(a.SignedBy) == "") {
			return fmt.Errorf("%w: actuaciones[%d] is firmado without signature", ErrInvalidSnapshot, i)
		}
		if _, exists := actuacionIDs[a.ID]; exists {
			return fmt.Errorf("%w: duplicate actuacion id %q", ErrInvalidSnapshot, a.ID)
		}
		actuacionIDs[a.ID] = struct{}{}
	}

	open := map[string]struct{}{}
	for i, t := range s.Tramites {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("%w: tramites[%d].id is required", ErrInvalidSnapshot, i)
		}
		if _, ok := expedientIDs[t.ExpedientID]; !ok {
			return fmt.Errorf("%w: tramites[%d] references unknown expedient %q", ErrInvalidSnapshot, i, t.ExpedientID)
		}
		if t.Finalizado {
			continue
		}
		if _, exists := open[t.ExpedientID]; exists {
			return fmt.Errorf("%w: expedient %q has more than one open tramite", ErrInvalidSnapshot, t.ExpedientID)
		}
		open[t.ExpedientID] = struct{}{}
	}

	for i, c := range s.Citas {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: agenda_citas[%d].id is required", ErrInvalidSnapshot, i)
		}
	}
	for i, f := range s.FechasCitacion {
		if strings.TrimSpace(f.ID) == "" {
			return fmt.Errorf("%w: fechas_citacion[%d].id is required", ErrInvalidSnapshot, i)
		}
	}
	for i, o := range s.Oficios {
		if strings.TrimSpace(o.ID) == "" {
			return fmt.Errorf("%w: oficios[%d].id is required", ErrInvalidSnapshot, i)
		}
	}
	for i, r := range s.Radicaciones {
		if strings.TrimSpace(r.ID) == "" {
			return fmt.Errorf("%w: radicaciones[%d].id is required", ErrInvalidSnapshot, i)
		}
	}
	for i, l := range s.Legajos {
		if strings.TrimSpace(l.ID) == "" {
			return fmt.Errorf("%w: legajos[%d].id is required", ErrInvalidSnapshot, i)
		}
	}
	return nil
}
