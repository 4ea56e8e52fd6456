package app

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/defensoria/expedientes/internal/domain"
)

// CreateCitaInput holds input values for create cita operations.
type CreateCitaInput struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         *time.Time
	ExpedientID string
	ActuacionID string
}

// CitaFilter narrows ListCitas. Zero values match everything.
type CitaFilter struct {
	From        time.Time
	To          time.Time
	ExpedientID string
	Status      domain.CitaStatus
}

// CreateFechaCitacionInput holds input values for citation-date creation.
type CreateFechaCitacionInput struct {
	ExpedientID string
	Fecha       time.Time
	Motivo      string
	Persona     string
	Lugar       string
}

// CreateCita creates a programada agenda entry.
func (s *Service) CreateCita(ctx context.Context, in CreateCitaInput) (domain.CitaAgenda, error) {
	if strings.TrimSpace(in.ExpedientID) != "" {
		if err := s.ensureExpedient(ctx, in.ExpedientID); err != nil {
			return domain.CitaAgenda{}, err
		}
	}
	cita, err := domain.NewCita(domain.CitaInput{
		ID:          s.idGen(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Start:       in.Start,
		End:         in.End,
		ExpedientID: in.ExpedientID,
		ActuacionID: in.ActuacionID,
	}, s.clock())
	if err != nil {
		return domain.CitaAgenda{}, err
	}
	if err := s.repo.SaveCita(ctx, cita); err != nil {
		return domain.CitaAgenda{}, err
	}
	return cita, nil
}

// SetCitaStatus stores a new status on an agenda entry.
func (s *Service) SetCitaStatus(ctx context.Context, id string, status domain.CitaStatus) (domain.CitaAgenda, error) {
	cita, err := s.repo.GetCita(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.CitaAgenda{}, err
	}
	if err := cita.SetStatus(status, s.clock()); err != nil {
		return domain.CitaAgenda{}, err
	}
	if err := s.repo.SaveCita(ctx, cita); err != nil {
		return domain.CitaAgenda{}, err
	}
	return cita, nil
}

// RescheduleCita moves an agenda entry and marks it reprogramada.
func (s *Service) RescheduleCita(ctx context.Context, id string, start time.Time, end *time.Time) (domain.CitaAgenda, error) {
	cita, err := s.repo.GetCita(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.CitaAgenda{}, err
	}
	if err := cita.Reschedule(start, end, s.clock()); err != nil {
		return domain.CitaAgenda{}, err
	}
	if err := s.repo.SaveCita(ctx, cita); err != nil {
		return domain.CitaAgenda{}, err
	}
	return cita, nil
}

// DeleteCita removes an agenda entry.
func (s *Service) DeleteCita(ctx context.Context, id string) error {
	return s.repo.DeleteCita(ctx, strings.TrimSpace(id))
}

// ListCitas returns agenda entries matching filter ordered by start time.
func (s *Service) ListCitas(ctx context.Context, filter CitaFilter) ([]domain.CitaAgenda, error) {
	all, err := s.repo.ListCitas(ctx)
	if err != nil {
		return nil, err
	}
	expedientID := strings.TrimSpace(filter.ExpedientID)
	out := make([]domain.CitaAgenda, 0, len(all))
	for _, c := range all {
		if !c.StartsWithin(filter.From, filter.To) {
			continue
		}
		if expedientID != "" && c.ExpedientID != expedientID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b domain.CitaAgenda) int {
		return cmp.Compare(a.Start.UnixNano(), b.Start.UnixNano())
	})
	return out, nil
}

// CreateFechaCitacion records a citation date and writes the matching agenda entry.
// The agenda entry is written first so a failed second write never leaves a dangling citation.
func (s *Service) CreateFechaCitacion(ctx context.Context, in CreateFechaCitacionInput) (domain.FechaCitacion, domain.CitaAgenda, error) {
	if err := s.ensureExpedient(ctx, in.ExpedientID); err != nil {
		return domain.FechaCitacion{}, domain.CitaAgenda{}, err
	}
	now := s.clock()
	fecha, err := domain.NewFechaCitacion(domain.FechaCitacionInput{
		ID:          s.idGen(),
		CitaID:      s.idGen(),
		ExpedientID: in.ExpedientID,
		Fecha:       in.Fecha,
		Motivo:      in.Motivo,
		Persona:     in.Persona,
		Lugar:       in.Lugar,
	}, now)
	if err != nil {
		return domain.FechaCitacion{}, domain.CitaAgenda{}, err
	}
	cita, err := fecha.Cita(now)
	if err != nil {
		return domain.FechaCitacion{}, domain.CitaAgenda{}, err
	}
	if err := s.repo.SaveCita(ctx, cita); err != nil {
		return domain.FechaCitacion{}, domain.CitaAgenda{}, err
	}
	if err := s.repo.SaveFechaCitacion(ctx, fecha); err != nil {
		return domain.FechaCitacion{}, domain.CitaAgenda{}, err
	}
	return fecha, cita, nil
}

// ListFechasCitacion returns the citation dates of an expedient ordered by date.
func (s *Service) ListFechasCitacion(ctx context.Context, expedientID string) ([]domain.FechaCitacion, error) {
	all, err := s.repo.ListFechasCitacion(ctx)
	if err != nil {
		return nil, err
	}
	expedientID = strings.TrimSpace(expedientID)
	out := make([]domain.FechaCitacion, 0, len(all))
	for _, f := range all {
		if expedientID == "" || f.ExpedientID == expedientID {
			out = append(out, f)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.FechaCitacion) int {
		return a.Fecha.Compare(b.Fecha)
	})
	return out, nil
}
