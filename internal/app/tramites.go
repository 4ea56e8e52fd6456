package app

import (
	"context"
	"strings"

	"github.com/defensoria/expedientes/internal/domain"
)

// CreateTramiteInput holds input values for create tramite operations.
type CreateTramiteInput struct {
	ExpedientID string
	Title       string
	Description string
	CreatedBy   string
}

// CreateTramite opens a tramite. Creation is rejected while the expedient has an open one.
func (s *Service) CreateTramite(ctx context.Context, in CreateTramiteInput) (domain.Tramite, error) {
	if err := s.ensureExpedient(ctx, in.ExpedientID); err != nil {
		return domain.Tramite{}, err
	}
	existing, err := s.repo.ListTramites(ctx)
	if err != nil {
		return domain.Tramite{}, err
	}
	if err := domain.EnsureNoOpenTramite(existing, in.ExpedientID); err != nil {
		return domain.Tramite{}, err
	}
	tramite, err := domain.NewTramite(s.idGen(), in.ExpedientID, in.Title, in.Description, s.actorOr(in.CreatedBy), s.clock())
	if err != nil {
		return domain.Tramite{}, err
	}
	if err := s.repo.SaveTramite(ctx, tramite); err != nil {
		return domain.Tramite{}, err
	}
	return tramite, nil
}

// FinalizeTramite closes a tramite.
func (s *Service) FinalizeTramite(ctx context.Context, id string) (domain.Tramite, error) {
	tramite, err := s.repo.GetTramite(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Tramite{}, err
	}
	if err := tramite.Finalize(s.clock()); err != nil {
		return domain.Tramite{}, err
	}
	if err := s.repo.SaveTramite(ctx, tramite); err != nil {
		return domain.Tramite{}, err
	}
	return tramite, nil
}

// ListTramites returns the tramites of an expedient, or all tramites when expedientID is blank.
func (s *Service) ListTramites(ctx context.Context, expedientID string) ([]domain.Tramite, error) {
	all, err := s.repo.ListTramites(ctx)
	if err != nil {
		return nil, err
	}
	expedientID = strings.TrimSpace(expedientID)
	if expedientID == "" {
		return all, nil
	}
	out := make([]domain.Tramite, 0, len(all))
	for _, t := range all {
		if t.ExpedientID == expedientID {
			out = append(out, t)
		}
	}
	return out, nil
}

// OpenTramite returns the open tramite of an expedient, if any.
func (s *Service) OpenTramite(ctx context.Context, expedientID string) (domain.Tramite, bool, error) {
	tramites, err := s.ListTramites(ctx, expedientID)
	if err != nil {
		return domain.Tramite{}, false, err
	}
	for _, t := range tramites {
		if !t.Finalizado {
			return t, true, nil
		}
	}
	return domain.Tramite{}, false, nil
}
