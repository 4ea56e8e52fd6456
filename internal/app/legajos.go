package app

import (
	"context"
	"strings"

	"github.com/defensoria/expedientes/internal/domain"
)

// LegajoInput holds input values for legajo create and update operations.
type LegajoInput = domain.LegajoInput

// CreateLegajo creates an active personnel file. Numbers must be unique.
func (s *Service) CreateLegajo(ctx context.Context, in LegajoInput) (domain.Legajo, error) {
	existing, err := s.repo.ListLegajos(ctx)
	if err != nil {
		return domain.Legajo{}, err
	}
	number := strings.TrimSpace(in.Number)
	for _, l := range existing {
		if l.Number == number {
			return domain.Legajo{}, domain.ErrInvalidDocumentNumber
		}
	}
	in.ID = s.idGen()
	legajo, err := domain.NewLegajo(in, s.clock())
	if err != nil {
		return domain.Legajo{}, err
	}
	if err := s.repo.SaveLegajo(ctx, legajo); err != nil {
		return domain.Legajo{}, err
	}
	return legajo, nil
}

// UpdateLegajo replaces the editable fields of an active personnel file.
func (s *Service) UpdateLegajo(ctx context.Context, id string, in LegajoInput) (domain.Legajo, error) {
	legajo, err := s.repo.GetLegajo(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Legajo{}, err
	}
	if err := legajo.Update(in, s.clock()); err != nil {
		return domain.Legajo{}, err
	}
	if err := s.repo.SaveLegajo(ctx, legajo); err != nil {
		return domain.Legajo{}, err
	}
	return legajo, nil
}

// SetLegajoActive activates or deactivates a personnel file.
func (s *Service) SetLegajoActive(ctx context.Context, id string, active bool) (domain.Legajo, error) {
	legajo, err := s.repo.GetLegajo(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Legajo{}, err
	}
	if active {
		legajo.Reactivate(s.clock())
	} else {
		legajo.Deactivate(s.clock())
	}
	if err := s.repo.SaveLegajo(ctx, legajo); err != nil {
		return domain.Legajo{}, err
	}
	return legajo, nil
}

// DeleteLegajo removes a personnel file.
func (s *Service) DeleteLegajo(ctx context.Context, id string) error {
	return s.repo.DeleteLegajo(ctx, strings.TrimSpace(id))
}

// SearchLegajos returns personnel files matching query. Inactive files are skipped unless includeInactive is set.
func (s *Service) SearchLegajos(ctx context.Context, query string, includeInactive bool) ([]domain.Legajo, error) {
	all, err := s.repo.ListLegajos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Legajo, 0, len(all))
	for _, l := range all {
		if !includeInactive && !l.Activo {
			continue
		}
		if l.Matches(query) {
			out = append(out, l)
		}
	}
	return out, nil
}
