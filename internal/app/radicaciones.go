package app

import (
	"context"
	"strings"
	"time"

	"github.com/defensoria/expedientes/internal/domain"
)

// CreateRadicacionInput holds input values for create radicacion operations.
type CreateRadicacionInput struct {
	ExpedientID          string
	OficinaDestino       string
	Motivo               string
	FechaRetornoEsperada time.Time
	CreatedBy            string
}

// CreateRadicacion hands an expedient off to another office.
func (s *Service) CreateRadicacion(ctx context.Context, in CreateRadicacionInput) (domain.RadicacionInterna, error) {
	if err := s.ensureExpedient(ctx, in.ExpedientID); err != nil {
		return domain.RadicacionInterna{}, err
	}
	rad, err := domain.NewRadicacion(domain.RadicacionInput{
		ID:                   s.idGen(),
		ExpedientID:          in.ExpedientID,
		OficinaDestino:       in.OficinaDestino,
		Motivo:               in.Motivo,
		FechaRetornoEsperada: in.FechaRetornoEsperada,
		CreatedBy:            s.actorOr(in.CreatedBy),
	}, s.clock())
	if err != nil {
		return domain.RadicacionInterna{}, err
	}
	if err := s.repo.SaveRadicacion(ctx, rad); err != nil {
		return domain.RadicacionInterna{}, err
	}
	return rad, nil
}

// ListPendingRadicaciones returns radicaciones that have not come back yet.
func (s *Service) ListPendingRadicaciones(ctx context.Context) ([]domain.RadicacionInterna, error) {
	return s.filterRadicaciones(ctx, func(r domain.RadicacionInterna) bool { return r.Pending() })
}

// ListOverdueRadicaciones returns pending radicaciones past their expected return date.
func (s *Service) ListOverdueRadicaciones(ctx context.Context) ([]domain.RadicacionInterna, error) {
	now := s.clock()
	return s.filterRadicaciones(ctx, func(r domain.RadicacionInterna) bool { return r.Overdue(now) })
}

// MarkRadicacionReturned records the return of an expedient.
func (s *Service) MarkRadicacionReturned(ctx context.Context, id string) (domain.RadicacionInterna, error) {
	rad, err := s.repo.GetRadicacion(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.RadicacionInterna{}, err
	}
	if err := rad.MarkReturned(s.clock()); err != nil {
		return domain.RadicacionInterna{}, err
	}
	if err := s.repo.SaveRadicacion(ctx, rad); err != nil {
		return domain.RadicacionInterna{}, err
	}
	return rad, nil
}

// filterRadicaciones scans the collection with keep.
func (s *Service) filterRadicaciones(ctx context.Context, keep func(domain.RadicacionInterna) bool) ([]domain.RadicacionInterna, error) {
	all, err := s.repo.ListRadicaciones(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RadicacionInterna, 0, len(all))
	for _, r := range all {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
