package app

import (
	"context"
	"strings"

	"github.com/defensoria/expedientes/internal/domain"
)

// CreateOficioInput holds input values for create oficio operations.
type CreateOficioInput struct {
	ExpedientID  string
	Destinatario string
	Asunto       string
	Content      string
	CreatedBy    string
}

// CreateOficio creates an open oficio with the next number scoped to its expedient.
func (s *Service) CreateOficio(ctx context.Context, in CreateOficioInput) (domain.Oficio, error) {
	if err := s.ensureExpedient(ctx, in.ExpedientID); err != nil {
		return domain.Oficio{}, err
	}
	s.numbering.Lock()
	defer s.numbering.Unlock()

	existing, err := s.repo.ListOficios(ctx)
	if err != nil {
		return domain.Oficio{}, err
	}
	expedientID := strings.TrimSpace(in.ExpedientID)
	next := 1
	for _, o := range existing {
		if o.ExpedientID == expedientID {
			next = max(next, o.Number+1)
		}
	}
	oficio, err := domain.NewOficio(domain.OficioInput{
		ID:           s.idGen(),
		ExpedientID:  expedientID,
		Number:       next,
		Destinatario: in.Destinatario,
		Asunto:       in.Asunto,
		Content:      in.Content,
		CreatedBy:    s.actorOr(in.CreatedBy),
	}, s.clock())
	if err != nil {
		return domain.Oficio{}, err
	}
	if err := s.repo.SaveOficio(ctx, oficio); err != nil {
		return domain.Oficio{}, err
	}
	return oficio, nil
}

// UpdateOficio replaces addressee, subject and content of an open oficio.
func (s *Service) UpdateOficio(ctx context.Context, id, destinatario, asunto, content string) (domain.Oficio, error) {
	return s.mutateOficio(ctx, id, func(o *domain.Oficio) error {
		return o.Update(destinatario, asunto, content, s.clock())
	})
}

// AttachOficioResponse records the response attachment metadata of an open oficio.
func (s *Service) AttachOficioResponse(ctx context.Context, id string, resp domain.OficioResponse) (domain.Oficio, error) {
	return s.mutateOficio(ctx, id, func(o *domain.Oficio) error {
		return o.AttachResponse(resp, s.clock())
	})
}

// FinalizeOficio marks an oficio finished.
func (s *Service) FinalizeOficio(ctx context.Context, id string) (domain.Oficio, error) {
	return s.mutateOficio(ctx, id, func(o *domain.Oficio) error {
		return o.Finalize(s.clock())
	})
}

// ListOficios returns the oficios of an expedient, or every oficio when expedientID is blank.
func (s *Service) ListOficios(ctx context.Context, expedientID string) ([]domain.Oficio, error) {
	all, err := s.repo.ListOficios(ctx)
	if err != nil {
		return nil, err
	}
	expedientID = strings.TrimSpace(expedientID)
	out := make([]domain.Oficio, 0, len(all))
	for _, o := range all {
		if expedientID == "" || o.ExpedientID == expedientID {
			out = append(out, o)
		}
	}
	return out, nil
}

// mutateOficio loads, mutates and saves one oficio.
func (s *Service) mutateOficio(ctx context.Context, id string, mutate func(*domain.Oficio) error) (domain.Oficio, error) {
	oficio, err := s.repo.GetOficio(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Oficio{}, err
	}
	if err := mutate(&oficio); err != nil {
		return domain.Oficio{}, err
	}
	if err := s.repo.SaveOficio(ctx, oficio); err != nil {
		return domain.Oficio{}, err
	}
	return oficio, nil
}
