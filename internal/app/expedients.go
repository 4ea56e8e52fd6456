package app

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/defensoria/expedientes/internal/domain"
)

// CreateExpedientInput holds input values for create expedient operations.
type CreateExpedientInput struct {
	Title          string
	AssignedOffice string
	Reference      string
	ProcessType    string
}

// UpdateExpedientInput holds input values for update expedient operations.
type UpdateExpedientInput struct {
	ID             string
	Title          string
	AssignedOffice string
	Reference      string
	ProcessType    string
}

// ExpedientFilter narrows ListExpedients. Zero values match everything.
type ExpedientFilter struct {
	Statuses []domain.ExpedientStatus
	Office   string
	Query    string
}

// CreateExpedient creates a draft expedient with the next sequential number.
func (s *Service) CreateExpedient(ctx context.Context, in CreateExpedientInput) (domain.Expedient, error) {
	s.numbering.Lock()
	defer s.numbering.Unlock()

	existing, err := s.repo.ListExpedients(ctx)
	if err != nil {
		return domain.Expedient{}, err
	}
	next := 1
	for _, e := range existing {
		next = max(next, e.Number+1)
	}
	exp, err := domain.NewExpedient(domain.ExpedientInput{
		ID:             s.idGen(),
		Number:         next,
		Title:          in.Title,
		AssignedOffice: in.AssignedOffice,
		Reference:      in.Reference,
		ProcessType:    in.ProcessType,
	}, s.clock())
	if err != nil {
		return domain.Expedient{}, err
	}
	if err := s.repo.SaveExpedient(ctx, exp); err != nil {
		return domain.Expedient{}, err
	}
	return exp, nil
}

// GetExpedient returns one expedient.
func (s *Service) GetExpedient(ctx context.Context, id string) (domain.Expedient, error) {
	return s.repo.GetExpedient(ctx, strings.TrimSpace(id))
}

// UpdateExpedient replaces the basic fields of a draft expedient.
func (s *Service) UpdateExpedient(ctx context.Context, in UpdateExpedientInput) (domain.Expedient, error) {
	exp, err := s.repo.GetExpedient(ctx, strings.TrimSpace(in.ID))
	if err != nil {
		return domain.Expedient{}, err
	}
	if err := exp.UpdateBasics(in.Title, in.AssignedOffice, in.Reference, in.ProcessType, s.clock()); err != nil {
		return domain.Expedient{}, err
	}
	if err := s.repo.SaveExpedient(ctx, exp); err != nil {
		return domain.Expedient{}, err
	}
	return exp, nil
}

// DeriveExpedient moves a draft expedient into en_tramite.
func (s *Service) DeriveExpedient(ctx context.Context, id, actor, reason string) (domain.Expedient, error) {
	exp, err := s.repo.GetExpedient(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Expedient{}, err
	}
	if err := exp.Derive(s.actorOr(actor), reason, s.clock()); err != nil {
		return domain.Expedient{}, err
	}
	if err := s.repo.SaveExpedient(ctx, exp); err != nil {
		return domain.Expedient{}, err
	}
	return exp, nil
}

// SetExpedientStatus moves a derived expedient to another non-draft status.
// Moving a draft expedient to en_tramite is routed through derivation.
func (s *Service) SetExpedientStatus(ctx context.Context, id string, to domain.ExpedientStatus, actor, reason string) (domain.Expedient, error) {
	exp, err := s.repo.GetExpedient(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Expedient{}, err
	}
	if exp.Status == domain.ExpedientDraft && to == domain.ExpedientEnTramite {
		err = exp.Derive(s.actorOr(actor), reason, s.clock())
	} else {
		err = exp.SetStatus(to, reason, s.clock())
	}
	if err != nil {
		return domain.Expedient{}, err
	}
	if err := s.repo.SaveExpedient(ctx, exp); err != nil {
		return domain.Expedient{}, err
	}
	return exp, nil
}

// ReceiveExpedient records who received a derived expedient.
func (s *Service) ReceiveExpedient(ctx context.Context, id, actor string) (domain.Expedient, error) {
	exp, err := s.repo.GetExpedient(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Expedient{}, err
	}
	if err := exp.Receive(s.actorOr(actor), s.clock()); err != nil {
		return domain.Expedient{}, err
	}
	if err := s.repo.SaveExpedient(ctx, exp); err != nil {
		return domain.Expedient{}, err
	}
	return exp, nil
}

// ListExpedients returns expedients matching filter in insertion order.
func (s *Service) ListExpedients(ctx context.Context, filter ExpedientFilter) ([]domain.Expedient, error) {
	all, err := s.repo.ListExpedients(ctx)
	if err != nil {
		return nil, err
	}
	office := strings.TrimSpace(strings.ToLower(filter.Office))
	query := strings.TrimSpace(strings.ToLower(filter.Query))
	out := make([]domain.Expedient, 0, len(all))
	for _, e := range all {
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, e.Status) {
			continue
		}
		if office != "" && strings.ToLower(e.AssignedOffice) != office {
			continue
		}
		if query != "" && !expedientContainsQuery(e, query) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ensureExpedient verifies that the parent expedient exists.
func (s *Service) ensureExpedient(ctx context.Context, id string) error {
	_, err := s.repo.GetExpedient(ctx, strings.TrimSpace(id))
	if isNotFound(err) {
		return fmt.Errorf("%w: %w", ErrExpedientMissing, err)
	}
	return err
}

// expedientContainsQuery matches a lowercased query against searchable expedient fields.
// The expedient number matches only exactly.
func expedientContainsQuery(e domain.Expedient, query string) bool {
	if strings.TrimPrefix(query, "#") == strconv.Itoa(e.Number) {
		return true
	}
	for _, field := range []string{e.Title, e.Reference, e.AssignedOffice, e.ProcessType} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
