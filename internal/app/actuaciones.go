package app

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/defensoria/expedientes/internal/domain"
)

// ActuacionSortField selects the ordering of filtered actuaciones.
type ActuacionSortField string

// ActuacionSortField values. The empty value keeps insertion order.
const (
	SortByNone      ActuacionSortField = ""
	SortByNumber    ActuacionSortField = "number"
	SortByCreatedAt ActuacionSortField = "createdAt"
	SortByTitle     ActuacionSortField = "title"
)

// ParseActuacionSortField validates a raw sort field.
func ParseActuacionSortField(raw string) (ActuacionSortField, error) {
	switch field := ActuacionSortField(strings.TrimSpace(raw)); field {
	case SortByNone, SortByNumber, SortByCreatedAt, SortByTitle:
		return field, nil
	case "created_at", "fecha":
		return SortByCreatedAt, nil
	default:
		return "", fmt.Errorf("unsupported sort field %q", raw)
	}
}

// CreateActuacionInput holds input values for create actuacion operations.
type CreateActuacionInput struct {
	ExpedientID string
	Title       string
	Content     string
	Type        domain.ActuacionType
	CreatedBy   string
}

// ActuacionFilter narrows ListActuaciones. Date bounds are inclusive and zero bounds are open.
type ActuacionFilter struct {
	ExpedientID string
	Estados     []domain.ActuacionStatus
	Tipo        domain.ActuacionType
	From        time.Time
	To          time.Time
	SortBy      ActuacionSortField
	Descending  bool
}

// CreateActuacion creates a borrador actuacion with the next number scoped to its expedient.
func (s *Service) CreateActuacion(ctx context.Context, in CreateActuacionInput) (domain.Actuacion, error) {
	if err := s.ensureExpedient(ctx, in.ExpedientID); err != nil {
		return domain.Actuacion{}, err
	}
	s.numbering.Lock()
	defer s.numbering.Unlock()

	existing, err := s.repo.ListActuaciones(ctx)
	if err != nil {
		return domain.Actuacion{}, err
	}
	expedientID := strings.TrimSpace(in.ExpedientID)
	next := 1
	for _, a := range existing {
		if a.ExpedientID == expedientID {
			next = max(next, a.Number+1)
		}
	}
	act, err := domain.NewActuacion(domain.ActuacionInput{
		ID:          s.idGen(),
		ExpedientID: expedientID,
		Number:      next,
		Title:       in.Title,
		Content:     in.Content,
		Type:        in.Type,
		CreatedBy:   s.actorOr(in.CreatedBy),
	}, s.clock())
	if err != nil {
		return domain.Actuacion{}, err
	}
	if err := s.repo.SaveActuacion(ctx, act); err != nil {
		return domain.Actuacion{}, err
	}
	return act, nil
}

// GetActuacion returns one actuacion.
func (s *Service) GetActuacion(ctx context.Context, id string) (domain.Actuacion, error) {
	return s.repo.GetActuacion(ctx, strings.TrimSpace(id))
}

// UpdateActuacionContent replaces title and content of an unsigned actuacion.
func (s *Service) UpdateActuacionContent(ctx context.Context, id, title, content string) (domain.Actuacion, error) {
	act, err := s.repo.GetActuacion(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Actuacion{}, err
	}
	if err := act.UpdateContent(title, content, s.clock()); err != nil {
		return domain.Actuacion{}, err
	}
	if err := s.SaveActuacion(ctx, act); err != nil {
		return domain.Actuacion{}, err
	}
	return act, nil
}

// TransitionActuacion applies a lifecycle edge and persists the result.
func (s *Service) TransitionActuacion(ctx context.Context, id string, to domain.ActuacionStatus, actor string) (domain.Actuacion, error) {
	act, err := s.repo.GetActuacion(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Actuacion{}, err
	}
	if err := act.TransitionTo(to, s.actorOr(actor), s.clock()); err != nil {
		return domain.Actuacion{}, err
	}
	if err := s.SaveActuacion(ctx, act); err != nil {
		return domain.Actuacion{}, err
	}
	return act, nil
}

// SendActuacionToSign moves a borrador to para-firmar.
func (s *Service) SendActuacionToSign(ctx context.Context, id string) (domain.Actuacion, error) {
	return s.TransitionActuacion(ctx, id, domain.ActuacionParaFirmar, "")
}

// SignActuacion moves a para-firmar actuacion to firmado.
func (s *Service) SignActuacion(ctx context.Context, id, signer string) (domain.Actuacion, error) {
	return s.TransitionActuacion(ctx, id, domain.ActuacionFirmado, signer)
}

// RevertActuacionSignature returns a firmado actuacion to para-firmar inside the reversal window.
func (s *Service) RevertActuacionSignature(ctx context.Context, id string) (domain.Actuacion, error) {
	act, err := s.repo.GetActuacion(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Actuacion{}, err
	}
	if err := act.RevertSignature(s.clock()); err != nil {
		return domain.Actuacion{}, err
	}
	if err := s.SaveActuacion(ctx, act); err != nil {
		return domain.Actuacion{}, err
	}
	return act, nil
}

// CanRevertActuacion reports whether the signature of an actuacion may still be reverted.
func (s *Service) CanRevertActuacion(ctx context.Context, id string) (bool, error) {
	act, err := s.repo.GetActuacion(ctx, strings.TrimSpace(id))
	if err != nil {
		return false, err
	}
	return act.CanRevertSignature(s.clock()), nil
}

// SaveActuacion persists act. When the stored status differs from act.Status the change is
// logged (borrador to para-firmar only) and published after the write succeeds.
func (s *Service) SaveActuacion(ctx context.Context, act domain.Actuacion) error {
	var oldStatus domain.ActuacionStatus
	previous, err := s.repo.GetActuacion(ctx, act.ID)
	switch {
	case err == nil:
		oldStatus = previous.Status
	case !isNotFound(err):
		return err
	}
	if err := s.repo.SaveActuacion(ctx, act); err != nil {
		return err
	}
	if oldStatus == "" || oldStatus == act.Status {
		return nil
	}
	change := domain.ActuacionStatusChanged{
		Actuacion: act,
		OldStatus: oldStatus,
		NewStatus: act.Status,
		Timestamp: s.clock().UTC(),
	}
	if domain.NotifiesOnTransition(oldStatus, act.Status) {
		if err := s.appendNotification(ctx, change); err != nil {
			return err
		}
	}
	if s.publisher != nil {
		s.publisher.Publish(change)
	}
	return nil
}

// DeleteActuacion removes an unsigned actuacion.
func (s *Service) DeleteActuacion(ctx context.Context, id string) error {
	act, err := s.repo.GetActuacion(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if act.Status == domain.ActuacionFirmado {
		return domain.ErrNotEditable
	}
	return s.repo.DeleteActuacion(ctx, act.ID)
}

// ListActuaciones returns actuaciones matching filter. Without a sort field the insertion order is kept.
func (s *Service) ListActuaciones(ctx context.Context, filter ActuacionFilter) ([]domain.Actuacion, error) {
	all, err := s.repo.ListActuaciones(ctx)
	if err != nil {
		return nil, err
	}
	expedientID := strings.TrimSpace(filter.ExpedientID)
	out := make([]domain.Actuacion, 0, len(all))
	for _, a := range all {
		if expedientID != "" && a.ExpedientID != expedientID {
			continue
		}
		if len(filter.Estados) > 0 && !slices.Contains(filter.Estados, a.Status) {
			continue
		}
		if filter.Tipo != "" && a.Type != filter.Tipo {
			continue
		}
		if !filter.From.IsZero() && a.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && a.CreatedAt.After(filter.To) {
			continue
		}
		out = append(out, a)
	}
	sortActuaciones(out, filter.SortBy, filter.Descending)
	return out, nil
}

// PendingSignatureCount counts actuaciones waiting in para-firmar.
func (s *Service) PendingSignatureCount(ctx context.Context) (int, error) {
	pending, err := s.ListActuaciones(ctx, ActuacionFilter{Estados: []domain.ActuacionStatus{domain.ActuacionParaFirmar}})
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

// sortActuaciones applies a stable sort so equal keys keep insertion order.
func sortActuaciones(items []domain.Actuacion, field ActuacionSortField, desc bool) {
	var compare func(a, b domain.Actuacion) int
	switch field {
	case SortByNumber:
		compare = func(a, b domain.Actuacion) int { return cmp.Compare(a.Number, b.Number) }
	case SortByCreatedAt:
		compare = func(a, b domain.Actuacion) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortByTitle:
		compare = func(a, b domain.Actuacion) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	default:
		return
	}
	slices.SortStableFunc(items, func(a, b domain.Actuacion) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}
