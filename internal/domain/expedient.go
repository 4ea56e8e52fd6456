package domain

import (
	"slices"
	"strings"
	"time"
)

// ExpedientStatus represents the lifecycle state of a case file.
type ExpedientStatus string

// Expedient lifecycle states.
const (
	ExpedientDraft      ExpedientStatus = "draft"
	ExpedientEnTramite  ExpedientStatus = "en_tramite"
	ExpedientParalizado ExpedientStatus = "paralizado"
	ExpedientArchivado  ExpedientStatus = "archivado"
)

var validExpedientStatuses = []ExpedientStatus{
	ExpedientDraft,
	ExpedientEnTramite,
	ExpedientParalizado,
	ExpedientArchivado,
}

// activeExpedientStatuses lists the states reachable once an expedient leaves draft.
var activeExpedientStatuses = []ExpedientStatus{
	ExpedientEnTramite,
	ExpedientParalizado,
	ExpedientArchivado,
}

// ParseExpedientStatus normalizes and validates a raw status value.
func ParseExpedientStatus(raw string) (ExpedientStatus, error) {
	status := ExpedientStatus(strings.TrimSpace(strings.ToLower(raw)))
	switch status {
	case "en-tramite", "en tramite", "entramite":
		status = ExpedientEnTramite
	case "borrador":
		status = ExpedientDraft
	}
	if !slices.Contains(validExpedientStatuses, status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Expedient is the top-level case file tracked through the system.
type Expedient struct {
	ID              string          `json:"id"`
	Number          int             `json:"number"`
	Title           string          `json:"title"`
	Status          ExpedientStatus `json:"status"`
	AssignedOffice  string          `json:"assignedOffice"`
	Reference       string          `json:"reference"`
	ProcessType     string          `json:"processType"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	LastActivityAt  time.Time       `json:"lastActivityAt"`
	DerivadoPor     string          `json:"derivadoPor,omitempty"`
	FechaDerivacion *time.Time      `json:"fechaDerivacion,omitempty"`
	RecibidoPor     string          `json:"recibidoPor,omitempty"`
	FechaRecepcion  *time.Time      `json:"fechaRecepcion,omitempty"`
	StatusReason    string          `json:"statusReason,omitempty"`
}

// ExpedientInput holds input values for expedient creation.
type ExpedientInput struct {
	ID             string
	Number         int
	Title          string
	AssignedOffice string
	Reference      string
	ProcessType    string
}

// NewExpedient constructs a draft expedient. Only the title is required at creation;
// office and reference are enforced when the expedient is derived.
func NewExpedient(in ExpedientInput, now time.Time) (Expedient, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	if in.ID == "" {
		return Expedient{}, ErrInvalidID
	}
	if in.Title == "" {
		return Expedient{}, ErrInvalidTitle
	}
	if in.Number <= 0 {
		return Expedient{}, ErrInvalidDocumentNumber
	}
	ts := now.UTC()
	return Expedient{
		ID:             in.ID,
		Number:         in.Number,
		Title:          in.Title,
		Status:         ExpedientDraft,
		AssignedOffice: strings.TrimSpace(in.AssignedOffice),
		Reference:      strings.TrimSpace(in.Reference),
		ProcessType:    strings.TrimSpace(in.ProcessType),
		CreatedAt:      ts,
		UpdatedAt:      ts,
		LastActivityAt: ts,
	}, nil
}

// CanEditBasics reports whether title, office, reference and process type may change.
func (e Expedient) CanEditBasics() bool {
	return e.Status == ExpedientDraft
}

// UpdateBasics replaces the basic fields of a draft expedient.
func (e *Expedient) UpdateBasics(title, office, reference, processType string, now time.Time) error {
	if !e.CanEditBasics() {
		return ErrNotEditable
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	e.Title = title
	e.AssignedOffice = strings.TrimSpace(office)
	e.Reference = strings.TrimSpace(reference)
	e.ProcessType = strings.TrimSpace(processType)
	e.UpdatedAt = now.UTC()
	return nil
}

// CanDerive reports whether the expedient satisfies the derivation preconditions.
func (e Expedient) CanDerive() error {
	if e.Status != ExpedientDraft {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(e.AssignedOffice) == "" {
		return ErrInvalidOffice
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrInvalidTitle
	}
	if strings.TrimSpace(e.Reference) == "" {
		return ErrInvalidReference
	}
	return nil
}

// Derive moves a draft expedient into en_tramite. There is no path back to draft.
func (e *Expedient) Derive(actor, reason string, now time.Time) error {
	if err := e.CanDerive(); err != nil {
		return err
	}
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	ts := now.UTC()
	e.Status = ExpedientEnTramite
	e.DerivadoPor = actor
	e.FechaDerivacion = &ts
	e.StatusReason = strings.TrimSpace(reason)
	e.touch(ts)
	return nil
}

// SetStatus moves a derived expedient between the non-draft states.
func (e *Expedient) SetStatus(to ExpedientStatus, reason string, now time.Time) error {
	if !slices.Contains(validExpedientStatuses, to) {
		return ErrInvalidStatus
	}
	if e.Status == ExpedientDraft || to == ExpedientDraft {
		return ErrInvalidTransition
	}
	if e.Status == to {
		return ErrInvalidTransition
	}
	e.Status = to
	e.StatusReason = strings.TrimSpace(reason)
	e.touch(now.UTC())
	return nil
}

// AllowedTransitions lists the statuses reachable from the current one.
func (e Expedient) AllowedTransitions() []ExpedientStatus {
	if e.Status == ExpedientDraft {
		if e.CanDerive() == nil {
			return []ExpedientStatus{ExpedientEnTramite}
		}
		return nil
	}
	out := make([]ExpedientStatus, 0, len(activeExpedientStatuses)-1)
	for _, status := range activeExpedientStatuses {
		if status != e.Status {
			out = append(out, status)
		}
	}
	return out
}

// Receive records the receiving office user on a derived expedient.
func (e *Expedient) Receive(actor string, now time.Time) error {
	if e.Status == ExpedientDraft {
		return ErrInvalidTransition
	}
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	ts := now.UTC()
	e.RecibidoPor = actor
	e.FechaRecepcion = &ts
	e.touch(ts)
	return nil
}

// touch refreshes update and activity timestamps.
func (e *Expedient) touch(ts time.Time) {
	e.UpdatedAt = ts
	e.LastActivityAt = ts
}
