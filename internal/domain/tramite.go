package domain

import (
	"strings"
	"time"
)

// Tramite is the single open administrative step tracked for an expedient.
type Tramite struct {
	ID           string     `json:"id"`
	ExpedientID  string     `json:"expedientId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	CreatedBy    string     `json:"createdBy"`
	CreatedAt    time.Time  `json:"createdAt"`
	Finalizado   bool       `json:"finalizado"`
	FinalizadoAt *time.Time `json:"finalizadoAt,omitempty"`
}

// NewTramite constructs an open tramite.
func NewTramite(id, expedientID, title, description, createdBy string, now time.Time) (Tramite, error) {
	id = strings.TrimSpace(id)
	expedientID = strings.TrimSpace(expedientID)
	title = strings.TrimSpace(title)
	if id == "" || expedientID == "" {
		return Tramite{}, ErrInvalidID
	}
	if title == "" {
		return Tramite{}, ErrInvalidTitle
	}
	return Tramite{
		ID:          id,
		ExpedientID: expedientID,
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedBy:   strings.TrimSpace(createdBy),
		CreatedAt:   now.UTC(),
	}, nil
}

// Finalize closes the tramite.
func (t *Tramite) Finalize(now time.Time) error {
	if t.Finalizado {
		return ErrTramiteFinalized
	}
	ts := now.UTC()
	t.Finalizado = true
	t.FinalizadoAt = &ts
	return nil
}

// EnsureNoOpenTramite rejects creating a tramite while another one is still open for the expedient.
func EnsureNoOpenTramite(existing []Tramite, expedientID string) error {
	expedientID = strings.TrimSpace(expedientID)
	for _, t := range existing {
		if t.ExpedientID == expedientID && !t.Finalizado {
			return ErrOpenTramiteExists
		}
	}
	return nil
}
