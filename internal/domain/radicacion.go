package domain

import (
	"strings"
	"time"
)

// RadicacionInterna is an internal hand-off of an expedient to another office with an expected return date.
type RadicacionInterna struct {
	ID                   string     `json:"id"`
	ExpedientID          string     `json:"expedientId"`
	OficinaDestino       string     `json:"oficinaDestino"`
	Motivo               string     `json:"motivo"`
	FechaEnvio           time.Time  `json:"fechaEnvio"`
	FechaRetornoEsperada time.Time  `json:"fechaRetornoEsperada"`
	Devuelto             bool       `json:"devuelto"`
	FechaDevolucion      *time.Time `json:"fechaDevolucion,omitempty"`
	CreatedBy            string     `json:"createdBy"`
}

// RadicacionInput holds input values for radicacion creation.
type RadicacionInput struct {
	ID                   string
	ExpedientID          string
	OficinaDestino       string
	Motivo               string
	FechaRetornoEsperada time.Time
	CreatedBy            string
}

// NewRadicacion constructs a pending radicacion sent now.
func NewRadicacion(in RadicacionInput, now time.Time) (RadicacionInterna, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ExpedientID = strings.TrimSpace(in.ExpedientID)
	in.OficinaDestino = strings.TrimSpace(in.OficinaDestino)
	if in.ID == "" || in.ExpedientID == "" {
		return RadicacionInterna{}, ErrInvalidID
	}
	if in.OficinaDestino == "" {
		return RadicacionInterna{}, ErrInvalidOffice
	}
	if in.FechaRetornoEsperada.IsZero() {
		return RadicacionInterna{}, ErrInvalidDate
	}
	sent := now.UTC()
	expected := in.FechaRetornoEsperada.UTC()
	if expected.Before(sent) {
		return RadicacionInterna{}, ErrInvalidDateRange
	}
	return RadicacionInterna{
		ID:                   in.ID,
		ExpedientID:          in.ExpedientID,
		OficinaDestino:       in.OficinaDestino,
		Motivo:               strings.TrimSpace(in.Motivo),
		FechaEnvio:           sent,
		FechaRetornoEsperada: expected,
		CreatedBy:            strings.TrimSpace(in.CreatedBy),
	}, nil
}

// Pending reports whether the expedient has not come back yet.
func (r RadicacionInterna) Pending() bool {
	return !r.Devuelto
}

// Overdue reports whether a pending radicacion is past its expected return date.
func (r RadicacionInterna) Overdue(now time.Time) bool {
	return r.Pending() && now.UTC().After(r.FechaRetornoEsperada)
}

// MarkReturned records the return of the expedient.
func (r *RadicacionInterna) MarkReturned(now time.Time) error {
	if r.Devuelto {
		return ErrRadicacionReturned
	}
	ts := now.UTC()
	r.Devuelto = true
	r.FechaDevolucion = &ts
	return nil
}
