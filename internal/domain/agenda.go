package domain

import (
	"slices"
	"strings"
	"time"
)

// CitaStatus is the stored status vocabulary of a calendar entry. Transitions are not restricted.
type CitaStatus string

// CitaStatus values.
const (
	CitaProgramada   CitaStatus = "programada"
	CitaConfirmada   CitaStatus = "confirmada"
	CitaReprogramada CitaStatus = "reprogramada"
	CitaCancelada    CitaStatus = "cancelada"
	CitaCompletada   CitaStatus = "completada"
)

var validCitaStatuses = []CitaStatus{CitaProgramada, CitaConfirmada, CitaReprogramada, CitaCancelada, CitaCompletada}

// ParseCitaStatus normalizes and validates a raw cita status.
func ParseCitaStatus(raw string) (CitaStatus, error) {
	status := CitaStatus(strings.TrimSpace(strings.ToLower(raw)))
	if !slices.Contains(validCitaStatuses, status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// CitaAgenda is a calendar entry, optionally linked to an expedient or actuacion.
type CitaAgenda struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	ExpedientID string     `json:"expedientId,omitempty"`
	ActuacionID string     `json:"actuacionId,omitempty"`
	Status      CitaStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CitaInput holds input values for cita creation.
type CitaInput struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         *time.Time
	ExpedientID string
	ActuacionID string
}

// NewCita constructs a programada calendar entry.
func NewCita(in CitaInput, now time.Time) (CitaAgenda, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	if in.ID == "" {
		return CitaAgenda{}, ErrInvalidID
	}
	if in.Title == "" {
		return CitaAgenda{}, ErrInvalidTitle
	}
	if in.Start.IsZero() {
		return CitaAgenda{}, ErrInvalidDate
	}
	start := in.Start.UTC()
	var end *time.Time
	if in.End != nil {
		ts := in.End.UTC()
		if ts.Before(start) {
			return CitaAgenda{}, ErrInvalidDateRange
		}
		end = &ts
	}
	ts := now.UTC()
	return CitaAgenda{
		ID:          in.ID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Start:       start,
		End:         end,
		ExpedientID: strings.TrimSpace(in.ExpedientID),
		ActuacionID: strings.TrimSpace(in.ActuacionID),
		Status:      CitaProgramada,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// SetStatus stores a new status from the cita vocabulary.
func (c *CitaAgenda) SetStatus(status CitaStatus, now time.Time) error {
	if !slices.Contains(validCitaStatuses, status) {
		return ErrInvalidStatus
	}
	c.Status = status
	c.UpdatedAt = now.UTC()
	return nil
}

// Reschedule moves the cita to a new start/end and marks it reprogramada.
func (c *CitaAgenda) Reschedule(start time.Time, end *time.Time, now time.Time) error {
	if start.IsZero() {
		return ErrInvalidDate
	}
	start = start.UTC()
	var normalizedEnd *time.Time
	if end != nil {
		ts := end.UTC()
		if ts.Before(start) {
			return ErrInvalidDateRange
		}
		normalizedEnd = &ts
	}
	c.Start = start
	c.End = normalizedEnd
	c.Status = CitaReprogramada
	c.UpdatedAt = now.UTC()
	return nil
}

// StartsWithin reports whether the cita starts inside [from, to]. Zero bounds are open.
func (c CitaAgenda) StartsWithin(from, to time.Time) bool {
	if !from.IsZero() && c.Start.Before(from) {
		return false
	}
	if !to.IsZero() && c.Start.After(to) {
		return false
	}
	return true
}

// FechaCitacion is a citation date recorded against an expedient.
type FechaCitacion struct {
	ID          string    `json:"id"`
	ExpedientID string    `json:"expedientId"`
	Fecha       time.Time `json:"fecha"`
	Motivo      string    `json:"motivo"`
	Persona     string    `json:"persona"`
	Lugar       string    `json:"lugar"`
	CitaID      string    `json:"citaId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FechaCitacionInput holds input values for citation-date creation.
type FechaCitacionInput struct {
	ID          string
	CitaID      string
	ExpedientID string
	Fecha       time.Time
	Motivo      string
	Persona     string
	Lugar       string
}

// NewFechaCitacion constructs a citation date linked to the cita that mirrors it on the agenda.
func NewFechaCitacion(in FechaCitacionInput, now time.Time) (FechaCitacion, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.CitaID = strings.TrimSpace(in.CitaID)
	in.ExpedientID = strings.TrimSpace(in.ExpedientID)
	if in.ID == "" || in.CitaID == "" || in.ExpedientID == "" {
		return FechaCitacion{}, ErrInvalidID
	}
	if in.Fecha.IsZero() {
		return FechaCitacion{}, ErrInvalidDate
	}
	in.Motivo = strings.TrimSpace(in.Motivo)
	if in.Motivo == "" {
		return FechaCitacion{}, ErrInvalidTitle
	}
	return FechaCitacion{
		ID:          in.ID,
		ExpedientID: in.ExpedientID,
		Fecha:       in.Fecha.UTC(),
		Motivo:      in.Motivo,
		Persona:     strings.TrimSpace(in.Persona),
		Lugar:       strings.TrimSpace(in.Lugar),
		CitaID:      in.CitaID,
		CreatedAt:   now.UTC(),
	}, nil
}

// Cita synthesizes the agenda entry that corresponds to this citation date.
func (f FechaCitacion) Cita(now time.Time) (CitaAgenda, error) {
	title := "Citación: " + f.Motivo
	if f.Persona != "" {
		title += " (" + f.Persona + ")"
	}
	return NewCita(CitaInput{
		ID:          f.CitaID,
		Title:       title,
		Description: f.Motivo,
		Location:    f.Lugar,
		Start:       f.Fecha,
		ExpedientID: f.ExpedientID,
	}, now)
}
