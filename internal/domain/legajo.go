package domain

import (
	"strings"
	"time"
)

// Legajo is a personnel file for an employee of the organization.
type Legajo struct {
	ID           string     `json:"id"`
	Number       string     `json:"number"`
	Nombre       string     `json:"nombre"`
	Apellido     string     `json:"apellido"`
	Documento    string     `json:"documento"`
	Cargo        string     `json:"cargo"`
	Dependencia  string     `json:"dependencia"`
	FechaIngreso *time.Time `json:"fechaIngreso,omitempty"`
	Activo       bool       `json:"activo"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// LegajoInput holds input values for legajo create and update operations.
type LegajoInput struct {
	ID           string
	Number       string
	Nombre       string
	Apellido     string
	Documento    string
	Cargo        string
	Dependencia  string
	FechaIngreso *time.Time
}

// NewLegajo constructs an active personnel file.
func NewLegajo(in LegajoInput, now time.Time) (Legajo, error) {
	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" {
		return Legajo{}, ErrInvalidID
	}
	l := Legajo{ID: in.ID, Activo: true, CreatedAt: now.UTC()}
	if err := l.apply(in, now); err != nil {
		return Legajo{}, err
	}
	return l, nil
}

// Update replaces the editable fields of an active legajo.
func (l *Legajo) Update(in LegajoInput, now time.Time) error {
	if !l.Activo {
		return ErrLegajoInactive
	}
	return l.apply(in, now)
}

// Deactivate marks the legajo inactive.
func (l *Legajo) Deactivate(now time.Time) {
	l.Activo = false
	l.UpdatedAt = now.UTC()
}

// Reactivate marks the legajo active again.
func (l *Legajo) Reactivate(now time.Time) {
	l.Activo = true
	l.UpdatedAt = now.UTC()
}

// FullName returns "Apellido, Nombre".
func (l Legajo) FullName() string {
	if l.Nombre == "" {
		return l.Apellido
	}
	return l.Apellido + ", " + l.Nombre
}

// Matches reports whether the query appears in the number, names, document or dependency.
func (l Legajo) Matches(query string) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}
	for _, field := range []string{l.Number, l.Nombre, l.Apellido, l.Documento, l.Dependencia, l.Cargo} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// apply validates and copies input fields.
func (l *Legajo) apply(in LegajoInput, now time.Time) error {
	number := strings.TrimSpace(in.Number)
	nombre := strings.TrimSpace(in.Nombre)
	apellido := strings.TrimSpace(in.Apellido)
	documento := strings.Join(strings.Fields(in.Documento), "")
	if number == "" {
		return ErrInvalidDocumentNumber
	}
	if apellido == "" {
		return ErrInvalidName
	}
	var ingreso *time.Time
	if in.FechaIngreso != nil {
		ts := in.FechaIngreso.UTC()
		ingreso = &ts
	}
	l.Number = number
	l.Nombre = nombre
	l.Apellido = apellido
	l.Documento = documento
	l.Cargo = strings.TrimSpace(in.Cargo)
	l.Dependencia = strings.TrimSpace(in.Dependencia)
	l.FechaIngreso = ingreso
	l.UpdatedAt = now.UTC()
	return nil
}
