package domain

import (
	"slices"
	"strings"
	"time"
)

// SignatureReversalWindow bounds how long after signing a firmado actuacion may be reverted.
const SignatureReversalWindow = 24 * time.Hour

// ActuacionStatus represents the signing lifecycle of an actuacion.
type ActuacionStatus string

// Actuacion lifecycle states.
const (
	ActuacionBorrador   ActuacionStatus = "borrador"
	ActuacionParaFirmar ActuacionStatus = "para-firmar"
	ActuacionFirmado    ActuacionStatus = "firmado"
)

var validActuacionStatuses = []ActuacionStatus{ActuacionBorrador, ActuacionParaFirmar, ActuacionFirmado}

// ParseActuacionStatus normalizes and validates a raw status value.
func ParseActuacionStatus(raw string) (ActuacionStatus, error) {
	status := ActuacionStatus(strings.TrimSpace(strings.ToLower(raw)))
	switch status {
	case "para_firmar", "parafirmar", "para firmar":
		status = ActuacionParaFirmar
	}
	if !slices.Contains(validActuacionStatuses, status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ActuacionType classifies the document kind of an actuacion.
type ActuacionType string

// ActuacionType values.
const (
	ActuacionResolucion  ActuacionType = "resolucion"
	ActuacionProvidencia ActuacionType = "providencia"
	ActuacionNota        ActuacionType = "nota"
	ActuacionDictamen    ActuacionType = "dictamen"
	ActuacionDecreto     ActuacionType = "decreto"
	ActuacionAuto        ActuacionType = "auto"
)

var validActuacionTypes = []ActuacionType{
	ActuacionResolucion,
	ActuacionProvidencia,
	ActuacionNota,
	ActuacionDictamen,
	ActuacionDecreto,
	ActuacionAuto,
}

// ParseActuacionType normalizes and validates a raw type value. Accented spellings are accepted.
func ParseActuacionType(raw string) (ActuacionType, error) {
	kind := strings.TrimSpace(strings.ToLower(raw))
	kind = strings.NewReplacer("ó", "o", "á", "a", "é", "e", "í", "i", "ú", "u").Replace(kind)
	if !slices.Contains(validActuacionTypes, ActuacionType(kind)) {
		return "", ErrInvalidActuacionType
	}
	return ActuacionType(kind), nil
}

// Actuacion is a signable sub-document attached to an expedient.
type Actuacion struct {
	ID          string          `json:"id"`
	ExpedientID string          `json:"expedientId"`
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Type        ActuacionType   `json:"type"`
	Status      ActuacionStatus `json:"status"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	SignedBy    string          `json:"signedBy,omitempty"`
	SignedAt    *time.Time      `json:"signedAt,omitempty"`
}

// ActuacionInput holds input values for actuacion creation.
type ActuacionInput struct {
	ID          string
	ExpedientID string
	Number      int
	Title       string
	Content     string
	Type        ActuacionType
	CreatedBy   string
}

// NewActuacion constructs an actuacion in borrador status.
func NewActuacion(in ActuacionInput, now time.Time) (Actuacion, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ExpedientID = strings.TrimSpace(in.ExpedientID)
	in.Title = strings.TrimSpace(in.Title)
	in.CreatedBy = strings.TrimSpace(in.CreatedBy)
	if in.ID == "" || in.ExpedientID == "" {
		return Actuacion{}, ErrInvalidID
	}
	if in.Title == "" {
		return Actuacion{}, ErrInvalidTitle
	}
	if in.Number <= 0 {
		return Actuacion{}, ErrInvalidDocumentNumber
	}
	if in.Type == "" {
		in.Type = ActuacionNota
	}
	if !slices.Contains(validActuacionTypes, in.Type) {
		return Actuacion{}, ErrInvalidActuacionType
	}
	if in.CreatedBy == "" {
		return Actuacion{}, ErrInvalidActor
	}
	ts := now.UTC()
	return Actuacion{
		ID:          in.ID,
		ExpedientID: in.ExpedientID,
		Number:      in.Number,
		Title:       in.Title,
		Content:     in.Content,
		Type:        in.Type,
		Status:      ActuacionBorrador,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// IsEditable reports whether title and content may still change.
func (a Actuacion) IsEditable() bool {
	return a.Status != ActuacionFirmado
}

// UpdateContent replaces the title and rich-text content of an unsigned actuacion.
func (a *Actuacion) UpdateContent(title, content string, now time.Time) error {
	if !a.IsEditable() {
		return ErrNotEditable
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	a.Title = title
	a.Content = content
	a.UpdatedAt = now.UTC()
	return nil
}

// SendToSign moves a borrador into para-firmar.
func (a *Actuacion) SendToSign(now time.Time) error {
	if a.Status != ActuacionBorrador {
		return ErrInvalidTransition
	}
	a.Status = ActuacionParaFirmar
	a.UpdatedAt = now.UTC()
	return nil
}

// Sign moves a para-firmar actuacion into firmado and stamps the signature.
func (a *Actuacion) Sign(signer string, now time.Time) error {
	if a.Status != ActuacionParaFirmar {
		return ErrInvalidTransition
	}
	signer = strings.TrimSpace(signer)
	if signer == "" {
		return ErrInvalidActor
	}
	ts := now.UTC()
	a.Status = ActuacionFirmado
	a.SignedBy = signer
	a.SignedAt = &ts
	a.UpdatedAt = ts
	return nil
}

// CanRevertSignature reports whether a firmado actuacion is still inside the reversal window.
func (a Actuacion) CanRevertSignature(now time.Time) bool {
	if a.Status != ActuacionFirmado || a.SignedAt == nil {
		return false
	}
	return now.UTC().Sub(a.SignedAt.UTC()) < SignatureReversalWindow
}

// RevertSignature returns a recently signed actuacion to para-firmar and clears the signature.
func (a *Actuacion) RevertSignature(now time.Time) error {
	if a.Status != ActuacionFirmado {
		return ErrInvalidTransition
	}
	if !a.CanRevertSignature(now) {
		return ErrSignatureWindowClosed
	}
	a.Status = ActuacionParaFirmar
	a.SignedBy = ""
	a.SignedAt = nil
	a.UpdatedAt = now.UTC()
	return nil
}

// TransitionTo applies the lifecycle edge that leads to the requested status.
func (a *Actuacion) TransitionTo(to ActuacionStatus, actor string, now time.Time) error {
	switch {
	case a.Status == ActuacionBorrador && to == ActuacionParaFirmar:
		return a.SendToSign(now)
	case a.Status == ActuacionParaFirmar && to == ActuacionFirmado:
		return a.Sign(actor, now)
	case a.Status == ActuacionFirmado && to == ActuacionParaFirmar:
		return a.RevertSignature(now)
	case !slices.Contains(validActuacionStatuses, to):
		return ErrInvalidStatus
	default:
		return ErrInvalidTransition
	}
}
