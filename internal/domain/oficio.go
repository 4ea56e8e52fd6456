package domain

import (
	"strings"
	"time"
)

// OficioResponse describes the attachment received in reply to an oficio.
type OficioResponse struct {
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	ReceivedAt  time.Time `json:"receivedAt"`
	Notes       string    `json:"notes,omitempty"`
}

// Oficio is an outbound official communication tied to an expedient.
type Oficio struct {
	ID           string          `json:"id"`
	ExpedientID  string          `json:"expedientId"`
	Number       int             `json:"number"`
	Destinatario string          `json:"destinatario"`
	Asunto       string          `json:"asunto"`
	Content      string          `json:"content"`
	Finalizado   bool            `json:"finalizado"`
	FinalizadoAt *time.Time      `json:"finalizadoAt,omitempty"`
	Response     *OficioResponse `json:"response,omitempty"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// OficioInput holds input values for oficio creation.
type OficioInput struct {
	ID           string
	ExpedientID  string
	Number       int
	Destinatario string
	Asunto       string
	Content      string
	CreatedBy    string
}

// NewOficio constructs an open oficio.
func NewOficio(in OficioInput, now time.Time) (Oficio, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ExpedientID = strings.TrimSpace(in.ExpedientID)
	in.Destinatario = strings.TrimSpace(in.Destinatario)
	in.Asunto = strings.TrimSpace(in.Asunto)
	if in.ID == "" || in.ExpedientID == "" {
		return Oficio{}, ErrInvalidID
	}
	if in.Number <= 0 {
		return Oficio{}, ErrInvalidDocumentNumber
	}
	if in.Destinatario == "" {
		return Oficio{}, ErrInvalidName
	}
	if in.Asunto == "" {
		return Oficio{}, ErrInvalidTitle
	}
	ts := now.UTC()
	return Oficio{
		ID:           in.ID,
		ExpedientID:  in.ExpedientID,
		Number:       in.Number,
		Destinatario: in.Destinatario,
		Asunto:       in.Asunto,
		Content:      in.Content,
		CreatedBy:    strings.TrimSpace(in.CreatedBy),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}, nil
}

// Update replaces addressee, subject and content while the oficio is open.
func (o *Oficio) Update(destinatario, asunto, content string, now time.Time) error {
	if o.Finalizado {
		return ErrOficioFinalized
	}
	destinatario = strings.TrimSpace(destinatario)
	asunto = strings.TrimSpace(asunto)
	if destinatario == "" {
		return ErrInvalidName
	}
	if asunto == "" {
		return ErrInvalidTitle
	}
	o.Destinatario = destinatario
	o.Asunto = asunto
	o.Content = content
	o.UpdatedAt = now.UTC()
	return nil
}

// AttachResponse records response attachment metadata on an open oficio.
func (o *Oficio) AttachResponse(resp OficioResponse, now time.Time) error {
	if o.Finalizado {
		return ErrOficioFinalized
	}
	resp.FileName = strings.TrimSpace(resp.FileName)
	resp.ContentType = strings.TrimSpace(resp.ContentType)
	resp.Notes = strings.TrimSpace(resp.Notes)
	if resp.FileName == "" || resp.SizeBytes < 0 {
		return ErrInvalidAttachment
	}
	if resp.ContentType == "" {
		resp.ContentType = "application/octet-stream"
	}
	ts := now.UTC()
	if resp.ReceivedAt.IsZero() {
		resp.ReceivedAt = ts
	} else {
		resp.ReceivedAt = resp.ReceivedAt.UTC()
	}
	o.Response = &resp
	o.UpdatedAt = ts
	return nil
}

// Finalize marks the oficio finished. A finalized oficio is immutable.
func (o *Oficio) Finalize(now time.Time) error {
	if o.Finalizado {
		return ErrOficioFinalized
	}
	ts := now.UTC()
	o.Finalizado = true
	o.FinalizadoAt = &ts
	o.UpdatedAt = ts
	return nil
}
