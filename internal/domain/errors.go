package domain

import "errors"

var (
	ErrInvalidID             = errors.New("invalid id")
	ErrInvalidName           = errors.New("invalid name")
	ErrInvalidTitle          = errors.New("invalid title")
	ErrInvalidOffice         = errors.New("invalid assigned office")
	ErrInvalidReference      = errors.New("invalid reference")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrInvalidActuacionType  = errors.New("invalid actuacion type")
	ErrInvalidActor          = errors.New("invalid actor")
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidDateRange      = errors.New("invalid date range")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrNotEditable           = errors.New("record is not editable in its current status")
	ErrSignatureWindowClosed = errors.New("signature reversal window has closed")
	ErrOpenTramiteExists     = errors.New("expedient already has an open tramite")
	ErrTramiteFinalized      = errors.New("tramite already finalized")
	ErrOficioFinalized       = errors.New("oficio already finalized")
	ErrRadicacionReturned    = errors.New("radicacion already returned")
	ErrInvalidAttachment     = errors.New("invalid attachment")
	ErrInvalidDocumentNumber = errors.New("invalid document number")
	ErrLegajoInactive        = errors.New("legajo is inactive")
)
