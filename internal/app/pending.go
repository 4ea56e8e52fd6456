package app

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/defensoria/expedientes/internal/domain"
	"github.com/defensoria/expedientes/internal/events"
)

// PendingSignatureTracker keeps the count of actuaciones waiting for signature.
// Counts are always re-derived from storage, so Refresh may run any number of times.
type PendingSignatureTracker struct {
	svc    *Service
	logger *log.Logger

	mu          sync.RWMutex
	total       int
	byExpedient map[string]int
}

// NewPendingSignatureTracker constructs a tracker over svc.
func NewPendingSignatureTracker(svc *Service, logger *log.Logger) *PendingSignatureTracker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PendingSignatureTracker{
		svc:         svc,
		logger:      logger,
		byExpedient: map[string]int{},
	}
}

// Attach refreshes the tracker and subscribes it to bus. The returned func detaches it.
func (t *PendingSignatureTracker) Attach(ctx context.Context, bus *events.Bus[domain.ActuacionStatusChanged]) (func(), error) {
	if err := t.Refresh(ctx); err != nil {
		return nil, err
	}
	return bus.Subscribe(t.Handle), nil
}

// Handle re-derives counts after a status change.
func (t *PendingSignatureTracker) Handle(change domain.ActuacionStatusChanged) {
	if err := t.Refresh(context.Background()); err != nil {
		t.logger.Error("refresh pending signatures failed", "actuacion", change.Actuacion.ID, "err", err)
	}
}

// Refresh recomputes the pending-signature counts from storage.
func (t *PendingSignatureTracker) Refresh(ctx context.Context) error {
	pending, err := t.svc.ListActuaciones(ctx, ActuacionFilter{Estados: []domain.ActuacionStatus{domain.ActuacionParaFirmar}})
	if err != nil {
		return err
	}
	byExpedient := make(map[string]int, len(pending))
	for _, a := range pending {
		byExpedient[a.ExpedientID]++
	}
	t.mu.Lock()
	t.total = len(pending)
	t.byExpedient = byExpedient
	t.mu.Unlock()
	return nil
}

// Total returns the number of actuaciones in para-firmar.
func (t *PendingSignatureTracker) Total() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

// ForExpedient returns the number of para-firmar actuaciones of one expedient.
func (t *PendingSignatureTracker) ForExpedient(expedientID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byExpedient[expedientID]
}
