package domain

import "time"

// DefaultNotificationLimit caps the actuacion notification log.
const DefaultNotificationLimit = 10

// ActuacionStatusChangedEvent names the process-wide status-change event.
const ActuacionStatusChangedEvent = "actuacionStatusChanged"

// ActuacionStatusChanged is published whenever a saved actuacion changes status.
type ActuacionStatusChanged struct {
	Actuacion Actuacion       `json:"actuacion"`
	OldStatus ActuacionStatus `json:"oldStatus"`
	NewStatus ActuacionStatus `json:"newStatus"`
	Timestamp time.Time       `json:"timestamp"`
}

// ActuacionNotification is one entry of the capped status-change log.
type ActuacionNotification struct {
	ID          string          `json:"id"`
	ActuacionID string          `json:"actuacionId"`
	ExpedientID string          `json:"expedientId"`
	Title       string          `json:"title"`
	OldStatus   ActuacionStatus `json:"oldStatus"`
	NewStatus   ActuacionStatus `json:"newStatus"`
	CreatedAt   time.Time       `json:"createdAt"`
	Read        bool            `json:"read"`
}

// NotifiesOnTransition reports whether a status change produces a notification log entry.
// Only borrador -> para-firmar is logged; every change is still published as an event.
func NotifiesOnTransition(from, to ActuacionStatus) bool {
	return from == ActuacionBorrador && to == ActuacionParaFirmar
}

// NewActuacionNotification builds an unread log entry for a status change.
func NewActuacionNotification(id string, change ActuacionStatusChanged) ActuacionNotification {
	return ActuacionNotification{
		ID:          id,
		ActuacionID: change.Actuacion.ID,
		ExpedientID: change.Actuacion.ExpedientID,
		Title:       change.Actuacion.Title,
		OldStatus:   change.OldStatus,
		NewStatus:   change.NewStatus,
		CreatedAt:   change.Timestamp.UTC(),
	}
}

// PushNotification prepends n to the log and evicts the oldest entries beyond limit.
func PushNotification(log []ActuacionNotification, n ActuacionNotification, limit int) []ActuacionNotification {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	out := make([]ActuacionNotification, 0, min(len(log)+1, limit))
	out = append(out, n)
	for _, existing := range log {
		if len(out) >= limit {
			break
		}
		out = append(out, existing)
	}
	return out
}
