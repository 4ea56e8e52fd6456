package store

// Collection keys used by the persisted layout. One JSON array is stored per key.
const (
	KeyExpedients             = "expedients"
	KeyActuaciones            = "actuaciones"
	KeyTramites               = "tramites"
	KeyAgendaCitas            = "agenda_citas"
	KeyFechasCitacion         = "fechas_citacion"
	KeyOficios                = "oficios"
	KeyRadicaciones           = "radicacionesInternasPendientes"
	KeyLegajos                = "legajos"
	KeyActuacionNotifications = "actuacion_notifications"
)

// AllKeys lists every collection key in a stable order.
var AllKeys = []string{
	KeyExpedients,
	KeyActuaciones,
	KeyTramites,
	KeyAgendaCitas,
	KeyFechasCitacion,
	KeyOficios,
	KeyRadicaciones,
	KeyLegajos,
	KeyActuacionNotifications,
}
