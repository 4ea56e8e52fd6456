package httpapi

import (
	"net/http"
	"time"

	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/domain"
)

type createTramiteRequest struct {
	ExpedientID string `json:"expedientId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedBy   string `json:"createdBy"`
}

type citaRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	ExpedientID string     `json:"expedientId"`
	ActuacionID string     `json:"actuacionId"`
}

type citaStatusRequest struct {
	Status string `json:"status"`
}

type rescheduleRequest struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

type fechaCitacionRequest struct {
	ExpedientID string    `json:"expedientId"`
	Fecha       time.Time `json:"fecha"`
	Motivo      string    `json:"motivo"`
	Persona     string    `json:"persona"`
	Lugar       string    `json:"lugar"`
}

type oficioRequest struct {
	ExpedientID  string `json:"expedientId,omitempty"`
	Destinatario string `json:"destinatario"`
	Asunto       string `json:"asunto"`
	Content      string `json:"content"`
	CreatedBy    string `json:"createdBy,omitempty"`
}

type radicacionRequest struct {
	ExpedientID          string    `json:"expedientId"`
	OficinaDestino       string    `json:"oficinaDestino"`
	Motivo               string    `json:"motivo"`
	FechaRetornoEsperada time.Time `json:"fechaRetornoEsperada"`
	CreatedBy            string    `json:"createdBy"`
}

type legajoRequest struct {
	Number       string     `json:"number"`
	Nombre       string     `json:"nombre"`
	Apellido     string     `json:"apellido"`
	Documento    string     `json:"documento"`
	Cargo        string     `json:"cargo"`
	Dependencia  string     `json:"dependencia"`
	FechaIngreso *time.Time `json:"fechaIngreso,omitempty"`
}

func (req legajoRequest) input() app.LegajoInput {
	return app.LegajoInput{
		Number:       req.Number,
		Nombre:       req.Nombre,
		Apellido:     req.Apellido,
		Documento:    req.Documento,
		Cargo:        req.Cargo,
		Dependencia:  req.Dependencia,
		FechaIngreso: req.FechaIngreso,
	}
}

type activeRequest struct {
	Activo bool `json:"activo"`
}

func (h *Handler) handleCreateTramite(w http.ResponseWriter, r *http.Request) {
	var req createTramiteRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	tramite, err := h.svc.CreateTramite(r.Context(), app.CreateTramiteInput(req))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tramite)
}

func (h *Handler) handleFinalizeTramite(w http.ResponseWriter, r *http.Request) {
	tramite, err := h.svc.FinalizeTramite(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tramite)
}

func (h *Handler) handleListTramites(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListTramites(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleListCitas(w http.ResponseWriter, r *http.Request) {
	filter := app.CitaFilter{ExpedientID: r.URL.Query().Get("expediente")}
	var err error
	if filter.From, err = timeQuery(r, "desde", false); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	if filter.To, err = timeQuery(r, "hasta", true); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	if raw := r.URL.Query().Get("estado"); raw != "" {
		if filter.Status, err = domain.ParseCitaStatus(raw); err != nil {
			h.writeErrorFrom(w, err)
			return
		}
	}
	items, err := h.svc.ListCitas(r.Context(), filter)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleCreateCita(w http.ResponseWriter, r *http.Request) {
	var req citaRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	cita, err := h.svc.CreateCita(r.Context(), app.CreateCitaInput(req))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cita)
}

func (h *Handler) handleSetCitaStatus(w http.ResponseWriter, r *http.Request) {
	var req citaStatusRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	status, err := domain.ParseCitaStatus(req.Status)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	cita, err := h.svc.SetCitaStatus(r.Context(), pathID(r), status)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cita)
}

func (h *Handler) handleRescheduleCita(w http.ResponseWriter, r *http.Request) {
	var req rescheduleRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	cita, err := h.svc.RescheduleCita(r.Context(), pathID(r), req.Start, req.End)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cita)
}

func (h *Handler) handleDeleteCita(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCita(r.Context(), pathID(r)); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateFechaCitacion(w http.ResponseWriter, r *http.Request) {
	var req fechaCitacionRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	fecha, cita, err := h.svc.CreateFechaCitacion(r.Context(), app.CreateFechaCitacionInput(req))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"fecha": fecha, "cita": cita})
}

func (h *Handler) handleListFechasCitacion(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListFechasCitacion(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleCreateOficio(w http.ResponseWriter, r *http.Request) {
	var req oficioRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	oficio, err := h.svc.CreateOficio(r.Context(), app.CreateOficioInput(req))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, oficio)
}

func (h *Handler) handleUpdateOficio(w http.ResponseWriter, r *http.Request) {
	var req oficioRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	oficio, err := h.svc.UpdateOficio(r.Context(), pathID(r), req.Destinatario, req.Asunto, req.Content)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, oficio)
}

func (h *Handler) handleAttachOficioResponse(w http.ResponseWriter, r *http.Request) {
	var req domain.OficioResponse
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	oficio, err := h.svc.AttachOficioResponse(r.Context(), pathID(r), req)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, oficio)
}

func (h *Handler) handleFinalizeOficio(w http.ResponseWriter, r *http.Request) {
	oficio, err := h.svc.FinalizeOficio(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, oficio)
}

func (h *Handler) handleListOficios(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListOficios(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleCreateRadicacion(w http.ResponseWriter, r *http.Request) {
	var req radicacionRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	rad, err := h.svc.CreateRadicacion(r.Context(), app.CreateRadicacionInput(req))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rad)
}

func (h *Handler) handleListPendingRadicaciones(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListPendingRadicaciones(r.Context())
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleListOverdueRadicaciones(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListOverdueRadicaciones(r.Context())
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleReturnRadicacion(w http.ResponseWriter, r *http.Request) {
	rad, err := h.svc.MarkRadicacionReturned(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rad)
}

func (h *Handler) handleSearchLegajos(w http.ResponseWriter, r *http.Request) {
	includeInactive, err := boolQuery(r, "inactivos")
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	items, err := h.svc.SearchLegajos(r.Context(), r.URL.Query().Get("q"), includeInactive)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleCreateLegajo(w http.ResponseWriter, r *http.Request) {
	var req legajoRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	legajo, err := h.svc.CreateLegajo(r.Context(), req.input())
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, legajo)
}

func (h *Handler) handleUpdateLegajo(w http.ResponseWriter, r *http.Request) {
	var req legajoRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	legajo, err := h.svc.UpdateLegajo(r.Context(), pathID(r), req.input())
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, legajo)
}

func (h *Handler) handleSetLegajoActive(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	legajo, err := h.svc.SetLegajoActive(r.Context(), pathID(r), req.Activo)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, legajo)
}

func (h *Handler) handleDeleteLegajo(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLegajo(r.Context(), pathID(r)); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListNotifications(r.Context())
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	unread, err := h.svc.UnreadNotificationCount(r.Context())
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "unread": unread})
}

func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkNotificationRead(r.Context(), pathID(r)); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkAllNotificationsRead(r.Context()); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
