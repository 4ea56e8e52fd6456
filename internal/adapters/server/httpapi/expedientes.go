package httpapi

import (
	"net/http"
	"strings"

	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/domain"
)

type expedientRequest struct {
	Title          string `json:"title"`
	AssignedOffice string `json:"assignedOffice"`
	Reference      string `json:"reference"`
	ProcessType    string `json:"processType"`
}

type transitionRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

// expedientView adds the statuses reachable from the current one.
type expedientView struct {
	domain.Expedient
	AllowedTransitions []domain.ExpedientStatus `json:"allowedTransitions"`
	PendingSignatures  int                      `json:"pendingSignatures"`
}

func (h *Handler) handleListExpedients(w http.ResponseWriter, r *http.Request) {
	filter := app.ExpedientFilter{
		Office: r.URL.Query().Get("office"),
		Query:  r.URL.Query().Get("q"),
	}
	for _, raw := range r.URL.Query()["status"] {
		status, err := domain.ParseExpedientStatus(raw)
		if err != nil {
			h.writeErrorFrom(w, err)
			return
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	page, size, err := pageParams(r)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	items, err := h.svc.ListExpedients(r.Context(), filter)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	out, err := app.Paginate(items, page, size)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreateExpedient(w http.ResponseWriter, r *http.Request) {
	var req expedientRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	exp, err := h.svc.CreateExpedient(r.Context(), app.CreateExpedientInput{
		Title:          req.Title,
		AssignedOffice: req.AssignedOffice,
		Reference:      req.Reference,
		ProcessType:    req.ProcessType,
	})
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}

func (h *Handler) handleGetExpedient(w http.ResponseWriter, r *http.Request) {
	exp, err := h.svc.GetExpedient(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	pending, err := h.svc.ListActuaciones(r.Context(), app.ActuacionFilter{
		ExpedientID: exp.ID,
		Estados:     []domain.ActuacionStatus{domain.ActuacionParaFirmar},
	})
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expedientView{
		Expedient:          exp,
		AllowedTransitions: exp.AllowedTransitions(),
		PendingSignatures:  len(pending),
	})
}

func (h *Handler) handleUpdateExpedient(w http.ResponseWriter, r *http.Request) {
	var req expedientRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	exp, err := h.svc.UpdateExpedient(r.Context(), app.UpdateExpedientInput{
		ID:             pathID(r),
		Title:          req.Title,
		AssignedOffice: req.AssignedOffice,
		Reference:      req.Reference,
		ProcessType:    req.ProcessType,
	})
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (h *Handler) handleDeriveExpedient(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeOptionalJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	exp, err := h.svc.DeriveExpedient(r.Context(), pathID(r), req.Actor, req.Reason)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (h *Handler) handleSetExpedientStatus(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	status, err := domain.ParseExpedientStatus(req.Status)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	exp, err := h.svc.SetExpedientStatus(r.Context(), pathID(r), status, req.Actor, req.Reason)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (h *Handler) handleReceiveExpedient(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeOptionalJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	exp, err := h.svc.ReceiveExpedient(r.Context(), pathID(r), strings.TrimSpace(req.Actor))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}
