package httpapi

import (
	"net/http"

	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/domain"
)

type createActuacionRequest struct {
	ExpedientID string `json:"expedientId"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	CreatedBy   string `json:"createdBy"`
}

type updateActuacionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type signRequest struct {
	Signer string `json:"signer"`
}

// actuacionFilterFrom parses list query parameters. expedientID overrides the query value when set.
func actuacionFilterFrom(r *http.Request, expedientID string) (app.ActuacionFilter, error) {
	q := r.URL.Query()
	filter := app.ActuacionFilter{ExpedientID: q.Get("expediente")}
	if expedientID != "" {
		filter.ExpedientID = expedientID
	}
	for _, raw := range q["estado"] {
		status, err := domain.ParseActuacionStatus(raw)
		if err != nil {
			return app.ActuacionFilter{}, err
		}
		filter.Estados = append(filter.Estados, status)
	}
	if raw := q.Get("tipo"); raw != "" {
		typ, err := domain.ParseActuacionType(raw)
		if err != nil {
			return app.ActuacionFilter{}, err
		}
		filter.Tipo = typ
	}
	var err error
	if filter.From, err = timeQuery(r, "desde", false); err != nil {
		return app.ActuacionFilter{}, err
	}
	if filter.To, err = timeQuery(r, "hasta", true); err != nil {
		return app.ActuacionFilter{}, err
	}
	if filter.SortBy, err = app.ParseActuacionSortField(q.Get("sort")); err != nil {
		return app.ActuacionFilter{}, invalidRequest(err)
	}
	if filter.Descending, err = boolQuery(r, "desc"); err != nil {
		return app.ActuacionFilter{}, err
	}
	return filter, nil
}

func (h *Handler) handleListActuaciones(w http.ResponseWriter, r *http.Request) {
	h.listActuaciones(w, r, "")
}

func (h *Handler) handleListExpedientActuaciones(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.GetExpedient(r.Context(), pathID(r)); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	h.listActuaciones(w, r, pathID(r))
}

func (h *Handler) listActuaciones(w http.ResponseWriter, r *http.Request, expedientID string) {
	filter, err := actuacionFilterFrom(r, expedientID)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	page, size, err := pageParams(r)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	items, err := h.svc.ListActuaciones(r.Context(), filter)
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

func (h *Handler) handleCreateActuacion(w http.ResponseWriter, r *http.Request) {
	var req createActuacionRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	in := app.CreateActuacionInput{
		ExpedientID: req.ExpedientID,
		Title:       req.Title,
		Content:     req.Content,
		CreatedBy:   req.CreatedBy,
	}
	if req.Type != "" {
		typ, err := domain.ParseActuacionType(req.Type)
		if err != nil {
			h.writeErrorFrom(w, err)
			return
		}
		in.Type = typ
	}
	act, err := h.svc.CreateActuacion(r.Context(), in)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, act)
}

func (h *Handler) handleGetActuacion(w http.ResponseWriter, r *http.Request) {
	act, err := h.svc.GetActuacion(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (h *Handler) handleUpdateActuacion(w http.ResponseWriter, r *http.Request) {
	var req updateActuacionRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	act, err := h.svc.UpdateActuacionContent(r.Context(), pathID(r), req.Title, req.Content)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (h *Handler) handleDeleteActuacion(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteActuacion(r.Context(), pathID(r)); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSendActuacion(w http.ResponseWriter, r *http.Request) {
	act, err := h.svc.SendActuacionToSign(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (h *Handler) handleSignActuacion(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if err := decodeOptionalJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	act, err := h.svc.SignActuacion(r.Context(), pathID(r), req.Signer)
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (h *Handler) handleRevertActuacion(w http.ResponseWriter, r *http.Request) {
	act, err := h.svc.RevertActuacionSignature(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (h *Handler) handleCanRevertActuacion(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.CanRevertActuacion(r.Context(), pathID(r))
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"revertible": ok})
}

func (h *Handler) handlePendingSignatures(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.PendingSignatureCount(r.Context())
	if err != nil {
		h.writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pending": count})
}
