// Package httpapi provides the REST HTTP adapter over the case-management service.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/domain"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// errInvalidRequest marks malformed request bodies and query parameters.
var errInvalidRequest = errors.New("invalid request")

// Handler serves the versioned API mounted under the configured endpoint.
type Handler struct {
	svc    *app.Service
	logger *log.Logger
	router *mux.Router
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs the HTTP API over svc.
func NewHandler(svc *app.Service, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Handler{svc: svc, logger: logger, router: mux.NewRouter()}
	h.routes()
	return h
}

// ServeHTTP routes one API request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes registers every endpoint. Literal segments are registered before {id} patterns.
func (h *Handler) routes() {
	r := h.router
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, APIError{Code: "not_found", Message: "endpoint not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, APIError{Code: "method_not_allowed", Message: "method not allowed"})
	})

	exp := r.PathPrefix("/expedientes").Subrouter()
	exp.HandleFunc("", h.handleListExpedients).Methods(http.MethodGet)
	exp.HandleFunc("", h.handleCreateExpedient).Methods(http.MethodPost)
	exp.HandleFunc("/{id}", h.handleGetExpedient).Methods(http.MethodGet)
	exp.HandleFunc("/{id}", h.handleUpdateExpedient).Methods(http.MethodPut)
	exp.HandleFunc("/{id}/derivar", h.handleDeriveExpedient).Methods(http.MethodPost)
	exp.HandleFunc("/{id}/estado", h.handleSetExpedientStatus).Methods(http.MethodPost)
	exp.HandleFunc("/{id}/recibir", h.handleReceiveExpedient).Methods(http.MethodPost)
	exp.HandleFunc("/{id}/actuaciones", h.handleListExpedientActuaciones).Methods(http.MethodGet)
	exp.HandleFunc("/{id}/tramites", h.handleListTramites).Methods(http.MethodGet)
	exp.HandleFunc("/{id}/oficios", h.handleListOficios).Methods(http.MethodGet)
	exp.HandleFunc("/{id}/fechas-citacion", h.handleListFechasCitacion).Methods(http.MethodGet)

	act := r.PathPrefix("/actuaciones").Subrouter()
	act.HandleFunc("", h.handleListActuaciones).Methods(http.MethodGet)
	act.HandleFunc("", h.handleCreateActuacion).Methods(http.MethodPost)
	act.HandleFunc("/pendientes", h.handlePendingSignatures).Methods(http.MethodGet)
	act.HandleFunc("/{id}", h.handleGetActuacion).Methods(http.MethodGet)
	act.HandleFunc("/{id}", h.handleUpdateActuacion).Methods(http.MethodPut)
	act.HandleFunc("/{id}", h.handleDeleteActuacion).Methods(http.MethodDelete)
	act.HandleFunc("/{id}/enviar", h.handleSendActuacion).Methods(http.MethodPost)
	act.HandleFunc("/{id}/firmar", h.handleSignActuacion).Methods(http.MethodPost)
	act.HandleFunc("/{id}/revertir", h.handleRevertActuacion).Methods(http.MethodPost)
	act.HandleFunc("/{id}/revertible", h.handleCanRevertActuacion).Methods(http.MethodGet)

	r.HandleFunc("/tramites", h.handleCreateTramite).Methods(http.MethodPost)
	r.HandleFunc("/tramites/{id}/finalizar", h.handleFinalizeTramite).Methods(http.MethodPost)

	agenda := r.PathPrefix("/agenda").Subrouter()
	agenda.HandleFunc("/citas", h.handleListCitas).Methods(http.MethodGet)
	agenda.HandleFunc("/citas", h.handleCreateCita).Methods(http.MethodPost)
	agenda.HandleFunc("/citas/{id}", h.handleDeleteCita).Methods(http.MethodDelete)
	agenda.HandleFunc("/citas/{id}/estado", h.handleSetCitaStatus).Methods(http.MethodPost)
	agenda.HandleFunc("/citas/{id}/reprogramar", h.handleRescheduleCita).Methods(http.MethodPost)
	agenda.HandleFunc("/fechas-citacion", h.handleCreateFechaCitacion).Methods(http.MethodPost)

	r.HandleFunc("/oficios", h.handleCreateOficio).Methods(http.MethodPost)
	r.HandleFunc("/oficios/{id}", h.handleUpdateOficio).Methods(http.MethodPut)
	r.HandleFunc("/oficios/{id}/respuesta", h.handleAttachOficioResponse).Methods(http.MethodPost)
	r.HandleFunc("/oficios/{id}/finalizar", h.handleFinalizeOficio).Methods(http.MethodPost)

	r.HandleFunc("/radicaciones", h.handleCreateRadicacion).Methods(http.MethodPost)
	r.HandleFunc("/radicaciones/pendientes", h.handleListPendingRadicaciones).Methods(http.MethodGet)
	r.HandleFunc("/radicaciones/vencidas", h.handleListOverdueRadicaciones).Methods(http.MethodGet)
	r.HandleFunc("/radicaciones/{id}/devolver", h.handleReturnRadicacion).Methods(http.MethodPost)

	r.HandleFunc("/legajos", h.handleSearchLegajos).Methods(http.MethodGet)
	r.HandleFunc("/legajos", h.handleCreateLegajo).Methods(http.MethodPost)
	r.HandleFunc("/legajos/{id}", h.handleUpdateLegajo).Methods(http.MethodPut)
	r.HandleFunc("/legajos/{id}", h.handleDeleteLegajo).Methods(http.MethodDelete)
	r.HandleFunc("/legajos/{id}/activo", h.handleSetLegajoActive).Methods(http.MethodPost)

	r.HandleFunc("/notificaciones", h.handleListNotifications).Methods(http.MethodGet)
	r.HandleFunc("/notificaciones/leer-todas", h.handleMarkAllNotificationsRead).Methods(http.MethodPost)
	r.HandleFunc("/notificaciones/{id}/leer", h.handleMarkNotificationRead).Methods(http.MethodPost)
}

// pathID returns the {id} route variable.
func pathID(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["id"])
}

// pageParams parses optional page and size query parameters.
func pageParams(r *http.Request) (int, int, error) {
	page, err := intQuery(r, "page")
	if err != nil {
		return 0, 0, err
	}
	size, err := intQuery(r, "size")
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

// intQuery parses one optional integer query parameter.
func intQuery(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidRequest, name)
	}
	return v, nil
}

// boolQuery parses one optional boolean query parameter.
func boolQuery(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", errInvalidRequest, name)
	}
	return v, nil
}

// timeQuery parses one optional RFC3339 or YYYY-MM-DD query parameter.
// With endOfDay set a date-only value resolves to the last instant of that day.
func timeQuery(r *http.Request, name string, endOfDay bool) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD", errInvalidRequest, name)
	}
	if endOfDay {
		ts = ts.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return ts.UTC(), nil
}

// invalidRequest marks err as a client input failure.
func invalidRequest(err error) error {
	return fmt.Errorf("%w: %w", errInvalidRequest, err)
}

// writeErrorFrom maps service and domain errors into structured HTTP responses.
func (h *Handler) writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{Code: "internal_error", Message: "unknown error"})
	case errors.Is(err, app.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{Code: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrSignatureWindowClosed):
		writeJSONError(w, http.StatusConflict, APIError{
			Code:    "signature_window_closed",
			Message: err.Error(),
			Hint:    "Signatures can only be reverted within 24 hours.",
		})
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotEditable),
		errors.Is(err, domain.ErrOpenTramiteExists),
		errors.Is(err, domain.ErrTramiteFinalized),
		errors.Is(err, domain.ErrOficioFinalized),
		errors.Is(err, domain.ErrRadicacionReturned),
		errors.Is(err, domain.ErrLegajoInactive):
		writeJSONError(w, http.StatusConflict, APIError{Code: "conflict", Message: err.Error()})
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, app.ErrInvalidPage),
		errors.Is(err, app.ErrInvalidSnapshot),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidOffice),
		errors.Is(err, domain.ErrInvalidReference),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidActuacionType),
		errors.Is(err, domain.ErrInvalidActor),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidAttachment),
		errors.Is(err, domain.ErrInvalidDocumentNumber):
		writeJSONError(w, http.StatusBadRequest, APIError{Code: "invalid_request", Message: err.Error()})
	default:
		h.logger.Error("request failed", "err", err)
		writeJSONError(w, http.StatusInternalServerError, APIError{Code: "internal_error", Message: err.Error()})
	}
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(errInvalidRequest, err))
	}
	// Reject trailing payloads so malformed JSON bodies fail closed.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", errInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}

// decodeOptionalJSONBody decodes one optional JSON body and ignores empty payloads.
func decodeOptionalJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(out)
	if err == nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("request canceled: %w", ctx.Err())
		default:
			return nil
		}
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("decode request body: %w", errors.Join(errInvalidRequest, err))
}
