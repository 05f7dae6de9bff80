package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dejobratic/sharedorders/internal/orders/app"
	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

// DefaultPath is the single resource path the shared list is served on.
const DefaultPath = "/api/shared-data"

const (
	maxBodyBytes      = 1 << 20
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
)

// Handler exposes the shared order list over HTTP.
type Handler struct {
	service *app.Service
	logger  *slog.Logger
	path    string
}

// NewHandler constructs a Handler serving on path, or DefaultPath when empty.
func NewHandler(service *app.Service, logger *slog.Logger, path string) *Handler {
	if path == "" {
		path = DefaultPath
	}
	return &Handler{service: service, logger: logger, path: path}
}

// Register binds the list endpoints and the JSON fallbacks for unknown
// routes and methods.
func (h *Handler) Register(r chi.Router) {
	r.Get(h.path, h.listOrders)
	r.Post(h.path, h.appendOrder)
	r.Patch(h.path, h.updateOrder)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items})
}

func (h *Handler) appendOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	idemKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if idemKey != "" {
		stored, err := h.service.GetIdempotentResponse(ctx, idemKey)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to read idempotency key", "error", err)
			writeError(w, http.StatusInternalServerError, "idempotency store unavailable")
			return
		}
		if stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(replayedHeader, "true")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}
	}

	var input domain.NewOrder
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.AppendOrder(ctx, input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	body, err := json.Marshal(envelope{Success: true, Data: item})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if idemKey != "" {
		// The append is already stored, so a failed save only costs the replay.
		stored := ports.StoredResponse{StatusCode: http.StatusCreated, Body: body, ItemID: item.ID}
		if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			h.logger.WarnContext(ctx, "failed to save idempotency key", "error", err, "order_id", item.ID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var patch domain.Patch
	if err := decodeBody(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.UpdateOrder(r.Context(), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: item})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid JSON payload")
	}
	return nil
}

// writeServiceError maps the error taxonomy onto status codes. Store faults
// are logged and reported without their internal detail.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch ports.Kind(err) {
	case ports.KindInvalidInput:
		writeError(w, http.StatusBadRequest, err.Error())
	case ports.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, ports.ErrUnavailable.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}
