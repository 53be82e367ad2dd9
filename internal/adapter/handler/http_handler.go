package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/fishstock/internal/core/service"
	"github.com/rl1809/fishstock/internal/port"
)

// maxBodyBytes caps a mutation body; one record is a few hundred bytes.
const maxBodyBytes = 1 << 20

type HTTPHandler struct {
	inventory    collection
	transactions collection
	reports      *service.ReportService
	backendKind  string
	health       port.HealthChecker
	logger       logrus.FieldLogger
}

type HealthDB struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type HealthResponse struct {
	Backend string   `json:"backend"`
	DB      HealthDB `json:"db"`
}

func NewHTTPHandler(
	inventory *service.InventoryService,
	transactions *service.TransactionService,
	reports *service.ReportService,
	backendKind string,
	health port.HealthChecker,
	logger logrus.FieldLogger,
) *HTTPHandler {
	return &HTTPHandler{
		inventory:    inventoryCollection{svc: inventory},
		transactions: transactionCollection{svc: transactions},
		reports:      reports,
		backendKind:  backendKind,
		health:       health,
		logger:       logger,
	}
}

func (h *HTTPHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	h.serveCollection(w, r, h.inventory)
}

func (h *HTTPHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	h.serveCollection(w, r, h.transactions)
}

func (h *HTTPHandler) serveCollection(w http.ResponseWriter, r *http.Request, c collection) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)

	case http.MethodGet:
		records, err := c.list(r.Context(), r.URL.Query())
		if err != nil {
			h.writeError(w, r, c.name(), err)
			return
		}
		writeJSON(w, http.StatusOK, records)

	case http.MethodPost:
		var req MutationRequest
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: msgBodyTooLarge})
				return
			}
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
			return
		}

		result, err := dispatch(r.Context(), c, req)
		if err != nil {
			h.writeError(w, r, c.name(), err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: msgMethodForbidden})
	}
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: msgMethodForbidden})
		return
	}
	writeJSON(w, http.StatusOK, h.healthStatus(r.Context()))
}

func (h *HTTPHandler) healthStatus(ctx context.Context) HealthResponse {
	resp := HealthResponse{Backend: h.backendKind, DB: HealthDB{OK: true}}
	if err := h.health.Ping(ctx); err != nil {
		resp.DB = HealthDB{OK: false, Error: err.Error()}
	}
	return resp
}

func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: msgMethodForbidden})
		return
	}

	summary, err := h.reports.Summary(r.Context())
	if err != nil {
		h.writeError(w, r, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, name string, err error) {
	if isBadRequest(err) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"collection": name,
		"request_id": RequestIDFrom(r.Context()),
	}).WithError(err).Error("backend failure")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
