package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nameready/nameready/internal/check"
	"github.com/nameready/nameready/internal/domain"
)

// CheckRequest is the body of POST /api/check.
type CheckRequest struct {
	Name string `json:"name" validate:"required"`
}

// CheckResponse is the uniform response envelope for /api/check.
type CheckResponse struct {
	Success bool                      `json:"success"`
	Results *domain.AggregatedResults `json:"results,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// APIHandler serves the brand-check JSON API.
type APIHandler struct {
	service  *check.Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(service *check.Service, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
	}
}

// RegisterRoutes wires the public routes.
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /api/check", h.Check)
}

// Root is the identity probe.
func (h *APIHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Brand Checker API",
		"status":  "running",
	})
}

// Health is the liveness probe.
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Check runs the aggregation pipeline for one candidate name.
func (h *APIHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("check.request", "No name provided."))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("check.request", "No name provided."))
		return
	}

	results := h.service.Check(r.Context(), req.Name)

	writeJSON(w, http.StatusOK, CheckResponse{
		Success: true,
		Results: &results,
	})
}
