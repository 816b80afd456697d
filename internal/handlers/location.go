package handlers

import (
	"context"
	"net/http"

	"eps-portal/internal/models"

	"go.uber.org/zap"
)

type LocationService interface {
	List(ctx context.Context) ([]models.Location, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Location, error)
	Create(ctx context.Context, req models.LocationCreate) (*models.Location, error)
}

type LocationHandler struct {
	service LocationService
	logr    *zap.Logger
}

func NewLocationHandler(svc LocationService, logr *zap.Logger) *LocationHandler {
	return &LocationHandler{service: svc, logr: logr}
}

// List handles GET /locations
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

// ListByCustomer handles GET /locations/customer/{customer_id}
func (h *LocationHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathUUID(r, "customer_id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	locations, err := h.service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

// Create handles POST /locations
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.LocationCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	location, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}
