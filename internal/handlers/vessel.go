package handlers

import (
	"context"
	"net/http"

	"eps-portal/internal/models"

	"go.uber.org/zap"
)

type VesselService interface {
	List(ctx context.Context) ([]models.Vessel, error)
	Get(ctx context.Context, id int64) (*models.Vessel, error)
	ListByLocation(ctx context.Context, locationID int64) ([]models.Vessel, error)
	Create(ctx context.Context, req models.VesselCreate) (*models.Vessel, error)
	Update(ctx context.Context, id int64, req models.VesselUpdate) (*models.Vessel, error)
	Delete(ctx context.Context, id int64) error
}

type VesselHandler struct {
	service VesselService
	logr    *zap.Logger
}

func NewVesselHandler(svc VesselService, logr *zap.Logger) *VesselHandler {
	return &VesselHandler{service: svc, logr: logr}
}

// List handles GET /service/vessels
func (h *VesselHandler) List(w http.ResponseWriter, r *http.Request) {
	vessels, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, vessels)
}

// Get handles GET /service/vessels/by-id/{id}
func (h *VesselHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	vessel, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, vessel)
}

// ListByLocation handles GET /service/vessels/by-location/{location_id}
func (h *VesselHandler) ListByLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := pathInt64(r, "location_id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	vessels, err := h.service.ListByLocation(r.Context(), locationID)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, vessels)
}

// Create handles POST /service/vessels
func (h *VesselHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.VesselCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	vessel, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, vessel)
}

// Update handles PUT /service/vessels/{id}
// Only the fields present in the body are changed.
func (h *VesselHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	var req models.VesselUpdate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	vessel, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, vessel)
}

// Delete handles DELETE /service/vessels/{id}
func (h *VesselHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Vessel deleted successfully"})
}
