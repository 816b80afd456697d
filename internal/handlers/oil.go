package handlers

import (
	"context"
	"net/http"

	"eps-portal/internal/models"

	"go.uber.org/zap"
)

type OilSlickService interface {
	List(ctx context.Context) ([]models.OilSlick, error)
	Get(ctx context.Context, id int64) (*models.OilSlick, error)
	Create(ctx context.Context, req models.OilSlickCreate) (*models.OilSlick, error)
	Delete(ctx context.Context, id int64) error
}

type OilSlickHandler struct {
	service OilSlickService
	logr    *zap.Logger
}

func NewOilSlickHandler(svc OilSlickService, logr *zap.Logger) *OilSlickHandler {
	return &OilSlickHandler{service: svc, logr: logr}
}

func (h *OilSlickHandler) List(w http.ResponseWriter, r *http.Request) {
	slicks, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, slicks)
}

func (h *OilSlickHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	slick, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, slick)
}

func (h *OilSlickHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.OilSlickCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	slick, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, slick)
}

func (h *OilSlickHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Oil slick deleted successfully"})
}
