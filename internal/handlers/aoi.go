package handlers

import (
	"context"
	"net/http"

	"eps-portal/internal/models"
	"eps-portal/internal/utils"

	"go.uber.org/zap"
)

type AOIService interface {
	List(ctx context.Context, filter models.AOIFilter) ([]models.AOI, error)
	Get(ctx context.Context, id int64) (*models.AOI, error)
	Match(ctx context.Context, customerID string, serviceID int64, country string) (*models.AOI, error)
	Create(ctx context.Context, req models.AOICreate) (*models.AOI, error)
}

type AOIHandler struct {
	service AOIService
	logr    *zap.Logger
}

func NewAOIHandler(svc AOIService, logr *zap.Logger) *AOIHandler {
	return &AOIHandler{service: svc, logr: logr}
}

// List handles GET /aoi
// With ?id= it returns that AOI or 404; otherwise the AOIs matching the
// optional customer_id, service_id and country filters.
func (h *AOIHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	id, err := utils.QueryInt64(q, "id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	if id != nil {
		aoi, err := h.service.Get(ctx, *id)
		if err != nil {
			writeError(w, r, h.logr, err)
			return
		}
		writeJSON(w, http.StatusOK, aoi)
		return
	}

	var filter models.AOIFilter
	if filter.CustomerID, err = utils.QueryUUID(q, "customer_id"); err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	if filter.ServiceID, err = utils.QueryInt64(q, "service_id"); err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	filter.Country = utils.QueryString(q, "country")

	aois, err := h.service.List(ctx, filter)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, aois)
}

// Match handles GET /aoi/match?customer_id=&service_id=&country=
func (h *AOIHandler) Match(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	customerID, err := utils.RequiredUUID(q, "customer_id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	serviceID, err := utils.RequiredInt64(q, "service_id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	country, err := utils.RequiredString(q, "country")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	aoi, err := h.service.Match(r.Context(), customerID, serviceID, country)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, aoi)
}

// Create handles POST /aoi
func (h *AOIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.AOICreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	aoi, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, aoi)
}
