package handlers

import (
	"context"
	"net/http"

	"eps-portal/internal/models"
	"eps-portal/internal/utils"

	"go.uber.org/zap"
)

type NDVIService interface {
	List(ctx context.Context) ([]models.NDVIStatistic, error)
	Filter(ctx context.Context, filter models.StatsFilter) ([]models.NDVIStatistic, error)
	Create(ctx context.Context, req models.NDVIStatsCreate) (*models.NDVIStatistic, error)
	Derive(ctx context.Context, req models.NDVIDerive) (*models.NDVIStatistic, error)
	AOI(ctx context.Context, id int64) (*models.AOI, error)
}

type AlgaeService interface {
	List(ctx context.Context) ([]models.AlgaeStatistic, error)
	Filter(ctx context.Context, filter models.StatsFilter) ([]models.AlgaeStatistic, error)
	Create(ctx context.Context, req models.AlgaeStatsCreate) (*models.AlgaeStatistic, error)
	AOIs(ctx context.Context) ([]models.AOI, error)
	AOI(ctx context.Context, id int64) (*models.AOI, error)
}

type NDVIHandler struct {
	service NDVIService
	logr    *zap.Logger
}

func NewNDVIHandler(svc NDVIService, logr *zap.Logger) *NDVIHandler {
	return &NDVIHandler{service: svc, logr: logr}
}

// List handles GET /service/ndvi
func (h *NDVIHandler) List(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Derive handles POST /service/ndvi
// The body carries raw NDVI values; min, max, median and change are computed.
func (h *NDVIHandler) Derive(w http.ResponseWriter, r *http.Request) {
	var req models.NDVIDerive
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	stat, err := h.service.Derive(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, stat)
}

// Stats handles GET /service/ndvi/stats?aoi_id=&date=
func (h *NDVIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filter, err := statsFilter(r)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	stats, err := h.service.Filter(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CreateStats handles POST /service/ndvi/stats
func (h *NDVIHandler) CreateStats(w http.ResponseWriter, r *http.Request) {
	var req models.NDVIStatsCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	stat, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, stat)
}

// AOI handles GET /service/ndvi/aoi?aoi_id=
func (h *NDVIHandler) AOI(w http.ResponseWriter, r *http.Request) {
	aoiLookup(w, r, h.logr, h.service.AOI)
}

type AlgaeHandler struct {
	service AlgaeService
	logr    *zap.Logger
}

func NewAlgaeHandler(svc AlgaeService, logr *zap.Logger) *AlgaeHandler {
	return &AlgaeHandler{service: svc, logr: logr}
}

// List handles GET /service/algae
func (h *AlgaeHandler) List(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Create handles POST /service/algae and POST /service/algae/stats
func (h *AlgaeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.AlgaeStatsCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	stat, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, stat)
}

// Stats handles GET /service/algae/stats?aoi_id=&date=
// date matches every statistic taken on that calendar day.
func (h *AlgaeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filter, err := statsFilter(r)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	stats, err := h.service.Filter(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// AOI handles GET /service/algae/aoi?aoi_id=
// Without aoi_id every AOI is returned.
func (h *AlgaeHandler) AOI(w http.ResponseWriter, r *http.Request) {
	id, err := utils.QueryInt64(r.URL.Query(), "aoi_id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	if id != nil {
		aoiLookup(w, r, h.logr, h.service.AOI)
		return
	}

	aois, err := h.service.AOIs(r.Context())
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, aois)
}

func statsFilter(r *http.Request) (models.StatsFilter, error) {
	q := r.URL.Query()

	var (
		filter models.StatsFilter
		err    error
	)
	if filter.AOIID, err = utils.QueryInt64(q, "aoi_id"); err != nil {
		return filter, err
	}
	if filter.Date, err = utils.QueryDate(q, "date"); err != nil {
		return filter, err
	}
	return filter, nil
}

func aoiLookup(w http.ResponseWriter, r *http.Request, logr *zap.Logger, get func(context.Context, int64) (*models.AOI, error)) {
	id, err := utils.RequiredInt64(r.URL.Query(), "aoi_id")
	if err != nil {
		writeError(w, r, logr, err)
		return
	}

	aoi, err := get(r.Context(), id)
	if err != nil {
		writeError(w, r, logr, err)
		return
	}
	writeJSON(w, http.StatusOK, aoi)
}
