package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eps-portal/internal/apperrors"
	"eps-portal/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubAOIService struct {
	list   func(models.AOIFilter) ([]models.AOI, error)
	get    func(int64) (*models.AOI, error)
	match  func(string, int64, string) (*models.AOI, error)
	create func(models.AOICreate) (*models.AOI, error)
}

func (s *stubAOIService) List(_ context.Context, f models.AOIFilter) ([]models.AOI, error) {
	return s.list(f)
}
func (s *stubAOIService) Get(_ context.Context, id int64) (*models.AOI, error) { return s.get(id) }
func (s *stubAOIService) Match(_ context.Context, c string, id int64, country string) (*models.AOI, error) {
	return s.match(c, id, country)
}
func (s *stubAOIService) Create(_ context.Context, req models.AOICreate) (*models.AOI, error) {
	return s.create(req)
}

type stubVesselService struct {
	updated models.VesselUpdate
	deleted int64
	err     error
}

func (s *stubVesselService) List(context.Context) ([]models.Vessel, error) {
	return []models.Vessel{}, s.err
}
func (s *stubVesselService) Get(_ context.Context, id int64) (*models.Vessel, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Vessel{ID: id, Name: "Aurora"}, nil
}
func (s *stubVesselService) ListByLocation(context.Context, int64) ([]models.Vessel, error) {
	return nil, s.err
}
func (s *stubVesselService) Create(_ context.Context, req models.VesselCreate) (*models.Vessel, error) {
	return &models.Vessel{ID: 1, Name: req.Name}, s.err
}
func (s *stubVesselService) Update(_ context.Context, id int64, req models.VesselUpdate) (*models.Vessel, error) {
	s.updated = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Vessel{ID: id, Name: *req.Name}, nil
}
func (s *stubVesselService) Delete(_ context.Context, id int64) error {
	s.deleted = id
	return s.err
}

type stubNDVIService struct {
	filter models.StatsFilter
}

func (s *stubNDVIService) List(context.Context) ([]models.NDVIStatistic, error) { return nil, nil }
func (s *stubNDVIService) Filter(_ context.Context, f models.StatsFilter) ([]models.NDVIStatistic, error) {
	s.filter = f
	return []models.NDVIStatistic{}, nil
}
func (s *stubNDVIService) Create(context.Context, models.NDVIStatsCreate) (*models.NDVIStatistic, error) {
	return nil, nil
}
func (s *stubNDVIService) Derive(_ context.Context, req models.NDVIDerive) (*models.NDVIStatistic, error) {
	return &models.NDVIStatistic{ID: 1, AOIID: req.AOIID, Date: req.Date, MedianNDVI: 0.5}, nil
}
func (s *stubNDVIService) AOI(_ context.Context, id int64) (*models.AOI, error) {
	return nil, fmt.Errorf("%w: aoi %d", apperrors.ErrNotFound, id)
}

type stubAlgaeService struct {
	listedAOIs bool
}

func (s *stubAlgaeService) List(context.Context) ([]models.AlgaeStatistic, error) { return nil, nil }
func (s *stubAlgaeService) Filter(context.Context, models.StatsFilter) ([]models.AlgaeStatistic, error) {
	return []models.AlgaeStatistic{}, nil
}
func (s *stubAlgaeService) Create(context.Context, models.AlgaeStatsCreate) (*models.AlgaeStatistic, error) {
	return nil, nil
}
func (s *stubAlgaeService) AOIs(context.Context) ([]models.AOI, error) {
	s.listedAOIs = true
	return []models.AOI{{ID: 1, Name: "Gulf"}, {ID: 2, Name: "Delta"}}, nil
}
func (s *stubAlgaeService) AOI(_ context.Context, id int64) (*models.AOI, error) {
	if id == 2 {
		return &models.AOI{ID: 2, Name: "Delta"}, nil
	}
	return nil, fmt.Errorf("%w: aoi %d", apperrors.ErrNotFound, id)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAOIHandler_ListByID(t *testing.T) {
	svc := &stubAOIService{
		get: func(id int64) (*models.AOI, error) {
			if id == 7 {
				return &models.AOI{ID: 7, Name: "Gulf", ServiceIDs: []int64{1, 2}}, nil
			}
			return nil, fmt.Errorf("%w: aoi %d", apperrors.ErrNotFound, id)
		},
	}
	h := NewAOIHandler(svc, zap.NewNop())

	rec := serve(t, http.MethodGet, "/aoi", "/aoi?id=7", "", h.List)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Gulf", decodeBody(t, rec)["name"])

	rec = serve(t, http.MethodGet, "/aoi", "/aoi?id=8", "", h.List)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["detail"], "not found")
}

func TestAOIHandler_ListFilters(t *testing.T) {
	var got models.AOIFilter
	svc := &stubAOIService{
		list: func(f models.AOIFilter) ([]models.AOI, error) {
			got = f
			return []models.AOI{}, nil
		},
	}
	h := NewAOIHandler(svc, zap.NewNop())

	rec := serve(t, http.MethodGet, "/aoi",
		"/aoi?customer_id=7F1B2C3D-0000-4000-8000-000000000001&service_id=99&country=GH", "", h.List)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, "7f1b2c3d-0000-4000-8000-000000000001", *got.CustomerID)
	require.NotNil(t, got.ServiceID)
	assert.Equal(t, int64(99), *got.ServiceID)
	require.NotNil(t, got.Country)
	assert.Equal(t, "GH", *got.Country)
}

func TestAOIHandler_BadQuery(t *testing.T) {
	h := NewAOIHandler(&stubAOIService{}, zap.NewNop())

	tests := []struct {
		name   string
		target string
		h      http.HandlerFunc
		path   string
	}{
		{"non numeric id", "/aoi?id=abc", h.List, "/aoi"},
		{"bad customer uuid", "/aoi?customer_id=nope", h.List, "/aoi"},
		{"match missing country", "/aoi/match?customer_id=7f1b2c3d-0000-4000-8000-000000000001&service_id=1", h.Match, "/aoi/match"},
		{"match missing service", "/aoi/match?customer_id=7f1b2c3d-0000-4000-8000-000000000001&country=GH", h.Match, "/aoi/match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, http.MethodGet, tt.path, tt.target, "", tt.h)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestAOIHandler_Create(t *testing.T) {
	var got models.AOICreate
	svc := &stubAOIService{
		create: func(req models.AOICreate) (*models.AOI, error) {
			got = req
			return &models.AOI{ID: 1, Name: req.Name, ServiceIDs: req.ServiceIDs}, nil
		},
	}
	h := NewAOIHandler(svc, zap.NewNop())

	body := `{"name":"Bay","geom":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},
		"customer_id":"7f1b2c3d-0000-4000-8000-000000000001","country":"GH","service_ids":[1,2]}`
	rec := serve(t, http.MethodPost, "/aoi", "/aoi", body, h.Create)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1, 2}, got.ServiceIDs)
	assert.True(t, strings.HasPrefix(got.Geom.String(), `{"type":"Polygon"`))
	assert.Equal(t, float64(1), decodeBody(t, rec)["id"])
}

func TestAOIHandler_CreateRejected(t *testing.T) {
	svc := &stubAOIService{
		create: func(models.AOICreate) (*models.AOI, error) {
			return nil, fmt.Errorf("%w: latitude 95 out of range", apperrors.ErrMalformedGeometry)
		},
	}
	h := NewAOIHandler(svc, zap.NewNop())

	t.Run("malformed json", func(t *testing.T) {
		rec := serve(t, http.MethodPost, "/aoi", "/aoi", `{"name":`, h.Create)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("field errors listed", func(t *testing.T) {
		rec := serve(t, http.MethodPost, "/aoi", "/aoi", `{"name":"","customer_id":"x"}`, h.Create)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		detail, ok := decodeBody(t, rec)["detail"].([]interface{})
		require.True(t, ok, "detail should be a list of field errors")

		fields := map[string]bool{}
		for _, d := range detail {
			fields[d.(map[string]interface{})["field"].(string)] = true
		}
		assert.True(t, fields["name"])
		assert.True(t, fields["customer_id"])
		assert.True(t, fields["geom"])
	})

	t.Run("malformed geometry", func(t *testing.T) {
		body := `{"name":"Bay","geom":"POLYGON((0 95, 1 95, 1 96, 0 95))","customer_id":"7f1b2c3d-0000-4000-8000-000000000001","country":"GH"}`
		rec := serve(t, http.MethodPost, "/aoi", "/aoi", body, h.Create)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["detail"], "malformed geometry")
	})
}

func TestVesselHandler_PathIDs(t *testing.T) {
	svc := &stubVesselService{}
	h := NewVesselHandler(svc, zap.NewNop())

	for _, id := range []string{"abc", "0", "-3"} {
		rec := serve(t, http.MethodGet, "/by-id/{id}", "/by-id/"+id, "", h.Get)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, id)
	}

	rec := serve(t, http.MethodGet, "/by-id/{id}", "/by-id/12", "", h.Get)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(12), decodeBody(t, rec)["id"])
}

func TestVesselHandler_PartialUpdate(t *testing.T) {
	svc := &stubVesselService{}
	h := NewVesselHandler(svc, zap.NewNop())

	rec := serve(t, http.MethodPut, "/{id}", "/4", `{"name":"X"}`, h.Update)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updated.Name)
	assert.Equal(t, "X", *svc.updated.Name)
	assert.Nil(t, svc.updated.Type)
	assert.Nil(t, svc.updated.Geom)
	assert.Nil(t, svc.updated.AOIID)
}

func TestVesselHandler_Delete(t *testing.T) {
	svc := &stubVesselService{}
	h := NewVesselHandler(svc, zap.NewNop())

	rec := serve(t, http.MethodDelete, "/{id}", "/5", "", h.Delete)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.deleted)
	assert.Equal(t, "Vessel deleted successfully", decodeBody(t, rec)["message"])

	svc.err = fmt.Errorf("%w: vessel 5", apperrors.ErrNotFound)
	rec = serve(t, http.MethodDelete, "/{id}", "/5", "", h.Delete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteError_LogsServerFaults(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := &stubVesselService{err: fmt.Errorf("%w: connection refused", apperrors.ErrStoreUnavailable)}
	h := NewVesselHandler(svc, zap.New(core))

	rec := serve(t, http.MethodGet, "/", "/", "", h.List)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["detail"], "store unavailable")

	errorLogs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errorLogs, 1)
	assert.Equal(t, "request failed", errorLogs[0].Message)
	assert.Equal(t, int64(http.StatusInternalServerError), errorLogs[0].ContextMap()["status"])

	svc.err = fmt.Errorf("%w: vessel 1", apperrors.ErrNotFound)
	serve(t, http.MethodGet, "/", "/", "", h.List)
	assert.Len(t, logs.FilterLevelExact(zapcore.ErrorLevel).All(), 1, "client errors are not logged as errors")
	assert.Len(t, logs.FilterLevelExact(zapcore.DebugLevel).All(), 1)
}

func TestNDVIHandler_StatsFilter(t *testing.T) {
	svc := &stubNDVIService{}
	h := NewNDVIHandler(svc, zap.NewNop())

	rec := serve(t, http.MethodGet, "/stats", "/stats?aoi_id=3&date=2024-05-01T10:00:00Z", "", h.Stats)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.AOIID)
	assert.Equal(t, int64(3), *svc.filter.AOIID)
	require.NotNil(t, svc.filter.Date)
	assert.Equal(t, "2024-05-01", *svc.filter.Date)

	rec = serve(t, http.MethodGet, "/stats", "/stats?date=yesterday", "", h.Stats)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNDVIHandler_Derive(t *testing.T) {
	h := NewNDVIHandler(&stubNDVIService{}, zap.NewNop())

	rec := serve(t, http.MethodPost, "/", "/", `{"aoi_id":2,"date":"2024-05-01","values":[0.1,0.5,0.9]}`, h.Derive)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["aoi_id"])

	rec = serve(t, http.MethodPost, "/", "/", `{"aoi_id":2,"date":"2024-05-01","values":[1.5]}`, h.Derive)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(t, http.MethodPost, "/", "/", `{"aoi_id":2,"date":"2024-05-01","values":[]}`, h.Derive)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNDVIHandler_AOI(t *testing.T) {
	h := NewNDVIHandler(&stubNDVIService{}, zap.NewNop())

	rec := serve(t, http.MethodGet, "/aoi", "/aoi", "", h.AOI)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(t, http.MethodGet, "/aoi", "/aoi?aoi_id=4", "", h.AOI)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlgaeHandler_AOI(t *testing.T) {
	svc := &stubAlgaeService{}
	h := NewAlgaeHandler(svc, zap.NewNop())

	rec := serve(t, http.MethodGet, "/aoi", "/aoi", "", h.AOI)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.listedAOIs)
	var all []models.AOI
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	svc.listedAOIs = false
	rec = serve(t, http.MethodGet, "/aoi", "/aoi?aoi_id=2", "", h.AOI)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.listedAOIs)
	assert.Equal(t, "Delta", decodeBody(t, rec)["name"])

	rec = serve(t, http.MethodGet, "/aoi", "/aoi?aoi_id=9", "", h.AOI)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, http.MethodGet, "/aoi", "/aoi?aoi_id=abc", "", h.AOI)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCustomerHandler_LinkServiceRejectsBadID(t *testing.T) {
	h := NewCustomerHandler(nil, zap.NewNop())

	rec := serve(t, http.MethodPost, "/customer/{id}/services", "/customer/42/services", `{"service_id":1}`, h.LinkService)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	rec := serve(t, http.MethodGet, "/healthz", "/healthz", "", NewHealthHandler(stubPinger{}, zap.NewNop()).Healthz)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = serve(t, http.MethodGet, "/healthz", "/healthz", "", NewHealthHandler(stubPinger{err: errors.New("dial tcp: refused")}, zap.NewNop()).Healthz)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
