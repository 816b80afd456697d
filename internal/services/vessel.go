package services

import (
	"context"
	"fmt"

	"eps-portal/internal/geometry"
	"eps-portal/internal/mapper"
	"eps-portal/internal/models"
	"eps-portal/internal/schema"
	"eps-portal/internal/store"
)

type VesselService struct {
	q Querier
}

func NewVesselService(q Querier) *VesselService {
	return &VesselService{q: q}
}

func (s *VesselService) List(ctx context.Context) ([]models.Vessel, error) {
	rows, err := s.q.SelectAll(ctx, schema.Vessels)
	if err != nil {
		return nil, fmt.Errorf("failed to list vessels: %w", err)
	}
	return mapRows(rows, vesselFromRow)
}

func (s *VesselService) Get(ctx context.Context, id int64) (*models.Vessel, error) {
	return getByID(ctx, s.q, schema.Vessels, id, vesselFromRow)
}

// ListByLocation returns the vessels detected at a location. A location
// without vessels is reported as not found.
func (s *VesselService) ListByLocation(ctx context.Context, locationID int64) ([]models.Vessel, error) {
	rows, err := s.q.SelectFiltered(ctx, schema.Vessels, store.Eq("location_id", locationID))
	if err != nil {
		return nil, fmt.Errorf("failed to list vessels for location %d: %w", locationID, err)
	}
	if len(rows) == 0 {
		return nil, notFound(schema.Vessels, fmt.Sprintf("for location %d", locationID))
	}
	return mapRows(rows, vesselFromRow)
}

func (s *VesselService) Create(ctx context.Context, req models.VesselCreate) (*models.Vessel, error) {
	geom, err := geometry.EncodeFromWKTOrGeoJSON(req.Geom.String(), schema.ShapePoint)
	if err != nil {
		return nil, err
	}

	values := store.Row{
		"name":   req.Name,
		"geom":   geom,
		"aoi_id": req.AOIID,
	}
	setIfPresent(values, "type", req.Type)
	setIfPresent(values, "classification", req.Classification)
	setIfPresent(values, "certainty", req.Certainty)
	setIfPresent(values, "certainty_percentage", req.CertaintyPercentage)
	setIfPresent(values, "location_id", req.LocationID)
	setIfPresent(values, "order_date", req.OrderDate)

	return insertAndRead(ctx, s.q, schema.Vessels, values, vesselFromRow)
}

// Update overwrites the fields set in req and leaves the others unchanged.
// The read and the write are separate statements; a vessel deleted in
// between is reported as not found.
func (s *VesselService) Update(ctx context.Context, id int64, req models.VesselUpdate) (*models.Vessel, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	values := store.Row{}
	setIfPresent(values, "name", req.Name)
	setIfPresent(values, "type", req.Type)
	setIfPresent(values, "classification", req.Classification)
	setIfPresent(values, "certainty", req.Certainty)
	setIfPresent(values, "certainty_percentage", req.CertaintyPercentage)
	setIfPresent(values, "aoi_id", req.AOIID)
	setIfPresent(values, "location_id", req.LocationID)
	setIfPresent(values, "order_date", req.OrderDate)
	if req.Geom != nil {
		geom, err := geometry.EncodeFromWKTOrGeoJSON(req.Geom.String(), schema.ShapePoint)
		if err != nil {
			return nil, err
		}
		values["geom"] = geom
	}

	if len(values) == 0 {
		return existing, nil
	}

	n, err := s.q.Update(ctx, schema.Vessels, id, values)
	if err != nil {
		return nil, fmt.Errorf("failed to update vessel %d: %w", id, err)
	}
	if n == 0 {
		return nil, notFound(schema.Vessels, id)
	}
	return s.Get(ctx, id)
}

func (s *VesselService) Delete(ctx context.Context, id int64) error {
	n, err := s.q.Delete(ctx, schema.Vessels, id)
	if err != nil {
		return fmt.Errorf("failed to delete vessel %d: %w", id, err)
	}
	if n == 0 {
		return notFound(schema.Vessels, id)
	}
	return nil
}

func vesselFromRow(row store.Row) (models.Vessel, error) {
	rec, err := mapper.New(schema.Vessels, row)
	if err != nil {
		return models.Vessel{}, err
	}
	v := models.Vessel{
		ID:                  rec.Int64("id"),
		Name:                rec.String("name"),
		Type:                rec.OptString("type"),
		Classification:      rec.OptString("classification"),
		Certainty:           rec.OptString("certainty"),
		CertaintyPercentage: rec.OptFloat64("certainty_percentage"),
		Geom:                rec.Geometry("geom"),
		AOIID:               rec.Int64("aoi_id"),
		LocationID:          rec.OptInt64("location_id"),
		OrderDate:           rec.OptDate("order_date"),
	}
	return v, rec.Err()
}

// setIfPresent adds col to values when v is a non-nil pointer.
func setIfPresent[T any](values store.Row, col string, v *T) {
	if v != nil {
		values[col] = *v
	}
}
