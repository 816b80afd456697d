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

type AOIService struct {
	q Querier
}

func NewAOIService(q Querier) *AOIService {
	return &AOIService{q: q}
}

// List returns the AOIs matching every set field of filter.
func (s *AOIService) List(ctx context.Context, filter models.AOIFilter) ([]models.AOI, error) {
	var preds []store.Predicate
	if filter.ID != nil {
		preds = append(preds, store.Eq("id", *filter.ID))
	}
	if filter.CustomerID != nil {
		preds = append(preds, store.Eq("customer_id", *filter.CustomerID))
	}
	if filter.Country != nil {
		preds = append(preds, store.Eq("country", *filter.Country))
	}
	if filter.ServiceID != nil {
		preds = append(preds, store.Contains("service_ids", *filter.ServiceID))
	}

	rows, err := s.q.SelectFiltered(ctx, schema.AOIs, preds...)
	if err != nil {
		return nil, fmt.Errorf("failed to list aois: %w", err)
	}
	return mapRows(rows, aoiFromRow)
}

func (s *AOIService) Get(ctx context.Context, id int64) (*models.AOI, error) {
	return getByID(ctx, s.q, schema.AOIs, id, aoiFromRow)
}

// Match returns the first AOI of the customer in country whose service list
// contains serviceID. Which one is returned among several is unspecified.
func (s *AOIService) Match(ctx context.Context, customerID string, serviceID int64, country string) (*models.AOI, error) {
	aois, err := s.List(ctx, models.AOIFilter{
		CustomerID: &customerID,
		ServiceID:  &serviceID,
		Country:    &country,
	})
	if err != nil {
		return nil, err
	}
	if len(aois) == 0 {
		return nil, notFound(schema.AOIs, fmt.Sprintf("for customer %s, service %d, country %s", customerID, serviceID, country))
	}
	return &aois[0], nil
}

func (s *AOIService) Create(ctx context.Context, req models.AOICreate) (*models.AOI, error) {
	geom, err := geometry.EncodeFromWKTOrGeoJSON(req.Geom.String(), schema.ShapePolygon)
	if err != nil {
		return nil, err
	}

	values := store.Row{
		"name":        req.Name,
		"geom":        geom,
		"customer_id": req.CustomerID,
		"country":     req.Country,
	}
	if req.ServiceIDs != nil {
		values["service_ids"] = req.ServiceIDs
	}

	return insertAndRead(ctx, s.q, schema.AOIs, values, aoiFromRow)
}

func aoiFromRow(row store.Row) (models.AOI, error) {
	rec, err := mapper.New(schema.AOIs, row)
	if err != nil {
		return models.AOI{}, err
	}
	a := models.AOI{
		ID:         rec.Int64("id"),
		Name:       rec.String("name"),
		Geom:       rec.Geometry("geom"),
		CustomerID: rec.UUID("customer_id").String(),
		Country:    rec.String("country"),
		ServiceIDs: rec.IntSlice("service_ids"),
	}
	return a, rec.Err()
}
