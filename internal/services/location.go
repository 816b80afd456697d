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

type LocationService struct {
	q Querier
}

func NewLocationService(q Querier) *LocationService {
	return &LocationService{q: q}
}

func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	rows, err := s.q.SelectAll(ctx, schema.Locations)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return mapRows(rows, locationFromRow)
}

func (s *LocationService) ListByCustomer(ctx context.Context, customerID string) ([]models.Location, error) {
	rows, err := s.q.SelectFiltered(ctx, schema.Locations, store.Eq("customer_id", customerID))
	if err != nil {
		return nil, fmt.Errorf("failed to list locations of customer %s: %w", customerID, err)
	}
	return mapRows(rows, locationFromRow)
}

func (s *LocationService) Create(ctx context.Context, req models.LocationCreate) (*models.Location, error) {
	values := store.Row{"name": req.Name}
	setIfPresent(values, "description", req.Description)
	setIfPresent(values, "country", req.Country)
	setIfPresent(values, "iso3", req.ISO3)
	setIfPresent(values, "customer_id", req.CustomerID)

	geoms := []struct {
		col string
		in  *models.GeometryInput
	}{
		{"coords", req.Coords},
		{"countrycoords", req.CountryCoords},
	}
	for _, g := range geoms {
		if g.in == nil || *g.in == "" {
			continue
		}
		geom, err := geometry.EncodeFromWKTOrGeoJSON(g.in.String(), schema.ShapeGeometry)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g.col, err)
		}
		values[g.col] = geom
	}

	return insertAndRead(ctx, s.q, schema.Locations, values, locationFromRow)
}

func locationFromRow(row store.Row) (models.Location, error) {
	rec, err := mapper.New(schema.Locations, row)
	if err != nil {
		return models.Location{}, err
	}

	var customerID *string
	if id := rec.OptUUID("customer_id"); id != nil {
		s := id.String()
		customerID = &s
	}

	l := models.Location{
		ID:            rec.Int64("id"),
		Name:          rec.String("name"),
		Description:   rec.OptString("description"),
		Country:       rec.OptString("country"),
		ISO3:          rec.OptString("iso3"),
		CustomerID:    customerID,
		Coords:        rec.OptGeometry("coords"),
		CountryCoords: rec.OptGeometry("countrycoords"),
	}
	return l, rec.Err()
}
