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

type OilSlickService struct {
	q Querier
}

func NewOilSlickService(q Querier) *OilSlickService {
	return &OilSlickService{q: q}
}

func (s *OilSlickService) List(ctx context.Context) ([]models.OilSlick, error) {
	rows, err := s.q.SelectAll(ctx, schema.OilSlicks)
	if err != nil {
		return nil, fmt.Errorf("failed to list oil slicks: %w", err)
	}
	return mapRows(rows, oilSlickFromRow)
}

func (s *OilSlickService) Get(ctx context.Context, id int64) (*models.OilSlick, error) {
	return getByID(ctx, s.q, schema.OilSlicks, id, oilSlickFromRow)
}

func (s *OilSlickService) Create(ctx context.Context, req models.OilSlickCreate) (*models.OilSlick, error) {
	geom, err := geometry.EncodeFromWKTOrGeoJSON(req.Geom.String(), schema.ShapePolygon)
	if err != nil {
		return nil, err
	}

	values := store.Row{
		"type": req.Type,
		"geom": geom,
	}
	setIfPresent(values, "source_vessel", req.SourceVessel)
	setIfPresent(values, "certainty_percentage", req.CertaintyPercentage)

	return insertAndRead(ctx, s.q, schema.OilSlicks, values, oilSlickFromRow)
}

func (s *OilSlickService) Delete(ctx context.Context, id int64) error {
	n, err := s.q.Delete(ctx, schema.OilSlicks, id)
	if err != nil {
		return fmt.Errorf("failed to delete oil slick %d: %w", id, err)
	}
	if n == 0 {
		return notFound(schema.OilSlicks, id)
	}
	return nil
}

func oilSlickFromRow(row store.Row) (models.OilSlick, error) {
	rec, err := mapper.New(schema.OilSlicks, row)
	if err != nil {
		return models.OilSlick{}, err
	}
	o := models.OilSlick{
		ID:                  rec.Int64("id"),
		Type:                rec.String("type"),
		SourceVessel:        rec.OptString("source_vessel"),
		CertaintyPercentage: rec.OptInt64("certainty_percentage"),
		Geom:                rec.Geometry("geom"),
	}
	return o, rec.Err()
}
