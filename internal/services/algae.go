package services

import (
	"context"
	"fmt"

	"eps-portal/internal/mapper"
	"eps-portal/internal/models"
	"eps-portal/internal/schema"
	"eps-portal/internal/store"
)

type AlgaeService struct {
	q Querier
}

func NewAlgaeService(q Querier) *AlgaeService {
	return &AlgaeService{q: q}
}

func (s *AlgaeService) List(ctx context.Context) ([]models.AlgaeStatistic, error) {
	rows, err := s.q.SelectAll(ctx, schema.AlgaeStatistics)
	if err != nil {
		return nil, fmt.Errorf("failed to list algae statistics: %w", err)
	}
	return mapRows(rows, algaeFromRow)
}

// Filter returns the statistics of an AOI and/or those taken on a calendar
// day.
func (s *AlgaeService) Filter(ctx context.Context, filter models.StatsFilter) ([]models.AlgaeStatistic, error) {
	var preds []store.Predicate
	if filter.AOIID != nil {
		preds = append(preds, store.Eq("aoi", *filter.AOIID))
	}
	if filter.Date != nil {
		preds = append(preds, store.DateEq("datetime", *filter.Date))
	}

	rows, err := s.q.SelectFiltered(ctx, schema.AlgaeStatistics, preds...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter algae statistics: %w", err)
	}
	return mapRows(rows, algaeFromRow)
}

func (s *AlgaeService) Create(ctx context.Context, req models.AlgaeStatsCreate) (*models.AlgaeStatistic, error) {
	values := store.Row{
		"aoi":        req.AOIID,
		"datetime":   req.Datetime.UTC(),
		"min_value":  *req.Min,
		"max_value":  *req.Max,
		"mean_value": *req.Mean,
	}
	return insertAndRead(ctx, s.q, schema.AlgaeStatistics, values, algaeFromRow)
}

// AOIs lists every AOI that algae statistics can refer to.
func (s *AlgaeService) AOIs(ctx context.Context) ([]models.AOI, error) {
	return NewAOIService(s.q).List(ctx, models.AOIFilter{})
}

// AOI returns the AOI a statistic refers to.
func (s *AlgaeService) AOI(ctx context.Context, id int64) (*models.AOI, error) {
	return getByID(ctx, s.q, schema.AOIs, id, aoiFromRow)
}

func algaeFromRow(row store.Row) (models.AlgaeStatistic, error) {
	rec, err := mapper.New(schema.AlgaeStatistics, row)
	if err != nil {
		return models.AlgaeStatistic{}, err
	}
	a := models.AlgaeStatistic{
		ID:        rec.Int64("id"),
		AOI:       rec.Int64("aoi"),
		Datetime:  rec.Time("datetime"),
		MinValue:  rec.Float64("min_value"),
		MaxValue:  rec.Float64("max_value"),
		MeanValue: rec.Float64("mean_value"),
	}
	return a, rec.Err()
}
