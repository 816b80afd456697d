package services

import (
	"context"
	"fmt"
	"time"

	"eps-portal/internal/mapper"
	"eps-portal/internal/models"
	"eps-portal/internal/schema"
	"eps-portal/internal/store"
)

type NDVIService struct {
	q   Querier
	now func() time.Time
}

func NewNDVIService(q Querier) *NDVIService {
	return &NDVIService{q: q, now: time.Now}
}

func (s *NDVIService) List(ctx context.Context) ([]models.NDVIStatistic, error) {
	rows, err := s.q.SelectAll(ctx, schema.NDVIStatistics)
	if err != nil {
		return nil, fmt.Errorf("failed to list ndvi statistics: %w", err)
	}
	return mapRows(rows, ndviFromRow)
}

// Filter returns the statistics of an AOI and/or a date.
func (s *NDVIService) Filter(ctx context.Context, filter models.StatsFilter) ([]models.NDVIStatistic, error) {
	var preds []store.Predicate
	if filter.AOIID != nil {
		preds = append(preds, store.Eq("aoi_id", *filter.AOIID))
	}
	if filter.Date != nil {
		preds = append(preds, store.DateEq("date", *filter.Date))
	}

	rows, err := s.q.SelectFiltered(ctx, schema.NDVIStatistics, preds...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter ndvi statistics: %w", err)
	}
	return mapRows(rows, ndviFromRow)
}

// Create stores precomputed statistics.
func (s *NDVIService) Create(ctx context.Context, req models.NDVIStatsCreate) (*models.NDVIStatistic, error) {
	values := store.Row{
		"aoi_id":      req.AOIID,
		"date":        req.Date,
		"min_ndvi":    *req.MinNDVI,
		"max_ndvi":    *req.MaxNDVI,
		"median_ndvi": *req.MedianNDVI,
		"created_at":  s.now().UTC(),
	}
	setIfPresent(values, "change", req.Change)

	return insertAndRead(ctx, s.q, schema.NDVIStatistics, values, ndviFromRow)
}

// Derive computes statistics from raw NDVI values and stores them. Change is
// the difference between this median and the median of the AOI's latest
// earlier statistic, and stays empty for the first one.
func (s *NDVIService) Derive(ctx context.Context, req models.NDVIDerive) (*models.NDVIStatistic, error) {
	if _, err := getByID(ctx, s.q, schema.AOIs, req.AOIID, aoiFromRow); err != nil {
		return nil, err
	}

	sum, err := summarize(req.Values)
	if err != nil {
		return nil, err
	}

	prev, err := s.latestBefore(ctx, req.AOIID, req.Date)
	if err != nil {
		return nil, err
	}

	create := models.NDVIStatsCreate{
		AOIID:      req.AOIID,
		Date:       req.Date,
		MinNDVI:    &sum.Min,
		MaxNDVI:    &sum.Max,
		MedianNDVI: &sum.Median,
	}
	if prev != nil {
		change := sum.Median - prev.MedianNDVI
		create.Change = &change
	}
	return s.Create(ctx, create)
}

func (s *NDVIService) latestBefore(ctx context.Context, aoiID int64, date string) (*models.NDVIStatistic, error) {
	rows, err := s.q.SelectFiltered(ctx, schema.NDVIStatistics,
		store.Eq("aoi_id", aoiID),
		store.Lt("date", date),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read previous ndvi statistics: %w", err)
	}
	stats, err := mapRows(rows, ndviFromRow)
	if err != nil {
		return nil, err
	}

	var latest *models.NDVIStatistic
	for i := range stats {
		if latest == nil || stats[i].Date > latest.Date ||
			(stats[i].Date == latest.Date && stats[i].CreatedAt.After(latest.CreatedAt)) {
			latest = &stats[i]
		}
	}
	return latest, nil
}

// AOI returns the AOI a statistic refers to.
func (s *NDVIService) AOI(ctx context.Context, id int64) (*models.AOI, error) {
	return getByID(ctx, s.q, schema.AOIs, id, aoiFromRow)
}

func ndviFromRow(row store.Row) (models.NDVIStatistic, error) {
	rec, err := mapper.New(schema.NDVIStatistics, row)
	if err != nil {
		return models.NDVIStatistic{}, err
	}
	n := models.NDVIStatistic{
		ID:         rec.Int64("id"),
		AOIID:      rec.Int64("aoi_id"),
		Date:       rec.Date("date"),
		MinNDVI:    rec.Float64("min_ndvi"),
		MaxNDVI:    rec.Float64("max_ndvi"),
		MedianNDVI: rec.Float64("median_ndvi"),
		CreatedAt:  rec.Time("created_at"),
		Change:     rec.OptFloat64("change"),
	}
	return n, rec.Err()
}
