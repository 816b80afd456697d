package services

import (
	"context"
	"fmt"

	"eps-portal/internal/mapper"
	"eps-portal/internal/models"
	"eps-portal/internal/schema"
	"eps-portal/internal/store"
)

// CatalogService manages the services customers can subscribe to.
type CatalogService struct {
	q Querier
}

func NewCatalogService(q Querier) *CatalogService {
	return &CatalogService{q: q}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Service, error) {
	rows, err := s.q.SelectAll(ctx, schema.Services)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return mapRows(rows, serviceFromRow)
}

// ListByCustomer returns the services linked to a customer.
func (s *CatalogService) ListByCustomer(ctx context.Context, customerID string) ([]models.Service, error) {
	links, err := s.q.SelectFiltered(ctx, schema.CustomerServices, store.Eq("customer_id", customerID))
	if err != nil {
		return nil, fmt.Errorf("failed to list services of customer %s: %w", customerID, err)
	}
	if len(links) == 0 {
		return []models.Service{}, nil
	}

	ids := make([]int64, 0, len(links))
	for _, row := range links {
		link, err := customerServiceFromRow(row)
		if err != nil {
			return nil, err
		}
		ids = append(ids, link.ServiceID)
	}

	rows, err := s.q.SelectFiltered(ctx, schema.Services, store.In("id", ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list services of customer %s: %w", customerID, err)
	}
	return mapRows(rows, serviceFromRow)
}

func (s *CatalogService) Create(ctx context.Context, req models.ServiceCreate) (*models.Service, error) {
	values := store.Row{"name": req.Name}
	setIfPresent(values, "description", req.Description)
	return insertAndRead(ctx, s.q, schema.Services, values, serviceFromRow)
}

func serviceFromRow(row store.Row) (models.Service, error) {
	rec, err := mapper.New(schema.Services, row)
	if err != nil {
		return models.Service{}, err
	}
	svc := models.Service{
		ID:          rec.Int64("id"),
		Name:        rec.String("name"),
		Description: rec.OptString("description"),
	}
	return svc, rec.Err()
}
