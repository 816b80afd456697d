package services

import (
	"context"
	"fmt"

	"eps-portal/internal/mapper"
	"eps-portal/internal/models"
	"eps-portal/internal/schema"
	"eps-portal/internal/store"

	"github.com/google/uuid"
)

type CustomerService struct {
	q Querier
}

func NewCustomerService(q Querier) *CustomerService {
	return &CustomerService{q: q}
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.q.SelectAll(ctx, schema.Customers)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return mapRows(rows, customerFromRow)
}

// Create stores a customer under a newly generated UUID.
func (s *CustomerService) Create(ctx context.Context, req models.CustomerCreate) (*models.Customer, error) {
	values := store.Row{
		"id":   uuid.NewString(),
		"name": req.Name,
	}
	return insertAndRead(ctx, s.q, schema.Customers, values, customerFromRow)
}

// LinkService subscribes a customer to a service. Both must exist.
func (s *CustomerService) LinkService(ctx context.Context, customerID string, req models.CustomerServiceLink) (*models.CustomerService, error) {
	if _, err := getByID(ctx, s.q, schema.Customers, customerID, customerFromRow); err != nil {
		return nil, err
	}
	if _, err := getByID(ctx, s.q, schema.Services, req.ServiceID, serviceFromRow); err != nil {
		return nil, err
	}

	values := store.Row{
		"customer_id": customerID,
		"service_id":  req.ServiceID,
	}
	return insertAndRead(ctx, s.q, schema.CustomerServices, values, customerServiceFromRow)
}

func customerFromRow(row store.Row) (models.Customer, error) {
	rec, err := mapper.New(schema.Customers, row)
	if err != nil {
		return models.Customer{}, err
	}
	c := models.Customer{
		ID:   rec.UUID("id").String(),
		Name: rec.String("name"),
	}
	return c, rec.Err()
}

func customerServiceFromRow(row store.Row) (models.CustomerService, error) {
	rec, err := mapper.New(schema.CustomerServices, row)
	if err != nil {
		return models.CustomerService{}, err
	}
	cs := models.CustomerService{
		ID:         rec.Int64("id"),
		CustomerID: rec.UUID("customer_id").String(),
		ServiceID:  rec.Int64("service_id"),
	}
	return cs, rec.Err()
}
