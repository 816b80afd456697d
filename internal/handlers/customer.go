package handlers

import (
	"context"
	"net/http"

	"eps-portal/internal/models"

	"go.uber.org/zap"
)

type CustomerService interface {
	List(ctx context.Context) ([]models.Customer, error)
	Create(ctx context.Context, req models.CustomerCreate) (*models.Customer, error)
	LinkService(ctx context.Context, customerID string, req models.CustomerServiceLink) (*models.CustomerService, error)
}

type CatalogService interface {
	List(ctx context.Context) ([]models.Service, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Service, error)
	Create(ctx context.Context, req models.ServiceCreate) (*models.Service, error)
}

type CustomerHandler struct {
	service CustomerService
	logr    *zap.Logger
}

func NewCustomerHandler(svc CustomerService, logr *zap.Logger) *CustomerHandler {
	return &CustomerHandler{service: svc, logr: logr}
}

// List handles GET /customer
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// Create handles POST /customer
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	customer, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// LinkService handles POST /customer/{id}/services
func (h *CustomerHandler) LinkService(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	var req models.CustomerServiceLink
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	link, err := h.service.LinkService(r.Context(), customerID, req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

type CatalogHandler struct {
	service CatalogService
	logr    *zap.Logger
}

func NewCatalogHandler(svc CatalogService, logr *zap.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logr: logr}
}

// List handles GET /services
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// ListByCustomer handles GET /services/{customer_id}
func (h *CatalogHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathUUID(r, "customer_id")
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	services, err := h.service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// Create handles POST /services
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ServiceCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logr, err)
		return
	}

	service, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, service)
}
