package services

import (
	"context"
	"net/http"

	"github.com/dukaanly/possync/internal/client/api"
	"github.com/dukaanly/possync/internal/client/models"
)

// RecordService is the typed CRUD surface for one mirrored entity.
// Mutations may come back Deferred when issued offline; List always
// resolves, falling back to the local mirror.
type RecordService interface {
	Create(ctx context.Context, payload any) (*api.MutationResult, error)
	Update(ctx context.Context, id string, payload any) (*api.MutationResult, error)
	Delete(ctx context.Context, id string) (*api.MutationResult, error)
	List(ctx context.Context) ([]models.Record, error)
}

type recordService struct {
	gateway  Gateway
	entity   models.EntityType
	basePath string
}

func (s *recordService) Create(ctx context.Context, payload any) (*api.MutationResult, error) {
	return s.gateway.Mutate(ctx, s.entity, http.MethodPost, s.basePath, "", payload)
}

func (s *recordService) Update(ctx context.Context, id string, payload any) (*api.MutationResult, error) {
	return s.gateway.Mutate(ctx, s.entity, http.MethodPut, s.basePath+"/"+id, id, payload)
}

func (s *recordService) Delete(ctx context.Context, id string) (*api.MutationResult, error) {
	return s.gateway.Mutate(ctx, s.entity, http.MethodDelete, s.basePath+"/"+id, id, nil)
}

func (s *recordService) List(ctx context.Context) ([]models.Record, error) {
	return s.gateway.FetchAll(ctx, s.entity, s.basePath)
}

func NewBillService(gateway Gateway) RecordService {
	return &recordService{gateway: gateway, entity: models.EntityBill, basePath: "/bills"}
}

func NewProductService(gateway Gateway) RecordService {
	return &recordService{gateway: gateway, entity: models.EntityProduct, basePath: "/products"}
}

func NewCustomerService(gateway Gateway) RecordService {
	return &recordService{gateway: gateway, entity: models.EntityCustomer, basePath: "/customers"}
}
