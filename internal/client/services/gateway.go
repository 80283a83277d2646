// Package services contains the application services the UI talks to:
// authentication plus typed CRUD over bills, products, and customers. Each
// service is a thin wrapper binding an entity's REST surface to the
// request gateway, which handles connectivity, queueing, and mirroring.
package services

import (
	"context"

	"github.com/dukaanly/possync/internal/client/api"
	"github.com/dukaanly/possync/internal/client/models"
)

// Gateway is the subset of the request gateway used by the services.
type Gateway interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, req models.RegisterRequest) error
	Me(ctx context.Context) (*models.UserInfo, error)
	Mutate(ctx context.Context, entity models.EntityType, method, endpoint, recordID string, payload any) (*api.MutationResult, error)
	FetchAll(ctx context.Context, entity models.EntityType, endpoint string) ([]models.Record, error)
}
