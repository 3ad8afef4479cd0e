package repositories

import (
	"context"

	"github.com/qistas/opsflow_backend/internal/core/domain"
)

// PartyRepositoryFacade resolves the external counterpart ids a Medad sync
// needs: linked customer, salesman and warehouse.
type PartyRepositoryFacade interface {
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	LinkClientToMedad(ctx context.Context, clientID, medadCustomerID, actorID string) error
	FindSalesmanByID(ctx context.Context, salesmanID string) (*domain.Salesman, error)
	FindWarehouseByID(ctx context.Context, warehouseID string) (*domain.Warehouse, error)
}

// UserRepositoryFacade looks up authenticated actors.
type UserRepositoryFacade interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
