package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qistas/opsflow_backend/internal/apperrors"
	"github.com/qistas/opsflow_backend/internal/core/domain"
	portsrepo "github.com/qistas/opsflow_backend/internal/core/ports/repositories"
	"github.com/qistas/opsflow_backend/internal/models"
)

type PgxPartyRepository struct {
	BaseRepository
}

func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxPartyRepository implements the facade
var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

func toDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:        m.ClientID,
		Name:            m.Name,
		MedadCustomerID: m.MedadCustomerID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func (r *PgxPartyRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	query := `
		SELECT client_id, name, medad_customer_id, created_at, created_by, last_updated_at, last_updated_by
		FROM clients
		WHERE client_id = $1;
	`
	var m models.Client
	err := r.Pool.QueryRow(ctx, query, clientID).Scan(
		&m.ClientID,
		&m.Name,
		&m.MedadCustomerID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client %s: %w", clientID, err)
	}
	c := toDomainClient(m)
	return &c, nil
}

func (r *PgxPartyRepository) LinkClientToMedad(ctx context.Context, clientID, medadCustomerID, actorID string) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	query := `
		UPDATE clients
		SET medad_customer_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE client_id = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, medadCustomerID, time.Now().UTC(), actorID, clientID)
	if err != nil {
		return fmt.Errorf("failed to link client %s to medad customer: %w", clientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPartyRepository) FindSalesmanByID(ctx context.Context, salesmanID string) (*domain.Salesman, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	query := `SELECT salesman_id, name, medad_salesman_id FROM salesmen WHERE salesman_id = $1;`
	var m models.Salesman
	err := r.Pool.QueryRow(ctx, query, salesmanID).Scan(&m.SalesmanID, &m.Name, &m.MedadSalesmanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find salesman %s: %w", salesmanID, err)
	}
	return &domain.Salesman{SalesmanID: m.SalesmanID, Name: m.Name, MedadSalesmanID: m.MedadSalesmanID}, nil
}

func (r *PgxPartyRepository) FindWarehouseByID(ctx context.Context, warehouseID string) (*domain.Warehouse, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	query := `SELECT warehouse_id, name, medad_warehouse_id FROM warehouses WHERE warehouse_id = $1;`
	var m models.Warehouse
	err := r.Pool.QueryRow(ctx, query, warehouseID).Scan(&m.WarehouseID, &m.Name, &m.MedadWarehouseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find warehouse %s: %w", warehouseID, err)
	}
	return &domain.Warehouse{WarehouseID: m.WarehouseID, Name: m.Name, MedadWarehouseID: m.MedadWarehouseID}, nil
}
