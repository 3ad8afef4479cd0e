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
	"github.com/qistas/opsflow_backend/internal/utils/mapping"
	"github.com/qistas/opsflow_backend/internal/utils/pagination"
)

type PgxOrderRepository struct {
	BaseRepository
}

func newPgxOrderRepository(pool *pgxpool.Pool) portsrepo.OrderRepositoryFacade {
	return &PgxOrderRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxOrderRepository implements the facade
var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

const orderColumns = `
	id, order_no, status, client_id, note,
	storekeeper_state, storekeeper_by, storekeeper_at,
	supervisor_state, supervisor_by, supervisor_at,
	manager_state, manager_by, manager_at,
	delivered_by, delivered_at,
	salesman_id, warehouse_id,
	total_amount, total_vat, total_subtotal,
	sync_status, sync_payload, sync_response, sync_error, synced_at, medad_ref,
	created_at, created_by, last_updated_at, last_updated_by`

func scanOrder(row rowScanner) (models.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.ID, &m.OrderNo, &m.Status, &m.ClientID, &m.Note,
		&m.StorekeeperState, &m.StorekeeperBy, &m.StorekeeperAt,
		&m.SupervisorState, &m.SupervisorBy, &m.SupervisorAt,
		&m.ManagerState, &m.ManagerBy, &m.ManagerAt,
		&m.DeliveredBy, &m.DeliveredAt,
		&m.SalesmanID, &m.WarehouseID,
		&m.TotalAmount, &m.TotalVAT, &m.TotalSubtotal,
		&m.SyncStatus, &m.LastPayload, &m.LastResponse, &m.LastError, &m.SyncedAt, &m.MedadRef,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

const lineItemColumns = `line_id, record_id, position, description, quantity, unit_price, line_total, vat, subtotal, medad_product_code`

// insertLineItems batches the line-item inserts of one record. It serves both
// the orders and quotations tables, which share the same line shape.
func insertLineItems(ctx context.Context, tx pgx.Tx, table string, items []models.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO ` + table + ` (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(query,
			it.LineID,
			it.RecordID,
			it.Position,
			it.Description,
			it.Quantity,
			it.UnitPrice,
			it.LineTotal,
			it.VAT,
			it.Subtotal,
			it.MedadProductCode,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert line item into %s: %w", table, err)
		}
	}
	return nil
}

func loadLineItems(ctx context.Context, db dbtx, table string, recordID int64) ([]models.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM ` + table + ` WHERE record_id = $1 ORDER BY position;`
	rows, err := db.Query(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items from %s: %w", table, err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var it models.LineItem
		err := rows.Scan(
			&it.LineID, &it.RecordID, &it.Position, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.LineTotal, &it.VAT, &it.Subtotal,
			&it.MedadProductCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line item rows: %w", rows.Err())
	}
	return items, nil
}

// loadLineItemsFor bulk-loads the line items of several records in one query.
func loadLineItemsFor(ctx context.Context, db dbtx, table string, recordIDs []int64) (map[int64][]models.LineItem, error) {
	byRecord := map[int64][]models.LineItem{}
	if len(recordIDs) == 0 {
		return byRecord, nil
	}
	query := `SELECT ` + lineItemColumns + ` FROM ` + table + ` WHERE record_id = ANY($1) ORDER BY record_id, position;`
	rows, err := db.Query(ctx, query, recordIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items from %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.LineItem
		err := rows.Scan(
			&it.LineID, &it.RecordID, &it.Position, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.LineTotal, &it.VAT, &it.Subtotal,
			&it.MedadProductCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		byRecord[it.RecordID] = append(byRecord[it.RecordID], it)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line item rows: %w", rows.Err())
	}
	return byRecord, nil
}

func (r *PgxOrderRepository) CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelOrder(o)
	query := `
		INSERT INTO orders (
			order_no, status, client_id, note,
			storekeeper_state, supervisor_state, manager_state,
			salesman_id, warehouse_id,
			total_amount, total_vat, total_subtotal,
			sync_status, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id;
	`
	err = tx.QueryRow(ctx, query,
		m.OrderNo,
		m.Status,
		m.ClientID,
		m.Note,
		m.StorekeeperState,
		m.SupervisorState,
		m.ManagerState,
		m.SalesmanID,
		m.WarehouseID,
		m.TotalAmount,
		m.TotalVAT,
		m.TotalSubtotal,
		m.SyncStatus,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&o.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("order number %s already taken: %w", m.OrderNo, apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := insertLineItems(ctx, tx, "order_line_items", mapping.ToModelLineItems(o.ID, o.LineItems)); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	return findOrderByID(ctx, r.Pool, id)
}

func findOrderByID(ctx context.Context, db dbtx, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`
	m, err := scanOrder(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order %d: %w", id, err)
	}
	items, err := loadLineItems(ctx, db, "order_line_items", id)
	if err != nil {
		return nil, err
	}
	o := mapping.ToDomainOrder(m, items)
	return &o, nil
}

func (r *PgxOrderRepository) ListOrderNos(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	query := `SELECT order_no FROM orders WHERE order_no LIKE $1 || '%';`
	rows, err := r.Pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query order numbers: %w", err)
	}
	defer rows.Close()

	nos := []string{}
	for rows.Next() {
		var no string
		if err := rows.Scan(&no); err != nil {
			return nil, fmt.Errorf("failed to scan order number: %w", err)
		}
		nos = append(nos, no)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating order numbers: %w", rows.Err())
	}
	return nos, nil
}

func orderViewClause(view string) string {
	switch view {
	case "pending":
		return `status = 'pending'`
	case "delivered":
		return `status = 'delivered'`
	case "sent":
		return `sync_status = 'SENT_TO_MEDAD'`
	default:
		return `TRUE`
	}
}

func (r *PgxOrderRepository) ListOrders(ctx context.Context, f portsrepo.ListFilter) ([]domain.Order, *string, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	args := []any{limit + 1}
	cursor := ""
	if f.NextToken != nil && *f.NextToken != "" {
		createdAt, lastID, err := pagination.DecodeCursor(*f.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, createdAt, lastID)
		cursor = ` AND (created_at, id) < ($2, $3)`
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE (` + orderViewClause(f.View) + `)` + cursor + `
		ORDER BY created_at DESC, id DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	ms := []models.Order{}
	for rows.Next() {
		m, err := scanOrder(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating order rows: %w", rows.Err())
	}

	var nextToken *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.ID)
		nextToken = &token
	}

	ids := make([]int64, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	itemsByID, err := loadLineItemsFor(ctx, r.Pool, "order_line_items", ids)
	if err != nil {
		return nil, nil, err
	}

	orders := make([]domain.Order, len(ms))
	for i, m := range ms {
		orders[i] = mapping.ToDomainOrder(m, itemsByID[m.ID])
	}
	return orders, nextToken, nil
}

// orderAcceptanceColumn maps a role to its flattened slot column prefix.
func orderAcceptanceColumn(role domain.Role) (string, error) {
	switch role {
	case domain.RoleStorekeeper:
		return "storekeeper", nil
	case domain.RoleSupervisor:
		return "supervisor", nil
	case domain.RoleManager:
		return "manager", nil
	}
	return "", fmt.Errorf("role %s holds no acceptance slot on orders: %w", role, apperrors.ErrValidation)
}

func (r *PgxOrderRepository) AcceptOrderRole(ctx context.Context, id int64, role domain.Role, actorID string, at time.Time) (*domain.Order, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	col, err := orderAcceptanceColumn(role)
	if err != nil {
		return nil, err
	}

	gate := gateFor("orders", id).
		Set(col+"_state", string(domain.AcceptanceAccepted)).
		Set(col+"_by", actorID).
		Set(col+"_at", at).
		Set("last_updated_at", at).
		Set("last_updated_by", actorID).
		Expect("status", string(domain.OrderPending)).
		Expect(col+"_state", string(domain.AcceptancePending))

	if err := advance(ctx, r.Pool, gate); err != nil {
		return nil, err
	}
	return findOrderByID(ctx, r.Pool, id)
}

func (r *PgxOrderRepository) MarkOrderDelivered(ctx context.Context, id int64, actorID string, at time.Time) (*domain.Order, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Lock the row so acceptance cannot be reset between the check and the
	// terminal write.
	var status, skState, svState, mgState string
	err = tx.QueryRow(ctx, `
		SELECT status, storekeeper_state, supervisor_state, manager_state
		FROM orders
		WHERE id = $1
		FOR UPDATE;
	`, id).Scan(&status, &skState, &svState, &mgState)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock order %d: %w", id, err)
	}

	if status != string(domain.OrderPending) {
		return nil, apperrors.ErrStateConflict
	}
	accepted := string(domain.AcceptanceAccepted)
	if skState != accepted || svState != accepted || mgState != accepted {
		return nil, fmt.Errorf("order %d is not fully accepted: %w", id, apperrors.ErrValidation)
	}

	gate := gateFor("orders", id).
		Set("status", string(domain.OrderDelivered)).
		Set("delivered_by", actorID).
		Set("delivered_at", at).
		Set("last_updated_at", at).
		Set("last_updated_by", actorID).
		Expect("status", string(domain.OrderPending))

	if err := advance(ctx, tx, gate); err != nil {
		return nil, err
	}

	o, err := findOrderByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PgxOrderRepository) ReplaceOrder(ctx context.Context, o domain.Order, revisedNo string, actorID string, at time.Time) (*domain.Order, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE;`, o.ID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock order %d: %w", o.ID, err)
	}
	if status == string(domain.OrderDelivered) {
		return nil, fmt.Errorf("order %d is delivered: %w", o.ID, apperrors.ErrTerminal)
	}

	m := mapping.ToModelOrder(o)
	query := `
		UPDATE orders SET
			order_no = $1, client_id = $2, note = $3,
			storekeeper_state = $4, storekeeper_by = NULL, storekeeper_at = NULL,
			supervisor_state = $4, supervisor_by = NULL, supervisor_at = NULL,
			manager_state = $4, manager_by = NULL, manager_at = NULL,
			salesman_id = $5, warehouse_id = $6,
			total_amount = $7, total_vat = $8, total_subtotal = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE id = $12 AND status <> 'delivered';
	`
	cmdTag, err := tx.Exec(ctx, query,
		revisedNo,
		m.ClientID,
		m.Note,
		string(domain.AcceptancePending),
		m.SalesmanID,
		m.WarehouseID,
		m.TotalAmount,
		m.TotalVAT,
		m.TotalSubtotal,
		at,
		actorID,
		o.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("order number %s already taken: %w", revisedNo, apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to rewrite order %d: %w", o.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrStateConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_line_items WHERE record_id = $1;`, o.ID); err != nil {
		return nil, fmt.Errorf("failed to clear order line items: %w", err)
	}
	if err := insertLineItems(ctx, tx, "order_line_items", mapping.ToModelLineItems(o.ID, o.LineItems)); err != nil {
		return nil, err
	}

	updated, err := findOrderByID(ctx, tx, o.ID)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PgxOrderRepository) DeleteOrder(ctx context.Context, id int64) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_line_items WHERE record_id = $1;`, id); err != nil {
		return fmt.Errorf("failed to delete order line items: %w", err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1 AND status <> 'delivered';`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check order existence: %w", err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("order %d is delivered: %w", id, apperrors.ErrTerminal)
	}
	return r.Commit(ctx, tx)
}

func (r *PgxOrderRepository) RecordOrderSyncOutcome(ctx context.Context, id int64, outcome domain.SyncOutcome) error {
	return recordSyncOutcome(ctx, r.Pool, "orders", id, outcome)
}
