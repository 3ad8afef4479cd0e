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

type PgxQuotationRepository struct {
	BaseRepository
}

func newPgxQuotationRepository(pool *pgxpool.Pool) portsrepo.QuotationRepositoryFacade {
	return &PgxQuotationRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxQuotationRepository implements the facade
var _ portsrepo.QuotationRepositoryFacade = (*PgxQuotationRepository)(nil)

const quotationColumns = `
	id, quotation_no, status, client_id, note,
	supervisor_state, supervisor_by, supervisor_at,
	manager_state, manager_by, manager_at,
	accepted_at,
	salesman_id, warehouse_id,
	total_amount, total_vat, total_subtotal,
	sync_status, sync_payload, sync_response, sync_error, synced_at, medad_ref,
	created_at, created_by, last_updated_at, last_updated_by`

func scanQuotation(row rowScanner) (models.Quotation, error) {
	var m models.Quotation
	err := row.Scan(
		&m.ID, &m.QuotationNo, &m.Status, &m.ClientID, &m.Note,
		&m.SupervisorState, &m.SupervisorBy, &m.SupervisorAt,
		&m.ManagerState, &m.ManagerBy, &m.ManagerAt,
		&m.AcceptedAt,
		&m.SalesmanID, &m.WarehouseID,
		&m.TotalAmount, &m.TotalVAT, &m.TotalSubtotal,
		&m.SyncStatus, &m.LastPayload, &m.LastResponse, &m.LastError, &m.SyncedAt, &m.MedadRef,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxQuotationRepository) CreateQuotation(ctx context.Context, q domain.Quotation) (*domain.Quotation, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelQuotation(q)
	query := `
		INSERT INTO quotations (
			quotation_no, status, client_id, note,
			supervisor_state, manager_state,
			salesman_id, warehouse_id,
			total_amount, total_vat, total_subtotal,
			sync_status, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id;
	`
	err = tx.QueryRow(ctx, query,
		m.QuotationNo,
		m.Status,
		m.ClientID,
		m.Note,
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
	).Scan(&q.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("quotation number %s already taken: %w", m.QuotationNo, apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to insert quotation: %w", err)
	}

	if err := insertLineItems(ctx, tx, "quotation_line_items", mapping.ToModelLineItems(q.ID, q.LineItems)); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *PgxQuotationRepository) FindQuotationByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	return findQuotationByID(ctx, r.Pool, id)
}

func findQuotationByID(ctx context.Context, db dbtx, id int64) (*domain.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1;`
	m, err := scanQuotation(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find quotation %d: %w", id, err)
	}
	items, err := loadLineItems(ctx, db, "quotation_line_items", id)
	if err != nil {
		return nil, err
	}
	q := mapping.ToDomainQuotation(m, items)
	return &q, nil
}

func (r *PgxQuotationRepository) ListQuotationNos(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	query := `SELECT quotation_no FROM quotations WHERE quotation_no LIKE $1 || '%';`
	rows, err := r.Pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation numbers: %w", err)
	}
	defer rows.Close()

	nos := []string{}
	for rows.Next() {
		var no string
		if err := rows.Scan(&no); err != nil {
			return nil, fmt.Errorf("failed to scan quotation number: %w", err)
		}
		nos = append(nos, no)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating quotation numbers: %w", rows.Err())
	}
	return nos, nil
}

func quotationViewClause(view string) string {
	switch view {
	case "pending":
		return `status = 'pending'`
	case "accepted":
		return `status = 'accepted'`
	case "sent":
		return `sync_status = 'SENT_TO_MEDAD'`
	default:
		return `TRUE`
	}
}

func (r *PgxQuotationRepository) ListQuotations(ctx context.Context, f portsrepo.ListFilter) ([]domain.Quotation, *string, error) {
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
		SELECT ` + quotationColumns + `
		FROM quotations
		WHERE (` + quotationViewClause(f.View) + `)` + cursor + `
		ORDER BY created_at DESC, id DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query quotations: %w", err)
	}
	defer rows.Close()

	ms := []models.Quotation{}
	for rows.Next() {
		m, err := scanQuotation(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan quotation row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating quotation rows: %w", rows.Err())
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
	itemsByID, err := loadLineItemsFor(ctx, r.Pool, "quotation_line_items", ids)
	if err != nil {
		return nil, nil, err
	}

	qs := make([]domain.Quotation, len(ms))
	for i, m := range ms {
		qs[i] = mapping.ToDomainQuotation(m, itemsByID[m.ID])
	}
	return qs, nextToken, nil
}

func quotationAcceptanceColumn(role domain.Role) (string, error) {
	switch role {
	case domain.RoleSupervisor:
		return "supervisor", nil
	case domain.RoleManager:
		return "manager", nil
	}
	return "", fmt.Errorf("role %s holds no acceptance slot on quotations: %w", role, apperrors.ErrValidation)
}

func (r *PgxQuotationRepository) AcceptQuotationRole(ctx context.Context, id int64, role domain.Role, actorID string, at time.Time) (*domain.Quotation, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	col, err := quotationAcceptanceColumn(role)
	if err != nil {
		return nil, err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// The row is locked for the duration so the chain-completion check and
	// the terminal status write see a consistent pair of slots.
	var status, svState, mgState string
	err = tx.QueryRow(ctx, `
		SELECT status, supervisor_state, manager_state
		FROM quotations
		WHERE id = $1
		FOR UPDATE;
	`, id).Scan(&status, &svState, &mgState)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock quotation %d: %w", id, err)
	}

	gate := gateFor("quotations", id).
		Set(col+"_state", string(domain.AcceptanceAccepted)).
		Set(col+"_by", actorID).
		Set(col+"_at", at).
		Set("last_updated_at", at).
		Set("last_updated_by", actorID).
		Expect("status", string(domain.QuotationPending)).
		Expect(col+"_state", string(domain.AcceptancePending))

	if err := advance(ctx, tx, gate); err != nil {
		return nil, err
	}

	// Completing the chain is terminal; the status flip rides the same
	// transaction as the final slot.
	otherState := mgState
	if role == domain.RoleManager {
		otherState = svState
	}
	if otherState == string(domain.AcceptanceAccepted) {
		final := gateFor("quotations", id).
			Set("status", string(domain.QuotationAccepted)).
			Set("accepted_at", at).
			Expect("status", string(domain.QuotationPending))
		if err := advance(ctx, tx, final); err != nil {
			return nil, err
		}
	}

	q, err := findQuotationByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return q, nil
}

func (r *PgxQuotationRepository) ReplaceQuotation(ctx context.Context, q domain.Quotation, revisedNo string, actorID string, at time.Time) (*domain.Quotation, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM quotations WHERE id = $1 FOR UPDATE;`, q.ID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock quotation %d: %w", q.ID, err)
	}
	if status == string(domain.QuotationAccepted) {
		return nil, fmt.Errorf("quotation %d is accepted: %w", q.ID, apperrors.ErrTerminal)
	}

	m := mapping.ToModelQuotation(q)
	query := `
		UPDATE quotations SET
			quotation_no = $1, client_id = $2, note = $3,
			supervisor_state = $4, supervisor_by = NULL, supervisor_at = NULL,
			manager_state = $4, manager_by = NULL, manager_at = NULL,
			salesman_id = $5, warehouse_id = $6,
			total_amount = $7, total_vat = $8, total_subtotal = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE id = $12 AND status <> 'accepted';
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
		q.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("quotation number %s already taken: %w", revisedNo, apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to rewrite quotation %d: %w", q.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrStateConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM quotation_line_items WHERE record_id = $1;`, q.ID); err != nil {
		return nil, fmt.Errorf("failed to clear quotation line items: %w", err)
	}
	if err := insertLineItems(ctx, tx, "quotation_line_items", mapping.ToModelLineItems(q.ID, q.LineItems)); err != nil {
		return nil, err
	}

	updated, err := findQuotationByID(ctx, tx, q.ID)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PgxQuotationRepository) DeleteQuotation(ctx context.Context, id int64) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM quotation_line_items WHERE record_id = $1;`, id); err != nil {
		return fmt.Errorf("failed to delete quotation line items: %w", err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM quotations WHERE id = $1 AND status <> 'accepted';`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quotation %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quotations WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check quotation existence: %w", err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("quotation %d is accepted: %w", id, apperrors.ErrTerminal)
	}
	return r.Commit(ctx, tx)
}

func (r *PgxQuotationRepository) RecordQuotationSyncOutcome(ctx context.Context, id int64, outcome domain.SyncOutcome) error {
	return recordSyncOutcome(ctx, r.Pool, "quotations", id, outcome)
}
