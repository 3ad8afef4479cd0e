package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/qistas/opsflow_backend/internal/apperrors"
	"github.com/qistas/opsflow_backend/internal/core/domain"
	portsrepo "github.com/qistas/opsflow_backend/internal/core/ports/repositories"
	"github.com/qistas/opsflow_backend/internal/models"
	"github.com/qistas/opsflow_backend/internal/utils/mapping"
	"github.com/qistas/opsflow_backend/internal/utils/pagination"
)

type PgxPaymentRequestRepository struct {
	BaseRepository
}

func newPgxPaymentRequestRepository(pool *pgxpool.Pool) portsrepo.PaymentRequestRepositoryFacade {
	return &PgxPaymentRequestRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxPaymentRequestRepository implements the facade
var _ portsrepo.PaymentRequestRepositoryFacade = (*PgxPaymentRequestRepository)(nil)

const paymentRequestColumns = `
	id, request_no, stage, status,
	originator_id, originator_name, originator_type, amount, due_date, note,
	due_amount, accountant_id, accountant_at,
	amount_to_pay, priority, manager_id, manager_at, remaining_amount, payment_state,
	rejected_by, rejected_at, rejected_reason,
	sync_status, sync_payload, sync_response, sync_error, synced_at, medad_ref,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPaymentRequest(row rowScanner) (models.PaymentRequest, error) {
	var m models.PaymentRequest
	err := row.Scan(
		&m.ID, &m.RequestNo, &m.Stage, &m.Status,
		&m.OriginatorID, &m.OriginatorName, &m.OriginatorType, &m.Amount, &m.DueDate, &m.Note,
		&m.DueAmount, &m.AccountantID, &m.AccountantAt,
		&m.AmountToPay, &m.Priority, &m.ManagerID, &m.ManagerAt, &m.RemainingAmount, &m.PaymentState,
		&m.RejectedBy, &m.RejectedAt, &m.RejectedReason,
		&m.SyncStatus, &m.LastPayload, &m.LastResponse, &m.LastError, &m.SyncedAt, &m.MedadRef,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPaymentRequestRepository) CreatePaymentRequest(ctx context.Context, pr domain.PaymentRequest) (*domain.PaymentRequest, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	m := mapping.ToModelPaymentRequest(pr)
	query := `
		INSERT INTO payment_requests (
			request_no, stage, status,
			originator_id, originator_name, originator_type, amount, due_date, note,
			sync_status, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;
	`
	err := r.Pool.QueryRow(ctx, query,
		m.RequestNo,
		m.Stage,
		m.Status,
		m.OriginatorID,
		m.OriginatorName,
		m.OriginatorType,
		m.Amount,
		m.DueDate,
		m.Note,
		m.SyncStatus,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&pr.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("request number %s already taken: %w", m.RequestNo, apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to insert payment request: %w", err)
	}
	return &pr, nil
}

func (r *PgxPaymentRequestRepository) FindPaymentRequestByID(ctx context.Context, id int64) (*domain.PaymentRequest, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	return findPaymentRequestByID(ctx, r.Pool, id)
}

func findPaymentRequestByID(ctx context.Context, db dbtx, id int64) (*domain.PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + ` FROM payment_requests WHERE id = $1;`
	m, err := scanPaymentRequest(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment request %d: %w", id, err)
	}
	pr := mapping.ToDomainPaymentRequest(m)
	return &pr, nil
}

func (r *PgxPaymentRequestRepository) ListRequestNos(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	query := `SELECT request_no FROM payment_requests WHERE request_no LIKE $1 || '%';`
	rows, err := r.Pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query request numbers: %w", err)
	}
	defer rows.Close()

	nos := []string{}
	for rows.Next() {
		var no string
		if err := rows.Scan(&no); err != nil {
			return nil, fmt.Errorf("failed to scan request number: %w", err)
		}
		nos = append(nos, no)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating request numbers: %w", rows.Err())
	}
	return nos, nil
}

// paymentViewClause maps a role-scoped list view onto a WHERE fragment.
// The fragments are fixed strings; only pagination values travel as args.
func paymentViewClause(role domain.Role, view string) string {
	switch view {
	case "pending":
		switch role {
		case domain.RoleAccountant:
			return `status = 'pending_accountant'`
		case domain.RoleManager:
			return `status = 'pending_manager'`
		default:
			return `status IN ('pending_accountant', 'pending_manager')`
		}
	case "sent":
		switch role {
		case domain.RoleAccountant:
			return `accountant_id IS NOT NULL`
		case domain.RoleManager:
			return `manager_id IS NOT NULL OR rejected_by IS NOT NULL`
		default:
			return `status IN ('approved_manager', 'approved_manager_partial', 'rejected')`
		}
	default:
		return `TRUE`
	}
}

func (r *PgxPaymentRequestRepository) ListPaymentRequests(ctx context.Context, role domain.Role, f portsrepo.ListFilter) ([]domain.PaymentRequest, *string, error) {
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
		SELECT ` + paymentRequestColumns + `
		FROM payment_requests
		WHERE (` + paymentViewClause(role, f.View) + `)` + cursor + `
		ORDER BY created_at DESC, id DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query payment requests: %w", err)
	}
	defer rows.Close()

	ms := []models.PaymentRequest{}
	for rows.Next() {
		m, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan payment request row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating payment request rows: %w", rows.Err())
	}

	var nextToken *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.ID)
		nextToken = &token
	}

	prs := make([]domain.PaymentRequest, len(ms))
	for i, m := range ms {
		prs[i] = mapping.ToDomainPaymentRequest(m)
	}
	return prs, nextToken, nil
}

func (r *PgxPaymentRequestRepository) SetAccountantReview(ctx context.Context, id int64, dueAmount decimal.Decimal, actorID string, at time.Time) (*domain.PaymentRequest, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	gate := gateFor("payment_requests", id).
		Set("stage", string(domain.StageManager)).
		Set("status", string(domain.StatusPendingManager)).
		Set("due_amount", dueAmount).
		Set("accountant_id", actorID).
		Set("accountant_at", at).
		Set("last_updated_at", at).
		Set("last_updated_by", actorID).
		Expect("stage", string(domain.StageAccountant)).
		Expect("status", string(domain.StatusPendingAccountant))

	if err := advance(ctx, r.Pool, gate); err != nil {
		return nil, err
	}
	return findPaymentRequestByID(ctx, r.Pool, id)
}

func (r *PgxPaymentRequestRepository) ApproveByManager(ctx context.Context, id int64, amountToPay decimal.Decimal, priority int, actorID string, at time.Time) (*domain.PaymentRequest, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// The due amount is locked so the validation and the write see the same
	// row even under concurrent approvals.
	var stage, status string
	var dueAmount *decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT stage, status, due_amount
		FROM payment_requests
		WHERE id = $1
		FOR UPDATE;
	`, id).Scan(&stage, &status, &dueAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock payment request %d: %w", id, err)
	}

	if stage != string(domain.StageManager) || status != string(domain.StatusPendingManager) {
		return nil, apperrors.ErrStateConflict
	}
	if dueAmount == nil {
		return nil, fmt.Errorf("payment request %d has no due amount: %w", id, apperrors.ErrStateConflict)
	}
	if amountToPay.GreaterThan(*dueAmount) {
		return nil, fmt.Errorf("amount to pay %s exceeds due amount %s: %w", amountToPay, dueAmount, apperrors.ErrValidation)
	}

	state, remaining := domain.PaymentStateFor(*dueAmount, amountToPay)
	gate := gateFor("payment_requests", id).
		Set("stage", string(domain.StageManagerDone)).
		Set("status", string(domain.ApprovedStatusFor(state))).
		Set("amount_to_pay", amountToPay).
		Set("priority", priority).
		Set("manager_id", actorID).
		Set("manager_at", at).
		Set("remaining_amount", remaining).
		Set("payment_state", string(state)).
		Set("last_updated_at", at).
		Set("last_updated_by", actorID).
		Expect("stage", string(domain.StageManager)).
		Expect("status", string(domain.StatusPendingManager))

	if err := advance(ctx, tx, gate); err != nil {
		return nil, err
	}

	pr, err := findPaymentRequestByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *PgxPaymentRequestRepository) RejectPaymentRequest(ctx context.Context, id int64, actorID string, reason string, at time.Time) (*domain.PaymentRequest, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	gate := gateFor("payment_requests", id).
		Set("status", string(domain.StatusRejected)).
		Set("rejected_by", actorID).
		Set("rejected_at", at).
		Set("rejected_reason", reason).
		Set("last_updated_at", at).
		Set("last_updated_by", actorID).
		ExpectNot("status", string(domain.StatusApprovedManager)).
		ExpectNot("status", string(domain.StatusApprovedManagerPartial)).
		ExpectNot("status", string(domain.StatusRejected))

	if err := advance(ctx, r.Pool, gate); err != nil {
		return nil, err
	}
	return findPaymentRequestByID(ctx, r.Pool, id)
}

func (r *PgxPaymentRequestRepository) RecordPaymentSyncOutcome(ctx context.Context, id int64, outcome domain.SyncOutcome) error {
	return recordSyncOutcome(ctx, r.Pool, "payment_requests", id, outcome)
}

// recordSyncOutcome stores the result of a Medad attempt on any workflow
// table. Workflow columns are deliberately untouched.
func recordSyncOutcome(ctx context.Context, db dbtx, table string, id int64, outcome domain.SyncOutcome) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	gate := gateFor(table, id).
		Set("sync_status", string(outcome.Status)).
		Set("sync_payload", nullableText(outcome.Payload)).
		Set("sync_response", nullableText(outcome.Response)).
		Set("sync_error", nullableText(outcome.Err)).
		Set("synced_at", outcome.At).
		Set("medad_ref", nullableText(outcome.MedadRef))

	if err := advance(ctx, db, gate); err != nil {
		if errors.Is(err, apperrors.ErrStateConflict) {
			// No expectations on the gate, so a conflict cannot happen here.
			return nil
		}
		return err
	}
	return nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
