package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/qistas/opsflow_backend/internal/apperrors"
)

// assign is one SET clause of a guarded update.
type assign struct {
	col string
	val any
}

// cond is one expected-state predicate of a guarded update.
type cond struct {
	col string
	op  string
	val any
}

// stageGate is a typed conditional update: it advances exactly one row and
// only when every expected predicate still holds. Columns are supplied by
// repository code, never by callers, so the generated SQL is closed over a
// fixed vocabulary.
type stageGate struct {
	table  string
	id     int64
	sets   []assign
	expect []cond
}

func gateFor(table string, id int64) *stageGate {
	return &stageGate{table: table, id: id}
}

func (g *stageGate) Set(col string, val any) *stageGate {
	g.sets = append(g.sets, assign{col: col, val: val})
	return g
}

// Expect requires col to currently equal val.
func (g *stageGate) Expect(col string, val any) *stageGate {
	g.expect = append(g.expect, cond{col: col, op: "=", val: val})
	return g
}

// ExpectNot requires col to currently differ from val.
func (g *stageGate) ExpectNot(col string, val any) *stageGate {
	g.expect = append(g.expect, cond{col: col, op: "<>", val: val})
	return g
}

func (g *stageGate) build() (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(g.sets)+len(g.expect)+1)

	sb.WriteString("UPDATE ")
	sb.WriteString(g.table)
	sb.WriteString(" SET ")
	for i, a := range g.sets {
		if i > 0 {
			sb.WriteString(", ")
		}
		args = append(args, a.val)
		sb.WriteString(a.col)
		sb.WriteString(" = $")
		sb.WriteString(strconv.Itoa(len(args)))
	}

	args = append(args, g.id)
	sb.WriteString(" WHERE id = $")
	sb.WriteString(strconv.Itoa(len(args)))
	for _, c := range g.expect {
		args = append(args, c.val)
		sb.WriteString(" AND ")
		sb.WriteString(c.col)
		sb.WriteString(" ")
		sb.WriteString(c.op)
		sb.WriteString(" $")
		sb.WriteString(strconv.Itoa(len(args)))
	}

	return sb.String(), args
}

// advance executes the guarded update on db. Zero rows affected is
// disambiguated with a follow-up existence check: a missing row maps to
// apperrors.ErrNotFound, a row whose state moved on maps to
// apperrors.ErrStateConflict.
func advance(ctx context.Context, db dbtx, g *stageGate) error {
	query, args := g.build()
	cmdTag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", g.table, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+g.table+" WHERE id = $1)", g.id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check %s existence: %w", g.table, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrStateConflict
}
