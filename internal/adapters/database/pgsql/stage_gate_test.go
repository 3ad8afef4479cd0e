package pgsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageGateBuild(t *testing.T) {
	gate := gateFor("payment_requests", 7).
		Set("stage", "manager").
		Set("status", "pending_manager").
		Expect("stage", "accountant").
		Expect("status", "pending_accountant")

	query, args := gate.build()

	assert.Equal(t,
		"UPDATE payment_requests SET stage = $1, status = $2 WHERE id = $3 AND stage = $4 AND status = $5",
		query)
	assert.Equal(t, []any{"manager", "pending_manager", int64(7), "accountant", "pending_accountant"}, args)
}

func TestStageGateBuild_ExpectNot(t *testing.T) {
	gate := gateFor("orders", 12).
		Set("status", "rejected").
		ExpectNot("status", "delivered")

	query, args := gate.build()

	assert.Equal(t,
		"UPDATE orders SET status = $1 WHERE id = $2 AND status <> $3",
		query)
	assert.Equal(t, []any{"rejected", int64(12), "delivered"}, args)
}

func TestStageGateBuild_NoExpectations(t *testing.T) {
	gate := gateFor("quotations", 3).Set("sync_status", "FAILED")

	query, args := gate.build()

	assert.Equal(t, "UPDATE quotations SET sync_status = $1 WHERE id = $2", query)
	assert.Equal(t, []any{"FAILED", int64(3)}, args)
}
