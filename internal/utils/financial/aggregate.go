// Package financial computes per-line VAT/subtotals and record-level totals
// for priced line items. The computation is pure and is re-run whenever a
// record's line items are replaced; line figures are never cached apart from
// their parent.
package financial

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/qistas/opsflow_backend/internal/apperrors"
	"github.com/qistas/opsflow_backend/internal/core/domain"
)

// VATRate is the fixed VAT applied to every line.
var VATRate = decimal.New(15, -2) // 0.15

// Aggregate computes lineTotal/vat/subtotal for each item and the elementwise
// record totals. Items arrive with Description, Quantity, UnitPrice (and
// optionally MedadProductCode) set; the derived fields are overwritten.
// A non-positive quantity or unit price fails the whole set.
func Aggregate(items []domain.LineItem) ([]domain.LineItem, domain.Totals, error) {
	if len(items) == 0 {
		return nil, domain.Totals{}, fmt.Errorf("%w: at least one line item is required", apperrors.ErrValidation)
	}

	out := make([]domain.LineItem, len(items))
	totals := domain.Totals{
		Total:    decimal.Zero,
		VAT:      decimal.Zero,
		Subtotal: decimal.Zero,
	}

	for i, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, domain.Totals{}, fmt.Errorf("%w: line %d quantity must be greater than zero", apperrors.ErrValidation, i+1)
		}
		if !item.UnitPrice.IsPositive() {
			return nil, domain.Totals{}, fmt.Errorf("%w: line %d unit price must be greater than zero", apperrors.ErrValidation, i+1)
		}

		item.LineTotal = item.UnitPrice.Mul(item.Quantity)
		item.VAT = item.LineTotal.Mul(VATRate)
		item.Subtotal = item.LineTotal.Add(item.VAT)

		totals.Total = totals.Total.Add(item.LineTotal)
		totals.VAT = totals.VAT.Add(item.VAT)
		totals.Subtotal = totals.Subtotal.Add(item.Subtotal)

		out[i] = item
	}

	return out, totals, nil
}
