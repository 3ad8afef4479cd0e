package domain

import "github.com/shopspring/decimal"

// LineItem belongs to exactly one order or quotation. VAT and subtotal are
// computed when the parent's items are written and are never recomputed
// independently of them.
type LineItem struct {
	LineID           string          `json:"lineID"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	LineTotal        decimal.Decimal `json:"lineTotal"` // unitPrice * quantity, before VAT
	VAT              decimal.Decimal `json:"vat"`
	Subtotal         decimal.Decimal `json:"subtotal"` // lineTotal + vat
	MedadProductCode *string         `json:"medadProductCode,omitempty"`
}

// Totals are the elementwise sums of a record's line items.
type Totals struct {
	Total    decimal.Decimal `json:"total"` // sum of line totals, before VAT
	VAT      decimal.Decimal `json:"vat"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
