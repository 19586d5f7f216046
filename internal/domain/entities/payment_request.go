package entities

import "github.com/shopspring/decimal"

// TransactionKind is the card product used by an authorization.
type TransactionKind string

const (
	TransactionKindCredit TransactionKind = "credit"
	TransactionKindDebit  TransactionKind = "debit"
)

// Monetary representation:
//   - Amounts are decimal major-unit values (1234.00 means 1234 currency units).
//   - Conversion to provider minor units happens inside each gateway adapter.

type AuthorizationRequest struct {
	CaptureAutomatically bool            `json:"capture"`
	Kind                 TransactionKind `json:"kind"`
	Reference            string          `json:"reference"`
	Amount               decimal.Decimal `json:"amount"`
	Installments         int             `json:"installments"`
	Card                 Card            `json:"card"`
	SoftDescriptor       string          `json:"soft_descriptor,omitempty"`
	Subscription         bool            `json:"subscription"`
}

type CaptureRequest struct {
	TransactionID string          `json:"tid"`
	Amount        decimal.Decimal `json:"amount"`
}

type ConsultRequest struct {
	TransactionID string `json:"tid"`
}

// CancelRequest refunds all or part of a transaction.
type CancelRequest struct {
	TransactionID string          `json:"tid"`
	Amount        decimal.Decimal `json:"amount"`
}
