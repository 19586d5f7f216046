package entities

import (
	"encoding/json"
	"time"
)

// PaymentOperation identifies which gateway call produced a transaction log entry.
type PaymentOperation string

const (
	PaymentOperationAuthorize PaymentOperation = "authorize"
	PaymentOperationCapture   PaymentOperation = "capture"
	PaymentOperationConsult   PaymentOperation = "consult"
	PaymentOperationCancel    PaymentOperation = "cancel"
)

// PaymentTransaction is one entry of the transaction log persisted by the service.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (tid-index): tid
//
// Provider payload:
//   - ProviderResponse keeps the decoded response for traceability/audit.
//   - Card data is never stored except for the last four digits.

type PaymentTransaction struct {
	ID            string           `json:"id"`
	Provider      string           `json:"provider"`
	Operation     PaymentOperation `json:"operation"`
	TransactionID string           `json:"tid"`
	Reference     string           `json:"reference,omitempty"`
	NSU           string           `json:"nsu"`
	ReturnCode    string           `json:"return_code,omitempty"`
	ReturnMessage string           `json:"return_message,omitempty"`
	AmountMinor   int64            `json:"amount_minor,omitempty"`
	CardLast4     string           `json:"card_last4,omitempty"`
	HTTPStatus    int              `json:"http_status"`
	CreatedAt     time.Time        `json:"created_at"`

	ProviderResponse json.RawMessage `json:"provider_response,omitempty"`
}
