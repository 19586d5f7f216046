package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnCodeSuccess is the provider convention for an accepted operation.
// Gateways never enforce it; callers decide what a code means.
const ReturnCodeSuccess = "00"

// ReturnCode is the provider outcome signal. Code is nil when the provider did
// not send one for that reply.
type ReturnCode struct {
	Code    *string `json:"code"`
	Message string  `json:"message"`
}

func NewReturnCode(code *string, message string) ReturnCode {
	return ReturnCode{Code: code, Message: message}
}

func (r ReturnCode) IsSuccess() bool {
	return r.Code != nil && *r.Code == ReturnCodeSuccess
}

// CodeOrEmpty returns the code or "" when absent.
func (r ReturnCode) CodeOrEmpty() string {
	if r.Code == nil {
		return ""
	}
	return *r.Code
}

// Outcome is the provider-neutral view shared by every gateway response.
type Outcome interface {
	GetReturnCode() ReturnCode
	GetTransactionID() *string
	GetNSU() string
}

// PaymentResponse holds the fields common to every provider reply.
//
// Optional fields:
//   - Reference and TransactionID are nil when the provider omitted them.
//   - HTTPStatus is the raw status of the provider call, kept for diagnostics.
type PaymentResponse struct {
	Reference     *string    `json:"reference,omitempty"`
	TransactionID *string    `json:"tid,omitempty"`
	NSU           string     `json:"nsu"`
	DateTime      time.Time  `json:"date_time"`
	Return        ReturnCode `json:"return"`
	HTTPStatus    int        `json:"http_status"`
}

var _ Outcome = PaymentResponse{}

func (r PaymentResponse) GetReturnCode() ReturnCode { return r.Return }
func (r PaymentResponse) GetTransactionID() *string { return r.TransactionID }
func (r PaymentResponse) GetNSU() string            { return r.NSU }

type AuthorizationResponse struct {
	PaymentResponse
	AuthorizationCode *string          `json:"authorization_code,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
}

type CaptureResponse struct {
	PaymentResponse
}

// CaptureInfo and RefundInfo describe the settlement history returned by a consult.

type CaptureInfo struct {
	NSU      string          `json:"nsu"`
	DateTime time.Time       `json:"date_time"`
	Amount   decimal.Decimal `json:"amount"`
}

type RefundInfo struct {
	RefundID string          `json:"refund_id"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	DateTime *time.Time      `json:"date_time,omitempty"`
}

type ConsultResponse struct {
	PaymentResponse
	Status  *string          `json:"status,omitempty"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Capture *CaptureInfo     `json:"capture,omitempty"`
	Refunds []RefundInfo     `json:"refunds,omitempty"`
}

type CancelResponse struct {
	PaymentResponse
	CancellationID string           `json:"cancellation_id"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
}
