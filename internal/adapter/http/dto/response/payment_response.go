package response

import (
	"encoding/json"
	"time"

	"erede_gateway/internal/domain/entities"

	"github.com/shopspring/decimal"
)

type ReturnResponse struct {
	Code    *string `json:"code"`
	Message string  `json:"message"`
}

type CaptureInfoResponse struct {
	NSU      string          `json:"nsu"`
	DateTime time.Time       `json:"date_time"`
	Amount   decimal.Decimal `json:"amount"`
}

type RefundInfoResponse struct {
	RefundID string          `json:"refund_id"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	DateTime *time.Time      `json:"date_time,omitempty"`
}

// TransactionResponse is the body returned by every payment operation route.
// Fields a provider did not send are omitted.
type TransactionResponse struct {
	TransactionID     *string              `json:"tid,omitempty"`
	Reference         *string              `json:"reference,omitempty"`
	NSU               string               `json:"nsu"`
	DateTime          time.Time            `json:"date_time"`
	Return            ReturnResponse       `json:"return"`
	ProviderStatus    int                  `json:"provider_http_status"`
	AuthorizationCode *string              `json:"authorization_code,omitempty"`
	Amount            *decimal.Decimal     `json:"amount,omitempty"`
	Status            *string              `json:"status,omitempty"`
	CancellationID    string               `json:"cancellation_id,omitempty"`
	Capture           *CaptureInfoResponse `json:"capture,omitempty"`
	Refunds           []RefundInfoResponse `json:"refunds,omitempty"`
}

func fromPaymentResponse(p entities.PaymentResponse) TransactionResponse {
	return TransactionResponse{
		TransactionID:  p.TransactionID,
		Reference:      p.Reference,
		NSU:            p.NSU,
		DateTime:       p.DateTime,
		Return:         ReturnResponse{Code: p.Return.Code, Message: p.Return.Message},
		ProviderStatus: p.HTTPStatus,
	}
}

func FromAuthorization(r entities.AuthorizationResponse) TransactionResponse {
	out := fromPaymentResponse(r.PaymentResponse)
	out.AuthorizationCode = r.AuthorizationCode
	out.Amount = r.Amount
	return out
}

func FromCapture(r entities.CaptureResponse) TransactionResponse {
	return fromPaymentResponse(r.PaymentResponse)
}

func FromConsult(r entities.ConsultResponse) TransactionResponse {
	out := fromPaymentResponse(r.PaymentResponse)
	out.Status = r.Status
	out.Amount = r.Amount
	if r.Capture != nil {
		out.Capture = &CaptureInfoResponse{NSU: r.Capture.NSU, DateTime: r.Capture.DateTime, Amount: r.Capture.Amount}
	}
	for _, rf := range r.Refunds {
		out.Refunds = append(out.Refunds, RefundInfoResponse{RefundID: rf.RefundID, Status: rf.Status, Amount: rf.Amount, DateTime: rf.DateTime})
	}
	return out
}

func FromCancel(r entities.CancelResponse) TransactionResponse {
	out := fromPaymentResponse(r.PaymentResponse)
	out.CancellationID = r.CancellationID
	out.Amount = r.Amount
	return out
}

type TransactionLogResponse struct {
	ID            string          `json:"id"`
	Provider      string          `json:"provider"`
	Operation     string          `json:"operation"`
	TransactionID string          `json:"tid"`
	Reference     string          `json:"reference,omitempty"`
	NSU           string          `json:"nsu,omitempty"`
	ReturnCode    string          `json:"return_code,omitempty"`
	ReturnMessage string          `json:"return_message,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	CardLast4     string          `json:"card_last4,omitempty"`
	HTTPStatus    int             `json:"provider_http_status"`
	CreatedAt     time.Time       `json:"created_at"`

	ProviderResponse json.RawMessage `json:"provider_response,omitempty"`
}

func FromPaymentTransactions(items []entities.PaymentTransaction) []TransactionLogResponse {
	out := make([]TransactionLogResponse, 0, len(items))
	for _, t := range items {
		out = append(out, TransactionLogResponse{
			ID:               t.ID,
			Provider:         t.Provider,
			Operation:        string(t.Operation),
			TransactionID:    t.TransactionID,
			Reference:        t.Reference,
			NSU:              t.NSU,
			ReturnCode:       t.ReturnCode,
			ReturnMessage:    t.ReturnMessage,
			Amount:           decimal.New(t.AmountMinor, -2),
			CardLast4:        t.CardLast4,
			HTTPStatus:       t.HTTPStatus,
			CreatedAt:        t.CreatedAt,
			ProviderResponse: t.ProviderResponse,
		})
	}
	return out
}
