package request

import (
	"strings"

	"erede_gateway/internal/domain/entities"

	"github.com/shopspring/decimal"
)

type CardRequest struct {
	HolderName      string `json:"holder_name"`
	Number          string `json:"number"`
	ExpirationMonth int    `json:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year"`
	SecurityCode    string `json:"security_code"`
	Token           string `json:"token"`
}

// AuthorizationRequest is the payload of POST /v1/transactions.
// Amount is in major units (1234.00).
type AuthorizationRequest struct {
	Capture        bool            `json:"capture"`
	Kind           string          `json:"kind"`
	Reference      string          `json:"reference" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	Installments   int             `json:"installments"`
	Card           CardRequest     `json:"card"`
	SoftDescriptor string          `json:"soft_descriptor"`
	Subscription   bool            `json:"subscription"`
}

// AmountRequest is the payload of capture and refund routes.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r AuthorizationRequest) ToEntity() entities.AuthorizationRequest {
	kind := entities.TransactionKind(strings.ToLower(strings.TrimSpace(r.Kind)))
	if kind == "" {
		kind = entities.TransactionKindCredit
	}
	installments := r.Installments
	if installments == 0 {
		installments = 1
	}

	return entities.AuthorizationRequest{
		CaptureAutomatically: r.Capture,
		Kind:                 kind,
		Reference:            strings.TrimSpace(r.Reference),
		Amount:               r.Amount,
		Installments:         installments,
		Card: entities.Card{
			HolderName:      strings.TrimSpace(r.Card.HolderName),
			Number:          strings.ReplaceAll(r.Card.Number, " ", ""),
			ExpirationMonth: r.Card.ExpirationMonth,
			ExpirationYear:  r.Card.ExpirationYear,
			SecurityCode:    strings.TrimSpace(r.Card.SecurityCode),
			Token:           strings.TrimSpace(r.Card.Token),
		},
		SoftDescriptor: r.SoftDescriptor,
		Subscription:   r.Subscription,
	}
}

func (r AmountRequest) ToCapture(tid string) entities.CaptureRequest {
	return entities.CaptureRequest{TransactionID: tid, Amount: r.Amount}
}

func (r AmountRequest) ToCancel(tid string) entities.CancelRequest {
	return entities.CancelRequest{TransactionID: tid, Amount: r.Amount}
}

func ToConsult(tid string) entities.ConsultRequest {
	return entities.ConsultRequest{TransactionID: tid}
}
