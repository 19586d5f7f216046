package erede

import (
	"erede_gateway/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// originERede marks the request as coming from an e.Rede integration.
const originERede = 1

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount to integer cents, truncating toward
// zero. Every operation that sends an amount goes through this function.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Truncate(0).IntPart()
}

// FromMinorUnits converts integer cents back to a major-unit amount.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

type authorizeParams struct {
	Capture                bool   `json:"capture"`
	Kind                   string `json:"kind"`
	Reference              string `json:"reference"`
	Amount                 int64  `json:"amount"`
	Installments           int    `json:"installments"`
	CardHolderName         string `json:"cardHolderName"`
	CardNumber             string `json:"cardNumber"`
	ExpirationMonth        int    `json:"expirationMonth"`
	ExpirationYear         int    `json:"expirationYear"`
	SecurityCode           string `json:"securityCode"`
	SoftDescriptor         string `json:"softDescriptor"`
	Subscription           bool   `json:"subscription"`
	Origin                 int    `json:"origin"`
	DistributorAffiliation int    `json:"distributorAffiliation"`
}

type amountParams struct {
	Amount int64 `json:"amount"`
}

type consultParams struct {
	TID string `json:"tid"`
}

func transcodeAuthorize(req entities.AuthorizationRequest, affiliation int) authorizeParams {
	return authorizeParams{
		Capture:                req.CaptureAutomatically,
		Kind:                   string(req.Kind),
		Reference:              req.Reference,
		Amount:                 ToMinorUnits(req.Amount),
		Installments:           req.Installments,
		CardHolderName:         req.Card.HolderName,
		CardNumber:             req.Card.Number,
		ExpirationMonth:        req.Card.ExpirationMonth,
		ExpirationYear:         req.Card.ExpirationYear,
		SecurityCode:           req.Card.SecurityCode,
		SoftDescriptor:         req.SoftDescriptor,
		Subscription:           req.Subscription,
		Origin:                 originERede,
		DistributorAffiliation: affiliation,
	}
}

func transcodeCapture(req entities.CaptureRequest) amountParams {
	return amountParams{Amount: ToMinorUnits(req.Amount)}
}

func transcodeConsult(req entities.ConsultRequest) consultParams {
	return consultParams{TID: req.TransactionID}
}

func transcodeCancel(req entities.CancelRequest) amountParams {
	return amountParams{Amount: ToMinorUnits(req.Amount)}
}
