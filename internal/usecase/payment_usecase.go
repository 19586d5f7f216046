package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"erede_gateway/internal/domain/entities"
	"erede_gateway/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidTransactionID   = errors.New("invalid tid")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidInstallments    = errors.New("invalid installments")
	ErrInvalidCard            = errors.New("invalid card")
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrGatewayNotConfigured   = errors.New("payment gateway not configured")
)

// IPaymentUseCase drives the provider-neutral payment operations and keeps
// the transaction log.
type IPaymentUseCase interface {
	Authorize(ctx context.Context, req entities.AuthorizationRequest) (entities.AuthorizationResponse, error)
	Capture(ctx context.Context, req entities.CaptureRequest) (entities.CaptureResponse, error)
	Consult(ctx context.Context, req entities.ConsultRequest) (entities.ConsultResponse, error)
	Cancel(ctx context.Context, req entities.CancelRequest) (entities.CancelResponse, error)
	History(ctx context.Context, tid string) ([]entities.PaymentTransaction, error)
}

type PaymentUseCase struct {
	repo    interfaces.ITransactionRepository
	gateway interfaces.IPaymentGateway
	logger  *zap.Logger
	now     func() time.Time
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.ITransactionRepository, gateway interfaces.IPaymentGateway, logger *zap.Logger) *PaymentUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentUseCase{repo: repo, gateway: gateway, logger: logger.Named("usecase"), now: time.Now}
}

func (u *PaymentUseCase) Authorize(ctx context.Context, req entities.AuthorizationRequest) (entities.AuthorizationResponse, error) {
	log := u.logger.With(zap.String("operation", "authorize"), zap.String("reference", req.Reference))
	log.Info("[payment][usecase] authorize start", zap.String("card_last4", req.Card.Last4()), zap.String("amount", req.Amount.String()))

	if err := validateAuthorization(req); err != nil {
		log.Info("[payment][usecase] invalid authorization request", zap.Error(err))
		return entities.AuthorizationResponse{}, err
	}
	if u.gateway == nil {
		return entities.AuthorizationResponse{}, ErrGatewayNotConfigured
	}

	resp, err := u.gateway.Authorize(ctx, req)
	if err != nil {
		log.Error("[payment][usecase] payment gateway failed", zap.Error(err))
		return entities.AuthorizationResponse{}, err
	}

	tx := u.newTransaction(entities.PaymentOperationAuthorize, resp.PaymentResponse, resp)
	tx.AmountMinor = minorUnits(req.Amount)
	tx.CardLast4 = req.Card.Last4()
	if tx.Reference == "" {
		tx.Reference = req.Reference
	}
	u.record(ctx, tx)

	log.Info("[payment][usecase] authorize done", zap.String("tid", tx.TransactionID), zap.String("return_code", tx.ReturnCode))
	return resp, nil
}

func (u *PaymentUseCase) Capture(ctx context.Context, req entities.CaptureRequest) (entities.CaptureResponse, error) {
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	log := u.logger.With(zap.String("operation", "capture"), zap.String("tid", req.TransactionID))
	log.Info("[payment][usecase] capture start", zap.String("amount", req.Amount.String()))

	if req.TransactionID == "" {
		return entities.CaptureResponse{}, ErrInvalidTransactionID
	}
	if !req.Amount.IsPositive() {
		return entities.CaptureResponse{}, ErrInvalidAmount
	}
	if u.gateway == nil {
		return entities.CaptureResponse{}, ErrGatewayNotConfigured
	}

	resp, err := u.gateway.Capture(ctx, req)
	if err != nil {
		log.Error("[payment][usecase] payment gateway failed", zap.Error(err))
		return entities.CaptureResponse{}, err
	}

	tx := u.newTransaction(entities.PaymentOperationCapture, resp.PaymentResponse, resp)
	tx.AmountMinor = minorUnits(req.Amount)
	if tx.TransactionID == "" {
		tx.TransactionID = req.TransactionID
	}
	u.record(ctx, tx)
	return resp, nil
}

func (u *PaymentUseCase) Consult(ctx context.Context, req entities.ConsultRequest) (entities.ConsultResponse, error) {
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	log := u.logger.With(zap.String("operation", "consult"), zap.String("tid", req.TransactionID))

	if req.TransactionID == "" {
		return entities.ConsultResponse{}, ErrInvalidTransactionID
	}
	if u.gateway == nil {
		return entities.ConsultResponse{}, ErrGatewayNotConfigured
	}

	resp, err := u.gateway.Consult(ctx, req)
	if err != nil {
		log.Error("[payment][usecase] payment gateway failed", zap.Error(err))
		return entities.ConsultResponse{}, err
	}

	tx := u.newTransaction(entities.PaymentOperationConsult, resp.PaymentResponse, resp)
	if tx.TransactionID == "" {
		tx.TransactionID = req.TransactionID
	}
	u.record(ctx, tx)
	return resp, nil
}

// Cancel refunds all or part of a transaction.
func (u *PaymentUseCase) Cancel(ctx context.Context, req entities.CancelRequest) (entities.CancelResponse, error) {
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	log := u.logger.With(zap.String("operation", "cancel"), zap.String("tid", req.TransactionID))
	log.Info("[payment][usecase] cancel start", zap.String("amount", req.Amount.String()))

	if req.TransactionID == "" {
		return entities.CancelResponse{}, ErrInvalidTransactionID
	}
	if !req.Amount.IsPositive() {
		return entities.CancelResponse{}, ErrInvalidAmount
	}
	if u.gateway == nil {
		return entities.CancelResponse{}, ErrGatewayNotConfigured
	}

	resp, err := u.gateway.Cancel(ctx, req)
	if err != nil {
		log.Error("[payment][usecase] payment gateway failed", zap.Error(err))
		return entities.CancelResponse{}, err
	}

	tx := u.newTransaction(entities.PaymentOperationCancel, resp.PaymentResponse, resp)
	tx.AmountMinor = minorUnits(req.Amount)
	if tx.TransactionID == "" {
		tx.TransactionID = req.TransactionID
	}
	u.record(ctx, tx)

	log.Info("[payment][usecase] cancel done", zap.String("cancellation_id", resp.CancellationID), zap.String("return_code", tx.ReturnCode))
	return resp, nil
}

func (u *PaymentUseCase) History(ctx context.Context, tid string) ([]entities.PaymentTransaction, error) {
	tid = strings.TrimSpace(tid)
	if tid == "" {
		return nil, ErrInvalidTransactionID
	}
	if u.repo == nil {
		return nil, errors.New("transaction repository not configured")
	}

	items, err := u.repo.ListByTransactionID(ctx, tid)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrTransactionNotFound
	}
	return items, nil
}

func (u *PaymentUseCase) newTransaction(op entities.PaymentOperation, base entities.PaymentResponse, full any) entities.PaymentTransaction {
	tx := entities.PaymentTransaction{
		ID:            uuid.NewString(),
		Provider:      u.gateway.Name(),
		Operation:     op,
		NSU:           base.NSU,
		ReturnCode:    base.Return.CodeOrEmpty(),
		ReturnMessage: base.Return.Message,
		HTTPStatus:    base.HTTPStatus,
		CreatedAt:     u.now().UTC(),
	}
	if base.TransactionID != nil {
		tx.TransactionID = *base.TransactionID
	}
	if base.Reference != nil {
		tx.Reference = *base.Reference
	}
	if b, err := json.Marshal(full); err == nil {
		tx.ProviderResponse = b
	}
	return tx
}

// record persists a transaction log entry. The provider call already happened,
// so a storage failure is logged and never returned to the caller.
func (u *PaymentUseCase) record(ctx context.Context, tx entities.PaymentTransaction) {
	if u.repo == nil {
		u.logger.Warn("[payment][usecase] transaction repository not configured; skipping log", zap.String("tid", tx.TransactionID))
		return
	}
	// tid is the tid-index key; DynamoDB rejects an empty string there.
	if tx.TransactionID == "" {
		u.logger.Warn("[payment][usecase] provider reply has no tid; skipping log",
			zap.String("id", tx.ID),
			zap.String("operation", string(tx.Operation)),
			zap.String("nsu", tx.NSU),
		)
		return
	}
	if _, err := u.repo.Create(ctx, tx); err != nil {
		u.logger.Error("[payment][usecase] transaction log create failed",
			zap.String("id", tx.ID),
			zap.String("tid", tx.TransactionID),
			zap.String("operation", string(tx.Operation)),
			zap.Error(err),
		)
	}
}

func validateAuthorization(req entities.AuthorizationRequest) error {
	if !req.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if req.Installments < 1 {
		return ErrInvalidInstallments
	}
	switch req.Kind {
	case entities.TransactionKindCredit, entities.TransactionKindDebit:
	default:
		return ErrInvalidTransactionKind
	}
	c := req.Card
	if c.Token == "" {
		if strings.TrimSpace(c.HolderName) == "" || strings.TrimSpace(c.Number) == "" || strings.TrimSpace(c.SecurityCode) == "" {
			return ErrInvalidCard
		}
		if c.ExpirationMonth < 1 || c.ExpirationMonth > 12 || c.ExpirationYear < 1 {
			return ErrInvalidCard
		}
	}
	return nil
}

// minorUnits mirrors the gateways' truncating conversion for the log.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Truncate(0).IntPart()
}
