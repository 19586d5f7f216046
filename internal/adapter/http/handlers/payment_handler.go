package handlers

import (
	"errors"
	"net/http"

	"erede_gateway/internal/adapter/http/dto/request"
	"erede_gateway/internal/adapter/http/dto/response"
	"erede_gateway/internal/usecase"
	"erede_gateway/internal/usecase/interfaces"
	"erede_gateway/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler handles HTTP requests for card transactions.
type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
	logger  *zap.Logger
}

func NewPaymentHandler(uc usecase.IPaymentUseCase, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{usecase: uc, logger: logger.Named("handler")}
}

// Authorize godoc
// @Summary      Authorize a card transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        body  body      request.AuthorizationRequest  true  "Authorization"
// @Success      201   {object}  response.TransactionResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      502   {object}  pkg.HTTPError
// @Router       /transactions [post]
func (h *PaymentHandler) Authorize(c *gin.Context) {
	var body request.AuthorizationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Info("[payment][handler] invalid authorize payload", zap.Error(err))
		h.abort(c, invalidRequest())
		return
	}

	resp, err := h.usecase.Authorize(c.Request.Context(), body.ToEntity())
	if err != nil {
		h.fail(c, "authorize", "", err)
		return
	}
	h.logger.Info("[payment][handler] authorize success", zap.String("return_code", resp.Return.CodeOrEmpty()))

	c.JSON(http.StatusCreated, response.FromAuthorization(resp))
}

// Capture godoc
// @Summary      Capture a previously authorized transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        tid   path      string                  true  "Transaction ID"
// @Param        body  body      request.AmountRequest   true  "Amount to capture"
// @Success      200   {object}  response.TransactionResponse
// @Failure      400   {object}  pkg.HTTPError
// @Router       /transactions/{tid} [put]
func (h *PaymentHandler) Capture(c *gin.Context) {
	tid := c.Param("tid")
	var body request.AmountRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Info("[payment][handler] invalid capture payload", zap.String("tid", tid), zap.Error(err))
		h.abort(c, invalidRequest())
		return
	}

	resp, err := h.usecase.Capture(c.Request.Context(), body.ToCapture(tid))
	if err != nil {
		h.fail(c, "capture", tid, err)
		return
	}

	c.JSON(http.StatusOK, response.FromCapture(resp))
}

// Consult godoc
// @Summary      Query a transaction at the provider
// @Tags         transactions
// @Produce      json
// @Param        tid   path      string  true  "Transaction ID"
// @Success      200   {object}  response.TransactionResponse
// @Failure      502   {object}  pkg.HTTPError
// @Router       /transactions/{tid} [get]
func (h *PaymentHandler) Consult(c *gin.Context) {
	tid := c.Param("tid")

	resp, err := h.usecase.Consult(c.Request.Context(), request.ToConsult(tid))
	if err != nil {
		h.fail(c, "consult", tid, err)
		return
	}

	c.JSON(http.StatusOK, response.FromConsult(resp))
}

// Cancel godoc
// @Summary      Cancel (refund) a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        tid   path      string                  true  "Transaction ID"
// @Param        body  body      request.AmountRequest   true  "Amount to cancel"
// @Success      201   {object}  response.TransactionResponse
// @Failure      400   {object}  pkg.HTTPError
// @Router       /transactions/{tid}/refunds [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	tid := c.Param("tid")
	var body request.AmountRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Info("[payment][handler] invalid cancel payload", zap.String("tid", tid), zap.Error(err))
		h.abort(c, invalidRequest())
		return
	}

	resp, err := h.usecase.Cancel(c.Request.Context(), body.ToCancel(tid))
	if err != nil {
		h.fail(c, "cancel", tid, err)
		return
	}

	c.JSON(http.StatusCreated, response.FromCancel(resp))
}

// History godoc
// @Summary      List the recorded operations of a transaction
// @Tags         transactions
// @Produce      json
// @Param        tid   path      string  true  "Transaction ID"
// @Success      200   {array}   response.TransactionLogResponse
// @Failure      404   {object}  pkg.HTTPError
// @Router       /transactions/{tid}/history [get]
func (h *PaymentHandler) History(c *gin.Context) {
	tid := c.Param("tid")

	items, err := h.usecase.History(c.Request.Context(), tid)
	if err != nil {
		h.fail(c, "history", tid, err)
		return
	}

	c.JSON(http.StatusOK, response.FromPaymentTransactions(items))
}

func (h *PaymentHandler) fail(c *gin.Context, op, tid string, err error) {
	appErr := mapPaymentError(err)
	fields := []zap.Field{zap.String("operation", op), zap.String("tid", tid), zap.Int("status", appErr.HTTPStatus), zap.Error(err)}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error("[payment][handler] request failed", fields...)
	} else {
		h.logger.Info("[payment][handler] request rejected", fields...)
	}
	h.abort(c, appErr)
}

func (h *PaymentHandler) abort(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func invalidRequest() *pkg.AppError {
	return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidTransactionID),
		errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrInvalidInstallments),
		errors.Is(err, usecase.ErrInvalidCard),
		errors.Is(err, usecase.ErrInvalidTransactionKind),
		errors.Is(err, interfaces.ErrGatewayInvalidRequest):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrTransactionNotFound):
		return pkg.NewDomainErrorSimple("TRANSACTION_NOT_FOUND", "Transaction not found", http.StatusNotFound)
	case errors.Is(err, interfaces.ErrGatewayRejected):
		return pkg.NewDomainError("PAYMENT_PROVIDER_REJECTED", "Payment provider rejected the request", err, http.StatusUnprocessableEntity)
	case errors.Is(err, interfaces.ErrGatewayDecoding):
		return pkg.NewDomainError("PAYMENT_PROVIDER_BAD_RESPONSE", "Payment provider returned an unexpected response", err, http.StatusBadGateway)
	case errors.Is(err, interfaces.ErrGatewayTransport):
		return pkg.NewDomainError("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider unavailable", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrGatewayNotConfigured), errors.Is(err, interfaces.ErrGatewayConfiguration):
		return pkg.NewDomainError("PAYMENT_PROVIDER_NOT_CONFIGURED", "Payment provider not configured", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
