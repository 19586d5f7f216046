package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"erede_gateway/internal/domain/entities"
	"erede_gateway/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProviderName identifies Mercado Pago in logs, metrics and the transaction log.
const ProviderName = "mercadopago"

var (
	ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrMissingCardToken              = fmt.Errorf("mercado pago requires a card token: %w", interfaces.ErrGatewayInvalidRequest)
	ErrInvalidPaymentID              = fmt.Errorf("mercado pago payment id must be numeric: %w", interfaces.ErrGatewayInvalidRequest)
)

// paymentClient is the subset of payment.Client the gateway calls.
type paymentClient interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
	Get(ctx context.Context, id int) (*payment.Response, error)
	CaptureAmount(ctx context.Context, id int, amount float64) (*payment.Response, error)
	Cancel(ctx context.Context, id int) (*payment.Response, error)
}

// Gateway implements the payment gateway contract on top of the Mercado Pago SDK.
// Authorizations need a tokenized card (entities.Card.Token).
type Gateway struct {
	client                 paymentClient
	payerEmail             string
	defaultPaymentMethodID string
	logger                 *zap.Logger
}

var _ interfaces.IPaymentGateway = (*Gateway)(nil)

type Config struct {
	AccessToken string
	// PayerEmail is sent as payer.email on authorizations.
	PayerEmail string
	// DefaultPaymentMethodID is used when the card brand cannot be derived from the number.
	DefaultPaymentMethodID string
}

func NewGateway(cfg Config, logger *zap.Logger) (*Gateway, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("provider", ProviderName))

	if strings.TrimSpace(cfg.AccessToken) == "" {
		logger.Error("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	sdkCfg, err := config.New(cfg.AccessToken)
	if err != nil {
		logger.Error("[payment][gateway] failed creating sdk config", zap.Error(err))
		return nil, err
	}
	logger.Info("[payment][gateway] Mercado Pago client initialized")

	return newGateway(payment.NewClient(sdkCfg), cfg, logger), nil
}

func newGateway(client paymentClient, cfg Config, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	method := cfg.DefaultPaymentMethodID
	if method == "" {
		method = "master"
	}
	return &Gateway{client: client, payerEmail: cfg.PayerEmail, defaultPaymentMethodID: method, logger: logger}
}

func (g *Gateway) Name() string { return ProviderName }

func (g *Gateway) Authorize(ctx context.Context, req entities.AuthorizationRequest) (entities.AuthorizationResponse, error) {
	if strings.TrimSpace(req.Card.Token) == "" {
		return entities.AuthorizationResponse{}, ErrMissingCardToken
	}
	g.logger.Info("[payment][gateway] create start", zap.String("reference", req.Reference))

	// Built as JSON and decoded into the SDK type so the wire keys stay explicit.
	body := map[string]any{
		"transaction_amount": req.Amount.InexactFloat64(),
		"token":              req.Card.Token,
		"installments":       req.Installments,
		"payment_method_id":  g.paymentMethodID(req.Card),
		"external_reference": req.Reference,
		"description":        fmt.Sprintf("Order %s", req.Reference),
		"capture":            req.CaptureAutomatically,
	}
	if req.SoftDescriptor != "" {
		body["statement_descriptor"] = req.SoftDescriptor
	}
	if g.payerEmail != "" {
		body["payer"] = map[string]any{"email": g.payerEmail, "type": "customer"}
	}

	var sdkReq payment.Request
	b, err := json.Marshal(body)
	if err != nil {
		return entities.AuthorizationResponse{}, err
	}
	if err := json.Unmarshal(b, &sdkReq); err != nil {
		g.logger.Error("[payment][gateway] payload unmarshal failed", zap.Error(err))
		return entities.AuthorizationResponse{}, err
	}

	resp, err := g.client.Create(ctx, sdkReq)
	if err != nil {
		g.logger.Error("[payment][gateway] sdk create failed", zap.Error(err))
		return entities.AuthorizationResponse{}, classify(err)
	}

	reply, err := toReply(resp)
	if err != nil {
		return entities.AuthorizationResponse{}, err
	}
	g.logger.Info("[payment][gateway] create success", zap.Int64("provider_payment_id", reply.ID), zap.String("provider_status", reply.Status))

	amount := decimal.NewFromFloat(reply.TransactionAmount)
	out := entities.AuthorizationResponse{PaymentResponse: reply.paymentResponse(), Amount: &amount}
	if reply.AuthorizationCode != "" {
		code := reply.AuthorizationCode
		out.AuthorizationCode = &code
	}
	return out, nil
}

func (g *Gateway) Capture(ctx context.Context, req entities.CaptureRequest) (entities.CaptureResponse, error) {
	id, err := paymentID(req.TransactionID)
	if err != nil {
		return entities.CaptureResponse{}, err
	}

	resp, err := g.client.CaptureAmount(ctx, id, req.Amount.InexactFloat64())
	if err != nil {
		g.logger.Error("[payment][gateway] sdk capture failed", zap.Int("provider_payment_id", id), zap.Error(err))
		return entities.CaptureResponse{}, classify(err)
	}
	reply, err := toReply(resp)
	if err != nil {
		return entities.CaptureResponse{}, err
	}
	return entities.CaptureResponse{PaymentResponse: reply.paymentResponse()}, nil
}

func (g *Gateway) Consult(ctx context.Context, req entities.ConsultRequest) (entities.ConsultResponse, error) {
	id, err := paymentID(req.TransactionID)
	if err != nil {
		return entities.ConsultResponse{}, err
	}

	resp, err := g.client.Get(ctx, id)
	if err != nil {
		g.logger.Error("[payment][gateway] sdk get failed", zap.Int("provider_payment_id", id), zap.Error(err))
		return entities.ConsultResponse{}, classify(err)
	}
	reply, err := toReply(resp)
	if err != nil {
		return entities.ConsultResponse{}, err
	}

	status := reply.Status
	amount := decimal.NewFromFloat(reply.TransactionAmount)
	return entities.ConsultResponse{PaymentResponse: reply.paymentResponse(), Status: &status, Amount: &amount}, nil
}

// Cancel voids the payment. Mercado Pago only cancels payments that are not yet
// captured, so the amount is informative.
func (g *Gateway) Cancel(ctx context.Context, req entities.CancelRequest) (entities.CancelResponse, error) {
	id, err := paymentID(req.TransactionID)
	if err != nil {
		return entities.CancelResponse{}, err
	}

	resp, err := g.client.Cancel(ctx, id)
	if err != nil {
		g.logger.Error("[payment][gateway] sdk cancel failed", zap.Int("provider_payment_id", id), zap.Error(err))
		return entities.CancelResponse{}, classify(err)
	}
	reply, err := toReply(resp)
	if err != nil {
		return entities.CancelResponse{}, err
	}

	amount := req.Amount
	return entities.CancelResponse{
		PaymentResponse: reply.paymentResponse(),
		CancellationID:  strconv.FormatInt(reply.ID, 10),
		Amount:          &amount,
	}, nil
}

func (g *Gateway) paymentMethodID(card entities.Card) string {
	switch {
	case strings.HasPrefix(card.Number, "4"):
		return "visa"
	case strings.HasPrefix(card.Number, "5"), strings.HasPrefix(card.Number, "2"):
		return "master"
	case strings.HasPrefix(card.Number, "34"), strings.HasPrefix(card.Number, "37"):
		return "amex"
	}
	return g.defaultPaymentMethodID
}

// paymentReply is the subset of the SDK response the gateway maps.
type paymentReply struct {
	ID                int64     `json:"id"`
	Status            string    `json:"status"`
	StatusDetail      string    `json:"status_detail"`
	DateCreated       time.Time `json:"date_created"`
	ExternalReference string    `json:"external_reference"`
	TransactionAmount float64   `json:"transaction_amount"`
	AuthorizationCode string    `json:"authorization_code"`
}

func toReply(resp *payment.Response) (paymentReply, error) {
	if resp == nil {
		return paymentReply{}, fmt.Errorf("%w: empty sdk response", interfaces.ErrGatewayDecoding)
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return paymentReply{}, fmt.Errorf("%w: %v", interfaces.ErrGatewayDecoding, err)
	}
	var reply paymentReply
	if err := json.Unmarshal(b, &reply); err != nil {
		return paymentReply{}, fmt.Errorf("%w: %v", interfaces.ErrGatewayDecoding, err)
	}
	return reply, nil
}

// paymentResponse maps approved/authorized to the "00" convention; any other
// status is passed through as the code.
func (r paymentReply) paymentResponse() entities.PaymentResponse {
	id := strconv.FormatInt(r.ID, 10)
	code := r.Status
	switch r.Status {
	case "approved", "authorized":
		code = entities.ReturnCodeSuccess
	}

	out := entities.PaymentResponse{
		TransactionID: &id,
		NSU:           id,
		DateTime:      r.DateCreated,
		Return:        entities.NewReturnCode(&code, r.StatusDetail),
		HTTPStatus:    200,
	}
	if r.ExternalReference != "" {
		ref := r.ExternalReference
		out.Reference = &ref
	}
	return out
}

func paymentID(tid string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(tid))
	if err != nil || id <= 0 {
		return 0, ErrInvalidPaymentID
	}
	return id, nil
}

func classify(err error) error {
	if isGatewayUnauthorized(err) {
		return fmt.Errorf("%w: %v", interfaces.ErrGatewayConfiguration, err)
	}
	return fmt.Errorf("%w: %v", interfaces.ErrGatewayRejected, err)
}

func isGatewayUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}
