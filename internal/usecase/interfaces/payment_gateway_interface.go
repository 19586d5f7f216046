package interfaces

import (
	"context"
	"errors"

	"erede_gateway/internal/domain/entities"
)

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/mock_payment_gateway_interface.go -package=mock_interfaces

// IPaymentGateway abstracts external payment providers (e.g. e.Rede, Mercado Pago).
//
// Every operation is a single request/response round trip. Implementations hold
// only immutable configuration and must be safe for concurrent use.
type IPaymentGateway interface {
	Name() string
	Authorize(ctx context.Context, req entities.AuthorizationRequest) (entities.AuthorizationResponse, error)
	Capture(ctx context.Context, req entities.CaptureRequest) (entities.CaptureResponse, error)
	Consult(ctx context.Context, req entities.ConsultRequest) (entities.ConsultResponse, error)
	Cancel(ctx context.Context, req entities.CancelRequest) (entities.CancelResponse, error)
}

// Provider-neutral failure classes. Gateway errors match them through errors.Is.
var (
	ErrGatewayConfiguration = errors.New("payment gateway configuration error")
	ErrGatewayTransport     = errors.New("payment gateway unreachable")
	ErrGatewayDecoding      = errors.New("payment gateway reply not understood")
	ErrGatewayRejected      = errors.New("payment gateway rejected the request")
	// ErrGatewayInvalidRequest marks caller input a gateway refused before any network call.
	ErrGatewayInvalidRequest = errors.New("payment gateway invalid request")
)
