package interfaces

import (
	"context"

	"erede_gateway/internal/domain/entities"
)

//go:generate mockgen -source=transaction_repository_interface.go -destination=mocks/mock_transaction_repository_interface.go -package=mock_interfaces

// ITransactionRepository abstracts DynamoDB persistence for the transaction log.
type ITransactionRepository interface {
	Create(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error)
	ListByTransactionID(ctx context.Context, tid string) ([]entities.PaymentTransaction, error)
}
