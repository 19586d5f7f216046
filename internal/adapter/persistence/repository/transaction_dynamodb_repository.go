package repository

import (
	"context"
	"sort"
	"time"

	"erede_gateway/internal/domain/entities"
	"erede_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultTransactionsTableName = "payment_transactions"
	transactionsTIDIndex         = "tid-index"
)

// dynamoAPI is the subset of *dynamodb.Client the repository uses.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type transactionItem struct {
	ID               string `dynamodbav:"id"`
	Provider         string `dynamodbav:"provider"`
	Operation        string `dynamodbav:"operation"`
	TID              string `dynamodbav:"tid"`
	Reference        string `dynamodbav:"reference,omitempty"`
	NSU              string `dynamodbav:"nsu,omitempty"`
	ReturnCode       string `dynamodbav:"return_code,omitempty"`
	ReturnMessage    string `dynamodbav:"return_message,omitempty"`
	AmountMinor      int64  `dynamodbav:"amount_minor,omitempty"`
	CardLast4        string `dynamodbav:"card_last4,omitempty"`
	HTTPStatus       int    `dynamodbav:"http_status"`
	CreatedAt        string `dynamodbav:"created_at"`
	ProviderResponse string `dynamodbav:"provider_response,omitempty"`
}

// TransactionDynamoRepository persists the payment transaction log in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: tid-index (PK: tid)

type TransactionDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.ITransactionRepository = (*TransactionDynamoRepository)(nil)

func NewTransactionDynamoRepository(ddb *dynamodb.Client) *TransactionDynamoRepository {
	return newTransactionDynamoRepository(ddb)
}

func newTransactionDynamoRepository(ddb dynamoAPI) *TransactionDynamoRepository {
	return &TransactionDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PAYMENT_TRANSACTIONS_TABLE", defaultTransactionsTableName),
	}
}

func (r *TransactionDynamoRepository) Create(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error) {
	av, err := attributevalue.MarshalMap(toTransactionItem(t))
	if err != nil {
		return entities.PaymentTransaction{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	return t, nil
}

// ListByTransactionID returns the log entries of one provider transaction,
// oldest first.
func (r *TransactionDynamoRepository) ListByTransactionID(ctx context.Context, tid string) ([]entities.PaymentTransaction, error) {
	var (
		items []entities.PaymentTransaction
		start map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(transactionsTIDIndex),
			KeyConditionExpression: aws.String("tid = :tid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":tid": &types.AttributeValueMemberS{Value: tid},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}

		for _, raw := range out.Items {
			var it transactionItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromTransactionItem(it))
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func toTransactionItem(t entities.PaymentTransaction) transactionItem {
	return transactionItem{
		ID:               t.ID,
		Provider:         t.Provider,
		Operation:        string(t.Operation),
		TID:              t.TransactionID,
		Reference:        t.Reference,
		NSU:              t.NSU,
		ReturnCode:       t.ReturnCode,
		ReturnMessage:    t.ReturnMessage,
		AmountMinor:      t.AmountMinor,
		CardLast4:        t.CardLast4,
		HTTPStatus:       t.HTTPStatus,
		CreatedAt:        t.CreatedAt.UTC().Format(time.RFC3339Nano),
		ProviderResponse: string(t.ProviderResponse),
	}
}

func fromTransactionItem(it transactionItem) entities.PaymentTransaction {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	t := entities.PaymentTransaction{
		ID:            it.ID,
		Provider:      it.Provider,
		Operation:     entities.PaymentOperation(it.Operation),
		TransactionID: it.TID,
		Reference:     it.Reference,
		NSU:           it.NSU,
		ReturnCode:    it.ReturnCode,
		ReturnMessage: it.ReturnMessage,
		AmountMinor:   it.AmountMinor,
		CardLast4:     it.CardLast4,
		HTTPStatus:    it.HTTPStatus,
		CreatedAt:     createdAt,
	}
	if it.ProviderResponse != "" {
		t.ProviderResponse = []byte(it.ProviderResponse)
	}
	return t
}
