package erede

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"erede_gateway/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAuthorization(t *testing.T) {
	raw := `{"returnCode":"00","returnMessage":"Success.","reference":"ref1","tid":"X","nsu":"Y",
		"dateTime":"2020-01-01T00:00:00Z","authorizationCode":"123456","amount":123400}`

	resp, err := DecodeAuthorization([]byte(raw), http.StatusCreated)
	require.NoError(t, err)

	require.NotNil(t, resp.Return.Code)
	assert.Equal(t, "00", *resp.Return.Code)
	assert.True(t, resp.Return.IsSuccess())
	assert.Equal(t, "Success.", resp.Return.Message)
	assert.Equal(t, "ref1", *resp.Reference)
	assert.Equal(t, "X", *resp.TransactionID)
	assert.Equal(t, "Y", resp.NSU)
	assert.True(t, resp.DateTime.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "123456", *resp.AuthorizationCode)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("1234")))
	assert.Equal(t, http.StatusCreated, resp.HTTPStatus)
}

func TestDecodeAuthorization_OptionalFieldsAbsent(t *testing.T) {
	resp, err := DecodeAuthorization([]byte(`{"nsu":"Y","dateTime":"2020-01-01T00:00:00"}`), http.StatusOK)
	require.NoError(t, err)

	assert.Nil(t, resp.Reference)
	assert.Nil(t, resp.TransactionID)
	assert.Nil(t, resp.AuthorizationCode)
	assert.Nil(t, resp.Amount)
	assert.Nil(t, resp.Return.Code)
	assert.Equal(t, "", resp.Return.Message)
}

func TestDecodeAuthorization_NumericReference(t *testing.T) {
	resp, err := DecodeAuthorization([]byte(`{"reference":12345,"nsu":"Y","dateTime":"2020-01-01T00:00:00Z"}`), http.StatusOK)
	require.NoError(t, err)
	assert.Equal(t, "12345", *resp.Reference)
}

func TestDecodeCapture_WithoutReturnFields(t *testing.T) {
	resp, err := DecodeCapture([]byte(`{"tid":"X","nsu":"Y","dateTime":"2020-01-01T00:00:00.123-03:00"}`), http.StatusOK)
	require.NoError(t, err)

	assert.Nil(t, resp.Return.Code)
	assert.Equal(t, "", resp.Return.Message)
	assert.False(t, resp.Return.IsSuccess())
	assert.Equal(t, "X", *resp.GetTransactionID())
}

func TestDecode_MissingRequiredField(t *testing.T) {
	_, err := DecodeCapture([]byte(`{"tid":"X","dateTime":"2020-01-01T00:00:00Z"}`), http.StatusOK)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecoding)
	assert.ErrorIs(t, err, interfaces.ErrGatewayDecoding)

	var decErr *DecodingError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "nsu", decErr.Field)
	assert.Equal(t, OperationCapture, decErr.Operation)

	_, err = DecodeAuthorization([]byte(`{"nsu":"Y"}`), http.StatusOK)
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "dateTime", decErr.Field)
}

func TestDecode_MalformedInput(t *testing.T) {
	for _, raw := range []string{"", "not json", "[1,2]", `"text"`, `{"nsu":`} {
		_, err := DecodeAuthorization([]byte(raw), http.StatusBadGateway)
		require.Error(t, err, raw)

		var decErr *DecodingError
		require.True(t, errors.As(err, &decErr), raw)
		assert.Equal(t, http.StatusBadGateway, decErr.HTTPStatus)
	}
}

func TestDecode_BadTimestamp(t *testing.T) {
	_, err := DecodeCapture([]byte(`{"nsu":"Y","dateTime":"01/01/2020"}`), http.StatusOK)

	var decErr *DecodingError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "dateTime", decErr.Field)
}

func TestDecode_ProviderErrorPayload(t *testing.T) {
	_, err := DecodeAuthorization([]byte(`{"returnCode":"78","returnMessage":"Invalid affiliation."}`), http.StatusUnauthorized)

	var decErr *DecodingError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, http.StatusUnauthorized, decErr.HTTPStatus)
}

func TestDecodeConsult(t *testing.T) {
	raw := `{
		"requestDateTime":"2020-01-02T10:00:00-03:00",
		"authorization":{"returnCode":"00","returnMessage":"Success.","reference":"ref1","tid":"X","nsu":"Y",
			"dateTime":"2020-01-01T00:00:00Z","amount":1000,"status":"Approved"},
		"capture":{"dateTime":"2020-01-01T01:00:00Z","nsu":"Z","amount":1000},
		"refunds":[{"refundId":"r-1","status":"Done","amount":500,"refundDateTime":"2020-01-01T02:00:00Z"}]
	}`

	resp, err := DecodeConsult([]byte(raw), http.StatusOK)
	require.NoError(t, err)

	assert.Equal(t, "00", resp.GetReturnCode().CodeOrEmpty())
	assert.Equal(t, "Approved", *resp.Status)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, resp.Capture)
	assert.Equal(t, "Z", resp.Capture.NSU)
	require.Len(t, resp.Refunds, 1)
	assert.Equal(t, "r-1", resp.Refunds[0].RefundID)
	assert.True(t, resp.Refunds[0].Amount.Equal(decimal.NewFromInt(5)))
	require.NotNil(t, resp.Refunds[0].DateTime)
}

func TestDecodeConsult_TopLevelReturnCode(t *testing.T) {
	raw := `{"returnCode":"00","returnMessage":"Success.","authorization":{"tid":"X","nsu":"Y","dateTime":"2020-01-01T00:00:00Z"}}`

	resp, err := DecodeConsult([]byte(raw), http.StatusOK)
	require.NoError(t, err)
	assert.Equal(t, "00", resp.Return.CodeOrEmpty())
	assert.Nil(t, resp.Capture)
	assert.Empty(t, resp.Refunds)
}

func TestDecodeConsult_MissingAuthorization(t *testing.T) {
	_, err := DecodeConsult([]byte(`{"returnCode":"00"}`), http.StatusOK)

	var decErr *DecodingError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "authorization", decErr.Field)
}

func TestDecodeCancel(t *testing.T) {
	raw := `{"returnCode":"359","returnMessage":"Refund successful.","refundId":"6f1e9b9e-0000","tid":"X","nsu":"Y",
		"refundDateTime":"2020-01-01T00:00:00Z","amount":123400}`

	resp, err := DecodeCancel([]byte(raw), http.StatusCreated)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.CancellationID)
	assert.Equal(t, "6f1e9b9e-0000", resp.CancellationID)
	assert.Equal(t, "359", resp.Return.CodeOrEmpty())
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("1234")))

	_, err = DecodeCancel([]byte(`{"nsu":"Y","refundDateTime":"2020-01-01T00:00:00Z"}`), http.StatusCreated)
	var decErr *DecodingError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "refundId", decErr.Field)
}
