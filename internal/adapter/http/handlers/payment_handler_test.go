package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"erede_gateway/internal/adapter/http/handlers/mocks"
	"erede_gateway/internal/domain/entities"
	"erede_gateway/internal/infrastructure/payments/erede"
	"erede_gateway/internal/infrastructure/payments/mercadopago"
	"erede_gateway/internal/usecase"
	"erede_gateway/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func strPtr(s string) *string { return &s }

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockIPaymentUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIPaymentUseCase(ctrl)
	h := NewPaymentHandler(uc, nil)

	r := gin.New()
	r.POST("/v1/transactions", h.Authorize)
	r.PUT("/v1/transactions/:tid", h.Capture)
	r.GET("/v1/transactions/:tid", h.Consult)
	r.POST("/v1/transactions/:tid/refunds", h.Cancel)
	r.GET("/v1/transactions/:tid/history", h.History)
	return r, uc
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPaymentHandler_Authorize(t *testing.T) {
	t.Run("invalid payload", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := do(r, http.MethodPost, "/v1/transactions", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("missing reference", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := do(r, http.MethodPost, "/v1/transactions", `{"amount":10}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("usecase validation error", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(entities.AuthorizationResponse{}, usecase.ErrInvalidAmount)

		w := do(r, http.MethodPost, "/v1/transactions", `{"reference":"ref-1","amount":0}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().Authorize(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, req entities.AuthorizationRequest) (entities.AuthorizationResponse, error) {
			if req.Reference != "ref-1" || req.Amount.String() != "1234" || req.Installments != 1 {
				t.Fatalf("unexpected request: %+v", req)
			}
			return entities.AuthorizationResponse{
				PaymentResponse: entities.PaymentResponse{
					TransactionID: strPtr("tid-1"),
					NSU:           "123456",
					DateTime:      time.Now().UTC(),
					Return:        entities.NewReturnCode(strPtr("00"), "Success."),
					HTTPStatus:    http.StatusCreated,
				},
			}, nil
		})

		w := do(r, http.MethodPost, "/v1/transactions", `{"reference":"ref-1","amount":1234.00,"card":{"number":"5448280000000007"}}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["tid"] != "tid-1" || body["nsu"] != "123456" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestPaymentHandler_Capture(t *testing.T) {
	t.Run("invalid payload", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := do(r, http.MethodPut, "/v1/transactions/tid-1", "not-json")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().Capture(gomock.Any(), entities.CaptureRequest{TransactionID: "tid-1", Amount: mustDecimal(t, "10")}).
			Return(entities.CaptureResponse{}, fmt.Errorf("capture: %w", interfaces.ErrGatewayTransport))

		w := do(r, http.MethodPut, "/v1/transactions/tid-1", `{"amount":10}`)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().Capture(gomock.Any(), gomock.Any()).Return(entities.CaptureResponse{PaymentResponse: entities.PaymentResponse{NSU: "nsu-2"}}, nil)

		w := do(r, http.MethodPut, "/v1/transactions/tid-1", `{"amount":10}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestPaymentHandler_Consult(t *testing.T) {
	t.Run("decoding error", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().Consult(gomock.Any(), entities.ConsultRequest{TransactionID: "tid-1"}).
			Return(entities.ConsultResponse{}, fmt.Errorf("consult: %w", interfaces.ErrGatewayDecoding))

		w := do(r, http.MethodGet, "/v1/transactions/tid-1", "")
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})

	t.Run("non numeric mercado pago id is a bad request", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().Consult(gomock.Any(), entities.ConsultRequest{TransactionID: "abc"}).
			Return(entities.ConsultResponse{}, fmt.Errorf("consult: %w", mercadopago.ErrInvalidPaymentID))

		w := do(r, http.MethodGet, "/v1/transactions/abc", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().Consult(gomock.Any(), entities.ConsultRequest{TransactionID: "tid-1"}).
			Return(entities.ConsultResponse{Status: strPtr("Approved")}, nil)

		w := do(r, http.MethodGet, "/v1/transactions/tid-1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "Approved" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestPaymentHandler_Cancel(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().Cancel(gomock.Any(), gomock.Any()).Return(entities.CancelResponse{}, interfaces.ErrGatewayRejected)

		w := do(r, http.MethodPost, "/v1/transactions/tid-1/refunds", `{"amount":10}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().Cancel(gomock.Any(), entities.CancelRequest{TransactionID: "tid-1", Amount: mustDecimal(t, "10")}).
			Return(entities.CancelResponse{CancellationID: "rf-1"}, nil)

		w := do(r, http.MethodPost, "/v1/transactions/tid-1/refunds", `{"amount":10}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["cancellation_id"] != "rf-1" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestPaymentHandler_History(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().History(gomock.Any(), "tid-1").Return(nil, usecase.ErrTransactionNotFound)

		w := do(r, http.MethodGet, "/v1/transactions/tid-1/history", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().History(gomock.Any(), "tid-1").Return([]entities.PaymentTransaction{
			{ID: "a", Operation: entities.PaymentOperationAuthorize, TransactionID: "tid-1"},
			{ID: "b", Operation: entities.PaymentOperationCapture, TransactionID: "tid-1"},
		}, nil)

		w := do(r, http.MethodGet, "/v1/transactions/tid-1/history", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body []map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if len(body) != 2 || body[1]["operation"] != "capture" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestMapPaymentError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid tid", usecase.ErrInvalidTransactionID, http.StatusBadRequest},
		{"invalid card", usecase.ErrInvalidCard, http.StatusBadRequest},
		{"erede missing tid", fmt.Errorf("capture: %w", erede.ErrMissingTransactionID), http.StatusBadRequest},
		{"mercado pago card token", mercadopago.ErrMissingCardToken, http.StatusBadRequest},
		{"mercado pago payment id", mercadopago.ErrInvalidPaymentID, http.StatusBadRequest},
		{"rejected", interfaces.ErrGatewayRejected, http.StatusUnprocessableEntity},
		{"not configured", usecase.ErrGatewayNotConfigured, http.StatusServiceUnavailable},
		{"configuration", interfaces.ErrGatewayConfiguration, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mapPaymentError(tc.err).HTTPStatus; got != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, got)
			}
		})
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}
