package erede

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"erede_gateway/internal/domain/entities"
	"erede_gateway/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type capturedRequest struct {
	method        string
	path          string
	headers       http.Header
	contentLength int64
	body          string
}

// stubServer answers every request with status and reply and remembers the last request.
func stubServer(t *testing.T, status int, reply string) (*httptest.Server, func() capturedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		last capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		last = capturedRequest{method: r.Method, path: r.URL.EscapedPath(), headers: r.Header.Clone(), contentLength: r.ContentLength, body: string(b)}
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, func() capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

type recordedCall struct {
	provider, operation, returnCode string
	httpStatus                      int
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeRecorder) ObserveProviderCall(provider, operation string, httpStatus int, returnCode string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{provider: provider, operation: operation, returnCode: returnCode, httpStatus: httpStatus})
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingBody) Close() error             { return nil }

func newSandboxGateway(t *testing.T, srv *httptest.Server, opts ...Option) *Gateway {
	t.Helper()
	opts = append([]Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithTracer(noop.NewTracerProvider().Tracer("test")),
	}, opts...)
	g, err := NewGateway(10000167, "0c1bc5ff872a43f5b33a2a8a8ffe1361", "sandbox", opts...)
	require.NoError(t, err)
	return g
}

func TestNewGateway(t *testing.T) {
	g, err := NewGateway(1, "t", "")
	require.NoError(t, err)
	assert.Equal(t, EnvironmentProduction, g.Environment())
	assert.Equal(t, "erede", g.Name())

	g, err = NewGateway(1, "t", "producao")
	require.NoError(t, err)
	assert.Equal(t, EnvironmentProduction, g.Environment())

	_, err = NewGateway(1, "t", "staging")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestGateway_Authorize(t *testing.T) {
	srv, last := stubServer(t, http.StatusCreated,
		`{"returnCode":"00","tid":"X","nsu":"Y","dateTime":"2020-01-01T00:00:00Z","reference":"ref1"}`)
	rec := &fakeRecorder{}
	g := newSandboxGateway(t, srv, WithRecorder(rec))

	resp, err := g.Authorize(context.Background(), entities.AuthorizationRequest{
		CaptureAutomatically: false,
		Kind:                 entities.TransactionKindCredit,
		Reference:            "ref1",
		Amount:               decimal.RequireFromString("1234.00"),
		Installments:         1,
		Card:                 testCard(),
	})
	require.NoError(t, err)
	assert.Equal(t, "00", resp.Return.CodeOrEmpty())
	assert.Equal(t, "X", *resp.TransactionID)
	assert.Equal(t, http.StatusCreated, resp.HTTPStatus)

	req := last()
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/desenvolvedores/v1/transactions", req.path)
	assert.Contains(t, req.body, `"amount":123400`)
	assert.Contains(t, req.body, `"capture":false`)
	assert.Equal(t, "application/json", req.headers.Get("Content-Type"))
	assert.Equal(t, "Basic MTAwMDAxNjc6MGMxYmM1ZmY4NzJhNDNmNWIzM2EyYThhOGZmZTEzNjE=", req.headers.Get("Authorization"))
	assert.Equal(t, int64(len(req.body)), req.contentLength)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, recordedCall{provider: "erede", operation: "authorize", returnCode: "00", httpStatus: http.StatusCreated}, rec.calls[0])
}

func TestGateway_Capture(t *testing.T) {
	srv, last := stubServer(t, http.StatusOK, `{"returnCode":"00","returnMessage":"Success.","tid":"X","nsu":"Y","dateTime":"2020-01-01T00:00:00Z"}`)
	g := newSandboxGateway(t, srv)

	resp, err := g.Capture(context.Background(), entities.CaptureRequest{TransactionID: "X", Amount: decimal.RequireFromString("1234.00")})
	require.NoError(t, err)
	assert.Equal(t, "Y", resp.NSU)

	req := last()
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/desenvolvedores/v1/transactions/X", req.path)
	assert.JSONEq(t, `{"amount":123400}`, req.body)
}

func TestGateway_Consult(t *testing.T) {
	srv, last := stubServer(t, http.StatusOK,
		`{"authorization":{"returnCode":"00","tid":"X","nsu":"Y","dateTime":"2020-01-01T00:00:00Z","status":"Approved","amount":123400}}`)
	g := newSandboxGateway(t, srv)

	resp, err := g.Consult(context.Background(), entities.ConsultRequest{TransactionID: "X"})
	require.NoError(t, err)
	assert.Equal(t, "Approved", *resp.Status)

	req := last()
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/desenvolvedores/v1/transactions/X", req.path)
	assert.JSONEq(t, `{"tid":"X"}`, req.body)
}

func TestGateway_Cancel(t *testing.T) {
	srv, last := stubServer(t, http.StatusCreated,
		`{"returnCode":"359","returnMessage":"Refund successful.","refundId":"rf-1","tid":"X","nsu":"Y","refundDateTime":"2020-01-01T00:00:00Z"}`)
	g := newSandboxGateway(t, srv)

	resp, err := g.Cancel(context.Background(), entities.CancelRequest{TransactionID: "X", Amount: decimal.RequireFromString("10")})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.CancellationID)

	req := last()
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/desenvolvedores/v1/transactions/X/refunds", req.path)
	assert.JSONEq(t, `{"amount":1000}`, req.body)
}

func TestGateway_ProductionPaths(t *testing.T) {
	srv, last := stubServer(t, http.StatusOK, `{"tid":"X","nsu":"Y","dateTime":"2020-01-01T00:00:00Z"}`)
	g, err := NewGateway(1, "t", "production", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = g.Capture(context.Background(), entities.CaptureRequest{TransactionID: "X", Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "/erede/v1/transactions/X", last().path)
}

func TestGateway_NonSuccessStatusIsDecoded(t *testing.T) {
	srv, _ := stubServer(t, http.StatusBadRequest, `{"returnCode":"37","returnMessage":"Invalid amount.","nsu":"Y","dateTime":"2020-01-01T00:00:00Z"}`)
	g := newSandboxGateway(t, srv)

	resp, err := g.Capture(context.Background(), entities.CaptureRequest{TransactionID: "X", Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "37", resp.Return.CodeOrEmpty())
	assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus)
}

func TestGateway_ErrorPayloadSurfacesAsDecodingError(t *testing.T) {
	srv, _ := stubServer(t, http.StatusUnauthorized, `{"returnCode":"78","returnMessage":"Unauthorized."}`)
	g := newSandboxGateway(t, srv)

	_, err := g.Authorize(context.Background(), entities.AuthorizationRequest{Amount: decimal.NewFromInt(1), Card: testCard()})
	require.Error(t, err)

	var decErr *DecodingError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, http.StatusUnauthorized, decErr.HTTPStatus)
	assert.ErrorIs(t, err, interfaces.ErrGatewayDecoding)
}

func TestGateway_TransportErrors(t *testing.T) {
	t.Run("network failure", func(t *testing.T) {
		rec := &fakeRecorder{}
		g, err := NewGateway(1, "t", "sandbox", WithRecorder(rec), WithHTTPClient(doerFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: connection refused")
		})))
		require.NoError(t, err)

		_, err = g.Consult(context.Background(), entities.ConsultRequest{TransactionID: "X"})
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, interfaces.ErrGatewayTransport)

		var trErr *TransportError
		require.True(t, errors.As(err, &trErr))
		assert.Equal(t, OperationConsult, trErr.Operation)
		require.Len(t, rec.calls, 1)
		assert.Equal(t, 0, rec.calls[0].httpStatus)
	})

	t.Run("unreadable body", func(t *testing.T) {
		g, err := NewGateway(1, "t", "sandbox", WithHTTPClient(doerFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Body: failingBody{}, Request: r}, nil
		})))
		require.NoError(t, err)

		_, err = g.Cancel(context.Background(), entities.CancelRequest{TransactionID: "X", Amount: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv, _ := stubServer(t, http.StatusOK, `{}`)
		g := newSandboxGateway(t, srv)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := g.Capture(ctx, entities.CaptureRequest{TransactionID: "X", Amount: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrTransport)
	})
}

func TestGateway_MissingTransactionID(t *testing.T) {
	g, err := NewGateway(1, "t", "sandbox", WithHTTPClient(doerFunc(func(*http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})))
	require.NoError(t, err)

	_, err = g.Capture(context.Background(), entities.CaptureRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrMissingTransactionID)
}

func TestGateway_ConcurrentUse(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, `{"returnCode":"00","tid":"X","nsu":"Y","dateTime":"2020-01-01T00:00:00Z"}`)
	g := newSandboxGateway(t, srv)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Capture(context.Background(), entities.CaptureRequest{TransactionID: "X", Amount: decimal.NewFromInt(1)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
