package erede

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"erede_gateway/internal/domain/entities"
	"erede_gateway/internal/usecase/interfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ProviderName identifies e.Rede in logs, metrics and the transaction log.
const ProviderName = "erede"

// HTTPDoer is the transport the gateway sends requests through. *http.Client
// satisfies it. Timeouts, TLS and pooling belong to the transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Recorder observes every provider round trip.
type Recorder interface {
	ObserveProviderCall(provider, operation string, httpStatus int, returnCode string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveProviderCall(string, string, int, string, time.Duration) {}

// Gateway implements the payment gateway contract against the e.Rede REST API.
// It holds only immutable configuration and is safe for concurrent use.
type Gateway struct {
	credentials Credentials
	environment Environment
	endpoints   Registry
	client      HTTPDoer
	logger      *zap.Logger
	recorder    Recorder
	tracer      trace.Tracer
}

var _ interfaces.IPaymentGateway = (*Gateway)(nil)

type Option func(*Gateway)

func WithHTTPClient(client HTTPDoer) Option {
	return func(g *Gateway) {
		if client != nil {
			g.client = client
		}
	}
}

// WithBaseURL points the endpoint table at another host (a local stub, for example).
func WithBaseURL(baseURL string) Option {
	return func(g *Gateway) {
		if baseURL != "" {
			g.endpoints = NewRegistry(baseURL)
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(g *Gateway) {
		if recorder != nil {
			g.recorder = recorder
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(g *Gateway) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

// NewGateway builds a gateway for one merchant and environment. An empty
// environment selects production; unknown values fail with a ConfigurationError.
func NewGateway(affiliation int, token string, environment string, opts ...Option) (*Gateway, error) {
	env, err := ParseEnvironment(environment)
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		credentials: Credentials{Affiliation: affiliation, Token: token},
		environment: env,
		endpoints:   DefaultRegistry(),
		client:      &http.Client{Timeout: 30 * time.Second},
		logger:      zap.NewNop(),
		recorder:    nopRecorder{},
		tracer:      otel.Tracer("erede_gateway/erede"),
	}
	for _, opt := range opts {
		opt(g)
	}

	// Surface a broken table at construction rather than on the first call.
	for _, op := range []Operation{OperationAuthorize, OperationCapture, OperationConsult, OperationCancel} {
		if _, err := g.endpoints.Resolve(op, env); err != nil {
			return nil, err
		}
	}

	g.logger = g.logger.With(zap.String("provider", ProviderName), zap.String("environment", string(env)))
	g.logger.Info("[payment][gateway] e.Rede client initialized", zap.Int("affiliation", affiliation))
	return g, nil
}

func (g *Gateway) Name() string { return ProviderName }

func (g *Gateway) Environment() Environment { return g.environment }

func (g *Gateway) Authorize(ctx context.Context, req entities.AuthorizationRequest) (entities.AuthorizationResponse, error) {
	params := transcodeAuthorize(req, g.credentials.Affiliation)
	raw, status, err := g.send(ctx, OperationAuthorize, "", params,
		attribute.String("erede.reference", req.Reference),
		attribute.Int("erede.installments", req.Installments),
	)
	if err != nil {
		return entities.AuthorizationResponse{}, err
	}

	resp, err := DecodeAuthorization(raw, status)
	g.finish(OperationAuthorize, status, resp.Return, err)
	return resp, err
}

// Capture settles a transaction authorized without automatic capture.
func (g *Gateway) Capture(ctx context.Context, req entities.CaptureRequest) (entities.CaptureResponse, error) {
	raw, status, err := g.send(ctx, OperationCapture, req.TransactionID, transcodeCapture(req))
	if err != nil {
		return entities.CaptureResponse{}, err
	}

	resp, err := DecodeCapture(raw, status)
	g.finish(OperationCapture, status, resp.Return, err)
	return resp, err
}

func (g *Gateway) Consult(ctx context.Context, req entities.ConsultRequest) (entities.ConsultResponse, error) {
	raw, status, err := g.send(ctx, OperationConsult, req.TransactionID, transcodeConsult(req))
	if err != nil {
		return entities.ConsultResponse{}, err
	}

	resp, err := DecodeConsult(raw, status)
	g.finish(OperationConsult, status, resp.Return, err)
	return resp, err
}

// Cancel refunds all or part of a transaction.
func (g *Gateway) Cancel(ctx context.Context, req entities.CancelRequest) (entities.CancelResponse, error) {
	raw, status, err := g.send(ctx, OperationCancel, req.TransactionID, transcodeCancel(req))
	if err != nil {
		return entities.CancelResponse{}, err
	}

	resp, err := DecodeCancel(raw, status)
	g.finish(OperationCancel, status, resp.Return, err)
	return resp, err
}

// send performs one round trip and returns the raw body with its status. Any
// HTTP status is accepted; only network and read failures are errors here.
func (g *Gateway) send(ctx context.Context, op Operation, transactionID string, params any, attrs ...attribute.KeyValue) ([]byte, int, error) {
	spec, err := g.endpoints.Resolve(op, g.environment)
	if err != nil {
		return nil, 0, err
	}
	url, err := spec.Expand(transactionID)
	if err != nil {
		return nil, 0, err
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, 0, fmt.Errorf("erede: encode %s params: %w", op, err)
	}

	ctx, span := g.tracer.Start(ctx, "erede."+string(op), trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs,
			attribute.String("http.request.method", spec.Method),
			attribute.String("erede.environment", string(g.environment)),
			attribute.String("erede.tid", transactionID),
		)...))
	defer span.End()

	log := g.logger.With(zap.String("operation", string(op)), zap.String("tid", transactionID))
	log.Info("[payment][gateway] request start", zap.String("method", spec.Method), zap.Int("payload_len", len(body)))

	httpReq, err := http.NewRequestWithContext(ctx, spec.Method, url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, 0, &TransportError{Operation: op, Err: err}
	}
	httpReq.ContentLength = int64(len(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+g.credentials.AuthHeader())
	httpReq.Header.Set("Content-Length", strconv.Itoa(len(body)))

	started := time.Now()
	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		g.recorder.ObserveProviderCall(ProviderName, string(op), 0, "", time.Since(started))
		log.Error("[payment][gateway] request failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, 0, &TransportError{Operation: op, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	elapsed := time.Since(started)
	if err != nil {
		g.recorder.ObserveProviderCall(ProviderName, string(op), httpResp.StatusCode, "", elapsed)
		log.Error("[payment][gateway] reading reply failed", zap.Int("http_status", httpResp.StatusCode), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return nil, httpResp.StatusCode, &TransportError{Operation: op, Err: err}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		log.Warn("[payment][gateway] non-2xx reply, decoding anyway", zap.Int("http_status", httpResp.StatusCode))
	}
	log.Info("[payment][gateway] request done",
		zap.Int("http_status", httpResp.StatusCode),
		zap.Int("reply_len", len(raw)),
		zap.Duration("elapsed", elapsed),
	)

	g.recorder.ObserveProviderCall(ProviderName, string(op), httpResp.StatusCode, peekReturnCode(raw), elapsed)
	return raw, httpResp.StatusCode, nil
}

func (g *Gateway) finish(op Operation, status int, rc entities.ReturnCode, err error) {
	log := g.logger.With(zap.String("operation", string(op)), zap.Int("http_status", status))
	if err != nil {
		log.Error("[payment][gateway] decode failed", zap.Error(err))
		return
	}
	log.Info("[payment][gateway] decoded reply", zap.String("return_code", rc.CodeOrEmpty()), zap.String("return_message", rc.Message))
}

// peekReturnCode reads returnCode for metrics labels without decoding the full reply.
func peekReturnCode(raw []byte) string {
	var rc struct {
		ReturnCode any `json:"returnCode"`
	}
	if err := json.Unmarshal(raw, &rc); err != nil || rc.ReturnCode == nil {
		return ""
	}
	return fmt.Sprint(rc.ReturnCode)
}
