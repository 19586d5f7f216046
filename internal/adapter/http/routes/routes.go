package routes

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	_ "erede_gateway/docs" // generated by swag init
	"erede_gateway/internal/adapter/http/handlers"
	repository2 "erede_gateway/internal/adapter/persistence/repository"
	"erede_gateway/internal/infrastructure/config"
	"erede_gateway/internal/infrastructure/database"
	"erede_gateway/internal/infrastructure/logging"
	"erede_gateway/internal/infrastructure/metrics"
	"erede_gateway/internal/infrastructure/payments/erede"
	"erede_gateway/internal/infrastructure/payments/mercadopago"
	"erede_gateway/internal/usecase"
	"erede_gateway/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const serviceName = "erede-gateway"

// Run will start the server
func Run() {
	cfg, cfgErr := config.Load()
	logger := logging.MustNewLogger(serviceName, cfg.AppEnv)
	defer func() { _ = logger.Sync() }()
	if cfgErr != nil {
		logger.Fatal("invalid configuration", zap.Error(cfgErr))
	}

	gateway, err := buildGateway(cfg, logger, metrics.NewProviderMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		logger.Fatal("payment gateway not configured", zap.String("provider", cfg.Provider), zap.Error(err))
	}

	var repo interfaces.ITransactionRepository
	ddb, err := database.ConnectDynamoDB(context.Background())
	if err != nil {
		logger.Warn("dynamodb unavailable; transaction log disabled", zap.Error(err))
	} else {
		repo = repository2.NewTransactionDynamoRepository(ddb)
	}

	paymentUseCase := usecase.NewPaymentUseCase(repo, gateway, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentUseCase, logger)

	router := newRouter(logger, paymentHandler)

	logger.Info("starting server", zap.Int("port", cfg.Port), zap.String("provider", gateway.Name()), zap.Bool("mock", cfg.MockMode))
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		logger.Fatal("failed to startup the application", zap.Error(err))
	}
}

func newRouter(logger *zap.Logger, paymentHandler *handlers.PaymentHandler) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, logger)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPaymentRoutes(v1, paymentHandler)
	return router
}

func buildGateway(cfg config.Config, logger *zap.Logger, recorder erede.Recorder) (interfaces.IPaymentGateway, error) {
	switch cfg.Provider {
	case config.ProviderERede:
		var client erede.HTTPDoer = &http.Client{Timeout: cfg.ERede.Timeout}
		if cfg.MockMode {
			logger.Warn("PAYMENT_GATEWAY_MOCK enabled; e.Rede calls are answered in process")
			client = erede.NewMockTransport()
		}
		return erede.NewGateway(cfg.ERede.Affiliation, cfg.ERede.Token, cfg.ERede.Environment,
			erede.WithHTTPClient(client),
			erede.WithBaseURL(cfg.ERede.BaseURL),
			erede.WithLogger(logger),
			erede.WithRecorder(recorder),
		)
	case config.ProviderMercadoPago:
		return mercadopago.NewGateway(mercadopago.Config{
			AccessToken:            cfg.MercadoPago.AccessToken,
			PayerEmail:             cfg.MercadoPago.PayerEmail,
			DefaultPaymentMethodID: cfg.MercadoPago.PaymentMethodID,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}

func setMiddlewares(router *gin.Engine, logger *zap.Logger) {
	log := logger.Named("http")
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	})
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("recovered from panic", zap.Any("panic", recovered))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
