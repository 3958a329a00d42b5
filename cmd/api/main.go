package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rohanbasnet/shopcore/internal/aws"
	"github.com/rohanbasnet/shopcore/internal/catalog"
	"github.com/rohanbasnet/shopcore/internal/handlers"
	"github.com/rohanbasnet/shopcore/internal/metrics"
	"github.com/rohanbasnet/shopcore/internal/notify"
	"github.com/rohanbasnet/shopcore/internal/orders"
	"github.com/rohanbasnet/shopcore/internal/proofs"
	"github.com/rohanbasnet/shopcore/internal/stock"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	clients, err := aws.NewClients(context.Background())
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	productStore := catalog.NewStore(clients.DynamoDB, getEnv("PRODUCTS_TABLE", "products"))
	orderStore := orders.NewStore(clients.DynamoDB,
		getEnv("ORDERS_TABLE", "orders"),
		getEnv("LINE_ITEMS_TABLE", "line_items"),
		getEnv("JOURNAL_TABLE", "journal_numbers"))

	ledger := stock.NewLedger(productStore, logger)
	validator := stock.NewValidator(productStore)
	notifier := notify.NewNotifier(clients.SQS, getEnv("NOTIFICATIONS_QUEUE_URL", ""), logger)
	recorder := metrics.NewRecorder(clients.CloudWatch, logger)
	proofStore := proofs.NewStore(clients.S3, getEnv("PROOFS_BUCKET", "shopcore-payment-proofs"))

	service := orders.NewService(orderStore, productStore, ledger, validator, notifier, recorder, logger)

	r := setupRouter(handlers.HandlerConfig{
		Orders:   service,
		Products: productStore,
		Proofs:   proofStore,
		Logger:   logger,
	})

	// RUN_LOCAL=true runs a plain HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":" + getEnv("PORT", "8080")
		logger.Info("running local server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
