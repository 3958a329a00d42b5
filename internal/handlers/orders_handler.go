package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rohanbasnet/shopcore/internal/catalog"
	"github.com/rohanbasnet/shopcore/internal/orders"
	"github.com/rohanbasnet/shopcore/internal/proofs"
	"github.com/rohanbasnet/shopcore/internal/validation"
)

// HandlerConfig groups dependencies for the HTTP layer.
type HandlerConfig struct {
	Orders   *orders.Service
	Products *catalog.Store
	Proofs   *proofs.Store
	Logger   *zap.Logger
}

// RegisterRoutes registers the order and catalog-seed routes.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/orders", func(c *gin.Context) {
		list, err := cfg.Orders.ListOrders(c.Request.Context())
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
	})

	r.GET("/orders/stats", func(c *gin.Context) {
		ctx := c.Request.Context()
		total, err := cfg.Orders.TotalSales(ctx)
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		count, err := cfg.Orders.OrderCount(ctx)
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total_sales": total, "order_count": count})
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		o, err := cfg.Orders.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	r.POST("/orders", func(c *gin.Context) {
		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		cart := make([]orders.CartEntry, 0, len(req.Items))
		for _, it := range req.Items {
			cart = append(cart, orders.CartEntry{
				ProductID: it.ProductID,
				Selector: catalog.VariantSelector{
					Value: it.Variant.Value,
					Name:  it.Variant.Name,
					Price: it.Variant.Price,
				},
				Quantity: it.Quantity,
			})
		}
		shipping := orders.ShippingInfo{
			FullName: req.Shipping.FullName,
			Phone:    req.Shipping.Phone,
			Address:  req.Shipping.Address,
			City:     req.Shipping.City,
		}

		o, err := cfg.Orders.CreateOrder(c.Request.Context(), cart, shipping, req.UserID)
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		c.Header("Location", "/orders/"+o.OrderID)
		c.JSON(http.StatusCreated, o)
	})

	r.PUT("/orders/:id/status", func(c *gin.Context) {
		var req validation.UpdateStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		o, err := cfg.Orders.SetFulfillmentStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	r.DELETE("/orders/:id", func(c *gin.Context) {
		if err := cfg.Orders.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	})

	r.POST("/orders/:id/payment", func(c *gin.Context) {
		orderID := c.Param("id")
		journalNumber := c.PostForm("journal_number")
		if journalNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_journal_number"})
			return
		}
		fileHeader, err := c.FormFile("proof")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_payment_proof"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_payment_proof"})
			return
		}
		defer file.Close()

		proofURL, err := cfg.Proofs.Save(c.Request.Context(), orderID, file, fileHeader.Header.Get("Content-Type"))
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}

		o, err := cfg.Orders.ConfirmPayment(c.Request.Context(), orderID, journalNumber, proofURL)
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	r.PUT("/orders/:id/payment/verify", func(c *gin.Context) {
		var req validation.VerifyPaymentRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		o, err := cfg.Orders.VerifyPayment(c.Request.Context(), c.Param("id"), req.PaymentStatus, req.Verified)
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	// Catalog seeding. Browsing stays out of scope; orders need products to
	// exist, so creation is exposed for administrative tooling.
	r.POST("/products", func(c *gin.Context) {
		var req validation.CreateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		p := &catalog.Product{
			ProductID:   uuid.NewString(),
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
		}
		for _, vr := range req.Variants {
			p.Variants = append(p.Variants, catalog.Variant{
				Name:  vr.Name,
				Value: vr.Value,
				Price: vr.Price,
				Stock: vr.Stock,
			})
		}
		if err := cfg.Products.Create(c.Request.Context(), p); err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	r.GET("/products/:id", func(c *gin.Context) {
		p, err := cfg.Products.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, cfg.Logger, err)
			return
		}
		if p == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
			return
		}
		c.JSON(http.StatusOK, p)
	})
}

// writeError maps domain errors onto HTTP responses. Validation-class errors
// carry enough detail to correct the input; unexpected failures return a
// generic message and are logged with their cause.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var insufficient *orders.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":    "insufficient_stock",
			"problems": insufficient.Problems,
		})
	case errors.Is(err, orders.ErrDuplicateJournalNumber):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate_journal_number"})
	case errors.Is(err, orders.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "msg": err.Error()})
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
	case errors.Is(err, catalog.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
