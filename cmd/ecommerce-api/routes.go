package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/ordenes-ecom/docs"
	"github.com/MikeMC777/ordenes-ecom/internal/httpx"
)

type deps struct {
	customers customerService
	products  productService
	orders    orderService
	billing   billingRecords
	health    healthChecker
	// idem is nil when Redis is not configured.
	idem httpx.KeyStore
	log  *slog.Logger
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(d.log), httpx.Recovery(d.log), httpx.ErrorLogger(d.log))

	r.GET("/healthz", livenessHandler)
	r.GET("/health", healthHandler(d.health))
	r.GET("/api/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	cg := r.Group("/customers")
	cg.GET("", listCustomersHandler(d.customers))
	cg.GET("/email/:email", getCustomerByEmailHandler(d.customers))
	cg.GET("/:id", getCustomerHandler(d.customers))
	cg.POST("", createCustomerHandler(d.customers))
	cg.PUT("/:id", updateCustomerHandler(d.customers))
	cg.DELETE("/:id", deleteCustomerHandler(d.customers))

	pg := r.Group("/products")
	pg.GET("", listProductsHandler(d.products))
	pg.GET("/:id", getProductHandler(d.products))
	pg.POST("", createProductHandler(d.products))
	pg.PATCH("/:id", updateProductHandler(d.products))
	pg.PATCH("/:id/inventory", updateInventoryHandler(d.products))
	pg.DELETE("/:id", deleteProductHandler(d.products))

	og := r.Group("/orders")
	create := []gin.HandlerFunc{createOrderHandler(d.orders)}
	if d.idem != nil {
		create = append([]gin.HandlerFunc{httpx.Idempotency(d.idem, "orders.create", d.log)}, create...)
	}
	og.POST("", create...)
	og.GET("", listOrdersHandler(d.orders))
	og.GET("/:id", getOrderHandler(d.orders))
	og.GET("/:id/billing", listOrderBillingHandler(d.orders, d.billing))
	og.PATCH("/:id/status", updateOrderStatusHandler(d.orders))
	og.PATCH("/:id/payment-status", updatePaymentStatusHandler(d.orders))
	og.PATCH("/:id/cancel", cancelOrderHandler(d.orders))
	og.PATCH("/:id/confirm-payment", confirmPaymentHandler(d.orders))
	og.DELETE("/:id", deleteOrderHandler(d.orders))

	return r
}
