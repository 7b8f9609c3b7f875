package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordenes-ecom/internal/billing"
	"github.com/MikeMC777/ordenes-ecom/internal/httpx"
	"github.com/MikeMC777/ordenes-ecom/internal/order"
)

// orderService is satisfied by *order.Service.
type orderService interface {
	Create(ctx context.Context, in order.CreateOrderRequest) (*order.Order, error)
	GetByID(ctx context.Context, id string) (*order.Order, error)
	List(ctx context.Context, f order.Filter) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id string, in order.UpdateStatusRequest) (*order.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, ps order.PaymentStatus) (*order.Order, error)
	Cancel(ctx context.Context, id string) (*order.Order, error)
	Delete(ctx context.Context, id string) error
	ConfirmPayment(ctx context.Context, id string) (*order.Order, error)
}

// billingRecords is satisfied by *billing.PGRepo.
type billingRecords interface {
	ListByOrder(ctx context.Context, orderID string) ([]billing.Record, error)
}

// @Summary     Place an order
// @Description Validates the customer and stock, prices the order and reserves inventory.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header   string                   false "Rejects replays of the same request with 409"
// @Param       body            body     order.CreateOrderRequest true  "Order"
// @Success     201             {object} order.Order
// @Failure     400             {object} httpx.ErrorBody
// @Failure     404             {object} httpx.ErrorBody
// @Failure     409             {object} httpx.ErrorBody
// @Router      /orders [post]
func createOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.CreateOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.AbortWithError(c, httpx.BindError(err))
			return
		}
		o, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// @Summary     List orders
// @Tags        orders
// @Produce     json
// @Param       status     query string false "Order status"
// @Param       customerId query string false "Customer ID (UUID)"
// @Param       startDate  query string false "From (YYYY-MM-DD or RFC 3339)"
// @Param       endDate    query string false "To, inclusive (YYYY-MM-DD or RFC 3339)"
// @Param       limit      query int    false "Page size (default 20, max 100)"
// @Param       offset     query int    false "Offset"
// @Success     200 {object} order.ListResponse
// @Failure     400 {object} httpx.ErrorBody
// @Failure     404 {object} httpx.ErrorBody
// @Router      /orders [get]
func listOrdersHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset, err := paging(c)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		f := order.Filter{
			Status: order.Status(c.Query("status")),
			Limit:  limit,
			Offset: offset,
		}
		if f.CustomerID, err = queryUUID(c, "customerId"); err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		if f.StartDate, err = queryDate(c, "startDate", false); err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		if f.EndDate, err = queryDate(c, "endDate", true); err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		items, err := svc.List(c.Request.Context(), f)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, order.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// @Summary     Get an order
// @Tags        orders
// @Produce     json
// @Param       id  path     string true "Order ID (UUID)"
// @Success     200 {object} order.Order
// @Failure     404 {object} httpx.ErrorBody
// @Router      /orders/{id} [get]
func getOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		o, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary     Change order status
// @Description Allowed from pending or processing. Use the cancel endpoint to cancel.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       id   path     string                    true "Order ID (UUID)"
// @Param       body body     order.UpdateStatusRequest true "Target status"
// @Success     200  {object} order.Order
// @Failure     400  {object} httpx.ErrorBody
// @Failure     404  {object} httpx.ErrorBody
// @Router      /orders/{id}/status [patch]
func updateOrderStatusHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var in order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.AbortWithError(c, httpx.BindError(err))
			return
		}
		o, err := svc.UpdateStatus(c.Request.Context(), id, in)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary     Change payment status
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       id   path     string                           true "Order ID (UUID)"
// @Param       body body     order.UpdatePaymentStatusRequest true "Payment status"
// @Success     200  {object} order.Order
// @Failure     400  {object} httpx.ErrorBody
// @Failure     404  {object} httpx.ErrorBody
// @Router      /orders/{id}/payment-status [patch]
func updatePaymentStatusHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var in order.UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.AbortWithError(c, httpx.BindError(err))
			return
		}
		o, err := svc.UpdatePaymentStatus(c.Request.Context(), id, in.PaymentStatus)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary     Cancel an order
// @Description Returns every item's quantity to inventory.
// @Tags        orders
// @Produce     json
// @Param       id  path     string true "Order ID (UUID)"
// @Success     200 {object} order.Order
// @Failure     400 {object} httpx.ErrorBody
// @Failure     404 {object} httpx.ErrorBody
// @Router      /orders/{id}/cancel [patch]
func cancelOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		o, err := svc.Cancel(c.Request.Context(), id)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary     Confirm payment
// @Description Marks a pending order paid and processing, then issues the invoice in the background.
// @Tags        orders
// @Produce     json
// @Param       id  path     string true "Order ID (UUID)"
// @Success     200 {object} order.Order
// @Failure     400 {object} httpx.ErrorBody
// @Failure     404 {object} httpx.ErrorBody
// @Router      /orders/{id}/confirm-payment [patch]
func confirmPaymentHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		o, err := svc.ConfirmPayment(c.Request.Context(), id)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary     Delete a cancelled order
// @Tags        orders
// @Param       id  path string true "Order ID (UUID)"
// @Success     204
// @Failure     400 {object} httpx.ErrorBody
// @Failure     404 {object} httpx.ErrorBody
// @Router      /orders/{id} [delete]
func deleteOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary     List billing attempts for an order
// @Tags        orders
// @Produce     json
// @Param       id  path     string true "Order ID (UUID)"
// @Success     200 {array}  billing.Record
// @Failure     404 {object} httpx.ErrorBody
// @Router      /orders/{id}/billing [get]
func listOrderBillingHandler(svc orderService, records billingRecords) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if _, err := svc.GetByID(c.Request.Context(), id); err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		out, err := records.ListByOrder(c.Request.Context(), id)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
