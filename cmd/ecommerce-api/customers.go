package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordenes-ecom/internal/customer"
	"github.com/MikeMC777/ordenes-ecom/internal/httpx"
)

// customerService is satisfied by *customer.Service.
type customerService interface {
	List(ctx context.Context, f customer.Filter) ([]customer.Customer, error)
	GetByID(ctx context.Context, id string) (*customer.Customer, error)
	GetByEmail(ctx context.Context, email string) (*customer.Customer, error)
	Create(ctx context.Context, in customer.CreateCustomerRequest) (*customer.Customer, error)
	Update(ctx context.Context, id string, in customer.UpdateCustomerRequest) (*customer.Customer, error)
	Delete(ctx context.Context, id string) error
}

// @Summary     List customers
// @Tags        customers
// @Produce     json
// @Param       active query bool   false "Only active (true) or inactive (false) customers"
// @Param       name   query string false "Case-insensitive match on first or last name"
// @Param       limit  query int    false "Page size (default 20, max 100)"
// @Param       offset query int    false "Offset"
// @Success     200 {array}  customer.Customer
// @Failure     400 {object} httpx.ErrorBody
// @Router      /customers [get]
func listCustomersHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		active, err := queryBool(c, "active")
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		limit, offset, err := paging(c)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		out, err := svc.List(c.Request.Context(), customer.Filter{
			Active: active,
			Name:   c.Query("name"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary     Get a customer
// @Tags        customers
// @Produce     json
// @Param       id  path     string true "Customer ID (UUID)"
// @Success     200 {object} customer.Customer
// @Failure     404 {object} httpx.ErrorBody
// @Router      /customers/{id} [get]
func getCustomerHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		cust, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, cust)
	}
}

// @Summary     Find a customer by email
// @Tags        customers
// @Produce     json
// @Param       email path     string true "Email address"
// @Success     200   {object} customer.Customer
// @Failure     404   {object} httpx.ErrorBody
// @Router      /customers/email/{email} [get]
func getCustomerByEmailHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cust, err := svc.GetByEmail(c.Request.Context(), c.Param("email"))
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, cust)
	}
}

// @Summary     Create a customer
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       body body     customer.CreateCustomerRequest true "Customer"
// @Success     201  {object} customer.Customer
// @Failure     400  {object} httpx.ErrorBody
// @Failure     409  {object} httpx.ErrorBody
// @Router      /customers [post]
func createCustomerHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customer.CreateCustomerRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.AbortWithError(c, httpx.BindError(err))
			return
		}
		cust, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cust)
	}
}

// @Summary     Update a customer
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       id   path     string                         true "Customer ID (UUID)"
// @Param       body body     customer.UpdateCustomerRequest true "Fields to change"
// @Success     200  {object} customer.Customer
// @Failure     400  {object} httpx.ErrorBody
// @Failure     404  {object} httpx.ErrorBody
// @Failure     409  {object} httpx.ErrorBody
// @Router      /customers/{id} [put]
func updateCustomerHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var in customer.UpdateCustomerRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.AbortWithError(c, httpx.BindError(err))
			return
		}
		cust, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, cust)
	}
}

// @Summary     Delete a customer
// @Tags        customers
// @Param       id  path string true "Customer ID (UUID)"
// @Success     204
// @Failure     400 {object} httpx.ErrorBody "Customer still has orders"
// @Failure     404 {object} httpx.ErrorBody
// @Router      /customers/{id} [delete]
func deleteCustomerHandler(svc customerService) gin.HandlerFunc {
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
