package main

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
	"github.com/MikeMC777/ordenes-ecom/internal/httpx"
	"github.com/MikeMC777/ordenes-ecom/internal/product"
)

// productService is satisfied by *product.Service.
type productService interface {
	List(ctx context.Context, q product.Query) ([]product.Product, error)
	GetByID(ctx context.Context, id string) (*product.Product, error)
	Create(ctx context.Context, in product.CreateProductRequest) (*product.Product, error)
	Update(ctx context.Context, id string, in product.UpdateProductRequest) (*product.Product, error)
	Delete(ctx context.Context, id string) error
	AdjustInventory(ctx context.Context, id string, quantity int) (*product.Product, error)
}

const minSearchLen = 2

// @Summary     List products
// @Tags        products
// @Produce     json
// @Param       category query string false "Only products in this category"
// @Param       q        query string false "Search in name and description (min 2 chars)"
// @Param       limit    query int    false "Page size (default 20, max 100)"
// @Param       offset   query int    false "Offset"
// @Success     200 {object} product.ListResponse
// @Failure     400 {object} httpx.ErrorBody
// @Router      /products [get]
func listProductsHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if q != "" && utf8.RuneCountInString(q) < minSearchLen {
			httpx.AbortWithError(c, apperr.Validation("q must have at least %d characters", minSearchLen))
			return
		}
		limit, offset, err := paging(c)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		query := product.Query{
			Category: strings.TrimSpace(c.Query("category")),
			Q:        q,
			Limit:    limit,
			Offset:   offset,
		}
		items, err := svc.List(c.Request.Context(), query)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, product.ListResponse{
			Category: query.Category,
			Q:        query.Q,
			Limit:    limit,
			Offset:   offset,
			Items:    items,
		})
	}
}

// @Summary     Get a product
// @Tags        products
// @Produce     json
// @Param       id  path     string true "Product ID (UUID)"
// @Success     200 {object} product.Product
// @Failure     404 {object} httpx.ErrorBody
// @Router      /products/{id} [get]
func getProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		p, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary     Create a product
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       body body     product.CreateProductRequest true "Product"
// @Success     201  {object} product.Product
// @Failure     400  {object} httpx.ErrorBody
// @Router      /products [post]
func createProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.CreateProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.AbortWithError(c, httpx.BindError(err))
			return
		}
		p, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// @Summary     Update a product
// @Description Partial update. Inventory is left untouched; use PATCH /products/{id}/inventory.
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       id   path     string                       true "Product ID (UUID)"
// @Param       body body     product.UpdateProductRequest true "Fields to change"
// @Success     200  {object} product.Product
// @Failure     400  {object} httpx.ErrorBody
// @Failure     404  {object} httpx.ErrorBody
// @Router      /products/{id} [patch]
func updateProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var in product.UpdateProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.AbortWithError(c, httpx.BindError(err))
			return
		}
		p, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary     Set product inventory
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       id   path     string                         true "Product ID (UUID)"
// @Param       body body     product.UpdateInventoryRequest true "Absolute quantity"
// @Success     200  {object} product.Product
// @Failure     400  {object} httpx.ErrorBody
// @Failure     404  {object} httpx.ErrorBody
// @Router      /products/{id}/inventory [patch]
func updateInventoryHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var in product.UpdateInventoryRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.AbortWithError(c, httpx.BindError(err))
			return
		}
		p, err := svc.AdjustInventory(c.Request.Context(), id, *in.Quantity)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary     Delete a product
// @Tags        products
// @Param       id  path string true "Product ID (UUID)"
// @Success     204
// @Failure     404 {object} httpx.ErrorBody
// @Router      /products/{id} [delete]
func deleteProductHandler(svc productService) gin.HandlerFunc {
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
