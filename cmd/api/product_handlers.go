package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/tienda-api/internal/httpx"
	"github.com/MikeMC777/tienda-api/internal/product"
)

// productView is the wire shape the storefront expects.
func productView(p *product.Product) gin.H {
	return gin.H{
		"id":       p.ID,
		"name":     p.Name,
		"image":    p.Image,
		"price":    p.Price,
		"quantity": p.Quantity,
	}
}

// createProductHandler godoc
// @Summary Create a product
// @Accept json
// @Produce json
// @Param product body product.CreateProductRequest true "product"
// @Success 201 {object} map[string]string
// @Failure 400 {object} product.HTTPError
// @Router /product [post]
func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		if verr := product.ValidateCreate(req); verr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
			return
		}
		p := product.Product{
			Name:     req.Name,
			Image:    req.Image,
			Price:    req.Price,
			Quantity: *req.Quantity,
		}
		if err := repo.Create(c.Request.Context(), &p); err != nil {
			log.Printf("[product] create failed: %v", err)
			httpx.Error(c, http.StatusInternalServerError, "could not create product")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"msg": "Product created!"})
	}
}

// getProductHandler godoc
// @Summary Fetch one product
// @Produce json
// @Param id path string true "product id"
// @Success 200 {object} product.Product
// @Failure 404 {object} product.HTTPError
// @Router /products/{id} [get]
func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusNotFound, "no product found for id "+c.Param("id"))
			return
		}
		view := productView(p)
		view["selected"] = false // the storefront toggles this client-side
		c.JSON(http.StatusOK, view)
	}
}

// listProductsHandler godoc
// @Summary List the catalog
// @Produce json
// @Success 200 {array} product.Product
// @Router /products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.List(c.Request.Context())
		if err != nil {
			log.Printf("[product] list failed: %v", err)
			httpx.Error(c, http.StatusInternalServerError, "could not list products")
			return
		}
		out := make([]gin.H, 0, len(items))
		for i := range items {
			out = append(out, productView(&items[i]))
		}
		c.JSON(http.StatusOK, out)
	}
}

// updateProductHandler godoc
// @Summary Partially update a product
// @Accept json
// @Produce json
// @Param id path string true "product id"
// @Param product body product.UpdateProductRequest true "fields to change"
// @Success 200 {object} product.Product
// @Failure 400 {object} product.HTTPError
// @Failure 404 {object} product.HTTPError
// @Router /products/{id} [put]
func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		if verr := product.ValidateUpdate(req); verr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
			return
		}
		p := product.Product{
			ID:    c.Param("id"),
			Name:  req.Name,
			Image: req.Image,
			Price: req.Price,
		}
		if req.Quantity != nil {
			p.Quantity = *req.Quantity
		}
		err := repo.Update(c.Request.Context(), &p, req.Price != "", req.Quantity != nil)
		if errors.Is(err, product.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "no product found for id "+c.Param("id"))
			return
		}
		if err != nil {
			log.Printf("[product] update failed: %v", err)
			httpx.Error(c, http.StatusInternalServerError, "could not update product")
			return
		}
		updated, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusNotFound, "no product found for id "+c.Param("id"))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"name":     updated.Name,
			"image":    updated.Image,
			"price":    updated.Price,
			"quantity": updated.Quantity,
		})
	}
}

// deleteProductHandler godoc
// @Summary Delete a product
// @Produce json
// @Param id path string true "product id"
// @Success 204 {object} map[string]string
// @Failure 404 {object} product.HTTPError
// @Router /products/{id} [delete]
func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			log.Printf("[product] delete failed: %v", err)
			httpx.Error(c, http.StatusInternalServerError, "could not delete product")
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "no product found for id "+c.Param("id"))
			return
		}
		c.JSON(http.StatusNoContent, gin.H{"msg": "Product deleted!"})
	}
}
