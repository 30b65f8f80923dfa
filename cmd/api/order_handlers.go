package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/tienda-api/internal/httpx"
	"github.com/MikeMC777/tienda-api/internal/order"
	"github.com/MikeMC777/tienda-api/internal/product"
)

// The first storefront shipped no customer form and POSTed a bare item
// array, so orders created through that path keep its fixed header values.
const (
	legacyCustomerName = "Lorium"
	legacyAddress      = "Epsume 35/2"
)

// createOrderHandler godoc
// @Summary Place an order
// @Description Accepts either {customer_name, address, items} or the legacy bare array of {id, itemQty}.
// @Accept json
// @Produce json
// @Param order body order.PlaceOrderRequest true "order"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} product.HTTPError
// @Failure 409 {object} product.HTTPError
// @Router /order [post]
func createOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid body")
			return
		}
		req, ok := decodePlacement(body)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}

		receipt, err := svc.PlaceOrder(c.Request.Context(), req.CustomerName, req.Address, req.Items)
		if err != nil {
			renderPlacementError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Order created!", "order": receipt})
	}
}

// decodePlacement understands both placement body shapes. The legacy one is
// recognized by its leading '['.
func decodePlacement(body []byte) (order.PlaceOrderRequest, bool) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []order.ItemRequest
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return order.PlaceOrderRequest{}, false
		}
		return order.PlaceOrderRequest{
			CustomerName: legacyCustomerName,
			Address:      legacyAddress,
			Items:        items,
		}, true
	}
	var req order.PlaceOrderRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return order.PlaceOrderRequest{}, false
	}
	if req.CustomerName == "" {
		req.CustomerName = legacyCustomerName
	}
	if req.Address == "" {
		req.Address = legacyAddress
	}
	return req, true
}

func renderPlacementError(c *gin.Context, err error) {
	var itemErr *order.ItemError
	switch {
	case errors.Is(err, order.ErrNoItems), errors.As(err, &itemErr):
		httpx.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, product.ErrNotFound):
		httpx.Error(c, http.StatusBadRequest, "order references an unknown product")
	case errors.Is(err, order.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"status": "rejected", "message": "insufficient stock"})
	case errors.Is(err, order.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"status": "conflict", "message": "please retry"})
	default:
		log.Printf("[order] placement failed: %v", err)
		httpx.Error(c, http.StatusInternalServerError, "could not place order")
	}
}

// getOrderHandler godoc
// @Summary Fetch a placed order with its lines
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} order.Receipt
// @Failure 404 {object} product.HTTPError
// @Router /orders/{id} [get]
func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		receipt, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if errors.Is(err, order.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "no order found for id "+c.Param("id"))
			return
		}
		if err != nil {
			log.Printf("[order] get failed: %v", err)
			httpx.Error(c, http.StatusInternalServerError, "could not load order")
			return
		}
		c.JSON(http.StatusOK, receipt)
	}
}
