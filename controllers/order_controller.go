package controllers

import (
	"net/http"
	"strings"

	"shopez/services"

	"github.com/gin-gonic/gin"
)

const IdempotencyHeader = "Idempotency-Key"

type OrderController struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService) *OrderController {
	return &OrderController{checkout: checkout, orders: orders}
}

func idempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(IdempotencyHeader))
}

func (h *OrderController) BuyProduct(c *gin.Context) {
	var in services.BuyProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	userID, ok := ownerFor(c, in.UserID)
	if !ok {
		return
	}
	in.UserID = userID

	order, err := h.checkout.BuyProduct(c.Request.Context(), idempotencyKey(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order placed successfully", order)
}

func (h *OrderController) PlaceCartOrder(c *gin.Context) {
	var in services.CartCheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	userID, ok := ownerFor(c, in.UserID)
	if !ok {
		return
	}
	in.UserID = userID

	orders, err := h.checkout.PlaceCartOrder(c.Request.Context(), idempotencyKey(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order placed successfully", orders)
}

func (h *OrderController) FetchOrders(c *gin.Context) {
	userID, ok := ownerFor(c, c.Param("userId"))
	if !ok {
		return
	}
	orders, err := h.orders.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", orders)
}

func (h *OrderController) FetchOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", order)
}

func (h *OrderController) CancelOrder(c *gin.Context) {
	order, err := h.orders.Cancel(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order cancelled", order)
}
