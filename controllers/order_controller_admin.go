package controllers

import (
	"net/http"

	"shopez/models"

	"github.com/gin-gonic/gin"
)

func (h *OrderController) FetchAllOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", orders)
}

func (h *OrderController) UpdateOrderStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badBody(c)
		return
	}

	order, err := h.orders.SetStatus(c.Request.Context(), c.Param("id"), models.ParseStatus(body.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order status updated", order)
}
