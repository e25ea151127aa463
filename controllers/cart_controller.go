package controllers

import (
	"net/http"

	"shopez/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

type lineRef struct {
	ID string `json:"id"`
}

func (h *CartController) AddToCart(c *gin.Context) {
	var in services.CartItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	userID, ok := ownerFor(c, in.UserID)
	if !ok {
		return
	}
	in.UserID = userID

	line, err := h.cart.AddItem(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Added to cart", line)
}

func (h *CartController) IncreaseQuantity(c *gin.Context) {
	var ref lineRef
	if err := c.ShouldBindJSON(&ref); err != nil {
		badBody(c)
		return
	}

	line, err := h.cart.IncreaseQuantity(c.Request.Context(), currentActor(c).UserID, ref.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Quantity increased", line)
}

func (h *CartController) DecreaseQuantity(c *gin.Context) {
	var ref lineRef
	if err := c.ShouldBindJSON(&ref); err != nil {
		badBody(c)
		return
	}

	upd, err := h.cart.DecreaseQuantity(c.Request.Context(), currentActor(c).UserID, ref.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if upd.Removed {
		respond(c, http.StatusOK, "Item removed", upd)
		return
	}
	respond(c, http.StatusOK, "Quantity decreased", upd)
}

func (h *CartController) RemoveItem(c *gin.Context) {
	if err := h.cart.RemoveItem(c.Request.Context(), currentActor(c).UserID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Item removed", nil)
}

func (h *CartController) FetchCart(c *gin.Context) {
	userID, ok := ownerFor(c, c.Param("userId"))
	if !ok {
		return
	}
	lines, err := h.cart.ListItems(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", lines)
}

func (h *CartController) ClearCart(c *gin.Context) {
	userID, ok := ownerFor(c, c.Param("userId"))
	if !ok {
		return
	}
	n, err := h.cart.Clear(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart cleared", gin.H{"removed": n})
}

func (h *CartController) Summary(c *gin.Context) {
	userID, ok := ownerFor(c, c.Param("userId"))
	if !ok {
		return
	}
	sum, err := h.cart.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", sum)
}
