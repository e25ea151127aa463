package controllers

import (
	"net/http"
	"strconv"

	"shopez/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func (h *ProductController) FetchProducts(c *gin.Context) {
	var q services.ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	products, err := h.products.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", products)
}

func (h *ProductController) FetchProductDetails(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", product)
}

func (h *ProductController) SearchProducts(c *gin.Context) {
	products, err := h.products.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", products)
}

func (h *ProductController) FetchFeaturedProducts(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	products, err := h.products.Featured(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", products)
}

func (h *ProductController) FetchProductsByCategory(c *gin.Context) {
	products, err := h.products.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", products)
}

func (h *ProductController) FetchCategoryDetails(c *gin.Context) {
	details, err := h.products.CategoryDetails(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", details)
}
