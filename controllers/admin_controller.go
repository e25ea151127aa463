package controllers

import (
	"context"
	"net/http"

	"shopez/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

func (h *AdminController) FetchBanner(c *gin.Context) {
	banner, err := h.admin.Banner(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", banner)
}

func (h *AdminController) UpdateBanner(c *gin.Context) {
	var in services.BannerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	if err := h.admin.UpdateBanner(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Banner updated", nil)
}

func (h *AdminController) FetchUsers(c *gin.Context) {
	users, err := h.admin.Users(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", users)
}

func (h *AdminController) Stats(c *gin.Context) {
	st, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", st)
}

type HealthController struct {
	ping func(ctx context.Context) error
}

// NewHealthController reports healthy whenever ping succeeds. A nil ping
// always succeeds.
func NewHealthController(ping func(ctx context.Context) error) *HealthController {
	return &HealthController{ping: ping}
}

func (h *HealthController) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			fail(c, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	respond(c, http.StatusOK, "ok", nil)
}
