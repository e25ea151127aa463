// Package services holds the storefront business rules. Handlers call
// into it; it talks to storage only through the repository ports.
package services

import (
	"errors"

	"shopez/models"
	"shopez/pricing"
	"shopez/repository"

	"go.uber.org/zap"
)

// Actor is the authenticated caller as asserted by a verified token.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// CanActFor reports whether a may read or change data owned by userID.
func (a Actor) CanActFor(userID string) bool {
	return a.IsAdmin() || a.UserID == userID
}

type CartLine struct {
	models.CartItem
	EffectivePrice string `json:"effectivePrice"`
	LineTotal      string `json:"lineTotal"`
}

func newCartLine(item models.CartItem) CartLine {
	return CartLine{
		CartItem:       item,
		EffectivePrice: pricing.Format(pricing.EffectivePrice(item.UnitPrice, item.DiscountPercent)),
		LineTotal:      pricing.Format(pricing.LineTotal(item.UnitPrice, item.DiscountPercent, item.Quantity)),
	}
}

type OrderView struct {
	models.Order
	EffectivePrice string `json:"effectivePrice"`
	LineTotal      string `json:"lineTotal"`
}

func newOrderView(o models.Order) OrderView {
	return OrderView{
		Order:          o,
		EffectivePrice: pricing.Format(pricing.EffectivePrice(o.UnitPrice, o.DiscountPercent)),
		LineTotal:      pricing.Format(pricing.LineTotal(o.UnitPrice, o.DiscountPercent, o.Quantity)),
	}
}

func newOrderViews(orders []models.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(o))
	}
	return out
}

type ProductView struct {
	models.Product
	EffectivePrice string `json:"effectivePrice"`
}

func newProductView(p models.Product) ProductView {
	return ProductView{
		Product:        p,
		EffectivePrice: pricing.Format(pricing.EffectivePrice(p.Price, p.DiscountPercent)),
	}
}

func newProductViews(products []models.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, newProductView(p))
	}
	return out
}

// storageError logs err and hides it behind a ServerError, unless it is
// repository.ErrNotFound, in which case the resource is reported missing.
func storageError(logger *zap.Logger, op, resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) && resource != "" {
		return &NotFoundError{Resource: resource}
	}
	logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return &ServerError{Op: op, Err: err}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
