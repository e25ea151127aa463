package services

import (
	"context"
	"time"

	"shopez/models"
	"shopez/pricing"
	"shopez/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductSelection names what is being bought. When ProductID is set the
// descriptive and price fields are copied from the catalog and any values
// sent by the client are ignored.
type ProductSelection struct {
	ProductID       string  `json:"productId" validate:"omitempty,objectid"`
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description"`
	MainImage       string  `json:"mainImg"`
	Size            string  `json:"size"`
	Quantity        int     `json:"quantity" validate:"gte=0"`
	UnitPrice       float64 `json:"price" validate:"gt=0"`
	DiscountPercent float64 `json:"discount" validate:"gte=0,lte=100"`
}

type CartItemInput struct {
	UserID string `json:"userId" validate:"required"`
	ProductSelection
}

type CartLineUpdate struct {
	Item    *CartLine `json:"item,omitempty"`
	Removed bool      `json:"removed"`
}

type CartSummary struct {
	Items     []CartLine `json:"items"`
	LineCount int        `json:"lineCount"`
	ItemCount int        `json:"itemCount"`
	Total     string     `json:"total"`
}

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: orNop(logger), now: time.Now}
}

// resolveSelection fills sel from the catalog when it references a product
// and applies the quantity default.
func resolveSelection(ctx context.Context, products repository.ProductRepository, logger *zap.Logger, sel *ProductSelection) error {
	if sel.Quantity == 0 {
		sel.Quantity = 1
	}
	if sel.ProductID == "" {
		return nil
	}
	id, err := parseID("productId", sel.ProductID)
	if err != nil {
		return err
	}
	p, err := products.FindByID(ctx, id)
	if err != nil {
		return storageError(logger, "find product", "product", err)
	}
	if len(p.Sizes) > 0 && !p.HasSize(sel.Size) {
		return invalidField("size", "is not offered for this product")
	}
	sel.Title = p.Title
	sel.Description = p.Description
	sel.MainImage = p.MainImage
	sel.UnitPrice = p.Price
	sel.DiscountPercent = p.DiscountPercent
	return nil
}

// AddItem merges in into the line matching (user, title, size), or opens
// a new line.
func (s *CartService) AddItem(ctx context.Context, in CartItemInput) (*CartLine, error) {
	if err := resolveSelection(ctx, s.products, s.logger, &in.ProductSelection); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	item, err := s.carts.Upsert(ctx, &models.CartItem{
		UserID:          in.UserID,
		ProductID:       in.ProductID,
		Title:           in.Title,
		Description:     in.Description,
		MainImage:       in.MainImage,
		Size:            in.Size,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		DiscountPercent: in.DiscountPercent,
		AddedAt:         s.now(),
	})
	if err != nil {
		return nil, storageError(s.logger, "upsert cart item", "", err)
	}
	line := newCartLine(*item)
	return &line, nil
}

func (s *CartService) IncreaseQuantity(ctx context.Context, userID, lineID string) (*CartLine, error) {
	id, err := parseID("id", lineID)
	if err != nil {
		return nil, err
	}
	item, err := s.carts.Increment(ctx, userID, id)
	if err != nil {
		return nil, storageError(s.logger, "increment cart item", "cart item", err)
	}
	line := newCartLine(*item)
	return &line, nil
}

// DecreaseQuantity lowers the line by one and removes it instead when it
// holds a single unit.
func (s *CartService) DecreaseQuantity(ctx context.Context, userID, lineID string) (*CartLineUpdate, error) {
	id, err := parseID("id", lineID)
	if err != nil {
		return nil, err
	}
	item, removed, err := s.carts.Decrement(ctx, userID, id)
	if err != nil {
		return nil, storageError(s.logger, "decrement cart item", "cart item", err)
	}
	if removed {
		return &CartLineUpdate{Removed: true}, nil
	}
	line := newCartLine(*item)
	return &CartLineUpdate{Item: &line}, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, lineID string) error {
	id, err := parseID("id", lineID)
	if err != nil {
		return err
	}
	if err := s.carts.Delete(ctx, userID, id); err != nil {
		return storageError(s.logger, "delete cart item", "cart item", err)
	}
	return nil
}

// ListItems returns the user's lines, most recently added first.
func (s *CartService) ListItems(ctx context.Context, userID string) ([]CartLine, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageError(s.logger, "list cart", "", err)
	}
	out := make([]CartLine, 0, len(items))
	for _, item := range items {
		out = append(out, newCartLine(item))
	}
	return out, nil
}

func (s *CartService) Clear(ctx context.Context, userID string) (int64, error) {
	n, err := s.carts.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, storageError(s.logger, "clear cart", "", err)
	}
	return n, nil
}

func (s *CartService) Summary(ctx context.Context, userID string) (*CartSummary, error) {
	lines, err := s.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum := &CartSummary{Items: lines, LineCount: len(lines)}
	total := decimal.Zero
	for _, l := range lines {
		sum.ItemCount += l.Quantity
		total = total.Add(pricing.LineTotal(l.UnitPrice, l.DiscountPercent, l.Quantity))
	}
	sum.Total = pricing.Format(total)
	return sum, nil
}
