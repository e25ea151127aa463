package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"shopez/idempotency"
	"shopez/models"
	"shopez/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const completeAttempts = 3

// IdempotencyStore remembers the outcome of a keyed checkout.
type IdempotencyStore interface {
	Begin(ctx context.Context, key string) ([]string, error)
	Complete(ctx context.Context, key string, orderIDs []string) error
	Release(ctx context.Context, key string) error
}

type DeliveryDetails struct {
	CustomerName  string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Mobile        string `json:"mobile" validate:"required,len=10,number"`
	Address       string `json:"address" validate:"required"`
	Pincode       string `json:"pincode" validate:"required,len=6,number"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

type BuyProductInput struct {
	UserID string `json:"userId" validate:"required"`
	DeliveryDetails
	ProductSelection
}

type CartCheckoutInput struct {
	UserID string `json:"userId" validate:"required"`
	DeliveryDetails
}

type CheckoutService struct {
	carts    repository.CartRepository
	orders   repository.OrderRepository
	products repository.ProductRepository
	tx       repository.Transactor
	keys     IdempotencyStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewCheckoutService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	tx repository.Transactor,
	keys IdempotencyStore,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		products: products,
		tx:       tx,
		keys:     keys,
		logger:   orNop(logger),
		now:      time.Now,
	}
}

func (d DeliveryDetails) normalized() DeliveryDetails {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Mobile = strings.TrimSpace(d.Mobile)
	d.Address = strings.TrimSpace(d.Address)
	d.Pincode = strings.TrimSpace(d.Pincode)
	d.PaymentMethod = strings.TrimSpace(d.PaymentMethod)
	return d
}

func (s *CheckoutService) newOrder(userID string, d DeliveryDetails, at time.Time) *models.Order {
	return &models.Order{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		CustomerName:  d.CustomerName,
		Email:         d.Email,
		Mobile:        d.Mobile,
		Address:       d.Address,
		Pincode:       d.Pincode,
		PaymentMethod: d.PaymentMethod,
		OrderDate:     at,
		Status:        models.StatusPlaced,
	}
}

// BuyProduct creates a single order for one product selection.
func (s *CheckoutService) BuyProduct(ctx context.Context, key string, in BuyProductInput) (*OrderView, error) {
	in.DeliveryDetails = in.DeliveryDetails.normalized()
	if err := resolveSelection(ctx, s.products, s.logger, &in.ProductSelection); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	views, err := s.once(ctx, "buy:"+in.UserID, key, func(ctx context.Context) ([]*models.Order, error) {
		o := s.newOrder(in.UserID, in.DeliveryDetails, s.now())
		o.ProductID = in.ProductID
		o.Title = in.Title
		o.Description = in.Description
		o.MainImage = in.MainImage
		o.Size = in.Size
		o.Quantity = in.Quantity
		o.UnitPrice = in.UnitPrice
		o.DiscountPercent = in.DiscountPercent

		if err := s.orders.Insert(ctx, o); err != nil {
			return nil, storageError(s.logger, "insert order", "", err)
		}
		return []*models.Order{o}, nil
	})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, &NotFoundError{Resource: "order"}
	}
	return &views[0], nil
}

// PlaceCartOrder turns every line of the user's cart into an order and
// empties the cart. Either all of that happens or none of it does.
func (s *CheckoutService) PlaceCartOrder(ctx context.Context, key string, in CartCheckoutInput) ([]OrderView, error) {
	in.DeliveryDetails = in.DeliveryDetails.normalized()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	return s.once(ctx, "cart:"+in.UserID, key, func(ctx context.Context) ([]*models.Order, error) {
		var created []*models.Order
		err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			// fn may be retried on transient transaction errors
			created = nil

			lines, err := s.carts.ListByUser(ctx, in.UserID)
			if err != nil {
				return storageError(s.logger, "list cart", "", err)
			}
			if len(lines) == 0 {
				return &EmptyCartError{}
			}

			checkoutID := uuid.NewString()
			at := s.now()
			for _, line := range lines {
				o := s.newOrder(in.UserID, in.DeliveryDetails, at)
				o.ProductID = line.ProductID
				o.Title = line.Title
				o.Description = line.Description
				o.MainImage = line.MainImage
				o.Size = line.Size
				o.Quantity = line.Quantity
				o.UnitPrice = line.UnitPrice
				o.DiscountPercent = line.DiscountPercent
				o.CheckoutID = checkoutID
				created = append(created, o)
			}

			if err := s.orders.InsertMany(ctx, created); err != nil {
				// an ordered insert may have written a prefix of the batch
				s.compensate(ctx, created)
				return storageError(s.logger, "insert orders", "", err)
			}
			if _, err := s.carts.DeleteByUser(ctx, in.UserID); err != nil {
				s.compensate(ctx, created)
				return storageError(s.logger, "clear cart", "", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info("cart checked out",
			zap.String("userId", in.UserID),
			zap.Int("orders", len(created)),
		)
		return created, nil
	})
}

// compensate removes orders written before a failed insert or cart
// clear. Inside a real transaction the abort already discards them.
func (s *CheckoutService) compensate(ctx context.Context, created []*models.Order) {
	ids := make([]primitive.ObjectID, 0, len(created))
	for _, o := range created {
		ids = append(ids, o.ID)
	}
	if err := s.orders.DeleteMany(ctx, ids); err != nil {
		s.logger.Error("compensating order delete failed",
			zap.Int("orders", len(ids)),
			zap.Error(err),
		)
	}
}

// once runs create at most once per (scope, key). An empty key disables
// the check.
func (s *CheckoutService) once(ctx context.Context, scope, key string, create func(ctx context.Context) ([]*models.Order, error)) ([]OrderView, error) {
	if key == "" || s.keys == nil {
		created, err := create(ctx)
		if err != nil {
			return nil, err
		}
		return viewsOf(created), nil
	}

	full := scope + ":" + key
	prior, err := s.keys.Begin(ctx, full)
	switch {
	case errors.Is(err, idempotency.ErrInFlight):
		return nil, &ConflictError{Message: "a request with this Idempotency-Key is still being processed"}
	case err != nil:
		return nil, storageError(s.logger, "begin idempotency key", "", err)
	case prior != nil:
		return s.replay(ctx, prior)
	}

	created, err := create(ctx)
	if err != nil {
		if rerr := s.keys.Release(ctx, full); rerr != nil {
			s.logger.Warn("release idempotency key", zap.String("key", full), zap.Error(rerr))
		}
		return nil, err
	}

	ids := make([]string, 0, len(created))
	for _, o := range created {
		ids = append(ids, o.ID.Hex())
	}
	s.complete(ctx, full, ids)
	return viewsOf(created), nil
}

// complete records ids under key. The orders already exist, so a failure
// is logged rather than returned; the reservation then lapses after
// idempotency.PendingTTL.
func (s *CheckoutService) complete(ctx context.Context, key string, ids []string) {
	var err error
	for attempt := 0; attempt < completeAttempts; attempt++ {
		if err = s.keys.Complete(ctx, key, ids); err == nil {
			return
		}
	}
	s.logger.Error("complete idempotency key",
		zap.String("key", key),
		zap.Int("attempts", completeAttempts),
		zap.Error(err),
	)
}

func (s *CheckoutService) replay(ctx context.Context, hexIDs []string) ([]OrderView, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, storageError(s.logger, "decode idempotency record", "", err)
		}
		ids = append(ids, id)
	}
	orders, err := s.orders.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storageError(s.logger, "find orders", "", err)
	}
	return newOrderViews(orders), nil
}

func viewsOf(orders []*models.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(*o))
	}
	return out
}
