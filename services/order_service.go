package services

import (
	"context"
	"errors"
	"time"

	"shopez/models"
	"shopez/repository"

	"go.uber.org/zap"
)

type OrderService struct {
	orders repository.OrderRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, logger: orNop(logger), now: time.Now}
}

func (s *OrderService) find(ctx context.Context, orderID string) (*models.Order, error) {
	id, err := parseID("id", orderID)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(s.logger, "find order", "order", err)
	}
	return o, nil
}

// Get returns one order. Customers only see their own; someone else's
// order is reported as missing.
func (s *OrderService) Get(ctx context.Context, actor Actor, orderID string) (*OrderView, error) {
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(o.UserID) {
		return nil, &NotFoundError{Resource: "order"}
	}
	v := newOrderView(*o)
	return &v, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]OrderView, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageError(s.logger, "list orders", "", err)
	}
	return newOrderViews(orders), nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]OrderView, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, storageError(s.logger, "list all orders", "", err)
	}
	return newOrderViews(orders), nil
}

// SetStatus moves an order along its lifecycle. The write only applies
// while the stored status still permits the move, so two racing updates
// cannot both win.
func (s *OrderService) SetStatus(ctx context.Context, orderID string, next models.OrderStatus) (*OrderView, error) {
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, next)
}

// Cancel cancels an order on behalf of actor. Customers may only cancel
// their own orders.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, orderID string) (*OrderView, error) {
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(o.UserID) {
		return nil, &NotFoundError{Resource: "order"}
	}
	return s.transition(ctx, o, models.StatusCancelled)
}

func (s *OrderService) transition(ctx context.Context, o *models.Order, next models.OrderStatus) (*OrderView, error) {
	if err := checkTransition(o.Status, next); err != nil {
		return nil, err
	}

	var deliveredAt *time.Time
	if next == models.StatusDelivered {
		now := s.now()
		deliveredAt = &now
	}

	updated, err := s.orders.UpdateStatus(ctx, o.ID, models.Predecessors(next), next, deliveredAt)
	if errors.Is(err, repository.ErrNotFound) {
		// lost a race; report against whatever is stored now
		current, ferr := s.orders.FindByID(ctx, o.ID)
		if ferr != nil {
			return nil, storageError(s.logger, "find order", "order", ferr)
		}
		if cerr := checkTransition(current.Status, next); cerr != nil {
			return nil, cerr
		}
		return nil, &ConflictError{Message: "order was modified concurrently"}
	}
	if err != nil {
		return nil, storageError(s.logger, "update order status", "order", err)
	}

	s.logger.Info("order status changed",
		zap.String("orderId", o.ID.Hex()),
		zap.String("from", string(o.Status)),
		zap.String("to", string(next)),
	)
	v := newOrderView(*updated)
	return &v, nil
}

func checkTransition(from, to models.OrderStatus) error {
	if from.Terminal() {
		return &AlreadyTerminalError{Status: from, To: to}
	}
	if !from.CanTransition(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}
