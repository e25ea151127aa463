package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"shopez/mocks"
	"shopez/models"
	"shopez/repository"
	"shopez/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	customer = Actor{UserID: "u1", Role: models.RoleCustomer}
	stranger = Actor{UserID: "u2", Role: models.RoleCustomer}
	operator = Actor{UserID: "admin", Role: models.RoleAdmin}
)

func newOrderFixture(t *testing.T, status models.OrderStatus) (*OrderService, *memory.Store, *models.Order) {
	t.Helper()
	store := memory.NewStore()
	o := &models.Order{UserID: "u1", Title: "Cap", Quantity: 1, UnitPrice: 10, Status: status, OrderDate: time.Now()}
	require.NoError(t, store.Orders().Insert(context.Background(), o))
	return NewOrderService(store.Orders(), nil), store, o
}

func TestOrderService_SetStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		wantErr bool
	}{
		{"placed to processing", models.StatusPlaced, models.StatusProcessing, false},
		{"skip to in-transit", models.StatusPlaced, models.StatusInTransit, false},
		{"in-transit to delivered", models.StatusInTransit, models.StatusDelivered, false},
		{"processing to cancelled", models.StatusProcessing, models.StatusCancelled, false},
		{"backwards", models.StatusProcessing, models.StatusPlaced, true},
		{"same status", models.StatusInTransit, models.StatusInTransit, true},
		{"unknown status", models.StatusPlaced, models.OrderStatus("shipped"), true},
		{"from delivered", models.StatusDelivered, models.StatusCancelled, true},
		{"from cancelled", models.StatusCancelled, models.StatusProcessing, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, o := newOrderFixture(t, tt.from)

			got, err := svc.SetStatus(ctx, o.ID.Hex(), tt.to)
			stored, ferr := store.Orders().FindByID(ctx, o.ID)
			require.NoError(t, ferr)

			if tt.wantErr {
				var terr *InvalidTransitionError
				assert.ErrorAs(t, err, &terr)
				assert.Equal(t, tt.from, stored.Status)
				assert.Nil(t, stored.DeliveryDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
			assert.Equal(t, tt.to, stored.Status)
			assert.Equal(t, tt.to == models.StatusDelivered, stored.DeliveryDate != nil)
		})
	}
}

func TestOrderService_TerminalIsAlsoInvalidTransition(t *testing.T) {
	svc, _, o := newOrderFixture(t, models.StatusDelivered)

	_, err := svc.SetStatus(context.Background(), o.ID.Hex(), models.StatusCancelled)
	var terminal *AlreadyTerminalError
	var invalid *InvalidTransitionError
	assert.ErrorAs(t, err, &terminal)
	assert.ErrorAs(t, err, &invalid)
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels", func(t *testing.T) {
		svc, _, o := newOrderFixture(t, models.StatusProcessing)
		got, err := svc.Cancel(ctx, customer, o.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, got.Status)
	})

	t.Run("operator cancels anyone's order", func(t *testing.T) {
		svc, _, o := newOrderFixture(t, models.StatusPlaced)
		_, err := svc.Cancel(ctx, operator, o.ID.Hex())
		require.NoError(t, err)
	})

	t.Run("other customer cannot", func(t *testing.T) {
		svc, store, o := newOrderFixture(t, models.StatusPlaced)
		_, err := svc.Cancel(ctx, stranger, o.ID.Hex())
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf)
		stored, _ := store.Orders().FindByID(ctx, o.ID)
		assert.Equal(t, models.StatusPlaced, stored.Status)
	})

	for _, status := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled} {
		t.Run("already "+string(status), func(t *testing.T) {
			svc, _, o := newOrderFixture(t, status)
			_, err := svc.Cancel(ctx, customer, o.ID.Hex())
			var terminal *AlreadyTerminalError
			require.ErrorAs(t, err, &terminal)
			assert.Equal(t, status, terminal.Status)
		})
	}

	t.Run("unknown order", func(t *testing.T) {
		svc, _, _ := newOrderFixture(t, models.StatusPlaced)
		_, err := svc.Cancel(ctx, customer, primitive.NewObjectID().Hex())
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc, _, _ := newOrderFixture(t, models.StatusPlaced)
		_, err := svc.Cancel(ctx, customer, "123")
		requireValidation(t, err, "id")
	})
}

func TestOrderService_ConcurrentTransitionsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	svc, _, o := newOrderFixture(t, models.StatusPlaced)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := models.StatusDelivered
			if i%2 == 0 {
				next = models.StatusCancelled
			}
			if _, err := svc.SetStatus(ctx, o.ID.Hex(), next); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestOrderService_LostRaceIsConflict(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()
	orders := new(mocks.MockOrderRepository)
	orders.On("FindByID", mock.Anything, id).Return(&models.Order{ID: id, UserID: "u1", Status: models.StatusPlaced}, nil)
	orders.On("UpdateStatus", mock.Anything, id, mock.Anything, models.StatusProcessing, (*time.Time)(nil)).Return(nil, repository.ErrNotFound)

	_, err := NewOrderService(orders, nil).SetStatus(ctx, id.Hex(), models.StatusProcessing)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	orders.AssertNumberOfCalls(t, "FindByID", 2)
}

func TestOrderService_GetAndList(t *testing.T) {
	ctx := context.Background()
	svc, store, o := newOrderFixture(t, models.StatusPlaced)
	require.NoError(t, store.Orders().Insert(ctx, &models.Order{UserID: "u2", Title: "Mug", OrderDate: time.Now()}))

	got, err := svc.Get(ctx, customer, o.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.LineTotal)

	_, err = svc.Get(ctx, stranger, o.ID.Hex())
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	mine, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
