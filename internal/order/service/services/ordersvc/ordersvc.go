package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/internal/order/clients/payments"
	"github.com/quickmart/backend/internal/order/clients/products"
	"github.com/quickmart/backend/internal/order/clients/users"
	"github.com/quickmart/backend/internal/order/dal/interfaces/iorderrepo"
	"github.com/quickmart/backend/internal/order/service/models/cart"
	"github.com/quickmart/backend/internal/order/service/models/currency"
	"github.com/quickmart/backend/internal/order/service/models/order"
	"github.com/quickmart/backend/internal/order/service/models/saga"
	"github.com/quickmart/backend/pkg/httpx"
)

const paymentSource = "card_demo"

type identityVerifier interface {
	Introspect(ctx context.Context, authorization string) (*users.Identity, error)
}

type catalog interface {
	GetProduct(ctx context.Context, productID int64) (*products.Product, error)
	Reserve(ctx context.Context, productID int64, qty int) error
}

type paymentGateway interface {
	Pay(ctx context.Context, idempotencyKey string, amount decimal.Decimal, currency string, source string) (*payments.Receipt, error)
}

type eventPublisher interface {
	PublishConfirmed(ctx context.Context, o order.Order)
}

// OrderService drives the order-placement saga. Each call runs the steps
// strictly in sequence; nothing inside one attempt is parallel. Concurrency
// only arises across independent attempts, and correctness under it rests on
// the inventory engine's atomic decrement and the payment engine's
// idempotency key, not on any ordering imposed here.
type OrderService struct {
	orderRepo iorderrepo.Repository
	identity  identityVerifier
	catalog   catalog
	payments  paymentGateway
	events    eventPublisher
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.Repository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithIdentityVerifier(v identityVerifier) option {
	return func(s *OrderService) {
		s.identity = v
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalog(c catalog) option {
	return func(s *OrderService) {
		s.catalog = c
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithPaymentGateway(g paymentGateway) option {
	return func(s *OrderService) {
		s.payments = g
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventPublisher(p eventPublisher) option {
	return func(s *OrderService) {
		s.events = p
	}
}

// PlaceOrder runs one saga attempt: authenticate, price, pay, reserve,
// persist. The first failing step aborts the attempt; earlier completed steps
// are not unwound. In particular a reservation failure after capture leaves
// the charge in place, and the idempotency key is freshly generated per
// attempt, so a caller-level retry captures a second charge.
func (s *OrderService) PlaceOrder(ctx context.Context, authorization string, items []cart.Item) (*order.Order, error) {
	attempt := saga.NewAttempt()

	identity, err := s.identity.Introspect(ctx, authorization)
	if err != nil {
		return nil, abort(attempt, classify(err, saga.ErrUnauthorized))
	}
	mustAdvance(attempt, saga.StateAuthenticated)

	total := decimal.Zero
	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, abort(attempt, classify(err, &saga.ProductNotFoundError{ProductID: item.ProductID}))
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	// Half-up rounding applied once, to the final sum, never per line.
	total = total.Round(2)
	mustAdvance(attempt, saga.StatePriced)

	idempotencyKey := uuid.NewString()
	if _, err := s.payments.Pay(ctx, idempotencyKey, total, currency.CurrencyINR.String(), paymentSource); err != nil {
		return nil, abort(attempt, classify(err, saga.ErrPaymentDeclined))
	}
	mustAdvance(attempt, saga.StatePaid)

	for _, item := range items {
		if err := s.catalog.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, abort(attempt, classify(err, stockReason(item.ProductID, err)))
		}
	}
	mustAdvance(attempt, saga.StateReserved)

	now := time.Now()
	inserted, err := s.orderRepo.Insert(ctx, order.Order{
		UserID:    identity.UserID,
		Items:     items,
		Total:     total,
		Status:    order.StatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, abort(attempt, fmt.Errorf("failed to persist order: %w", err))
	}
	mustAdvance(attempt, saga.StatePersisted)

	if s.events != nil {
		s.events.PublishConfirmed(ctx, inserted)
	}

	slog.Info("order confirmed",
		"order_id", inserted.ID,
		"user_id", inserted.UserID,
		"total", inserted.Total.String(),
	)

	return &inserted, nil
}

// GetOrders retrieves orders based on filter.
func (s *OrderService) GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	orders, err := s.orderRepo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []order.Order{}
	}

	return orders, nil
}

// classify keeps transport-level exhaustion distinct from an application
// rejection; everything else becomes the step's abort reason.
func classify(err error, reason error) error {
	if errors.Is(err, httpx.ErrUnavailable) {
		return fmt.Errorf("%w: %s", saga.ErrUpstreamUnavailable, err.Error())
	}

	return reason
}

func stockReason(productID int64, err error) error {
	var reserveErr *products.ReserveError
	if errors.As(err, &reserveErr) {
		return &saga.StockUnavailableError{ProductID: productID, Reason: reserveErr.Reason()}
	}

	return &saga.StockUnavailableError{ProductID: productID, Reason: err.Error()}
}

func abort(attempt *saga.Attempt, reason error) error {
	if err := attempt.Abort(reason); err != nil {
		return err
	}

	slog.Warn("order attempt aborted", "state", attempt.State(), "reason", reason)

	return reason
}

// mustAdvance moves the attempt along the single legal path; the transition
// table and the step order above are maintained together, so a mismatch is a
// programming error.
func mustAdvance(attempt *saga.Attempt, to saga.State) {
	if err := attempt.Advance(to); err != nil {
		panic(err)
	}
}
