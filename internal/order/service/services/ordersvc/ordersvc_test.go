package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/internal/order/clients/payments"
	"github.com/quickmart/backend/internal/order/clients/products"
	"github.com/quickmart/backend/internal/order/clients/users"
	"github.com/quickmart/backend/internal/order/service/models/cart"
	"github.com/quickmart/backend/internal/order/service/models/order"
	"github.com/quickmart/backend/internal/order/service/models/saga"
	"github.com/quickmart/backend/pkg/httpx"
)

type fakeIdentity struct {
	identity *users.Identity
	err      error
}

func (f *fakeIdentity) Introspect(_ context.Context, _ string) (*users.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.identity, nil
}

type reserveCall struct {
	productID int64
	qty       int
}

type fakeCatalog struct {
	products   map[int64]*products.Product
	reserveErr map[int64]error
	reserves   []reserveCall
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID int64) (*products.Product, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, products.ErrNotFound
	}

	return product, nil
}

func (f *fakeCatalog) Reserve(_ context.Context, productID int64, qty int) error {
	if err, ok := f.reserveErr[productID]; ok {
		return err
	}
	f.reserves = append(f.reserves, reserveCall{productID: productID, qty: qty})

	return nil
}

type captureCall struct {
	key    string
	amount decimal.Decimal
}

type fakeGateway struct {
	captures []captureCall
	err      error
}

func (f *fakeGateway) Pay(
	_ context.Context,
	idempotencyKey string,
	amount decimal.Decimal,
	currency string,
	source string,
) (*payments.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.captures = append(f.captures, captureCall{key: idempotencyKey, amount: amount})

	return &payments.Receipt{Status: "succeeded", Amount: amount, Currency: currency}, nil
}

type fakeOrderRepo struct {
	nextID int64
	orders []order.Order
}

func (f *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	f.nextID++
	o.ID = f.nextID
	f.orders = append(f.orders, o)

	return o, nil
}

func (f *fakeOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return f.orders, nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[int64]*products.Product{
			1: {ID: 1, Name: "soap", Price: price("10.005"), Stock: 10},
			2: {ID: 2, Name: "brush", Price: price("3.333"), Stock: 10},
		},
		reserveErr: map[int64]error{},
	}
}

func newService(repo *fakeOrderRepo, catalog *fakeCatalog, gateway *fakeGateway) *OrderService {
	return MustNewOrderService(
		WithOrderRepository(repo),
		WithIdentityVerifier(&fakeIdentity{identity: &users.Identity{Active: true, UserID: 7, Email: "a@b.c"}}),
		WithCatalog(catalog),
		WithPaymentGateway(gateway),
	)
}

func TestPlaceOrderHappyPath(t *testing.T) {
	repo := &fakeOrderRepo{}
	catalog := newCatalog()
	gateway := &fakeGateway{}
	svc := newService(repo, catalog, gateway)

	items := []cart.Item{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	placed, err := svc.PlaceOrder(context.Background(), "Bearer tok", items)
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	// 10.005*2 + 3.333 = 23.343, rounded half-up once on the sum. Per-line
	// rounding would give 23.35 instead.
	if got := placed.Total.StringFixed(2); got != "23.34" {
		t.Fatalf("total = %s, want 23.34", got)
	}
	if placed.Status != order.StatusConfirmed {
		t.Fatalf("status = %s, want %s", placed.Status, order.StatusConfirmed)
	}
	if placed.UserID != 7 {
		t.Fatalf("user id = %d, want 7", placed.UserID)
	}
	if placed.ID == 0 {
		t.Fatal("expected a persisted order id")
	}

	if len(gateway.captures) != 1 {
		t.Fatalf("captures = %d, want 1", len(gateway.captures))
	}
	if gateway.captures[0].key == "" {
		t.Fatal("expected a non-empty idempotency key")
	}
	if !gateway.captures[0].amount.Equal(price("23.34")) {
		t.Fatalf("captured amount = %s, want 23.34", gateway.captures[0].amount)
	}

	want := []reserveCall{{productID: 1, qty: 2}, {productID: 2, qty: 1}}
	if len(catalog.reserves) != len(want) {
		t.Fatalf("reserve calls = %v, want %v", catalog.reserves, want)
	}
	for i, call := range want {
		if catalog.reserves[i] != call {
			t.Fatalf("reserve call %d = %v, want %v", i, catalog.reserves[i], call)
		}
	}
}

func TestPlaceOrderUnknownProductAbortsBeforePayment(t *testing.T) {
	repo := &fakeOrderRepo{}
	catalog := newCatalog()
	gateway := &fakeGateway{}
	svc := newService(repo, catalog, gateway)

	_, err := svc.PlaceOrder(context.Background(), "Bearer tok", []cart.Item{{ProductID: 99, Quantity: 1}})

	var notFound *saga.ProductNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ProductNotFoundError", err)
	}
	if notFound.ProductID != 99 {
		t.Fatalf("product id = %d, want 99", notFound.ProductID)
	}
	if len(gateway.captures) != 0 {
		t.Fatalf("captures = %d, want 0", len(gateway.captures))
	}
	if len(catalog.reserves) != 0 {
		t.Fatalf("reserve calls = %d, want 0", len(catalog.reserves))
	}
	if len(repo.orders) != 0 {
		t.Fatalf("persisted orders = %d, want 0", len(repo.orders))
	}
}

func TestPlaceOrderRejectedCredential(t *testing.T) {
	svc := MustNewOrderService(
		WithOrderRepository(&fakeOrderRepo{}),
		WithIdentityVerifier(&fakeIdentity{err: users.ErrUnauthorized}),
		WithCatalog(newCatalog()),
		WithPaymentGateway(&fakeGateway{}),
	)

	_, err := svc.PlaceOrder(context.Background(), "Bearer bad", []cart.Item{{ProductID: 1, Quantity: 1}})
	if !errors.Is(err, saga.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestPlaceOrderDeclinedPaymentAbortsBeforeReservation(t *testing.T) {
	repo := &fakeOrderRepo{}
	catalog := newCatalog()
	gateway := &fakeGateway{err: payments.ErrDeclined}
	svc := newService(repo, catalog, gateway)

	_, err := svc.PlaceOrder(context.Background(), "Bearer tok", []cart.Item{{ProductID: 1, Quantity: 1}})
	if !errors.Is(err, saga.ErrPaymentDeclined) {
		t.Fatalf("err = %v, want ErrPaymentDeclined", err)
	}
	if len(catalog.reserves) != 0 {
		t.Fatalf("reserve calls = %d, want 0", len(catalog.reserves))
	}
	if len(repo.orders) != 0 {
		t.Fatalf("persisted orders = %d, want 0", len(repo.orders))
	}
}

func TestPlaceOrderStockConflictAfterCaptureKeepsTheCharge(t *testing.T) {
	repo := &fakeOrderRepo{}
	catalog := newCatalog()
	catalog.reserveErr[2] = &products.ReserveError{ProductID: 2, Status: 409}
	gateway := &fakeGateway{}
	svc := newService(repo, catalog, gateway)

	items := []cart.Item{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 1},
	}

	_, err := svc.PlaceOrder(context.Background(), "Bearer tok", items)

	var stock *saga.StockUnavailableError
	if !errors.As(err, &stock) {
		t.Fatalf("err = %v, want StockUnavailableError", err)
	}
	if stock.ProductID != 2 {
		t.Fatalf("product id = %d, want 2", stock.ProductID)
	}
	if stock.Reason != "insufficient stock" {
		t.Fatalf("reason = %q, want %q", stock.Reason, "insufficient stock")
	}

	// The saga has no compensation step: the capture that preceded the failed
	// reservation stays in place and the partial reservation is not released.
	if len(gateway.captures) != 1 {
		t.Fatalf("captures = %d, want 1", len(gateway.captures))
	}
	if len(catalog.reserves) != 1 {
		t.Fatalf("reserve calls = %d, want 1", len(catalog.reserves))
	}
	if len(repo.orders) != 0 {
		t.Fatalf("persisted orders = %d, want 0", len(repo.orders))
	}
}

func TestPlaceOrderRetryCapturesASecondCharge(t *testing.T) {
	repo := &fakeOrderRepo{}
	catalog := newCatalog()
	gateway := &fakeGateway{}
	svc := newService(repo, catalog, gateway)

	items := []cart.Item{{ProductID: 1, Quantity: 1}}

	for i := 0; i < 2; i++ {
		if _, err := svc.PlaceOrder(context.Background(), "Bearer tok", items); err != nil {
			t.Fatalf("PlaceOrder attempt %d failed: %v", i, err)
		}
	}

	// Each attempt mints a fresh idempotency key, so the key never dedupes
	// across caller retries.
	if len(gateway.captures) != 2 {
		t.Fatalf("captures = %d, want 2", len(gateway.captures))
	}
	if gateway.captures[0].key == gateway.captures[1].key {
		t.Fatalf("both attempts reused key %q", gateway.captures[0].key)
	}
}

func TestPlaceOrderUpstreamExhaustionIsNotARejection(t *testing.T) {
	svc := MustNewOrderService(
		WithOrderRepository(&fakeOrderRepo{}),
		WithIdentityVerifier(&fakeIdentity{err: fmt.Errorf("introspect: %w", httpx.ErrUnavailable)}),
		WithCatalog(newCatalog()),
		WithPaymentGateway(&fakeGateway{}),
	)

	_, err := svc.PlaceOrder(context.Background(), "Bearer tok", []cart.Item{{ProductID: 1, Quantity: 1}})
	if !errors.Is(err, saga.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
	if errors.Is(err, saga.ErrUnauthorized) {
		t.Fatal("transport exhaustion must not read as a credential rejection")
	}
}

func TestGetOrdersNeverReturnsNil(t *testing.T) {
	svc := newService(&fakeOrderRepo{}, newCatalog(), &fakeGateway{})

	orders, err := svc.GetOrders(context.Background(), &order.QueryOrdersModel{})
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if orders == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(orders) != 0 {
		t.Fatalf("orders = %d, want 0", len(orders))
	}
}
