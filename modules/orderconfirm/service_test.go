package orderconfirm_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redeemkit/redeemkit/modules/orderconfirm"
	"github.com/redeemkit/redeemkit/pkg/email"
	"github.com/redeemkit/redeemkit/pkg/redemption"
)

type fakeOrders struct {
	mu        sync.Mutex
	customers map[uuid.UUID]uuid.UUID
	emails    map[uuid.UUID]string
	states    map[uuid.UUID]string
	redeemed  map[uuid.UUID]int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		customers: make(map[uuid.UUID]uuid.UUID),
		emails:    make(map[uuid.UUID]string),
		states:    make(map[uuid.UUID]string),
		redeemed:  make(map[uuid.UUID]int),
	}
}

func (f *fakeOrders) addOrder(customer uuid.UUID, addr string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.customers[id] = customer
	f.emails[id] = addr
	f.states[id] = "sale"
	return id
}

func (f *fakeOrders) Principal(ctx context.Context, orderID uuid.UUID) (uuid.UUID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.customers[orderID]
	return p, ok, nil
}

func (f *fakeOrders) State(ctx context.Context, orderID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[orderID], nil
}

func (f *fakeOrders) Redeem(ctx context.Context, orderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redeemed[orderID]++
	return nil
}

func (f *fakeOrders) CustomerEmail(ctx context.Context, orderID uuid.UUID) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	addr, ok := f.emails[orderID]
	return addr, ok && addr != "", nil
}

func (f *fakeOrders) Reference(ctx context.Context, orderID uuid.UUID) (string, error) {
	return "SO0042", nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []email.SendParams
}

func (r *recordingSender) Send(ctx context.Context, params email.SendParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, params)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func newService(t *testing.T) (*orderconfirm.Service, *fakeOrders, *recordingSender) {
	t.Helper()
	orders := newFakeOrders()
	sender := &recordingSender{}
	svc := orderconfirm.NewService(orderconfirm.Config{QRSize: 256}, redemption.NewMemoryStore(), orders, sender, nil)
	return svc, orders, sender
}

func TestService_ConfirmPayment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("issues and emails on first confirmation", func(t *testing.T) {
		svc, orders, sender := newService(t)
		orderID := orders.addOrder(uuid.New(), "customer@example.com")

		issued, err := svc.ConfirmPayment(ctx, orderID)
		require.NoError(t, err)
		assert.NotEmpty(t, issued.Record.Token)
		assert.NotEmpty(t, issued.ImagePNG)
		assert.False(t, issued.Existing)

		require.Equal(t, 1, sender.count())
		assert.Equal(t, "customer@example.com", sender.sent[0].To)
		assert.Contains(t, sender.sent[0].BodyHTML, "data:image/png;base64,")
		assert.Contains(t, sender.sent[0].Subject, "SO0042")
	})

	t.Run("repeat confirmation reuses token and does not resend", func(t *testing.T) {
		svc, orders, sender := newService(t)
		orderID := orders.addOrder(uuid.New(), "customer@example.com")

		first, err := svc.ConfirmPayment(ctx, orderID)
		require.NoError(t, err)
		second, err := svc.ConfirmPayment(ctx, orderID)
		require.NoError(t, err)

		assert.Equal(t, first.Record.Token, second.Record.Token)
		assert.True(t, second.Existing)
		assert.Equal(t, 1, sender.count())
	})

	t.Run("missing customer email does not block issuance", func(t *testing.T) {
		svc, orders, sender := newService(t)
		orderID := orders.addOrder(uuid.New(), "")

		issued, err := svc.ConfirmPayment(ctx, orderID)
		require.NoError(t, err)
		assert.NotEmpty(t, issued.Record.Token)
		assert.Zero(t, sender.count())
	})
}

func TestService_ResendCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, orders, sender := newService(t)
	orderID := orders.addOrder(uuid.New(), "customer@example.com")

	_, err := svc.ConfirmPayment(ctx, orderID)
	require.NoError(t, err)
	require.NoError(t, svc.ResendCode(ctx, orderID))

	assert.Equal(t, 2, sender.count())
}

func TestService_Present(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("customer redeems own code once", func(t *testing.T) {
		svc, orders, _ := newService(t)
		customer := uuid.New()
		orderID := orders.addOrder(customer, "customer@example.com")

		issued, err := svc.ConfirmPayment(ctx, orderID)
		require.NoError(t, err)

		res, err := svc.Present(ctx, issued.Payload, customer)
		require.NoError(t, err)
		assert.True(t, res.Redeemed())
		assert.Equal(t, 1, orders.redeemed[orderID])

		res, err = svc.Present(ctx, issued.Payload, customer)
		require.NoError(t, err)
		assert.Equal(t, redemption.OutcomeAlreadyUsed, res.Outcome)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		svc, orders, _ := newService(t)
		orderID := orders.addOrder(uuid.New(), "customer@example.com")

		issued, err := svc.ConfirmPayment(ctx, orderID)
		require.NoError(t, err)

		res, err := svc.Present(ctx, issued.Payload, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, redemption.OutcomeForeign, res.Outcome)
	})
}

func TestRouter_Verify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, orders, _ := newService(t)
	customer := uuid.New()
	orderID := orders.addOrder(customer, "customer@example.com")

	issued, err := svc.ConfirmPayment(ctx, orderID)
	require.NoError(t, err)

	router := orderconfirm.Router(svc)

	t.Run("successful redemption", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"payload":      issued.Payload,
			"principal_id": customer,
		})
		req := httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["ok"])
		assert.Equal(t, "redeemed", resp["code"])
	})

	t.Run("missing principal", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"payload": issued.Payload})
		req := httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("garbled payload", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"payload":      "definitely not a payload",
			"principal_id": customer,
		})
		req := httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, false, resp["ok"])
		assert.Equal(t, "invalid_format", resp["code"])
	})
}
