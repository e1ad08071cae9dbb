package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/events"
	"github.com/Skotchmaster/restaurant_web/internal/testutil"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

var orderNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func pendingOrders() []map[string]any {
	return []map[string]any{
		{"id": 1, "address": "Main 1, North", "total_price": "9.00", "created_at": "2024-05-01T11:40:00Z", "pending_at": "2024-05-01T11:50:00Z", "status": "pending"},
		{"id": 2, "address": 7, "total_price": 12.5, "created_at": "2024-05-01T11:00:00Z", "pending_at": "2024-05-01T11:29:00Z", "status": "pending"},
		{"id": 3, "address": 7, "total_price": "4.00", "created_at": "2024-05-01T11:55:00Z", "pending_at": nil, "status": "pending"},
	}
}

func newOrderService(t *testing.T) (*OrderService, *testutil.FakeAPI, *recorder) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	api.JSON("GET /api/orders/pending/", http.StatusOK, pendingOrders())
	rec := &recorder{}
	return &OrderService{API: newClient(api), Events: rec, Now: fixedClock(orderNow)}, api, rec
}

func TestOrderService_PendingCancelable(t *testing.T) {
	t.Parallel()

	svc, _, _ := newOrderService(t)
	list, err := svc.Pending(context.Background(), customer)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.True(t, list[0].Cancelable, "pending for 10 minutes")
	assert.False(t, list[1].Cancelable, "pending for 31 minutes")
	assert.False(t, list[2].Cancelable, "never entered pending")
}

func TestOrderService_CancelRemovesOrder(t *testing.T) {
	t.Parallel()

	svc, api, rec := newOrderService(t)
	api.JSON("POST /api/orders/cancel/", http.StatusOK, map[string]string{"message": "Order canceled successfully"})

	list, msg, err := svc.Cancel(context.Background(), customer, 1)
	require.NoError(t, err)
	assert.Equal(t, "Order canceled successfully", msg)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].ID)
	assert.Equal(t, 3, list[1].ID)

	var body map[string]int
	api.LastJSON(t, "POST /api/orders/cancel/", &body)
	assert.Equal(t, 1, body["order_id"])
	assert.Equal(t, []string{events.OrderCanceled}, rec.types())
}

func TestOrderService_CancelRejectedKeepsList(t *testing.T) {
	t.Parallel()

	svc, api, rec := newOrderService(t)
	api.JSON("POST /api/orders/cancel/", http.StatusBadRequest, map[string]string{
		"error": "Order can only be canceled 30 minutes after it was created.",
	})

	list, msg, err := svc.Cancel(context.Background(), customer, 2)
	require.Error(t, err)
	assert.Empty(t, msg)
	assert.Len(t, list, 3)
	assert.Equal(t, "Order can only be canceled 30 minutes after it was created.", apiclient.MessageOf(err, ""))
	assert.Empty(t, rec.types())
}

func TestOrderService_CancelSentEvenWhenListFails(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	api.JSON("GET /api/orders/pending/", http.StatusInternalServerError, map[string]string{"detail": "boom"})
	api.JSON("POST /api/orders/cancel/", http.StatusOK, map[string]string{"message": "Order canceled successfully"})
	rec := &recorder{}
	svc := &OrderService{API: newClient(api), Events: rec, Now: fixedClock(orderNow)}

	list, msg, err := svc.Cancel(context.Background(), customer, 1)
	require.ErrorIs(t, err, ErrStaleList)
	assert.Nil(t, list)
	assert.Equal(t, "Order canceled successfully", msg)
	assert.Equal(t, 1, api.Hits("POST /api/orders/cancel/"))
	assert.Equal(t, []string{events.OrderCanceled}, rec.types())
}

func TestOrderService_CancelInvalidIDSendsNothing(t *testing.T) {
	t.Parallel()

	svc, api, _ := newOrderService(t)
	_, _, err := svc.Cancel(context.Background(), customer, 0)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, api.Total())
}

func TestOrderService_CompleteReplacesStatus(t *testing.T) {
	t.Parallel()

	svc, api, _ := newOrderService(t)
	api.JSON("GET /api/orders/", http.StatusOK, pendingOrders())
	api.JSON("PATCH /api/orders/2/update-status/", http.StatusOK, map[string]string{"message": "Order status updated successfully"})

	employee := domain.Session{Token: "emp", User: "ed", Role: domain.RoleEmployee}
	list, msg, err := svc.Complete(context.Background(), employee, 2)
	require.NoError(t, err)
	assert.Equal(t, "Order status updated successfully", msg)
	require.Len(t, list, 3)
	assert.Equal(t, domain.StatusPending, list[0].Status)
	assert.Equal(t, domain.StatusCompleted, list[1].Status)
	assert.Equal(t, "Token emp", api.LastAuth("PATCH /api/orders/2/update-status/"))
}

func TestOrderService_CompleteFailureKeepsStatus(t *testing.T) {
	t.Parallel()

	svc, api, _ := newOrderService(t)
	api.JSON("GET /api/orders/", http.StatusOK, pendingOrders())

	list, _, err := svc.Complete(context.Background(), customer, 2)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiclient.StatusOf(err))
	assert.Equal(t, domain.StatusPending, list[1].Status)
}

func TestOrderService_CompleteSentEvenWhenListFails(t *testing.T) {
	t.Parallel()

	svc, api, _ := newOrderService(t)
	api.JSON("GET /api/orders/", http.StatusBadGateway, map[string]string{"detail": "upstream down"})
	api.JSON("PATCH /api/orders/2/update-status/", http.StatusOK, map[string]string{"message": "Order status updated successfully"})

	list, msg, err := svc.Complete(context.Background(), customer, 2)
	require.ErrorIs(t, err, ErrStaleList)
	assert.Nil(t, list)
	assert.Equal(t, "Order status updated successfully", msg)
	assert.Equal(t, 1, api.Hits("PATCH /api/orders/2/update-status/"))
}
