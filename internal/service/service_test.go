package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/events"
	"github.com/Skotchmaster/restaurant_web/internal/testutil"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

var customer = domain.Session{Token: "tok", User: "alice", Role: domain.RoleCustomer}

type published struct {
	topic string
	key   string
	event events.Event
}

type recorder struct {
	mu   sync.Mutex
	sent []published
}

func (r *recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, published{topic: topic, key: key, event: event.(events.Event)})
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, p := range r.sent {
		out = append(out, p.event.Type)
	}
	return out
}

func newClient(api *testutil.FakeAPI) *apiclient.Client {
	return apiclient.NewClient(api.BaseURL(), "Token", 2*time.Second)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func menuDishes() []map[string]any {
	return []map[string]any{
		{"id": 1, "name": "Pizza", "price": "10.00", "category": 1, "categoryName": "Mains", "average_rating": 4.5},
		{"id": 2, "name": "Soup", "price": "5.00", "category": 2, "categoryName": "Starters", "average_rating": 3.2},
	}
}

func withMenu(t *testing.T, api *testutil.FakeAPI) {
	t.Helper()
	api.JSON("GET /api/customer-dishes/", 200, menuDishes())
}
