package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/events"
	"github.com/Skotchmaster/restaurant_web/internal/testutil"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

var manager = domain.Session{Token: "mgr", User: "mia", Role: domain.RoleManager}

func existingDishes() []apiclient.Dish {
	return []apiclient.Dish{
		{ID: 1, Name: "Pizza", Category: 1, Price: decimal.NewFromInt(10)},
		{ID: 2, Name: "Soup", Category: 2, Price: decimal.NewFromInt(5)},
	}
}

func newDishService(t *testing.T) (*DishService, *testutil.FakeAPI, *fakeIndex, *recorder) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	idx := &fakeIndex{}
	rec := &recorder{}
	return &DishService{API: newClient(api), Index: idx, Events: rec}, api, idx, rec
}

func TestDishInput_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   DishInput
	}{
		{name: "missing name", in: DishInput{Category: "1", Price: "3"}},
		{name: "missing price", in: DishInput{Name: "Tea", Category: "1"}},
		{name: "category not a number", in: DishInput{Name: "Tea", Category: "drinks", Price: "3"}},
		{name: "negative price", in: DishInput{Name: "Tea", Category: "1", Price: "-1"}},
		{name: "price not a number", in: DishInput{Name: "Tea", Category: "1", Price: "cheap"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, api, _, _ := newDishService(t)
			list, err := svc.Create(context.Background(), manager, existingDishes(), tt.in)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Len(t, list, 2)
			assert.Zero(t, api.Total())
		})
	}
}

func TestDishService_List(t *testing.T) {
	t.Parallel()

	svc, api, _, _ := newDishService(t)
	api.JSON("GET /api/dishes/", http.StatusOK, menuDishes())
	api.JSON("GET /api/categories/", http.StatusOK, []map[string]any{{"id": 1, "name": "Mains"}})

	dishes, cats, err := svc.List(context.Background(), manager)
	require.NoError(t, err)
	assert.Len(t, dishes, 2)
	assert.Len(t, cats, 1)
	assert.Equal(t, "Token mgr", api.LastAuth("GET /api/dishes/"))
}

func TestDishService_CreateAppendsAndIndexes(t *testing.T) {
	t.Parallel()

	svc, api, idx, rec := newDishService(t)
	api.JSON("POST /api/dishes/", http.StatusCreated, map[string]any{
		"id": 3, "name": "Tea", "price": "2.50", "category": 3,
	})
	menu := &MenuService{Index: idx, indexed: 42}
	svc.Menu = menu

	list, err := svc.Create(context.Background(), manager, existingDishes(), DishInput{
		Name: " Tea ", Category: "3", Price: "2.5",
		Image: &apiclient.Upload{Filename: "tea.png", Data: []byte("img")},
	})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Tea", list[2].Name)
	assert.Equal(t, 1, idx.reindexed)
	assert.Zero(t, menu.indexed)
	assert.Equal(t, []string{events.DishCreated}, rec.types())
}

func TestDishService_UpdateReplaces(t *testing.T) {
	t.Parallel()

	svc, api, _, rec := newDishService(t)
	api.JSON("PUT /api/dishes/2/", http.StatusOK, map[string]any{
		"id": 2, "name": "Tomato soup", "price": "6.00", "category": 2,
	})

	list, err := svc.Update(context.Background(), manager, existingDishes(), 2, DishInput{
		Name: "Tomato soup", Category: "2", Price: "6",
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Pizza", list[0].Name)
	assert.Equal(t, "Tomato soup", list[1].Name)
	assert.Equal(t, []string{events.DishUpdated}, rec.types())
}

func TestDishService_DeleteFilters(t *testing.T) {
	t.Parallel()

	svc, api, idx, _ := newDishService(t)
	api.Handle("DELETE /api/dishes/1/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	list, err := svc.Delete(context.Background(), manager, existingDishes(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ID)
	assert.Equal(t, []int{1}, idx.deleted)
}

func TestDishService_DeleteFailureKeepsList(t *testing.T) {
	t.Parallel()

	svc, api, idx, rec := newDishService(t)
	api.JSON("DELETE /api/dishes/1/", http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})

	list, err := svc.Delete(context.Background(), manager, existingDishes(), 1)
	require.Error(t, err)
	assert.Len(t, list, 2)
	assert.Empty(t, idx.deleted)
	assert.Empty(t, rec.types())
}
