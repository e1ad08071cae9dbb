package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, scheme string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", scheme, 2*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SendsAuthorizationScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scheme string
		token  string
		want   string
	}{
		{name: "token scheme", scheme: "Token", token: "abc", want: "Token abc"},
		{name: "bearer scheme", scheme: "Bearer", token: "abc", want: "Bearer abc"},
		{name: "default scheme", scheme: "", token: "abc", want: "Token abc"},
		{name: "anonymous", scheme: "Token", token: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			c := newTestClient(t, tt.scheme, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				assert.Equal(t, "/api/categories/", r.URL.Path)
				writeJSON(w, http.StatusOK, []Category{{ID: 1, Name: "Pizza"}})
			})

			cats, err := c.Categories(context.Background(), tt.token)
			require.NoError(t, err)
			assert.Equal(t, []Category{{ID: 1, Name: "Pizza"}}, cats)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_ErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "error key", status: 401, body: `{"error":"Invalid credentials."}`, want: "Invalid credentials."},
		{name: "detail key", status: 404, body: `{"detail":"You have not rated this dish yet."}`, want: "You have not rated this dish yet."},
		{name: "field list", status: 400, body: `{"code":["Invalid or expired discount code."]}`, want: "Invalid or expired discount code."},
		{name: "non field errors win", status: 400, body: `{"username":["x"],"non_field_errors":["Bad combo."]}`, want: "Bad combo."},
		{name: "several fields", status: 400, body: `{"username":["taken"],"email":["invalid"]}`, want: "email: invalid; username: taken"},
		{name: "html body", status: 500, body: `<html>oops</html>`, want: genericMessage},
		{name: "empty object", status: 400, body: `{}`, want: genericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, "Token", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Dishes(context.Background(), "t")
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.status, StatusOf(err))
			assert.Equal(t, tt.want, MessageOf(err, "fallback"))
		})
	}
}

func TestClient_FieldError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, "Token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"username": []string{"A user with that username already exists."},
		})
	})

	_, err := c.Register(context.Background(), Registration{Username: "bob"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "A user with that username already exists.", apiErr.FieldError("username"))
	assert.Empty(t, apiErr.FieldError("email"))
}

func TestClient_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL, "Token", time.Second)

	_, err := c.Categories(context.Background(), "t")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.Equal(t, unreachableMessage, apiErr.Message)
}

func TestClient_CanceledContextIsNotAnAPIError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, "Token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Dish{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Dishes(ctx, "t")
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, StatusOf(err))
}

func TestClient_CreateDishIsMultipart(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, "Token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/dishes/7/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Margherita", r.FormValue("name"))
		assert.Equal(t, "3", r.FormValue("category"))
		assert.Equal(t, "12.50", r.FormValue("price"))

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "pizza.png", hdr.Filename)
		assert.Equal(t, []byte("png-bytes"), data)

		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "name": "Margherita", "price": "12.50", "category": 3})
	})

	d, err := c.UpdateDish(context.Background(), "t", 7, DishForm{
		Name:     "Margherita",
		Category: 3,
		Price:    decimal.RequireFromString("12.5"),
		Image:    &Upload{Filename: "pizza.png", Data: []byte("png-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, d.ID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(d.Price))
}

func TestClient_OrdersInDateRangeQuery(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, "Token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders-in-date-range/", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2024-01-31", r.URL.Query().Get("end_date"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, map[string]any{
			"orders":        []map[string]any{{"id": 1, "quantity": 2, "dish_name": "Soup", "dish_price": "4.00"}},
			"total_revenue": 8,
			"count":         1,
		})
	})

	rep, err := c.OrdersInDateRange(context.Background(), "t", "2024-01-01", "2024-01-31", 0)
	require.NoError(t, err)
	require.Len(t, rep.Orders, 1)
	assert.Equal(t, "Soup", rep.Orders[0].DishName)
	assert.True(t, decimal.NewFromInt(8).Equal(rep.TotalRevenue))
	assert.Equal(t, 1, rep.Count)
}

func TestClient_AddressesAcceptsBothShapes(t *testing.T) {
	t.Parallel()

	bodies := []string{
		`[{"id":1,"street":"Main 1","area":"North"}]`,
		`{"addresses":[{"id":1,"street":"Main 1","area":"North"}]}`,
	}
	for _, body := range bodies {
		c := newTestClient(t, "Token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		})

		got, err := c.Addresses(context.Background(), "t")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Main 1, North", got[0].String())
	}
}

func TestClient_PendingOrdersDecodesLooseTypes(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, "Token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":3,"address":12,"total_price":22.5,"created_at":"2024-05-01T11:50:00.123456Z","pending_at":"2024-05-01T11:50:00Z","status":"pending","items":[{"dish_name":"Soup","quantity":2}]},
			{"id":4,"address":"Main 1, North","total_price":"9.00","created_at":"2024-05-01T10:00:00Z","pending_at":null,"status":"pending","items":[]}
		]`)
	})

	orders, err := c.PendingOrders(context.Background(), "t")
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, Text("12"), orders[0].Address)
	assert.True(t, decimal.RequireFromString("22.5").Equal(orders[0].TotalPrice))
	require.NotNil(t, orders[0].PendingAt)
	assert.Nil(t, orders[1].PendingAt)
	assert.Equal(t, Text("Main 1, North"), orders[1].Address)
}

func TestClient_CompleteOrderAndCancel(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, "Token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch r.URL.Path {
		case "/api/orders/9/update-status/":
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "completed", body["status"])
			writeJSON(w, http.StatusOK, map[string]string{"message": "Order status updated successfully"})
		case "/api/orders/cancel/":
			assert.EqualValues(t, 9, body["order_id"])
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Only pending orders can be canceled"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	res, err := c.CompleteOrder(context.Background(), "t", 9)
	require.NoError(t, err)
	assert.Equal(t, "Order status updated successfully", res.Message)

	_, err = c.CancelOrder(context.Background(), "t", 9)
	assert.Equal(t, "Only pending orders can be canceled", MessageOf(err, ""))
}

func TestClient_CustomerDishesFiltersByCategoryName(t *testing.T) {
	t.Parallel()

	var got []string
	c := newTestClient(t, "Token", func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, []Dish{})
	})

	_, err := c.CustomerDishes(context.Background(), "t", "")
	require.NoError(t, err)
	_, err = c.CustomerDishes(context.Background(), "t", "Hot Drinks")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "category=Hot+Drinks"}, got)
}
