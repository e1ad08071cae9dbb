package apiclient

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Text decodes a JSON string, number or null into a string. Several
// endpoints report the same field with different JSON types.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type RegistrationResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Dish struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      int             `json:"category"`
	CategoryName  string          `json:"categoryName"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	ModifiedAt    *time.Time      `json:"modified_at,omitempty"`
	AverageRating float64         `json:"average_rating"`
}

func DishID(d Dish) int { return d.ID }

// DishForm is the multipart payload for dish create and update. A nil Image
// keeps the stored picture on update.
type DishForm struct {
	Name        string
	Description string
	Category    int
	Price       decimal.Decimal
	Image       *Upload
}

type Upload struct {
	Filename string
	Data     []byte
}

type TopDish struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"categoryName"`
	OrderCount  int             `json:"order_count"`
}

type Employee struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Password  string `json:"password,omitempty"`
}

func EmployeeID(e Employee) int { return e.ID }

type DiscountCode struct {
	ID                 int       `json:"id,omitempty"`
	Code               string    `json:"code"`
	DiscountPercentage int       `json:"discount_percentage"`
	ExpirationDate     time.Time `json:"expiration_date"`
	IsActive           bool      `json:"is_active"`
	MaxUsagePerUser    int       `json:"max_usage_per_user,omitempty"`
}

type ApplyDiscountResponse struct {
	Message            string `json:"message"`
	DiscountPercentage int    `json:"discount_percentage"`
}

type Address struct {
	ID     int    `json:"id"`
	User   int    `json:"user,omitempty"`
	Street string `json:"street"`
	Area   string `json:"area"`
}

func (a Address) String() string {
	if a.Area == "" {
		return a.Street
	}
	return a.Street + ", " + a.Area
}

type OrderItem struct {
	ID        int             `json:"id,omitempty"`
	DishName  string          `json:"dish_name"`
	Quantity  int             `json:"quantity"`
	DishPrice decimal.Decimal `json:"dish_price"`
}

type Order struct {
	ID         int             `json:"id"`
	Address    Text            `json:"address"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	PendingAt  *time.Time      `json:"pending_at"`
	Status     string          `json:"status"`
	Items      []OrderItem     `json:"items"`
}

func OrderID(o Order) int { return o.ID }

type CreateOrderRequest struct {
	Address      int             `json:"address"`
	Items        []OrderLine     `json:"items"`
	DiscountCode string          `json:"discount_code"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type OrderLine struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

type CreateOrderResponse struct {
	Message    string          `json:"message"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type RatingResponse struct {
	UserRating int `json:"user_rating"`
}

type Rating struct {
	ID     int `json:"id,omitempty"`
	Dish   int `json:"dish"`
	Rating int `json:"rating"`
}

type DateRangeReport struct {
	Orders       []OrderItem     `json:"orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Count        int             `json:"count"`
}

func itoa(n int) string { return strconv.Itoa(n) }
