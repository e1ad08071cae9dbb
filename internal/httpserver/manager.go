package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/service"
	"github.com/Skotchmaster/restaurant_web/internal/session"
	"github.com/Skotchmaster/restaurant_web/internal/util"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

const maxImageSize = 5 << 20

// ManagerHTTP serves the back office under /manager.
type ManagerHTTP struct {
	View
	Dishes    *service.DishService
	Staff     *service.StaffService
	Discounts *service.DiscountService
	Reports   *service.ReportService
}

type dishesPage struct {
	Dishes     []apiclient.Dish
	Categories []apiclient.Category
	Edit       *apiclient.Dish
}

type employeesPage struct {
	Employees []apiclient.Employee
	Edit      *apiclient.Employee
}

type reportPage struct {
	Start  string
	End    string
	Report *service.RangeReport
}

func (h *ManagerHTTP) Dashboard(c echo.Context) error {
	top, err := h.Reports.TopDishes(c.Request().Context(), session.Current(c))
	if top == nil {
		top = &service.TopDishes{}
	}
	p := h.page(c, "Dashboard", top)
	if err != nil {
		return h.fail(c, "manager_dashboard", p, err)
	}
	return c.Render(http.StatusOK, "manager_dashboard", p)
}

func (h *ManagerHTTP) DishesPage(c echo.Context) error {
	dishes, cats, err := h.Dishes.List(c.Request().Context(), session.Current(c))
	data := dishesPage{Dishes: dishes, Categories: cats}
	if id := util.ParseIntDefault(c.QueryParam("edit"), 0); id > 0 {
		for i := range dishes {
			if dishes[i].ID == id {
				data.Edit = &dishes[i]
			}
		}
	}
	p := h.page(c, "Dishes", data)
	if err != nil {
		return h.fail(c, "manager_dishes", p, err)
	}
	return c.Render(http.StatusOK, "manager_dishes", p)
}

func (h *ManagerHTTP) CreateDish(c echo.Context) error {
	return h.changeDish(c, "Dish created.", func(sess domain.Session, list []apiclient.Dish, in service.DishInput) ([]apiclient.Dish, error) {
		return h.Dishes.Create(c.Request().Context(), sess, list, in)
	})
}

func (h *ManagerHTTP) UpdateDish(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.changeDish(c, "Dish updated.", func(sess domain.Session, list []apiclient.Dish, in service.DishInput) ([]apiclient.Dish, error) {
		return h.Dishes.Update(c.Request().Context(), sess, list, id, in)
	})
}

func (h *ManagerHTTP) DeleteDish(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.changeDish(c, "Dish deleted.", func(sess domain.Session, list []apiclient.Dish, _ service.DishInput) ([]apiclient.Dish, error) {
		return h.Dishes.Delete(c.Request().Context(), sess, list, id)
	})
}

// changeDish loads the current list, applies op and renders the patched list.
func (h *ManagerHTTP) changeDish(c echo.Context, done string, op func(domain.Session, []apiclient.Dish, service.DishInput) ([]apiclient.Dish, error)) error {
	sess := session.Current(c)
	dishes, cats, err := h.Dishes.List(c.Request().Context(), sess)
	if err != nil {
		return h.fail(c, "manager_dishes", h.page(c, "Dishes", dishesPage{}), err)
	}

	in, err := dishInput(c)
	if err == nil {
		dishes, err = op(sess, dishes, in)
	}
	p := h.page(c, "Dishes", dishesPage{Dishes: dishes, Categories: cats})
	if err != nil {
		return h.fail(c, "manager_dishes", p, err)
	}
	h.notice(p, done)
	return c.Render(http.StatusOK, "manager_dishes", p)
}

func dishInput(c echo.Context) (service.DishInput, error) {
	in := service.DishInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Price:       c.FormValue("price"),
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, nil
	}
	if err != nil {
		return in, fmt.Errorf("read image: %w", err)
	}
	if fh.Size > maxImageSize {
		return in, fmt.Errorf("image must be at most 5 MB: %w", domain.ErrValidation)
	}
	f, err := fh.Open()
	if err != nil {
		return in, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		return in, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageSize {
		return in, fmt.Errorf("image must be at most 5 MB: %w", domain.ErrValidation)
	}
	in.Image = &apiclient.Upload{Filename: fh.Filename, Data: data}
	return in, nil
}

func (h *ManagerHTTP) EmployeesPage(c echo.Context) error {
	list, err := h.Staff.List(c.Request().Context(), session.Current(c))
	data := employeesPage{Employees: list}
	if id := util.ParseIntDefault(c.QueryParam("edit"), 0); id > 0 {
		for i := range list {
			if list[i].ID == id {
				data.Edit = &list[i]
			}
		}
	}
	p := h.page(c, "Employees", data)
	if err != nil {
		return h.fail(c, "manager_employees", p, err)
	}
	return c.Render(http.StatusOK, "manager_employees", p)
}

func (h *ManagerHTTP) CreateEmployee(c echo.Context) error {
	return h.changeEmployee(c, "Employee created.", func(sess domain.Session, list []apiclient.Employee) ([]apiclient.Employee, error) {
		return h.Staff.Create(c.Request().Context(), sess, list, employeeForm(c))
	})
}

func (h *ManagerHTTP) UpdateEmployee(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.changeEmployee(c, "Employee updated.", func(sess domain.Session, list []apiclient.Employee) ([]apiclient.Employee, error) {
		return h.Staff.Update(c.Request().Context(), sess, list, id, employeeForm(c))
	})
}

func (h *ManagerHTTP) DeleteEmployee(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.changeEmployee(c, "Employee deleted.", func(sess domain.Session, list []apiclient.Employee) ([]apiclient.Employee, error) {
		return h.Staff.Delete(c.Request().Context(), sess, list, id)
	})
}

func (h *ManagerHTTP) changeEmployee(c echo.Context, done string, op func(domain.Session, []apiclient.Employee) ([]apiclient.Employee, error)) error {
	sess := session.Current(c)
	list, err := h.Staff.List(c.Request().Context(), sess)
	if err == nil {
		list, err = op(sess, list)
	}
	p := h.page(c, "Employees", employeesPage{Employees: list})
	if err != nil {
		return h.fail(c, "manager_employees", p, err)
	}
	h.notice(p, done)
	return c.Render(http.StatusOK, "manager_employees", p)
}

func employeeForm(c echo.Context) apiclient.Employee {
	return apiclient.Employee{
		Username:  c.FormValue("username"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Role:      c.FormValue("role"),
	}
}

func (h *ManagerHTTP) DiscountsPage(c echo.Context) error {
	list, err := h.Discounts.List(c.Request().Context(), session.Current(c))
	p := h.page(c, "Discount codes", list)
	if err != nil {
		return h.fail(c, "manager_discounts", p, err)
	}
	return c.Render(http.StatusOK, "manager_discounts", p)
}

func (h *ManagerHTTP) CreateDiscount(c echo.Context) error {
	ctx := c.Request().Context()
	sess := session.Current(c)

	list, err := h.Discounts.List(ctx, sess)
	if err == nil {
		list, err = h.Discounts.Create(ctx, sess, list, service.DiscountInput{
			Code:       c.FormValue("code"),
			Percentage: c.FormValue("discount_percentage"),
			Expiration: c.FormValue("expiration_date"),
			Active:     c.FormValue("is_active") != "",
			MaxUsage:   c.FormValue("max_usage_per_user"),
		})
	}
	p := h.page(c, "Discount codes", list)
	if err != nil {
		return h.fail(c, "manager_discounts", p, err)
	}
	h.notice(p, "Discount code created.")
	return c.Render(http.StatusOK, "manager_discounts", p)
}

// OrdersReport shows an empty form until both dates are given.
func (h *ManagerHTTP) OrdersReport(c echo.Context) error {
	data := reportPage{Start: c.QueryParam("start_date"), End: c.QueryParam("end_date")}
	p := h.page(c, "Orders by date", &data)
	if data.Start == "" && data.End == "" {
		return c.Render(http.StatusOK, "manager_report", p)
	}

	rep, err := h.Reports.OrdersInRange(c.Request().Context(), session.Current(c), data.Start, data.End,
		util.ParseIntDefault(c.QueryParam("page"), 1))
	if err != nil {
		return h.fail(c, "manager_report", p, err)
	}
	data.Report = rep
	return c.Render(http.StatusOK, "manager_report", p)
}
