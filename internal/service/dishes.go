package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/events"
	"github.com/Skotchmaster/restaurant_web/internal/search"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

type DishAPI interface {
	Categories(ctx context.Context, token string) ([]apiclient.Category, error)
	Dishes(ctx context.Context, token string) ([]apiclient.Dish, error)
	CreateDish(ctx context.Context, token string, f apiclient.DishForm) (*apiclient.Dish, error)
	UpdateDish(ctx context.Context, token string, id int, f apiclient.DishForm) (*apiclient.Dish, error)
	DeleteDish(ctx context.Context, token string, id int) error
}

// DishService backs the manager's dish pages.
type DishService struct {
	API    DishAPI
	Index  search.Index
	Events events.Publisher
	// Menu, when set, is told to reindex after every change.
	Menu *MenuService
}

// DishInput is the raw dish form.
type DishInput struct {
	Name        string
	Description string
	Category    string
	Price       string
	Image       *apiclient.Upload
}

func (in DishInput) form() (apiclient.DishForm, error) {
	name := strings.TrimSpace(in.Name)
	if err := domain.Require("name", name, "category", in.Category, "price", in.Price); err != nil {
		return apiclient.DishForm{}, err
	}
	cat, err := strconv.Atoi(strings.TrimSpace(in.Category))
	if err != nil || cat <= 0 {
		return apiclient.DishForm{}, fmt.Errorf("category must be selected: %w", domain.ErrValidation)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil || price.IsNegative() {
		return apiclient.DishForm{}, fmt.Errorf("price must be a non negative number: %w", domain.ErrValidation)
	}
	return apiclient.DishForm{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    cat,
		Price:       price,
		Image:       in.Image,
	}, nil
}

func (h *DishService) List(ctx context.Context, sess domain.Session) ([]apiclient.Dish, []apiclient.Category, error) {
	var (
		dishes []apiclient.Dish
		cats   []apiclient.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dishes, err = h.API.Dishes(gctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = h.API.Categories(gctx, sess.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load dishes: %w", err)
	}
	return dishes, cats, nil
}

// Create validates in before anything is sent and returns list with the new
// dish appended.
func (h *DishService) Create(ctx context.Context, sess domain.Session, list []apiclient.Dish, in DishInput) ([]apiclient.Dish, error) {
	f, err := in.form()
	if err != nil {
		return list, err
	}
	d, err := h.API.CreateDish(ctx, sess.Token, f)
	if err != nil {
		return list, fmt.Errorf("create dish: %w", err)
	}
	h.changed(ctx, sess, events.DishCreated, d, d.ID)
	return append(slices.Clone(list), *d), nil
}

func (h *DishService) Update(ctx context.Context, sess domain.Session, list []apiclient.Dish, id int, in DishInput) ([]apiclient.Dish, error) {
	f, err := in.form()
	if err != nil {
		return list, err
	}
	d, err := h.API.UpdateDish(ctx, sess.Token, id, f)
	if err != nil {
		return list, fmt.Errorf("update dish %d: %w", id, err)
	}
	d.ID = id
	h.changed(ctx, sess, events.DishUpdated, d, id)
	return domain.ReplaceByID(list, *d, apiclient.DishID), nil
}

func (h *DishService) Delete(ctx context.Context, sess domain.Session, list []apiclient.Dish, id int) ([]apiclient.Dish, error) {
	if err := h.API.DeleteDish(ctx, sess.Token, id); err != nil {
		return list, fmt.Errorf("delete dish %d: %w", id, err)
	}
	h.changed(ctx, sess, events.DishDeleted, nil, id)
	return domain.FilterByID(list, id, apiclient.DishID), nil
}

// changed keeps the search index and event stream in step with a successful
// dish change. d is nil for deletes.
func (h *DishService) changed(ctx context.Context, sess domain.Session, typ string, d *apiclient.Dish, id int) {
	l := logging.FromContext(ctx)
	if h.Index != nil {
		var err error
		if d == nil {
			err = h.Index.Delete(ctx, id)
		} else {
			err = h.Index.Reindex(ctx, []apiclient.Dish{*d})
		}
		if err != nil {
			l.Warn("dish_index_update_failed", "dish_id", id, "error", err)
		}
	}
	if h.Menu != nil {
		h.Menu.Invalidate()
	}

	data := map[string]any{"dish_id": id}
	if d != nil {
		data["name"] = d.Name
		data["price"] = d.Price.StringFixed(2)
	}
	publish(ctx, h.Events, events.TopicCatalog, events.NewEvent(typ, sess.User, data))
}
