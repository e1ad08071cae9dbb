package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/search"
	"github.com/Skotchmaster/restaurant_web/internal/util"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

// ratingFetches bounds the per dish rating lookups of one menu page.
const ratingFetches = 4

type MenuAPI interface {
	Categories(ctx context.Context, token string) ([]apiclient.Category, error)
	CustomerDishes(ctx context.Context, token, category string) ([]apiclient.Dish, error)
	TopOrderedDishes(ctx context.Context, token string) ([]apiclient.TopDish, error)
	UserRating(ctx context.Context, token string, dishID int) (int, error)
}

type MenuService struct {
	API MenuAPI
	// Index is optional. Without it search falls back to substring matching.
	Index search.Index
	// Ratings decides whether a dish the user already rated shows the
	// rating form again.
	Ratings domain.RatingPolicy

	mu      sync.Mutex
	indexed uint64
}

type MenuDish struct {
	apiclient.Dish
	Stars      domain.Stars
	UserRating int
	CanRate    bool
}

type Menu struct {
	Categories []apiclient.Category
	Category   int
	Query      string
	Dishes     []MenuDish
	Popular    []apiclient.TopDish
}

// Menu loads the customer menu, optionally narrowed to one category and a
// search query. Categories without dishes are left out.
func (h *MenuService) Menu(ctx context.Context, sess domain.Session, category int, query string) (*Menu, error) {
	var (
		cats    []apiclient.Category
		all     []apiclient.Dish
		popular []apiclient.TopDish
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cats, err = h.API.Categories(gctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		all, err = h.API.CustomerDishes(gctx, sess.Token, "")
		return err
	})
	g.Go(func() error {
		var err error
		if popular, err = h.API.TopOrderedDishes(gctx, sess.Token); err != nil {
			logging.FromContext(gctx).Warn("top_ordered_dishes_failed", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}

	dishes := all
	if category > 0 {
		// The API filters by category name. An unknown id shows an empty menu.
		dishes = nil
		if i := slices.IndexFunc(cats, func(c apiclient.Category) bool { return c.ID == category }); i >= 0 {
			var err error
			if dishes, err = h.API.CustomerDishes(ctx, sess.Token, cats[i].Name); err != nil {
				return nil, fmt.Errorf("load category %q: %w", cats[i].Name, err)
			}
		}
	}
	if query != "" {
		dishes = h.search(ctx, all, dishes, query)
	}

	menu := &Menu{
		Categories: nonEmpty(cats, all),
		Category:   category,
		Query:      query,
		Dishes:     make([]MenuDish, len(dishes)),
		Popular:    popular,
	}
	for i, d := range dishes {
		menu.Dishes[i] = MenuDish{Dish: d, Stars: domain.StarsFor(d.AverageRating)}
	}
	h.userRatings(ctx, sess, menu.Dishes)
	for i := range menu.Dishes {
		menu.Dishes[i].CanRate = h.Ratings.CanRate(menu.Dishes[i].UserRating)
	}
	return menu, nil
}

func nonEmpty(cats []apiclient.Category, dishes []apiclient.Dish) []apiclient.Category {
	used := make(map[int]bool, len(cats))
	for _, d := range dishes {
		used[d.Category] = true
	}
	return slices.DeleteFunc(slices.Clone(cats), func(c apiclient.Category) bool { return !used[c.ID] })
}

// search ranks dishes by the index when one is configured. all is the whole
// menu, used to keep the index current.
func (h *MenuService) search(ctx context.Context, all, dishes []apiclient.Dish, query string) []apiclient.Dish {
	if h.Index == nil {
		return search.Filter(dishes, query)
	}
	l := logging.FromContext(ctx)

	if err := h.syncIndex(ctx, all); err != nil {
		l.Warn("dish_reindex_failed", "error", err)
		return search.Filter(dishes, query)
	}
	_, ids, err := h.Index.Search(ctx, query, 1, util.MaxPageSize)
	if err != nil {
		l.Warn("dish_search_failed", "query", query, "error", err)
		return search.Filter(dishes, query)
	}
	return search.OrderByIDs(dishes, ids)
}

// syncIndex reindexes the menu when it differs from what was indexed last.
func (h *MenuService) syncIndex(ctx context.Context, dishes []apiclient.Dish) error {
	sum := fingerprint(dishes)

	h.mu.Lock()
	defer h.mu.Unlock()
	if sum == h.indexed {
		return nil
	}
	if err := h.Index.Reindex(ctx, dishes); err != nil {
		return err
	}
	h.indexed = sum
	return nil
}

// Invalidate forces the next search to reindex.
func (h *MenuService) Invalidate() {
	h.mu.Lock()
	h.indexed = 0
	h.mu.Unlock()
}

func fingerprint(dishes []apiclient.Dish) uint64 {
	f := fnv.New64a()
	for _, d := range dishes {
		fmt.Fprintf(f, "%d|%s|%s|%s|%s\n", d.ID, d.Name, d.Description, d.CategoryName, d.Price.String())
	}
	return f.Sum64()
}

// userRatings fills in the caller's own rating per dish. A failed lookup
// shows the dish as not rated.
func (h *MenuService) userRatings(ctx context.Context, sess domain.Session, dishes []MenuDish) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ratingFetches)
	for i := range dishes {
		g.Go(func() error {
			r, err := h.API.UserRating(gctx, sess.Token, dishes[i].ID)
			if err != nil {
				if apiclient.StatusOf(err) != http.StatusNotFound {
					logging.FromContext(gctx).Debug("user_rating_failed", "dish_id", dishes[i].ID, "error", err)
				}
				return nil
			}
			dishes[i].UserRating = r
			return nil
		})
	}
	_ = g.Wait()
}
