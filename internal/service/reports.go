package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/util"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

type ReportAPI interface {
	TopSoldDishes(ctx context.Context, token string) ([]apiclient.TopDish, error)
	TopOrderedDishes(ctx context.Context, token string) ([]apiclient.TopDish, error)
	OrdersInDateRange(ctx context.Context, token, start, end string, page int) (*apiclient.DateRangeReport, error)
}

type ReportService struct {
	API ReportAPI
}

type TopDishes struct {
	Sold    []apiclient.TopDish
	Ordered []apiclient.TopDish
}

type RangeReport struct {
	Range        domain.DateRange
	Orders       []apiclient.OrderItem
	TotalRevenue decimal.Decimal
	Count        int
	Pager        util.Pager
}

func (h *ReportService) TopDishes(ctx context.Context, sess domain.Session) (*TopDishes, error) {
	var out TopDishes
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Sold, err = h.API.TopSoldDishes(gctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		out.Ordered, err = h.API.TopOrderedDishes(gctx, sess.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load top dishes: %w", err)
	}
	return &out, nil
}

// OrdersInRange validates the dates before calling the API. Pages are 1
// based and hold ReportPageSize rows.
func (h *ReportService) OrdersInRange(ctx context.Context, sess domain.Session, start, end string, page int) (*RangeReport, error) {
	r, err := domain.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	rep, err := h.API.OrdersInDateRange(ctx, sess.Token, r.StartParam(), r.EndParam(), page)
	if err != nil {
		return nil, fmt.Errorf("load orders in range: %w", err)
	}

	count := rep.Count
	if count == 0 {
		count = len(rep.Orders)
	}
	return &RangeReport{
		Range:        r,
		Orders:       rep.Orders,
		TotalRevenue: rep.TotalRevenue,
		Count:        count,
		Pager:        util.NewPager(page, domain.TotalPages(count, domain.ReportPageSize)),
	}, nil
}
