package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

type DiscountAPI interface {
	DiscountCodes(ctx context.Context, token string) ([]apiclient.DiscountCode, error)
	CreateDiscountCode(ctx context.Context, token string, d apiclient.DiscountCode) (*apiclient.DiscountCode, error)
}

type DiscountService struct {
	API DiscountAPI
	Now Clock
}

type DiscountInput struct {
	Code       string
	Percentage string
	Expiration string
	Active     bool
	MaxUsage   string
}

func (h *DiscountService) List(ctx context.Context, sess domain.Session) ([]apiclient.DiscountCode, error) {
	list, err := h.API.DiscountCodes(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("load discount codes: %w", err)
	}
	return list, nil
}

// Create rejects a draft with a past expiration before calling the API.
func (h *DiscountService) Create(ctx context.Context, sess domain.Session, list []apiclient.DiscountCode, in DiscountInput) ([]apiclient.DiscountCode, error) {
	draft, err := domain.ParseDiscountDraft(in.Code, in.Percentage, in.Expiration, in.Active, in.MaxUsage, h.Now.now())
	if err != nil {
		return list, err
	}
	created, err := h.API.CreateDiscountCode(ctx, sess.Token, apiclient.DiscountCode{
		Code:               draft.Code,
		DiscountPercentage: draft.Percentage,
		ExpirationDate:     draft.Expiration,
		IsActive:           draft.IsActive,
		MaxUsagePerUser:    draft.MaxUsagePerUser,
	})
	if err != nil {
		return list, fmt.Errorf("create discount code: %w", err)
	}
	return append(slices.Clone(list), *created), nil
}
