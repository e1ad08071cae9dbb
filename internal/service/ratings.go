package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

type RatingAPI interface {
	UserRating(ctx context.Context, token string, dishID int) (int, error)
	CreateRating(ctx context.Context, token string, dishID, rating int) error
	UpdateRating(ctx context.Context, token string, dishID, rating int) error
}

type RatingService struct {
	API    RatingAPI
	Policy domain.RatingPolicy
}

// Current is zero when the user has not rated the dish.
func (h *RatingService) Current(ctx context.Context, sess domain.Session, dishID int) (int, error) {
	r, err := h.API.UserRating(ctx, sess.Token, dishID)
	if apiclient.StatusOf(err) == http.StatusNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load rating of dish %d: %w", dishID, err)
	}
	return r, nil
}

func (h *RatingService) Rate(ctx context.Context, sess domain.Session, dishID, rating int) error {
	if dishID <= 0 {
		return fmt.Errorf("dish id must be positive: %w", domain.ErrValidation)
	}
	current, err := h.Current(ctx, sess, dishID)
	if err != nil {
		return err
	}

	action, err := h.Policy.Decide(current, rating)
	if err != nil {
		return err
	}
	switch action {
	case domain.RatingCreate:
		err = h.API.CreateRating(ctx, sess.Token, dishID, rating)
	case domain.RatingUpdate:
		err = h.API.UpdateRating(ctx, sess.Token, dishID, rating)
	default:
		err = errors.New("unknown rating action")
	}
	if err != nil {
		return fmt.Errorf("rate dish %d: %w", dishID, err)
	}
	return nil
}
