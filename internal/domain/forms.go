package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Require returns a validation error naming the first blank field. Pairs are
// given as name, value, name, value...
func Require(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%s is required: %w", pairs[i], ErrValidation)
		}
	}
	return nil
}

type DiscountDraft struct {
	Code            string
	Percentage      int
	Expiration      time.Time
	IsActive        bool
	MaxUsagePerUser int
}

var expirationLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseExpiration(s string) (time.Time, error) {
	for _, layout := range expirationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("expiration date %q is not a date: %w", s, ErrValidation)
}

// ParseDiscountDraft validates the manager's discount form. Code, percentage
// and expiration are required and the expiration must lie after now.
func ParseDiscountDraft(code, pct, expiration string, active bool, maxUsage string, now time.Time) (DiscountDraft, error) {
	code = strings.TrimSpace(code)
	if err := Require("code", code, "discount percentage", pct, "expiration date", expiration); err != nil {
		return DiscountDraft{}, err
	}

	p, err := strconv.Atoi(strings.TrimSpace(pct))
	if err != nil || p < 1 || p > 100 {
		return DiscountDraft{}, fmt.Errorf("discount percentage must be a number between 1 and 100: %w", ErrValidation)
	}

	exp, err := parseExpiration(strings.TrimSpace(expiration))
	if err != nil {
		return DiscountDraft{}, err
	}
	if !exp.After(now) {
		return DiscountDraft{}, fmt.Errorf("expiration date must be in the future: %w", ErrValidation)
	}

	usage := 1
	if s := strings.TrimSpace(maxUsage); s != "" {
		usage, err = strconv.Atoi(s)
		if err != nil || usage < 1 {
			return DiscountDraft{}, fmt.Errorf("max usage per user must be a positive number: %w", ErrValidation)
		}
	}

	return DiscountDraft{
		Code:            code,
		Percentage:      p,
		Expiration:      exp,
		IsActive:        active,
		MaxUsagePerUser: usage,
	}, nil
}
