package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

type AddressAPI interface {
	Addresses(ctx context.Context, token string) ([]apiclient.Address, error)
	CreateAddress(ctx context.Context, token string, a apiclient.Address) (*apiclient.Address, error)
}

type AddressService struct {
	API AddressAPI
}

func (h *AddressService) List(ctx context.Context, sess domain.Session) ([]apiclient.Address, error) {
	list, err := h.API.Addresses(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("load addresses: %w", err)
	}
	return list, nil
}

func (h *AddressService) Create(ctx context.Context, sess domain.Session, street, area string) (*apiclient.Address, error) {
	street, area = strings.TrimSpace(street), strings.TrimSpace(area)
	if err := domain.Require("street", street, "area", area); err != nil {
		return nil, err
	}
	a, err := h.API.CreateAddress(ctx, sess.Token, apiclient.Address{Street: street, Area: area})
	if err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return a, nil
}
