package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/events"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

type AccountAPI interface {
	Register(ctx context.Context, r apiclient.Registration) (*apiclient.RegistrationResponse, error)
}

type AccountService struct {
	API    AccountAPI
	Events events.Publisher
}

// Signup registers a customer. The returned session is only authenticated
// when the API answered with a token.
func (h *AccountService) Signup(ctx context.Context, r apiclient.Registration) (domain.Session, string, error) {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Role = string(domain.RoleCustomer)
	if err := domain.Require("first name", r.FirstName, "last name", r.LastName,
		"username", r.Username, "email", r.Email, "password", r.Password); err != nil {
		return domain.Session{}, "", err
	}

	res, err := h.API.Register(ctx, r)
	if err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && strings.Contains(apiErr.FieldError("username"), "already exists") {
			return domain.Session{}, "", ErrUsernameTaken
		}
		return domain.Session{}, "", fmt.Errorf("register: %w", err)
	}

	publish(ctx, h.Events, events.TopicUsers, events.NewEvent(events.UserSignedUp, r.Username, nil))

	sess := domain.Session{Token: res.Token, User: r.Username, Role: domain.RoleCustomer}
	if res.User.Username != "" {
		sess.User = res.User.Username
	}
	if !sess.Valid() {
		sess = domain.Session{}
	}
	return sess, res.Message, nil
}
