package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

type StaffAPI interface {
	Employees(ctx context.Context, token string) ([]apiclient.Employee, error)
	CreateEmployee(ctx context.Context, token string, e apiclient.Employee) (*apiclient.Employee, error)
	UpdateEmployee(ctx context.Context, token string, id int, e apiclient.Employee) (*apiclient.Employee, error)
	DeleteEmployee(ctx context.Context, token string, id int) error
}

type StaffService struct {
	API StaffAPI
}

func normalizeEmployee(e apiclient.Employee) apiclient.Employee {
	e.Username = strings.TrimSpace(e.Username)
	e.Email = strings.TrimSpace(e.Email)
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.Role = strings.TrimSpace(e.Role)
	if e.Role == "" {
		e.Role = string(domain.RoleEmployee)
	}
	return e
}

func (h *StaffService) List(ctx context.Context, sess domain.Session) ([]apiclient.Employee, error) {
	list, err := h.API.Employees(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	return list, nil
}

func (h *StaffService) Create(ctx context.Context, sess domain.Session, list []apiclient.Employee, e apiclient.Employee) ([]apiclient.Employee, error) {
	e = normalizeEmployee(e)
	if err := domain.Require("username", e.Username, "email", e.Email, "password", e.Password,
		"first name", e.FirstName, "last name", e.LastName); err != nil {
		return list, err
	}
	created, err := h.API.CreateEmployee(ctx, sess.Token, e)
	if err != nil {
		return list, fmt.Errorf("create employee: %w", err)
	}
	return append(slices.Clone(list), *created), nil
}

// Update keeps the stored password when e.Password is blank.
func (h *StaffService) Update(ctx context.Context, sess domain.Session, list []apiclient.Employee, id int, e apiclient.Employee) ([]apiclient.Employee, error) {
	e = normalizeEmployee(e)
	if err := domain.Require("username", e.Username, "email", e.Email,
		"first name", e.FirstName, "last name", e.LastName); err != nil {
		return list, err
	}
	updated, err := h.API.UpdateEmployee(ctx, sess.Token, id, e)
	if err != nil {
		return list, fmt.Errorf("update employee %d: %w", id, err)
	}
	updated.ID = id
	return domain.ReplaceByID(list, *updated, apiclient.EmployeeID), nil
}

func (h *StaffService) Delete(ctx context.Context, sess domain.Session, list []apiclient.Employee, id int) ([]apiclient.Employee, error) {
	if err := h.API.DeleteEmployee(ctx, sess.Token, id); err != nil {
		return list, fmt.Errorf("delete employee %d: %w", id, err)
	}
	return domain.FilterByID(list, id, apiclient.EmployeeID), nil
}
