package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/client/models"
)

// DefaultUsersPerPage is the page size of user listings.
const DefaultUsersPerPage = 10

// UserService browses bank users. The server allows it to staff only.
// Pages are numbered from 1.
type UserService interface {
	ByPage(ctx context.Context, page int) ([]models.UserProfile, error)
	FirstPage(ctx context.Context) ([]models.UserProfile, error)
	ByID(ctx context.Context, id int64) (*models.UserProfile, error)
	DisabledByPage(ctx context.Context, page int) ([]models.UserProfile, error)
	Enable(ctx context.Context, id int64) (*models.UserProfile, error)
}

type userService struct {
	api     Requester
	gate    SessionGate
	perPage int
}

// NewUserService returns a UserService; perPage <= 0 means DefaultUsersPerPage.
func NewUserService(api Requester, gate SessionGate, perPage int) UserService {
	if perPage <= 0 {
		perPage = DefaultUsersPerPage
	}
	return &userService{api: api, gate: gate, perPage: perPage}
}

func (s *userService) ByPage(ctx context.Context, page int) ([]models.UserProfile, error) {
	return s.page(ctx, page, client.UsersPagePath)
}

func (s *userService) FirstPage(ctx context.Context) ([]models.UserProfile, error) {
	return s.ByPage(ctx, 1)
}

func (s *userService) DisabledByPage(ctx context.Context, page int) ([]models.UserProfile, error) {
	return s.page(ctx, page, client.DisabledUsersPagePath)
}

func (s *userService) page(ctx context.Context, page int, path func(page, limit int) string) ([]models.UserProfile, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be 1 or more", ErrInvalidInput)
	}
	if err := checkSession(s.gate); err != nil {
		return nil, err
	}
	var resp models.UsersPage
	if err := s.api.Get(ctx, path(page, s.perPage), &resp); err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	return resp.Users, nil
}

func (s *userService) ByID(ctx context.Context, id int64) (*models.UserProfile, error) {
	if err := checkSession(s.gate); err != nil {
		return nil, err
	}
	var resp models.UsersPage
	if err := s.api.Get(ctx, client.UserPath(id), &resp); err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if len(resp.Users) == 0 {
		return nil, fmt.Errorf("get user %d: %w", id, ErrUserNotFound)
	}
	return &resp.Users[0], nil
}

func (s *userService) Enable(ctx context.Context, id int64) (*models.UserProfile, error) {
	if err := checkSession(s.gate); err != nil {
		return nil, err
	}
	var u models.UserProfile
	if err := s.api.Put(ctx, client.EnableUserPath(id), struct{}{}, &u); err != nil {
		return nil, fmt.Errorf("enable user %d: %w", id, err)
	}
	return &u, nil
}
