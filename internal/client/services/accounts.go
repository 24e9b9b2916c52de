package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/shopspring/decimal"
)

// AccountService reads the user's accounts.
type AccountService interface {
	GetAll(ctx context.Context) ([]models.Account, error)
	Details(ctx context.Context, accountNumber string) (*models.Account, error)
	Search(ctx context.Context, term string) ([]models.Account, error)
	// NumbersByUsername lists the account numbers held by another user, to
	// pick a transfer destination.
	NumbersByUsername(ctx context.Context, username string) ([]string, error)
	// TotalBalance sums the balances per currency.
	TotalBalance(ctx context.Context) (map[string]decimal.Decimal, error)
}

type accountService struct {
	api  Requester
	gate SessionGate
}

func NewAccountService(api Requester, gate SessionGate) AccountService {
	return &accountService{api: api, gate: gate}
}

func (s *accountService) GetAll(ctx context.Context) ([]models.Account, error) {
	if err := checkSession(s.gate); err != nil {
		return nil, err
	}
	var page models.AccountsPage
	if err := s.api.Get(ctx, client.PathAccounts, &page); err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}
	return page.Accounts, nil
}

func (s *accountService) Details(ctx context.Context, accountNumber string) (*models.Account, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return nil, fmt.Errorf("%w: account number is required", ErrInvalidInput)
	}
	if err := checkSession(s.gate); err != nil {
		return nil, err
	}
	var a models.Account
	if err := s.api.Get(ctx, client.AccountDetailsPath(accountNumber), &a); err != nil {
		return nil, fmt.Errorf("get account %s: %w", accountNumber, err)
	}
	return &a, nil
}

func (s *accountService) Search(ctx context.Context, term string) ([]models.Account, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrInvalidInput)
	}
	if err := checkSession(s.gate); err != nil {
		return nil, err
	}
	var page models.AccountsPage
	if err := s.api.Get(ctx, client.AccountSearchPath(term), &page); err != nil {
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	return page.Accounts, nil
}

func (s *accountService) NumbersByUsername(ctx context.Context, username string) ([]string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if err := checkSession(s.gate); err != nil {
		return nil, err
	}
	var numbers []string
	if err := s.api.Post(ctx, client.PathAccountNumbers, models.UsernameRequest{Username: username}, &numbers); err != nil {
		return nil, fmt.Errorf("account numbers of %s: %w", username, err)
	}
	return numbers, nil
}

func (s *accountService) TotalBalance(ctx context.Context) (map[string]decimal.Decimal, error) {
	accounts, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal)
	for _, a := range accounts {
		totals[a.Currency] = totals[a.Currency].Add(a.Balance)
	}
	return totals, nil
}
