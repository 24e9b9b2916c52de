package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/client/models"
)

// TransactionService reads transaction history and moves money.
// Listings are sorted newest first.
type TransactionService interface {
	GetAll(ctx context.Context) ([]models.Transaction, error)
	ByAccount(ctx context.Context, accountNumber string) ([]models.Transaction, error)
	Transfer(ctx context.Context, req models.TransferRequest) (*models.TransferResponse, error)
	// Preview runs the server's checks and conversion without booking anything.
	Preview(ctx context.Context, req models.TransferRequest) (*models.TransferResponse, error)
}

type transactionService struct {
	api  Requester
	gate SessionGate
}

func NewTransactionService(api Requester, gate SessionGate) TransactionService {
	return &transactionService{api: api, gate: gate}
}

func (s *transactionService) GetAll(ctx context.Context) ([]models.Transaction, error) {
	return s.list(ctx, client.PathTransactions)
}

func (s *transactionService) ByAccount(ctx context.Context, accountNumber string) ([]models.Transaction, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return nil, fmt.Errorf("%w: account number is required", ErrInvalidInput)
	}
	return s.list(ctx, client.TransactionsByAccountPath(accountNumber))
}

func (s *transactionService) list(ctx context.Context, path string) ([]models.Transaction, error) {
	if err := checkSession(s.gate); err != nil {
		return nil, err
	}
	var page models.TransactionsPage
	if err := s.api.Get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}
	models.SortNewestFirst(page.Transactions)
	return page.Transactions, nil
}

func (s *transactionService) Transfer(ctx context.Context, req models.TransferRequest) (*models.TransferResponse, error) {
	return s.send(ctx, client.PathTransfer, req)
}

func (s *transactionService) Preview(ctx context.Context, req models.TransferRequest) (*models.TransferResponse, error) {
	return s.send(ctx, client.PathTransferPre, req)
}

func (s *transactionService) send(ctx context.Context, path string, req models.TransferRequest) (*models.TransferResponse, error) {
	if err := validateTransfer(&req); err != nil {
		return nil, err
	}
	if err := checkSession(s.gate); err != nil {
		return nil, err
	}
	var resp models.TransferResponse
	if err := s.api.Post(ctx, path, req, &resp); err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	return &resp, nil
}

func validateTransfer(req *models.TransferRequest) error {
	req.FromAccount = strings.TrimSpace(req.FromAccount)
	req.ToAccount = strings.TrimSpace(req.ToAccount)
	switch {
	case req.FromAccount == "" || req.ToAccount == "":
		return fmt.Errorf("%w: source and destination accounts are required", ErrInvalidInput)
	case req.FromAccount == req.ToAccount:
		return fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidInput)
	case !req.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	return nil
}
