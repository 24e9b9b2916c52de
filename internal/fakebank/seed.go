package fakebank

import (
	"time"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Demo credentials created by Seed.
const (
	DemoUser      = "alice"
	DemoPassword  = "alice123"
	OtherUser     = "bob"
	OtherPassword = "bob123"
	StaffUser     = "admin"
	StaffPassword = "admin123"

	AliceMain    = "LV80BANK0000435195001"
	AliceSavings = "LV80BANK0000435195002"
	BobMain      = "LV80BANK0000435195003"
	BobSterling  = "LV80BANK0000435195004"
)

// Seed loads a small demo data set: two customers, a disabled customer and
// an admin, four accounts and a short history.
func (s *Server) Seed() {
	alice := s.mustAddUser(DemoUser, DemoPassword, "Alice Liepa", models.RoleUser, true)
	bob := s.mustAddUser(OtherUser, OtherPassword, "Bob Ozols", models.RoleUser, true)
	s.mustAddUser("carol", "carol123", "Carol Berzina", models.RoleUser, false)
	s.mustAddUser(StaffUser, StaffPassword, "Bank Admin", models.RoleAdmin, true)
	s.mustAddUser("emma", "emma123", "Emma Kalnina", models.RoleEmployee, true)

	s.AddAccount(alice, AliceMain, "Main account", "CHECKING", "EUR", decimal.RequireFromString("1500.00"))
	s.AddAccount(alice, AliceSavings, "Savings", "SAVINGS", "USD", decimal.RequireFromString("250.00"))
	s.AddAccount(bob, BobMain, "Everyday", "CHECKING", "EUR", decimal.RequireFromString("320.50"))
	s.AddAccount(bob, BobSterling, "Travel", "CHECKING", "GBP", decimal.RequireFromString("100.00"))

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.addHistoryLocked(nil, s.accounts[AliceMain], decimal.RequireFromString("2000.00"), "Salary", models.TransactionDeposit, now.Add(-72*time.Hour))
	s.addHistoryLocked(s.accounts[AliceMain], s.accounts[BobMain], decimal.RequireFromString("500.00"), "Rent share", models.TransactionTransfer, now.Add(-24*time.Hour))
}

func (s *Server) addHistoryLocked(src, dst *accountRecord, amount decimal.Decimal, description, kind string, at time.Time) {
	s.nextID++
	ts := models.NewTimestamp(at)
	tx := models.Transaction{
		ID:                   s.nextID,
		TransactionReference: uuid.NewString(),
		Amount:               amount,
		Description:          description,
		Status:               models.TransactionCompleted,
		Type:                 kind,
		CreatedAt:            ts,
		CompletedAt:          &ts,
	}
	if src != nil {
		tx.SourceAccount = accountRef(src.account)
		tx.Currency = src.account.Currency
	}
	if dst != nil {
		tx.DestinationAccount = accountRef(dst.account)
		if tx.Currency == "" {
			tx.Currency = dst.account.Currency
		}
	}
	s.txs = append(s.txs, tx)
}

func accountRef(a models.Account) *models.AccountRef {
	return &models.AccountRef{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		AccountName:   a.AccountName,
		AccountType:   a.AccountType,
	}
}

func (s *Server) mustAddUser(username, password, name, role string, enabled bool) int64 {
	id, err := s.AddUser(username, password, name, role, enabled)
	if err != nil {
		panic(err)
	}
	return id
}
