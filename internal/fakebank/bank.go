package fakebank

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 10

func isStaff(u *userRecord) bool {
	return u.profile.IsStaff()
}

func (s *Server) allAccounts(w http.ResponseWriter, _ *http.Request, u *userRecord) {
	accounts := s.accountsOfLocked(u.profile.ID)
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, models.AccountsPage{Accounts: accounts})
}

// visibleLocked returns the account when u owns it or is staff.
func (s *Server) visibleLocked(u *userRecord, number string) (*accountRecord, bool) {
	a, ok := s.accounts[number]
	if !ok || (a.ownerID != u.profile.ID && !isStaff(u)) {
		return nil, false
	}
	return a, true
}

func (s *Server) accountDetails(w http.ResponseWriter, r *http.Request, u *userRecord) {
	number := mux.Vars(r)["accountNumber"]
	a, ok := s.visibleLocked(u, number)
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Account not found: "+number)
		return
	}
	writeJSON(w, http.StatusOK, a.account)
}

// searchAccounts finds transfer targets by account number or owner name.
// Other users' accounts come back without balances or limits.
func (s *Server) searchAccounts(w http.ResponseWriter, r *http.Request, u *userRecord) {
	term := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("term")))
	if term == "" {
		s.writeError(w, r, http.StatusBadRequest, "Search term is required")
		return
	}

	found := []models.Account{}
	for _, n := range s.order {
		a := s.accounts[n]
		owner := s.users[a.ownerID]
		match := strings.Contains(strings.ToLower(a.account.AccountNumber), term) ||
			strings.Contains(strings.ToLower(owner.profile.Name), term) ||
			strings.Contains(strings.ToLower(owner.profile.Username), term)
		if !match {
			continue
		}
		if a.ownerID == u.profile.ID || isStaff(u) {
			found = append(found, a.account)
			continue
		}
		found = append(found, models.Account{
			ID:            a.account.ID,
			AccountNumber: a.account.AccountNumber,
			AccountName:   owner.profile.Name,
			AccountType:   a.account.AccountType,
			Currency:      a.account.Currency,
		})
	}
	writeJSON(w, http.StatusOK, models.AccountsPage{Accounts: found})
}

// accountNumbers lists the account numbers of a user by username, so that
// customers can find where to send money. Unknown users have none.
func (s *Server) accountNumbers(w http.ResponseWriter, r *http.Request, _ *userRecord) {
	var req models.UsernameRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Username) == "" {
		s.writeError(w, r, http.StatusBadRequest, "Username is required")
		return
	}

	numbers := []string{}
	if owner := s.userByNameLocked(req.Username); owner != nil {
		for _, a := range s.accountsOfLocked(owner.profile.ID) {
			numbers = append(numbers, a.AccountNumber)
		}
	}
	writeJSON(w, http.StatusOK, numbers)
}

func (s *Server) allTransactions(w http.ResponseWriter, _ *http.Request, u *userRecord) {
	owned := make(map[string]bool)
	for _, a := range s.accountsOfLocked(u.profile.ID) {
		owned[a.AccountNumber] = true
	}
	writeJSON(w, http.StatusOK, models.TransactionsPage{Transactions: s.transactionsLocked(owned)})
}

func (s *Server) accountTransactions(w http.ResponseWriter, r *http.Request, u *userRecord) {
	number := mux.Vars(r)["accountNumber"]
	if _, ok := s.visibleLocked(u, number); !ok {
		s.writeError(w, r, http.StatusNotFound, "Account not found: "+number)
		return
	}
	writeJSON(w, http.StatusOK, models.TransactionsPage{Transactions: s.transactionsLocked(map[string]bool{number: true})})
}

func (s *Server) transactionsLocked(accounts map[string]bool) []models.Transaction {
	out := []models.Transaction{}
	for _, tx := range s.txs {
		if (tx.SourceAccount != nil && accounts[tx.SourceAccount.AccountNumber]) ||
			(tx.DestinationAccount != nil && accounts[tx.DestinationAccount.AccountNumber]) {
			out = append(out, tx)
		}
	}
	models.SortNewestFirst(out)
	return out
}

type transferPlan struct {
	src, dst *accountRecord
	amount   decimal.Decimal
	credited decimal.Decimal
	exchange *models.ExchangeRate
}

// planTransferLocked validates req against the bank's rules. On failure it
// returns the status and message to answer with.
func (s *Server) planTransferLocked(u *userRecord, req models.TransferRequest) (*transferPlan, int, string) {
	if req.FromAccount == "" || req.ToAccount == "" {
		return nil, http.StatusBadRequest, "Source and destination accounts are required"
	}
	if !req.Amount.IsPositive() {
		return nil, http.StatusBadRequest, "Amount must be positive"
	}
	if req.FromAccount == req.ToAccount {
		return nil, http.StatusBadRequest, "Cannot transfer to the same account"
	}

	src, ok := s.accounts[req.FromAccount]
	if !ok {
		return nil, http.StatusNotFound, "Source account not found"
	}
	if src.ownerID != u.profile.ID {
		return nil, http.StatusForbidden, "You can only transfer from your own accounts"
	}
	dst, ok := s.accounts[req.ToAccount]
	if !ok {
		return nil, http.StatusNotFound, "Destination account not found"
	}

	amount := req.Amount.Round(2)
	switch {
	case amount.GreaterThan(src.account.SingleTransferLimit):
		return nil, http.StatusBadRequest, "Amount exceeds single transfer limit"
	case amount.GreaterThan(src.account.RemainingTransferToday()):
		return nil, http.StatusBadRequest, "Amount exceeds daily transfer limit"
	case amount.GreaterThan(src.account.Balance):
		return nil, http.StatusBadRequest, "Insufficient funds"
	}

	plan := &transferPlan{src: src, dst: dst, amount: amount, credited: amount}
	if src.account.Currency != dst.account.Currency {
		rate, bad := crossRate(src.account.Currency, dst.account.Currency)
		if bad != "" {
			return nil, http.StatusBadRequest, "Unsupported currency: " + bad
		}
		plan.credited = amount.Mul(rate).Round(2)
		plan.exchange = &models.ExchangeRate{
			FromCurrency:    src.account.Currency,
			ToCurrency:      dst.account.Currency,
			Rate:            rate,
			OriginalAmount:  amount,
			ConvertedAmount: plan.credited,
			RateInfo:        rateInfo(src.account.Currency, dst.account.Currency, rate),
		}
	}
	return plan, 0, ""
}

func (s *Server) previewTransfer(w http.ResponseWriter, r *http.Request, u *userRecord) {
	var req models.TransferRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, status, msg := s.planTransferLocked(u, req)
	if plan == nil {
		s.writeError(w, r, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, models.TransferResponse{
		CurrencyExchangeApplied: plan.exchange != nil,
		ExchangeInfo:            plan.exchange,
		Message:                 "Transfer preview",
	})
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request, u *userRecord) {
	var req models.TransferRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, status, msg := s.planTransferLocked(u, req)
	if plan == nil {
		s.writeError(w, r, status, msg)
		return
	}

	now := models.NewTimestamp(s.clock.Now())
	plan.src.account.Balance = plan.src.account.Balance.Sub(plan.amount)
	plan.src.account.TransferUsedToday = plan.src.account.TransferUsedToday.Add(plan.amount)
	plan.src.account.UpdatedAt = now
	plan.dst.account.Balance = plan.dst.account.Balance.Add(plan.credited)
	plan.dst.account.UpdatedAt = now

	s.nextID++
	tx := models.Transaction{
		ID:                   s.nextID,
		TransactionReference: uuid.NewString(),
		SourceAccount:        accountRef(plan.src.account),
		DestinationAccount:   accountRef(plan.dst.account),
		Amount:               plan.amount,
		Currency:             plan.src.account.Currency,
		Description:          req.Description,
		Status:               models.TransactionCompleted,
		Type:                 models.TransactionTransfer,
		CreatedAt:            now,
		CompletedAt:          &now,
	}
	s.txs = append(s.txs, tx)

	writeJSON(w, http.StatusOK, models.TransferResponse{
		Transaction:             &tx,
		CurrencyExchangeApplied: plan.exchange != nil,
		ExchangeInfo:            plan.exchange,
		Message:                 "Transfer completed successfully",
	})
}

func pageParams(r *http.Request) (page, limit int, ok bool) {
	page, limit = 1, defaultPageSize
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		limit = n
	}
	return page, limit, true
}

func (s *Server) usersPage(w http.ResponseWriter, r *http.Request, u *userRecord) {
	s.listUsers(w, r, u, func(*userRecord) bool { return true })
}

func (s *Server) disabledUsersPage(w http.ResponseWriter, r *http.Request, u *userRecord) {
	s.listUsers(w, r, u, func(c *userRecord) bool { return !c.profile.Enabled })
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request, u *userRecord, keep func(*userRecord) bool) {
	if !isStaff(u) {
		s.writeError(w, r, http.StatusForbidden, "Access denied")
		return
	}
	page, limit, ok := pageParams(r)
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, "Invalid page or limit")
		return
	}

	ids := make([]int64, 0, len(s.users))
	for id, c := range s.users {
		if keep(c) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := []models.UserProfile{}
	for i := (page - 1) * limit; i < len(ids) && i < page*limit; i++ {
		users = append(users, *s.profileLocked(s.users[ids[i]], false))
	}
	writeJSON(w, http.StatusOK, models.UsersPage{Users: users})
}

func (s *Server) lookupUserLocked(w http.ResponseWriter, r *http.Request) (*userRecord, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid user id")
		return nil, false
	}
	target, ok := s.users[id]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, fmt.Sprintf("User not found with id: %d", id))
		return nil, false
	}
	return target, true
}

func (s *Server) userByID(w http.ResponseWriter, r *http.Request, u *userRecord) {
	target, ok := s.lookupUserLocked(w, r)
	if !ok {
		return
	}
	if target != u && !isStaff(u) {
		s.writeError(w, r, http.StatusForbidden, "Access denied")
		return
	}
	writeJSON(w, http.StatusOK, models.UsersPage{Users: []models.UserProfile{*s.profileLocked(target, true)}})
}

func (s *Server) enableUser(w http.ResponseWriter, r *http.Request, u *userRecord) {
	if !isStaff(u) {
		s.writeError(w, r, http.StatusForbidden, "Access denied")
		return
	}
	target, ok := s.lookupUserLocked(w, r)
	if !ok {
		return
	}
	target.profile.Enabled = true
	writeJSON(w, http.StatusOK, s.profileLocked(target, false))
}

func (s *Server) exchangeRate(w http.ResponseWriter, r *http.Request, _ *userRecord) {
	s.stats.RateLookups++

	q := r.URL.Query()
	from, to := strings.ToUpper(q.Get("fromCurrency")), strings.ToUpper(q.Get("toCurrency"))
	if from == "" || to == "" {
		s.writeError(w, r, http.StatusBadRequest, "fromCurrency and toCurrency are required")
		return
	}

	amount := decimal.NewFromInt(1)
	if v := q.Get("amount"); v != "" {
		a, err := decimal.NewFromString(v)
		if err != nil || a.IsNegative() {
			s.writeError(w, r, http.StatusBadRequest, "Invalid amount: "+v)
			return
		}
		amount = a
	}

	rate, bad := crossRate(from, to)
	if bad != "" {
		s.writeError(w, r, http.StatusBadRequest, "Unsupported currency: "+bad)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=300")
	writeJSON(w, http.StatusOK, models.ExchangeRate{
		FromCurrency:    from,
		ToCurrency:      to,
		Rate:            rate,
		OriginalAmount:  amount,
		ConvertedAmount: amount.Mul(rate).Round(2),
		RateInfo:        rateInfo(from, to, rate),
	})
}

func rateInfo(from, to string, rate decimal.Decimal) string {
	return fmt.Sprintf("1 %s = %s %s", from, rate.StringFixed(4), to)
}
