// Package currency converts balances to EUR using the bank's exchange rates.
// Rates are cached for a few minutes; when the API cannot answer, a fixed
// table of approximate rates is used instead.
package currency

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/logging"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL = 5 * time.Minute

	// DefaultLookupTimeout bounds one shared rate lookup.
	DefaultLookupTimeout = 10 * time.Second

	// batchLimit caps concurrent rate lookups of one batch conversion.
	batchLimit = 4
)

var fallbackRates = map[string]decimal.Decimal{
	"USD": decimal.RequireFromString("0.93"),
	"GBP": decimal.RequireFromString("1.16"),
	"CHF": decimal.RequireFromString("1.05"),
	"PLN": decimal.RequireFromString("0.24"),
}

// FallbackRate is the approximate EUR value of one unit of code, 1 when
// the currency is unknown.
func FallbackRate(code string) decimal.Decimal {
	if r, ok := fallbackRates[strings.ToUpper(code)]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// Getter issues authenticated GET calls.
type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

// Amount is a sum of money in some currency.
type Amount struct {
	Value    decimal.Decimal
	Currency string
}

type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

type Service struct {
	api           Getter
	clock         clockwork.Clock
	ttl           time.Duration
	lookupTimeout time.Duration
	logger        logging.Logger

	mu    sync.Mutex
	cache map[string]cachedRate
	group singleflight.Group
}

type Option func(*Service)

func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithTTL sets how long a fetched rate is reused.
func WithTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithLookupTimeout bounds a rate lookup. The lookup is shared by every
// caller asking for the same currency, so it does not end when one of them
// gives up.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func New(api Getter, opts ...Option) *Service {
	s := &Service{
		api:           api,
		clock:         clockwork.NewRealClock(),
		ttl:           DefaultTTL,
		lookupTimeout: DefaultLookupTimeout,
		logger:        logging.Nop(),
		cache:         make(map[string]cachedRate),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKey(from string) string {
	return from + "_" + models.BaseCurrency
}

// RateToEUR returns the EUR value of one unit of from. Failed lookups fall
// back to FallbackRate and are not cached; the only error returned is the
// cancellation of ctx.
func (s *Service) RateToEUR(ctx context.Context, from string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	if from == models.BaseCurrency {
		return decimal.NewFromInt(1), nil
	}

	key := cacheKey(from)
	if rate, ok := s.cached(key); ok {
		return rate, nil
	}

	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	ch := s.group.DoChan(key, func() (any, error) {
		if rate, ok := s.cached(key); ok {
			return rate, nil
		}
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.lookupTimeout)
		defer cancel()

		q, err := s.Quote(lookupCtx, from, models.BaseCurrency, decimal.NewFromInt(1))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = cachedRate{rate: q.Rate, fetchedAt: s.clock.Now()}
		s.mu.Unlock()
		return q.Rate, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	}
	if res.Err != nil {
		rate := FallbackRate(from)
		s.logger.Warn(ctx, "exchange rate unavailable, using fallback",
			"currency", from, "rate", rate.String(), "error", res.Err.Error())
		return rate, nil
	}
	return res.Val.(decimal.Decimal), nil
}

func (s *Service) cached(key string) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cache[key]
	if !ok || s.clock.Since(c.fetchedAt) >= s.ttl {
		return decimal.Zero, false
	}
	return c.rate, true
}

// Quote asks the server to convert amount between two currencies. It is
// neither cached nor backed by fallback rates.
func (s *Service) Quote(ctx context.Context, from, to string, amount decimal.Decimal) (*models.ExchangeRate, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == "" || to == "" {
		return nil, errors.New("currency codes are required")
	}
	var q models.ExchangeRate
	if err := s.api.Get(ctx, client.ExchangeRatePath(from, to, amount.String()), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Service) ConvertToEUR(ctx context.Context, amount decimal.Decimal, from string) (decimal.Decimal, error) {
	rate, err := s.RateToEUR(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// ConvertManyToEUR converts every amount, looking rates up concurrently.
// Results keep the order of amounts.
func (s *Service) ConvertManyToEUR(ctx context.Context, amounts []Amount) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(amounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit)
	for i, a := range amounts {
		g.Go(func() error {
			v, err := s.ConvertToEUR(gctx, a.Value, a.Currency)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalInEUR sums the balances of accounts in EUR, rounded to cents.
func (s *Service) TotalInEUR(ctx context.Context, accounts []models.Account) (decimal.Decimal, error) {
	amounts := make([]Amount, len(accounts))
	for i, a := range accounts {
		amounts[i] = Amount{Value: a.Balance, Currency: a.Currency}
	}

	converted, err := s.ConvertManyToEUR(ctx, amounts)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, converted...).Round(2), nil
}

// ClearCache forgets every cached rate.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cachedRate)
}
