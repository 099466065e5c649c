package game

import (
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"stonkbot/internal/store"
)

const (
	stocksDocument = "stocks.json"
	eventDocument  = "market_event.json"
	usersDocument  = "users.json"
)

// Service owns the market catalog and the user ledger. Every mutating
// operation runs under one mutex: trades touch both structures together and
// must appear atomic to reads and to other trades.
type Service struct {
	mu    sync.Mutex
	log   *slog.Logger
	store *store.Store
	rand  *mathrand.Rand
	now   func() time.Time

	stocks  map[string]*Stock
	users   map[string]*Account
	event   *MarketEvent
	changes map[string]PriceChange
}

func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		log:     logger,
		store:   st,
		rand:    mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		stocks:  store.Load(st, stocksDocument, defaultStocks()),
		users:   store.Load(st, usersDocument, map[string]*Account{}),
		changes: map[string]PriceChange{},
	}
	ev := store.Load(st, eventDocument, MarketEvent{})
	if ev.Sector != "" {
		s.event = &ev
	}
	for _, acct := range s.users {
		if acct.Stocks == nil {
			acct.Stocks = map[string]Holding{}
		}
	}
	return s
}

func defaultStocks() map[string]*Stock {
	return map[string]*Stock{
		"Apple":     {Price: 150, Sector: "IT", Volatility: 1.0, TotalShares: 1000, AvailableShares: 1000},
		"Google":    {Price: 2800, Sector: "IT", Volatility: 0.9, TotalShares: 600, AvailableShares: 600},
		"Amazon":    {Price: 3300, Sector: "IT", Volatility: 1.2, TotalShares: 500, AvailableShares: 500},
		"Tesla":     {Price: 700, Sector: "자동차", Volatility: 1.5, TotalShares: 800, AvailableShares: 800},
		"Hyundai":   {Price: 180, Sector: "자동차", Volatility: 1.1, TotalShares: 1200, AvailableShares: 1200},
		"Celltrion": {Price: 270, Sector: "바이오", Volatility: 1.8, TotalShares: 900, AvailableShares: 900},
		"Moderna":   {Price: 250, Sector: "바이오", Volatility: 1.6, TotalShares: 700, AvailableShares: 700},
	}
}

// persist logs write failures and keeps going: a failed save never rolls
// back the in-memory mutation.
func (s *Service) persist(doc string, v any) {
	if err := s.store.Save(doc, v); err != nil {
		s.log.Error("write-through failed", "doc", doc, "err", fmt.Errorf("%w: %v", ErrPersistence, err))
	}
}

// account returns the user's ledger entry, creating it with defaults on
// first access. Callers must hold s.mu.
func (s *Service) account(userID string) *Account {
	acct, ok := s.users[userID]
	if !ok {
		acct = &Account{Balance: StarterBalance, Stocks: map[string]Holding{}}
		s.users[userID] = acct
	}
	return acct
}

// Stocks returns the catalog sorted by name, with each instrument's latest
// tick move attached.
func (s *Service) Stocks() []StockView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StockView, 0, len(s.stocks))
	for _, name := range s.stockNames() {
		out = append(out, s.viewLocked(name))
	}
	return out
}

func (s *Service) StockByName(name string) (StockView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stocks[name]; !ok {
		return StockView{}, ErrUnknownStock
	}
	return s.viewLocked(name), nil
}

func (s *Service) viewLocked(name string) StockView {
	st := s.stocks[name]
	ch := s.changes[name]
	return StockView{
		Name:            name,
		Price:           st.Price,
		Sector:          st.Sector,
		Volatility:      st.Volatility,
		TotalShares:     st.TotalShares,
		AvailableShares: st.AvailableShares,
		ChangeAmount:    ch.Amount,
		ChangePercent:   ch.Percent,
	}
}

func (s *Service) stockNames() []string {
	names := make([]string, 0, len(s.stocks))
	for name := range s.stocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CurrentEvent reports the persisted sector event, if any.
func (s *Service) CurrentEvent() (MarketEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.event == nil {
		return MarketEvent{}, false
	}
	return *s.event, true
}

func (s *Service) Buy(userID, name string, q Quantity) (BuyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stocks[name]
	if !ok {
		return BuyResult{}, ErrUnknownStock
	}
	acct := s.account(userID)

	qty := q.Value()
	if q.IsAll() {
		qty = int(acct.Balance / (st.Price * (1 + FeeRate)))
		if qty > st.AvailableShares {
			qty = st.AvailableShares
		}
		if qty == 0 {
			return BuyResult{}, ErrInsufficientFunds
		}
	}
	if qty <= 0 {
		return BuyResult{}, fmt.Errorf("quantity must be positive")
	}
	if qty > st.AvailableShares {
		return BuyResult{}, ErrInsufficientSupply
	}

	total := st.Price * float64(qty)
	fee := total * FeeRate
	cost := total + fee
	if acct.Balance < cost {
		return BuyResult{}, ErrInsufficientFunds
	}

	acct.Balance = Round2(acct.Balance - cost)
	h := acct.Stocks[name]
	newQty := h.Quantity + qty
	newAvg := (float64(h.Quantity)*h.AverageCost + float64(qty)*st.Price) / float64(newQty)
	acct.Stocks[name] = Holding{Quantity: newQty, AverageCost: Round2(newAvg)}
	st.AvailableShares -= qty

	s.persist(usersDocument, s.users)
	s.persist(stocksDocument, s.stocks)

	return BuyResult{
		TxID:       uuid.NewString(),
		Stock:      name,
		Quantity:   qty,
		TotalCost:  Round2(cost),
		Fee:        Round2(fee),
		NewBalance: acct.Balance,
	}, nil
}

func (s *Service) Sell(userID, name string, q Quantity) (SellResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.account(userID)
	h, held := acct.Stocks[name]
	if !held {
		return SellResult{}, ErrNoHolding
	}
	st, ok := s.stocks[name]
	if !ok {
		return SellResult{}, ErrUnknownStock
	}

	qty := q.Value()
	if q.IsAll() {
		qty = h.Quantity
	}
	if qty <= 0 {
		return SellResult{}, fmt.Errorf("quantity must be positive")
	}
	if qty > h.Quantity {
		return SellResult{}, ErrInsufficientHolding
	}

	total := st.Price * float64(qty)
	fee := total * FeeRate
	revenue := total - fee

	acct.Balance = Round2(acct.Balance + revenue)
	if h.Quantity == qty {
		delete(acct.Stocks, name)
	} else {
		// Average cost is untouched on a partial sell.
		acct.Stocks[name] = Holding{Quantity: h.Quantity - qty, AverageCost: h.AverageCost}
	}
	st.AvailableShares += qty

	s.persist(usersDocument, s.users)
	s.persist(stocksDocument, s.stocks)

	return SellResult{
		TxID:         uuid.NewString(),
		Stock:        name,
		Quantity:     qty,
		TotalRevenue: Round2(revenue),
		Fee:          Round2(fee),
		NewBalance:   acct.Balance,
	}, nil
}

// ClaimDaily credits the daily reward once per UTC day. A non-positive
// reward falls back to DefaultDailyReward so a blank config cannot zero
// out the claim.
func (s *Service) ClaimDaily(userID string, reward float64) (ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reward <= 0 {
		reward = DefaultDailyReward
	}
	acct := s.account(userID)
	today := s.now().UTC().Format(claimDateLayout)
	if acct.LastClaimDate != nil && *acct.LastClaimDate == today {
		return ClaimResult{}, ErrAlreadyClaimed
	}
	acct.Balance = Round2(acct.Balance + reward)
	acct.LastClaimDate = &today

	s.persist(usersDocument, s.users)
	return ClaimResult{Reward: reward, NewBalance: acct.Balance}, nil
}
