package game

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// FeeRate is the transaction fee charged on both buys and sells.
	FeeRate = 0.002

	// StarterBalance is the cash balance of a freshly created account.
	StarterBalance = 10000.0

	// MinPrice is the floor every price update clamps to.
	MinPrice = 1.0

	// DefaultDailyReward is credited by the daily claim unless the caller
	// overrides it.
	DefaultDailyReward = 10000.0

	// EventProbability is the per-tick chance of drawing a new market event.
	EventProbability = 0.2

	claimDateLayout = "2006-01-02"
)

var (
	ErrUnknownStock        = errors.New("stock not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientSupply  = errors.New("not enough shares available")
	ErrNoHolding           = errors.New("no holding in that stock")
	ErrInsufficientHolding = errors.New("not enough shares held")
	ErrInvalidBet          = errors.New("bet must be a positive integer or \"all\"")
	ErrInvalidChoice       = errors.New("choice must be 앞 or 뒤")
	ErrAlreadyClaimed      = errors.New("daily reward already claimed today")
	ErrPersistence         = errors.New("persistence failure")
)

// Quantity is either an exact positive share/bet count or the "all"
// sentinel, decoded once at the boundary.
type Quantity struct {
	all bool
	n   int
}

func Exact(n int) Quantity { return Quantity{n: n} }

func AllQuantity() Quantity { return Quantity{all: true} }

func (q Quantity) IsAll() bool { return q.all }

func (q Quantity) Value() int { return q.n }

func (q Quantity) String() string {
	if q.all {
		return "all"
	}
	return strconv.Itoa(q.n)
}

// ParseQuantity accepts "all" (case-insensitive) or a positive integer.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return AllQuantity(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return Quantity{}, fmt.Errorf("quantity must be a positive integer or \"all\"")
	}
	return Exact(n), nil
}

// ParseBet is ParseQuantity with the gambling error taxonomy.
func ParseBet(s string) (Quantity, error) {
	q, err := ParseQuantity(s)
	if err != nil {
		return Quantity{}, ErrInvalidBet
	}
	return q, nil
}

// Round2 rounds to two decimals, the precision of every persisted currency
// amount.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
