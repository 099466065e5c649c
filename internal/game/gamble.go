package game

import "github.com/google/uuid"

const (
	CoinHeads = "앞"
	CoinTails = "뒤"

	cherry = "🍒"
)

var coinSides = [2]string{CoinHeads, CoinTails}

type slotSymbol struct {
	face       string
	multiplier int
	weight     int
}

var slotTable = []slotSymbol{
	{"💎", 20, 2},
	{"💰", 10, 5},
	{"7️⃣", 5, 8},
	{cherry, 2, 12},
	{"💔", 0, 10},
}

var slotWeightTotal int

func init() {
	for _, sym := range slotTable {
		slotWeightTotal += sym.weight
	}
}

// resolveBet turns a requested bet into a concrete stake the account can cover.
// Callers must hold s.mu.
func (s *Service) resolveBet(acct *Account, bet Quantity) (int, error) {
	n := bet.Value()
	if bet.IsAll() {
		n = int(acct.Balance)
		if n <= 0 {
			return 0, ErrInsufficientFunds
		}
	}
	if n <= 0 {
		return 0, ErrInvalidBet
	}
	if acct.Balance < float64(n) {
		return 0, ErrInsufficientFunds
	}
	return n, nil
}

func (s *Service) SpinSlots(userID string, bet Quantity) (SlotResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.account(userID)
	n, err := s.resolveBet(acct, bet)
	if err != nil {
		return SlotResult{}, err
	}

	var reels [3]string
	for i := range reels {
		reels[i] = s.drawSymbolLocked()
	}
	winnings := settleSlots(reels, n)

	acct.Balance = Round2(acct.Balance + float64(winnings-n))
	s.persist(usersDocument, s.users)

	return SlotResult{
		TxID:       uuid.NewString(),
		Reels:      reels,
		Bet:        n,
		Winnings:   winnings,
		NewBalance: acct.Balance,
	}, nil
}

func (s *Service) drawSymbolLocked() string {
	r := s.rand.Intn(slotWeightTotal)
	for _, sym := range slotTable {
		if r < sym.weight {
			return sym.face
		}
		r -= sym.weight
	}
	return slotTable[len(slotTable)-1].face
}

// settleSlots pays triples at the symbol's multiplier and returns the stake
// on exactly two cherries.
func settleSlots(reels [3]string, bet int) int {
	if reels[0] == reels[1] && reels[1] == reels[2] {
		for _, sym := range slotTable {
			if sym.face == reels[0] {
				return bet * sym.multiplier
			}
		}
		return 0
	}
	cherries := 0
	for _, face := range reels {
		if face == cherry {
			cherries++
		}
	}
	if cherries == 2 {
		return bet
	}
	return 0
}

func (s *Service) RollDice(userID string, bet Quantity) (DiceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.account(userID)
	n, err := s.resolveBet(acct, bet)
	if err != nil {
		return DiceResult{}, err
	}

	d1 := s.rand.Intn(6) + 1
	d2 := s.rand.Intn(6) + 1
	winnings := settleDice(d1, d2, n)

	acct.Balance = Round2(acct.Balance + float64(winnings-n))
	s.persist(usersDocument, s.users)

	return DiceResult{
		TxID:       uuid.NewString(),
		Die1:       d1,
		Die2:       d2,
		Bet:        n,
		Winnings:   winnings,
		NewBalance: acct.Balance,
	}, nil
}

func settleDice(d1, d2, bet int) int {
	switch {
	case d1 == d2:
		return bet * 4
	case d1+d2 == 7:
		return bet * 2
	default:
		return 0
	}
}

func (s *Service) FlipCoin(userID string, bet Quantity, choice string) (CoinResult, error) {
	if choice != CoinHeads && choice != CoinTails {
		return CoinResult{}, ErrInvalidChoice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.account(userID)
	n, err := s.resolveBet(acct, bet)
	if err != nil {
		return CoinResult{}, err
	}

	result := coinSides[s.rand.Intn(2)]
	winnings := settleCoin(choice, result, n)

	acct.Balance = Round2(acct.Balance + float64(winnings-n))
	s.persist(usersDocument, s.users)

	return CoinResult{
		TxID:       uuid.NewString(),
		Choice:     choice,
		Result:     result,
		Bet:        n,
		Winnings:   winnings,
		NewBalance: acct.Balance,
	}, nil
}

func settleCoin(choice, result string, bet int) int {
	if choice == result {
		return bet * 2
	}
	return 0
}
