package game

import "sort"

// Portfolio values every holding at current prices. Pure read.
func (s *Service) Portfolio(userID string) Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.account(userID)
	p := Portfolio{Balance: acct.Balance}

	names := make([]string, 0, len(acct.Stocks))
	for name := range acct.Stocks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		h := acct.Stocks[name]
		price := 0.0
		if st, ok := s.stocks[name]; ok {
			price = st.Price
		}
		investment := float64(h.Quantity) * h.AverageCost
		current := float64(h.Quantity) * price
		profit := 0.0
		if h.AverageCost > 0 {
			profit = (price - h.AverageCost) / h.AverageCost * 100
		}
		p.Holdings = append(p.Holdings, PortfolioLine{
			Stock:         name,
			Quantity:      h.Quantity,
			AverageCost:   h.AverageCost,
			CurrentPrice:  price,
			Investment:    Round2(investment),
			CurrentValue:  Round2(current),
			ProfitPercent: profit,
		})
		p.TotalInvestment += investment
		p.TotalCurrentValue += current
	}

	if p.TotalInvestment > 0 {
		p.TotalProfitPercent = (p.TotalCurrentValue - p.TotalInvestment) / p.TotalInvestment * 100
	}
	p.TotalInvestment = Round2(p.TotalInvestment)
	p.TotalCurrentValue = Round2(p.TotalCurrentValue)
	p.TotalAssets = Round2(acct.Balance + p.TotalCurrentValue)
	return p
}

// TotalAssets is cash plus holdings at current prices.
func (s *Service) TotalAssets(userID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalAssetsLocked(s.account(userID))
}

func (s *Service) totalAssetsLocked(acct *Account) float64 {
	total := acct.Balance
	for name, h := range acct.Stocks {
		if st, ok := s.stocks[name]; ok {
			total += float64(h.Quantity) * st.Price
		}
	}
	return Round2(total)
}

// Ranking orders every account by total assets, richest first. Ties break
// by user id so the order is stable across runs.
func (s *Service) Ranking() []RankEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RankEntry, 0, len(s.users))
	for userID, acct := range s.users {
		out = append(out, RankEntry{UserID: userID, TotalAssets: s.totalAssetsLocked(acct)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAssets != out[j].TotalAssets {
			return out[i].TotalAssets > out[j].TotalAssets
		}
		return out[i].UserID < out[j].UserID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
