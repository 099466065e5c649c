package game

import "sort"

// UpdatePrices runs one market tick over every instrument and returns the
// per-instrument moves. The external scheduler calls it once per interval;
// ticks never overlap because the whole pass holds the service mutex.
func (s *Service) UpdatePrices() map[string]PriceChange {
	s.mu.Lock()
	defer s.mu.Unlock()

	// One event draw per tick, not per instrument. A fresh event replaces
	// the persisted one; otherwise the old event keeps biasing its sector.
	if s.rand.Float64() < EventProbability {
		if sectors := s.sectorsLocked(); len(sectors) > 0 {
			ev := MarketEvent{
				Sector:     sectors[s.rand.Intn(len(sectors))],
				Multiplier: 0.85 + s.rand.Float64()*0.30,
			}
			s.event = &ev
			s.persist(eventDocument, ev)
		}
	}

	s.changes = make(map[string]PriceChange, len(s.stocks))
	for _, name := range s.stockNames() {
		st := s.stocks[name]

		base := (s.rand.Float64()*4 - 2) * st.Volatility

		demand := 0.0
		if st.TotalShares > 0 {
			held := st.TotalShares - st.AvailableShares
			demand = float64(held) / float64(st.TotalShares) * 5.0
		}

		bonus := 0.0
		if s.event != nil && s.event.Sector == st.Sector {
			bonus = 10 * (s.event.Multiplier - 1.0)
		}

		pct := base + demand + bonus
		newPrice := Round2(st.Price * (1 + pct/100))
		if newPrice < MinPrice {
			newPrice = MinPrice
		}
		s.changes[name] = PriceChange{Amount: Round2(newPrice - st.Price), Percent: pct}
		st.Price = newPrice
	}

	s.persist(stocksDocument, s.stocks)

	out := make(map[string]PriceChange, len(s.changes))
	for name, ch := range s.changes {
		out[name] = ch
	}
	return out
}

func (s *Service) sectorsLocked() []string {
	seen := map[string]bool{}
	for _, st := range s.stocks {
		seen[st.Sector] = true
	}
	out := make([]string, 0, len(seen))
	for sector := range seen {
		out = append(out, sector)
	}
	// Sorted so a seeded rand picks the same sector every run.
	sort.Strings(out)
	return out
}
