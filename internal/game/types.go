package game

import (
	"encoding/json"
	"fmt"
)

// Stock is one tradable instrument as persisted in the catalog document.
// Price and AvailableShares are the only fields that mutate after seeding.
type Stock struct {
	Price           float64 `json:"price"`
	Sector          string  `json:"sector"`
	Volatility      float64 `json:"volatility"`
	TotalShares     int     `json:"total_shares"`
	AvailableShares int     `json:"available_shares"`
}

// MarketEvent is the persisted sector-wide price bias. It keeps applying on
// every tick until a new event replaces it. The zero value marshals as {},
// the document shape for "no event".
type MarketEvent struct {
	Sector     string  `json:"sector,omitempty"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

// Holding is one position in a user's account. The ledger document stores it
// as a two-element [quantity, average_cost] array.
type Holding struct {
	Quantity    int
	AverageCost float64
}

func (h Holding) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(h.Quantity), h.AverageCost})
}

func (h *Holding) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) != 2 {
		return fmt.Errorf("holding must be a [quantity, average_cost] pair, got %d elements", len(arr))
	}
	h.Quantity = int(arr[0])
	h.AverageCost = arr[1]
	return nil
}

// Account is one user's entry in the ledger document.
type Account struct {
	Balance       float64            `json:"balance"`
	Stocks        map[string]Holding `json:"stocks"`
	LastClaimDate *string            `json:"last_claim_date"`
}

// PriceChange records one instrument's move during the latest tick. It is
// ephemeral: the next tick overwrites it and it is never persisted.
type PriceChange struct {
	Amount  float64 `json:"change_amount"`
	Percent float64 `json:"change_percent"`
}

// StockView is the read model for one instrument, including its latest move.
type StockView struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Sector          string  `json:"sector"`
	Volatility      float64 `json:"volatility"`
	TotalShares     int     `json:"total_shares"`
	AvailableShares int     `json:"available_shares"`
	ChangeAmount    float64 `json:"change_amount"`
	ChangePercent   float64 `json:"change_percent"`
}

type BuyResult struct {
	TxID       string  `json:"tx_id"`
	Stock      string  `json:"stock"`
	Quantity   int     `json:"quantity"`
	TotalCost  float64 `json:"total_cost"`
	Fee        float64 `json:"fee"`
	NewBalance float64 `json:"new_balance"`
}

type SellResult struct {
	TxID         string  `json:"tx_id"`
	Stock        string  `json:"stock"`
	Quantity     int     `json:"quantity"`
	TotalRevenue float64 `json:"total_revenue"`
	Fee          float64 `json:"fee"`
	NewBalance   float64 `json:"new_balance"`
}

type ClaimResult struct {
	Reward     float64 `json:"reward"`
	NewBalance float64 `json:"new_balance"`
}

type SlotResult struct {
	TxID       string    `json:"tx_id"`
	Reels      [3]string `json:"reels"`
	Bet        int       `json:"bet"`
	Winnings   int       `json:"winnings"`
	NewBalance float64   `json:"new_balance"`
}

type DiceResult struct {
	TxID       string  `json:"tx_id"`
	Die1       int     `json:"die1"`
	Die2       int     `json:"die2"`
	Bet        int     `json:"bet"`
	Winnings   int     `json:"winnings"`
	NewBalance float64 `json:"new_balance"`
}

type CoinResult struct {
	TxID       string  `json:"tx_id"`
	Choice     string  `json:"choice"`
	Result     string  `json:"result"`
	Bet        int     `json:"bet"`
	Winnings   int     `json:"winnings"`
	NewBalance float64 `json:"new_balance"`
}

// PortfolioLine is the valuation of a single holding at current prices.
type PortfolioLine struct {
	Stock         string  `json:"stock"`
	Quantity      int     `json:"quantity"`
	AverageCost   float64 `json:"average_cost"`
	CurrentPrice  float64 `json:"current_price"`
	Investment    float64 `json:"investment"`
	CurrentValue  float64 `json:"current_value"`
	ProfitPercent float64 `json:"profit_percent"`
}

type Portfolio struct {
	Balance            float64         `json:"balance"`
	Holdings           []PortfolioLine `json:"holdings"`
	TotalInvestment    float64         `json:"total_investment"`
	TotalCurrentValue  float64         `json:"total_current_value"`
	TotalAssets        float64         `json:"total_assets"`
	TotalProfitPercent float64         `json:"total_profit_percent"`
}

type RankEntry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	TotalAssets float64 `json:"total_assets"`
}
