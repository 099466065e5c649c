package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	cl "stonkbot/internal/cli"
	"stonkbot/internal/game"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	danger  = color.New(color.FgRed)
	dim     = color.New(color.Faint)
)

func renderStocks(p cl.StocksPayload) {
	accent.Println("Market")
	if p.Event != nil {
		warn.Printf("sector event: %s x%.2f\n", p.Event.Sector, p.Event.Multiplier)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRICE\tCHANGE\tSECTOR\tFLOAT")
	for _, s := range p.Stocks {
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%d/%d\n",
			s.Name, s.Price, changeLabel(s.ChangeAmount, s.ChangePercent), s.Sector,
			s.AvailableShares, s.TotalShares)
	}
	w.Flush()
}

func changeLabel(amount, percent float64) string {
	switch {
	case amount > 0:
		return success.Sprintf("+%.2f (%.2f%%)", amount, percent)
	case amount < 0:
		return danger.Sprintf("%.2f (%.2f%%)", amount, percent)
	default:
		return dim.Sprint("0.00")
	}
}

func renderBuy(r game.BuyResult) {
	success.Printf("bought %d %s for %.2f (fee %.2f)\n", r.Quantity, r.Stock, r.TotalCost, r.Fee)
	dim.Printf("balance %.2f  tx %s\n", r.NewBalance, r.TxID)
}

func renderSell(r game.SellResult) {
	success.Printf("sold %d %s for %.2f (fee %.2f)\n", r.Quantity, r.Stock, r.TotalRevenue, r.Fee)
	dim.Printf("balance %.2f  tx %s\n", r.NewBalance, r.TxID)
}

func renderPortfolio(p game.Portfolio) {
	accent.Println("Portfolio")
	if len(p.Holdings) == 0 {
		dim.Println("no holdings")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STOCK\tQTY\tAVG\tPRICE\tVALUE\tP/L")
		for _, h := range p.Holdings {
			fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%s\n",
				h.Stock, h.Quantity, h.AverageCost, h.CurrentPrice, h.CurrentValue,
				profitLabel(h.ProfitPercent))
		}
		w.Flush()
	}
	fmt.Printf("cash %.2f  invested %.2f  value %.2f\n",
		p.Balance, p.TotalInvestment, p.TotalCurrentValue)
	accent.Printf("total assets %.2f  (%s)\n", p.TotalAssets, profitLabel(p.TotalProfitPercent))
}

func profitLabel(percent float64) string {
	switch {
	case percent > 0:
		return success.Sprintf("+%.2f%%", percent)
	case percent < 0:
		return danger.Sprintf("%.2f%%", percent)
	default:
		return dim.Sprint("0.00%")
	}
}

func renderRanking(p cl.RankingPayload) {
	accent.Println("Leaderboard")
	for _, e := range p.Ranking {
		fmt.Printf("%2d. %s  %.2f\n", e.Rank, e.UserID, e.TotalAssets)
	}
	if len(p.Ranking) == 0 {
		dim.Println("no players yet")
	}
}

func renderSlots(r game.SlotResult) {
	fmt.Printf("[ %s | %s | %s ]\n", r.Reels[0], r.Reels[1], r.Reels[2])
	renderGambleOutcome(r.Bet, r.Winnings, r.NewBalance)
}

func renderDice(r game.DiceResult) {
	fmt.Printf("rolled %d + %d = %d\n", r.Die1, r.Die2, r.Die1+r.Die2)
	renderGambleOutcome(r.Bet, r.Winnings, r.NewBalance)
}

func renderCoin(r game.CoinResult) {
	fmt.Printf("called %s, landed %s\n", r.Choice, r.Result)
	renderGambleOutcome(r.Bet, r.Winnings, r.NewBalance)
}

func renderGambleOutcome(bet, winnings int, balance float64) {
	switch {
	case winnings > bet:
		success.Printf("won %d\n", winnings-bet)
	case winnings == bet && bet > 0:
		warn.Println("push, bet returned")
	default:
		danger.Printf("lost %d\n", bet-winnings)
	}
	dim.Printf("balance %.2f\n", balance)
}
