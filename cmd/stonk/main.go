package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cl "stonkbot/internal/cli"
	"stonkbot/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL
	userID := strings.TrimSpace(os.Getenv("STONK_USER_ID"))
	if userID == "" {
		userID = "local"
	}

	root := &cobra.Command{
		Use:          "stonk",
		Short:        "Stonkbot market client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "API base URL")
	root.PersistentFlags().StringVarP(&userID, "user", "u", userID, "user id")

	root.AddCommand(
		newStocksCmd(&apiBase),
		newBuyCmd(&apiBase, &userID),
		newSellCmd(&apiBase, &userID),
		newPortfolioCmd(&apiBase, &userID),
		newRankingCmd(&apiBase),
		newDailyCmd(&apiBase, &userID),
		newSlotsCmd(&apiBase, &userID),
		newDiceCmd(&apiBase, &userID),
		newFlipCmd(&apiBase, &userID),
		newTickCmd(&apiBase),
		newWatchCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func newStocksCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stocks",
		Short: "List the market",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			out, err := newClient(apiBase).Stocks(ctx)
			if err != nil {
				return err
			}
			renderStocks(out)
			return nil
		},
	}
}

func newBuyCmd(apiBase, userID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <stock> <quantity|all>",
		Short: "Buy shares",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			out, err := newClient(apiBase).Buy(ctx, *userID, args[0], args[1])
			if err != nil {
				return err
			}
			renderBuy(out)
			return nil
		},
	}
}

func newSellCmd(apiBase, userID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <stock> <quantity|all>",
		Short: "Sell shares",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			out, err := newClient(apiBase).Sell(ctx, *userID, args[0], args[1])
			if err != nil {
				return err
			}
			renderSell(out)
			return nil
		},
	}
}

func newPortfolioCmd(apiBase, userID *string) *cobra.Command {
	return &cobra.Command{
		Use:     "portfolio",
		Aliases: []string{"pf"},
		Short:   "Show holdings and valuation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			out, err := newClient(apiBase).Portfolio(ctx, *userID)
			if err != nil {
				return err
			}
			renderPortfolio(out)
			return nil
		},
	}
}

func newRankingCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ranking",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			out, err := newClient(apiBase).Ranking(ctx)
			if err != nil {
				return err
			}
			renderRanking(out)
			return nil
		},
	}
}

func newDailyCmd(apiBase, userID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Claim the daily reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			out, err := newClient(apiBase).ClaimDaily(ctx, *userID)
			if err != nil {
				return err
			}
			success.Printf("claimed %.0f, balance now %.2f\n", out.Reward, out.NewBalance)
			return nil
		},
	}
}

func newSlotsCmd(apiBase, userID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "slots <bet|all>",
		Short: "Spin the slot machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			out, err := newClient(apiBase).SpinSlots(ctx, *userID, args[0])
			if err != nil {
				return err
			}
			renderSlots(out)
			return nil
		},
	}
}

func newDiceCmd(apiBase, userID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dice <bet|all>",
		Short: "Roll two dice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			out, err := newClient(apiBase).RollDice(ctx, *userID, args[0])
			if err != nil {
				return err
			}
			renderDice(out)
			return nil
		},
	}
}

func newFlipCmd(apiBase, userID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "flip <bet|all> <앞|뒤>",
		Short: "Flip a coin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			out, err := newClient(apiBase).FlipCoin(ctx, *userID, args[0], args[1])
			if err != nil {
				return err
			}
			renderCoin(out)
			return nil
		},
	}
}

func newTickCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Force one price update",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			out, err := newClient(apiBase).Tick(ctx)
			if err != nil {
				return err
			}
			success.Printf("tick applied to %d stocks\n", len(out.Changes))
			return nil
		},
	}
}
