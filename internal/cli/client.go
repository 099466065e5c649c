package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stonkbot/internal/game"
)

// Client is a thin JSON client for the stonkbot API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type StocksPayload struct {
	Stocks []game.StockView  `json:"stocks"`
	Event  *game.MarketEvent `json:"event,omitempty"`
}

type RankingPayload struct {
	Ranking []game.RankEntry `json:"ranking"`
}

type AssetsPayload struct {
	TotalAssets float64 `json:"total_assets"`
}

type TickPayload struct {
	Changes map[string]game.PriceChange `json:"changes"`
}

func (c *Client) Stocks(ctx context.Context) (StocksPayload, error) {
	var out StocksPayload
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/stocks", nil, &out)
	return out, err
}

func (c *Client) Stock(ctx context.Context, name string) (game.StockView, error) {
	var out game.StockView
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/stocks/"+url.PathEscape(name), nil, &out)
	return out, err
}

func (c *Client) Tick(ctx context.Context) (TickPayload, error) {
	var out TickPayload
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/tick", nil, &out)
	return out, err
}

func (c *Client) Buy(ctx context.Context, userID, stock, quantity string) (game.BuyResult, error) {
	var out game.BuyResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/orders", map[string]any{
		"user_id":  userID,
		"stock":    stock,
		"side":     "buy",
		"quantity": quantity,
	}, &out)
	return out, err
}

func (c *Client) Sell(ctx context.Context, userID, stock, quantity string) (game.SellResult, error) {
	var out game.SellResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/orders", map[string]any{
		"user_id":  userID,
		"stock":    stock,
		"side":     "sell",
		"quantity": quantity,
	}, &out)
	return out, err
}

func (c *Client) ClaimDaily(ctx context.Context, userID string) (game.ClaimResult, error) {
	var out game.ClaimResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/daily", map[string]any{"user_id": userID}, &out)
	return out, err
}

func (c *Client) Portfolio(ctx context.Context, userID string) (game.Portfolio, error) {
	var out game.Portfolio
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(userID)+"/portfolio", nil, &out)
	return out, err
}

func (c *Client) TotalAssets(ctx context.Context, userID string) (AssetsPayload, error) {
	var out AssetsPayload
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(userID)+"/assets", nil, &out)
	return out, err
}

func (c *Client) Ranking(ctx context.Context) (RankingPayload, error) {
	var out RankingPayload
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/ranking", nil, &out)
	return out, err
}

func (c *Client) SpinSlots(ctx context.Context, userID, bet string) (game.SlotResult, error) {
	var out game.SlotResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/gamble/slots", map[string]any{
		"user_id": userID,
		"bet":     bet,
	}, &out)
	return out, err
}

func (c *Client) RollDice(ctx context.Context, userID, bet string) (game.DiceResult, error) {
	var out game.DiceResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/gamble/dice", map[string]any{
		"user_id": userID,
		"bet":     bet,
	}, &out)
	return out, err
}

func (c *Client) FlipCoin(ctx context.Context, userID, bet, choice string) (game.CoinResult, error) {
	var out game.CoinResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/gamble/coinflip", map[string]any{
		"user_id": userID,
		"bet":     bet,
		"choice":  choice,
	}, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("api error: %s (%d)", strings.TrimSpace(string(raw)), resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
