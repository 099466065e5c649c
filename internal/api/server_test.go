package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"stonkbot/internal/config"
	"stonkbot/internal/game"
	"stonkbot/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.New(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	svc := game.NewService(st, logger)
	srv := New(config.APIConfig{DailyReward: 10000}, logger, svc)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestOrderFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/orders", map[string]string{
		"user_id": "u1", "stock": "Apple", "side": "buy", "quantity": "10",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("buy status = %d", resp.StatusCode)
	}
	var buy game.BuyResult
	decodeBody(t, resp, &buy)
	if buy.Quantity != 10 || buy.TotalCost != 1503.0 || buy.Fee != 3.0 {
		t.Fatalf("buy = %+v", buy)
	}
	if buy.NewBalance != 8497.0 {
		t.Fatalf("balance = %v", buy.NewBalance)
	}

	resp, err := http.Get(ts.URL + "/v1/users/u1/portfolio")
	if err != nil {
		t.Fatalf("GET portfolio: %v", err)
	}
	var pf game.Portfolio
	decodeBody(t, resp, &pf)
	if len(pf.Holdings) != 1 || pf.Holdings[0].Stock != "Apple" || pf.Holdings[0].Quantity != 10 {
		t.Fatalf("portfolio = %+v", pf)
	}

	resp = postJSON(t, ts.URL+"/v1/orders", map[string]string{
		"user_id": "u1", "stock": "Apple", "side": "sell", "quantity": "all",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sell status = %d", resp.StatusCode)
	}
	var sell game.SellResult
	decodeBody(t, resp, &sell)
	if sell.Quantity != 10 || sell.NewBalance != 9994.0 {
		t.Fatalf("sell = %+v", sell)
	}

	resp, err = http.Get(ts.URL + "/v1/users/u1/assets")
	if err != nil {
		t.Fatalf("GET assets: %v", err)
	}
	var assets struct {
		TotalAssets float64 `json:"total_assets"`
	}
	decodeBody(t, resp, &assets)
	if assets.TotalAssets != 9994.0 {
		t.Fatalf("assets = %v", assets.TotalAssets)
	}
}

func TestOrderErrorStatuses(t *testing.T) {
	ts := newTestServer(t)
	cases := []struct {
		name string
		body map[string]string
		want int
	}{
		{"unknown stock", map[string]string{"user_id": "u1", "stock": "Nope", "side": "buy", "quantity": "1"}, http.StatusNotFound},
		{"sell without holding", map[string]string{"user_id": "u1", "stock": "Apple", "side": "sell", "quantity": "1"}, http.StatusBadRequest},
		{"over budget", map[string]string{"user_id": "u1", "stock": "Google", "side": "buy", "quantity": "500"}, http.StatusBadRequest},
		{"bad quantity", map[string]string{"user_id": "u1", "stock": "Apple", "side": "buy", "quantity": "-3"}, http.StatusBadRequest},
		{"bad side", map[string]string{"user_id": "u1", "stock": "Apple", "side": "hold", "quantity": "1"}, http.StatusBadRequest},
		{"missing user", map[string]string{"stock": "Apple", "side": "buy", "quantity": "1"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp := postJSON(t, ts.URL+"/v1/orders", tc.body)
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.want)
		}
	}

	// "over budget" must not have consumed supply.
	resp, err := http.Get(ts.URL + "/v1/stocks/Google")
	if err != nil {
		t.Fatalf("GET stock: %v", err)
	}
	var view game.StockView
	decodeBody(t, resp, &view)
	if view.AvailableShares != 600 {
		t.Fatalf("google available = %d", view.AvailableShares)
	}
}

func TestDailyClaimConflict(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/daily", map[string]string{"user_id": "u1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first claim status = %d", resp.StatusCode)
	}
	var claim game.ClaimResult
	decodeBody(t, resp, &claim)
	if claim.Reward != 10000.0 || claim.NewBalance != 20000.0 {
		t.Fatalf("claim = %+v", claim)
	}

	resp = postJSON(t, ts.URL+"/v1/daily", map[string]string{"user_id": "u1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second claim status = %d", resp.StatusCode)
	}
}

func TestTickMovesEveryStock(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/tick", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tick status = %d", resp.StatusCode)
	}
	var tick struct {
		Changes map[string]game.PriceChange `json:"changes"`
	}
	decodeBody(t, resp, &tick)
	if len(tick.Changes) != 7 {
		t.Fatalf("changes for %d stocks, want 7", len(tick.Changes))
	}

	resp, err := http.Get(ts.URL + "/v1/stocks")
	if err != nil {
		t.Fatalf("GET stocks: %v", err)
	}
	var list struct {
		Stocks []game.StockView `json:"stocks"`
	}
	decodeBody(t, resp, &list)
	for _, v := range list.Stocks {
		if v.Price < game.MinPrice {
			t.Fatalf("%s priced %v below floor", v.Name, v.Price)
		}
	}
}

func TestGambleEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/gamble/slots", map[string]string{"user_id": "u1", "bet": "100"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("slots status = %d", resp.StatusCode)
	}
	var slots game.SlotResult
	decodeBody(t, resp, &slots)
	if slots.Bet != 100 || slots.TxID == "" {
		t.Fatalf("slots = %+v", slots)
	}

	resp = postJSON(t, ts.URL+"/v1/gamble/dice", map[string]string{"user_id": "u1", "bet": "all"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dice status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/v1/gamble/coinflip", map[string]string{"user_id": "u2", "bet": "50", "choice": "앞"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("coinflip status = %d", resp.StatusCode)
	}
	var coin game.CoinResult
	decodeBody(t, resp, &coin)
	if coin.Choice != "앞" || (coin.Result != "앞" && coin.Result != "뒤") {
		t.Fatalf("coin = %+v", coin)
	}

	for _, tc := range []struct {
		path string
		body map[string]string
	}{
		{"/v1/gamble/slots", map[string]string{"user_id": "u3", "bet": "zero"}},
		{"/v1/gamble/dice", map[string]string{"user_id": "u3", "bet": "-5"}},
		{"/v1/gamble/coinflip", map[string]string{"user_id": "u3", "bet": "10", "choice": "maybe"}},
		{"/v1/gamble/slots", map[string]string{"user_id": "u3", "bet": "999999"}},
	} {
		resp := postJSON(t, ts.URL+tc.path, tc.body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s %v: status = %d, want 400", tc.path, tc.body, resp.StatusCode)
		}
	}
}

func TestRankingListsTraders(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/orders", map[string]string{
		"user_id": "u1", "stock": "Apple", "side": "buy", "quantity": "1",
	})
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/v1/ranking")
	if err != nil {
		t.Fatalf("GET ranking: %v", err)
	}
	var ranking struct {
		Ranking []game.RankEntry `json:"ranking"`
	}
	decodeBody(t, resp, &ranking)
	if len(ranking.Ranking) != 1 || ranking.Ranking[0].UserID != "u1" || ranking.Ranking[0].Rank != 1 {
		t.Fatalf("ranking = %+v", ranking.Ranking)
	}
}
