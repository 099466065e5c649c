package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stonkbot/internal/config"
	"stonkbot/internal/game"
)

type Server struct {
	cfg  config.APIConfig
	log  *slog.Logger
	game *game.Service
	mux  *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, gameSvc *game.Service) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:  cfg,
		log:  logger,
		game: gameSvc,
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stocks", s.handleStocksList)
		r.Get("/stocks/{name}", s.handleStockDetail)
		r.Post("/tick", s.handleTick)

		r.Post("/orders", s.handleOrder)
		r.Post("/daily", s.handleDaily)

		r.Get("/users/{id}/portfolio", s.handlePortfolio)
		r.Get("/users/{id}/assets", s.handleAssets)
		r.Get("/ranking", s.handleRanking)

		r.Post("/gamble/slots", s.handleSlots)
		r.Post("/gamble/dice", s.handleDice)
		r.Post("/gamble/coinflip", s.handleCoinFlip)
	})
}

func (s *Server) handleStocksList(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{"stocks": s.game.Stocks()}
	if ev, ok := s.game.CurrentEvent(); ok {
		payload["event"] = ev
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleStockDetail(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.StockByName(chi.URLParam(r, "name"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTick(w http.ResponseWriter, _ *http.Request) {
	changes := s.game.UpdatePrices()
	s.log.Info("price tick via api", "stocks", len(changes))
	writeJSON(w, http.StatusOK, map[string]any{"changes": changes})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID   string `json:"user_id"`
		Stock    string `json:"stock"`
		Side     string `json:"side"`
		Quantity string `json:"quantity"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(in.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	qty, err := game.ParseQuantity(in.Quantity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	switch strings.ToLower(strings.TrimSpace(in.Side)) {
	case "buy":
		out, err := s.game.Buy(in.UserID, in.Stock, qty)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	case "sell":
		out, err := s.game.Sell(in.UserID, in.Stock, qty)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	default:
		writeError(w, http.StatusBadRequest, "side must be buy or sell")
	}
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(in.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	out, err := s.game.ClaimDaily(in.UserID, s.cfg.DailyReward)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Portfolio(chi.URLParam(r, "id")))
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total_assets": s.game.TotalAssets(chi.URLParam(r, "id")),
	})
}

func (s *Server) handleRanking(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ranking": s.game.Ranking()})
}

type betRequest struct {
	UserID string `json:"user_id"`
	Bet    string `json:"bet"`
	Choice string `json:"choice,omitempty"`
}

func decodeBet(r *http.Request) (betRequest, game.Quantity, error) {
	var in betRequest
	if err := decodeJSON(r, &in); err != nil {
		return in, game.Quantity{}, err
	}
	if strings.TrimSpace(in.UserID) == "" {
		return in, game.Quantity{}, errors.New("user_id is required")
	}
	bet, err := game.ParseBet(in.Bet)
	if err != nil {
		return in, game.Quantity{}, err
	}
	return in, bet, nil
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	in, bet, err := decodeBet(r)
	if err != nil {
		writeBetError(w, err)
		return
	}
	out, err := s.game.SpinSlots(in.UserID, bet)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDice(w http.ResponseWriter, r *http.Request) {
	in, bet, err := decodeBet(r)
	if err != nil {
		writeBetError(w, err)
		return
	}
	out, err := s.game.RollDice(in.UserID, bet)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCoinFlip(w http.ResponseWriter, r *http.Request) {
	in, bet, err := decodeBet(r)
	if err != nil {
		writeBetError(w, err)
		return
	}
	out, err := s.game.FlipCoin(in.UserID, bet, strings.TrimSpace(in.Choice))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeBetError(w http.ResponseWriter, err error) {
	if errors.Is(err, game.ErrInvalidBet) {
		writeDomainError(w, err)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownStock):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrAlreadyClaimed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrInsufficientSupply),
		errors.Is(err, game.ErrNoHolding),
		errors.Is(err, game.ErrInsufficientHolding),
		errors.Is(err, game.ErrInvalidBet),
		errors.Is(err, game.ErrInvalidChoice):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
