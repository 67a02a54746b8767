package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"RecurringInvest/internal/model"
)

type simulateRequest struct {
	Symbol       string  `json:"symbol"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Cadence      string  `json:"cadence"`
	Contribution float64 `json:"contribution"`
	SpendSurplus bool    `json:"spend_surplus"`
}

type eventView struct {
	NominalDate     string   `json:"nominal_date"`
	TradingDate     string   `json:"trading_date"`
	Price           *float64 `json:"price"`
	Shares          int64    `json:"shares"`
	Spent           float64  `json:"spent"`
	BalanceAfter    float64  `json:"balance_after"`
	CumulativeSpent float64  `json:"cumulative_spent"`
}

type resultView struct {
	TotalShares       int64    `json:"total_shares"`
	TotalSpent        float64  `json:"total_spent"`
	DollarCostAverage float64  `json:"dollar_cost_average"`
	CurrentPrice      *float64 `json:"current_price,omitempty"`
	PositionValue     *float64 `json:"position_value,omitempty"`
	Profit            *float64 `json:"profit,omitempty"`
}

type simulateResponse struct {
	RunID  string      `json:"run_id"`
	Symbol string      `json:"symbol"`
	Events []eventView `json:"events"`
	Result resultView  `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var in simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}

	req, err := toModelRequest(in)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	outcome, err := s.runner.Run(r.Context(), req)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	resp := simulateResponse{
		RunID:  uuid.NewString(),
		Symbol: req.Symbol,
		Events: make([]eventView, 0, len(outcome.Events)),
		Result: resultView{
			TotalShares:       outcome.Result.TotalShares,
			TotalSpent:        outcome.Result.TotalSpent,
			DollarCostAverage: outcome.Result.DollarCostAverage,
			CurrentPrice:      outcome.Result.CurrentPrice,
			PositionValue:     outcome.Result.PositionValue,
			Profit:            outcome.Result.Profit,
		},
	}
	for _, ev := range outcome.Events {
		resp.Events = append(resp.Events, eventView{
			NominalDate:     ev.NominalDate.Format(model.DateFormat),
			TradingDate:     ev.TradingDate.Format(model.DateFormat),
			Price:           ev.Price,
			Shares:          ev.Shares,
			Spent:           ev.Spent,
			BalanceAfter:    ev.BalanceAfter,
			CumulativeSpent: ev.CumulativeSpent,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func toModelRequest(in simulateRequest) (model.SimulationRequest, error) {
	var req model.SimulationRequest
	req.Symbol = in.Symbol
	req.Contribution = in.Contribution
	req.SpendSurplus = in.SpendSurplus
	req.Cadence = model.Cadence(in.Cadence)

	if in.Start == "" || in.End == "" {
		return req, model.ErrMissingInput
	}
	start, err := time.Parse(model.DateFormat, in.Start)
	if err != nil {
		return req, errors.Join(model.ErrMissingInput, err)
	}
	end, err := time.Parse(model.DateFormat, in.End)
	if err != nil {
		return req, errors.Join(model.ErrMissingInput, err)
	}
	req.Start = start
	req.End = end
	return req, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrMissingInput),
		errors.Is(err, model.ErrInvalidRange),
		errors.Is(err, model.ErrInvalidContribution):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, model.ErrProviderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}
