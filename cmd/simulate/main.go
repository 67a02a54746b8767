package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"RecurringInvest/internal/collector"
	"RecurringInvest/internal/config"
	"RecurringInvest/internal/model"
	"RecurringInvest/internal/simulator"
)

func main() {
	log.SetFlags(0)

	var (
		symbol  = flag.String("symbol", "", "ticker symbol (defaults to config)")
		start   = flag.String("start", "", "start date, YYYY-MM-DD")
		end     = flag.String("end", "", "end date, YYYY-MM-DD")
		cadence = flag.String("cadence", "monthly", "contribution cadence: monthly|biweekly|weekly|single")
		amount  = flag.Float64("amount", 0, "contribution amount per interval")
		surplus = flag.Bool("surplus", false, "spend accumulated surplus on extra whole shares")
		cfgFlag = flag.String("config", "configs/config.yaml", "config file path")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*cfgFlag)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *symbol == "" {
		*symbol = cfg.Simulation.DefaultSymbol
	}

	req, err := buildRequest(*symbol, *start, *end, *cadence, *amount, *surplus)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	var fetcher collector.Fetcher
	direct := collector.NewYahooFetcher(cfg.Provider.BaseURL, cfg.ProviderTimeout())
	if cfg.Provider.ProxyURL != "" {
		local := collector.NewProxyFetcher(cfg.Provider.ProxyURL, cfg.ProviderTimeout())
		fetcher = collector.NewFallbackFetcher(local, direct)
	} else {
		fetcher = direct
	}

	runner := simulator.NewRunner(collector.NewCollector(fetcher))
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.ProviderTimeout())
	defer cancel()

	outcome, err := runner.Run(ctx, req)
	if err != nil {
		log.Fatalf("[FATAL] simulation failed: %v", err)
	}
	printOutcome(req, outcome)
}

func buildRequest(symbol, start, end, cadence string, amount float64, surplus bool) (model.SimulationRequest, error) {
	var req model.SimulationRequest
	if start == "" || end == "" {
		return req, fmt.Errorf("%w: -start and -end are required", model.ErrMissingInput)
	}
	startDate, err := time.Parse(model.DateFormat, start)
	if err != nil {
		return req, fmt.Errorf("parse start date: %w", err)
	}
	endDate, err := time.Parse(model.DateFormat, end)
	if err != nil {
		return req, fmt.Errorf("parse end date: %w", err)
	}
	cad, err := model.ParseCadence(cadence)
	if err != nil {
		return req, err
	}
	req = model.SimulationRequest{
		Symbol:       symbol,
		Start:        startDate,
		End:          endDate,
		Cadence:      cad,
		Contribution: amount,
		SpendSurplus: surplus,
	}
	return req, nil
}

func printOutcome(req model.SimulationRequest, outcome *simulator.Outcome) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPRICE\tSHARES\tSPENT\tBALANCE")
	for _, ev := range outcome.Events {
		price := "-"
		if ev.Price != nil {
			price = fmt.Sprintf("%.2f", *ev.Price)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n",
			ev.TradingDate.Format(model.DateFormat), price, ev.Shares, ev.Spent, ev.BalanceAfter)
	}
	w.Flush()

	res := outcome.Result
	fmt.Printf("\n%s %s, %v per interval\n", req.Symbol, req.Cadence, req.Contribution)
	fmt.Printf("total shares:  %d\n", res.TotalShares)
	fmt.Printf("total spent:   %.2f\n", res.TotalSpent)
	fmt.Printf("dca price:     %.2f\n", res.DollarCostAverage)
	if res.PositionValue != nil && res.Profit != nil {
		fmt.Printf("current price: %.2f\n", *res.CurrentPrice)
		fmt.Printf("position:      %.2f\n", *res.PositionValue)
		fmt.Printf("profit:        %.2f\n", *res.Profit)
	} else {
		fmt.Println("valuation:     unavailable")
	}
}
