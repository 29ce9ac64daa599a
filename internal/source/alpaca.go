package source

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/gamma-omg/stock-dashboard/internal/config"
	"github.com/gamma-omg/stock-dashboard/internal/market"
	"github.com/shopspring/decimal"
)

type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

type AlpacaSource struct {
	cfg    config.Alpaca
	client barsClient
}

func NewAlpaca(cfg config.Alpaca) *AlpacaSource {
	return &AlpacaSource{
		cfg: cfg,
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    cfg.ApiKey,
			APISecret: cfg.Secret,
			BaseURL:   cfg.BaseUrl,
		}),
	}
}

func (s *AlpacaSource) Key() string {
	return fmt.Sprintf("alpaca:%s:%s:%s", s.cfg.Symbol, s.cfg.Start.Format(time.DateOnly), s.cfg.End.Format(time.DateOnly))
}

func (s *AlpacaSource) Load(ctx context.Context) (market.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars, err := s.client.GetBars(s.cfg.Symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     s.cfg.Start,
		End:       s.cfg.End,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get daily bars for %s: %w", s.cfg.Symbol, err)
	}

	ds := make(market.Dataset, len(bars))
	for i, b := range bars {
		ds[i] = market.NewRecord(b.Timestamp,
			market.Value(decimal.NewFromFloat(b.Open)),
			market.Value(decimal.NewFromFloat(b.High)),
			market.Value(decimal.NewFromFloat(b.Low)),
			market.Value(decimal.NewFromFloat(b.Close)),
			market.Missing(),
			market.Value(decimal.NewFromInt(int64(b.Volume))))
	}

	return ds, nil
}
