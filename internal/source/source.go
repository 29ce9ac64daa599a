package source

import (
	"context"
	"errors"

	"github.com/gamma-omg/stock-dashboard/internal/config"
	"github.com/gamma-omg/stock-dashboard/internal/market"
)

// Source loads the full dataset of one security.
type Source interface {
	Key() string
	Load(ctx context.Context) (market.Dataset, error)
}

func Create(cfg config.SourceReference) (Source, error) {
	csvCfg, ok := cfg.Source.(config.CSV)
	if ok {
		return NewCSV(csvCfg.Path), nil
	}

	alpacaCfg, ok := cfg.Source.(config.Alpaca)
	if ok {
		return NewAlpaca(alpacaCfg), nil
	}

	sqliteCfg, ok := cfg.Source.(config.SQLite)
	if ok {
		return NewSQLite(sqliteCfg)
	}

	return nil, errors.New("unknown data source")
}
