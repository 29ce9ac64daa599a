package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/gamma-omg/stock-dashboard/internal/config"
	"github.com/gamma-omg/stock-dashboard/internal/market"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads daily rows in insertion order.
type SQLiteSource struct {
	cfg config.SQLite
}

func NewSQLite(cfg config.SQLite) (*SQLiteSource, error) {
	if !tableName.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid sqlite table name: %q", cfg.Table)
	}

	return &SQLiteSource{cfg: cfg}, nil
}

func (s *SQLiteSource) Key() string {
	return fmt.Sprintf("sqlite:%s:%s", s.cfg.Path, s.cfg.Table)
}

func (s *SQLiteSource) Load(ctx context.Context) (ds market.Dataset, err error) {
	db, err := sql.Open("sqlite", s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close sqlite: %w", cerr))
		}
	}()

	q := fmt.Sprintf(`SELECT date, open, high, low, close, adj_close, volume FROM %s ORDER BY rowid`, s.cfg.Table)
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.cfg.Table, err)
	}
	defer rows.Close()

	ds = make(market.Dataset, 0)
	row := 0
	for rows.Next() {
		row++

		var date sql.NullString
		cells := make([]sql.NullString, 6)
		if err := rows.Scan(&date, &cells[0], &cells[1], &cells[2], &cells[3], &cells[4], &cells[5]); err != nil {
			return nil, fmt.Errorf("scan %s row %d: %w", s.cfg.Table, row, err)
		}

		d, err := market.ParseDate(date.String)
		if err != nil {
			var de *market.DateError
			if errors.As(err, &de) {
				de.Line = row
			}
			return nil, err
		}

		ds = append(ds, market.NewRecord(d,
			number(cells[0]),
			number(cells[1]),
			number(cells[2]),
			number(cells[3]),
			number(cells[4]),
			number(cells[5])))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.cfg.Table, err)
	}

	return ds, nil
}

func number(v sql.NullString) decimal.NullDecimal {
	if !v.Valid {
		return market.Missing()
	}
	return market.ParseNumber(v.String)
}
