package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gamma-omg/stock-dashboard/internal/market"
	"github.com/shopspring/decimal"
)

var columns = []string{"date", "open", "high", "low", "close", "adj_close", "volume"}

type CSVSource struct {
	path string
}

func NewCSV(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Key() string {
	return "csv:" + s.path
}

func (s *CSVSource) Load(ctx context.Context) (ds market.Dataset, err error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("unable to open stock data: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close stock data: %w", cerr))
		}
	}()

	return readCSV(ctx, f)
}

func readCSV(ctx context.Context, r io.Reader) (market.Dataset, error) {
	rdr := csv.NewReader(bufio.NewReader(r))
	rdr.FieldsPerRecord = -1

	header, err := rdr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	ds := make(market.Dataset, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read stock data: %w", err)
		}

		line, _ := rdr.FieldPos(0)
		rec, err := parseRow(data, idx)
		if err != nil {
			var de *market.DateError
			if errors.As(err, &de) {
				de.Line = line
			}
			return nil, err
		}

		ds = append(ds, rec)
	}

	return ds, nil
}

// columnIndex maps each required column to its position in header.
func columnIndex(header []string) ([]int, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}

	idx := make([]int, len(columns))
	for i, c := range columns {
		p, ok := pos[c]
		if !ok {
			return nil, fmt.Errorf("missing required column %q", c)
		}
		idx[i] = p
	}

	return idx, nil
}

// parseRow tolerates short rows: absent trailing numbers are missing, an absent
// date is a date error.
func parseRow(data []string, idx []int) (market.Record, error) {
	if idx[0] >= len(data) {
		return market.Record{}, &market.DateError{}
	}
	date, err := market.ParseDate(data[idx[0]])
	if err != nil {
		return market.Record{}, err
	}

	num := func(col int) decimal.NullDecimal {
		if idx[col] >= len(data) {
			return market.Missing()
		}
		return market.ParseNumber(data[idx[col]])
	}

	return market.NewRecord(date, num(1), num(2), num(3), num(4), num(5), num(6)), nil
}
