package source

import (
	"testing"

	"github.com/gamma-omg/stock-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	src, err := Create(config.SourceReference{Source: config.CSV{Path: "a.csv"}})
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, src)

	src, err = Create(config.SourceReference{Source: config.Alpaca{Symbol: "NFLX"}})
	require.NoError(t, err)
	assert.IsType(t, &AlpacaSource{}, src)

	src, err = Create(config.SourceReference{Source: config.SQLite{Path: "a.db", Table: "bars"}})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSource{}, src)

	_, err = Create(config.SourceReference{})
	require.Error(t, err)
}
