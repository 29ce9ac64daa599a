package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/gamma-omg/stock-dashboard/internal/cache"
	"github.com/gamma-omg/stock-dashboard/internal/chart"
	"github.com/gamma-omg/stock-dashboard/internal/config"
	"github.com/gamma-omg/stock-dashboard/internal/market"
	"github.com/gamma-omg/stock-dashboard/internal/metrics"
)

var ErrNoData = errors.New("dataset has no records")

// Dashboard runs load -> filter -> build for one source.
type Dashboard struct {
	log     *slog.Logger
	cfg     config.Chart
	src     cache.Loader
	cache   *cache.DatasetCache
	builder *chart.Builder
	metrics *metrics.Metrics
}

func New(log *slog.Logger, cfg config.Chart, src cache.Loader, c *cache.DatasetCache, m *metrics.Metrics) *Dashboard {
	return &Dashboard{
		log:     log,
		cfg:     cfg,
		src:     src,
		cache:   c,
		builder: chart.NewBuilder(cfg),
		metrics: m,
	}
}

func (d *Dashboard) Dataset(ctx context.Context) (market.Dataset, error) {
	return d.cache.Get(ctx, d.src)
}

func (d *Dashboard) Years(ctx context.Context) ([]int, error) {
	ds, err := d.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	return market.AvailableYears(ds), nil
}

// DefaultYear is the most recent year in the dataset.
func (d *Dashboard) DefaultYear(ctx context.Context) (int, error) {
	ds, err := d.Dataset(ctx)
	if err != nil {
		return 0, err
	}

	y, ok := market.LatestYear(ds)
	if !ok {
		return 0, ErrNoData
	}

	return y, nil
}

func (d *Dashboard) Records(ctx context.Context, year int) (market.Dataset, error) {
	ds, err := d.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	return market.FilterByYear(ds, year), nil
}

func (d *Dashboard) Chart(ctx context.Context, year int) (chart.Chart, error) {
	ch, err := d.build(ctx, year)
	if err != nil {
		return chart.Chart{}, err
	}

	d.metrics.ChartRequests.WithLabelValues("json").Inc()
	return ch, nil
}

func (d *Dashboard) build(ctx context.Context, year int) (chart.Chart, error) {
	records, err := d.Records(ctx, year)
	if err != nil {
		return chart.Chart{}, err
	}

	if len(records) == 0 {
		d.log.Warn("no records for year", slog.Int("year", year))
	}

	return d.builder.Build(records, strconv.Itoa(year)), nil
}

func (d *Dashboard) RenderPNG(ctx context.Context, w io.Writer, year int) error {
	ch, err := d.build(ctx, year)
	if err != nil {
		return err
	}

	d.metrics.ChartRequests.WithLabelValues("png").Inc()
	if err := chart.RenderPNG(w, ch, d.cfg.Width, d.cfg.Height); err != nil {
		return fmt.Errorf("failed to render chart for %d: %w", year, err)
	}

	return nil
}

func (d *Dashboard) Reload(ctx context.Context) (int, error) {
	ds, err := d.cache.Reload(ctx, d.src)
	if err != nil {
		return 0, err
	}

	return len(ds), nil
}

// Invalidate drops the cached dataset of the configured source.
func (d *Dashboard) Invalidate() {
	d.cache.Invalidate(d.src.Key())
}
