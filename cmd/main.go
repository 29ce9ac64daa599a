package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gamma-omg/stock-dashboard/internal/cache"
	"github.com/gamma-omg/stock-dashboard/internal/config"
	"github.com/gamma-omg/stock-dashboard/internal/dashboard"
	"github.com/gamma-omg/stock-dashboard/internal/metrics"
	"github.com/gamma-omg/stock-dashboard/internal/source"
	"github.com/gamma-omg/stock-dashboard/internal/web"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	year    int
	outFile string
)

type app struct {
	log     *slog.Logger
	cfg     *config.Config
	src     source.Source
	cache   *cache.DatasetCache
	metrics *metrics.Metrics
	dash    *dashboard.Dashboard
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Yearly candlestick and volume charts for one stock",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv("CONFIG"), "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web service",
		RunE:  serve,
	}

	yearsCmd := &cobra.Command{
		Use:   "years",
		Short: "Print the years available in the dataset",
		RunE:  years,
	}

	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "Print the daily records of one year",
		RunE:  table,
	}
	tableCmd.Flags().IntVar(&year, "year", 0, "year to print (default: latest)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart of one year to a PNG file",
		RunE:  render,
	}
	renderCmd.Flags().IntVar(&year, "year", 0, "year to render (default: latest)")
	renderCmd.Flags().StringVar(&outFile, "out", "chart.png", "output PNG file")

	rootCmd.AddCommand(serveCmd, yearsCmd, tableCmd, renderCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() (*app, error) {
	cfg, err := config.ReadFromFile(cfgFile)
	if err != nil {
		return nil, err
	}

	src, err := source.Create(cfg.SourceRef)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source: %w", err)
	}

	logger := slog.Default()
	m := metrics.New(cfg.Server.MetricsNamespace)
	c := cache.NewDatasetCache(logger, m)

	return &app{
		log:     logger,
		cfg:     cfg,
		src:     src,
		cache:   c,
		metrics: m,
		dash:    dashboard.New(logger, cfg.Chart, src, c, m),
	}, nil
}

func (a *app) selectedYear(ctx context.Context) (int, error) {
	if year != 0 {
		return year, nil
	}
	return a.dash.DefaultYear(ctx)
}

func serve(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := a.dash.Dataset(ctx); err != nil {
		return err
	}

	if a.cfg.Reload.Cron != "" {
		r, err := cache.NewReloader(a.log, a.cache, a.src, a.cfg.Reload.Cron)
		if err != nil {
			return err
		}
		r.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			r.Stop(stopCtx)
		}()
	}

	return web.NewServer(a.log, a.cfg.Server, a.dash, a.metrics).Run(ctx)
}

func years(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ys, err := a.dash.Years(cmd.Context())
	if err != nil {
		return err
	}

	for _, y := range ys {
		fmt.Fprintln(cmd.OutOrStdout(), y)
	}
	return nil
}

func table(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	y, err := a.selectedYear(cmd.Context())
	if err != nil {
		return err
	}

	ch, err := a.dash.Chart(cmd.Context(), y)
	if err != nil {
		return err
	}

	t := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Date", "Open", "High", "Low", "Close", "Volume", "Direction"}),
	)
	for i, p := range ch.Price {
		v := ch.Volume[i]
		t.Append([]string{
			p.Date,
			cell(p.Open.Valid, p.Open.Float64),
			cell(p.High.Valid, p.High.Float64),
			cell(p.Low.Valid, p.Low.Float64),
			cell(p.Close.Valid, p.Close.Float64),
			cell(v.Volume.Valid, v.Volume.Float64),
			string(v.Color),
		})
	}

	return t.Render()
}

func render(cmd *cobra.Command, _ []string) (err error) {
	a, err := newApp()
	if err != nil {
		return err
	}

	y, err := a.selectedYear(cmd.Context())
	if err != nil {
		return err
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close chart file: %w", cerr))
		}
	}()

	if err := a.dash.RenderPNG(cmd.Context(), f, y); err != nil {
		return err
	}

	a.log.Info("chart rendered", slog.Int("year", y), slog.String("file", outFile))
	return nil
}

func cell(valid bool, v float64) string {
	if !valid {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

