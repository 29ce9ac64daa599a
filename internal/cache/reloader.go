package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Reloader refreshes one source on a cron schedule (with seconds field).
type Reloader struct {
	log   *slog.Logger
	cron  *cron.Cron
	cache *DatasetCache
	src   Loader
}

func NewReloader(log *slog.Logger, c *DatasetCache, src Loader, spec string) (*Reloader, error) {
	r := &Reloader{
		log:   log,
		cron:  cron.New(cron.WithSeconds()),
		cache: c,
		src:   src,
	}

	if _, err := r.cron.AddFunc(spec, r.reload); err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}

	return r, nil
}

func (r *Reloader) Start() {
	r.cron.Start()
}

// Stop waits for a running reload to finish or ctx to expire.
func (r *Reloader) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (r *Reloader) reload() {
	if _, err := r.cache.Reload(context.Background(), r.src); err != nil {
		r.log.Error("scheduled reload failed", slog.String("source", r.src.Key()), slog.Any("error", err))
	}
}
