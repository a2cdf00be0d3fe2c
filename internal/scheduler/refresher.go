package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/amaumene/kioskarr/internal/models"
	"github.com/amaumene/kioskarr/internal/status"
	"github.com/amaumene/kioskarr/internal/stores"
)

// Refresher re-fetches the request list periodically while the requests view is mounted
type Refresher struct {
	requests *stores.RequestStore
	interval time.Duration
	logger   zerolog.Logger

	mu        sync.Mutex
	cron      *cron.Cron
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	adminMode bool
	listeners []func([]models.MediaRequest)
	previous  map[int64]models.RequestStatus
}

// NewRefresher creates an unmounted refresher
func NewRefresher(requests *stores.RequestStore, interval time.Duration, logger zerolog.Logger) *Refresher {
	return &Refresher{
		requests: requests,
		interval: interval,
		logger:   logger,
		previous: make(map[int64]models.RequestStatus),
	}
}

// SetAdminMode switches between the user's requests and every user's requests
func (r *Refresher) SetAdminMode(admin bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adminMode = admin
}

// OnRefresh registers a listener receiving each successfully fetched snapshot
func (r *Refresher) OnRefresh(fn func([]models.MediaRequest)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Mounted reports whether the schedule is running
func (r *Refresher) Mounted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cron != nil
}

// Mount fetches immediately then every interval. Mounting twice is a no-op.
func (r *Refresher) Mount() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{r.logger})))
	spec := fmt.Sprintf("@every %s", r.interval)
	if _, err := c.AddFunc(spec, func() { r.refresh(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	r.cron = c
	r.cancel = cancel
	c.Start()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.refresh(ctx)
	}()

	r.logger.Info().Dur("interval", r.interval).Msg("Requests refresh mounted")
	return nil
}

// Unmount stops the schedule and waits for a running refresh.
// No refresh starts after it returns.
func (r *Refresher) Unmount() {
	r.mu.Lock()
	c, cancel := r.cron, r.cancel
	r.cron, r.cancel = nil, nil
	r.mu.Unlock()

	if c == nil {
		return
	}

	cancel()
	<-c.Stop().Done()
	r.wg.Wait()
	r.logger.Info().Msg("Requests refresh unmounted")
}

// RefreshNow runs one refresh outside the schedule
func (r *Refresher) RefreshNow(ctx context.Context) bool {
	return r.refresh(ctx)
}

func (r *Refresher) refresh(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	r.mu.Lock()
	admin := r.adminMode
	r.mu.Unlock()

	var ok bool
	if admin {
		ok = r.requests.FetchAll(ctx)
	} else {
		ok = r.requests.FetchMine(ctx)
	}
	if !ok {
		if ctx.Err() == nil {
			r.logger.Debug().Str("error", r.requests.Error()).Msg("Scheduled refresh failed")
		}
		return false
	}

	snapshot := r.requests.Requests()
	r.trackTransitions(snapshot)

	r.mu.Lock()
	listeners := make([]func([]models.MediaRequest), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return true
}

// trackTransitions logs status changes the pipeline is not expected to make.
// The server copy is kept regardless.
func (r *Refresher) trackTransitions(snapshot []models.MediaRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[int64]models.RequestStatus, len(snapshot))
	for _, req := range snapshot {
		next[req.ID] = req.Status
		prev, seen := r.previous[req.ID]
		if !seen || prev == req.Status {
			continue
		}
		if status.CanTransition(prev, req.Status) {
			r.logger.Debug().
				Int64("id", req.ID).
				Str("from", string(prev)).
				Str("to", string(req.Status)).
				Msg("Request status changed")
		} else {
			r.logger.Debug().
				Int64("id", req.ID).
				Str("from", string(prev)).
				Str("to", string(req.Status)).
				Msg("Unexpected request status transition")
		}
	}
	r.previous = next
}

// cronLogger routes cron's own messages to zerolog
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
