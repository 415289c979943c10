package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"codemate/internal/domain/ports"
)

const (
	shutdownTimeout = 10 * time.Second
	jobTimeout      = 2 * time.Minute
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

// Options configures the HTTP listener and scheduled jobs. A nil job or an
// empty schedule disables that job.
type Options struct {
	Addr        string
	RefreshCron string
	Refresh     Job
	DigestCron  string
	Digest      Job
}

// App manages the HTTP server and the background scheduler.
type App struct {
	handler http.Handler
	opts    Options
	cache   ports.StatementCache
	logger  ports.Logger
	cron    *cron.Cron

	addr      net.Addr
	listening chan struct{}
}

// New constructs an App instance.
func New(handler http.Handler, opts Options, cache ports.StatementCache, logger ports.Logger) *App {
	return &App{
		handler:   handler,
		opts:      opts,
		cache:     cache,
		logger:    logger,
		cron:      cron.New(),
		listening: make(chan struct{}),
	}
}

// Listening is closed once the HTTP listener is bound.
func (a *App) Listening() <-chan struct{} { return a.listening }

// Addr returns the bound listen address. Valid after Listening is closed.
func (a *App) Addr() net.Addr { return a.addr }

// Run serves HTTP and runs scheduled jobs until ctx is cancelled, then shuts
// everything down and closes the statement cache.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.cache.Close(); err != nil {
			a.logger.Error(context.Background(), "failed to close cache", "error", err)
		}
	}()

	if err := a.scheduleJob("contest refresh", a.opts.RefreshCron, a.opts.Refresh); err != nil {
		return err
	}
	if err := a.scheduleJob("contest digest", a.opts.DigestCron, a.opts.Digest); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", a.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.opts.Addr, err)
	}
	a.addr = ln.Addr()
	close(a.listening)

	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if a.opts.Refresh != nil {
		go a.runJob("contest refresh", a.opts.Refresh)
	}

	a.logger.Info(ctx, "starting scheduler", "refresh_cron", a.opts.RefreshCron, "digest_cron", a.opts.DigestCron)
	a.cron.Start()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(shutdownCtx, "http shutdown failed", "error", err)
	}

	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	a.logger.Info(context.Background(), "server stopped")
	return runErr
}

func (a *App) scheduleJob(name, schedule string, job Job) error {
	if job == nil || schedule == "" {
		return nil
	}
	_, err := a.cron.AddFunc(schedule, func() { a.runJob(name, job) })
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, schedule, err)
	}
	return nil
}

func (a *App) runJob(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := job(ctx); err != nil {
		a.logger.Error(ctx, "scheduled job failed", "job", name, "error", err)
	}
}
