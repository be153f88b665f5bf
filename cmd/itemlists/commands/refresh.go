package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/karupanerura/item-service/internal/lists"
	"github.com/karupanerura/item-service/refresh/intervalrefresher"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func refreshCmd(a *app) *cobra.Command {
	var (
		once        bool
		interval    time.Duration
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Keep the friends cache warm",
		Long: "Load the friends from the API and write them to the cache at every interval until interrupted.\n" +
			"Only premium users have a friends cache.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.User.Premium {
				return fmt.Errorf("user %s is not premium and has no friends cache", a.cfg.User.ID)
			}
			if cmd.Flags().Changed("interval") {
				a.cfg.Refresh.Interval = interval
			}
			if cmd.Flags().Changed("metrics-addr") {
				a.cfg.Metrics.Addr = metricsAddr
			}

			refresher := intervalrefresher.LoaderRefresher(a.lists.FriendsLoader)
			if once {
				if err := refresher.Refresh(cmd.Context()); err != nil {
					return fmt.Errorf("failed to refresh friends: %w", err)
				}
				a.metrics.RecordRefresh(lists.Friends, time.Now())
				fmt.Fprintln(a.out, "friends refreshed")
				return nil
			}
			return a.runRefresher(cmd.Context(), refresher)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "refresh a single time and exit")
	cmd.Flags().DurationVar(&interval, "interval", 0, "time between two refreshes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve the Prometheus metrics on this address")
	return cmd
}

func (a *app) runRefresher(ctx context.Context, refresher intervalrefresher.Refresher) error {
	r, err := newIntervalRefresher(refresher, a.cfg.Refresh.Interval, func(err error) {
		a.log.Warn("background refresh failed", "err", err)
	})
	if err != nil {
		return err
	}
	r.OnRefreshed(func(at time.Time) {
		a.metrics.RecordRefresh(lists.Friends, at)
		a.log.Info("friends refreshed", "at", at)
	})

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		r.Run(ctx)
		return nil
	})
	if addr := a.cfg.Metrics.Addr; addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           a.metricsHandler(),
			ReadHeaderTimeout: shutdownTimeout,
		}
		eg.Go(func() error {
			a.log.Info("serving metrics", "addr", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	a.log.Info("refreshing friends", "user", a.cfg.User.ID, "interval", a.cfg.Refresh.Interval)
	return eg.Wait()
}

func (a *app) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(a.metrics.Registry(), promhttp.HandlerOpts{}))
	return mux
}

func newIntervalRefresher(refresher intervalrefresher.Refresher, interval time.Duration, onError func(error)) (*intervalrefresher.IntervalRefresher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	return intervalrefresher.NewIntervalRefresher(refresher, interval, onError), nil
}
