package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"pixelarmies/internal/combat"
	"pixelarmies/internal/feed"
)

func newServeCmd(rf *rootFlags) *cobra.Command {
	var (
		addr  string
		seed  int64
		speed float64
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream one match to WebSocket spectators",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := rf.logger()
			cfg, left, right, err := rf.matchup()
			if err != nil {
				return err
			}
			sim := combat.NewSimulator(cfg, left, right, seed, combat.WithLogger(logger))
			srv := feed.New(sim, feed.WithLogger(logger), feed.WithSpeed(speed))

			mux := http.NewServeMux()
			mux.HandleFunc("/ws", srv.Handler())
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			httpSrv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Run(ctx) }()
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				httpSrv.Shutdown(shutdown)
			}()

			logger.Info("listening", "addr", addr, "session", srv.Session(), "left", left.Name, "right", right.Name)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				stop()
				return err
			}
			if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "listen address")
	f.Int64Var(&seed, "seed", 1, "match seed")
	f.Float64Var(&speed, "speed", 1, "simulated seconds per wall second")
	return cmd
}
