// Command healthview serves the health snapshot over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/thisdougb/healthview"
	"github.com/thisdougb/healthview/internal/config"
)

func main() {
	observe := flag.String("observe", "", "also render the phone or watch view to stdout on every change")
	flag.Parse()

	ctx := config.SetContextCorrelationId(context.Background(), "main")
	defer config.Logger().Sync()

	client, err := healthview.NewClientFromEnv()
	if err != nil {
		config.LogError(ctx, "failed to create client", zap.Error(err))
		os.Exit(1)
	}
	defer client.Close()

	config.LogInfo(ctx, "starting healthview",
		zap.String("source", config.StringValue("HEALTHVIEW_SOURCE")),
		zap.String("listen_addr", config.StringValue("HEALTHVIEW_LISTEN_ADDR")),
	)

	if *observe != "" {
		go func() {
			err := client.Observe(ctx, *observe, os.Stdout)
			if err != nil && !errors.Is(err, context.Canceled) {
				config.LogError(ctx, "observer stopped", zap.Error(err))
			}
		}()
	}

	done, err := client.Start(ctx)
	if err != nil {
		// keep serving so /status reports the denial
		config.LogError(ctx, "snapshot not built", zap.Error(err))
	} else {
		go func() {
			<-done
			config.LogInfo(ctx, "snapshot built", zap.Int("entries", len(client.Snapshot())))
		}()
	}

	server := &http.Server{
		Addr:    config.StringValue("HEALTHVIEW_LISTEN_ADDR"),
		Handler: newRouter(client),
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		config.LogInfo(ctx, "received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		config.LogError(ctx, "server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, config.DurationValue("HEALTHVIEW_SHUTDOWN_TIMEOUT"))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		config.LogError(ctx, "failed to shutdown HTTP server", zap.Error(err))
	}

	config.LogInfo(ctx, "healthview shutdown complete")
}

func newRouter(c *healthview.Client) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/snapshot", c.SnapshotHandler()).Methods(http.MethodGet)
	router.HandleFunc("/view/{layout}", viewHandler(c)).Methods(http.MethodGet)
	router.HandleFunc("/status", c.StatusHandler()).Methods(http.MethodGet)
	router.Handle("/metrics", c.MetricsHandler()).Methods(http.MethodGet)

	admin := router.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/summary", c.SummaryHandler()).Methods(http.MethodGet)
	admin.HandleFunc("/export", c.ExportHandler()).Methods(http.MethodGet)

	return router
}

func viewHandler(c *healthview.Client) http.HandlerFunc {
	phone := c.PhoneViewHandler()
	watch := c.WatchViewHandler()

	return func(w http.ResponseWriter, r *http.Request) {
		switch mux.Vars(r)["layout"] {
		case "phone":
			phone(w, r)
		case "watch":
			watch(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}
