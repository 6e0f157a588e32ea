package metrics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelmap/internal/logger"
	"github.com/Faultbox/voxelmap/internal/minimap"
)

// Snapshot returns the latest published raster, or nil before the first
// scan.
type Snapshot func() *minimap.Raster

// Handler builds the debug HTTP handler: /metrics for Prometheus and
// /minimap.png for the current raster.
func Handler(g prometheus.Gatherer, snapshot Snapshot) http.Handler {
	log := logger.Named("http")

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/minimap.png", rasterHandler(snapshot)).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	logged := handlers.CustomLoggingHandler(io.Discard, router, func(_ io.Writer, p handlers.LogFormatterParams) {
		log.Debug("request",
			zap.String("method", p.Request.Method),
			zap.String("uri", p.Request.RequestURI),
			zap.Int("status", p.StatusCode),
			zap.Int("size", p.Size))
	})
	return handlers.RecoveryHandler()(handlers.CompressHandler(logged))
}

func rasterHandler(snapshot Snapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raster := snapshot()
		if raster == nil {
			http.Error(w, "no raster yet", http.StatusServiceUnavailable)
			return
		}

		img := minimap.NewImage()
		minimap.Pixels(raster, img)

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		cx, cz := raster.Center()
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Minimap-Center", fmt.Sprintf("%d,%d", cx, cz))
		w.Write(buf.Bytes())
	}
}

// Serve runs the debug server on addr until ctx is done.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("debug server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("debug server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("debug server shutdown: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
