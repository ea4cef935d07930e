package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutline/leadscout/internal/crawl"
	"github.com/scoutline/leadscout/internal/discovery"
	"github.com/scoutline/leadscout/internal/export"
	"github.com/scoutline/leadscout/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		client, err := initPlaces()
		if err != nil {
			return err
		}
		resolver, err := initResolver()
		if err != nil {
			return err
		}

		discoverySvc := discovery.NewService(st, client, resolver, st, cfg.Discovery)
		pool := crawl.NewPool(cfg.Crawl.MaxConcurrent)
		crawlWorker := crawl.NewWorker(st, resolver, st, pool, cfg.Crawl)
		exportBuilder := export.NewBuilder(st, resolver, st)

		r := buildRouter(st, discoverySvc, crawlWorker, exportBuilder)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// datasetLister is the slice of the store the datasets endpoint reads.
type datasetLister interface {
	ListDatasets(ctx context.Context, userID string) ([]model.Dataset, error)
}

func buildRouter(st datasetLister, discoverySvc *discovery.Service, crawlWorker *crawl.Worker, exportBuilder *export.Builder) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/discover", func(w http.ResponseWriter, req *http.Request) {
		var dr discovery.Request
		if err := json.NewDecoder(req.Body).Decode(&dr); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		result, err := discoverySvc.Run(req.Context(), dr)
		if err != nil {
			zap.L().Error("discovery failed", zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, eris.Cause(err).Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Post("/v1/crawl", func(w http.ResponseWriter, req *http.Request) {
		var cr crawl.Request
		if err := json.NewDecoder(req.Body).Decode(&cr); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		result, err := crawlWorker.Crawl(req.Context(), cr)
		if err != nil {
			zap.L().Error("crawl failed", zap.String("business", cr.BusinessID), zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, eris.Cause(err).Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Post("/v1/export", func(w http.ResponseWriter, req *http.Request) {
		var er export.Request
		if err := json.NewDecoder(req.Body).Decode(&er); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		result, err := exportBuilder.Export(req.Context(), er)
		if err != nil {
			zap.L().Error("export failed", zap.String("dataset", er.DatasetID), zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, eris.Cause(err).Error())
			return
		}
		if !result.Success {
			writeJSON(w, http.StatusOK, result)
			return
		}
		contentType := "text/csv; charset=utf-8"
		if er.Format == model.ExportFormatXLSX {
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(result.Bytes)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Bytes)
	})

	r.Get("/v1/datasets", func(w http.ResponseWriter, req *http.Request) {
		userID := req.URL.Query().Get("user_id")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		datasets, err := st.ListDatasets(req.Context(), userID)
		if err != nil {
			zap.L().Error("list datasets failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list datasets")
			return
		}
		writeJSON(w, http.StatusOK, datasets)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	addUserFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
