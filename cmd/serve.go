package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/normaudit/insight-cli/internal/actionplan"
	"github.com/normaudit/insight-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the insight HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngines()
		if err != nil {
			return err
		}

		r := newRouter(env, cfg.Server.AllowedOrigins)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter registers the API handlers on a chi router. Split from the
// serve command so the handlers can be exercised without a listening
// server.
func newRouter(env *engineEnv, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "insight-cli"})
	})

	r.Post("/api/insights/subscriptions", func(w http.ResponseWriter, req *http.Request) {
		var in analysisInput
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		bundle := env.Assembler.Assemble(req.Context(), in.Statistics, in.Plans)
		writeJSON(w, http.StatusOK, bundle)
	})

	r.Post("/api/insights/performance", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Statistics model.SystemStatistics `json:"statistics"`
		}
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		report := env.Reporting.Generate(in.Statistics)
		writeJSON(w, http.StatusOK, report)
	})

	r.Post("/analyze-action", func(w http.ResponseWriter, req *http.Request) {
		var in actionplan.Request
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if in.Description == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
			return
		}

		result := env.ActionPlan.Analyze(req.Context(), in)
		writeJSON(w, http.StatusOK, result)
	})

	r.Post("/batch-analyze", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Actions []actionplan.Request `json:"actions"`
		}
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(in.Actions) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "actions list is required"})
			return
		}

		results := env.ActionPlan.AnalyzeBatch(req.Context(), in.Actions)
		writeJSON(w, http.StatusOK, map[string]any{"results": results})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
