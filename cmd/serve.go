package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edugen/edugen/internal/content"
	"github.com/edugen/edugen/internal/export"
	"github.com/edugen/edugen/internal/logging"
	"github.com/edugen/edugen/internal/metrics"
	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/server"
	"github.com/edugen/edugen/internal/session"
)

const pruneInterval = 5 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTPAddr = addr
		}
		idle, _ := cmd.Flags().GetDuration("session-idle")
		ctx := logging.IntoContext(cmd.Context(), logger)

		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		var contentSvc *content.Service
		provider, perr := newProvider(ctx, cfg, st, logger)
		if perr != nil {
			logger.Warn().Err(perr).Msg("content services disabled")
		} else {
			contentSvc = newContentService(cfg, provider, logger)
		}
		gen, err := newGenerator(cfg, provider, logger)
		if err != nil {
			return errors.Join(err, perr)
		}

		registries, closeRegistries, err := registriesFor(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeRegistries()

		m := metrics.New(prometheus.DefaultRegisterer)
		collectorCfg := cfg.Quiz.Collector()
		collectorCfg.Observer = m
		sessions := session.NewManager(quiz.NewCollector(gen, collectorCfg, logger), registries)

		srv := server.New(server.Deps{
			Content:  contentSvc,
			Sessions: sessions,
			Bank:     st.Bank(),
			Metrics:  m,
			Gatherer: prometheus.DefaultGatherer,
			Export:   export.Options{FontPath: cfg.PDFFont},
			CORS:     cfg.CORS,
			Quota:    cfg.Quiz.Quota,
			Logger:   logger,
		})
		httpServer := srv.HTTPServer(cfg.HTTPAddr)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info().Str("addr", cfg.HTTPAddr).Str("generator", cfg.Generator.Backend).Msg("http server listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			ticker := time.NewTicker(pruneInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if n := sessions.Prune(idle); n > 0 {
						logger.Info().Int("pruned", n).Int("active", sessions.Len()).Msg("idle sessions pruned")
					}
				}
			}
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("http shutdown error")
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return err
		}
		logger.Info().Msg("shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides EDUGEN_HTTP_ADDR)")
	serveCmd.Flags().Duration("session-idle", 2*time.Hour, "Drop build sessions idle for this long")
}
