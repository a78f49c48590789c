package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "feedback_analyzer/internal/adapters/http_server"
	"feedback_analyzer/internal/adapters/observability"
	"feedback_analyzer/internal/app"
	"feedback_analyzer/internal/bootstrap"
	"feedback_analyzer/internal/domain"
	"feedback_analyzer/internal/shared"
	mysqlrepo "feedback_analyzer/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// set global logger (console in dev, JSON otherwise)
	bootstrap.Logger(os.Stdout, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	metricsSrv := observability.Serve(cfg.MetricsAddr, reg)

	oracle, closeOracle, err := bootstrap.Oracle(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("oracle setup failed")
	}
	defer closeOracle()

	views, err := server.NewViews()
	if err != nil {
		log.Fatal().Err(err).Msg("dashboard templates failed")
	}

	h := &server.Handlers{
		Svc:         app.NewAnalysisService(oracle, cfg.Policy()),
		Views:       views,
		MaxUpload:   cfg.UploadMaxBytes,
		UploadRPS:   float64(cfg.UploadRPS),
		UploadBurst: cfg.UploadBurst,
	}

	// db (optional)
	var db *sql.DB
	if cfg.MySQLDSN != "" {
		db, err = mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()
		log.Info().Msg("database connection ok")

		repo := mysqlrepo.New(db)
		h.Properties = func(id int64) domain.ReviewSource {
			return mysqlrepo.Source{Repo: repo, PropertyID: id}
		}
	}

	// http
	srv := server.New(cfg.RequestTimeout())
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("row_policy", cfg.RowPolicy).Msg("dashboard listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(sctx)
		}
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
