package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/common/license"
	"golang.org/x/sync/errgroup"

	"jobboard/config"
	"jobboard/domain"
	"jobboard/infrastructure"
	"jobboard/interfaces"
	"jobboard/usecase"
)

func main() {
	configPath := flag.String("config", "config.yml", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := newLogger(cfg.Log)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	db, err := infrastructure.NewDatabase(cfg.Database, log)
	if err != nil {
		return err
	}
	repo := infrastructure.NewRepository(db)

	store, err := newObjectStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	parser, err := newResumeParser(cfg, log)
	if err != nil {
		return err
	}

	gen, closeGen, err := infrastructure.NewTextGenerator(ctx, cfg.Scoring, log)
	if err != nil {
		return err
	}
	defer closeGen()
	fallback := infrastructure.NewFallbackScorer(cfg.Scoring.SkillVocabulary, domain.SalaryRange{
		Min: cfg.Scoring.FallbackSalaryMin,
		Max: cfg.Scoring.FallbackSalaryMax,
	})
	scorer := infrastructure.NewResumeScorer(gen, fallback, log)

	transport, err := infrastructure.NewMailTransport(ctx, cfg.Mail)
	if err != nil {
		return err
	}
	mailer := infrastructure.NewMailDispatcher(transport, cfg.Mail.FromAddress, cfg.Mail.FromName, cfg.Mail.FrontendURL, log)

	deps := usecase.Dependencies{
		Jobs:        repo,
		Submissions: repo,
		Store:       store,
		Parser:      parser,
		Scorer:      scorer,
		Notifier:    mailer,
	}
	if cfg.Events.RabbitMQURL != "" {
		rmq, err := infrastructure.NewRabbitMQ(cfg.Events.RabbitMQURL, cfg.Events.Queue, log)
		if err != nil {
			return err
		}
		defer rmq.Close()
		deps.Events = rmq
	} else {
		log.Info("RABBITMQ_URL not set, application events disabled")
	}

	orchestrator := usecase.NewOrchestrator(deps, usecase.Options{
		HRNotifyThreshold: cfg.Scoring.HRNotifyThreshold,
		StorageFolder:     cfg.Storage.Folder,
		RecoveryAfter:     time.Duration(cfg.Pipeline.RecoveryAfterMinutes) * time.Minute,
	}, log)

	router := newRouter(cfg.HTTP, log)
	interfaces.NewHTTPHandler(router, repo, orchestrator, store, cfg.HTTP.UploadDir, log)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func newObjectStore(ctx context.Context, cfg config.StorageConfig) (usecase.ObjectStore, error) {
	if cfg.Provider == "yandex" {
		return infrastructure.NewYandexDiskStore(cfg), nil
	}
	store, err := infrastructure.NewGCSStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newResumeParser(cfg config.Config, log logrus.FieldLogger) (usecase.ResumeParser, error) {
	if cfg.Parser.Mode != "local" {
		return infrastructure.NewResumeParserClient(cfg.Parser, log), nil
	}
	if cfg.Parser.UnidocLicense != "" {
		if err := license.SetMeteredKey(cfg.Parser.UnidocLicense); err != nil {
			return nil, err
		}
	} else {
		log.Warn("UNIDOC_LICENSE_API_KEY not set, PDF extraction may be limited")
	}
	timeout := time.Duration(cfg.Parser.TimeoutSeconds) * time.Second
	return infrastructure.NewLocalResumeParser(cfg.Scoring.SkillVocabulary, timeout, log), nil
}

func newRouter(cfg config.HTTPConfig, log logrus.FieldLogger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), interfaces.RequestLogger(log))

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization",
		interfaces.HeaderUserID, interfaces.HeaderUserEmail, interfaces.HeaderUserName, interfaces.HeaderUserRole}
	router.Use(cors.New(corsCfg))
	return router
}
